// Package unit implements the inventory ledger: the Unit aggregate that
// tracks one physical rentable asset and its exclusive allocation to orders.
//
// Key business rules:
//   - A unit carries at most one order reference, and only while Reserved or Rented
//   - Status changes follow a closed transition table; units are never deleted
//   - Every status change is recorded as an append-only HistoryEntry
//
// Exclusive allocation under concurrency is enforced at the persistence layer
// through conditional updates (reserve-where-available); the aggregate
// enforces the same rules for in-memory consistency.
package unit
