// Package order implements the Order aggregate and its Invoice: one rental
// transaction with a snapshotted cart and snapshotted monetary totals.
//
// Key business rules:
//   - Exactly one customer identity: an authenticated user or a guest contact
//   - Line items and the five monetary fields (subtotal, tax, delivery fee,
//     total, currency) are fixed at creation and never recomputed
//   - Order status: AwaitingPayment -> Paid -> Completed, with Canceled
//     reachable from any non-terminal status
//   - Invoice status transitions independently (payment confirmation path)
//
// The transactional composition of reservation + order + invoice + delivery
// lives in the application layer; this package only guards per-aggregate
// invariants.
package order
