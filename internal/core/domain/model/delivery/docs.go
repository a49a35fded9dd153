// Package delivery contains the delivery aggregate and its audit trail.
//
// A Delivery is the fulfillment leg of a paid order. It starts Queued,
// is claimed by exactly one worker, and then walks a closed status machine
// under that worker's ownership. Every mutation produces an append-only Log
// record; corrections inside the edit window become EditLog records that
// never touch the original entry.
package delivery
