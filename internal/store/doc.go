// Package store provides the in-memory typed keyspace for VoltKV.
//
// A Store maps keys to exactly one of the domain value kinds (string,
// list, stream, set). Every exported operation is atomic: a single
// mutex serializes all keyspace and waitlist mutations, so no command
// can observe a partially-applied change and the FIFO wake ordering of
// blocked list consumers is preserved without per-key locking.
//
// Blocking semantics live in the waitlist: a pop on an empty list
// registers a waiter, and a later push hands elements directly to
// waiters (front of queue first) without making them visible to other
// consumers.
//
// The store holds no expiry metadata and nothing is persisted; values
// live until overwritten, deleted, or flushed.
package store
