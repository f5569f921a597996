// Package session binds X3DH key agreement to Double Ratchet state behind
// two operations, SendTo and ReceiveFrom, that materialise a peer's session
// on first use and reuse it thereafter.
//
// Concurrency: Directory serialises access to its session map and to the
// local private pre-key bundle internally; callers may invoke SendTo and
// ReceiveFrom for different peers concurrently from multiple goroutines.
package session
