// Package ratchet implements the Double Ratchet session state machine.
//
// The algorithm maintains a root key and two independent message chains
// (send and receive), each advanced by HMAC once per message so that keys
// are forward secure. When a peer's ratchet public changes, both sides mix
// a fresh Diffie-Hellman output into the root key and install a new chain.
// Out-of-order delivery is handled by buffering derived-but-unused message
// keys, keyed by the DH epoch they were derived under.
//
// Concurrency: State is NOT safe for concurrent use. Callers must serialise
// Encrypt/Decrypt per conversation.
package ratchet
