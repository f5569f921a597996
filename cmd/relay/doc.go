// Package main runs the in-memory HTTP relay used by Ciphera during development
// and tests. It stores published prekey bundles and queues encrypted messages
// for recipients until they fetch them.
//
// HTTP API
//
//	POST /register
//	    Store a user's PreKeyBundle (identity key, signing key, signed prekey
//	    + signature, one-time prekeys).
//
//	GET /prekey/{username}
//	    Return the latest published PreKeyBundle for {username}.
//
//	POST /msg/{user}
//	    Enqueue an EncryptedMessage destined to {user}. If Timestamp is zero,
//	    the server fills it with the current Unix time.
//
//	GET /msg/{user}?limit=N
//	    Return up to N queued EncryptedMessages for {user}. If limit is absent
//	    or greater than the queue length, all queued messages are returned.
//
//	POST /msg/{user}/ack { "count": N }
//	    Drop the first N queued messages for {user}. If N exceeds the queue
//	    length, the queue is cleared.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Requests and responses are CBOR. Non-2xx statuses carry a short error
//     message.
//   - When started with --log, a lightweight access log records method, path,
//     remote, status, bytes and duration for each request; logging is off by
//     default.
//   - The default listen address is :8080.
//
// This relay is intended for local use or as an untrusted middleman on a
// private network. It never sees plaintext or private keys; it only stores
// ciphertext and public bundles.
package main
