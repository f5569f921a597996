// Package x3dh implements the X3DH key-agreement used to bootstrap a Double Ratchet
// session between two parties.
//
// # Overview
//
// X3DH lets an initiator derive a shared 32-byte session key with a responder who has
// published a prekey bundle. The bundle contains:
//   - Identity key (X25519)
//   - Signed prekey (X25519) and its Ed25519 signature
//   - Optional one-time prekeys (X25519)
//
// # Flows
//
// Initiator (CreateSessionKey), given its identity and ephemeral scalars and
// the responder's IK, SPK and optional OPK publics:
//  1. Compute DH values (IKa·SPKb, EKa·IKb, EKa·SPKb[, EKa·OPKb]).
//  2. HKDF-Expand the concatenated DH transcript into the session key.
//
// Responder (ReceiveSessionKey), given its identity, SPK and optional OPK
// scalars and the initiator's IK and EK publics:
//  1. Compute the symmetric DH set (SPKb·IKa, IKb·EKa, SPKb·EKa[, OPKb·EKa]).
//  2. HKDF-Expand the same transcript to the identical session key.
//
// Signature checking, ephemeral generation and one-time pre-key lookup are
// left to the caller: VerifySPK reports whether a signed prekey's signature
// verifies, and internal/session performs the lookup and generation.
//
// # Errors
//
// This package does not return ErrInvalidPreKeyBundle or
// ErrUnknownOneTimePreKey itself; VerifySPK returns a bool and callers map
// a failure to ErrInvalidPreKeyBundle. Errors from CreateSessionKey and
// ReceiveSessionKey wrap lower-level DH failures.
//
// # Security notes
//
// Only public material is sent over the wire. One-time prekeys, when present,
// improve forward secrecy by ensuring the handshake mixes in a value that is
// deleted after first use.
package x3dh
