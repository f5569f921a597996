package types

import "fmt"

// X25519Public is a Curve25519 public key. Freely copyable.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// MustX25519Public builds an X25519Public from exactly 32 bytes.
func MustX25519Public(b []byte) X25519Public {
	if len(b) != 32 {
		panic(fmt.Errorf("types: X25519 public: want 32 bytes, got %d", len(b)))
	}
	var out X25519Public
	copy(out[:], b)
	return out
}

// X25519Private is a Curve25519 private scalar. Owned exclusively by the
// object that generated it; never copied beyond its owner.
type X25519Private [32]byte

// Expose returns the raw scalar bytes. Named explicitly to flag that callers
// are handling sensitive key material.
func (k X25519Private) Expose() []byte { return k[:] }

// MustX25519Private builds an X25519Private from exactly 32 bytes.
func MustX25519Private(b []byte) X25519Private {
	if len(b) != 32 {
		panic(fmt.Errorf("types: X25519 private: want 32 bytes, got %d", len(b)))
	}
	var out X25519Private
	copy(out[:], b)
	return out
}

// Ed25519Public is an Ed25519 signing public key.
type Ed25519Public [32]byte

// Slice returns the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }

// MustEd25519Public builds an Ed25519Public from exactly 32 bytes.
func MustEd25519Public(b []byte) Ed25519Public {
	if len(b) != 32 {
		panic(fmt.Errorf("types: Ed25519 public: want 32 bytes, got %d", len(b)))
	}
	var out Ed25519Public
	copy(out[:], b)
	return out
}

// Ed25519Private is an Ed25519 signing private key (32-byte seed || 32-byte public).
type Ed25519Private [64]byte

// Expose returns the raw key bytes. Named explicitly to flag that callers
// are handling sensitive key material.
func (k Ed25519Private) Expose() []byte { return k[:] }

// MustEd25519Private builds an Ed25519Private from exactly 64 bytes.
func MustEd25519Private(b []byte) Ed25519Private {
	if len(b) != 64 {
		panic(fmt.Errorf("types: Ed25519 private: want 64 bytes, got %d", len(b)))
	}
	var out Ed25519Private
	copy(out[:], b)
	return out
}

// The types below give every protocol key role its own nominal type over
// the same 32-byte representation. They exist so the compiler rejects
// handing one role's key where another is expected — a root key passed as
// a message key, or an ephemeral public mistaken for a ratchet public,
// fails to compile rather than silently corrupting a session. Conversion
// between these types and the X25519/Ed25519 primitives above is explicit
// (e.g. X25519Private(someRatchetKey)) and happens only at the crypto
// package's call boundary.

// RootKey is the Double Ratchet root key: reseeded by each DH ratchet step
// and never used directly to seal or open a message.
type RootKey [32]byte

// Slice returns the key as a []byte.
func (k RootKey) Slice() []byte { return k[:] }

// ChainSecret is the symmetric chain key driving one side of a ratchet
// (sending or receiving); advanced by HMAC once per message.
type ChainSecret [32]byte

// Slice returns the key as a []byte.
func (k ChainSecret) Slice() []byte { return k[:] }

// MessageKey is a single-use symmetric key derived from a chain key, spent
// to seal or open exactly one ciphertext.
type MessageKey [32]byte

// Slice returns the key as a []byte.
func (k MessageKey) Slice() []byte { return k[:] }

// SessionKey is the shared secret X3DH produces; consumed exactly once to
// seed a Double Ratchet root key.
type SessionKey [32]byte

// Slice returns the key as a []byte.
func (k SessionKey) Slice() []byte { return k[:] }

// IdentityPublicKey is a user's long-term X25519 public key.
type IdentityPublicKey [32]byte

// Slice returns the key as a []byte.
func (p IdentityPublicKey) Slice() []byte { return p[:] }

// IdentityPrivateKey is a user's long-term X25519 private scalar.
type IdentityPrivateKey [32]byte

// Expose returns the raw scalar bytes.
func (k IdentityPrivateKey) Expose() []byte { return k[:] }

// SignedPreKeyPublicKey is the X25519 public half of a medium-term signed
// pre-key.
type SignedPreKeyPublicKey [32]byte

// Slice returns the key as a []byte.
func (p SignedPreKeyPublicKey) Slice() []byte { return p[:] }

// SignedPreKeyPrivate is the X25519 private scalar of a medium-term signed
// pre-key.
type SignedPreKeyPrivate [32]byte

// Expose returns the raw scalar bytes.
func (k SignedPreKeyPrivate) Expose() []byte { return k[:] }

// OneTimePreKeyPublicKey is the X25519 public half of a single-use pre-key.
type OneTimePreKeyPublicKey [32]byte

// Slice returns the key as a []byte.
func (p OneTimePreKeyPublicKey) Slice() []byte { return p[:] }

// OneTimePreKeyPrivate is the X25519 private scalar of a single-use
// pre-key, held until consumed at most once.
type OneTimePreKeyPrivate [32]byte

// Expose returns the raw scalar bytes.
func (k OneTimePreKeyPrivate) Expose() []byte { return k[:] }

// EphemeralPublicKey is an X3DH initiator's per-session ephemeral public.
type EphemeralPublicKey [32]byte

// Slice returns the key as a []byte.
func (p EphemeralPublicKey) Slice() []byte { return p[:] }

// EphemeralPrivateKey is an X3DH initiator's per-session ephemeral scalar,
// discarded once the session key is derived.
type EphemeralPrivateKey [32]byte

// Expose returns the raw scalar bytes.
func (k EphemeralPrivateKey) Expose() []byte { return k[:] }

// RatchetPublicKey is a Double Ratchet DH public, rotated every time a side
// starts a fresh sending chain.
type RatchetPublicKey [32]byte

// Slice returns the key as a []byte.
func (p RatchetPublicKey) Slice() []byte { return p[:] }

// RatchetPrivateKey is a Double Ratchet DH scalar paired with a
// RatchetPublicKey.
type RatchetPrivateKey [32]byte

// Expose returns the raw scalar bytes.
func (k RatchetPrivateKey) Expose() []byte { return k[:] }
