package types

import "errors"

// Error kinds surfaced by the protocol core. Every error returned by
// send/receive is one of these, wrapped with %w at each layer boundary —
// nothing is retried or recovered silently inside the core.
var (
	// ErrInvalidPreKeyBundle is returned when a signed pre-key's signature
	// does not verify under the advertised identity key.
	ErrInvalidPreKeyBundle = errors.New("x3dh: signed pre-key signature does not verify")

	// ErrUnknownOneTimePreKey is returned when an envelope references a
	// one-time pre-key public that the local pool does not hold.
	ErrUnknownOneTimePreKey = errors.New("x3dh: unknown one-time pre-key")

	// ErrAuthFailure is returned when an AEAD tag fails to verify. Reported
	// to the caller, never retried inside the core.
	ErrAuthFailure = errors.New("ratchet: authentication failure")

	// ErrTooManySkippedMessages is returned when the skipped-message-key
	// buffer or the per-epoch skip distance bound would be exceeded.
	ErrTooManySkippedMessages = errors.New("ratchet: too many skipped messages")

	// ErrInvalidEnvelope is returned on malformed field sizes during decode.
	ErrInvalidEnvelope = errors.New("envelope: malformed field")
)
