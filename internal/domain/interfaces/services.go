package interfaces

import (
	"context"

	domaintypes "ciphera/internal/domain/types"
)

// IdentityService creates, retrieves, and inspects your identity keys.
type IdentityService interface {
	GenerateIdentity(passphrase string) (
		domaintypes.Identity,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
	FingerprintIdentity(passphrase string) (domaintypes.Fingerprint, error)
}

// PreKeyService generates and assembles your pre-key bundles.
type PreKeyService interface {
	GenerateAndStorePreKeys(passphrase string, count int) (
		domaintypes.SignedPreKeyPublicKey,
		[]domaintypes.OneTimePreKeyPublicKey,
		error,
	)
	LoadPreKeyBundle(
		passphrase string,
		username domaintypes.Username,
		serverURL string,
	) (
		domaintypes.PreKeyBundle,
		error,
	)

	// CachedBundle returns the bundle last assembled for username by
	// LoadPreKeyBundle, without touching the relay or re-deriving anything.
	CachedBundle(username domaintypes.Username) (domaintypes.PreKeyBundle, bool, error)
}

// MessageService establishes sessions lazily and encrypts, sends, fetches
// and decrypts messages over them. There is no separate session-handshake
// service: EnsureSession and SendMessage both materialise a conversation on
// first use, so callers never need to sequence a handshake before sending.
type MessageService interface {
	// EnsureSession establishes a conversation with peer if one doesn't
	// already exist, without the caller composing a message (an empty
	// first message carries the handshake). Used by the CLI's explicit
	// start-session command; SendMessage establishes the conversation on
	// its own when none exists.
	EnsureSession(ctx context.Context, passphrase string, me, peer domaintypes.Username) error

	SendMessage(
		ctx context.Context,
		passphrase string,
		from domaintypes.Username,
		to domaintypes.Username,
		plaintext []byte,
	) error
	ReceiveMessage(
		ctx context.Context,
		passphrase string,
		me domaintypes.Username,
		limit int,
	) ([]domaintypes.DecryptedMessage, error)
}
