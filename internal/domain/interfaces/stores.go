package interfaces

import (
	"ciphera/internal/protocol/ratchet"

	domaintypes "ciphera/internal/domain/types"
)

// IdentityStore persists your long-term identity keys.
type IdentityStore interface {
	SaveIdentity(id domaintypes.Identity, passphrase string) error
	LoadIdentity(passphrase string) (domaintypes.Identity, error)
}

// PreKeyStore manages signed and one-time pre-keys on disk.
type PreKeyStore interface {
	// Signed pre-key
	SaveSignedPreKey(
		id domaintypes.SignedPreKeyID,
		priv domaintypes.SignedPreKeyPrivate,
		pub domaintypes.SignedPreKeyPublicKey,
		sig []byte,
	) error
	LoadSignedPreKey(
		id domaintypes.SignedPreKeyID,
	) (
		priv domaintypes.SignedPreKeyPrivate,
		pub domaintypes.SignedPreKeyPublicKey,
		sig []byte,
		ok bool,
		err error,
	)

	// One-time pre-keys, stored as private/public pairs until consumed.
	SaveOneTimePreKeys(pairs []domaintypes.OneTimePreKeyPair) error

	// LoadOneTimePreKeys returns the full pairs currently on disk without
	// consuming them, used to rehydrate an in-memory session directory at
	// process start. Actual single-use consumption still goes through
	// ConsumeOneTimePreKey.
	LoadOneTimePreKeys() ([]domaintypes.OneTimePreKeyPair, error)

	// ConsumeOneTimePreKey looks up the private scalar for a requested
	// one-time pre-key by its PUBLIC value (the canonical lookup key, not
	// the UUID) and removes it from the pool on success — mutating
	// removal, consumed at most once.
	ConsumeOneTimePreKey(pub domaintypes.OneTimePreKeyPublicKey) (
		priv domaintypes.OneTimePreKeyPrivate,
		ok bool,
		err error,
	)
	ListOneTimePreKeyPublics() ([]domaintypes.OneTimePreKeyPublic, error)

	// Current signed pre-key selection
	SetCurrentSignedPreKeyID(id domaintypes.SignedPreKeyID) error
	CurrentSignedPreKeyID() (domaintypes.SignedPreKeyID, bool, error)
}

// PreKeyBundleStore caches the last bundle you registered.
type PreKeyBundleStore interface {
	SavePreKeyBundle(bundle domaintypes.PreKeyBundle) error
	LoadPreKeyBundle(username domaintypes.Username) (domaintypes.PreKeyBundle, bool, error)
}

// ConversationStore persists per-peer Double Ratchet state directly —
// there is no separate pre-ratchet "Session" type to store, since X3DH
// agreement and the first ratchet initialisation happen synchronously
// inside the same call.
type ConversationStore interface {
	SaveConversation(peer domaintypes.Username, state ratchet.State) error
	LoadConversation(peer domaintypes.Username) (ratchet.State, bool, error)
}
