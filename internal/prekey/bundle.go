// Package prekey implements the pre-key bundle: a private bundle owned by a
// user (scalars plus publics) and the public snapshot derived from it that
// gets published for others to fetch.
package prekey

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
)

// PrivateBundle owns a user's medium-term and single-use pre-key scalars.
// Not safe for concurrent use without external locking: callers must hold a
// single exclusive section around "lookup OPK scalar and mark as consumed".
type PrivateBundle struct {
	SignedPreKeyID        types.SignedPreKeyID
	SignedPreKeyPrivate   types.SignedPreKeyPrivate
	SignedPreKeyPublic    types.SignedPreKeyPublicKey
	SignedPreKeySignature []byte
	SignedPreKeyCreatedAt time.Time

	oneTime []types.OneTimePreKeyPair
}

// Generate creates a fresh signed pre-key (signed by identity) plus count
// one-time pre-keys.
func Generate(identity types.Identity, count int) (*PrivateBundle, error) {
	spkPriv, spkPub, err := crypto.GenerateX25519()
	if err != nil {
		return nil, fmt.Errorf("prekey: generate signed pre-key: %w", err)
	}
	sig := crypto.SignEd25519(identity.EdPriv, spkPub.Slice())

	b := &PrivateBundle{
		SignedPreKeyID:        types.SignedPreKeyID(uuid.NewString()),
		SignedPreKeyPrivate:   types.SignedPreKeyPrivate(spkPriv),
		SignedPreKeyPublic:    types.SignedPreKeyPublicKey(spkPub),
		SignedPreKeySignature: sig,
		SignedPreKeyCreatedAt: time.Now(),
	}
	if err := b.AddOneTimePreKeys(count); err != nil {
		return nil, err
	}
	return b, nil
}

// Restore rebuilds a PrivateBundle from previously persisted pre-key
// material, e.g. when a process starts and reloads state from disk rather
// than generating fresh keys.
func Restore(
	spkID types.SignedPreKeyID,
	spkPriv types.SignedPreKeyPrivate,
	spkPub types.SignedPreKeyPublicKey,
	spkSig []byte,
	oneTime []types.OneTimePreKeyPair,
) *PrivateBundle {
	return &PrivateBundle{
		SignedPreKeyID:        spkID,
		SignedPreKeyPrivate:   spkPriv,
		SignedPreKeyPublic:    spkPub,
		SignedPreKeySignature: spkSig,
		oneTime:               append([]types.OneTimePreKeyPair(nil), oneTime...),
	}
}

// AddOneTimePreKeys generates and appends count fresh one-time pre-keys.
func (b *PrivateBundle) AddOneTimePreKeys(count int) error {
	for i := 0; i < count; i++ {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			return fmt.Errorf("prekey: generate one-time pre-key: %w", err)
		}
		b.oneTime = append(b.oneTime, types.OneTimePreKeyPair{
			ID:      types.OneTimePreKeyID(uuid.NewString()),
			Private: types.OneTimePreKeyPrivate(priv),
			Public:  types.OneTimePreKeyPublicKey(pub),
		})
	}
	return nil
}

// ConsumeOneTimePrivate looks up the private scalar for a requested
// one-time pre-key by its PUBLIC value and removes it from the pool on
// success. Returns false if the public is unknown — the signal that an
// inbound handshake referenced an already-consumed or foreign key.
func (b *PrivateBundle) ConsumeOneTimePrivate(pub types.OneTimePreKeyPublicKey) (types.OneTimePreKeyPrivate, bool) {
	for i, otk := range b.oneTime {
		if otk.Public == pub {
			b.oneTime = append(b.oneTime[:i], b.oneTime[i+1:]...)
			return otk.Private, true
		}
	}
	return types.OneTimePreKeyPrivate{}, false
}

// OneTimePreKeys returns the currently unconsumed one-time pre-key pairs.
func (b *PrivateBundle) OneTimePreKeys() []types.OneTimePreKeyPair {
	return b.oneTime
}

// Public derives the publishable snapshot of this bundle.
func (b *PrivateBundle) Public(
	username types.Username,
	identityPub types.IdentityPublicKey,
	signingPub types.Ed25519Public,
) types.PreKeyBundle {
	publics := make([]types.OneTimePreKeyPublic, len(b.oneTime))
	for i, otk := range b.oneTime {
		publics[i] = types.OneTimePreKeyPublic{ID: otk.ID, Public: otk.Public}
	}
	return types.PreKeyBundle{
		Username:    username,
		IdentityKey: identityPub,
		SigningKey:  signingPub,
		SignedPreKey: types.SignedPreKeyPublic{
			ID:        b.SignedPreKeyID,
			Public:    b.SignedPreKeyPublic,
			Signature: b.SignedPreKeySignature,
			CreatedAt: b.SignedPreKeyCreatedAt,
		},
		OneTimePreKeys: publics,
	}
}

// PublicBundle wraps a fetched PreKeyBundle with the reserve operation an
// initiator uses to pick a one-time pre-key for X3DH.
type PublicBundle struct {
	types.PreKeyBundle
}

// ReserveOne yields one one-time pre-key entry, or false if the bundle
// published none. Idempotent in the core — the relay is the authority on
// actual consumption.
func (p PublicBundle) ReserveOne() (types.OneTimePreKeyPublic, bool) {
	if len(p.OneTimePreKeys) == 0 {
		return types.OneTimePreKeyPublic{}, false
	}
	return p.OneTimePreKeys[0], true
}
