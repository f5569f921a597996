package prekey

import (
	"context"

	"ciphera/internal/domain"
	prekeycore "ciphera/internal/prekey"
)

// Service generates, persists and publishes pre-key bundles.
type Service struct {
	idStore     domain.IdentityStore
	pkStore     domain.PreKeyStore
	bundleStore domain.PreKeyBundleStore
	relay       domain.RelayClient
}

// New constructs a pre-key Service. relay may be nil; LoadPreKeyBundle then
// only assembles the local bundle without publishing it.
func New(
	idStore domain.IdentityStore,
	pkStore domain.PreKeyStore,
	bundleStore domain.PreKeyBundleStore,
	relay domain.RelayClient,
) *Service {
	return &Service{idStore: idStore, pkStore: pkStore, bundleStore: bundleStore, relay: relay}
}

// GenerateAndStorePreKeys creates a fresh signed pre-key and count one-time
// pre-keys, persists them, and returns their public halves.
func (s *Service) GenerateAndStorePreKeys(
	passphrase string,
	count int,
) (domain.SignedPreKeyPublicKey, []domain.OneTimePreKeyPublicKey, error) {
	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.SignedPreKeyPublicKey{}, nil, err
	}

	bundle, err := prekeycore.Generate(id, count)
	if err != nil {
		return domain.SignedPreKeyPublicKey{}, nil, err
	}

	if err := s.pkStore.SaveSignedPreKey(
		bundle.SignedPreKeyID,
		bundle.SignedPreKeyPrivate,
		bundle.SignedPreKeyPublic,
		bundle.SignedPreKeySignature,
	); err != nil {
		return domain.SignedPreKeyPublicKey{}, nil, err
	}
	if err := s.pkStore.SetCurrentSignedPreKeyID(bundle.SignedPreKeyID); err != nil {
		return domain.SignedPreKeyPublicKey{}, nil, err
	}
	if err := s.pkStore.SaveOneTimePreKeys(bundle.OneTimePreKeys()); err != nil {
		return domain.SignedPreKeyPublicKey{}, nil, err
	}

	opkPubs := make([]domain.OneTimePreKeyPublicKey, len(bundle.OneTimePreKeys()))
	for i, otk := range bundle.OneTimePreKeys() {
		opkPubs[i] = otk.Public
	}
	return bundle.SignedPreKeyPublic, opkPubs, nil
}

// LoadPreKeyBundle assembles the local bundle for username from persisted
// pre-key state. When serverURL is non-empty and a relay client was wired
// in at construction, the bundle is also published there.
func (s *Service) LoadPreKeyBundle(
	passphrase string,
	username domain.Username,
	serverURL string,
) (domain.PreKeyBundle, error) {
	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}

	spkID, ok, err := s.pkStore.CurrentSignedPreKeyID()
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !ok {
		return domain.PreKeyBundle{}, domain.ErrInvalidPreKeyBundle
	}
	spkPriv, spkPub, sig, ok, err := s.pkStore.LoadSignedPreKey(spkID)
	if err != nil {
		return domain.PreKeyBundle{}, err
	}
	if !ok {
		return domain.PreKeyBundle{}, domain.ErrInvalidPreKeyBundle
	}
	_ = spkPriv

	opks, err := s.pkStore.ListOneTimePreKeyPublics()
	if err != nil {
		return domain.PreKeyBundle{}, err
	}

	bundle := domain.PreKeyBundle{
		Username:    username,
		IdentityKey: id.XPub,
		SigningKey:  id.EdPub,
		SignedPreKey: domain.SignedPreKeyPublic{
			ID:        spkID,
			Public:    spkPub,
			Signature: sig,
		},
		OneTimePreKeys: opks,
	}

	if serverURL != "" && s.relay != nil {
		if err := s.relay.RegisterPreKeyBundle(context.Background(), bundle); err != nil {
			return domain.PreKeyBundle{}, err
		}
	}

	// Cache the assembled bundle locally so it can be inspected or
	// re-published without a relay round-trip.
	if s.bundleStore != nil {
		if err := s.bundleStore.SavePreKeyBundle(bundle); err != nil {
			return domain.PreKeyBundle{}, err
		}
	}
	return bundle, nil
}

// CachedBundle returns the last bundle assembled for username, if any.
func (s *Service) CachedBundle(username domain.Username) (domain.PreKeyBundle, bool, error) {
	if s.bundleStore == nil {
		return domain.PreKeyBundle{}, false, nil
	}
	return s.bundleStore.LoadPreKeyBundle(username)
}

// Compile-time assertion that Service implements domain.PreKeyService.
var _ domain.PreKeyService = (*Service)(nil)
