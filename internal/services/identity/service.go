package identity

import (
	"ciphera/internal/crypto"
	"ciphera/internal/domain"
)

// Service creates, persists and inspects the local identity key pair.
type Service struct {
	store domain.IdentityStore
}

// New constructs an identity Service backed by store.
func New(store domain.IdentityStore) *Service {
	return &Service{store: store}
}

// GenerateIdentity creates a fresh X25519/Ed25519 identity, persists it
// encrypted under passphrase, and returns it along with its fingerprint.
func (s *Service) GenerateIdentity(passphrase string) (domain.Identity, domain.Fingerprint, error) {
	xPriv, xPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.Identity{}, "", err
	}
	edPriv, edPub, err := crypto.GenerateEd25519()
	if err != nil {
		return domain.Identity{}, "", err
	}

	id := domain.Identity{
		XPriv:  domain.IdentityPrivateKey(xPriv),
		XPub:   domain.IdentityPublicKey(xPub),
		EdPriv: edPriv,
		EdPub:  edPub,
	}

	if err := s.store.SaveIdentity(id, passphrase); err != nil {
		return domain.Identity{}, "", err
	}
	return id, crypto.Fingerprint(id.XPub.Slice()), nil
}

// LoadIdentity decrypts and returns the local identity.
func (s *Service) LoadIdentity(passphrase string) (domain.Identity, error) {
	return s.store.LoadIdentity(passphrase)
}

// FingerprintIdentity returns the fingerprint of the local identity key.
func (s *Service) FingerprintIdentity(passphrase string) (domain.Fingerprint, error) {
	id, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(id.XPub.Slice()), nil
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
