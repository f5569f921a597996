package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"ciphera/internal/domain"
)

const idFilename = "identity.json.enc"

// IdentityFileStore persists the local identity to disk, encrypted with an
// Argon2id-derived key-encryption-key.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir}
}

// SaveIdentity writes the encrypted identity to disk.
func (s *IdentityFileStore) SaveIdentity(id domain.Identity, passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	t, m, threads := argon2ParamsDefault()
	ct, err := encryptArgon2(passphrase, raw, t, m, threads)
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, idFilename)
	return os.WriteFile(path, ct, 0o600)
}

// LoadIdentity reads and decrypts the identity.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, idFilename)

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Identity{}, err
	}
	pt, err := decryptArgon2(passphrase, b)
	if err != nil {
		return domain.Identity{}, err
	}
	var id domain.Identity
	if err := json.Unmarshal(pt, &id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
