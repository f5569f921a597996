package store

import (
	"path/filepath"
	"sync"

	"ciphera/internal/domain"
)

const (
	spkPairsFile   = "spk_pairs.json"
	opkPairsFile   = "opk_pairs.json"
	prekeyMetaFile = "prekey_meta.json"
)

// PrekeyFileStore persists SPK and OPK state to disk.
type PrekeyFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewPrekeyFileStore returns a PrekeyFileStore rooted at dir.
func NewPrekeyFileStore(dir string) *PrekeyFileStore {
	return &PrekeyFileStore{dir: dir}
}

// Internal record types.
type spkPair struct {
	Priv domain.SignedPreKeyPrivate   `json:"priv"`
	Pub  domain.SignedPreKeyPublicKey `json:"pub"`
	Sig  []byte                       `json:"sig"`
}

type opkPair struct {
	ID   domain.OneTimePreKeyID        `json:"id"`
	Priv domain.OneTimePreKeyPrivate   `json:"priv"`
	Pub  domain.OneTimePreKeyPublicKey `json:"pub"`
}

type prekeyMeta struct {
	CurrentSPKID domain.SignedPreKeyID `json:"current_spk_id"`
}

// SaveSignedPreKey stores a signed pre-key by id.
func (s *PrekeyFileStore) SaveSignedPreKey(
	id domain.SignedPreKeyID,
	priv domain.SignedPreKeyPrivate,
	pub domain.SignedPreKeyPublicKey,
	sig []byte,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, spkPairsFile)
	m := map[domain.SignedPreKeyID]spkPair{}
	_ = readJSON(path, &m)
	m[id] = spkPair{Priv: priv, Pub: pub, Sig: sig}
	return writeJSON(path, m, 0o600)
}

// LoadSignedPreKey retrieves a signed pre-key by id.
func (s *PrekeyFileStore) LoadSignedPreKey(
	id domain.SignedPreKeyID,
) (
	priv domain.SignedPreKeyPrivate,
	pub domain.SignedPreKeyPublicKey,
	sig []byte,
	ok bool,
	err error,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, spkPairsFile)
	m := map[domain.SignedPreKeyID]spkPair{}
	if err = readJSON(path, &m); err != nil {
		return priv, pub, nil, false, err
	}
	p, ok := m[id]
	if !ok {
		return priv, pub, nil, false, nil
	}
	return p.Priv, p.Pub, p.Sig, true, nil
}

// SaveOneTimePreKeys merges the provided one-time pre-key pairs into the store.
func (s *PrekeyFileStore) SaveOneTimePreKeys(pairs []domain.OneTimePreKeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, opkPairsFile)
	m := map[domain.OneTimePreKeyPublicKey]opkPair{}
	_ = readJSON(path, &m)
	for _, p := range pairs {
		m[p.Public] = opkPair{ID: p.ID, Priv: p.Private, Pub: p.Public}
	}
	return writeJSON(path, m, 0o600)
}

// LoadOneTimePreKeys returns every one-time pre-key pair currently on disk
// without consuming them.
func (s *PrekeyFileStore) LoadOneTimePreKeys() ([]domain.OneTimePreKeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, opkPairsFile)
	m := map[domain.OneTimePreKeyPublicKey]opkPair{}
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}

	out := make([]domain.OneTimePreKeyPair, 0, len(m))
	for _, p := range m {
		out = append(out, domain.OneTimePreKeyPair{ID: p.ID, Private: p.Priv, Public: p.Pub})
	}
	return out, nil
}

// ConsumeOneTimePreKey removes and returns a one-time pre-key private scalar
// by its PUBLIC value, the canonical lookup key for a handshake-referenced
// pre-key.
func (s *PrekeyFileStore) ConsumeOneTimePreKey(
	pub domain.OneTimePreKeyPublicKey,
) (
	priv domain.OneTimePreKeyPrivate,
	ok bool,
	err error,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, opkPairsFile)
	m := map[domain.OneTimePreKeyPublicKey]opkPair{}
	if err = readJSON(path, &m); err != nil {
		return priv, false, err
	}
	p, ok := m[pub]
	if !ok {
		return priv, false, nil
	}
	delete(m, pub)
	if err = writeJSON(path, m, 0o600); err != nil {
		return priv, false, err
	}
	return p.Priv, true, nil
}

// ListOneTimePreKeyPublics exposes only the public halves for bundling.
func (s *PrekeyFileStore) ListOneTimePreKeyPublics() ([]domain.OneTimePreKeyPublic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, opkPairsFile)
	m := map[domain.OneTimePreKeyPublicKey]opkPair{}
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}

	out := make([]domain.OneTimePreKeyPublic, 0, len(m))
	for _, p := range m {
		out = append(out, domain.OneTimePreKeyPublic{ID: p.ID, Public: p.Pub})
	}
	return out, nil
}

// SetCurrentSignedPreKeyID records which signed pre-key id is current.
func (s *PrekeyFileStore) SetCurrentSignedPreKeyID(id domain.SignedPreKeyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, prekeyMetaFile)
	meta := prekeyMeta{CurrentSPKID: id}
	return writeJSON(path, meta, 0o600)
}

// CurrentSignedPreKeyID returns the recorded current signed pre-key id.
func (s *PrekeyFileStore) CurrentSignedPreKeyID() (domain.SignedPreKeyID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, prekeyMetaFile)
	var meta prekeyMeta
	if err := readJSON(path, &meta); err != nil {
		return "", false, err
	}
	if meta.CurrentSPKID == "" {
		return "", false, nil
	}
	return meta.CurrentSPKID, true, nil
}

var _ domain.PreKeyStore = (*PrekeyFileStore)(nil)
