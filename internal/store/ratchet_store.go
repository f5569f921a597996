package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"ciphera/internal/domain"
	"ciphera/internal/protocol/ratchet"
)

const conversationsFile = "conversations.json.enc"

// ConversationFileStore persists Double Ratchet session state to disk,
// encrypted with a passphrase-derived key-encryption-key (scrypt, distinct
// from the identity store's Argon2id KDF).
type ConversationFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewConversationFileStore returns a ConversationFileStore rooted at dir,
// unlocked with passphrase for the lifetime of the store.
func NewConversationFileStore(dir, passphrase string) *ConversationFileStore {
	return &ConversationFileStore{dir: dir, passphrase: passphrase}
}

func (s *ConversationFileStore) path() string {
	return filepath.Join(s.dir, conversationsFile)
}

func (s *ConversationFileStore) load() (map[domain.Username]ratchet.State, error) {
	m := make(map[domain.Username]ratchet.State)

	raw, err := readFile(s.path())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return m, nil
	}

	pt, err := decrypt(s.passphrase, raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(pt, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ConversationFileStore) save(m map[domain.Username]ratchet.State) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	ct, err := encrypt(s.passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFile(s.path(), ct, 0o600)
}

// SaveConversation writes one peer's ratchet state, merging it into the
// encrypted conversations blob.
func (s *ConversationFileStore) SaveConversation(peer domain.Username, state ratchet.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[peer] = state
	return s.save(m)
}

// LoadConversation retrieves a peer's ratchet state.
func (s *ConversationFileStore) LoadConversation(peer domain.Username) (ratchet.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return ratchet.State{}, false, err
	}
	st, ok := m[peer]
	return st, ok, nil
}

var _ domain.ConversationStore = (*ConversationFileStore)(nil)
