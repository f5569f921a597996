package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/crypto"
	"ciphera/internal/domain"
	"ciphera/internal/store"
)

func TestPrekeyFileStore_SignedPreKeyRoundTrip(t *testing.T) {
	s := store.NewPrekeyFileStore(t.TempDir())

	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	id := domain.SignedPreKeyID("spk-1")
	sig := []byte("signature-bytes")

	require.NoError(t, s.SaveSignedPreKey(id, domain.SignedPreKeyPrivate(priv), domain.SignedPreKeyPublicKey(pub), sig))

	gotPriv, gotPub, gotSig, ok, err := s.LoadSignedPreKey(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.SignedPreKeyPrivate(priv), gotPriv)
	require.Equal(t, domain.SignedPreKeyPublicKey(pub), gotPub)
	require.Equal(t, sig, gotSig)
}

func TestPrekeyFileStore_LoadSignedPreKey_Missing(t *testing.T) {
	s := store.NewPrekeyFileStore(t.TempDir())

	_, _, _, ok, err := s.LoadSignedPreKey("does-not-exist")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPrekeyFileStore_CurrentSignedPreKeyID(t *testing.T) {
	s := store.NewPrekeyFileStore(t.TempDir())

	_, ok, err := s.CurrentSignedPreKeyID()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetCurrentSignedPreKeyID("spk-7"))

	id, ok, err := s.CurrentSignedPreKeyID()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.SignedPreKeyID("spk-7"), id)
}

var oneTimePairCounter int

func genOneTimePair(t *testing.T) domain.OneTimePreKeyPair {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	oneTimePairCounter++
	return domain.OneTimePreKeyPair{
		ID:      domain.OneTimePreKeyID("opk-" + string(rune('a'+oneTimePairCounter%26))),
		Private: domain.OneTimePreKeyPrivate(priv),
		Public:  domain.OneTimePreKeyPublicKey(pub),
	}
}

func TestPrekeyFileStore_OneTimePreKeys_SaveLoadConsume(t *testing.T) {
	s := store.NewPrekeyFileStore(t.TempDir())

	p1 := genOneTimePair(t)
	p2 := genOneTimePair(t)
	require.NoError(t, s.SaveOneTimePreKeys([]domain.OneTimePreKeyPair{p1, p2}))

	loaded, err := s.LoadOneTimePreKeys()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	publics, err := s.ListOneTimePreKeyPublics()
	require.NoError(t, err)
	require.Len(t, publics, 2)

	priv, ok, err := s.ConsumeOneTimePreKey(p1.Public)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, p1.Private, priv)

	remaining, err := s.LoadOneTimePreKeys()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, p2.Public, remaining[0].Public)

	_, ok, err = s.ConsumeOneTimePreKey(p1.Public)
	require.NoError(t, err)
	require.False(t, ok, "expected the already-consumed pre-key to be gone")
}
