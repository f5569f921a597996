package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/crypto"
	"ciphera/internal/domain"
	"ciphera/internal/store"
)

func genTestBundle(t *testing.T, username domain.Username) domain.PreKeyBundle {
	t.Helper()
	_, xPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	_, edPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	_, spkPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	return domain.PreKeyBundle{
		Username:    username,
		IdentityKey: domain.IdentityPublicKey(xPub),
		SigningKey:  edPub,
		SignedPreKey: domain.SignedPreKeyPublic{
			ID:     "spk-1",
			Public: domain.SignedPreKeyPublicKey(spkPub),
		},
	}
}

func TestBundleFileStore_RoundTrip(t *testing.T) {
	s := store.NewBundleFileStore(t.TempDir())
	bundle := genTestBundle(t, "alice")

	require.NoError(t, s.SavePreKeyBundle(bundle))

	got, ok, err := s.LoadPreKeyBundle("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, bundle, got)
}

func TestBundleFileStore_LoadWhenEmpty(t *testing.T) {
	s := store.NewBundleFileStore(t.TempDir())

	_, ok, err := s.LoadPreKeyBundle("nobody")
	require.NoError(t, err)
	require.False(t, ok)
}
