package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/crypto"
	"ciphera/internal/domain"
	"ciphera/internal/store"
)

func genTestIdentity(t *testing.T) domain.Identity {
	t.Helper()
	xPriv, xPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	edPriv, edPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	return domain.Identity{
		XPriv:  domain.IdentityPrivateKey(xPriv),
		XPub:   domain.IdentityPublicKey(xPub),
		EdPriv: edPriv,
		EdPub:  edPub,
	}
}

func TestIdentityFileStore_RoundTrip(t *testing.T) {
	s := store.NewIdentityFileStore(t.TempDir())
	id := genTestIdentity(t)

	require.NoError(t, s.SaveIdentity(id, "correct horse"))

	got, err := s.LoadIdentity("correct horse")
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestIdentityFileStore_WrongPassphraseFails(t *testing.T) {
	s := store.NewIdentityFileStore(t.TempDir())
	id := genTestIdentity(t)

	require.NoError(t, s.SaveIdentity(id, "correct horse"))

	_, err := s.LoadIdentity("wrong passphrase")
	require.Error(t, err)
}
