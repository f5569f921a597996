package x3dh_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
	"ciphera/internal/protocol/x3dh"
)

func mustX25519(t *testing.T) (types.X25519Private, types.X25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	return priv, pub
}

func TestSessionKey_BitIdentical_NoOPK(t *testing.T) {
	aliceIK, aliceIKPub := mustX25519(t)
	aliceEK, aliceEKPub := mustX25519(t)
	bobIK, bobIKPub := mustX25519(t)
	bobSPK, bobSPKPub := mustX25519(t)

	rkA, err := x3dh.CreateSessionKey(
		types.IdentityPrivateKey(aliceIK), types.EphemeralPrivateKey(aliceEK),
		types.IdentityPublicKey(bobIKPub), types.SignedPreKeyPublicKey(bobSPKPub), nil,
	)
	require.NoError(t, err)
	rkB, err := x3dh.ReceiveSessionKey(
		types.IdentityPrivateKey(bobIK), types.SignedPreKeyPrivate(bobSPK), nil,
		types.IdentityPublicKey(aliceIKPub), types.EphemeralPublicKey(aliceEKPub),
	)
	require.NoError(t, err)
	require.Equal(t, rkA, rkB, "session keys differ (no OPK)")
}

func TestSessionKey_BitIdentical_WithOPK(t *testing.T) {
	aliceIK, aliceIKPub := mustX25519(t)
	aliceEK, aliceEKPub := mustX25519(t)
	bobIK, bobIKPub := mustX25519(t)
	bobSPK, bobSPKPub := mustX25519(t)
	bobOPK, bobOPKPub := mustX25519(t)

	bobOPKPubKey := types.OneTimePreKeyPublicKey(bobOPKPub)
	bobOPKPrivKey := types.OneTimePreKeyPrivate(bobOPK)

	rkA, err := x3dh.CreateSessionKey(
		types.IdentityPrivateKey(aliceIK), types.EphemeralPrivateKey(aliceEK),
		types.IdentityPublicKey(bobIKPub), types.SignedPreKeyPublicKey(bobSPKPub), &bobOPKPubKey,
	)
	require.NoError(t, err)
	rkB, err := x3dh.ReceiveSessionKey(
		types.IdentityPrivateKey(bobIK), types.SignedPreKeyPrivate(bobSPK), &bobOPKPrivKey,
		types.IdentityPublicKey(aliceIKPub), types.EphemeralPublicKey(aliceEKPub),
	)
	require.NoError(t, err)
	require.Equal(t, rkA, rkB, "session keys differ (with OPK)")
}

func TestSessionKey_DifferentEphemeralsDifferentKeys(t *testing.T) {
	aliceIK, _ := mustX25519(t)
	aliceEK1, _ := mustX25519(t)
	aliceEK2, _ := mustX25519(t)
	bobIK, bobIKPub := mustX25519(t)
	_, bobSPKPub := mustX25519(t)
	_ = bobIK

	rk1, err := x3dh.CreateSessionKey(
		types.IdentityPrivateKey(aliceIK), types.EphemeralPrivateKey(aliceEK1),
		types.IdentityPublicKey(bobIKPub), types.SignedPreKeyPublicKey(bobSPKPub), nil,
	)
	require.NoError(t, err)
	rk2, err := x3dh.CreateSessionKey(
		types.IdentityPrivateKey(aliceIK), types.EphemeralPrivateKey(aliceEK2),
		types.IdentityPublicKey(bobIKPub), types.SignedPreKeyPublicKey(bobSPKPub), nil,
	)
	require.NoError(t, err)
	require.NotEqual(t, rk1, rk2, "session keys from distinct ephemerals must differ")
}

func TestVerifySPK(t *testing.T) {
	edPriv, edPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	_, spkPub := mustX25519(t)
	spkPubKey := types.SignedPreKeyPublicKey(spkPub)
	sig := crypto.SignEd25519(edPriv, spkPubKey.Slice())

	require.True(t, x3dh.VerifySPK(edPub, spkPubKey, sig), "expected signature to verify")

	otherEdPriv, _, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	badSig := crypto.SignEd25519(otherEdPriv, spkPubKey.Slice())
	require.False(t, x3dh.VerifySPK(edPub, spkPubKey, badSig), "expected signature from wrong key to fail verification")
}
