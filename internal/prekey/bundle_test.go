package prekey_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
	"ciphera/internal/prekey"
	"ciphera/internal/protocol/x3dh"
)

func genIdentity(t *testing.T) types.Identity {
	t.Helper()
	xPriv, xPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	edPriv, edPub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	return types.Identity{
		XPriv:  types.IdentityPrivateKey(xPriv),
		XPub:   types.IdentityPublicKey(xPub),
		EdPriv: edPriv,
		EdPub:  edPub,
	}
}

func TestGenerate_SignatureVerifies(t *testing.T) {
	id := genIdentity(t)
	b, err := prekey.Generate(id, 3)
	require.NoError(t, err)
	pub := b.Public("bob", id.XPub, id.EdPub)

	require.True(t, x3dh.VerifySPK(pub.SigningKey, pub.SignedPreKey.Public, pub.SignedPreKey.Signature),
		"signed pre-key signature does not verify")
	require.Len(t, pub.OneTimePreKeys, 3)
}

func TestConsumeOneTimePrivate_ExactlyOnce(t *testing.T) {
	id := genIdentity(t)
	b, err := prekey.Generate(id, 1)
	require.NoError(t, err)

	opkPub := b.OneTimePreKeys()[0].Public

	priv, ok := b.ConsumeOneTimePrivate(opkPub)
	require.True(t, ok, "expected first consume to succeed")
	require.NotEqual(t, types.OneTimePreKeyPrivate{}, priv, "expected a non-zero private scalar")

	_, ok = b.ConsumeOneTimePrivate(opkPub)
	require.False(t, ok, "expected second consume of the same public to fail")
}

func TestConsumeOneTimePrivate_UnknownPublic(t *testing.T) {
	id := genIdentity(t)
	b, err := prekey.Generate(id, 0)
	require.NoError(t, err)
	_, foreignPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	_, ok := b.ConsumeOneTimePrivate(types.OneTimePreKeyPublicKey(foreignPub))
	require.False(t, ok, "expected consume of an unknown public to fail")
}

func TestPublicBundle_ReserveOne(t *testing.T) {
	id := genIdentity(t)
	b, err := prekey.Generate(id, 2)
	require.NoError(t, err)
	pub := prekey.PublicBundle{PreKeyBundle: b.Public("bob", id.XPub, id.EdPub)}

	entry, ok := pub.ReserveOne()
	require.True(t, ok, "expected a reservable one-time pre-key")
	require.NotEmpty(t, entry.ID, "expected a non-empty one-time pre-key ID")

	empty := prekey.PublicBundle{}
	_, ok = empty.ReserveOne()
	require.False(t, ok, "expected ReserveOne on an empty bundle to fail")
}
