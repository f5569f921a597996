package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
	"ciphera/internal/prekey"
	"ciphera/internal/session"
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

type party struct {
	username types.Username
	identity types.Identity
	private  *prekey.PrivateBundle
	dir      *session.Directory
}

func newParty(t *testing.T, name types.Username, numOPK int) *party {
	t.Helper()
	id := genIdentity(t)
	priv, err := prekey.Generate(id, numOPK)
	require.NoError(t, err)
	return &party{
		username: name,
		identity: id,
		private:  priv,
		dir:      session.NewDirectory(name, id, priv),
	}
}

func (p *party) publicBundle() types.PreKeyBundle {
	return p.private.Public(p.username, p.identity.XPub, p.identity.EdPub)
}

// S1: two users; A sends "hello" to B; B receives; B sends "hi" to A; A
// receives. Both plaintexts recovered exactly.
func TestSendReceive_BothDirections(t *testing.T) {
	a := newParty(t, "alice", 1)
	b := newParty(t, "bob", 1)

	msg, err := a.dir.SendTo(b.publicBundle(), []byte("hello"))
	require.NoError(t, err)
	require.NotNil(t, msg.Ephemeral, "first message must carry an ephemeral public")
	require.NotNil(t, msg.OneTimePreKey, "first message must carry a one-time pre-key public")

	pt, err := b.dir.ReceiveFrom(a.publicBundle(), msg)
	require.NoError(t, err)
	require.Equal(t, "hello", string(pt))

	reply, err := b.dir.SendTo(a.publicBundle(), []byte("hi"))
	require.NoError(t, err)
	require.Nil(t, reply.Ephemeral, "second message must not re-carry handshake fields")
	require.Nil(t, reply.OneTimePreKey, "second message must not re-carry handshake fields")

	pt2, err := a.dir.ReceiveFrom(b.publicBundle(), reply)
	require.NoError(t, err)
	require.Equal(t, "hi", string(pt2))
}

// S5: envelope carries opk_used referencing a pre-key B does not hold;
// receive surfaces UnknownOneTimePreKey and no session is created.
func TestReceive_UnknownOneTimePreKey(t *testing.T) {
	a := newParty(t, "alice", 1)
	b := newParty(t, "bob", 1)

	msg, err := a.dir.SendTo(b.publicBundle(), []byte("hello"))
	require.NoError(t, err)

	_, foreignPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	foreignOPK := types.OneTimePreKeyPublicKey(foreignPub)
	msg.OneTimePreKey = &foreignOPK

	_, err = b.dir.ReceiveFrom(a.publicBundle(), msg)
	require.ErrorIs(t, err, types.ErrUnknownOneTimePreKey)
	require.False(t, b.dir.HasSession(a.username), "no session should have been created on a failed handshake")
}

// S6: A signs its SPK with a key other than its published IK; any receiver
// returns InvalidPreKeyBundle before performing any DH.
func TestSend_InvalidPreKeyBundle(t *testing.T) {
	a := newParty(t, "alice", 0)
	b := newParty(t, "bob", 1)

	bundle := b.publicBundle()
	otherIdentity := genIdentity(t)
	bundle.SignedPreKey.Signature = crypto.SignEd25519(otherIdentity.EdPriv, bundle.SignedPreKey.Public.Slice())

	_, err := a.dir.SendTo(bundle, []byte("hello"))
	require.ErrorIs(t, err, types.ErrInvalidPreKeyBundle)
}

// OPK consumption: a given OPK scalar is used in exactly one successful
// responder-side handshake.
func TestOneTimePreKey_ConsumedOnce(t *testing.T) {
	a := newParty(t, "alice", 1)
	b := newParty(t, "bob", 1)

	msg, err := a.dir.SendTo(b.publicBundle(), []byte("hello"))
	require.NoError(t, err)
	_, err = b.dir.ReceiveFrom(a.publicBundle(), msg)
	require.NoError(t, err)

	_, ok := b.private.ConsumeOneTimePrivate(*msg.OneTimePreKey)
	require.False(t, ok, "expected the one-time pre-key to already be consumed")
}

// No one-time pre-keys published: X3DH proceeds with the 3-way DH only.
func TestSendReceive_NoOneTimePreKeys(t *testing.T) {
	a := newParty(t, "alice", 0)
	b := newParty(t, "bob", 0)

	msg, err := a.dir.SendTo(b.publicBundle(), []byte("hello"))
	require.NoError(t, err)
	require.Nil(t, msg.OneTimePreKey, "expected no one-time pre-key to be chosen")

	pt, err := b.dir.ReceiveFrom(a.publicBundle(), msg)
	require.NoError(t, err)
	require.Equal(t, "hello", string(pt))
}
