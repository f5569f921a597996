package ratchet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
	"ciphera/internal/protocol/ratchet"
	"ciphera/internal/protocol/x3dh"
)

func genX25519(t *testing.T) (types.X25519Private, types.X25519Public) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	return priv, pub
}

// newSessionPair builds a ratchet.State for each side of a freshly agreed
// X3DH session, mirroring session.Directory's construction: the responder's
// DHs is its own signed pre-key pair, not a scratch key.
func newSessionPair(t *testing.T) (a, b *ratchet.State) {
	t.Helper()

	aIK, aIKPub := genX25519(t)
	aEK, aEKPub := genX25519(t)
	bIK, bIKPub := genX25519(t)
	bSPK, bSPKPub := genX25519(t)

	sessionKeyA, err := x3dh.CreateSessionKey(
		types.IdentityPrivateKey(aIK), types.EphemeralPrivateKey(aEK),
		types.IdentityPublicKey(bIKPub), types.SignedPreKeyPublicKey(bSPKPub), nil,
	)
	require.NoError(t, err)
	sessionKeyB, err := x3dh.ReceiveSessionKey(
		types.IdentityPrivateKey(bIK), types.SignedPreKeyPrivate(bSPK), nil,
		types.IdentityPublicKey(aIKPub), types.EphemeralPublicKey(aEKPub),
	)
	require.NoError(t, err)
	require.Equal(t, sessionKeyA, sessionKeyB, "session keys diverged before ratchet init")

	aDHs, aDHsPub := genX25519(t)
	a, err = ratchet.NewAsInitiator(
		sessionKeyA, types.RatchetPrivateKey(aDHs), types.RatchetPublicKey(aDHsPub),
		types.RatchetPublicKey(bSPKPub),
	)
	require.NoError(t, err)
	b, err = ratchet.NewAsResponder(sessionKeyB, types.RatchetPrivateKey(bSPK), types.RatchetPublicKey(bSPKPub))
	require.NoError(t, err)
	return a, b
}

// S1: A sends "hello" to B; B receives; B sends "hi" to A; A receives. Both
// plaintexts recovered exactly.
func TestRoundTrip_BothDirections(t *testing.T) {
	a, b := newSessionPair(t)

	h1, n1, ct1, err := a.Encrypt([]byte("hello"))
	require.NoError(t, err)
	pt1, err := b.Decrypt(h1, n1, ct1)
	require.NoError(t, err)
	require.Equal(t, "hello", string(pt1))

	h2, n2, ct2, err := b.Encrypt([]byte("hi"))
	require.NoError(t, err)
	pt2, err := a.Decrypt(h2, n2, ct2)
	require.NoError(t, err)
	require.Equal(t, "hi", string(pt2))
}

// S2: A sends m1, m2, m3 in order; B receives m3, m1, m2. All three decrypt;
// the skipped buffer shrinks to 0 as the earlier indices are consumed.
func TestOutOfOrder_SkippedKeys(t *testing.T) {
	a, b := newSessionPair(t)

	type sent struct {
		h  ratchet.Header
		n  [12]byte
		ct []byte
	}
	var msgs []sent
	for _, pt := range []string{"m1", "m2", "m3"} {
		h, n, ct, err := a.Encrypt([]byte(pt))
		require.NoError(t, err)
		msgs = append(msgs, sent{h, n, ct})
	}

	pt3, err := b.Decrypt(msgs[2].h, msgs[2].n, msgs[2].ct)
	require.NoError(t, err)
	require.Equal(t, "m3", string(pt3))
	require.Len(t, b.Skipped, 2, "after m3")

	pt1, err := b.Decrypt(msgs[0].h, msgs[0].n, msgs[0].ct)
	require.NoError(t, err)
	require.Equal(t, "m1", string(pt1))
	require.Len(t, b.Skipped, 1, "after m1")

	pt2, err := b.Decrypt(msgs[1].h, msgs[1].n, msgs[1].ct)
	require.NoError(t, err)
	require.Equal(t, "m2", string(pt2))
	require.Len(t, b.Skipped, 0, "after m2")
}

// S3: A sends m1; B receives m1; B sends m2; A receives m2; A sends m3. A's
// ratchet public in m3 differs from its ratchet public in m1.
func TestDHRatchet_Freshness(t *testing.T) {
	a, b := newSessionPair(t)

	h1, n1, ct1, err := a.Encrypt([]byte("m1"))
	require.NoError(t, err)
	_, err = b.Decrypt(h1, n1, ct1)
	require.NoError(t, err)

	h2, n2, ct2, err := b.Encrypt([]byte("m2"))
	require.NoError(t, err)
	_, err = a.Decrypt(h2, n2, ct2)
	require.NoError(t, err)

	h3, _, _, err := a.Encrypt([]byte("m3"))
	require.NoError(t, err)

	require.NotEqual(t, h1.RatchetPub, h3.RatchetPub, "expected A's ratchet public to change after an outbound DH step")
}

// S4: flipping a single bit of the ciphertext yields AuthFailure; a fresh
// correct message afterwards still decrypts.
func TestTagSensitivity(t *testing.T) {
	a, b := newSessionPair(t)

	h, n, ct, err := a.Encrypt([]byte("hello"))
	require.NoError(t, err)

	corrupted := append([]byte(nil), ct...)
	corrupted[0] ^= 0x01
	_, err = b.Decrypt(h, n, corrupted)
	require.ErrorIs(t, err, types.ErrAuthFailure)

	h2, n2, ct2, err := a.Encrypt([]byte("fresh"))
	require.NoError(t, err)
	pt, err := b.Decrypt(h2, n2, ct2)
	require.NoError(t, err)
	require.Equal(t, "fresh", string(pt))
}

// Chain advance determinism: equal chain keys must produce equal (CK', MK) —
// exercised indirectly by confirming two sessions seeded from the same X3DH
// session key agree on their first message key.
func TestChainAdvance_Deterministic(t *testing.T) {
	a, b := newSessionPair(t)

	h, n, ct, err := a.Encrypt([]byte("same"))
	require.NoError(t, err)
	pt, err := b.Decrypt(h, n, ct)
	require.NoError(t, err)
	require.Equal(t, "same", string(pt))
}

func TestTooManySkippedMessages(t *testing.T) {
	a, b := newSessionPair(t)

	var last ratchet.Header
	var lastNonce [12]byte
	var lastCT []byte
	for i := 0; i < ratchet.MaxSkippedPerEpoch+2; i++ {
		h, n, ct, err := a.Encrypt([]byte("x"))
		require.NoErrorf(t, err, "iteration %d", i)
		last, lastNonce, lastCT = h, n, ct
	}

	_, err := b.Decrypt(last, lastNonce, lastCT)
	require.ErrorIs(t, err, types.ErrTooManySkippedMessages)
}
