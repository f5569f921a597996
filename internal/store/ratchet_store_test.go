package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ciphera/internal/protocol/ratchet"
	"ciphera/internal/store"
)

func TestConversationFileStore_RoundTrip(t *testing.T) {
	s := store.NewConversationFileStore(t.TempDir(), "conversation passphrase")

	var st ratchet.State
	st.IsInitiator = true
	st.RootKey[0] = 0x42
	st.SendChain.Index = 3

	require.NoError(t, s.SaveConversation("bob", st))

	got, ok, err := s.LoadConversation("bob")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, st, got)
}

func TestConversationFileStore_LoadMissing(t *testing.T) {
	s := store.NewConversationFileStore(t.TempDir(), "conversation passphrase")

	_, ok, err := s.LoadConversation("nobody")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConversationFileStore_MergesAcrossPeers(t *testing.T) {
	s := store.NewConversationFileStore(t.TempDir(), "conversation passphrase")

	var stA, stB ratchet.State
	stA.SendChain.Index = 1
	stB.SendChain.Index = 2

	require.NoError(t, s.SaveConversation("alice", stA))
	require.NoError(t, s.SaveConversation("bob", stB))

	gotA, ok, err := s.LoadConversation("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stA, gotA)

	gotB, ok, err := s.LoadConversation("bob")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, stB, gotB)
}
