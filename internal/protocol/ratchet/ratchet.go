package ratchet

import (
	"crypto/rand"
	"errors"
	"fmt"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
)

const (
	infoDoubleRatchetRoot = "double-ratchet-root"
	infoRatchetCKSend     = "ratchet-ck-send"
	infoRatchetCKRecv     = "ratchet-ck-recv"
	hmacCtxMsgKey         = "msg_key"
	hmacCtxChain          = "ck"

	// MaxSkippedTotal bounds the size of the skipped-message-key buffer
	// across all DH epochs.
	MaxSkippedTotal = 2000
	// MaxSkippedPerEpoch bounds how far behind a single DH epoch's receive
	// chain is allowed to fall before giving up on catching it up.
	MaxSkippedPerEpoch = 1000
)

// ChainKey is a chain secret plus the index of the next message it will
// produce.
type ChainKey struct {
	Key   types.ChainSecret `json:"key"`
	Index uint32            `json:"index"`
}

// SkippedMessageKey is one entry of the skipped-key buffer, keyed by the DH
// epoch's ratchet public and the message index within that epoch.
type SkippedMessageKey struct {
	RatchetPub types.RatchetPublicKey `json:"ratchet_pub"`
	Index      uint32                 `json:"index"`
	Key        types.MessageKey       `json:"key"`
}

// State is the full per-peer Double Ratchet state. Not safe for concurrent
// use — Encrypt/Decrypt must be serialised per conversation.
type State struct {
	RootKey types.RootKey `json:"root_key"`

	SendChain ChainKey `json:"send_chain"`
	RecvChain ChainKey `json:"recv_chain"`

	DHs       types.RatchetPrivateKey `json:"dhs"`
	DHsPublic types.RatchetPublicKey  `json:"dhs_public"`

	DHr    types.RatchetPublicKey `json:"dhr"`
	HasDHr bool                   `json:"has_dhr"`

	LastDHr    types.RatchetPublicKey `json:"last_dhr"`
	HasLastDHr bool                   `json:"has_last_dhr"`

	IsInitiator bool `json:"is_initiator"`

	Skipped []SkippedMessageKey `json:"skipped"`
}

// ErrStateUninitialised is returned by Encrypt/Decrypt on a zero-value State.
var ErrStateUninitialised = errors.New("ratchet: state uninitialised")

// Header is the ratchet-driving metadata carried alongside ciphertext in an
// envelope: the sender's current ratchet public and the message's index
// within its sending chain.
type Header struct {
	RatchetPub types.RatchetPublicKey
	Index      uint32
}

// NewAsInitiator builds the ratchet state for the side that ran X3DH as
// initiator. dhs/dhsPublic is the freshly generated first DH ratchet key
// pair; remoteSPK is the responder's signed pre-key public, installed as
// the initial DHr. LastDHr starts absent, so the first Encrypt performs an
// outbound DH ratchet step against remoteSPK, matching the inbound step the
// responder takes on its first Decrypt.
func NewAsInitiator(
	sessionKey types.SessionKey,
	dhs types.RatchetPrivateKey,
	dhsPublic types.RatchetPublicKey,
	remoteSPK types.RatchetPublicKey,
) (*State, error) {
	root := crypto.HKDFExpand(sessionKey[:], infoDoubleRatchetRoot, 32)
	sendKey := crypto.HKDFExpand(root, infoRatchetCKSend, 32)
	recvKey := crypto.HKDFExpand(root, infoRatchetCKRecv, 32)

	st := &State{
		DHs:         dhs,
		DHsPublic:   dhsPublic,
		DHr:         remoteSPK,
		HasDHr:      true,
		IsInitiator: true,
	}
	copy(st.RootKey[:], root)
	copy(st.SendChain.Key[:], sendKey)
	copy(st.RecvChain.Key[:], recvKey)
	return st, nil
}

// NewAsResponder builds the ratchet state for the side that ran X3DH as
// responder. dhs/dhsPublic must be the responder's OWN signed pre-key pair,
// not a fresh scratch key — this ties the first inbound DH ratchet step to
// the DH the initiator already performed against it. DHr starts absent; it
// is installed on the first inbound envelope.
func NewAsResponder(
	sessionKey types.SessionKey,
	dhs types.RatchetPrivateKey,
	dhsPublic types.RatchetPublicKey,
) (*State, error) {
	root := crypto.HKDFExpand(sessionKey[:], infoDoubleRatchetRoot, 32)
	// The responder swaps send/recv so each side's "sending" is the other's
	// "receiving".
	recvKey := crypto.HKDFExpand(root, infoRatchetCKSend, 32)
	sendKey := crypto.HKDFExpand(root, infoRatchetCKRecv, 32)

	st := &State{
		DHs:         dhs,
		DHsPublic:   dhsPublic,
		IsInitiator: false,
	}
	copy(st.RootKey[:], root)
	copy(st.SendChain.Key[:], sendKey)
	copy(st.RecvChain.Key[:], recvKey)
	return st, nil
}

// advanceChain derives the message key for the current index and the
// replacement chain key for the next one, both by HMAC over the current
// chain secret under a distinct context string.
func advanceChain(ck ChainKey) (mk types.MessageKey, next ChainKey) {
	mk = types.MessageKey(crypto.HMAC256(ck.Key[:], []byte(hmacCtxMsgKey)))
	nextKey := crypto.HMAC256(ck.Key[:], []byte(hmacCtxChain))
	next = ChainKey{Key: types.ChainSecret(nextKey), Index: ck.Index + 1}
	return mk, next
}

// dhRatchetStep mixes a fresh DH output into the root key and installs a
// new chain in the given direction. On an outbound step a fresh DHs pair is
// generated first and used for the DH computation; an inbound step reuses
// the existing DHs scalar.
func (s *State) dhRatchetStep(outbound bool, remote types.RatchetPublicKey) error {
	if outbound {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			return fmt.Errorf("ratchet: generate DH ratchet key: %w", err)
		}
		s.DHs, s.DHsPublic = types.RatchetPrivateKey(priv), types.RatchetPublicKey(pub)
	}

	dhOut, err := crypto.DH(types.X25519Private(s.DHs), types.X25519Public(remote))
	if err != nil {
		return fmt.Errorf("ratchet: DH: %w", err)
	}
	prk := crypto.HKDFExtract(s.RootKey[:], dhOut[:])
	crypto.Wipe(dhOut[:])

	newRoot := crypto.HKDFExpand(prk, infoDoubleRatchetRoot, 32)
	// Both directions install the new chain under the same info string so
	// initiator and responder land on the same chain secret after
	// swapping which side calls it "send" vs "recv".
	newChainKey := crypto.HKDFExpand(prk, infoRatchetCKSend, 32)
	copy(s.RootKey[:], newRoot)

	if outbound {
		var key types.ChainSecret
		copy(key[:], newChainKey)
		s.SendChain = ChainKey{Key: key, Index: 0}
		s.LastDHr = remote
		s.HasLastDHr = true
	} else {
		var key types.ChainSecret
		copy(key[:], newChainKey)
		s.RecvChain = ChainKey{Key: key, Index: 0}
		s.DHr = remote
		s.HasDHr = true
	}
	return nil
}

// Encrypt performs the send-side step: a conditional outbound DH ratchet
// step, one symmetric chain advance, and an AEAD seal. It returns the
// header to embed in the envelope, a fresh nonce, and the ciphertext.
func (s *State) Encrypt(plaintext []byte) (Header, [12]byte, []byte, error) {
	if s == nil {
		return Header{}, [12]byte{}, nil, ErrStateUninitialised
	}

	if s.HasDHr && (!s.HasLastDHr || s.LastDHr != s.DHr) {
		if err := s.dhRatchetStep(true, s.DHr); err != nil {
			return Header{}, [12]byte{}, nil, err
		}
	}

	mk, next := advanceChain(s.SendChain)
	index := s.SendChain.Index
	s.SendChain = next

	var nonce [12]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		crypto.Wipe(mk[:])
		return Header{}, [12]byte{}, nil, fmt.Errorf("ratchet: nonce: %w", err)
	}
	ct, err := crypto.Seal([32]byte(mk), nonce, plaintext)
	crypto.Wipe(mk[:])
	if err != nil {
		return Header{}, [12]byte{}, nil, err
	}

	return Header{RatchetPub: s.DHsPublic, Index: index}, nonce, ct, nil
}

// Decrypt performs the receive-side steps in order: skipped-key probe,
// conditional inbound DH ratchet step, catch-up of the receiving chain with
// skipped-key buffering, chain advance, and AEAD open.
func (s *State) Decrypt(header Header, nonce [12]byte, ciphertext []byte) ([]byte, error) {
	if s == nil {
		return nil, ErrStateUninitialised
	}

	// (1) Skipped-key probe.
	if idx, ok := s.findSkipped(header.RatchetPub, header.Index); ok {
		mk := s.Skipped[idx].Key
		s.Skipped = append(s.Skipped[:idx], s.Skipped[idx+1:]...)
		pt, err := crypto.Open([32]byte(mk), nonce, ciphertext)
		crypto.Wipe(mk[:])
		if err != nil {
			// Authentication failure: do not re-insert the key.
			return nil, err
		}
		return pt, nil
	}

	// (2) Inbound DH ratchet step if the epoch changed.
	if !s.HasDHr || s.DHr != header.RatchetPub {
		if err := s.dhRatchetStep(false, header.RatchetPub); err != nil {
			return nil, err
		}
	}

	// (3) Catch up, buffering skipped keys.
	if header.Index > s.RecvChain.Index {
		if err := s.skipUntil(header.RatchetPub, header.Index); err != nil {
			return nil, err
		}
	}

	// (4) Advance to obtain MK at header.Index.
	mk, next := advanceChain(s.RecvChain)
	s.RecvChain = next

	// (5) AEAD open. A failure here does not roll back the chain advance
	// above: the receive chain has already moved past this index either
	// way, so retrying the same header would never succeed.
	pt, err := crypto.Open([32]byte(mk), nonce, ciphertext)
	crypto.Wipe(mk[:])
	if err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *State) findSkipped(pub types.RatchetPublicKey, index uint32) (int, bool) {
	for i, e := range s.Skipped {
		if e.RatchetPub == pub && e.Index == index {
			return i, true
		}
	}
	return -1, false
}

// skipUntil derives and buffers message keys for indices in
// [RecvChain.Index, target), enforcing the total and per-epoch caps.
func (s *State) skipUntil(pub types.RatchetPublicKey, target uint32) error {
	perEpoch := 0
	for _, e := range s.Skipped {
		if e.RatchetPub == pub {
			perEpoch++
		}
	}

	for s.RecvChain.Index < target {
		if len(s.Skipped) >= MaxSkippedTotal || perEpoch >= MaxSkippedPerEpoch {
			return types.ErrTooManySkippedMessages
		}
		mk, next := advanceChain(s.RecvChain)
		s.Skipped = append(s.Skipped, SkippedMessageKey{
			RatchetPub: pub,
			Index:      s.RecvChain.Index,
			Key:        mk,
		})
		s.RecvChain = next
		perEpoch++
	}
	return nil
}
