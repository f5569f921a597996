// Package session implements the per-peer session directory binding X3DH
// key agreement to Double Ratchet state. It is transport-free: callers
// supply the peer's fetched public pre-key bundle and get back (or hand in)
// an EncryptedMessage envelope.
package session

import (
	"sync"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
	"ciphera/internal/prekey"
	"ciphera/internal/protocol/ratchet"
	"ciphera/internal/protocol/x3dh"
)

// Directory holds one local identity's ratchet state per peer, lazily
// materialising sessions on first send or first receive — sessions are
// keyed by peer username, never by envelope.
type Directory struct {
	me       types.Username
	identity types.Identity
	private  *prekey.PrivateBundle

	mu       sync.Mutex
	sessions map[types.Username]*ratchet.State
}

// NewDirectory builds a session directory for the local user, backed by
// their long-term identity and private pre-key bundle, used for consuming
// local one-time pre-keys and for installing the responder's DHs at the
// start of a session.
func NewDirectory(me types.Username, identity types.Identity, private *prekey.PrivateBundle) *Directory {
	return &Directory{
		me:       me,
		identity: identity,
		private:  private,
		sessions: make(map[types.Username]*ratchet.State),
	}
}

// HasSession reports whether a conversation with peer already exists.
func (d *Directory) HasSession(peer types.Username) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.sessions[peer]
	return ok
}

// Restore installs previously persisted ratchet state for peer, e.g. after
// loading it from a conversation store at process start.
func (d *Directory) Restore(peer types.Username, state ratchet.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := state
	d.sessions[peer] = &st
}

// Snapshot returns a copy of peer's current ratchet state for persistence.
func (d *Directory) Snapshot(peer types.Username) (ratchet.State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.sessions[peer]
	if !ok {
		return ratchet.State{}, false
	}
	return *st, true
}

// SendTo either reuses peer's existing session or constructs one as X3DH
// initiator, then encrypts plaintext under it. peerInfo is the peer's
// public pre-key bundle, fetched by the caller out of band.
func (d *Directory) SendTo(peerInfo types.PreKeyBundle, plaintext []byte) (types.EncryptedMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, isNew, ekPub, opkPub, err := d.ensureInitiatorSession(peerInfo)
	if err != nil {
		return types.EncryptedMessage{}, err
	}

	header, nonce, ct, err := state.Encrypt(plaintext)
	if err != nil {
		return types.EncryptedMessage{}, err
	}

	msg := types.EncryptedMessage{
		Sender:        d.me,
		Receiver:      peerInfo.Username,
		Nonce:         nonce,
		Ciphertext:    ct,
		RatchetPublic: header.RatchetPub,
		MessageIndex:  header.Index,
	}
	if isNew {
		msg.Ephemeral = &ekPub
		msg.OneTimePreKey = opkPub
	}
	return msg, nil
}

// ensureInitiatorSession returns peer's ratchet state, constructing it as
// X3DH initiator if this is the first contact with peer.
func (d *Directory) ensureInitiatorSession(
	peerInfo types.PreKeyBundle,
) (state *ratchet.State, isNew bool, ekPub types.EphemeralPublicKey, opkPub *types.OneTimePreKeyPublicKey, err error) {
	if existing, ok := d.sessions[peerInfo.Username]; ok {
		return existing, false, types.EphemeralPublicKey{}, nil, nil
	}

	if !x3dh.VerifySPK(peerInfo.SigningKey, peerInfo.SignedPreKey.Public, peerInfo.SignedPreKey.Signature) {
		return nil, false, types.EphemeralPublicKey{}, nil, types.ErrInvalidPreKeyBundle
	}

	ek, ekP, genErr := crypto.GenerateX25519()
	if genErr != nil {
		return nil, false, types.EphemeralPublicKey{}, nil, genErr
	}
	ephPriv, ephPub := types.EphemeralPrivateKey(ek), types.EphemeralPublicKey(ekP)

	var peerOPKPub *types.OneTimePreKeyPublicKey
	if entry, ok := (prekey.PublicBundle{PreKeyBundle: peerInfo}).ReserveOne(); ok {
		pub := entry.Public
		peerOPKPub = &pub
	}

	sessionKey, dhErr := x3dh.CreateSessionKey(
		types.IdentityPrivateKey(d.identity.XPriv), ephPriv,
		peerInfo.IdentityKey, peerInfo.SignedPreKey.Public, peerOPKPub,
	)
	if dhErr != nil {
		return nil, false, types.EphemeralPublicKey{}, nil, dhErr
	}

	dhs, dhsPub, genErr := crypto.GenerateX25519()
	if genErr != nil {
		return nil, false, types.EphemeralPublicKey{}, nil, genErr
	}

	newState, initErr := ratchet.NewAsInitiator(
		sessionKey,
		types.RatchetPrivateKey(dhs), types.RatchetPublicKey(dhsPub),
		types.RatchetPublicKey(peerInfo.SignedPreKey.Public),
	)
	if initErr != nil {
		return nil, false, types.EphemeralPublicKey{}, nil, initErr
	}
	d.sessions[peerInfo.Username] = newState
	return newState, true, ephPub, peerOPKPub, nil
}

// ReceiveFrom either reuses peer's existing session or constructs one as
// X3DH responder, then decrypts envelope under it. peerInfo supplies the
// sender's public identity key, needed for the responder-side X3DH
// computation but not itself carried in the envelope.
func (d *Directory) ReceiveFrom(peerInfo types.PreKeyBundle, envelope types.EncryptedMessage) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, ok := d.sessions[peerInfo.Username]
	if !ok {
		var err error
		state, err = d.constructResponderSession(peerInfo, envelope)
		if err != nil {
			return nil, err
		}
	}

	header := ratchet.Header{RatchetPub: envelope.RatchetPublic, Index: envelope.MessageIndex}
	return state.Decrypt(header, envelope.Nonce, envelope.Ciphertext)
}

func (d *Directory) constructResponderSession(
	peerInfo types.PreKeyBundle,
	envelope types.EncryptedMessage,
) (*ratchet.State, error) {
	if envelope.Ephemeral == nil {
		return nil, types.ErrInvalidEnvelope
	}

	var respOPKPriv *types.OneTimePreKeyPrivate
	if envelope.OneTimePreKey != nil {
		priv, ok := d.private.ConsumeOneTimePrivate(*envelope.OneTimePreKey)
		if !ok {
			return nil, types.ErrUnknownOneTimePreKey
		}
		respOPKPriv = &priv
	}

	sessionKey, err := x3dh.ReceiveSessionKey(
		types.IdentityPrivateKey(d.identity.XPriv), d.private.SignedPreKeyPrivate, respOPKPriv,
		peerInfo.IdentityKey, *envelope.Ephemeral,
	)
	if err != nil {
		return nil, err
	}

	// The responder's DHs at session start is its own signed pre-key pair,
	// not a fresh scratch key, so the first inbound DH ratchet step ties
	// directly to the DH the initiator already performed against it.
	state, err := ratchet.NewAsResponder(
		sessionKey,
		types.RatchetPrivateKey(d.private.SignedPreKeyPrivate),
		types.RatchetPublicKey(d.private.SignedPreKeyPublic),
	)
	if err != nil {
		return nil, err
	}
	d.sessions[peerInfo.Username] = state
	return state, nil
}
