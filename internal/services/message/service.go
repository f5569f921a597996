package message

import (
	"context"
	"fmt"

	"ciphera/internal/domain"
	prekeycore "ciphera/internal/prekey"
	"ciphera/internal/session"
)

// Service sends and receives messages over the relay using the session
// directory, which binds X3DH and Double Ratchet behind SendTo and
// ReceiveFrom. There is no separate handshake step: the first call for a
// peer establishes the conversation, later calls reuse it.
type Service struct {
	idStore   domain.IdentityStore
	pkStore   domain.PreKeyStore
	convStore domain.ConversationStore
	relay     domain.RelayClient
}

// New constructs a Message Service with the given stores and relay client.
func New(
	idStore domain.IdentityStore,
	pkStore domain.PreKeyStore,
	convStore domain.ConversationStore,
	relay domain.RelayClient,
) *Service {
	return &Service{idStore: idStore, pkStore: pkStore, convStore: convStore, relay: relay}
}

// newDirectory loads the local identity and private pre-key bundle under
// passphrase and wraps them in a fresh session.Directory for me.
func (s *Service) newDirectory(passphrase string, me domain.Username) (*session.Directory, error) {
	id, err := s.idStore.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}

	spkID, ok, err := s.pkStore.CurrentSignedPreKeyID()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidPreKeyBundle
	}
	spkPriv, spkPub, sig, ok, err := s.pkStore.LoadSignedPreKey(spkID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidPreKeyBundle
	}
	opks, err := s.pkStore.LoadOneTimePreKeys()
	if err != nil {
		return nil, err
	}

	private := prekeycore.Restore(spkID, spkPriv, spkPub, sig, opks)
	return session.NewDirectory(me, id, private), nil
}

// EnsureSession establishes a conversation with peer if one doesn't already
// exist, without the caller having to compose a user-facing message. It is
// implemented as sending an empty plaintext: the handshake fields that
// bootstrap peer's side ride along exactly as they would on any first
// message.
func (s *Service) EnsureSession(ctx context.Context, passphrase string, me, peer domain.Username) error {
	if _, found, err := s.convStore.LoadConversation(peer); err != nil {
		return err
	} else if found {
		return nil
	}
	return s.SendMessage(ctx, passphrase, me, peer, []byte{})
}

// SendMessage encrypts plaintext for peer and posts it via the relay,
// establishing the conversation first if this is the first contact.
func (s *Service) SendMessage(
	ctx context.Context,
	passphrase string,
	from domain.Username,
	to domain.Username,
	plaintext []byte,
) error {
	dir, err := s.newDirectory(passphrase, from)
	if err != nil {
		return err
	}

	var peerBundle domain.PreKeyBundle
	if state, found, err := s.convStore.LoadConversation(to); err != nil {
		return err
	} else if found {
		dir.Restore(to, state)
		peerBundle.Username = to
	} else {
		peerBundle, err = s.relay.FetchPreKeyBundle(ctx, to)
		if err != nil {
			return fmt.Errorf("fetch pre-key bundle for %q: %w", to, err)
		}
	}

	msg, err := dir.SendTo(peerBundle, plaintext)
	if err != nil {
		return err
	}

	state, _ := dir.Snapshot(to)
	if err := s.convStore.SaveConversation(to, state); err != nil {
		return fmt.Errorf("save conversation %q: %w", to, err)
	}

	return s.relay.SendMessage(ctx, msg)
}

// ReceiveMessage fetches up to limit pending messages for me and decrypts
// each in order, bootstrapping conversations for first contact as needed.
// Only messages processed successfully are acknowledged.
func (s *Service) ReceiveMessage(
	ctx context.Context,
	passphrase string,
	me domain.Username,
	limit int,
) ([]domain.DecryptedMessage, error) {
	dir, err := s.newDirectory(passphrase, me)
	if err != nil {
		return nil, err
	}

	envelopes, err := s.relay.FetchMessages(ctx, me, limit)
	if err != nil {
		return nil, err
	}

	decrypted := make([]domain.DecryptedMessage, 0, len(envelopes))
	processed := 0

	for i, envelope := range envelopes {
		peer := envelope.Sender

		var peerBundle domain.PreKeyBundle
		if state, found, err := s.convStore.LoadConversation(peer); err != nil {
			return decrypted, err
		} else if found {
			dir.Restore(peer, state)
			peerBundle.Username = peer
		} else {
			peerBundle, err = s.relay.FetchPreKeyBundle(ctx, peer)
			if err != nil {
				return decrypted, fmt.Errorf("fetch pre-key bundle for %q: %w", peer, err)
			}
		}

		plaintext, err := dir.ReceiveFrom(peerBundle, envelope)
		if err != nil {
			return decrypted, fmt.Errorf("decrypt from %q: %w", peer, err)
		}

		if envelope.OneTimePreKey != nil {
			if _, _, err := s.pkStore.ConsumeOneTimePreKey(*envelope.OneTimePreKey); err != nil {
				return decrypted, fmt.Errorf("consume one-time pre-key from %q: %w", peer, err)
			}
		}

		state, _ := dir.Snapshot(peer)
		if err := s.convStore.SaveConversation(peer, state); err != nil {
			return decrypted, fmt.Errorf("save conversation %q: %w", peer, err)
		}

		decrypted = append(decrypted, domain.DecryptedMessage{
			From:      peer,
			To:        me,
			Plaintext: plaintext,
			Timestamp: envelope.Timestamp,
		})
		processed = i + 1
	}

	if processed > 0 {
		if err := s.relay.AckMessages(ctx, me, processed); err != nil {
			return decrypted, fmt.Errorf("ack %d messages: %w", processed, err)
		}
	}
	return decrypted, nil
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
