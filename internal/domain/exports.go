package domain

import (
	interfaces "ciphera/internal/domain/interfaces"
	types "ciphera/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username            = types.Username
	Fingerprint         = types.Fingerprint
	SignedPreKeyID      = types.SignedPreKeyID
	OneTimePreKeyID     = types.OneTimePreKeyID
	ConversationID      = types.ConversationID
	Identity            = types.Identity
	OneTimePreKeyPair   = types.OneTimePreKeyPair
	OneTimePreKeyPublic = types.OneTimePreKeyPublic
	SignedPreKeyPublic  = types.SignedPreKeyPublic
	PreKeyBundle        = types.PreKeyBundle
	EncryptedMessage    = types.EncryptedMessage
	DecryptedMessage    = types.DecryptedMessage
	X25519Public        = types.X25519Public
	X25519Private       = types.X25519Private
	Ed25519Public       = types.Ed25519Public
	Ed25519Private      = types.Ed25519Private

	RootKey                = types.RootKey
	ChainSecret            = types.ChainSecret
	MessageKey             = types.MessageKey
	SessionKey             = types.SessionKey
	IdentityPublicKey      = types.IdentityPublicKey
	IdentityPrivateKey     = types.IdentityPrivateKey
	SignedPreKeyPublicKey  = types.SignedPreKeyPublicKey
	SignedPreKeyPrivate    = types.SignedPreKeyPrivate
	OneTimePreKeyPublicKey = types.OneTimePreKeyPublicKey
	OneTimePreKeyPrivate   = types.OneTimePreKeyPrivate
	EphemeralPublicKey     = types.EphemeralPublicKey
	EphemeralPrivateKey    = types.EphemeralPrivateKey
	RatchetPublicKey       = types.RatchetPublicKey
	RatchetPrivateKey      = types.RatchetPrivateKey
)

// Sentinel errors shared across packages.
var (
	ErrInvalidPreKeyBundle    = types.ErrInvalidPreKeyBundle
	ErrUnknownOneTimePreKey   = types.ErrUnknownOneTimePreKey
	ErrAuthFailure            = types.ErrAuthFailure
	ErrTooManySkippedMessages = types.ErrTooManySkippedMessages
	ErrInvalidEnvelope        = types.ErrInvalidEnvelope
)

// Constructors forwarded for convenience at call sites that only import domain.
var (
	MustX25519Public  = types.MustX25519Public
	MustX25519Private = types.MustX25519Private
	MustEd25519Public = types.MustEd25519Public
)

// MustEd25519Private builds an Ed25519Private from exactly 64 bytes.
func MustEd25519Private(b []byte) Ed25519Private { return types.MustEd25519Private(b) }

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService    = interfaces.IdentityService
	PreKeyService      = interfaces.PreKeyService
	MessageService     = interfaces.MessageService
	RelayClient        = interfaces.RelayClient
	IdentityStore      = interfaces.IdentityStore
	PreKeyStore        = interfaces.PreKeyStore
	PreKeyBundleStore  = interfaces.PreKeyBundleStore
	ConversationStore  = interfaces.ConversationStore
)
