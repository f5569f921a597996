package types

import "time"

// SignedPreKeyPublic is the public half of a medium-term signed pre-key
// (SPK): its X25519 public, the Ed25519 signature over that public produced
// by the owner's identity key, a UUID, and a creation timestamp.
type SignedPreKeyPublic struct {
	ID        SignedPreKeyID        `json:"id"`
	Public    SignedPreKeyPublicKey `json:"public"`
	Signature []byte                `json:"signature"`
	CreatedAt time.Time             `json:"created_at"`
}

// OneTimePreKeyPublic is the public half of a single-use pre-key (OPK),
// published in a user's bundle and consumed at most once.
type OneTimePreKeyPublic struct {
	ID     OneTimePreKeyID        `json:"id"`
	Public OneTimePreKeyPublicKey `json:"public"`
}

// OneTimePreKeyPair is a locally held OPK before or after publishing: the
// scalar stays on disk until consumed by its public key; only the public
// half ever leaves the device.
type OneTimePreKeyPair struct {
	ID      OneTimePreKeyID        `json:"id"`
	Private OneTimePreKeyPrivate   `json:"private"`
	Public  OneTimePreKeyPublicKey `json:"public"`
}

// PreKeyBundle is the publishable snapshot of a user's public keys:
// username, identity key, signing key, signed pre-key, and the one-time
// pre-key pool. It carries no separate user ID; the username identifies it.
type PreKeyBundle struct {
	Username       Username              `json:"username"`
	IdentityKey    IdentityPublicKey     `json:"identity_key"`
	SigningKey     Ed25519Public         `json:"signing_key"`
	SignedPreKey   SignedPreKeyPublic    `json:"signed_pre_key"`
	OneTimePreKeys []OneTimePreKeyPublic `json:"one_time_pre_keys,omitempty"`
}
