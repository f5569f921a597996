package types

// EncryptedMessage is the on-the-wire envelope carrying ciphertext plus the
// metadata needed to drive the responder's ratchet. CBOR tags pin the
// encoded map keys so the format doesn't drift with Go field renames.
type EncryptedMessage struct {
	Sender        Username                `cbor:"sender" json:"sender"`
	Receiver      Username                `cbor:"receiver" json:"receiver"`
	Nonce         [12]byte                `cbor:"nonce" json:"nonce"`
	Ciphertext    []byte                  `cbor:"ciphertext" json:"ciphertext"`
	RatchetPublic RatchetPublicKey        `cbor:"ratchet_pub" json:"ratchet_pub"`
	MessageIndex  uint32                  `cbor:"message_index" json:"message_index"`
	OneTimePreKey *OneTimePreKeyPublicKey `cbor:"opk_used,omitempty" json:"opk_used,omitempty"`
	Ephemeral     *EphemeralPublicKey     `cbor:"ek_used,omitempty" json:"ek_used,omitempty"`
	Timestamp     int64                   `cbor:"timestamp,omitempty" json:"timestamp,omitempty"`
}

// DecryptedMessage is what the message service's Recv returns to the CLI.
type DecryptedMessage struct {
	From      Username `json:"from"`
	To        Username `json:"to"`
	Plaintext []byte   `json:"plaintext"`
	Timestamp int64    `json:"timestamp"`
}
