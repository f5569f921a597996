package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const argon2BlobFormatVersion = 1

// argon2Blob is the on-disk JSON structure for the identity store, which
// derives its key-encryption-key with Argon2id rather than scrypt, kept as
// a distinct KDF from the conversation/ratchet blob's.
type argon2Blob struct {
	V       int    `json:"v"`
	Salt    []byte `json:"salt"`
	Time    uint32 `json:"argon2_time"`
	Memory  uint32 `json:"argon2_memory_kib"`
	Threads uint8  `json:"argon2_threads"`
	Cipher  []byte `json:"cipher"`
}

// argon2ParamsDefault are the Argon2id tunables used for new identity blobs.
func argon2ParamsDefault() (time, memory uint32, threads uint8) {
	return 3, 64 * 1024, 4
}

func encryptArgon2(passphrase string, raw []byte, time, memory uint32, threads uint8) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(passphrase), salt[:], time, memory, threads, chacha20poly1305.KeySize)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte // zero nonce; salt-bound key guarantees uniqueness
	ct := aead.Seal(nil, nonce[:], raw, salt[:])

	return json.Marshal(argon2Blob{
		V:       argon2BlobFormatVersion,
		Salt:    salt[:],
		Time:    time,
		Memory:  memory,
		Threads: threads,
		Cipher:  ct,
	})
}

func decryptArgon2(passphrase string, b []byte) ([]byte, error) {
	var bl argon2Blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > argon2BlobFormatVersion {
		return nil, fmt.Errorf("unsupported identity blob version %d", bl.V)
	}

	key := argon2.IDKey([]byte(passphrase), bl.Salt, bl.Time, bl.Memory, bl.Threads, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [12]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
	if err != nil {
		return nil, errWrongPassphrase
	}
	return pt, nil
}
