package crypto

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	domain "ciphera/internal/domain/types"
)

// Seal encrypts plaintext with ChaCha20-Poly1305 under key and nonce, with
// no associated data. The returned ciphertext carries the 16-byte tag
// appended by the AEAD construction.
func Seal(key [32]byte, nonce [12]byte, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("aead: new cipher: %w", err)
	}
	return aead.Seal(nil, nonce[:], plaintext, nil), nil
}

// Open decrypts ciphertext with ChaCha20-Poly1305 under key and nonce, with
// no associated data. Returns an error wrapping domain.ErrAuthFailure on tag
// mismatch.
func Open(key [32]byte, nonce [12]byte, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("aead: new cipher: %w", err)
	}
	pt, err := aead.Open(nil, nonce[:], ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w", domain.ErrAuthFailure)
	}
	return pt, nil
}
