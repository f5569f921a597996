package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HMAC256 computes HMAC-SHA256(key, msg), returning the full 32-byte tag.
func HMAC256(key, msg []byte) [32]byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// HKDFExtract is RFC 5869 §2.2: PRK = HMAC-Hash(salt, IKM). A nil salt is
// treated as a zero-filled key of hash length, per the RFC.
func HKDFExtract(salt, ikm []byte) []byte {
	if salt == nil {
		salt = make([]byte, sha256.Size)
	}
	mac := hmac.New(sha256.New, salt)
	mac.Write(ikm)
	return mac.Sum(nil)
}

// HKDFExpand is RFC 5869 §2.3, expanding a pseudorandom key directly —
// callers that already hold a PRK (rather than raw IKM) skip HKDFExtract
// and call this alone, matching the protocol's "HKDF-Expand(PRK = ..., info
// = ..., salt = none)" derivations.
func HKDFExpand(prk []byte, info string, length int) []byte {
	mac := hmac.New(sha256.New, prk)
	var t, out []byte
	infoBytes := []byte(info)
	for counter := byte(1); len(out) < length; counter++ {
		mac.Reset()
		mac.Write(t)
		mac.Write(infoBytes)
		mac.Write([]byte{counter})
		t = mac.Sum(nil)
		out = append(out, t...)
	}
	return out[:length]
}
