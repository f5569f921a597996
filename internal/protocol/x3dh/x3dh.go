package x3dh

import (
	"fmt"

	"ciphera/internal/crypto"
	types "ciphera/internal/domain/types"
)

const infoSessionKey = "x3dh-session"

// CreateSessionKey runs the initiator side of X3DH: the concatenation
// DH1‖DH2‖DH3[‖DH4] expanded into a 32-byte session key. peerOPK is nil when
// the responder's bundle carried no one-time pre-key.
func CreateSessionKey(
	initIdentity types.IdentityPrivateKey,
	initEphemeral types.EphemeralPrivateKey,
	peerIdentity types.IdentityPublicKey,
	peerSPK types.SignedPreKeyPublicKey,
	peerOPK *types.OneTimePreKeyPublicKey,
) (types.SessionKey, error) {
	var out types.SessionKey

	dh1, err := crypto.DH(types.X25519Private(initIdentity), types.X25519Public(peerSPK)) // DH(IK_init, SPK_resp)
	if err != nil {
		return out, fmt.Errorf("x3dh: DH1: %w", err)
	}
	dh2, err := crypto.DH(types.X25519Private(initEphemeral), types.X25519Public(peerIdentity)) // DH(EK_init, IK_resp)
	if err != nil {
		return out, fmt.Errorf("x3dh: DH2: %w", err)
	}
	dh3, err := crypto.DH(types.X25519Private(initEphemeral), types.X25519Public(peerSPK)) // DH(EK_init, SPK_resp)
	if err != nil {
		return out, fmt.Errorf("x3dh: DH3: %w", err)
	}

	concat := make([]byte, 0, 32*4)
	concat = append(concat, dh1[:]...)
	concat = append(concat, dh2[:]...)
	concat = append(concat, dh3[:]...)
	crypto.Wipe(dh1[:])
	crypto.Wipe(dh2[:])
	crypto.Wipe(dh3[:])

	if peerOPK != nil {
		dh4, err := crypto.DH(types.X25519Private(initEphemeral), types.X25519Public(*peerOPK)) // DH(EK_init, OPK_resp)
		if err != nil {
			return out, fmt.Errorf("x3dh: DH4: %w", err)
		}
		concat = append(concat, dh4[:]...)
		crypto.Wipe(dh4[:])
	}

	copy(out[:], crypto.HKDFExpand(concat, infoSessionKey, 32))
	crypto.Wipe(concat)
	return out, nil
}

// ReceiveSessionKey runs the responder side of X3DH, mirroring
// CreateSessionKey with the DH operands swapped so the result is
// bit-identical to the initiator's. respOPK is nil when the handshake
// didn't consume one of the responder's one-time pre-keys.
func ReceiveSessionKey(
	respIdentity types.IdentityPrivateKey,
	respSPK types.SignedPreKeyPrivate,
	respOPK *types.OneTimePreKeyPrivate,
	initIdentity types.IdentityPublicKey,
	initEphemeral types.EphemeralPublicKey,
) (types.SessionKey, error) {
	var out types.SessionKey

	dh1, err := crypto.DH(types.X25519Private(respSPK), types.X25519Public(initIdentity)) // DH(SPK_resp, IK_init)
	if err != nil {
		return out, fmt.Errorf("x3dh: DH1: %w", err)
	}
	dh2, err := crypto.DH(types.X25519Private(respIdentity), types.X25519Public(initEphemeral)) // DH(IK_resp, EK_init)
	if err != nil {
		return out, fmt.Errorf("x3dh: DH2: %w", err)
	}
	dh3, err := crypto.DH(types.X25519Private(respSPK), types.X25519Public(initEphemeral)) // DH(SPK_resp, EK_init)
	if err != nil {
		return out, fmt.Errorf("x3dh: DH3: %w", err)
	}

	concat := make([]byte, 0, 32*4)
	concat = append(concat, dh1[:]...)
	concat = append(concat, dh2[:]...)
	concat = append(concat, dh3[:]...)
	crypto.Wipe(dh1[:])
	crypto.Wipe(dh2[:])
	crypto.Wipe(dh3[:])

	if respOPK != nil {
		dh4, err := crypto.DH(types.X25519Private(*respOPK), types.X25519Public(initEphemeral)) // DH(OPK_resp, EK_init)
		if err != nil {
			return out, fmt.Errorf("x3dh: DH4: %w", err)
		}
		concat = append(concat, dh4[:]...)
		crypto.Wipe(dh4[:])
	}

	copy(out[:], crypto.HKDFExpand(concat, infoSessionKey, 32))
	crypto.Wipe(concat)
	return out, nil
}

// VerifySPK checks a signed pre-key's signature against the claimed
// identity key. Callers must verify before performing any DH against the
// bundle, surfacing ErrInvalidPreKeyBundle on failure.
func VerifySPK(identity types.Ed25519Public, spk types.SignedPreKeyPublicKey, sig []byte) bool {
	return crypto.VerifyEd25519(identity, spk.Slice(), sig)
}
