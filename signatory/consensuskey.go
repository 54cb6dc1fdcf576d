package signatory

import (
	"crypto/ed25519"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/hdevalence/ed25519consensus"
)

// VerifyConsensusSignature authenticates msg under the validator's
// consensus key. Used by §4.C to authenticate a committed secp256k1 key.
//
// Verification goes through hdevalence/ed25519consensus rather than
// crypto/ed25519.Verify: cometbft validators sign and verify under the
// ZIP215/cofactored equation, and consensus keys must agree on exactly
// one acceptance rule across every replica.
func VerifyConsensusSignature(consensusKey [32]byte, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519consensus.Verify(ed25519.PublicKey(consensusKey[:]), msg, sig)
}

// DeriveSigningScalar reproduces the exact scalar derivation a ref10-style
// ed25519 implementation performs when turning a 32-byte seed into the
// private signing scalar: SHA-512(seed), keep the low 32 bytes, then clamp
// per RFC 8032 (clear the low 3 bits and the high bit, set the
// second-highest bit). Design note §9 asks that this be an explicit,
// documented primitive rather than hidden inside a signing helper, since a
// different derivation silently produces a different signatory identity
// for what looks like the same seed.
func DeriveSigningScalar(seed [32]byte) (*edwards25519.Scalar, error) {
	h := sha512.Sum512(seed[:])

	var clamped [32]byte
	copy(clamped[:], h[:32])
	clamped[0] &= 248
	clamped[31] &= 127
	clamped[31] |= 64

	s, err := edwards25519.NewScalar().SetBytesWithClamping(clamped[:])
	if err != nil {
		return nil, fmt.Errorf("signatory: clamped scalar out of range: %w", err)
	}
	return s, nil
}
