package signatory

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Failure modes for a SignatoryKey transaction (spec.md §4.C). All are
// non-fatal rejections: the submitting transaction is dropped and no
// state changes.
var (
	ErrBadIndex     = errors.New("signatory: index out of range for current selector output")
	ErrBadKeyFormat = errors.New("signatory: secp256k1 pubkey must be a valid 33-byte compressed point")
	ErrBadSignature = errors.New("signatory: ed25519 signature does not authenticate the secp256k1 key under the consensus key at this index")
)

// VerifyKeyCommitment validates a (signatory_index, secp256k1_pubkey,
// ed25519_signature) commitment against the current selector output, per
// spec.md §4.C steps 1-3. index is checked against the full ranked
// selector output (§4.A), not the committed-key subset, since the
// validator submitting the commitment is, by definition, not yet in it.
// On success it returns the consensus key the caller should insert into
// the committed-key registry.
func VerifyKeyCommitment(ranked []Ranked, index int, secpPubKey, ed25519Sig []byte) ([32]byte, error) {
	if index < 0 || index >= len(ranked) {
		return [32]byte{}, ErrBadIndex
	}
	if len(secpPubKey) != 33 {
		return [32]byte{}, ErrBadKeyFormat
	}
	if _, err := btcec.ParsePubKey(secpPubKey); err != nil {
		return [32]byte{}, fmt.Errorf("%w: %v", ErrBadKeyFormat, err)
	}

	consensusKey := ranked[index].ConsensusKey
	if !VerifyConsensusSignature(consensusKey, secpPubKey, ed25519Sig) {
		return [32]byte{}, ErrBadSignature
	}
	return consensusKey, nil
}
