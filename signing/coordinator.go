package signing

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/mappum/bitcoin-peg/signatory"
)

// Errors raised by SigningTx.Submit, matching the admission rules of
// spec.md §4.F. The keeper layer wraps these into the module's registered
// cosmossdk.io/errors kinds (BadIndex, BadSignature, AlreadySigned).
var (
	ErrBadIndex       = errors.New("signing: signatory index out of range")
	ErrBadSignature   = errors.New("signing: signature does not verify against committed key")
	ErrAlreadySigned  = errors.New("signing: signatory already submitted for this SigningTx")
	ErrWrongSigCount  = errors.New("signing: signature count does not match input count")
	ErrNoCommittedKey = errors.New("signing: signatory has no committed key")
)

// SigningTx tracks one in-flight disbursal transaction through admission of
// per-signatory signatures up to finalization (spec.md §4.F).
type SigningTx struct {
	Tx            *wire.MsgTx
	WitnessScript []byte
	Amounts       []int64
	Set           signatory.Set

	sigHashes [][]byte
	bySig     map[int]map[int][]byte // input -> signatory index -> DER sig
	submitted map[int]bool           // signatory index -> has submitted
	finalized bool
}

// NewSigningTx binds an unsigned disbursal transaction to the signatory set
// whose witness script it spends, precomputing the BIP-143 sighash of every
// input.
func NewSigningTx(tx *wire.MsgTx, witnessScript []byte, amounts []int64, set signatory.Set) (*SigningTx, error) {
	hashes, err := SigHashes(tx, witnessScript, amounts)
	if err != nil {
		return nil, err
	}
	bySig := make(map[int]map[int][]byte, len(tx.TxIn))
	for i := range tx.TxIn {
		bySig[i] = make(map[int][]byte)
	}
	return &SigningTx{
		Tx:            tx,
		WitnessScript: witnessScript,
		Amounts:       amounts,
		Set:           set,
		sigHashes:     hashes,
		bySig:         bySig,
		submitted:     make(map[int]bool),
	}, nil
}

// Finalized reports whether the transaction has already been moved to the
// signed_tx slot.
func (s *SigningTx) Finalized() bool {
	return s.finalized
}

// Submit admits one signatory's signatures over every input, per the
// admission rules of spec.md §4.F:
//
//   - signatoryIndex must address a signatory in the bound set with a
//     committed key (BadIndex / NoCommittedKey).
//   - a signatory may submit at most once (AlreadySigned).
//   - sigs must carry exactly one DER signature per input, and each must
//     verify against the corresponding sighash under the committed key
//     (BadSignature).
//
// Once the submission leaves the cumulative voting power of submitting
// signatories at or above the set's threshold, the transaction is
// finalized in place: every input's witness is assembled and Finalized
// reports true. Submit on an already-finalized tx is a no-op error.
func (s *SigningTx) Submit(signatoryIndex int, sigs [][]byte) error {
	if s.finalized {
		return fmt.Errorf("signing: SigningTx already finalized")
	}
	if signatoryIndex < 0 || signatoryIndex >= len(s.Set.Signatories) {
		return ErrBadIndex
	}
	if s.submitted[signatoryIndex] {
		return ErrAlreadySigned
	}
	if len(sigs) != len(s.Tx.TxIn) {
		return ErrWrongSigCount
	}
	pubKey := s.Set.Signatories[signatoryIndex].PubKey
	if len(pubKey) != 33 {
		return ErrNoCommittedKey
	}

	for i, sig := range sigs {
		ok, err := VerifyDERSignature(pubKey, sig, s.sigHashes[i])
		if err != nil || !ok {
			return ErrBadSignature
		}
	}

	for i, sig := range sigs {
		s.bySig[i][signatoryIndex] = sig
	}
	s.submitted[signatoryIndex] = true

	if s.Set.VotingPowerOfIndexes(s.submitted) >= s.Set.Threshold {
		s.finalize()
	}
	return nil
}

func (s *SigningTx) finalize() {
	n := len(s.Set.Signatories)
	for i := range s.Tx.TxIn {
		s.Tx.TxIn[i].Witness = AssembleWitness(s.bySig[i], n, s.WitnessScript)
	}
	s.finalized = true
}
