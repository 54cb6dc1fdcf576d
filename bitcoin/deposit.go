package bitcoin

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog/log"
)

// Errors raised by VerifyDeposit, matching the admission rules of spec.md
// §4.D (AlreadyProcessed is the caller's responsibility: the processed-tx
// set is owned by the keeper, not this package).
var (
	ErrBadProof          = fmt.Errorf("bitcoin: merkle proof does not verify against the header's merkle root")
	ErrNotPeggedPayment  = fmt.Errorf("bitcoin: transaction has no output paying a tracked P2SS address")
	ErrMissingCommitment = fmt.Errorf("bitcoin: transaction has no valid recipient commitment output")
	ErrBadFormat         = fmt.Errorf("bitcoin: malformed raw transaction")
)

// Deposit is the result of a verified deposit transaction: the P2SS output
// amount and the sidechain recipient it committed to.
type Deposit struct {
	Txid      chainhash.Hash
	Vout      uint32
	Amount    int64
	Recipient []byte
}

// IsTrackedP2SS reports whether pkScript pays a currently-or-historically
// tracked P2SS address (spec.md §4.D step 5). Implemented by the keeper,
// which owns signatory_sets[address].
type IsTrackedP2SS func(pkScript []byte) bool

// VerifyDeposit implements spec.md §4.D steps 1-6 for a single deposit
// admission. It does not check the processed-tx set (step 3); the caller
// checks that against its own state before/after calling this, since
// ownership of processed_txs is the keeper's per SPEC_FULL.md §5's
// shared-resource policy.
func VerifyDeposit(chain *HeaderChain, rawTx []byte, proof MerkleProof, headerHeight uint32, isTracked IsTrackedP2SS) (*Deposit, error) {
	header, err := chain.HeaderAt(headerHeight)
	if err != nil {
		log.Error().Err(err).Uint32("height", headerHeight).Msg("deposit verification failed: unknown header height")
		return nil, err
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(rawTx)); err != nil {
		log.Error().Err(err).Msg("deposit verification failed: malformed transaction")
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	txid := tx.TxHash()

	if proof.Height != headerHeight || !proof.Verify(txid, header.MerkleRoot) {
		log.Error().Str("txid", txid.String()).Msg("deposit verification failed: bad merkle proof")
		return nil, ErrBadProof
	}

	var amount int64 = -1
	var vout uint32
	for i, out := range tx.TxOut {
		if isTracked(out.PkScript) {
			amount = out.Value
			vout = uint32(i)
			break
		}
	}
	if amount < 0 {
		log.Error().Str("txid", txid.String()).Msg("deposit verification failed: no output pays a tracked P2SS address")
		return nil, ErrNotPeggedPayment
	}

	recipient, err := findRecipientCommitment(&tx)
	if err != nil {
		log.Error().Str("txid", txid.String()).Msg("deposit verification failed: missing recipient commitment")
		return nil, err
	}

	log.Info().Str("txid", txid.String()).Uint32("vout", vout).Int64("amount", amount).Msg("deposit verified")
	return &Deposit{Txid: txid, Vout: vout, Amount: amount, Recipient: recipient}, nil
}

// DecodeTxID decodes rawTx far enough to compute its txid without running
// the full proof/payment/commitment verification, letting a caller check
// the processed-tx set (spec.md §4.D step 3) before the more expensive
// checks in VerifyDeposit (steps 4-6).
func DecodeTxID(rawTx []byte) (chainhash.Hash, error) {
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(rawTx)); err != nil {
		return chainhash.Hash{}, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return tx.TxHash(), nil
}

// findRecipientCommitment looks for an OP_RETURN output encoding the
// sidechain recipient as `1 byte length | address bytes` (spec.md §4.D
// step 6, pinned in SPEC_FULL.md §12's resolution of the Open Question).
func findRecipientCommitment(tx *wire.MsgTx) ([]byte, error) {
	for _, out := range tx.TxOut {
		tokenizer := txscript.MakeScriptTokenizer(0, out.PkScript)
		if !tokenizer.Next() || tokenizer.Opcode() != txscript.OP_RETURN {
			continue
		}
		if !tokenizer.Next() {
			continue
		}
		data := tokenizer.Data()
		if len(data) < 1 {
			continue
		}
		length := int(data[0])
		if length != len(data)-1 {
			continue
		}
		return data[1:], nil
	}
	return nil, ErrMissingCommitment
}
