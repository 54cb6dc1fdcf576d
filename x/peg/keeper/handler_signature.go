package keeper

import (
	"bytes"
	"context"
	"fmt"

	sdkerrors "cosmossdk.io/errors"
	"github.com/btcsuite/btcd/wire"
	"github.com/mappum/bitcoin-peg/signatory"
	"github.com/mappum/bitcoin-peg/signing"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// signatoryRecordToSet rehydrates a persisted types.SignatorySet into the
// signatory.Set shape the script/signing packages operate on.
func signatoryRecordToSet(rec types.SignatorySet) signatory.Set {
	set := signatory.Set{Threshold: rec.Threshold}
	for _, s := range rec.Signatories {
		var consKey [32]byte
		copy(consKey[:], s.ConsensusKey)
		set.Signatories = append(set.Signatories, signatory.Signatory{
			ConsensusKey: consKey,
			VotingPower:  s.VotingPower,
			PubKey:       s.PubKey,
		})
	}
	return set
}

// loadSigningCoordinator reconstructs the in-memory signing.SigningTx from
// its persisted record, replaying every previously submitted signatory's
// signatures so admission rules (AlreadySigned, threshold) see the full
// history (spec.md §4.F). The coordinator is rebuilt fresh on every
// admitted Signature transaction rather than kept resident in memory,
// matching the rest of the core's "pure function of state" design (§5).
func (k Keeper) loadSigningCoordinator(ctx context.Context, rec types.SigningTxRecord) (*signing.SigningTx, error) {
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(rec.TxBytes)); err != nil {
		return nil, fmt.Errorf("peg: decoding signing tx: %w", err)
	}

	setRec, err := k.SignatorySets.Get(ctx, rec.Address)
	if err != nil {
		return nil, fmt.Errorf("peg: loading signatory set for %s: %w", rec.Address, err)
	}
	set := signatoryRecordToSet(setRec)

	coord, err := signing.NewSigningTx(&tx, rec.WitnessScript, rec.Amounts, set)
	if err != nil {
		return nil, err
	}
	for _, sub := range rec.Submitted {
		if err := coord.Submit(int(sub.SignatoryIndex), sub.Signatures); err != nil {
			return nil, fmt.Errorf("peg: replaying submission from signatory %d: %w", sub.SignatoryIndex, err)
		}
	}
	return coord, nil
}

// HandleSignature admits one signatory's per-input DER signatures against
// the current in-flight SigningTx (spec.md §4.F). Once cumulative
// submitted voting power reaches the signatory set's threshold, the
// transaction is finalized in place: its witnesses are assembled, it is
// moved to the signed_tx slot, and signing_tx is cleared.
func (k Keeper) HandleSignature(ctx context.Context, msg types.MsgSignature) error {
	if err := msg.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
	}

	rec, err := k.SigningTx.Get(ctx)
	if err != nil {
		return types.ErrNoSigningTx
	}

	coord, err := k.loadSigningCoordinator(ctx, rec)
	if err != nil {
		return err
	}

	if err := coord.Submit(int(msg.SignatoryIndex), msg.Signatures); err != nil {
		switch err {
		case signing.ErrBadIndex, signing.ErrNoCommittedKey:
			return types.ErrBadIndex
		case signing.ErrAlreadySigned:
			return types.ErrAlreadySigned
		case signing.ErrBadSignature, signing.ErrWrongSigCount:
			return types.ErrBadSignature
		default:
			return err
		}
	}

	if coord.Finalized() {
		var buf bytes.Buffer
		if err := coord.Tx.Serialize(&buf); err != nil {
			return fmt.Errorf("peg: serializing finalized tx: %w", err)
		}
		if err := k.SignedTx.Set(ctx, types.SignedTxRecord{TxBytes: buf.Bytes()}); err != nil {
			return err
		}
		if err := k.SigningTx.Remove(ctx); err != nil {
			return err
		}
		if err := k.unbindCommittedKeys(ctx, coord.Set); err != nil {
			return err
		}
		k.Logger(ctx).Info("disbursal transaction finalized", "address", rec.Address)
		return nil
	}

	rec.Submitted = append(rec.Submitted, types.SubmittedSignature{
		SignatoryIndex: msg.SignatoryIndex,
		Signatures:     msg.Signatures,
	})
	if err := k.SigningTx.Set(ctx, rec); err != nil {
		return err
	}
	k.Logger(ctx).Info("recorded signatory submission", "signatory_index", msg.SignatoryIndex)
	return nil
}
