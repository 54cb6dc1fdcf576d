package keeper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/mappum/bitcoin-peg/constants"
	"github.com/mappum/bitcoin-peg/disbursal"
	"github.com/mappum/bitcoin-peg/script"
	"github.com/mappum/bitcoin-peg/signatory"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// DrainIfNeeded implements the disbursal trigger SPEC_FULL.md §12 adds
// atop component E: every DrainEveryBlocks blocks, or once
// DrainAtQueueSize outputs have queued, whichever comes first, the
// pending-output queue is drained into a fresh SigningTx built against the
// current P2SS address's UTXOs. A zero config field disables that
// trigger. Draining is a no-op while a SigningTx is already in flight or
// the queue is empty, since spec.md §1 excludes multi-tx batching of a
// single drain but a drain can still wait for the next trigger.
func (k Keeper) DrainIfNeeded(ctx context.Context, blockHeight int64) error {
	if _, err := k.SigningTx.Get(ctx); err == nil {
		return nil // a disbursal is already in flight
	}

	queueSize, err := k.pendingOutputCount(ctx)
	if err != nil {
		return err
	}
	if queueSize == 0 {
		return nil
	}

	cfg := k.PendingDrainCfg
	byBlocks := cfg.DrainEveryBlocks > 0 && blockHeight%cfg.DrainEveryBlocks == 0
	bySize := cfg.DrainAtQueueSize > 0 && queueSize >= cfg.DrainAtQueueSize
	if !byBlocks && !bySize {
		return nil
	}

	return k.drain(ctx)
}

func (k Keeper) pendingOutputCount(ctx context.Context) (int, error) {
	n := 0
	err := k.PendingOutputs.Walk(ctx, nil, func(uint64, types.PendingOutput) (bool, error) {
		n++
		return false, nil
	})
	return n, err
}

// drain builds a SigningTx spending every UTXO owned by the current P2SS
// address against every currently queued pending output, per the
// disbursal builder of spec.md §4.E. Spent UTXOs are removed from the
// active set and drained outputs are removed from the queue: the spec
// describes a UTXO as "consumed when spent by a disbursal", and a
// SigningTx's transition out of null is the point that disbursal commits
// to spending them (see DESIGN.md).
func (k Keeper) drain(ctx context.Context) error {
	address, err := k.CurrentAddress.Get(ctx)
	if err != nil {
		return nil // no current address published yet
	}
	setRec, err := k.SignatorySets.Get(ctx, address)
	if err != nil {
		return fmt.Errorf("peg: no signatory set recorded for current address %s: %w", address, err)
	}
	set := signatoryRecordToSet(setRec)

	var inputs []disbursal.Input
	var amounts []int64
	var spentKeys []string
	err = k.Utxos.Walk(ctx, nil, func(key string, u types.UTXO) (bool, error) {
		if u.Address != address {
			return false, nil
		}
		txid, err := chainhash.NewHashFromStr(u.Txid)
		if err != nil {
			return false, fmt.Errorf("peg: stored UTXO has malformed txid %s: %w", u.Txid, err)
		}
		inputs = append(inputs, disbursal.Input{Txid: *txid, Vout: u.Vout, Amount: u.Amount})
		amounts = append(amounts, u.Amount)
		spentKeys = append(spentKeys, key)
		return false, nil
	})
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return nil // no spendable UTXOs at the current address yet
	}

	var outputs []disbursal.Output
	var drainedKeys []uint64
	err = k.PendingOutputs.Walk(ctx, nil, func(seq uint64, out types.PendingOutput) (bool, error) {
		outputs = append(outputs, disbursal.Output{ScriptPubKey: out.Script, Amount: out.Amount})
		drainedKeys = append(drainedKeys, seq)
		return false, nil
	})
	if err != nil {
		return err
	}

	witnessScript, err := script.BuildWitnessScript(set)
	if err != nil {
		return fmt.Errorf("peg: rebuilding witness script for current set: %w", err)
	}
	changeScript, err := script.PayToWitnessScriptHash(witnessScript)
	if err != nil {
		return fmt.Errorf("peg: building change scriptPubKey: %w", err)
	}

	minRelayFee := k.GetConst(ctx, constants.MinRelayFee)
	result, err := disbursal.Build(inputs, outputs, changeScript, minRelayFee)
	if err != nil {
		switch err {
		case disbursal.ErrInsufficientFunds:
			return types.ErrInsufficientFunds
		case disbursal.ErrOutputBelowFee:
			return types.ErrOutputBelowFee
		default:
			return err
		}
	}

	var txBytes bytes.Buffer
	if err := result.Tx.Serialize(&txBytes); err != nil {
		return fmt.Errorf("peg: serializing unsigned disbursal tx: %w", err)
	}

	if err := k.SigningTx.Set(ctx, types.SigningTxRecord{
		TxBytes:       txBytes.Bytes(),
		WitnessScript: witnessScript,
		Amounts:       amounts,
		Address:       address,
	}); err != nil {
		return err
	}

	for _, key := range spentKeys {
		if err := k.Utxos.Remove(ctx, key); err != nil {
			return err
		}
	}
	for _, seq := range drainedKeys {
		if err := k.PendingOutputs.Remove(ctx, seq); err != nil {
			return err
		}
	}

	if err := k.bindCommittedKeys(ctx, set, result.Tx.TxHash().String()); err != nil {
		return err
	}

	k.Logger(ctx).Info("drained pending outputs into SigningTx",
		"address", address, "inputs", len(inputs), "outputs", len(outputs), "fee", result.Fee)
	return nil
}

// bindCommittedKeys marks every committed signatory key in set as bound to
// txID, so a re-commitment attempt while that SigningTx is still in flight
// is rejected by HandleSignatoryKey (SPEC_FULL.md §12's resolution of the
// §9 Open Question). Uncommitted signatories (no PubKey yet) are skipped.
func (k Keeper) bindCommittedKeys(ctx context.Context, set signatory.Set, txID string) error {
	for _, sig := range set.Signatories {
		if sig.PubKey == nil {
			continue
		}
		key := consensusKeyHex(sig.ConsensusKey)
		ck, err := k.CommittedKeys.Get(ctx, key)
		if err != nil {
			continue
		}
		ck.BoundTxID = txID
		if err := k.CommittedKeys.Set(ctx, key, ck); err != nil {
			return err
		}
	}
	return nil
}

// unbindCommittedKeys clears the BoundTxID set by bindCommittedKeys, once
// the SigningTx they were bound to finalizes.
func (k Keeper) unbindCommittedKeys(ctx context.Context, set signatory.Set) error {
	for _, sig := range set.Signatories {
		if sig.PubKey == nil {
			continue
		}
		key := consensusKeyHex(sig.ConsensusKey)
		ck, err := k.CommittedKeys.Get(ctx, key)
		if err != nil {
			continue
		}
		ck.BoundTxID = ""
		if err := k.CommittedKeys.Set(ctx, key, ck); err != nil {
			return err
		}
	}
	return nil
}
