// Package disbursal implements the deterministic disbursal transaction
// builder of spec.md §4.E: it spends P2SS UTXOs to user withdrawal
// outputs plus a change output, apportioning the transaction fee across
// the withdrawal outputs only.
package disbursal

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Input is a P2SS UTXO being spent.
type Input struct {
	Txid   chainhash.Hash
	Vout   uint32
	Amount int64 // satoshis
}

// Output is a user withdrawal output.
type Output struct {
	ScriptPubKey []byte
	Amount       int64 // satoshis requested; Build deducts the fee from its own copy, not from this value
}

// Errors raised by Build, per spec.md §7.
var (
	ErrInsufficientFunds = errors.New("disbursal: inputs do not cover outputs plus room for change")
	ErrOutputBelowFee    = errors.New("disbursal: apportioned fee reduces a user output to zero or below")
)

// Result is the built transaction plus the bookkeeping §8 property 5
// ("fee conservation") needs to verify: total_in = total_out + fee_paid.
type Result struct {
	Tx          *wire.MsgTx
	Fee         int64
	ChangeIndex int
}

// Build assembles an unsigned disbursal transaction per spec.md §4.E:
//
//  1. every input is added, in order; total_in is their sum.
//  2. every user output is added, in order, and fails InsufficientFunds
//     the moment the running remainder would go non-positive.
//  3. a change output pays the remainder to changeScript.
//  4. fee = max(tx.byte_length, minRelayFee).
//  5. fee is apportioned across user outputs only as ceil(fee/n), leaving
//     the change output untouched; any output driven to zero or below
//     fails OutputBelowFee.
func Build(inputs []Input, outputs []Output, changeScript []byte, minRelayFee int64) (*Result, error) {
	tx := wire.NewMsgTx(wire.TxVersion)

	var totalIn int64
	for _, in := range inputs {
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Hash: in.Txid, Index: in.Vout},
		})
		totalIn += in.Amount
	}

	remaining := totalIn
	outs := make([]Output, len(outputs))
	for i, out := range outputs {
		outs[i] = Output{ScriptPubKey: out.ScriptPubKey, Amount: out.Amount}
		remaining -= out.Amount
		if remaining <= 0 {
			return nil, ErrInsufficientFunds
		}
	}

	for _, out := range outs {
		tx.AddTxOut(&wire.TxOut{Value: out.Amount, PkScript: out.ScriptPubKey})
	}
	changeIndex := len(outs)
	tx.AddTxOut(&wire.TxOut{Value: remaining, PkScript: changeScript})

	fee := int64(tx.SerializeSize())
	if fee < minRelayFee {
		fee = minRelayFee
	}

	if len(outs) == 0 {
		// No user outputs: the whole fee has nowhere to be charged. This
		// cannot happen for a SigningTx seeded from the pending-output
		// queue (§12 of SPEC_FULL.md), which never drains an empty queue.
		return nil, fmt.Errorf("disbursal: cannot apportion fee across zero user outputs")
	}
	feePer := ceilDiv(fee, int64(len(outs)))
	for i := range outs {
		outs[i].Amount -= feePer
		if outs[i].Amount <= 0 {
			return nil, ErrOutputBelowFee
		}
		tx.TxOut[i].Value = outs[i].Amount
	}

	return &Result{Tx: tx, Fee: feePer * int64(len(outs)), ChangeIndex: changeIndex}, nil
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
