// Package signing implements the signing coordinator of spec.md §4.F: it
// computes BIP-143 sighashes over a SigningTx's inputs against the P2SS
// witness script, admits per-signatory signature submissions, and
// finalizes the transaction once the threshold is reached.
package signing

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// SigHashes computes the BIP-143 (segwit v0) sighash for every input of tx
// against witnessScript and SIGHASH_ALL, using the UTXO amount supplied for
// each input (spec.md §4.F, §6 "Sighashes use BIP-143 (segwit v0)").
//
// amounts must have one entry per tx.TxIn, in order.
func SigHashes(tx *wire.MsgTx, witnessScript []byte, amounts []int64) ([][]byte, error) {
	if len(amounts) != len(tx.TxIn) {
		return nil, fmt.Errorf("signing: got %d amounts for %d inputs", len(amounts), len(tx.TxIn))
	}

	// NewTxSigHashes looks up every input's previous output, so each input
	// is registered as the P2WSH output of witnessScript holding its amount.
	scriptHash := sha256.Sum256(witnessScript)
	pkScript := append([]byte{txscript.OP_0, txscript.OP_DATA_32}, scriptHash[:]...)
	prevOuts := make(map[wire.OutPoint]*wire.TxOut, len(tx.TxIn))
	for i, in := range tx.TxIn {
		prevOuts[in.PreviousOutPoint] = wire.NewTxOut(amounts[i], pkScript)
	}
	sigHashes := txscript.NewTxSigHashes(tx, txscript.NewMultiPrevOutFetcher(prevOuts))

	hashes := make([][]byte, len(tx.TxIn))
	for i := range tx.TxIn {
		h, err := txscript.CalcWitnessSigHash(witnessScript, sigHashes, txscript.SigHashAll, tx, i, amounts[i])
		if err != nil {
			return nil, fmt.Errorf("signing: computing sighash for input %d: %w", i, err)
		}
		hashes[i] = h
	}
	return hashes, nil
}
