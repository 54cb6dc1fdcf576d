package disbursal

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func txid(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

var changeScript = []byte{0x00, 0x14, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}

func TestBuildFeeConservation(t *testing.T) {
	inputs := []Input{{Txid: txid(1), Vout: 0, Amount: 5_0000_0000}}
	outputs := []Output{{ScriptPubKey: changeScript, Amount: 1_0000_0000}}

	res, err := Build(inputs, outputs, changeScript, 1000)
	require.NoError(t, err)

	var totalIn int64
	for _, in := range inputs {
		totalIn += in.Amount
	}
	var totalOut int64
	for _, out := range res.Tx.TxOut {
		totalOut += out.Value
	}
	require.Equal(t, totalIn, totalOut+res.Fee)
	require.GreaterOrEqual(t, res.Fee, int64(1000))
	require.GreaterOrEqual(t, res.Fee, int64(res.Tx.SerializeSize()))
}

func TestBuildChangeOutputUntouchedByFee(t *testing.T) {
	inputs := []Input{{Txid: txid(1), Vout: 0, Amount: 5_0000_0000}}
	outputs := []Output{
		{ScriptPubKey: changeScript, Amount: 1_0000_0000},
		{ScriptPubKey: changeScript, Amount: 1_0000_0000},
	}
	res, err := Build(inputs, outputs, changeScript, 1000)
	require.NoError(t, err)

	remaining := int64(5_0000_0000 - 2_0000_0000)
	require.Equal(t, remaining, res.Tx.TxOut[res.ChangeIndex].Value)
}

func TestBuildInsufficientFunds(t *testing.T) {
	inputs := []Input{{Txid: txid(1), Vout: 0, Amount: 10_000}}
	outputs := []Output{{ScriptPubKey: changeScript, Amount: 10_000}}
	_, err := Build(inputs, outputs, changeScript, 1000)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestBuildOutputBelowFee(t *testing.T) {
	inputs := []Input{{Txid: txid(1), Vout: 0, Amount: 2000}}
	outputs := []Output{{ScriptPubKey: changeScript, Amount: 100}}
	_, err := Build(inputs, outputs, changeScript, 1_000_000)
	require.ErrorIs(t, err, ErrOutputBelowFee)
}

func TestBuildFeeApportionedAcrossUserOutputsOnly(t *testing.T) {
	inputs := []Input{{Txid: txid(1), Vout: 0, Amount: 1_0000_0000}}
	outputs := []Output{
		{ScriptPubKey: changeScript, Amount: 30_000_000},
		{ScriptPubKey: changeScript, Amount: 30_000_000},
		{ScriptPubKey: changeScript, Amount: 30_000_000},
	}
	res, err := Build(inputs, outputs, changeScript, 3000)
	require.NoError(t, err)

	feePer := res.Fee / 3
	for i := 0; i < 3; i++ {
		require.Equal(t, int64(30_000_000)-feePer, res.Tx.TxOut[i].Value)
	}
}
