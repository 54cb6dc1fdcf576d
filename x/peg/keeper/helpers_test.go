package keeper_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"cosmossdk.io/collections"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/mappum/bitcoin-peg/signing"
	"github.com/mappum/bitcoin-peg/x/peg/types"
	"github.com/stretchr/testify/require"
)

// secpKey is a throwaway secp256k1 signatory test keypair.
type secpKey struct {
	priv        *btcec.PrivateKey
	pubKeyBytes []byte
}

func newSecpKey(t *testing.T) *secpKey {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return &secpKey{priv: priv, pubKeyBytes: priv.PubKey().SerializeCompressed()}
}

// dummyP2WPKHScript builds a well-formed (if not spendable) v0
// pay-to-witness-pubkey-hash script for use as a withdrawal destination.
func dummyP2WPKHScript() []byte {
	hash := make([]byte, 20)
	script, _ := txscript.NewScriptBuilder().AddOp(txscript.OP_0).AddData(hash).Script()
	return script
}

// seedUTXO inserts a spendable UTXO directly into the keeper's UTXO set,
// bypassing deposit verification (which is exercised independently by
// bitcoin/deposit_test.go).
func seedUTXO(t *testing.T, f *fixture, address string, amount int64) types.UTXO {
	t.Helper()
	txidBytes := sha256.Sum256([]byte(address))
	utxo := types.UTXO{
		Txid:    hex.EncodeToString(txidBytes[:]),
		Vout:    0,
		Amount:  amount,
		Address: address,
	}
	require.NoError(t, f.keeper.Utxos.Set(f.ctx, utxo.Key(), utxo))
	return utxo
}

// signAllInputs computes the BIP-143 sighash for every input of an
// in-flight SigningTxRecord and signs each with key, as a lone signatory
// submitting its share of a disbursal would.
func signAllInputs(t *testing.T, rec types.SigningTxRecord, key *secpKey) [][]byte {
	t.Helper()

	var tx wire.MsgTx
	require.NoError(t, tx.Deserialize(bytes.NewReader(rec.TxBytes)))

	hashes, err := signing.SigHashes(&tx, rec.WitnessScript, rec.Amounts)
	require.NoError(t, err)

	sigs := make([][]byte, len(hashes))
	for i, h := range hashes {
		sig := ecdsa.Sign(key.priv, h)
		sigs[i] = sig.Serialize()
	}
	return sigs
}

// getSignedTx returns the finalized SignedTxRecord, if one has been set.
func getSignedTx(f *fixture) (types.SignedTxRecord, bool, error) {
	rec, err := f.keeper.SignedTx.Get(f.ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.SignedTxRecord{}, false, nil
		}
		return types.SignedTxRecord{}, false, err
	}
	return rec, true, nil
}
