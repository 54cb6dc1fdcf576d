package bitcoin

import (
	"math/big"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func mineHeader(t *testing.T, prev wire.BlockHeader, bits uint32, ts time.Time, powLimit *big.Int) wire.BlockHeader {
	t.Helper()
	h := wire.BlockHeader{
		Version:    1,
		PrevBlock:  prev.BlockHash(),
		MerkleRoot: prev.MerkleRoot,
		Timestamp:  ts,
		Bits:       bits,
	}
	for nonce := uint32(0); nonce < 1_000_000; nonce++ {
		h.Nonce = nonce
		if checkProofOfWork(h.BlockHash(), h.Bits, powLimit) {
			return h
		}
	}
	t.Fatal("failed to mine a regtest-difficulty header within the attempt budget")
	return wire.BlockHeader{}
}

func TestHeaderChainExtendsLinearly(t *testing.T) {
	params := &chaincfg.RegressionNetParams
	genesis := wire.BlockHeader{Version: 1, Bits: params.PowLimitBits, Timestamp: time.Unix(1_600_000_000, 0)}

	chain := NewHeaderChain(params, 0, genesis, 0)
	h1 := mineHeader(t, genesis, params.PowLimitBits, genesis.Timestamp.Add(10*time.Minute), params.PowLimit)

	require.NoError(t, chain.Extend([]wire.BlockHeader{h1}))
	require.Equal(t, uint32(1), chain.Height())
	tip := chain.Tip()
	require.Equal(t, h1.BlockHash(), tip.BlockHash())
}

func TestHeaderChainRejectsBadPrevHash(t *testing.T) {
	params := &chaincfg.RegressionNetParams
	genesis := wire.BlockHeader{Version: 1, Bits: params.PowLimitBits, Timestamp: time.Unix(1_600_000_000, 0)}
	chain := NewHeaderChain(params, 0, genesis, 0)

	bad := wire.BlockHeader{Version: 1, Bits: params.PowLimitBits, Timestamp: genesis.Timestamp.Add(time.Minute)}
	err := chain.Extend([]wire.BlockHeader{bad})
	require.Error(t, err)
}

func TestHeaderChainUnknownHeight(t *testing.T) {
	params := &chaincfg.RegressionNetParams
	genesis := wire.BlockHeader{Version: 1, Bits: params.PowLimitBits, Timestamp: time.Unix(1_600_000_000, 0)}
	chain := NewHeaderChain(params, 100, genesis, 0)

	_, err := chain.HeaderAt(5)
	require.ErrorIs(t, err, ErrUnknownHeight)

	got, err := chain.HeaderAt(100)
	require.NoError(t, err)
	require.Equal(t, genesis.BlockHash(), got.BlockHash())
}
