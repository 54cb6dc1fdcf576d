package bitcoin

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func leafHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

func TestMerkleProofVerifiesFourLeafTree(t *testing.T) {
	leaves := []chainhash.Hash{leafHash(1), leafHash(2), leafHash(3), leafHash(4)}
	h01 := hashMerkleBranches(leaves[0], leaves[1])
	h23 := hashMerkleBranches(leaves[2], leaves[3])
	root := hashMerkleBranches(h01, h23)

	proof := MerkleProof{Height: 10, Siblings: []chainhash.Hash{leaves[1], h23}, Index: 0}
	require.True(t, proof.Verify(leaves[0], root))

	proof2 := MerkleProof{Height: 10, Siblings: []chainhash.Hash{leaves[2], h01}, Index: 3}
	require.True(t, proof2.Verify(leaves[3], root))
}

func TestMerkleProofRejectsWrongRoot(t *testing.T) {
	leaves := []chainhash.Hash{leafHash(1), leafHash(2)}
	proof := MerkleProof{Height: 10, Siblings: []chainhash.Hash{leaves[1]}, Index: 0}
	require.False(t, proof.Verify(leaves[0], leafHash(99)))
}

func TestDecodeProofRejectsBadSiblingLength(t *testing.T) {
	_, err := DecodeProof(1, [][]byte{{0x01, 0x02}}, 0)
	require.Error(t, err)
}
