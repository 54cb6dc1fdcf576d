package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MerkleProof is the SPV proof format of spec.md §6: `{height, sibling
// hashes, index bitmap}`. Index is the 0-based position of the leaf
// transaction among the block's transactions; its low bit selects whether
// the first sibling is its left or right neighbor, the next bit the
// second, and so on, matching the standard Bitcoin partial-merkle-tree
// traversal order.
type MerkleProof struct {
	Height   uint32
	Siblings []chainhash.Hash
	Index    uint32
}

// Verify recomputes the merkle root from txid up through Siblings and
// checks it against root, per spec.md §4.D step 4 ("Merkle proof must
// verify against chain[header_height].merkle_root and yield exactly one
// txid, equal to the computed txid").
func (p MerkleProof) Verify(txid chainhash.Hash, root chainhash.Hash) bool {
	cur := txid
	index := p.Index
	for _, sib := range p.Siblings {
		if index&1 == 0 {
			cur = hashMerkleBranches(cur, sib)
		} else {
			cur = hashMerkleBranches(sib, cur)
		}
		index >>= 1
	}
	return cur == root
}

// hashMerkleBranches concatenates two tree nodes and double-SHA256s them,
// the standard Bitcoin merkle node combination (matching btcd's
// blockchain.HashMerkleBranches).
func hashMerkleBranches(left, right chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	return chainhash.DoubleHashH(buf[:])
}

// DecodeProof validates the structural shape of a wire-format proof before
// Verify is called: Siblings must be non-empty byte-exact 32-byte hashes.
func DecodeProof(height uint32, siblings [][]byte, index uint32) (MerkleProof, error) {
	hashes := make([]chainhash.Hash, len(siblings))
	for i, s := range siblings {
		h, err := chainhash.NewHash(s)
		if err != nil {
			return MerkleProof{}, fmt.Errorf("bitcoin: sibling %d: %w", i, err)
		}
		hashes[i] = *h
	}
	return MerkleProof{Height: height, Siblings: hashes, Index: index}, nil
}
