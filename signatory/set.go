package signatory

import "fmt"

// Signatory is a ranked validator that has committed a secp256k1 key
// (spec.md §3). PubKey is nil for a ranked validator that has not yet
// committed one; ComputeCurrentSet leaves such validators out of the set,
// and BuildWitnessScript rejects a set that contains one.
type Signatory struct {
	ConsensusKey [32]byte
	VotingPower  uint64
	PubKey       []byte // 33-byte compressed secp256k1 point, or nil if uncommitted
}

// Set is the frozen, ordered signatory set produced by combining a
// Select() result with the committed-key registry at the moment of
// freezing (spec.md §3 "Signatory set"). Index 0 is the highest-ranked
// signatory; this ordering is a protocol invariant shared with the
// script assembler (§4.B) and the signing coordinator (§4.F).
type Set struct {
	Signatories []Signatory
	Threshold   uint64
}

// NewSet combines a ranked validator list with a committed-key lookup
// (consensus key -> 33-byte compressed pubkey) into a frozen Set.
func NewSet(ranked []Ranked, committedKeys map[[32]byte][]byte) Set {
	sigs := make([]Signatory, len(ranked))
	for i, r := range ranked {
		sigs[i] = Signatory{
			ConsensusKey: r.ConsensusKey,
			VotingPower:  r.VotingPower,
			PubKey:       committedKeys[r.ConsensusKey],
		}
	}
	return Set{
		Signatories: sigs,
		Threshold:   Threshold(ranked),
	}
}

// VotingPowerOfIndexes returns the summed voting power of the signatories
// whose index is marked true in indexes; all other indexes are skipped.
func (s Set) VotingPowerOfIndexes(indexes map[int]bool) uint64 {
	var total uint64
	for i, sig := range s.Signatories {
		if indexes[i] {
			total += sig.VotingPower
		}
	}
	return total
}

// Validate checks the structural invariants of spec.md §3/§4.B: each
// voting power fits an unsigned 32-bit integer, and any committed pubkey
// is exactly 33 bytes.
func (s Set) Validate() error {
	for i, sig := range s.Signatories {
		if sig.VotingPower > 0xFFFFFFFF {
			return fmt.Errorf("signatory[%d]: voting power %d exceeds uint32 range", i, sig.VotingPower)
		}
		if sig.PubKey != nil && len(sig.PubKey) != 33 {
			return fmt.Errorf("signatory[%d]: committed pubkey must be 33 bytes, got %d", i, len(sig.PubKey))
		}
	}
	return nil
}
