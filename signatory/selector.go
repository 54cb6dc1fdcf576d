// Package signatory implements the deterministic selection of the Bitcoin
// signatory set from the sidechain's validator map (spec component A), and
// the signatory-key commitments that turn a ranked validator into a
// signatory able to co-sign Bitcoin disbursals (component C).
package signatory

import (
	"bytes"
	"fmt"
	"sort"
)

// Validator is a consensus participant as reported by the host chain's
// staking layer: an ed25519 consensus key and an integer voting power.
// Validators are never mutated in place; the selector is a pure function
// of the map handed to it by the caller.
type Validator struct {
	ConsensusKey [32]byte
	VotingPower  uint64
}

// Ranked is a validator after sort/truncate, prior to any signatory-key
// commitment being attached.
type Ranked struct {
	ConsensusKey [32]byte
	VotingPower  uint64
}

// ErrEmptySet is returned by Select when the validator map carries zero
// total voting power; spec.md §4.A calls this the EmptySignatorySet
// condition, which rejects the set for script emission.
var ErrEmptySet = fmt.Errorf("signatory: validator map carries zero total voting power")

// Select ranks validators by voting power descending, breaking ties by
// descending byte-lexicographic consensus key, and truncates to maxSize.
// It is a pure function: the same validators slice, regardless of input
// order, always yields the same output (§8 property 1).
func Select(validators []Validator, maxSize int) ([]Ranked, error) {
	var total uint64
	for _, v := range validators {
		total += v.VotingPower
	}
	if total == 0 {
		return nil, ErrEmptySet
	}

	sorted := make([]Ranked, len(validators))
	for i, v := range validators {
		sorted[i] = Ranked{ConsensusKey: v.ConsensusKey, VotingPower: v.VotingPower}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].VotingPower != sorted[j].VotingPower {
			return sorted[i].VotingPower > sorted[j].VotingPower
		}
		return bytes.Compare(sorted[i].ConsensusKey[:], sorted[j].ConsensusKey[:]) > 0
	})

	if len(sorted) > maxSize {
		sorted = sorted[:maxSize]
	}
	return sorted, nil
}

// Threshold computes ceil(2*sum(votingPower)/3) over the given (already
// truncated) ranked set, per spec.md §4.A / GLOSSARY.
func Threshold(ranked []Ranked) uint64 {
	var total uint64
	for _, r := range ranked {
		total += r.VotingPower
	}
	return ceilDiv(2*total, 3)
}

func ceilDiv(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
