package keeper

import (
	"context"
	"fmt"

	"github.com/mappum/bitcoin-peg/constants"
	"github.com/mappum/bitcoin-peg/script"
	"github.com/mappum/bitcoin-peg/signatory"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// currentSignatorySet recomputes the signatory set from the live validator
// map and committed-key registry (component A + C), matching
// signatory.ComputeCurrentSet's combined selector/commitment-filter/freeze
// semantics.
func (k Keeper) currentSignatorySet(ctx context.Context) (signatory.Set, error) {
	vs, err := k.loadValidators(ctx)
	if err != nil {
		return signatory.Set{}, err
	}
	committed, err := k.committedKeyMap(ctx)
	if err != nil {
		return signatory.Set{}, err
	}

	maxSize := int(k.GetConst(ctx, constants.MaxSignatories))
	return signatory.ComputeCurrentSet(vs, committed, maxSize)
}

// RotateIfNeeded implements component G: it recomputes the current
// signatory set and, if the derived P2SS address differs from the stored
// current address, records the new set under signatory_sets[address] and
// publishes it as current. The previous address's entry is left in place
// so inflight UTXOs remain queryable (spec.md §4.G, E3).
func (k Keeper) RotateIfNeeded(ctx context.Context) error {
	set, err := k.currentSignatorySet(ctx)
	if err != nil {
		if err == signatory.ErrEmptySet {
			return nil // no committed signatories yet; nothing to publish
		}
		return err
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("peg: computed signatory set failed validation: %w", err)
	}

	witnessScript, err := script.BuildWitnessScript(set)
	if err != nil {
		return fmt.Errorf("peg: building witness script: %w", err)
	}
	network := networkFromString(k.Params.Network.Network)
	address, err := script.P2WSHAddress(witnessScript, network)
	if err != nil {
		return fmt.Errorf("peg: deriving P2SS address: %w", err)
	}

	current, err := k.CurrentAddress.Get(ctx)
	if err == nil && current == address {
		return nil // no change
	}

	record := types.SignatorySet{Address: address, Threshold: set.Threshold}
	for _, sig := range set.Signatories {
		record.Signatories = append(record.Signatories, types.SignatoryRecord{
			ConsensusKey: sig.ConsensusKey[:],
			VotingPower:  sig.VotingPower,
			PubKey:       sig.PubKey,
		})
	}
	if err := k.SignatorySets.Set(ctx, address, record); err != nil {
		return err
	}
	if err := k.CurrentAddress.Set(ctx, address); err != nil {
		return err
	}

	k.Logger(ctx).Info("published new P2SS address", "address", address, "threshold", set.Threshold)
	return nil
}

func networkFromString(s string) script.Network {
	switch s {
	case "testnet":
		return script.Testnet
	case "regtest":
		return script.Regtest
	default:
		return script.Mainnet
	}
}
