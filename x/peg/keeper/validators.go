package keeper

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/mappum/bitcoin-peg/constants"
	"github.com/mappum/bitcoin-peg/signatory"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// loadValidators pulls the bonded validator map from the staking keeper
// (spec.md §3 "Validator map"), untruncated and unsorted: callers run
// their own selector pass (component A, or signatory.ComputeCurrentSet's
// combined A+C pass) over the result.
func (k Keeper) loadValidators(ctx context.Context) ([]signatory.Validator, error) {
	validators, err := k.stakingKeeper.GetAllValidators(ctx)
	if err != nil {
		return nil, fmt.Errorf("peg: loading validator set: %w", err)
	}

	powerReduction := k.stakingKeeper.PowerReduction(ctx)
	vs := make([]signatory.Validator, 0, len(validators))
	for _, v := range validators {
		if !v.IsBonded() {
			continue
		}
		consPubKey, err := v.ConsPubKey()
		if err != nil {
			continue
		}
		key := consPubKey.Bytes()
		if len(key) != 32 {
			continue
		}
		var consKey [32]byte
		copy(consKey[:], key)
		vs = append(vs, signatory.Validator{
			ConsensusKey: consKey,
			VotingPower:  uint64(v.GetConsensusPower(powerReduction)),
		})
	}
	return vs, nil
}

// rankedValidators runs the deterministic selector (component A) over the
// live validator map.
func (k Keeper) rankedValidators(ctx context.Context) ([]signatory.Ranked, error) {
	vs, err := k.loadValidators(ctx)
	if err != nil {
		return nil, err
	}
	maxSize := int(k.GetConst(ctx, constants.MaxSignatories))
	return signatory.Select(vs, maxSize)
}

// committedKeyMap loads every committed key, keyed by consensus key, for
// use by signatory.ComputeCurrentSet.
func (k Keeper) committedKeyMap(ctx context.Context) (map[[32]byte][]byte, error) {
	out := make(map[[32]byte][]byte)
	err := k.CommittedKeys.Walk(ctx, nil, func(_ string, ck types.CommittedKey) (bool, error) {
		if len(ck.ConsensusKey) != 32 || len(ck.PubKey) != 33 {
			return false, nil
		}
		var key [32]byte
		copy(key[:], ck.ConsensusKey)
		out[key] = ck.PubKey
		return false, nil
	})
	return out, err
}

func consensusKeyHex(key [32]byte) string {
	return hex.EncodeToString(key[:])
}
