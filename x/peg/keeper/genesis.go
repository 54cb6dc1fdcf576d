package keeper

import (
	"context"
	"fmt"

	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// InitGenesis initializes the module's state from a provided genesis
// state, matching the teacher's keeper.InitGenesis wiring: every exported
// collection is replayed in the order a fresh chain would have produced
// it (headers first, since everything else references header-chain-
// derived state only indirectly).
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("peg: invalid genesis state: %w", err)
	}

	// Headers are indexed by absolute height in gs.HeaderMeta's range; the
	// exported slice is ordered starting at StartHeight.
	for h, rec := range gs.Headers {
		height := gs.HeaderMeta.StartHeight + uint32(h)
		if err := k.Headers.Set(ctx, height, rec); err != nil {
			return fmt.Errorf("peg: setting header at height %d: %w", height, err)
		}
	}
	if len(gs.Headers) > 0 {
		if err := k.HeaderMeta.Set(ctx, gs.HeaderMeta); err != nil {
			return err
		}
	}

	for _, ck := range gs.CommittedKeys {
		key := consensusKeyHexBytes(ck.ConsensusKey)
		if err := k.CommittedKeys.Set(ctx, key, ck); err != nil {
			return fmt.Errorf("peg: setting committed key %s: %w", key, err)
		}
	}

	for _, set := range gs.SignatorySets {
		if err := k.SignatorySets.Set(ctx, set.Address, set); err != nil {
			return fmt.Errorf("peg: setting signatory set %s: %w", set.Address, err)
		}
	}
	if gs.CurrentAddress != "" {
		if err := k.CurrentAddress.Set(ctx, gs.CurrentAddress); err != nil {
			return err
		}
	}

	for _, utxo := range gs.Utxos {
		if err := k.Utxos.Set(ctx, utxo.Key(), utxo); err != nil {
			return fmt.Errorf("peg: setting UTXO %s: %w", utxo.Key(), err)
		}
	}

	for _, txid := range gs.ProcessedTxs {
		if err := k.ProcessedTxs.Set(ctx, txid, true); err != nil {
			return err
		}
	}

	for i, out := range gs.PendingOutputs {
		if err := k.PendingOutputs.Set(ctx, uint64(i), out); err != nil {
			return err
		}
	}
	if len(gs.PendingOutputs) > 0 {
		if err := k.PendingSeq.Set(ctx, uint64(len(gs.PendingOutputs))); err != nil {
			return err
		}
	}

	if gs.SigningTx != nil {
		if err := k.SigningTx.Set(ctx, *gs.SigningTx); err != nil {
			return err
		}
	}
	if gs.SignedTx != nil {
		if err := k.SignedTx.Set(ctx, *gs.SignedTx); err != nil {
			return err
		}
	}

	for name, value := range gs.ConstOverrides {
		if err := k.ConstOverrides.Set(ctx, name, value); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis walks every collection back into a GenesisState, the
// inverse of InitGenesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()

	if meta, err := k.HeaderMeta.Get(ctx); err == nil {
		gs.HeaderMeta = meta
		for h := meta.StartHeight; h <= meta.TipHeight; h++ {
			rec, err := k.Headers.Get(ctx, h)
			if err != nil {
				return nil, fmt.Errorf("peg: exporting header at height %d: %w", h, err)
			}
			gs.Headers = append(gs.Headers, rec)
		}
	}

	if err := k.CommittedKeys.Walk(ctx, nil, func(_ string, ck types.CommittedKey) (bool, error) {
		gs.CommittedKeys = append(gs.CommittedKeys, ck)
		return false, nil
	}); err != nil {
		return nil, err
	}

	if err := k.SignatorySets.Walk(ctx, nil, func(_ string, set types.SignatorySet) (bool, error) {
		gs.SignatorySets = append(gs.SignatorySets, set)
		return false, nil
	}); err != nil {
		return nil, err
	}

	if addr, err := k.CurrentAddress.Get(ctx); err == nil {
		gs.CurrentAddress = addr
	}

	if err := k.Utxos.Walk(ctx, nil, func(_ string, u types.UTXO) (bool, error) {
		gs.Utxos = append(gs.Utxos, u)
		return false, nil
	}); err != nil {
		return nil, err
	}

	if err := k.ProcessedTxs.Walk(ctx, nil, func(txid string, _ bool) (bool, error) {
		gs.ProcessedTxs = append(gs.ProcessedTxs, txid)
		return false, nil
	}); err != nil {
		return nil, err
	}

	if err := k.PendingOutputs.Walk(ctx, nil, func(_ uint64, out types.PendingOutput) (bool, error) {
		gs.PendingOutputs = append(gs.PendingOutputs, out)
		return false, nil
	}); err != nil {
		return nil, err
	}

	if rec, err := k.SigningTx.Get(ctx); err == nil {
		gs.SigningTx = &rec
	}
	if rec, err := k.SignedTx.Get(ctx); err == nil {
		gs.SignedTx = &rec
	}

	if err := k.ConstOverrides.Walk(ctx, nil, func(name string, value int64) (bool, error) {
		gs.ConstOverrides[name] = value
		return false, nil
	}); err != nil {
		return nil, err
	}

	return gs, nil
}

func consensusKeyHexBytes(consensusKey []byte) string {
	var key [32]byte
	copy(key[:], consensusKey)
	return consensusKeyHex(key)
}
