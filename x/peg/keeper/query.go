package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// The read-only getters below expose exactly the queryable state spec.md
// §6 names: current_p2ss_address, signatory_sets[address], chain, utxos,
// processed_txs. They are plain keeper methods rather than a generated
// gRPC QueryServer for the same reason messages.go's admitted types are
// plain structs: this module's retrieval set carries no .pb.go query
// service to hang handlers off of.

// CurrentP2SSAddress returns the currently published P2SS address, or
// "" if none has been published yet (component G has not run, or the
// signatory set is still empty).
func (k Keeper) CurrentP2SSAddress(ctx context.Context) (string, error) {
	addr, err := k.CurrentAddress.Get(ctx)
	if err != nil {
		if errorsIsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return addr, nil
}

// SignatorySetByAddress returns the frozen signatory set recorded under a
// (current or historical) P2SS address, so a relayer can find the right
// signing validators for an inflight UTXO at an old address.
func (k Keeper) SignatorySetByAddress(ctx context.Context, address string) (types.SignatorySet, bool, error) {
	set, err := k.SignatorySets.Get(ctx, address)
	if err != nil {
		if errorsIsNotFound(err) {
			return types.SignatorySet{}, false, nil
		}
		return types.SignatorySet{}, false, err
	}
	return set, true, nil
}

// AllUTXOs returns every tracked UTXO across every current and historical
// P2SS address.
func (k Keeper) AllUTXOs(ctx context.Context) ([]types.UTXO, error) {
	var out []types.UTXO
	err := k.Utxos.Walk(ctx, nil, func(_ string, u types.UTXO) (bool, error) {
		out = append(out, u)
		return false, nil
	})
	return out, err
}

// IsProcessed reports whether txid has already been accepted as a
// deposit (spec.md §3 "Processed-tx set").
func (k Keeper) IsProcessed(ctx context.Context, txid string) (bool, error) {
	return k.ProcessedTxs.Has(ctx, txid)
}

// HeaderAtHeight returns the raw wire-encoded header stored at height.
func (k Keeper) HeaderAtHeight(ctx context.Context, height uint32) (types.HeaderRecord, bool, error) {
	rec, err := k.Headers.Get(ctx, height)
	if err != nil {
		if errorsIsNotFound(err) {
			return types.HeaderRecord{}, false, nil
		}
		return types.HeaderRecord{}, false, err
	}
	return rec, true, nil
}

// HeaderChainMeta returns the header chain's current height bounds.
func (k Keeper) HeaderChainMeta(ctx context.Context) (types.HeaderChainMeta, error) {
	return k.HeaderMeta.Get(ctx)
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, collections.ErrNotFound)
}
