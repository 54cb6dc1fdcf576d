package keeper

import (
	"context"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// EndBlock runs the two per-block triggers the core adds atop its
// admitted-transaction handlers: P2SS rotation (component G, spec.md
// §4.G "after every block that mutates the validator map or the
// committed-key registry") and the pending-output drain trigger
// (SPEC_FULL.md §12). Both are pure functions of already-committed state,
// so every replica reaches the same result deterministically (§5).
//
// A non-nil error from EndBlock halts the chain, unlike a rejected
// transaction. spec.md §7 is explicit that InsufficientFunds and
// OutputBelowFee are local rejections ("reject the withdrawal that
// triggered rebuild; prior state intact"), not fatal conditions, so those
// two are logged and swallowed here rather than propagated.
func (k Keeper) EndBlock(ctx context.Context) error {
	if err := k.RotateIfNeeded(ctx); err != nil {
		return err
	}

	height := sdk.UnwrapSDKContext(ctx).BlockHeight()
	if err := k.DrainIfNeeded(ctx, height); err != nil {
		if errors.Is(err, types.ErrInsufficientFunds) || errors.Is(err, types.ErrOutputBelowFee) {
			k.Logger(ctx).Error("skipping disbursal drain, prior state intact",
				"height", height, "error", err)
			return nil
		}
		return err
	}
	return nil
}
