package keeper

import (
	"context"

	sdkerrors "cosmossdk.io/errors"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// HandleWithdrawal enqueues a burned-coin withdrawal routed internally
// from the coin ledger (spec.md §6: "routed from the coin ledger when
// pegged coins are burned... enqueued into the pending outputs that seed
// the next SigningTx"). It does not build a SigningTx itself;
// DrainIfNeeded (SPEC_FULL.md §12's disbursal trigger) periodically drains
// the queue into one.
func (k Keeper) HandleWithdrawal(ctx context.Context, msg types.MsgWithdrawal) error {
	if err := msg.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
	}

	seq, err := k.PendingSeq.Next(ctx)
	if err != nil {
		return err
	}
	if err := k.PendingOutputs.Set(ctx, seq, types.PendingOutput{
		Script: msg.Script,
		Amount: int64(msg.Amount),
	}); err != nil {
		return err
	}

	k.Logger(ctx).Info("queued withdrawal", "amount", msg.Amount)
	return nil
}
