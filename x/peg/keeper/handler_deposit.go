package keeper

import (
	"context"
	"errors"
	"fmt"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/mappum/bitcoin-peg/bitcoin"
	"github.com/mappum/bitcoin-peg/constants"
	"github.com/mappum/bitcoin-peg/script"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// HandleDeposit admits a Bitcoin transaction paying a currently-or-
// historically tracked P2SS address, proved via SPV Merkle proof (spec.md
// §4.D steps 1-6). On success it records the UTXO, marks the txid
// processed, and mints pegged coins to the committed recipient minus the
// configured deposit fee.
func (k Keeper) HandleDeposit(ctx context.Context, msg types.MsgDeposit) error {
	if err := msg.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
	}

	chain, err := k.loadHeaderChain(ctx)
	if err != nil {
		return err
	}

	proof, err := bitcoin.DecodeProof(msg.ProofHeight, msg.ProofSiblings, msg.ProofIndex)
	if err != nil {
		return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
	}

	minConfs := uint32(k.GetConst(ctx, constants.MinDepositConfirmations))
	if chain.Height() < msg.ProofHeight || chain.Height()-msg.ProofHeight+1 < minConfs {
		return types.ErrNotEnoughConfs
	}

	// Check processed_txs (spec.md §4.D step 3) before running the more
	// expensive proof/payment/commitment checks (steps 4-6), so a replayed
	// deposit is reported as AlreadyProcessed even when its proof would fail.
	// A transaction that does not decode is rejected as BadFormat first.
	txid, err := bitcoin.DecodeTxID(msg.Transaction)
	if err != nil {
		return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
	}
	txidStr := txid.String()
	processed, err := k.ProcessedTxs.Has(ctx, txidStr)
	if err != nil {
		return err
	}
	if processed {
		return types.ErrAlreadyProcessed
	}

	network := networkFromString(k.Params.Network.Network)

	var trackedAddress string
	deposit, err := bitcoin.VerifyDeposit(chain, msg.Transaction, proof, msg.ProofHeight, func(pkScript []byte) bool {
		addr, ok := script.ExtractP2WSHAddress(pkScript, network)
		if !ok {
			return false
		}
		has, err := k.SignatorySets.Has(ctx, addr)
		if err != nil || !has {
			return false
		}
		trackedAddress = addr
		return true
	})
	if err != nil {
		switch {
		case errors.Is(err, bitcoin.ErrBadFormat):
			return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
		case errors.Is(err, bitcoin.ErrUnknownHeight):
			return types.ErrUnknownHeight
		case errors.Is(err, bitcoin.ErrBadProof):
			return types.ErrBadProof
		case errors.Is(err, bitcoin.ErrNotPeggedPayment):
			return types.ErrNotPeggedPayment
		case errors.Is(err, bitcoin.ErrMissingCommitment):
			return types.ErrMissingCommitment
		default:
			return err
		}
	}

	if err := k.ProcessedTxs.Set(ctx, txidStr, true); err != nil {
		return err
	}
	utxo := types.UTXO{
		Txid:    txidStr,
		Vout:    deposit.Vout,
		Amount:  deposit.Amount,
		Address: trackedAddress,
	}
	if err := k.Utxos.Set(ctx, utxo.Key(), utxo); err != nil {
		return err
	}

	depositFee := k.GetConst(ctx, constants.DepositFee)
	mintAmount := deposit.Amount - depositFee
	if mintAmount < 0 {
		mintAmount = 0
	}

	if mintAmount > 0 {
		coins := sdk.NewCoins(sdk.NewCoin(types.PegDenom, math.NewInt(mintAmount)))
		if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
			return fmt.Errorf("peg: minting deposit coins: %w", err)
		}
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sdk.AccAddress(deposit.Recipient), coins); err != nil {
			return fmt.Errorf("peg: paying out deposit mint: %w", err)
		}
	}

	k.Logger(ctx).Info("verified deposit",
		"txid", txidStr, "vout", deposit.Vout, "amount", deposit.Amount, "address", trackedAddress)
	return nil
}
