package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// StakingKeeper supplies the ranked validator map of spec.md §3/§4.A. The
// module never reads consensus state directly; it observes bonded
// validators exclusively through this interface.
type StakingKeeper interface {
	GetAllValidators(ctx context.Context) ([]stakingtypes.Validator, error)
	GetLastTotalPower(ctx context.Context) (math.Int, error)
	PowerReduction(ctx context.Context) math.Int
}

// BankKeeper is the boundary to the sidechain's pegged-asset ledger
// (explicitly out of scope per spec.md §1, referenced only via this
// interface): minting on a verified deposit and sending the minted coins
// to the deposit's committed recipient. Withdrawals do not go through it.
type BankKeeper interface {
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}
