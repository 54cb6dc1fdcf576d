package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/mappum/bitcoin-peg/bitcoin"
	"github.com/mappum/bitcoin-peg/constants"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// Keeper owns every piece of replicated state the core module is
// responsible for (spec.md §5 "shared-resource policy"): the header chain,
// UTXO set, processed-tx set, committed-key registry, and signatory-set
// history.
type Keeper struct {
	storeService corestore.KVStoreService
	cdc          codec.Codec
	addressCodec address.Codec
	authority    string

	stakingKeeper types.StakingKeeper
	bankKeeper    types.BankKeeper

	// Params is the network/fee configuration this node runs with. It is
	// loaded once at process start (bitcoin.GetConfig), not stored as
	// on-chain state: every replica is expected to run against the same
	// Bitcoin network, the same way the host chain's binary is fixed.
	Params          bitcoin.Config
	NetworkParams   *chaincfg.Params
	PendingDrainCfg DrainConfig

	Schema         collections.Schema
	Utxos          collections.Map[string, types.UTXO]
	CommittedKeys  collections.Map[string, types.CommittedKey]
	SignatorySets  collections.Map[string, types.SignatorySet]
	CurrentAddress collections.Item[string]
	ProcessedTxs   collections.Map[string, bool]
	PendingOutputs collections.Map[uint64, types.PendingOutput]
	PendingSeq     collections.Sequence
	SigningTx      collections.Item[types.SigningTxRecord]
	SignedTx       collections.Item[types.SignedTxRecord]
	Headers        collections.Map[uint32, types.HeaderRecord]
	HeaderMeta     collections.Item[types.HeaderChainMeta]
	ConstOverrides collections.Map[string, int64]
}

// DrainConfig governs when the pending-output queue drains into a new
// SigningTx (SPEC_FULL.md §12): every DrainEveryBlocks blocks, or once
// DrainAtQueueSize outputs have queued up, whichever comes first. Zero
// disables that trigger.
type DrainConfig struct {
	DrainEveryBlocks int64
	DrainAtQueueSize int
}

func NewKeeper(
	storeService corestore.KVStoreService,
	cdc codec.Codec,
	addressCodec address.Codec,
	stakingKeeper types.StakingKeeper,
	bankKeeper types.BankKeeper,
	params bitcoin.Config,
	networkParams *chaincfg.Params,
	drainCfg DrainConfig,
	authority string,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService:    storeService,
		cdc:             cdc,
		addressCodec:    addressCodec,
		authority:       authority,
		stakingKeeper:   stakingKeeper,
		bankKeeper:      bankKeeper,
		Params:          params,
		NetworkParams:   networkParams,
		PendingDrainCfg: drainCfg,

		Utxos:          collections.NewMap(sb, types.UTXOsKey, "utxos", collections.StringKey, types.JSONValue[types.UTXO]("UTXO")),
		CommittedKeys:  collections.NewMap(sb, types.CommittedKeysKey, "committed_keys", collections.StringKey, types.JSONValue[types.CommittedKey]("CommittedKey")),
		SignatorySets:  collections.NewMap(sb, types.SignatorySetsKey, "signatory_sets", collections.StringKey, types.JSONValue[types.SignatorySet]("SignatorySet")),
		CurrentAddress: collections.NewItem(sb, types.CurrentAddressKey, "current_address", collections.StringValue),
		ProcessedTxs:   collections.NewMap(sb, types.ProcessedTxsKey, "processed_txs", collections.StringKey, collections.BoolValue),
		PendingOutputs: collections.NewMap(sb, types.PendingOutputsKey, "pending_outputs", collections.Uint64Key, types.JSONValue[types.PendingOutput]("PendingOutput")),
		PendingSeq:     collections.NewSequence(sb, types.PendingOutputSeqKey, "pending_output_seq"),
		SigningTx:      collections.NewItem(sb, types.SigningTxKey, "signing_tx", types.JSONValue[types.SigningTxRecord]("SigningTxRecord")),
		SignedTx:       collections.NewItem(sb, types.SignedTxKey, "signed_tx", types.JSONValue[types.SignedTxRecord]("SignedTxRecord")),
		Headers:        collections.NewMap(sb, types.HeaderChainKey, "headers", collections.Uint32Key, types.JSONValue[types.HeaderRecord]("HeaderRecord")),
		HeaderMeta:     collections.NewItem(sb, types.HeaderChainMetaKey, "header_chain_meta", types.JSONValue[types.HeaderChainMeta]("HeaderChainMeta")),
		ConstOverrides: collections.NewMap(sb, types.ConstOverridesKey, "const_overrides", collections.StringKey, collections.Int64Value),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns the block context's logger, scoped to this module.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With(log.ModuleKey, "x/"+types.ModuleName)
}

// GetConst resolves a governable constant: a recorded override if present
// (written only by a super-majority governance vote), else the network's
// DefaultValues entry. Mirrors the teacher's ConstOverrides/DefaultValues
// mimir pattern.
func (k Keeper) GetConst(ctx context.Context, name constants.ConstantName) int64 {
	v, err := k.ConstOverrides.Get(ctx, name.String())
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			k.Logger(ctx).Error("failed to get const override", "const", name.String(), "error", err)
		}
		return constants.DefaultValues[name]
	}
	return v
}
