package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name.
	ModuleName = "peg"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName

	// GovModuleName duplicates the gov module's name to avoid a dependency
	// on x/gov.
	GovModuleName = "gov"

	// PegDenom is the pegged-asset denomination minted on verified deposits
	// and burned on withdrawal (spec.md §4.D/§4.E). It is distinct from the
	// host chain's staking bond denom.
	PegDenom = "upegbtc"
)

var (
	// UTXOsKey is the prefix for the tracked-UTXO set (spec.md §3 "UTXO set").
	UTXOsKey = collections.NewPrefix("utxo")

	// CommittedKeysKey is the prefix for the committed secp256k1-key
	// registry (spec.md §3 "Committed-key registry"), keyed by consensus key.
	CommittedKeysKey = collections.NewPrefix("committed_key")

	// SignatorySetsKey is the prefix for historical signatory sets keyed by
	// P2SS address (spec.md §6 signatory_sets[address]).
	SignatorySetsKey = collections.NewPrefix("signatory_set")

	// CurrentAddressKey holds the current P2SS address.
	CurrentAddressKey = collections.NewPrefix("current_address")

	// ProcessedTxsKey is the prefix for the at-most-once deposit guard
	// (spec.md §3 "Processed-tx set").
	ProcessedTxsKey = collections.NewPrefix("processed_tx")

	// PendingOutputsKey is the prefix for the queued-withdrawal list
	// (SPEC_FULL.md §12 "Pending-output queue").
	PendingOutputsKey = collections.NewPrefix("pending_output")

	// PendingOutputSeqKey sequences PendingOutputsKey entries in
	// enqueue order.
	PendingOutputSeqKey = collections.NewPrefix("pending_seq")

	// SigningTxKey holds the in-flight SigningTx, if any.
	SigningTxKey = collections.NewPrefix("signing_tx")

	// SignedTxKey holds the most recently finalized, fully-signed
	// transaction.
	SignedTxKey = collections.NewPrefix("signed_tx")

	// HeaderChainKey is the prefix for the SPV header chain, keyed by height.
	HeaderChainKey = collections.NewPrefix("header_chain")

	// HeaderChainMetaKey holds the chain's start height and current tip
	// height.
	HeaderChainMetaKey = collections.NewPrefix("header_meta")

	// ConstOverridesKey is the prefix for governance overrides of
	// constants.ConstantName values.
	ConstOverridesKey = collections.NewPrefix("const_override")
)
