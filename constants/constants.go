//go:build !regtest

package constants

// DefaultValues holds the network-wide constants of §6 for mainnet and
// testnet. MaxSignatories and MinRelayFee are consensus-critical: every
// replica must agree on them, so overriding them away from these defaults
// requires a recorded governance vote (see ConstOverrides in the keeper).
var DefaultValues = map[ConstantName]int64{
	MaxSignatories:          76,
	MinRelayFee:             1000,
	DepositFee:              1000,
	MinDepositConfirmations: 6,
}
