//go:build regtest

package constants

// DefaultValues for regtest relaxes MinDepositConfirmations so integration
// tests and local harnesses don't need to mine dozens of blocks per deposit,
// matching the SPV reorg-depth allowance spec.md §4.D calls for.
var DefaultValues = map[ConstantName]int64{
	MaxSignatories:          76,
	MinRelayFee:             1000,
	DepositFee:              0,
	MinDepositConfirmations: 1,
}
