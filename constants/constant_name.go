package constants

// ConstantName represents the names of the governable constants used by
// the peg module. Values can be overridden post-genesis via a mimir-style
// governance vote; DefaultValues supplies the value used until an override
// is recorded.
//
//go:generate stringer -type=ConstantName
type ConstantName int

const (
	// MaxSignatories bounds the length of the truncated signatory set (§4.A).
	MaxSignatories ConstantName = iota
	// MinRelayFee is the satoshi floor below which a disbursal fee never falls (§4.E).
	MinRelayFee
	// DepositFee is subtracted from a verified deposit's amount before minting (§4.D).
	DepositFee
	// MinDepositConfirmations is the number of confirming headers required
	// before a deposit's Merkle proof is accepted (§9 Open Question).
	MinDepositConfirmations
)

func FromString(s string) (ConstantName, bool) {
	switch s {
	case "MaxSignatories":
		return MaxSignatories, true
	case "MinRelayFee":
		return MinRelayFee, true
	case "DepositFee":
		return DepositFee, true
	case "MinDepositConfirmations":
		return MinDepositConfirmations, true
	default:
		return 0, false
	}
}

func (c ConstantName) String() string {
	switch c {
	case MaxSignatories:
		return "MaxSignatories"
	case MinRelayFee:
		return "MinRelayFee"
	case DepositFee:
		return "DepositFee"
	case MinDepositConfirmations:
		return "MinDepositConfirmations"
	default:
		return "UNKNOWN"
	}
}
