package types

import "cosmossdk.io/errors"

// Module error kinds, registered once under the module's codespace per the
// teacher's cosmossdk.io/errors.Register convention. Each maps to an
// admission-rule failure named in spec.md §7.
var (
	ErrBadFormat         = errors.Register(ModuleName, 2, "malformed transaction or commitment")
	ErrBadSignature      = errors.Register(ModuleName, 3, "signature does not verify against committed key")
	ErrBadIndex          = errors.Register(ModuleName, 4, "signatory index out of range")
	ErrUnknownHeight     = errors.Register(ModuleName, 5, "header chain has no entry at that height")
	ErrBadProof          = errors.Register(ModuleName, 6, "merkle proof does not verify")
	ErrAlreadyProcessed  = errors.Register(ModuleName, 7, "deposit transaction already processed")
	ErrAlreadySigned     = errors.Register(ModuleName, 8, "signatory already submitted for this SigningTx")
	ErrNotPeggedPayment  = errors.Register(ModuleName, 9, "transaction has no output paying a tracked P2SS address")
	ErrMissingCommitment = errors.Register(ModuleName, 10, "transaction has no valid recipient commitment")
	ErrInsufficientFunds = errors.Register(ModuleName, 11, "inputs do not cover outputs plus room for change")
	ErrOutputBelowFee    = errors.Register(ModuleName, 12, "apportioned fee reduces an output to zero or below")
	ErrEmptySignatorySet = errors.Register(ModuleName, 13, "signatory set is empty")
	ErrNoSigningTx       = errors.Register(ModuleName, 14, "no SigningTx is currently in flight")
	ErrKeyBoundToTx      = errors.Register(ModuleName, 15, "committed key is bound to a live SigningTx and cannot be re-committed")
	ErrNotEnoughConfs    = errors.Register(ModuleName, 16, "proof height has not yet reached the configured confirmation depth")
)
