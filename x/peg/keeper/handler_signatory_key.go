package keeper

import (
	"context"
	"errors"

	sdkerrors "cosmossdk.io/errors"
	"github.com/mappum/bitcoin-peg/signatory"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// HandleSignatoryKey admits a (signatory_index, secp256k1_key, signature)
// commitment, per spec.md §4.C. On success the key is recorded in the
// committed-key registry and rotation (component G) may republish a new
// current address on the next block.
func (k Keeper) HandleSignatoryKey(ctx context.Context, msg types.MsgSignatoryKey) error {
	if err := msg.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
	}

	ranked, err := k.rankedValidators(ctx)
	if err != nil {
		return err
	}

	consensusKey, err := signatory.VerifyKeyCommitment(ranked, int(msg.SignatoryIndex), msg.SignatoryKey, msg.Signature)
	if err != nil {
		switch {
		case errors.Is(err, signatory.ErrBadIndex):
			return types.ErrBadIndex
		case errors.Is(err, signatory.ErrBadKeyFormat):
			return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
		default:
			return types.ErrBadSignature
		}
	}

	key := consensusKeyHex(consensusKey)
	existing, err := k.CommittedKeys.Get(ctx, key)
	if err == nil && existing.BoundTxID != "" {
		// SPEC_FULL.md §12's resolution of the §9 Open Question: a key
		// bound to a live SigningTx cannot be silently replaced.
		return types.ErrKeyBoundToTx
	}

	if err := k.CommittedKeys.Set(ctx, key, types.CommittedKey{
		ConsensusKey: consensusKey[:],
		PubKey:       msg.SignatoryKey,
	}); err != nil {
		return err
	}

	k.Logger(ctx).Info("committed signatory key", "signatory_index", msg.SignatoryIndex)
	return nil
}
