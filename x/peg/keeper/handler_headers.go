package keeper

import (
	"bytes"
	"context"
	"fmt"

	sdkerrors "cosmossdk.io/errors"
	"github.com/btcsuite/btcd/wire"
	"github.com/mappum/bitcoin-peg/bitcoin"
	"github.com/mappum/bitcoin-peg/x/peg/types"
)

// loadHeaderChain reconstructs an in-memory bitcoin.HeaderChain from the
// persisted headers map and its meta record (spec.md §3 "Header chain").
func (k Keeper) loadHeaderChain(ctx context.Context) (*bitcoin.HeaderChain, error) {
	meta, err := k.HeaderMeta.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("peg: header chain not initialized: %w", err)
	}

	initialRec, err := k.Headers.Get(ctx, meta.StartHeight)
	if err != nil {
		return nil, fmt.Errorf("peg: loading initial header: %w", err)
	}
	initial, err := decodeHeader(initialRec.Raw)
	if err != nil {
		return nil, err
	}

	chain := bitcoin.NewHeaderChain(k.NetworkParams, meta.StartHeight, initial, meta.MaxReorgDepth)
	for h := meta.StartHeight + 1; h <= meta.TipHeight; h++ {
		rec, err := k.Headers.Get(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("peg: loading header at height %d: %w", h, err)
		}
		hdr, err := decodeHeader(rec.Raw)
		if err != nil {
			return nil, err
		}
		if err := chain.Extend([]wire.BlockHeader{hdr}); err != nil {
			return nil, fmt.Errorf("peg: replaying stored header at height %d: %w", h, err)
		}
	}
	return chain, nil
}

func decodeHeader(raw []byte) (wire.BlockHeader, error) {
	var hdr wire.BlockHeader
	if err := hdr.Deserialize(bytes.NewReader(raw)); err != nil {
		return wire.BlockHeader{}, fmt.Errorf("peg: decoding stored header: %w", err)
	}
	return hdr, nil
}

func encodeHeader(hdr wire.BlockHeader) ([]byte, error) {
	var buf bytes.Buffer
	if err := hdr.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("peg: encoding header: %w", err)
	}
	return buf.Bytes(), nil
}

// HandleHeaders extends the SPV header chain with a batch of new Bitcoin
// headers (spec.md §4.D, component D's header-admission half).
func (k Keeper) HandleHeaders(ctx context.Context, msg types.MsgHeaders) error {
	if err := msg.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
	}

	meta, err := k.HeaderMeta.Get(ctx)
	if err != nil {
		return fmt.Errorf("peg: header chain not initialized: %w", err)
	}

	chain, err := k.loadHeaderChain(ctx)
	if err != nil {
		return err
	}

	headers := make([]wire.BlockHeader, len(msg.Headers))
	for i, raw := range msg.Headers {
		hdr, err := decodeHeader(raw)
		if err != nil {
			return sdkerrors.Wrap(types.ErrBadFormat, err.Error())
		}
		headers[i] = hdr
	}

	if err := chain.Extend(headers); err != nil {
		return sdkerrors.Wrap(types.ErrBadProof, err.Error())
	}

	// A reorg may rewrite headers at heights below the previous tip, so the
	// whole chain from startHeight+1 is rewritten rather than just the
	// newly appended heights.
	for h := meta.StartHeight + 1; h <= chain.Height(); h++ {
		hdr, err := chain.HeaderAt(h)
		if err != nil {
			return err
		}
		raw, err := encodeHeader(hdr)
		if err != nil {
			return err
		}
		if err := k.Headers.Set(ctx, h, types.HeaderRecord{Raw: raw}); err != nil {
			return err
		}
	}
	if err := k.HeaderMeta.Set(ctx, types.HeaderChainMeta{
		StartHeight:   meta.StartHeight,
		TipHeight:     chain.Height(),
		MaxReorgDepth: meta.MaxReorgDepth,
	}); err != nil {
		return err
	}

	k.Logger(ctx).Info("extended header chain", "height", chain.Height())
	return nil
}
