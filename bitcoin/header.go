// Package bitcoin implements the SPV header-chain maintenance and deposit
// verification of spec.md §4.D: a minimal header chain that enforces
// standard difficulty-retarget and reorg rules (with a configurable
// allowance for regtest), and Merkle-proof verification of deposit
// transactions against a chain entry's merkle root.
package bitcoin

import (
	"fmt"
	"math/big"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Errors raised by HeaderChain.Extend.
var (
	ErrUnknownHeight  = fmt.Errorf("bitcoin: unknown header height")
	ErrBadPrevHash    = fmt.Errorf("bitcoin: header does not extend the chain tip")
	ErrBadProofOfWork = fmt.Errorf("bitcoin: header hash does not satisfy its declared target")
	ErrBadDifficulty  = fmt.Errorf("bitcoin: header's declared difficulty does not match the required retarget value")
	ErrReorgTooDeep   = fmt.Errorf("bitcoin: reorg would replace more headers than the configured allowance")
)

// HeaderChain is an ordered, monotonically extended sequence of Bitcoin
// block headers starting from a trusted initial header (spec.md §3
// "Header chain"). Heights are relative to that initial header, not
// absolute blockchain height.
type HeaderChain struct {
	params        *chaincfg.Params
	headers       []wire.BlockHeader // index 0 is the initial/genesis header
	startHeight   uint32
	maxReorgDepth uint32 // 0 means unlimited, matching regtest's SPV allowance (§4.D)
	logger        zerolog.Logger
}

// NewHeaderChain seeds a chain from a trusted header at startHeight.
func NewHeaderChain(params *chaincfg.Params, startHeight uint32, initial wire.BlockHeader, maxReorgDepth uint32) *HeaderChain {
	return &HeaderChain{
		params:        params,
		headers:       []wire.BlockHeader{initial},
		startHeight:   startHeight,
		maxReorgDepth: maxReorgDepth,
		logger:        log.With().Str("module", "header_chain").Logger(),
	}
}

// Height returns the height of the current tip.
func (c *HeaderChain) Height() uint32 {
	return c.startHeight + uint32(len(c.headers)) - 1
}

// Tip returns the current tip header.
func (c *HeaderChain) Tip() wire.BlockHeader {
	return c.headers[len(c.headers)-1]
}

// HeaderAt returns the header at the given absolute height, used by the
// deposit verifier to look up chain[header_height].merkle_root (spec.md
// §4.D step 1, failing UnknownHeight otherwise).
func (c *HeaderChain) HeaderAt(height uint32) (wire.BlockHeader, error) {
	if height < c.startHeight || height > c.Height() {
		return wire.BlockHeader{}, ErrUnknownHeight
	}
	return c.headers[height-c.startHeight], nil
}

// Extend admits a sequence of new headers, each of which must chain from
// the previous (or, for the first header supplied, from the current tip or
// an ancestor within maxReorgDepth — a reorg). Every header's proof of work
// and declared difficulty are checked against the standard retarget rule,
// matching chaincfg.Params.PowLimit/TargetTimespan/TargetTimePerBlock
// conventions; ReduceMinDifficulty networks (testnet/regtest) use the
// minimum-difficulty allowance instead.
func (c *HeaderChain) Extend(headers []wire.BlockHeader) error {
	if len(headers) == 0 {
		return nil
	}

	base, err := c.findReorgBase(headers[0])
	if err != nil {
		c.logger.Error().Err(err).Msg("header chain extend rejected: no common ancestor within reorg allowance")
		return err
	}
	if base < c.Height() {
		c.logger.Info().Uint32("reorg_base", base).Uint32("old_tip", c.Height()).Msg("reorg: rewinding chain tip")
	}

	candidate := append([]wire.BlockHeader{}, c.headers[:base-c.startHeight+1]...)
	for i, h := range headers {
		prev := candidate[len(candidate)-1]
		prevHash := prev.BlockHash()
		if h.PrevBlock != prevHash {
			c.logger.Error().Int("index", i).Msg("header chain extend rejected: does not extend candidate tip")
			return fmt.Errorf("%w: header %d", ErrBadPrevHash, i)
		}

		height := c.startHeight + uint32(len(candidate))
		required, err := c.requiredBits(candidate, height, h.Timestamp)
		if err != nil {
			c.logger.Error().Err(err).Uint32("height", height).Msg("header chain extend rejected: retarget computation failed")
			return err
		}
		if h.Bits != required {
			c.logger.Error().Uint32("height", height).Uint32("want", required).Uint32("have", h.Bits).
				Msg("header chain extend rejected: declared difficulty does not match retarget rule")
			return fmt.Errorf("%w: header %d wants %08x, has %08x", ErrBadDifficulty, i, required, h.Bits)
		}
		if !checkProofOfWork(h.BlockHash(), h.Bits, c.params.PowLimit) {
			c.logger.Error().Uint32("height", height).Msg("header chain extend rejected: insufficient proof of work")
			return fmt.Errorf("%w: header %d", ErrBadProofOfWork, i)
		}

		candidate = append(candidate, h)
	}

	c.headers = candidate
	c.logger.Info().Uint32("height", c.Height()).Int("count", len(headers)).Msg("extended header chain")
	return nil
}

// findReorgBase locates the chain height whose hash equals the new
// header's PrevBlock, within the configured reorg allowance. A hit at the
// current tip is the common case (a pure extension, no reorg).
func (c *HeaderChain) findReorgBase(first wire.BlockHeader) (uint32, error) {
	tipHeight := c.Height()
	limit := uint32(0)
	if c.maxReorgDepth > 0 && c.maxReorgDepth < uint32(len(c.headers)) {
		limit = tipHeight - c.maxReorgDepth
	} else {
		limit = c.startHeight
	}

	for h := tipHeight; ; h-- {
		hdr := c.headers[h-c.startHeight]
		if hdr.BlockHash() == first.PrevBlock {
			return h, nil
		}
		if h == limit || h == c.startHeight {
			break
		}
	}
	return 0, ErrReorgTooDeep
}

// blocksPerRetarget derives the retarget interval from
// chaincfg.Params.TargetTimespan/TargetTimePerBlock, the same derivation
// btcd's chaincfg-consuming networks all encode.
func (c *HeaderChain) blocksPerRetarget() uint32 {
	return uint32(c.params.TargetTimespan / c.params.TargetTimePerBlock)
}

// requiredBits computes the difficulty a header at height must declare,
// given the chain built so far (candidate, not yet including that header).
func (c *HeaderChain) requiredBits(candidate []wire.BlockHeader, height uint32, timestamp time.Time) (uint32, error) {
	interval := c.blocksPerRetarget()
	tipIdx := uint32(len(candidate)) - 1
	tip := candidate[tipIdx]

	if height%interval != 0 {
		if c.params.ReduceMinDifficulty {
			// Testnet/regtest allowance (§4.D "configurable allowance for
			// regtest"): a block more than 2x the target spacing late may
			// claim the network's minimum difficulty.
			allowMinTime := tip.Timestamp.Add(2 * c.params.TargetTimePerBlock)
			if timestamp.After(allowMinTime) {
				return bigToCompact(c.params.PowLimit), nil
			}
		}
		return tip.Bits, nil
	}

	if tipIdx+1 < interval {
		return tip.Bits, nil
	}
	firstIdx := tipIdx + 1 - interval
	first := candidate[firstIdx]

	actualTimespan := tip.Timestamp.Unix() - first.Timestamp.Unix()
	targetTimespanSecs := int64(c.params.TargetTimespan / time.Second)
	minTimespan := targetTimespanSecs / c.params.RetargetAdjustmentFactor
	maxTimespan := targetTimespanSecs * c.params.RetargetAdjustmentFactor
	if actualTimespan < minTimespan {
		actualTimespan = minTimespan
	} else if actualTimespan > maxTimespan {
		actualTimespan = maxTimespan
	}

	newTarget := compactToBig(tip.Bits)
	newTarget.Mul(newTarget, big.NewInt(actualTimespan))
	newTarget.Div(newTarget, big.NewInt(targetTimespanSecs))

	if newTarget.Cmp(c.params.PowLimit) > 0 {
		return bigToCompact(c.params.PowLimit), nil
	}
	return bigToCompact(newTarget), nil
}

// ProcessedTxSet and signatory-history lookups live in the keeper layer;
// HeaderChain only owns header validation, matching the shared-resource
// policy of SPEC_FULL.md §5.
