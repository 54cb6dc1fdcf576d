package bitcoin

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// bigOne is 1 as a *big.Int; the compact-bits helpers below do not use it.
var bigOne = big.NewInt(1)

// compactToBig decodes nBits' base-256 "compact" encoding into the full
// target integer it represents, the same format used throughout Bitcoin's
// header and chaincfg.Params.PowLimitBits encoding.
func compactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	exponent := uint(compact >> 24)

	var target big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		target.SetInt64(int64(mantissa))
	} else {
		target.SetInt64(int64(mantissa))
		target.Lsh(&target, 8*(exponent-3))
	}

	if compact&0x00800000 != 0 {
		target.Neg(&target)
	}
	return &target
}

// bigToCompact does the reverse of compactToBig, encoding a target integer
// into the compact nBits representation.
func bigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// checkProofOfWork reports whether hash, interpreted as a little-endian
// integer, is at or below the target encoded by bits and does not exceed
// powLimit (spec.md §4.D header-chain extension: "standard difficulty
// retarget and reorg rules").
func checkProofOfWork(hash chainhash.Hash, bits uint32, powLimit *big.Int) bool {
	target := compactToBig(bits)
	if target.Sign() <= 0 || target.Cmp(powLimit) > 0 {
		return false
	}

	hashNum := hashToBig(hash)
	return hashNum.Cmp(target) <= 0
}

// hashToBig interprets a block hash (which is stored and displayed in
// reversed byte order) as a big-endian big.Int for proof-of-work comparison.
func hashToBig(hash chainhash.Hash) *big.Int {
	var buf chainhash.Hash
	blen := len(hash)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = hash[blen-1-i], hash[i]
	}
	return new(big.Int).SetBytes(buf[:])
}
