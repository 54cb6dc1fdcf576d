// Package script implements the pay-to-signatory-set (P2SS) witness script
// assembler (spec.md §4.B): a deterministic weighted-threshold Bitcoin
// script over a signatory set, and the P2WSH address it derives.
package script

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/mappum/bitcoin-peg/signatory"
)

// item is one element of a script under construction: a bare opcode, a
// data push, or a minimal-length integer push. Building the script as an
// ordered list of these, then handing the whole list to btcd's standard
// encoder, replaces the source's pattern of concatenating human-readable
// opcode/hex strings and reparsing them (design note §9): out-of-range
// integer pushes are caught here, at insertion time, rather than at spend
// time.
type item struct {
	op   byte
	data []byte
	num  *int64
	isOp bool
}

// Builder assembles a witness script as an ordered sequence of typed
// items.
type Builder struct {
	items []item
	err   error
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddOp(op byte) *Builder {
	if b.err != nil {
		return b
	}
	b.items = append(b.items, item{op: op, isOp: true})
	return b
}

// AddPubKey pushes a 33-byte compressed secp256k1 public key.
func (b *Builder) AddPubKey(pk []byte) *Builder {
	if b.err != nil {
		return b
	}
	if len(pk) != 33 {
		b.err = fmt.Errorf("script: pubkey must be 33 bytes, got %d", len(pk))
		return b
	}
	b.items = append(b.items, item{data: pk})
	return b
}

// AddAmount pushes a minimal-length little-endian integer encoding of a
// voting power or threshold value. Per spec.md §4.B every such value must
// lie in [0, 2^32); values outside that range are rejected here.
func (b *Builder) AddAmount(v uint64) *Builder {
	if b.err != nil {
		return b
	}
	if v >= 1<<32 {
		b.err = fmt.Errorf("script: value %d exceeds uint32 range", v)
		return b
	}
	n := int64(v)
	b.items = append(b.items, item{num: &n})
	return b
}

// Script serializes the accumulated items through btcd's standard script
// encoder.
func (b *Builder) Script() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	sb := txscript.NewScriptBuilder()
	for _, it := range b.items {
		switch {
		case it.num != nil:
			sb.AddInt64(*it.num)
		case it.data != nil:
			sb.AddData(it.data)
		case it.isOp:
			sb.AddOp(it.op)
		}
	}
	return sb.Script()
}

// BuildWitnessScript emits the witness script of spec.md §4.B for an
// ordered signatory set s0..sn:
//
//	<pk0> CHECKSIG IF <vp0>         ELSE 0 ENDIF
//	SWAP <pk1> CHECKSIG IF <vp1> ADD ENDIF
//	SWAP <pk2> CHECKSIG IF <vp2> ADD ENDIF
//	...
//	<threshold> GREATERTHAN
//
// Each signatory must have committed a secp256k1 key (33 bytes); the set
// must be non-empty (the caller is expected to have already rejected an
// EmptySignatorySet at the selector stage).
func BuildWitnessScript(set signatory.Set) ([]byte, error) {
	if len(set.Signatories) == 0 {
		return nil, fmt.Errorf("script: cannot build witness script for an empty signatory set")
	}

	b := NewBuilder()
	for i, sig := range set.Signatories {
		if len(sig.PubKey) != 33 {
			return nil, fmt.Errorf("script: signatory[%d] has no committed 33-byte key", i)
		}
		if i > 0 {
			b.AddOp(txscript.OP_SWAP)
		}
		b.AddPubKey(sig.PubKey)
		b.AddOp(txscript.OP_CHECKSIG)
		b.AddOp(txscript.OP_IF)
		b.AddAmount(sig.VotingPower)
		if i > 0 {
			b.AddOp(txscript.OP_ADD)
		} else {
			b.AddOp(txscript.OP_ELSE)
			b.AddOp(txscript.OP_0)
		}
		b.AddOp(txscript.OP_ENDIF)
	}
	b.AddAmount(set.Threshold)
	b.AddOp(txscript.OP_GREATERTHAN)

	return b.Script()
}
