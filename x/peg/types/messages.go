package types

import "fmt"

// The message types below mirror spec.md §6's external interface exactly:
// Headers, Deposit, SignatoryKey, Signature, Withdrawal. They are admitted
// directly as typed keeper method parameters rather than through a
// generated gRPC Msg service: this module's retrieval set carries no
// .pb.go sources and the toolchain that would generate one from .proto is
// unavailable here, so ValidateBasic-style stateless checks are kept in
// the teacher's idiom but wired directly into the keeper instead of a
// MsgServer.

// SIGNATORY_KEY_LENGTH / SIGNATURE_LENGTH per spec.md §6's Constants table.
const (
	SignatoryKeyLength = 33
	ConsensusSigLength = 64 // ed25519
)

// MsgHeaders extends the SPV header chain.
type MsgHeaders struct {
	Headers [][]byte // each one wire-encoded 80-byte Bitcoin header
}

func (m MsgHeaders) ValidateBasic() error {
	if len(m.Headers) == 0 {
		return fmt.Errorf("headers: at least one header required")
	}
	for i, h := range m.Headers {
		if len(h) != 80 {
			return fmt.Errorf("headers[%d]: wire header must be 80 bytes, got %d", i, len(h))
		}
	}
	return nil
}

// MsgDeposit admits a Bitcoin transaction paying a tracked (current or
// historical) P2SS address, proved via SPV Merkle proof against a known
// header.
type MsgDeposit struct {
	Transaction   []byte
	ProofHeight   uint32
	ProofSiblings [][]byte
	ProofIndex    uint32
}

func (m MsgDeposit) ValidateBasic() error {
	if len(m.Transaction) == 0 {
		return fmt.Errorf("deposit: transaction cannot be empty")
	}
	for i, s := range m.ProofSiblings {
		if len(s) != 32 {
			return fmt.Errorf("deposit: proof sibling %d must be 32 bytes, got %d", i, len(s))
		}
	}
	return nil
}

// MsgSignatoryKey is an ed25519-authenticated secp256k1 key commitment.
type MsgSignatoryKey struct {
	SignatoryIndex uint32
	SignatoryKey   []byte // 33-byte compressed secp256k1 point
	Signature      []byte // 64-byte ed25519 signature
}

func (m MsgSignatoryKey) ValidateBasic() error {
	if len(m.SignatoryKey) != SignatoryKeyLength {
		return fmt.Errorf("signatory_key: must be %d bytes, got %d", SignatoryKeyLength, len(m.SignatoryKey))
	}
	if len(m.Signature) != ConsensusSigLength {
		return fmt.Errorf("signatory_key: signature must be %d bytes, got %d", ConsensusSigLength, len(m.Signature))
	}
	return nil
}

// MsgSignature is one signatory's DER signatures over every input of the
// current SigningTx.
type MsgSignature struct {
	SignatoryIndex uint32
	Signatures     [][]byte
}

func (m MsgSignature) ValidateBasic() error {
	if len(m.Signatures) == 0 {
		return fmt.Errorf("signature: at least one input signature required")
	}
	return nil
}

// MsgWithdrawal is routed internally from the coin ledger when pegged
// coins are burned (spec.md §6: "routed from the coin ledger... enqueued
// into the pending outputs"). It is not submitted by end users directly.
type MsgWithdrawal struct {
	Script []byte
	Amount uint64
}

func (m MsgWithdrawal) ValidateBasic() error {
	if len(m.Script) == 0 {
		return fmt.Errorf("withdrawal: script cannot be empty")
	}
	if m.Amount == 0 {
		return fmt.Errorf("withdrawal: amount must be positive")
	}
	return nil
}
