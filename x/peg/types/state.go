package types

import "fmt"

// UTXO is a Bitcoin output tracked as spendable custody, owned by the
// current or a historical P2SS address (spec.md §3 "UTXO set").
type UTXO struct {
	Txid    string `json:"txid"`
	Vout    uint32 `json:"vout"`
	Amount  int64  `json:"amount"`
	Address string `json:"address"` // P2SS address that owns this output
}

// Key is the UTXO set's map key: txid:vout.
func (u UTXO) Key() string {
	return fmt.Sprintf("%s:%d", u.Txid, u.Vout)
}

// CommittedKey is a validator's committed secp256k1 signing key (spec.md
// §3 "Committed-key registry", §4.C).
type CommittedKey struct {
	ConsensusKey []byte `json:"consensus_key"` // 32-byte ed25519 consensus pubkey
	PubKey       []byte `json:"pub_key"`       // 33-byte compressed secp256k1 key
	BoundTxID    string `json:"bound_tx_id,omitempty"`
}

// SignatoryRecord is one entry of a frozen SignatorySet.
type SignatoryRecord struct {
	ConsensusKey []byte `json:"consensus_key"`
	VotingPower  uint64 `json:"voting_power"`
	PubKey       []byte `json:"pub_key"`
}

// SignatorySet is the persisted form of signatory.Set, indexed by the P2SS
// address it derives (spec.md §6 signatory_sets[address]).
type SignatorySet struct {
	Address     string            `json:"address"`
	Signatories []SignatoryRecord `json:"signatories"`
	Threshold   uint64            `json:"threshold"`
}

// PendingOutput is one queued withdrawal awaiting the next disbursal drain
// (SPEC_FULL.md §12 "Pending-output queue").
type PendingOutput struct {
	Script []byte `json:"script"`
	Amount int64  `json:"amount"`
}

// SubmittedSignature records one signatory's per-input DER signatures
// against the in-flight SigningTx.
type SubmittedSignature struct {
	SignatoryIndex uint32   `json:"signatory_index"`
	Signatures     [][]byte `json:"signatures"`
}

// SigningTxRecord is the persisted state of the in-flight disbursal
// transaction (spec.md §4.F), serialized as raw consensus bytes so the
// keeper layer stays decoupled from the signing package's in-memory
// bookkeeping type.
type SigningTxRecord struct {
	TxBytes       []byte               `json:"tx_bytes"`
	WitnessScript []byte               `json:"witness_script"`
	Amounts       []int64              `json:"amounts"`
	Address       string               `json:"address"` // signatory set this tx is bound to
	Submitted     []SubmittedSignature `json:"submitted"`
}

// SignedTxRecord is the finalized, broadcastable transaction (spec.md §4.F
// "moved to the signed_tx slot").
type SignedTxRecord struct {
	TxBytes []byte `json:"tx_bytes"`
}

// HeaderRecord is one stored Bitcoin block header, serialized via wire's
// standard 80-byte header encoding.
type HeaderRecord struct {
	Raw []byte `json:"raw"`
}

// HeaderChainMeta tracks the header chain's absolute height bounds.
type HeaderChainMeta struct {
	StartHeight   uint32 `json:"start_height"`
	TipHeight     uint32 `json:"tip_height"`
	MaxReorgDepth uint32 `json:"max_reorg_depth"`
}
