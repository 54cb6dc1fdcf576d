package types

import "fmt"

// GenesisState is the module's exported/imported state.
type GenesisState struct {
	Utxos          []UTXO           `json:"utxos"`
	CommittedKeys  []CommittedKey   `json:"committed_keys"`
	SignatorySets  []SignatorySet   `json:"signatory_sets"`
	CurrentAddress string           `json:"current_address"`
	ProcessedTxs   []string         `json:"processed_txs"`
	PendingOutputs []PendingOutput  `json:"pending_outputs"`
	SigningTx      *SigningTxRecord `json:"signing_tx,omitempty"`
	SignedTx       *SignedTxRecord  `json:"signed_tx,omitempty"`
	Headers        []HeaderRecord   `json:"headers"`
	HeaderMeta     HeaderChainMeta  `json:"header_chain_meta"`
	ConstOverrides map[string]int64 `json:"const_overrides"`
}

// DefaultGenesis returns an empty genesis state: no headers, no
// signatories, no address. A chain must seed a trusted initial header and
// network params out-of-band before this module can verify deposits.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		ConstOverrides: map[string]int64{},
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	seenTx := make(map[string]bool, len(gs.ProcessedTxs))
	for i, txid := range gs.ProcessedTxs {
		if seenTx[txid] {
			return fmt.Errorf("processed_txs[%d]: duplicate txid %s", i, txid)
		}
		seenTx[txid] = true
	}

	seenKey := make(map[string]bool, len(gs.CommittedKeys))
	for i, ck := range gs.CommittedKeys {
		if len(ck.ConsensusKey) != 32 {
			return fmt.Errorf("committed_keys[%d]: consensus key must be 32 bytes", i)
		}
		if len(ck.PubKey) != 33 {
			return fmt.Errorf("committed_keys[%d]: pub key must be 33 bytes", i)
		}
		key := string(ck.ConsensusKey)
		if seenKey[key] {
			return fmt.Errorf("committed_keys[%d]: duplicate consensus key", i)
		}
		seenKey[key] = true
	}

	seenAddr := make(map[string]bool, len(gs.SignatorySets))
	for i, set := range gs.SignatorySets {
		if set.Address == "" {
			return fmt.Errorf("signatory_sets[%d]: address cannot be empty", i)
		}
		if seenAddr[set.Address] {
			return fmt.Errorf("signatory_sets[%d]: duplicate address %s", i, set.Address)
		}
		seenAddr[set.Address] = true
	}

	if gs.CurrentAddress != "" && !seenAddr[gs.CurrentAddress] {
		return fmt.Errorf("current_address %s has no entry in signatory_sets", gs.CurrentAddress)
	}

	if len(gs.Headers) > 0 {
		wantTip := gs.HeaderMeta.StartHeight + uint32(len(gs.Headers)) - 1
		if wantTip != gs.HeaderMeta.TipHeight {
			return fmt.Errorf("header_chain_meta.tip_height %d inconsistent with %d stored headers starting at %d",
				gs.HeaderMeta.TipHeight, len(gs.Headers), gs.HeaderMeta.StartHeight)
		}
	}

	return nil
}
