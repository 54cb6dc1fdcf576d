package signatory

// ComputeCurrentSet ranks the full validator map (§4.A), then restricts the
// ranked sequence to the entries that have an actual committed secp256k1
// key at freeze time. Only committed entries can appear in the witness
// script (§4.B) — there is no well-formed CHECKSIG branch for a validator
// that hasn't published a key yet — so the threshold (§4.A, "computed over
// the truncated set") is computed over this committed subset: it is the
// set that is actually frozen into the script, matching §3's definition of
// a signatory set as "the selector output plus the committed-key mapping".
// Computing the threshold over the full ranked list instead would let
// uncommitted voting power permanently raise the bar past what committed
// signatories can ever reach, stranding funds; see DESIGN.md.
//
// A ranked validator that has not yet committed a key simply waits outside
// the current address until rotation (§4.G) notices its commitment and
// republishes.
func ComputeCurrentSet(validators []Validator, committedKeys map[[32]byte][]byte, maxSize int) (Set, error) {
	ranked, err := Select(validators, maxSize)
	if err != nil {
		return Set{}, err
	}

	committed := ranked[:0:0]
	for _, r := range ranked {
		if _, ok := committedKeys[r.ConsensusKey]; ok {
			committed = append(committed, r)
		}
	}
	if len(committed) == 0 {
		return Set{}, ErrEmptySet
	}

	return NewSet(committed, committedKeys), nil
}
