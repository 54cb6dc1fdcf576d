package signing

// AssembleWitness builds the witness stack for one input per spec.md §4.F:
// the ordered list [sig_{n-1}, sig_{n-2}, …, sig_0, witnessScript], where slot k
// is the DER signature of signatory k if present, else an empty item
// (the canonical witness-stack encoding of OP_0/false).
//
// sigs maps signatory index -> DER signature for this input. n is the
// number of signatories in the set (script positions 0..n-1).
func AssembleWitness(sigs map[int][]byte, n int, witnessScript []byte) [][]byte {
	stack := make([][]byte, 0, n+1)
	for k := n - 1; k >= 0; k-- {
		if sig, ok := sigs[k]; ok {
			stack = append(stack, sig)
		} else {
			stack = append(stack, nil)
		}
	}
	stack = append(stack, witnessScript)
	return stack
}
