package signing

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// VerifyDERSignature checks a DER-encoded secp256k1 signature over sighash
// against a 33-byte compressed public key (spec.md §4.F: "the committed
// secp256k1 key at that index must verify each signature against the
// corresponding sighash").
func VerifyDERSignature(pubKeyBytes, sig, sighash []byte) (bool, error) {
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false, fmt.Errorf("signing: parsing pubkey: %w", err)
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, fmt.Errorf("signing: parsing DER signature: %w", err)
	}
	return parsed.Verify(sighash, pubKey), nil
}
