package signatory

import (
	cryptoed25519 "crypto/ed25519"
	"testing"

	"filippo.io/edwards25519"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/stretchr/testify/require"
)

func genConsensusKey(t *testing.T) (ed25519.PrivKey, [32]byte) {
	t.Helper()
	priv := ed25519.GenPrivKey()
	var pub [32]byte
	copy(pub[:], priv.PubKey().Bytes())
	return priv, pub
}

func TestVerifyConsensusSignature(t *testing.T) {
	priv, pub := genConsensusKey(t)
	msg := []byte("committed secp256k1 key bytes")

	sig, err := priv.Sign(msg)
	require.NoError(t, err)
	require.True(t, VerifyConsensusSignature(pub, msg, sig))

	// A signature under any other key must not authenticate.
	_, otherPub := genConsensusKey(t)
	require.False(t, VerifyConsensusSignature(otherPub, msg, sig))

	require.False(t, VerifyConsensusSignature(pub, []byte("different message"), sig))
	require.False(t, VerifyConsensusSignature(pub, msg, sig[:63]))
}

func TestDeriveSigningScalarMatchesRef10(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i * 7)
	}

	s, err := DeriveSigningScalar(seed)
	require.NoError(t, err)

	// The clamped scalar times the base point must reproduce the public
	// key a ref10-style implementation derives from the same seed.
	pub := cryptoed25519.NewKeyFromSeed(seed[:]).Public().(cryptoed25519.PublicKey)
	point := (&edwards25519.Point{}).ScalarBaseMult(s)
	require.Equal(t, []byte(pub), point.Bytes())
}

func TestVerifyKeyCommitment(t *testing.T) {
	priv, pub := genConsensusKey(t)
	ranked := []Ranked{{ConsensusKey: pub, VotingPower: 10}}

	// A real compressed secp256k1 point: the generator.
	secpKey := []byte{
		0x02,
		0x79, 0xbe, 0x66, 0x7e, 0xf9, 0xdc, 0xbb, 0xac,
		0x55, 0xa0, 0x62, 0x95, 0xce, 0x87, 0x0b, 0x07,
		0x02, 0x9b, 0xfc, 0xdb, 0x2d, 0xce, 0x28, 0xd9,
		0x59, 0xf2, 0x81, 0x5b, 0x16, 0xf8, 0x17, 0x98,
	}
	sig, err := priv.Sign(secpKey)
	require.NoError(t, err)

	got, err := VerifyKeyCommitment(ranked, 0, secpKey, sig)
	require.NoError(t, err)
	require.Equal(t, pub, got)

	_, err = VerifyKeyCommitment(ranked, 1, secpKey, sig)
	require.ErrorIs(t, err, ErrBadIndex)

	_, err = VerifyKeyCommitment(ranked, 0, secpKey[:10], sig)
	require.ErrorIs(t, err, ErrBadKeyFormat)

	// 33 bytes that do not decode as a curve point.
	notAPoint := make([]byte, 33)
	notAPoint[0] = 0x02
	_, err = VerifyKeyCommitment(ranked, 0, notAPoint, sig)
	require.ErrorIs(t, err, ErrBadKeyFormat)

	otherPriv := ed25519.GenPrivKey()
	badSig, err := otherPriv.Sign(secpKey)
	require.NoError(t, err)
	_, err = VerifyKeyCommitment(ranked, 0, secpKey, badSig)
	require.ErrorIs(t, err, ErrBadSignature)
}
