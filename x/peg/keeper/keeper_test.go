package keeper_test

import (
	"bytes"
	"context"
	"testing"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cosmos/cosmos-sdk/codec"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdktestutil "github.com/cosmos/cosmos-sdk/testutil"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/golang/mock/gomock"
	"github.com/mappum/bitcoin-peg/bitcoin"
	"github.com/mappum/bitcoin-peg/x/peg/keeper"
	"github.com/mappum/bitcoin-peg/x/peg/testutil"
	"github.com/mappum/bitcoin-peg/x/peg/types"
	"github.com/stretchr/testify/require"
)

// fixture bundles a fresh Keeper over an in-memory store with hand-rolled
// gomock doubles for the staking and bank keepers, mirroring the
// teacher's keeper_test.go fixture pattern.
type fixture struct {
	ctx           context.Context
	keeper        keeper.Keeper
	stakingKeeper *testutil.MockStakingKeeper
	bankKeeper    *testutil.MockBankKeeper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	storeService := runtime.NewKVStoreService(storeKey)
	ctx := sdktestutil.DefaultContextWithDB(t, storeKey, storetypes.NewTransientStoreKey("transient_test")).Ctx

	ctrl := gomock.NewController(t)
	stakingKeeper := testutil.NewMockStakingKeeper(ctrl)
	bankKeeper := testutil.NewMockBankKeeper(ctrl)

	cdc := codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
	addrCodec := addresscodec.NewBech32Codec("cosmos")

	cfg := bitcoin.Config{
		Network: bitcoin.NetworkConfig{Network: "regtest", MaxReorgDepth: 0},
		Fee:     bitcoin.FeeConfig{MinRelayFee: 1000, DepositFee: 0},
	}

	k := keeper.NewKeeper(
		storeService,
		cdc,
		addrCodec,
		stakingKeeper,
		bankKeeper,
		cfg,
		&chaincfg.RegressionNetParams,
		keeper.DrainConfig{DrainEveryBlocks: 1, DrainAtQueueSize: 1},
		"gov",
	)

	return &fixture{ctx: ctx, keeper: k, stakingKeeper: stakingKeeper, bankKeeper: bankKeeper}
}

// genValidator generates an ed25519 consensus keypair and the bonded
// stakingtypes.Validator record for it; power is reported 1:1 since tests
// always set the mock staking keeper's PowerReduction to 1.
func genValidator(t *testing.T, power int64) (ed25519.PrivKey, stakingtypes.Validator) {
	t.Helper()
	priv := ed25519.GenPrivKey()
	pub := priv.PubKey().(ed25519.PubKey)

	pKey, err := cryptocodec.FromCmtPubKeyInterface(pub)
	require.NoError(t, err)
	val, err := stakingtypes.NewValidator("", pKey, stakingtypes.Description{})
	require.NoError(t, err)
	val.Status = stakingtypes.Bonded
	val.Tokens = math.NewInt(power)

	return priv, val
}

// commitSignatoryKey signs a fresh secp256k1 pubkey under the validator's
// consensus key and admits it via HandleSignatoryKey, returning the
// secp256k1 key so tests can later sign disbursal sighashes with it.
func commitSignatoryKey(t *testing.T, f *fixture, priv ed25519.PrivKey, index uint32) *secpKey {
	t.Helper()
	secpPriv := newSecpKey(t)
	sig, err := priv.Sign(secpPriv.pubKeyBytes)
	require.NoError(t, err)

	err = f.keeper.HandleSignatoryKey(f.ctx, types.MsgSignatoryKey{
		SignatoryIndex: index,
		SignatoryKey:   secpPriv.pubKeyBytes,
		Signature:      sig,
	})
	require.NoError(t, err)
	return secpPriv
}

func TestHandleSignatoryKeyPublishesCurrentAddress(t *testing.T) {
	f := newFixture(t)
	priv, val := genValidator(t, 10)

	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{val}, nil).AnyTimes()
	f.stakingKeeper.EXPECT().PowerReduction(gomock.Any()).Return(math.NewInt(1)).AnyTimes()

	addrBefore, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)
	require.Empty(t, addrBefore)

	commitSignatoryKey(t, f, priv, 0)
	require.NoError(t, f.keeper.RotateIfNeeded(f.ctx))

	addr, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)
	require.NotEmpty(t, addr)

	set, ok, err := f.keeper.SignatorySetByAddress(f.ctx, addr)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, set.Signatories, 1)

	// Rotating again with no change to the validator/key state leaves the
	// current address as it was (spec.md §4.G "if the address differs").
	require.NoError(t, f.keeper.RotateIfNeeded(f.ctx))
	addrAgain, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)
	require.Equal(t, addr, addrAgain)
}

func TestHandleSignatoryKeyBadSignatureRejected(t *testing.T) {
	f := newFixture(t)
	_, val := genValidator(t, 10)
	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{val}, nil).AnyTimes()
	f.stakingKeeper.EXPECT().PowerReduction(gomock.Any()).Return(math.NewInt(1)).AnyTimes()

	otherPriv := ed25519.GenPrivKey()
	secpPriv := newSecpKey(t)
	badSig, err := otherPriv.Sign(secpPriv.pubKeyBytes)
	require.NoError(t, err)

	err = f.keeper.HandleSignatoryKey(f.ctx, types.MsgSignatoryKey{
		SignatoryIndex: 0,
		SignatoryKey:   secpPriv.pubKeyBytes,
		Signature:      badSig,
	})
	require.ErrorIs(t, err, types.ErrBadSignature)
}

func TestSignatoryRotationOnNewValidator(t *testing.T) {
	f := newFixture(t)
	privB, valB := genValidator(t, 10)

	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{valB}, nil).Times(1)
	f.stakingKeeper.EXPECT().PowerReduction(gomock.Any()).Return(math.NewInt(1)).AnyTimes()
	commitSignatoryKey(t, f, privB, 0)

	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{valB}, nil).Times(1)
	require.NoError(t, f.keeper.RotateIfNeeded(f.ctx))
	addr1, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)
	require.NotEmpty(t, addr1)

	privA, valA := genValidator(t, 10)
	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{valB, valA}, nil).Times(1)
	// Equal voting power: the larger consensus key ranks first.
	indexA := uint32(1)
	if bytes.Compare(privA.PubKey().Bytes(), privB.PubKey().Bytes()) > 0 {
		indexA = 0
	}
	commitSignatoryKey(t, f, privA, indexA)

	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{valB, valA}, nil).AnyTimes()
	require.NoError(t, f.keeper.RotateIfNeeded(f.ctx))
	addr2, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)
	require.NotEqual(t, addr1, addr2)

	// The prior address's signatory set remains queryable for inflight UTXOs.
	_, ok, err := f.keeper.SignatorySetByAddress(f.ctx, addr1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWithdrawalDrainAndFinalize(t *testing.T) {
	f := newFixture(t)
	priv, val := genValidator(t, 10)

	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{val}, nil).AnyTimes()
	f.stakingKeeper.EXPECT().PowerReduction(gomock.Any()).Return(math.NewInt(1)).AnyTimes()

	secpPriv := commitSignatoryKey(t, f, priv, 0)
	require.NoError(t, f.keeper.RotateIfNeeded(f.ctx))
	address, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)
	require.NotEmpty(t, address)

	seedUTXO(t, f, address, 1_000_000)

	require.NoError(t, f.keeper.HandleWithdrawal(f.ctx, types.MsgWithdrawal{
		Script: dummyP2WPKHScript(),
		Amount: 500_000,
	}))

	require.NoError(t, f.keeper.DrainIfNeeded(f.ctx, 1))

	rec, err := f.keeper.SigningTx.Get(f.ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rec.TxBytes)
	require.Equal(t, address, rec.Address)

	sigs := signAllInputs(t, rec, secpPriv)
	require.NoError(t, f.keeper.HandleSignature(f.ctx, types.MsgSignature{
		SignatoryIndex: 0,
		Signatures:     sigs,
	}))

	signed, ok, err := getSignedTx(f)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, signed.TxBytes)

	// The SigningTx slot is cleared once finalized.
	_, err = f.keeper.SigningTx.Get(f.ctx)
	require.Error(t, err)

	utxos, err := f.keeper.AllUTXOs(f.ctx)
	require.NoError(t, err)
	require.Empty(t, utxos)
}

func TestHandleSignatureAlreadySignedRejected(t *testing.T) {
	f := newFixture(t)
	priv, val := genValidator(t, 10)
	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{val}, nil).AnyTimes()
	f.stakingKeeper.EXPECT().PowerReduction(gomock.Any()).Return(math.NewInt(1)).AnyTimes()

	secpPriv := commitSignatoryKey(t, f, priv, 0)
	require.NoError(t, f.keeper.RotateIfNeeded(f.ctx))
	address, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)

	seedUTXO(t, f, address, 1_000_000)
	require.NoError(t, f.keeper.HandleWithdrawal(f.ctx, types.MsgWithdrawal{Script: dummyP2WPKHScript(), Amount: 500_000}))
	require.NoError(t, f.keeper.DrainIfNeeded(f.ctx, 1))

	rec, err := f.keeper.SigningTx.Get(f.ctx)
	require.NoError(t, err)
	sigs := signAllInputs(t, rec, secpPriv)

	require.NoError(t, f.keeper.HandleSignature(f.ctx, types.MsgSignature{SignatoryIndex: 0, Signatures: sigs}))

	// A single signatory with full voting power finalizes on first submit,
	// clearing signing_tx; resubmitting hits ErrNoSigningTx rather than
	// AlreadySigned, matching §4.F ("No further signatures are accepted").
	err = f.keeper.HandleSignature(f.ctx, types.MsgSignature{SignatoryIndex: 0, Signatures: sigs})
	require.ErrorIs(t, err, types.ErrNoSigningTx)
}

func TestHandleSignatoryKeyRejectsReCommitmentWhileBound(t *testing.T) {
	f := newFixture(t)
	priv, val := genValidator(t, 10)
	f.stakingKeeper.EXPECT().GetAllValidators(gomock.Any()).Return([]stakingtypes.Validator{val}, nil).AnyTimes()
	f.stakingKeeper.EXPECT().PowerReduction(gomock.Any()).Return(math.NewInt(1)).AnyTimes()

	secpPriv := commitSignatoryKey(t, f, priv, 0)
	require.NoError(t, f.keeper.RotateIfNeeded(f.ctx))
	address, err := f.keeper.CurrentP2SSAddress(f.ctx)
	require.NoError(t, err)

	seedUTXO(t, f, address, 1_000_000)
	require.NoError(t, f.keeper.HandleWithdrawal(f.ctx, types.MsgWithdrawal{Script: dummyP2WPKHScript(), Amount: 500_000}))
	require.NoError(t, f.keeper.DrainIfNeeded(f.ctx, 1))

	// Once drain binds the committed key to the in-flight SigningTx,
	// re-committing a replacement key for the same signatory is rejected.
	newKey := newSecpKey(t)
	sig, err := priv.Sign(newKey.pubKeyBytes)
	require.NoError(t, err)
	err = f.keeper.HandleSignatoryKey(f.ctx, types.MsgSignatoryKey{
		SignatoryIndex: 0,
		SignatoryKey:   newKey.pubKeyBytes,
		Signature:      sig,
	})
	require.ErrorIs(t, err, types.ErrKeyBoundToTx)

	rec, err := f.keeper.SigningTx.Get(f.ctx)
	require.NoError(t, err)
	sigs := signAllInputs(t, rec, secpPriv)
	require.NoError(t, f.keeper.HandleSignature(f.ctx, types.MsgSignature{SignatoryIndex: 0, Signatures: sigs}))

	// Finalizing clears the bind, so the same re-commitment now succeeds.
	err = f.keeper.HandleSignatoryKey(f.ctx, types.MsgSignatoryKey{
		SignatoryIndex: 0,
		SignatoryKey:   newKey.pubKeyBytes,
		Signature:      sig,
	})
	require.NoError(t, err)
}
