package messageSigning

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/session"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider/inMemoryWalletProvider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// textWallet signs personal_sign data as literal text, the way most browser
// wallets treat a string that is not meant as bytes.
type textWallet struct {
	*inMemoryWalletProvider.InMemoryWalletProvider
}

func (w *textWallet) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if method != walletProvider.MethodPersonalSign {
		return w.InMemoryWalletProvider.Request(ctx, result, method, params...)
	}
	signer, err := w.GetSigner(ctx)
	if err != nil {
		return err
	}
	sig, err := signer.SignMessage(ctx, []byte(params[0].(string)))
	if err != nil {
		return err
	}
	*result.(*hexutil.Bytes) = sig
	return nil
}

func newFlow(t *testing.T, wrap func(*inMemoryWalletProvider.InMemoryWalletProvider) walletProvider.IWalletProvider, opts ...inMemoryWalletProvider.Option) (*Flow, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	var provider walletProvider.IWalletProvider = inMemoryWalletProvider.NewInMemoryWalletProviderFromKey(key, big.NewInt(31337), logger, opts...)
	if wrap != nil {
		provider = wrap(provider.(*inMemoryWalletProvider.InMemoryWalletProvider))
	}
	return NewFlow(session.NewManager(provider, logger), logger), crypto.PubkeyToAddress(key.PublicKey)
}

func Test_HashMessage(t *testing.T) {
	assert.Equal(t, HashMessage("hello"), HashMessage("hello"))
	assert.NotEqual(t, HashMessage("hello"), HashMessage("hello "))
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", HashMessage("").Hex())
}

func Test_RecoverSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	provider := inMemoryWalletProvider.NewInMemoryWalletProviderFromKey(key, big.NewInt(31337), zaptest.NewLogger(t))
	signer, err := provider.GetSigner(context.Background())
	require.NoError(t, err)

	sig, err := signer.SignMessage(context.Background(), []byte("hello"))
	require.NoError(t, err)

	recovered, err := RecoverSigner([]byte("hello"), sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)

	// 0/1 recovery ids
	sig[crypto.RecoveryIDOffset] -= 27
	recovered, err = RecoverSigner([]byte("hello"), sig)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)

	_, err = RecoverSigner([]byte("hello"), sig[:64])
	require.Error(t, err)
}

func Test_FlowHexDecodingWallet(t *testing.T) {
	flow, address := newFlow(t, nil)
	ctx := context.Background()

	hashed := flow.Hash("hello")
	assert.Equal(t, HashMessage("hello"), hashed.Digest)
	assert.Equal(t, "hashed", flow.State().Name())

	sigA, err := flow.SignWithSigner(ctx)
	require.NoError(t, err)
	assert.IsType(t, SignedAState{}, flow.State())

	sigB, err := flow.SignWithProvider(ctx)
	require.NoError(t, err)
	state, ok := flow.State().(SignedBState)
	require.True(t, ok)
	assert.Equal(t, hexutil.Bytes(sigA), state.LibrarySignature)
	assert.Equal(t, hexutil.Bytes(sigB), state.ProviderSignature)

	// this wallet decodes the hex param, so both paths sign the same bytes
	equal, err := flow.Compare()
	require.NoError(t, err)
	assert.True(t, equal)

	recovered, err := flow.Verify()
	require.NoError(t, err)
	assert.Equal(t, address, recovered)
	verified, ok := flow.State().(VerifiedState)
	require.True(t, ok)
	assert.Equal(t, address, verified.RecoveredSigner)
}

func Test_FlowTextSigningWallet(t *testing.T) {
	flow, address := newFlow(t, func(p *inMemoryWalletProvider.InMemoryWalletProvider) walletProvider.IWalletProvider {
		return &textWallet{p}
	})
	ctx := context.Background()

	hashed := flow.Hash("hello")
	_, err := flow.SignWithSigner(ctx)
	require.NoError(t, err)
	sigB, err := flow.SignWithProvider(ctx)
	require.NoError(t, err)

	equal, err := flow.Compare()
	require.NoError(t, err)
	assert.False(t, equal)

	// path B is only verifiable against the hex text, not the digest
	recovered, err := RecoverSigner([]byte(hashed.Digest.Hex()), sigB)
	require.NoError(t, err)
	assert.Equal(t, address, recovered)

	recovered, err = flow.Verify()
	require.NoError(t, err)
	assert.Equal(t, address, recovered)
}

func Test_FlowPreconditions(t *testing.T) {
	flow, _ := newFlow(t, nil)
	ctx := context.Background()

	_, err := flow.SignWithSigner(ctx)
	assert.True(t, errors.Is(err, ErrNotHashed))
	_, err = flow.Verify()
	assert.True(t, errors.Is(err, ErrNotHashed))

	flow.Hash("hello")
	_, err = flow.Compare()
	assert.True(t, errors.Is(err, ErrMissingSignatures))
	_, err = flow.Verify()
	assert.True(t, errors.Is(err, ErrNotSigned))
	assert.Equal(t, types.ErrorKindValidationFailure, types.KindOf(err))

	// path B alone is not enough to compare or verify
	_, err = flow.SignWithProvider(ctx)
	require.NoError(t, err)
	state, ok := flow.State().(SignedBState)
	require.True(t, ok)
	assert.Nil(t, state.LibrarySignature)
	_, err = flow.Compare()
	assert.True(t, errors.Is(err, ErrMissingSignatures))
	_, err = flow.Verify()
	assert.True(t, errors.Is(err, ErrNotSigned))
}

func Test_FlowRehashDiscardsSignatures(t *testing.T) {
	flow, _ := newFlow(t, nil)
	ctx := context.Background()

	flow.Hash("first")
	_, err := flow.SignWithSigner(ctx)
	require.NoError(t, err)
	_, err = flow.SignWithProvider(ctx)
	require.NoError(t, err)

	flow.Hash("second")
	assert.Equal(t, HashedState{Message: "second", Digest: HashMessage("second")}, flow.State())
	_, err = flow.Compare()
	assert.True(t, errors.Is(err, ErrMissingSignatures))
}

func Test_FlowRejectedSignature(t *testing.T) {
	flow, _ := newFlow(t, nil, inMemoryWalletProvider.WithPrompt(func(ctx context.Context, method string) bool {
		return method != walletProvider.MethodPersonalSign
	}))
	ctx := context.Background()

	flow.Hash("hello")
	_, err := flow.SignWithSigner(ctx)
	require.Error(t, err)
	assert.Equal(t, types.ErrorKindUserRejected, types.KindOf(err))

	_, err = flow.SignWithProvider(ctx)
	require.Error(t, err)
	assert.Equal(t, types.ErrorKindUserRejected, types.KindOf(err))

	assert.Equal(t, "hashed", flow.State().Name())
}

func Test_FlowWithoutProvider(t *testing.T) {
	flow := NewFlow(session.NewManager(nil, zaptest.NewLogger(t)), zaptest.NewLogger(t))
	flow.Hash("hello")

	_, err := flow.SignWithSigner(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.ErrorKindProviderUnavailable, types.KindOf(err))
	_, err = flow.SignWithProvider(context.Background())
	assert.Equal(t, types.ErrorKindProviderUnavailable, types.KindOf(err))
}
