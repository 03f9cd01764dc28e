package dispatcher

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/config"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/contract-bindings/Verifier"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/session"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/testutil"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider/inMemoryWalletProvider"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testContract = common.HexToAddress(config.VerifierContractAddress)

type harness struct {
	dispatcher *Dispatcher
	chain      *testutil.MockVerifierChain
	address    common.Address
}

func newHarness(t *testing.T, opts ...inMemoryWalletProvider.Option) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	chainId := big.NewInt(int64(config.ChainId_EthereumSepolia))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	provider := inMemoryWalletProvider.NewInMemoryWalletProviderFromKey(key, chainId, logger, opts...)

	chain, err := testutil.NewMockVerifierChain(chainId, testContract, logger)
	require.NoError(t, err)

	d := NewDispatcher(&DispatcherConfig{
		ContractAddress: testContract,
		Descriptor:      Verifier.VerifierMetaData,
		ChainId:         config.ChainId_EthereumSepolia,
	}, session.NewManager(provider, logger), chain, logger)

	return &harness{
		dispatcher: d,
		chain:      chain,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (h *harness) connect(t *testing.T) {
	t.Helper()
	sess, err := h.dispatcher.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, h.address, sess.Address)
	_, err = h.dispatcher.AttachContract()
	require.NoError(t, err)
}

func Test_Submit(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.chain.SetStore(big.NewInt(2), "before", "older")

	h.dispatcher.SetInput("  hello ")
	receipt, err := h.dispatcher.Submit(context.Background())
	require.NoError(t, err)

	sent := h.chain.SentTransactions()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello", sent[0].Value)
	assert.Equal(t, h.address, sent[0].From)

	assert.NotEqual(t, common.Hash{}, receipt.TxHash)
	assert.Equal(t, sent[0].Tx.Hash(), receipt.TxHash)
	assert.Equal(t, "https://sepolia.etherscan.io/tx/"+receipt.TxHash.Hex(), receipt.ExplorerUrl)
	assert.Equal(t, 1, h.chain.StoreCalls())

	state := h.dispatcher.State()
	require.NotNil(t, state.Status)
	assert.Equal(t, types.ContractStatus{Nonce: "3", Data: "hello", PrevData: "before"}, *state.Status)
	assert.Equal(t, receipt, state.Receipt)
}

func Test_SubmitNoOps(t *testing.T) {
	t.Run("whitespace input", func(t *testing.T) {
		h := newHarness(t)
		h.connect(t)
		h.dispatcher.SetInput("   ")

		receipt, err := h.dispatcher.Submit(context.Background())
		require.Error(t, err)
		assert.Nil(t, receipt)
		assert.True(t, errors.Is(err, ErrEmptyInput))
		assert.Equal(t, types.ErrorKindValidationFailure, types.KindOf(err))
		assert.Empty(t, h.chain.SentTransactions())
		assert.Nil(t, h.dispatcher.State().Receipt)
	})

	t.Run("no session", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.dispatcher.AttachContract()
		require.NoError(t, err)
		h.dispatcher.SetInput("hello")

		_, err = h.dispatcher.Submit(context.Background())
		assert.True(t, errors.Is(err, ErrNotConnected))
		assert.Empty(t, h.chain.SentTransactions())
	})

	t.Run("no contract", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.dispatcher.Connect(context.Background())
		require.NoError(t, err)
		h.dispatcher.SetInput("hello")

		_, err = h.dispatcher.Submit(context.Background())
		assert.True(t, errors.Is(err, ErrContractNotAttached))
		assert.Equal(t, types.ErrorKindValidationFailure, types.KindOf(err))
		assert.Empty(t, h.chain.SentTransactions())
	})
}

func Test_SubmitFailures(t *testing.T) {
	t.Run("rejected transaction", func(t *testing.T) {
		h := newHarness(t, inMemoryWalletProvider.WithPrompt(func(ctx context.Context, method string) bool {
			return method != walletProvider.MethodSendTransaction
		}))
		h.connect(t)
		h.dispatcher.SetInput("hello")

		_, err := h.dispatcher.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, types.ErrorKindUserRejected, types.KindOf(err))
		assert.Empty(t, h.chain.SentTransactions())
		assert.Nil(t, h.dispatcher.State().Receipt)
	})

	t.Run("reverted transaction", func(t *testing.T) {
		h := newHarness(t)
		h.connect(t)
		h.chain.RevertWrites = true
		h.dispatcher.SetInput("hello")

		_, err := h.dispatcher.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, types.ErrorKindCallFailure, types.KindOf(err))
		assert.Nil(t, h.dispatcher.State().Receipt)
		assert.Equal(t, 0, h.chain.StoreCalls())
	})

	t.Run("status refresh fails", func(t *testing.T) {
		h := newHarness(t)
		h.connect(t)
		h.chain.CallErr = errors.New("node unavailable")
		h.dispatcher.SetInput("hello")

		_, err := h.dispatcher.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, types.ErrorKindCallFailure, types.KindOf(err))
		assert.Len(t, h.chain.SentTransactions(), 1)
		assert.Nil(t, h.dispatcher.State().Receipt)
	})
}

func Test_SubmitInFlight(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	h := newHarness(t, inMemoryWalletProvider.WithPrompt(func(ctx context.Context, method string) bool {
		if method == walletProvider.MethodSendTransaction {
			once.Do(func() { close(started) })
		}
		return true
	}))
	h.connect(t)
	h.chain.SendGate = make(chan struct{})
	h.dispatcher.SetInput("first")

	type result struct {
		receipt *types.OperationReceipt
		err     error
	}
	done := make(chan result, 1)
	go func() {
		receipt, err := h.dispatcher.Submit(context.Background())
		done <- result{receipt, err}
	}()

	<-started
	_, err := h.dispatcher.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSubmitInFlight))

	h.chain.SendGate <- struct{}{}
	first := <-done
	require.NoError(t, first.err)
	assert.Len(t, h.chain.SentTransactions(), 1)

	close(h.chain.SendGate)
	h.dispatcher.SetInput("second")
	_, err = h.dispatcher.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.chain.SentTransactions(), 2)
}

func Test_ReadStatus(t *testing.T) {
	t.Run("reads without a session", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.dispatcher.AttachContract()
		require.NoError(t, err)
		h.chain.SetStore(big.NewInt(7), "now", "then")

		status, err := h.dispatcher.ReadStatus(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &types.ContractStatus{Nonce: "7", Data: "now", PrevData: "then"}, status)
		assert.Equal(t, status, h.dispatcher.State().Status)
	})

	t.Run("fresh contract", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.dispatcher.AttachContract()
		require.NoError(t, err)

		status, err := h.dispatcher.ReadStatus(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &types.ContractStatus{Nonce: "0"}, status)
	})

	t.Run("no contract", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.dispatcher.ReadStatus(context.Background())
		assert.True(t, errors.Is(err, ErrContractNotAttached))
		assert.Equal(t, 0, h.chain.StoreCalls())
	})

	t.Run("call failure keeps the previous status", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.dispatcher.AttachContract()
		require.NoError(t, err)
		_, err = h.dispatcher.ReadStatus(context.Background())
		require.NoError(t, err)

		h.chain.CallErr = errors.New("node unavailable")
		_, err = h.dispatcher.ReadStatus(context.Background())
		require.Error(t, err)
		assert.Equal(t, types.ErrorKindCallFailure, types.KindOf(err))
		assert.Equal(t, &types.ContractStatus{Nonce: "0"}, h.dispatcher.State().Status)
	})
}

func Test_SaveAndSendSignature(t *testing.T) {
	h := newHarness(t)
	h.connect(t)
	h.dispatcher.SetInput("hello")

	payload, err := h.dispatcher.SaveSignature(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0x5c, 0xbd, 0x32}, []byte(payload.Calldata[:4]))
	require.Len(t, payload.Signature, 65)

	// the signature covers the calldata's hex text
	sig := append([]byte{}, payload.Signature...)
	sig[crypto.RecoveryIDOffset] -= 27
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(hexutil.Encode(payload.Calldata))), sig)
	require.NoError(t, err)
	assert.Equal(t, h.address, crypto.PubkeyToAddress(*pub))
	assert.Empty(t, h.chain.SentTransactions())

	tx, err := h.dispatcher.SendSignature(context.Background())
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.Equal(t, types.ErrorKindCallFailure, types.KindOf(err))
	assert.Empty(t, h.chain.SentTransactions())
}

func Test_SendSignature(t *testing.T) {
	t.Run("nothing saved", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.dispatcher.SendSignature(context.Background())
		assert.True(t, errors.Is(err, ErrNoSignedPayload))
		assert.Equal(t, types.ErrorKindValidationFailure, types.KindOf(err))
	})

	t.Run("decodes a signed transaction", func(t *testing.T) {
		h := newHarness(t)
		h.connect(t)
		h.dispatcher.SetInput("hello")
		_, err := h.dispatcher.Submit(context.Background())
		require.NoError(t, err)

		raw, err := h.chain.SentTransactions()[0].Tx.MarshalBinary()
		require.NoError(t, err)
		h.dispatcher.LoadSignature(raw)

		tx, err := h.dispatcher.SendSignature(context.Background())
		require.NoError(t, err)
		assert.Equal(t, h.chain.SentTransactions()[0].Tx.Hash(), tx.Hash())
		assert.Len(t, h.chain.SentTransactions(), 1)
	})
}

func Test_SaveSignatureRequiresSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.dispatcher.AttachContract()
	require.NoError(t, err)

	_, err = h.dispatcher.SaveSignature(context.Background())
	assert.True(t, errors.Is(err, ErrNotConnected))
	assert.Nil(t, h.dispatcher.State().SignedPayload)
}
