package testutil

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/contract-bindings/Verifier"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// SentTransaction records a transaction accepted by MockVerifierChain
type SentTransaction struct {
	From  common.Address
	Tx    *types.Transaction
	Value string
}

// MockVerifierChain is an in-process stand-in for a node serving the verifier
// contract. Every accepted writeSomething is mined immediately.
//
// The embedded ContractBackend is nil; calling a method this mock does not
// implement panics.
type MockVerifierChain struct {
	bind.ContractBackend

	logger   *zap.Logger
	chainId  *big.Int
	contract common.Address
	abi      *abi.ABI

	mu          sync.Mutex
	blockNumber uint64
	nonce       *big.Int
	data        string
	prevData    string
	nonces      map[common.Address]uint64
	receipts    map[common.Hash]*types.Receipt
	sent        []SentTransaction
	storeCalls  int

	// RevertWrites mines writes with a failed status and no state change
	RevertWrites bool
	// SendErr, when set, is returned from SendTransaction
	SendErr error
	// CallErr, when set, is returned from CallContract
	CallErr error
	// SendGate, when set, blocks SendTransaction until a value is received
	SendGate chan struct{}
}

func NewMockVerifierChain(chainId *big.Int, contract common.Address, logger *zap.Logger) (*MockVerifierChain, error) {
	parsed, err := Verifier.VerifierMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	return &MockVerifierChain{
		logger:      logger,
		chainId:     new(big.Int).Set(chainId),
		contract:    contract,
		abi:         parsed,
		blockNumber: 1,
		nonce:       big.NewInt(0),
		nonces:      make(map[common.Address]uint64),
		receipts:    make(map[common.Hash]*types.Receipt),
	}, nil
}

// SetStore overwrites the stored tuple
func (m *MockVerifierChain) SetStore(nonce *big.Int, data string, prevData string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nonce = new(big.Int).Set(nonce)
	m.data = data
	m.prevData = prevData
}

// SentTransactions returns every transaction accepted so far
func (m *MockVerifierChain) SentTransactions() []SentTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentTransaction, len(m.sent))
	copy(out, m.sent)
	return out
}

// StoreCalls returns how many times store() was read
func (m *MockVerifierChain) StoreCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeCalls
}

func (m *MockVerifierChain) code(account common.Address) []byte {
	if account == m.contract {
		return []byte{0x60, 0x80, 0x60, 0x40}
	}
	return nil
}

func (m *MockVerifierChain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return m.code(account), nil
}

func (m *MockVerifierChain) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return m.code(account), nil
}

func (m *MockVerifierChain) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CallErr != nil {
		return nil, m.CallErr
	}
	if call.To == nil || *call.To != m.contract {
		return nil, nil
	}
	if len(call.Data) < 4 {
		return nil, fmt.Errorf("calldata too short")
	}
	method, err := m.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	if method.Name != "store" {
		return nil, fmt.Errorf("unexpected call to %s", method.Name)
	}
	m.storeCalls++
	return method.Outputs.Pack(new(big.Int).Set(m.nonce), m.data, m.prevData)
}

func (m *MockVerifierChain) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &types.Header{
		Number:  new(big.Int).SetUint64(m.blockNumber),
		BaseFee: big.NewInt(1_000_000_000),
	}, nil
}

func (m *MockVerifierChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nonces[account], nil
}

func (m *MockVerifierChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (m *MockVerifierChain) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (m *MockVerifierChain) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (m *MockVerifierChain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if m.SendGate != nil {
		select {
		case <-m.SendGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return m.SendErr
	}

	from, err := types.Sender(types.LatestSignerForChainID(m.chainId), tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if tx.To() == nil || *tx.To() != m.contract || len(tx.Data()) < 4 {
		return fmt.Errorf("transaction is not a verifier call")
	}
	method, err := m.abi.MethodById(tx.Data()[:4])
	if err != nil {
		return err
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		return err
	}
	value, ok := args[0].(string)
	if method.Name != "writeSomething" || !ok {
		return fmt.Errorf("unexpected transaction to %s", method.Name)
	}

	m.blockNumber++
	m.nonces[from]++
	status := types.ReceiptStatusSuccessful
	if m.RevertWrites {
		status = types.ReceiptStatusFailed
	} else {
		m.prevData = m.data
		m.data = value
		m.nonce = new(big.Int).Add(m.nonce, big.NewInt(1))
	}

	m.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(m.blockNumber),
		GasUsed:     50_000,
	}
	m.sent = append(m.sent, SentTransaction{From: from, Tx: tx, Value: value})

	m.logger.Sugar().Debugw("Mock chain mined transaction",
		"txHash", tx.Hash().Hex(),
		"from", from.Hex(),
		"value", value,
		"status", status,
	)
	return nil
}

func (m *MockVerifierChain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipt, ok := m.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}
