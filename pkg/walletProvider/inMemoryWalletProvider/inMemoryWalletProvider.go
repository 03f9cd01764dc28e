package inMemoryWalletProvider

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// PromptFunc stands in for the wallet's confirmation dialog. Returning false
// declines the request.
type PromptFunc func(ctx context.Context, method string) bool

type Option func(*InMemoryWalletProvider)

func WithPrompt(prompt PromptFunc) Option {
	return func(p *InMemoryWalletProvider) {
		p.prompt = prompt
	}
}

// InMemoryWalletProvider emulates an injected wallet holding a single key.
// Account access is granted once and remembered for the provider's lifetime.
type InMemoryWalletProvider struct {
	logger     *zap.Logger
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainId    *big.Int
	prompt     PromptFunc

	mu         sync.Mutex
	authorized bool
}

func NewInMemoryWalletProvider(privateKeyHex string, chainId *big.Int, logger *zap.Logger, opts ...Option) (*InMemoryWalletProvider, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("error loading private key: %w", err)
	}
	return NewInMemoryWalletProviderFromKey(key, chainId, logger, opts...), nil
}

func NewInMemoryWalletProviderFromKey(key *ecdsa.PrivateKey, chainId *big.Int, logger *zap.Logger, opts ...Option) *InMemoryWalletProvider {
	p := &InMemoryWalletProvider{
		logger:     logger,
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
		chainId:    new(big.Int).Set(chainId),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *InMemoryWalletProvider) confirm(ctx context.Context, method string) error {
	if p.prompt == nil {
		return nil
	}
	if !p.prompt(ctx, method) {
		p.logger.Sugar().Debugw("Wallet prompt declined", "method", method)
		return &walletProvider.UserRejectedError{Method: method}
	}
	return nil
}

func (p *InMemoryWalletProvider) isAuthorized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authorized
}

func (p *InMemoryWalletProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.authorized {
		if err := p.confirm(ctx, walletProvider.MethodRequestAccounts); err != nil {
			return nil, err
		}
		p.authorized = true
		p.logger.Sugar().Infow("Wallet account access granted", "address", p.address.Hex())
	}
	return []common.Address{p.address}, nil
}

func (p *InMemoryWalletProvider) GetSigner(ctx context.Context) (walletProvider.ISigner, error) {
	accts, err := p.RequestAccounts(ctx)
	if err != nil {
		return nil, err
	}
	address, err := walletProvider.FirstAccount(accts)
	if err != nil {
		return nil, err
	}
	return &inMemorySigner{provider: p, address: address}, nil
}

// Request answers the subset of wallet JSON-RPC methods the client uses. The
// response goes through a JSON round trip so results decode exactly as they
// would from a remote wallet.
func (p *InMemoryWalletProvider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	response, err := p.handle(ctx, method, params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to encode %s response: %w", method, err)
	}
	return json.Unmarshal(raw, result)
}

func (p *InMemoryWalletProvider) handle(ctx context.Context, method string, params []interface{}) (interface{}, error) {
	switch method {
	case walletProvider.MethodRequestAccounts:
		return p.RequestAccounts(ctx)
	case walletProvider.MethodAccounts:
		if !p.isAuthorized() {
			return []common.Address{}, nil
		}
		return []common.Address{p.address}, nil
	case walletProvider.MethodChainId:
		return (*hexutil.Big)(p.chainId), nil
	case walletProvider.MethodPersonalSign:
		return p.personalSign(ctx, params)
	default:
		return nil, fmt.Errorf("method %s not supported", method)
	}
}

// personalSign takes (data, address). Data that parses as 0x-prefixed hex is
// signed as the decoded bytes, anything else as its UTF-8 text.
func (p *InMemoryWalletProvider) personalSign(ctx context.Context, params []interface{}) (hexutil.Bytes, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("%s expects 2 params, got %d", walletProvider.MethodPersonalSign, len(params))
	}
	data, ok := params[0].(string)
	if !ok {
		return nil, fmt.Errorf("%s data must be a string", walletProvider.MethodPersonalSign)
	}
	account, ok := params[1].(string)
	if !ok || !common.IsHexAddress(account) {
		return nil, fmt.Errorf("%s account must be a hex address", walletProvider.MethodPersonalSign)
	}
	if common.HexToAddress(account) != p.address || !p.isAuthorized() {
		return nil, fmt.Errorf("account %s is not authorized", account)
	}

	message, err := hexutil.Decode(data)
	if err != nil {
		message = []byte(data)
	}
	if err := p.confirm(ctx, walletProvider.MethodPersonalSign); err != nil {
		return nil, err
	}
	return p.sign(message)
}

func (p *InMemoryWalletProvider) sign(message []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), p.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	// wallets return the legacy 27/28 recovery id
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

type inMemorySigner struct {
	provider *InMemoryWalletProvider
	address  common.Address
}

func (s *inMemorySigner) Address() common.Address {
	return s.address
}

func (s *inMemorySigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if err := s.provider.confirm(ctx, walletProvider.MethodPersonalSign); err != nil {
		return nil, err
	}
	return s.provider.sign(message)
}

func (s *inMemorySigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.provider.privateKey, s.provider.chainId)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	keyedSigner := opts.Signer
	opts.Context = ctx
	opts.Signer = func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
		if err := s.provider.confirm(ctx, walletProvider.MethodSendTransaction); err != nil {
			return nil, err
		}
		return keyedSigner(address, tx)
	}
	return opts, nil
}
