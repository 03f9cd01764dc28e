package rpcWalletProvider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// RpcWalletProvider talks to an external wallet over Ethereum JSON-RPC.
// Transactions are signed by the wallet with eth_signTransaction and handed
// back to the caller for broadcast.
type RpcWalletProvider struct {
	client *rpc.Client
	logger *zap.Logger
}

func NewRpcWalletProvider(ctx context.Context, url string, logger *zap.Logger) (*RpcWalletProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial wallet at %s: %v", types.ErrProviderUnavailable, url, err)
	}
	return NewRpcWalletProviderFromClient(client, logger), nil
}

func NewRpcWalletProviderFromClient(client *rpc.Client, logger *zap.Logger) *RpcWalletProvider {
	return &RpcWalletProvider{
		client: client,
		logger: logger,
	}
}

func (p *RpcWalletProvider) Close() {
	p.client.Close()
}

// Request forwards a raw JSON-RPC call. Errors that never reached the wallet
// are reported as ErrProviderUnavailable, EIP-1193 rejections as
// ErrUserRejected.
func (p *RpcWalletProvider) Request(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	err := p.client.CallContext(ctx, result, method, params...)
	if err == nil {
		return nil
	}

	p.logger.Sugar().Debugw("Wallet request failed",
		zap.String("method", method),
		zap.Error(err),
	)

	var rpcErr rpc.Error
	switch {
	case errors.As(err, &rpcErr):
		return walletProvider.NormalizeError(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s: %v", types.ErrProviderUnavailable, method, err)
	}
}

func (p *RpcWalletProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.Request(ctx, &accounts, walletProvider.MethodRequestAccounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *RpcWalletProvider) GetSigner(ctx context.Context) (walletProvider.ISigner, error) {
	accounts, err := p.RequestAccounts(ctx)
	if err != nil {
		return nil, err
	}
	address, err := walletProvider.FirstAccount(accounts)
	if err != nil {
		return nil, err
	}
	return &rpcSigner{provider: p, address: address}, nil
}

func (p *RpcWalletProvider) ChainId(ctx context.Context) (*big.Int, error) {
	var chainId hexutil.Big
	if err := p.Request(ctx, &chainId, walletProvider.MethodChainId); err != nil {
		return nil, err
	}
	return chainId.ToInt(), nil
}

type rpcSigner struct {
	provider *RpcWalletProvider
	address  common.Address
}

func (s *rpcSigner) Address() common.Address {
	return s.address
}

func (s *rpcSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	var sig hexutil.Bytes
	err := s.provider.Request(ctx, &sig, walletProvider.MethodPersonalSign, hexutil.Encode(message), s.address.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}

// GetTransactOpts returns options whose Signer delegates to the wallet's
// eth_signTransaction.
func (s *rpcSigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	chainId, err := s.provider.ChainId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID from wallet: %w", err)
	}

	return &bind.TransactOpts{
		From:    s.address,
		Context: ctx,
		Signer: func(address common.Address, tx *ethTypes.Transaction) (*ethTypes.Transaction, error) {
			if address != s.address {
				return nil, fmt.Errorf("wallet account %s cannot sign for %s", s.address.Hex(), address.Hex())
			}
			return s.signTransaction(ctx, chainId, tx)
		},
	}, nil
}

func (s *rpcSigner) signTransaction(ctx context.Context, chainId *big.Int, tx *ethTypes.Transaction) (*ethTypes.Transaction, error) {
	txData := map[string]interface{}{
		"from":    s.address.Hex(),
		"value":   hexutil.EncodeBig(tx.Value()),
		"gas":     hexutil.EncodeUint64(tx.Gas()),
		"nonce":   hexutil.EncodeUint64(tx.Nonce()),
		"data":    hexutil.Encode(tx.Data()),
		"chainId": hexutil.EncodeBig(chainId),
	}
	if tx.To() != nil {
		txData["to"] = tx.To().Hex()
	}
	if tx.Type() == ethTypes.DynamicFeeTxType {
		txData["type"] = "0x2"
		txData["maxPriorityFeePerGas"] = hexutil.EncodeBig(tx.GasTipCap())
		txData["maxFeePerGas"] = hexutil.EncodeBig(tx.GasFeeCap())
	} else {
		txData["gasPrice"] = hexutil.EncodeBig(tx.GasPrice())
	}

	s.provider.logger.Sugar().Infow("Requesting transaction signature from wallet",
		zap.String("from", s.address.Hex()),
		zap.Any("tx", txData),
	)

	var raw json.RawMessage
	if err := s.provider.Request(ctx, &raw, walletProvider.MethodSignTransaction, txData); err != nil {
		return nil, fmt.Errorf("failed to sign transaction with wallet: %w", err)
	}

	signedTxBytes, err := decodeSignedTransaction(raw)
	if err != nil {
		return nil, err
	}

	var signedTx ethTypes.Transaction
	if err := signedTx.UnmarshalBinary(signedTxBytes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signed transaction: %w", err)
	}
	return &signedTx, nil
}

// decodeSignedTransaction accepts either a bare hex string or geth's
// {"raw": ..., "tx": ...} envelope.
func decodeSignedTransaction(raw json.RawMessage) ([]byte, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		b, err := hexutil.Decode(asString)
		if err != nil {
			return nil, fmt.Errorf("failed to decode signed transaction: %w", err)
		}
		return b, nil
	}

	var envelope struct {
		Raw hexutil.Bytes `json:"raw"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Raw) == 0 {
		return nil, fmt.Errorf("unexpected eth_signTransaction response: %s", strings.TrimSpace(string(raw)))
	}
	return envelope.Raw, nil
}
