package walletProvider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC methods a wallet provider answers
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainId         = "eth_chainId"
	MethodPersonalSign    = "personal_sign"
	MethodSignTransaction = "eth_signTransaction"
	MethodSendTransaction = "eth_sendTransaction"
)

// UserRejectedRequestCode is the EIP-1193 error code for a declined prompt
const UserRejectedRequestCode = 4001

// ISigner is an account the wallet has authorized for signing.
type ISigner interface {
	// Address returns the authorized account
	Address() common.Address

	// SignMessage produces an EIP-191 personal signature over the raw message bytes
	SignMessage(ctx context.Context, message []byte) ([]byte, error)

	// GetTransactOpts returns transaction options whose Signer is backed by the wallet
	GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// IWalletProvider is the capability surface of an injected wallet.
type IWalletProvider interface {
	// RequestAccounts asks the wallet for account access, prompting only when
	// access has not been granted yet
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// GetSigner resolves the first authorized account into a signer
	GetSigner(ctx context.Context) (ISigner, error)

	// Request issues a raw provider request and decodes the response into result
	Request(ctx context.Context, result interface{}, method string, params ...interface{}) error
}

// UserRejectedError is returned to JSON-RPC callers when a prompt is declined.
type UserRejectedError struct {
	Method string
}

func (e *UserRejectedError) Error() string {
	return fmt.Sprintf("user rejected %s request", e.Method)
}

func (e *UserRejectedError) ErrorCode() int {
	return UserRejectedRequestCode
}

func (e *UserRejectedError) Unwrap() error {
	return types.ErrUserRejected
}

// IsUserRejected reports whether err carries the EIP-1193 rejection code
func IsUserRejected(err error) bool {
	if errors.Is(err, types.ErrUserRejected) {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode() == UserRejectedRequestCode
	}
	return false
}

// NormalizeError maps provider failures onto the shared sentinels so callers
// can classify them.
func NormalizeError(err error) error {
	if err == nil {
		return nil
	}
	if IsUserRejected(err) && !errors.Is(err, types.ErrUserRejected) {
		return fmt.Errorf("%w: %v", types.ErrUserRejected, err)
	}
	return err
}

// FirstAccount returns the first account or ErrProviderUnavailable when the
// wallet exposes none.
func FirstAccount(accounts []common.Address) (common.Address, error) {
	if len(accounts) == 0 {
		return common.Address{}, fmt.Errorf("%w: wallet returned no accounts", types.ErrProviderUnavailable)
	}
	return accounts[0], nil
}
