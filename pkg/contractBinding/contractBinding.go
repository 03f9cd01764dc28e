package contractBinding

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

const (
	MethodWriteSomething = "writeSomething"
	MethodStore          = "store"
)

// ContractHandle associates a fixed contract address with its interface
// descriptor. Creating one never touches the network.
type ContractHandle struct {
	Address    common.Address
	descriptor *bind.MetaData
	abi        *abi.ABI
}

// Attach parses the descriptor and checks it exposes the verifier interface.
func Attach(address common.Address, descriptor *bind.MetaData) (*ContractHandle, error) {
	if descriptor == nil {
		return nil, fmt.Errorf("contract descriptor cannot be nil")
	}
	parsed, err := descriptor.GetAbi()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse contract descriptor")
	}
	if parsed == nil {
		return nil, fmt.Errorf("contract descriptor has no ABI")
	}

	write, ok := parsed.Methods[MethodWriteSomething]
	if !ok {
		return nil, fmt.Errorf("contract descriptor is missing %s", MethodWriteSomething)
	}
	if len(write.Inputs) != 1 || write.Inputs[0].Type.T != abi.StringTy {
		return nil, fmt.Errorf("%s must take a single string argument", MethodWriteSomething)
	}

	store, ok := parsed.Methods[MethodStore]
	if !ok {
		return nil, fmt.Errorf("contract descriptor is missing %s", MethodStore)
	}
	if len(store.Inputs) != 0 || len(store.Outputs) != 3 ||
		store.Outputs[0].Type.T != abi.UintTy ||
		store.Outputs[1].Type.T != abi.StringTy ||
		store.Outputs[2].Type.T != abi.StringTy {
		return nil, fmt.Errorf("%s must return (uint256, string, string)", MethodStore)
	}

	return &ContractHandle{
		Address:    address,
		descriptor: descriptor,
		abi:        parsed,
	}, nil
}

// PackWriteSomething returns the calldata for writeSomething(value) without
// building or sending a transaction.
func (h *ContractHandle) PackWriteSomething(value string) ([]byte, error) {
	return h.abi.Pack(MethodWriteSomething, value)
}

func (h *ContractHandle) bound(caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) *bind.BoundContract {
	return bind.NewBoundContract(h.Address, *h.abi, caller, transactor, filterer)
}

// ReaderHandle is a handle bound to a read-only backend.
type ReaderHandle struct {
	handle   *ContractHandle
	contract *bind.BoundContract
}

func BindReader(handle *ContractHandle, caller bind.ContractCaller) *ReaderHandle {
	return &ReaderHandle{
		handle:   handle,
		contract: handle.bound(caller, nil, nil),
	}
}

// Store reads the verifier's (nonce, data, prevData) tuple.
func (r *ReaderHandle) Store(ctx context.Context) (*types.ContractStatus, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, MethodStore); err != nil {
		return nil, errors.Wrapf(err, "failed to call %s on %s", MethodStore, r.handle.Address.Hex())
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("%s returned %d values, expected 3", MethodStore, len(out))
	}

	nonce := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	data := *abi.ConvertType(out[1], new(string)).(*string)
	prevData := *abi.ConvertType(out[2], new(string)).(*string)

	return StatusFromTuple(nonce, data, prevData), nil
}

// StatusFromTuple maps the raw store() tuple into a ContractStatus with the
// nonce rendered in decimal.
func StatusFromTuple(nonce *big.Int, data string, prevData string) *types.ContractStatus {
	nonceStr := "0"
	if nonce != nil {
		nonceStr = nonce.String()
	}
	return &types.ContractStatus{
		Nonce:    nonceStr,
		Data:     data,
		PrevData: prevData,
	}
}

// WriterHandle is a handle bound to a backend and a signer's transact options.
type WriterHandle struct {
	handle   *ContractHandle
	contract *bind.BoundContract
	opts     *bind.TransactOpts
}

func BindWriter(handle *ContractHandle, backend bind.ContractBackend, opts *bind.TransactOpts) *WriterHandle {
	return &WriterHandle{
		handle:   handle,
		contract: handle.bound(backend, backend, backend),
		opts:     opts,
	}
}

func (w *WriterHandle) From() common.Address {
	return w.opts.From
}

// WriteSomething signs and submits writeSomething(value). It returns once the
// transaction is accepted by the node, not once it is mined.
func (w *WriterHandle) WriteSomething(value string) (*ethTypes.Transaction, error) {
	tx, err := w.contract.Transact(w.opts, MethodWriteSomething, value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to submit %s to %s", MethodWriteSomething, w.handle.Address.Hex())
	}
	return tx, nil
}

// WaitMined blocks until tx is included and fails when it reverted.
func WaitMined(ctx context.Context, backend bind.DeployBackend, tx *ethTypes.Transaction) (*ethTypes.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction receipt: %w", err)
	}
	if receipt.Status != ethTypes.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s failed with status %d", receipt.TxHash.Hex(), receipt.Status)
	}
	return receipt, nil
}
