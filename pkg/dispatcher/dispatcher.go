package dispatcher

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/config"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/contractBinding"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/session"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyInput          = errors.New("no input")
	ErrNotConnected        = errors.New("no signer connected")
	ErrContractNotAttached = errors.New("no contract attached")
	ErrSubmitInFlight      = errors.New("a submit is already in flight")
	ErrNoSignedPayload     = errors.New("no saved signature")
)

// IChainBackend is the node connection contract calls and receipts go through.
type IChainBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type DispatcherConfig struct {
	ContractAddress common.Address
	Descriptor      *bind.MetaData
	ChainId         config.ChainId
}

// ViewState is everything the contract screen displays.
type ViewState struct {
	Session       *types.Session
	Contract      *contractBinding.ContractHandle
	Input         string
	Receipt       *types.OperationReceipt
	Status        *types.ContractStatus
	SignedPayload *types.SignedPayload
}

// Dispatcher turns user actions into wallet and contract calls and records
// their results in its ViewState. State is only written after the external
// call completes; the lock is never held across one.
type Dispatcher struct {
	config   *DispatcherConfig
	sessions *session.Manager
	backend  IChainBackend
	logger   *zap.Logger

	mu         sync.Mutex
	state      ViewState
	submitting bool
}

func NewDispatcher(cfg *DispatcherConfig, sessions *session.Manager, backend IChainBackend, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		config:   cfg,
		sessions: sessions,
		backend:  backend,
		logger:   logger,
	}
}

// State returns a snapshot of the view state
func (d *Dispatcher) State() ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dispatcher) SetInput(input string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Input = input
}

// invalid logs a skipped action. Nothing was attempted.
func (d *Dispatcher) invalid(op string, opId string, err error) error {
	d.logger.Sugar().Infow("Action skipped",
		"op", op,
		"opId", opId,
		"reason", err.Error(),
	)
	return types.NewActionError(types.ErrorKindValidationFailure, op, err)
}

func (d *Dispatcher) fail(op string, opId string, err error) error {
	actionErr := types.ClassifyError(op, err)
	d.logger.Sugar().Errorw("Action failed",
		"op", op,
		"opId", opId,
		"kind", actionErr.Kind,
		"error", err,
	)
	return actionErr
}

func (d *Dispatcher) Connect(ctx context.Context) (*types.Session, error) {
	opId := uuid.New().String()
	sess, err := d.sessions.Connect(ctx)
	if err != nil {
		return nil, d.fail("connect", opId, err)
	}

	d.mu.Lock()
	d.state.Session = sess
	d.mu.Unlock()
	return sess, nil
}

// AttachContract binds the configured address and descriptor. No network
// call is made.
func (d *Dispatcher) AttachContract() (*contractBinding.ContractHandle, error) {
	opId := uuid.New().String()
	handle, err := contractBinding.Attach(d.config.ContractAddress, d.config.Descriptor)
	if err != nil {
		return nil, d.invalid("attach", opId, err)
	}

	d.mu.Lock()
	d.state.Contract = handle
	d.mu.Unlock()

	d.logger.Sugar().Infow("Contract attached", "address", handle.Address.Hex(), "opId", opId)
	return handle, nil
}

// Submit writes the trimmed input to the contract, waits for it to be mined,
// refreshes the status and records the receipt. Invalid state is a no-op
// reported as a ValidationFailure.
func (d *Dispatcher) Submit(ctx context.Context) (*types.OperationReceipt, error) {
	const op = "submit"
	opId := uuid.New().String()

	d.mu.Lock()
	value := strings.TrimSpace(d.state.Input)
	sess, contract := d.state.Session, d.state.Contract
	switch {
	case value == "":
		d.mu.Unlock()
		return nil, d.invalid(op, opId, ErrEmptyInput)
	case sess == nil:
		d.mu.Unlock()
		return nil, d.invalid(op, opId, ErrNotConnected)
	case contract == nil:
		d.mu.Unlock()
		return nil, d.invalid(op, opId, ErrContractNotAttached)
	case d.submitting:
		d.mu.Unlock()
		return nil, d.invalid(op, opId, ErrSubmitInFlight)
	}
	d.submitting = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.submitting = false
		d.mu.Unlock()
	}()

	signer, err := d.sessions.Signer(ctx)
	if err != nil {
		return nil, d.fail(op, opId, err)
	}
	opts, err := signer.GetTransactOpts(ctx)
	if err != nil {
		return nil, d.fail(op, opId, err)
	}

	tx, err := contractBinding.BindWriter(contract, d.backend, opts).WriteSomething(value)
	if err != nil {
		return nil, d.fail(op, opId, err)
	}
	d.logger.Sugar().Infow("Transaction submitted",
		"opId", opId,
		"from", signer.Address().Hex(),
		"txHash", tx.Hash().Hex(),
	)

	receipt, err := contractBinding.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return nil, d.fail(op, opId, err)
	}

	if _, err := d.readStatus(ctx, op, opId, contract); err != nil {
		return nil, err
	}

	explorerUrl, err := config.ExplorerTxUrl(d.config.ChainId, tx.Hash())
	if err != nil {
		d.logger.Sugar().Warnw("No explorer link for receipt", "opId", opId, "error", err)
	}
	opReceipt := &types.OperationReceipt{
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		ExplorerUrl: explorerUrl,
	}

	d.mu.Lock()
	d.state.Receipt = opReceipt
	d.mu.Unlock()

	d.logger.Sugar().Infow("Transaction mined",
		"opId", opId,
		"txHash", opReceipt.TxHash.Hex(),
		"blockNumber", opReceipt.BlockNumber,
	)
	return opReceipt, nil
}

// ReadStatus reads the contract's (nonce, data, prevData). No signer is needed.
func (d *Dispatcher) ReadStatus(ctx context.Context) (*types.ContractStatus, error) {
	const op = "status"
	opId := uuid.New().String()

	d.mu.Lock()
	contract := d.state.Contract
	d.mu.Unlock()
	if contract == nil {
		return nil, d.invalid(op, opId, ErrContractNotAttached)
	}
	return d.readStatus(ctx, op, opId, contract)
}

func (d *Dispatcher) readStatus(ctx context.Context, op string, opId string, contract *contractBinding.ContractHandle) (*types.ContractStatus, error) {
	status, err := contractBinding.BindReader(contract, d.backend).Store(ctx)
	if err != nil {
		return nil, d.fail(op, opId, err)
	}

	d.mu.Lock()
	d.state.Status = status
	d.mu.Unlock()
	return status, nil
}

// SaveSignature populates writeSomething calldata for the trimmed input and
// has the signer personal-sign the calldata's 0x-hex text. The text, not the
// decoded bytes, is what gets signed.
func (d *Dispatcher) SaveSignature(ctx context.Context) (*types.SignedPayload, error) {
	const op = "save-signature"
	opId := uuid.New().String()

	d.mu.Lock()
	value := strings.TrimSpace(d.state.Input)
	sess, contract := d.state.Session, d.state.Contract
	d.mu.Unlock()
	if sess == nil {
		return nil, d.invalid(op, opId, ErrNotConnected)
	}
	if contract == nil {
		return nil, d.invalid(op, opId, ErrContractNotAttached)
	}

	signer, err := d.sessions.Signer(ctx)
	if err != nil {
		return nil, d.fail(op, opId, err)
	}
	calldata, err := contract.PackWriteSomething(value)
	if err != nil {
		return nil, d.fail(op, opId, err)
	}
	d.logger.Sugar().Debugw("Populated transaction",
		"opId", opId,
		"to", contract.Address.Hex(),
		"data", hexutil.Encode(calldata),
	)

	signature, err := signer.SignMessage(ctx, []byte(hexutil.Encode(calldata)))
	if err != nil {
		return nil, d.fail(op, opId, err)
	}

	payload := &types.SignedPayload{Calldata: calldata, Signature: signature}
	d.mu.Lock()
	d.state.SignedPayload = payload
	d.mu.Unlock()
	return payload, nil
}

// SendSignature decodes the saved signature as a serialized transaction and
// logs its canonical encoding. Nothing is broadcast. A message signature is
// not a transaction, so this normally fails with a CallFailure.
func (d *Dispatcher) SendSignature(ctx context.Context) (*ethTypes.Transaction, error) {
	const op = "send-signature"
	opId := uuid.New().String()

	d.mu.Lock()
	payload := d.state.SignedPayload
	d.mu.Unlock()
	if payload == nil {
		return nil, d.invalid(op, opId, ErrNoSignedPayload)
	}
	return d.decodeSignedTransaction(op, opId, payload.Signature)
}

// LoadSignature replaces the saved signature with one produced elsewhere
func (d *Dispatcher) LoadSignature(signature []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SignedPayload = &types.SignedPayload{Signature: signature}
}

func (d *Dispatcher) decodeSignedTransaction(op string, opId string, raw []byte) (*ethTypes.Transaction, error) {
	var tx ethTypes.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, d.fail(op, opId, err)
	}
	serialized, err := tx.MarshalBinary()
	if err != nil {
		return nil, d.fail(op, opId, err)
	}
	d.logger.Sugar().Infow("Decoded signed transaction",
		"opId", opId,
		"txHash", tx.Hash().Hex(),
		"serialized", hexutil.Encode(serialized),
	)
	return &tx, nil
}
