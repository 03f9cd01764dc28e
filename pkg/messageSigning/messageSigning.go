package messageSigning

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/session"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotHashed         = errors.New("no message has been hashed")
	ErrNotSigned         = errors.New("digest has not been signed by the session signer")
	ErrMissingSignatures = errors.New("both signatures are required to compare")
	ErrDigestChanged     = errors.New("message was re-hashed while signing")
)

// HashMessage returns keccak256 of the message's UTF-8 bytes
func HashMessage(message string) common.Hash {
	return crypto.Keccak256Hash([]byte(message))
}

// RecoverSigner recovers the address behind an EIP-191 personal signature.
// Both 0/1 and 27/28 recovery ids are accepted.
func RecoverSigner(message []byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: expected %d, got %d", crypto.SignatureLength, len(signature))
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// State is one of IdleState, HashedState, SignedAState, SignedBState or
// VerifiedState.
type State interface {
	Name() string
}

type IdleState struct{}

type HashedState struct {
	Message string
	Digest  common.Hash
}

// SignedAState holds the session signer's signature over the digest bytes.
type SignedAState struct {
	HashedState
	LibrarySignature hexutil.Bytes
}

// SignedBState holds the provider's personal_sign result. LibrarySignature is
// nil when path A has not run for this digest.
type SignedBState struct {
	HashedState
	LibrarySignature  hexutil.Bytes
	ProviderSignature hexutil.Bytes
}

// VerifiedState holds the signer recovered from LibrarySignature.
// ProviderSignature is nil when path B has not run for this digest.
type VerifiedState struct {
	HashedState
	LibrarySignature  hexutil.Bytes
	ProviderSignature hexutil.Bytes
	RecoveredSigner   common.Address
}

func (IdleState) Name() string     { return "idle" }
func (HashedState) Name() string   { return "hashed" }
func (SignedAState) Name() string  { return "signedA" }
func (SignedBState) Name() string  { return "signedB" }
func (VerifiedState) Name() string { return "verified" }

// unpack returns the digest and signatures carried by any non-idle state
func unpack(state State) (hashed *HashedState, sigA hexutil.Bytes, sigB hexutil.Bytes) {
	switch s := state.(type) {
	case HashedState:
		return &s, nil, nil
	case SignedAState:
		return &s.HashedState, s.LibrarySignature, nil
	case SignedBState:
		return &s.HashedState, s.LibrarySignature, s.ProviderSignature
	case VerifiedState:
		return &s.HashedState, s.LibrarySignature, s.ProviderSignature
	}
	return nil, nil, nil
}

func settle(hashed HashedState, sigA hexutil.Bytes, sigB hexutil.Bytes) State {
	switch {
	case sigB != nil:
		return SignedBState{HashedState: hashed, LibrarySignature: sigA, ProviderSignature: sigB}
	case sigA != nil:
		return SignedAState{HashedState: hashed, LibrarySignature: sigA}
	}
	return hashed
}

// Flow is the message signing screen: hash a message, sign the digest through
// two wallet surfaces, compare the results and recover the signer.
type Flow struct {
	sessions *session.Manager
	logger   *zap.Logger

	mu    sync.Mutex
	state State
}

func NewFlow(sessions *session.Manager, logger *zap.Logger) *Flow {
	return &Flow{
		sessions: sessions,
		logger:   logger,
		state:    IdleState{},
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Hash restarts the flow with a new digest. Signatures over a previous digest
// are discarded.
func (f *Flow) Hash(message string) HashedState {
	hashed := HashedState{Message: message, Digest: HashMessage(message)}

	f.mu.Lock()
	f.state = hashed
	f.mu.Unlock()

	f.logger.Sugar().Debugw("Message hashed", "digest", hashed.Digest.Hex())
	return hashed
}

func (f *Flow) hashed(op string, opId string) (*HashedState, error) {
	f.mu.Lock()
	hashed, _, _ := unpack(f.state)
	f.mu.Unlock()
	if hashed == nil {
		return nil, f.invalid(op, opId, ErrNotHashed)
	}
	return hashed, nil
}

func (f *Flow) invalid(op string, opId string, err error) error {
	f.logger.Sugar().Infow("Action skipped", "op", op, "opId", opId, "reason", err.Error())
	return types.NewActionError(types.ErrorKindValidationFailure, op, err)
}

func (f *Flow) fail(op string, opId string, err error) error {
	actionErr := types.ClassifyError(op, walletProvider.NormalizeError(err))
	f.logger.Sugar().Errorw("Action failed",
		"op", op,
		"opId", opId,
		"kind", actionErr.Kind,
		"error", err,
	)
	return actionErr
}

// apply stores a signature if the digest it covers is still current
func (f *Flow) apply(op string, opId string, digest common.Hash, update func(sigA, sigB hexutil.Bytes) (hexutil.Bytes, hexutil.Bytes)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	hashed, sigA, sigB := unpack(f.state)
	if hashed == nil || hashed.Digest != digest {
		f.logger.Sugar().Warnw("Discarding signature for a stale digest", "op", op, "opId", opId, "digest", digest.Hex())
		return types.NewActionError(types.ErrorKindValidationFailure, op, ErrDigestChanged)
	}
	sigA, sigB = update(sigA, sigB)
	f.state = settle(*hashed, sigA, sigB)
	return nil
}

// SignWithSigner is path A: the session signer personal-signs the 32 raw
// digest bytes.
func (f *Flow) SignWithSigner(ctx context.Context) ([]byte, error) {
	const op = "sign-with-signer"
	opId := uuid.New().String()

	hashed, err := f.hashed(op, opId)
	if err != nil {
		return nil, err
	}
	signer, err := f.sessions.Signer(ctx)
	if err != nil {
		return nil, f.fail(op, opId, err)
	}
	signature, err := signer.SignMessage(ctx, hashed.Digest.Bytes())
	if err != nil {
		return nil, f.fail(op, opId, err)
	}

	err = f.apply(op, opId, hashed.Digest, func(_, sigB hexutil.Bytes) (hexutil.Bytes, hexutil.Bytes) {
		return signature, sigB
	})
	if err != nil {
		return nil, err
	}
	f.logger.Sugar().Infow("Digest signed by session signer",
		"opId", opId,
		"signer", signer.Address().Hex(),
		"signature", hexutil.Encode(signature),
	)
	return signature, nil
}

// SignWithProvider is path B: a raw personal_sign request with the digest's
// 0x-hex text and the active address. Whether the wallet signs the text or
// the decoded bytes is up to the wallet.
func (f *Flow) SignWithProvider(ctx context.Context) ([]byte, error) {
	const op = "sign-with-provider"
	opId := uuid.New().String()

	hashed, err := f.hashed(op, opId)
	if err != nil {
		return nil, err
	}
	signer, err := f.sessions.Signer(ctx)
	if err != nil {
		return nil, f.fail(op, opId, err)
	}

	var signature hexutil.Bytes
	err = f.sessions.Provider().Request(ctx, &signature, walletProvider.MethodPersonalSign,
		hashed.Digest.Hex(), signer.Address().Hex())
	if err != nil {
		return nil, f.fail(op, opId, err)
	}

	err = f.apply(op, opId, hashed.Digest, func(sigA, _ hexutil.Bytes) (hexutil.Bytes, hexutil.Bytes) {
		return sigA, signature
	})
	if err != nil {
		return nil, err
	}
	f.logger.Sugar().Infow("Digest signed by provider",
		"opId", opId,
		"signer", signer.Address().Hex(),
		"signature", signature.String(),
	)
	return signature, nil
}

// Compare reports whether both signing paths produced the same signature.
func (f *Flow) Compare() (bool, error) {
	const op = "compare"

	f.mu.Lock()
	_, sigA, sigB := unpack(f.state)
	f.mu.Unlock()
	if sigA == nil || sigB == nil {
		return false, f.invalid(op, uuid.New().String(), ErrMissingSignatures)
	}
	return bytes.Equal(sigA, sigB), nil
}

// Verify recovers the signer from the digest bytes and the path A signature.
func (f *Flow) Verify() (common.Address, error) {
	const op = "verify"
	opId := uuid.New().String()

	f.mu.Lock()
	defer f.mu.Unlock()

	hashed, sigA, sigB := unpack(f.state)
	if hashed == nil {
		return common.Address{}, f.invalid(op, opId, ErrNotHashed)
	}
	if sigA == nil {
		return common.Address{}, f.invalid(op, opId, ErrNotSigned)
	}

	recovered, err := RecoverSigner(hashed.Digest.Bytes(), sigA)
	if err != nil {
		return common.Address{}, f.fail(op, opId, err)
	}
	f.state = VerifiedState{
		HashedState:       *hashed,
		LibrarySignature:  sigA,
		ProviderSignature: sigB,
		RecoveredSigner:   recovered,
	}
	f.logger.Sugar().Infow("Recovered signer", "opId", opId, "address", recovered.Hex())
	return recovered, nil
}
