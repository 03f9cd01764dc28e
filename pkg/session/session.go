package session

import (
	"context"
	"fmt"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/types"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider"
	"go.uber.org/zap"
)

// Manager resolves the active account from the wallet provider. It holds no
// cached signer; every call goes back to the provider, which owns the
// authorization state.
type Manager struct {
	provider walletProvider.IWalletProvider
	logger   *zap.Logger
}

func NewManager(provider walletProvider.IWalletProvider, logger *zap.Logger) *Manager {
	return &Manager{
		provider: provider,
		logger:   logger,
	}
}

func (m *Manager) Provider() walletProvider.IWalletProvider {
	return m.provider
}

// Connect prompts the wallet for account access if it has not been granted
// yet and returns the authorized account.
func (m *Manager) Connect(ctx context.Context) (*types.Session, error) {
	signer, err := m.Signer(ctx)
	if err != nil {
		return nil, err
	}

	m.logger.Sugar().Infow("Wallet connected", "address", signer.Address().Hex())
	return &types.Session{Address: signer.Address()}, nil
}

// Signer re-resolves the currently authorized signer.
func (m *Manager) Signer(ctx context.Context) (walletProvider.ISigner, error) {
	if m.provider == nil {
		return nil, types.NewActionError(types.ErrorKindProviderUnavailable, "connect",
			fmt.Errorf("%w: no wallet provider configured", types.ErrProviderUnavailable))
	}

	signer, err := m.provider.GetSigner(ctx)
	if err != nil {
		actionErr := types.ClassifyError("connect", walletProvider.NormalizeError(err))
		m.logger.Sugar().Errorw("Failed to resolve wallet signer",
			"kind", actionErr.Kind,
			"error", err,
		)
		return nil, actionErr
	}
	return signer, nil
}
