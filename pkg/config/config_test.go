package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func Test_ExplorerTxUrl(t *testing.T) {
	hash := common.HexToHash("0x01")

	t.Run("sepolia", func(t *testing.T) {
		url, err := ExplorerTxUrl(ChainId_EthereumSepolia, hash)
		require.NoError(t, err)
		assert.Equal(t, "https://sepolia.etherscan.io/tx/"+hash.Hex(), url)
	})

	t.Run("anvil has no explorer", func(t *testing.T) {
		url, err := ExplorerTxUrl(ChainId_EthereumAnvil, hash)
		require.NoError(t, err)
		assert.Empty(t, url)
	})

	t.Run("unsupported chain", func(t *testing.T) {
		_, err := ExplorerTxUrl(ChainId(5), hash)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported chain ID")
	})
}

func Test_WalletConfigValidate(t *testing.T) {
	base := func() *WalletConfig {
		return &WalletConfig{
			RpcUrl:          "http://localhost:8545",
			ContractAddress: VerifierContractAddress,
		}
	}

	t.Run("private key wallet", func(t *testing.T) {
		cfg := base()
		cfg.PrivateKey = testPrivateKey
		require.NoError(t, cfg.Validate())
		assert.Equal(t, common.HexToAddress(VerifierContractAddress), cfg.GetContractAddress())
	})

	t.Run("remote wallet", func(t *testing.T) {
		cfg := base()
		cfg.RemoteWallet = &RemoteWalletConfig{Url: "http://localhost:1248"}
		require.NoError(t, cfg.Validate())
	})

	t.Run("no wallet source", func(t *testing.T) {
		err := base().Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remoteWallet")
	})

	t.Run("read only without wallet", func(t *testing.T) {
		cfg := base()
		cfg.ReadOnly = true
		require.NoError(t, cfg.Validate())
	})

	t.Run("both wallet sources", func(t *testing.T) {
		cfg := base()
		cfg.PrivateKey = testPrivateKey
		cfg.RemoteWallet = &RemoteWalletConfig{Url: "http://localhost:1248"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("short private key", func(t *testing.T) {
		cfg := base()
		cfg.PrivateKey = "0x1234"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "64 hex chars")
		assert.NotContains(t, err.Error(), "1234")
	})

	t.Run("bad contract address", func(t *testing.T) {
		cfg := base()
		cfg.PrivateKey = testPrivateKey
		cfg.ContractAddress = "not-an-address"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contractAddress")
	})

	t.Run("remote wallet without url", func(t *testing.T) {
		cfg := base()
		cfg.RemoteWallet = &RemoteWalletConfig{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url is required")
	})
}
