package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the verifier client
const (
	EnvVerifierRpcUrl          = "VERIFIER_RPC_URL"
	EnvVerifierWalletUrl       = "VERIFIER_WALLET_URL"
	EnvVerifierPrivateKey      = "VERIFIER_PRIVATE_KEY"
	EnvVerifierContractAddress = "VERIFIER_CONTRACT_ADDRESS"
	EnvVerifierVerbose         = "VERIFIER_VERBOSE"
)

// VerifierContractAddress is the deployed verifier contract on sepolia.
const VerifierContractAddress = "0x23471fd730142cbcedd3a46fe558231bf7023ee9"

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

const DefaultChainId = ChainId_EthereumSepolia

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}

// anvil has no block explorer
var chainExplorers = map[ChainId]string{
	ChainId_EthereumMainnet: "https://etherscan.io",
	ChainId_EthereumSepolia: "https://sepolia.etherscan.io",
}

// ExplorerTxUrl returns the block explorer link for a transaction hash.
// Chains without an explorer yield an empty string.
func ExplorerTxUrl(chainId ChainId, txHash common.Hash) (string, error) {
	if _, ok := ChainIdToName[chainId]; !ok {
		return "", fmt.Errorf("unsupported chain ID: %d", chainId)
	}
	base, ok := chainExplorers[chainId]
	if !ok {
		return "", nil
	}
	return fmt.Sprintf("%s/tx/%s", base, txHash.Hex()), nil
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}

// RemoteWalletConfig points at an external wallet speaking Ethereum JSON-RPC.
type RemoteWalletConfig struct {
	Url string `json:"url" yaml:"url"`
}

func (rwc *RemoteWalletConfig) Validate() error {
	var allErrors field.ErrorList
	if rwc.Url == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("url"), "url is required"))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// WalletConfig is the complete configuration of the verifier client.
type WalletConfig struct {
	RpcUrl          string              `json:"rpcUrl" yaml:"rpcUrl"`
	ContractAddress string              `json:"contractAddress" yaml:"contractAddress"`
	PrivateKey      string              `json:"privateKey" yaml:"privateKey"`
	RemoteWallet    *RemoteWalletConfig `json:"remoteWallet,omitempty" yaml:"remoteWallet,omitempty"`
	Debug           bool                `json:"debug" yaml:"debug"`

	// ReadOnly allows a configuration without a wallet source
	ReadOnly bool `json:"-" yaml:"-"`
}

// Validate checks that exactly one wallet source is configured and that the
// addresses and keys are well formed.
func (c *WalletConfig) Validate() error {
	var allErrors field.ErrorList

	if c.RpcUrl == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("rpcUrl"), "rpcUrl is required"))
	}
	if c.ContractAddress == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("contractAddress"), "contractAddress is required"))
	} else if !common.IsHexAddress(c.ContractAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("contractAddress"), c.ContractAddress, "must be a hex address"))
	}

	hasRemote := c.RemoteWallet != nil
	hasKey := c.PrivateKey != ""
	switch {
	case hasRemote && hasKey:
		allErrors = append(allErrors, field.Forbidden(field.NewPath("privateKey"), "privateKey and remoteWallet are mutually exclusive"))
	case !hasRemote && !hasKey:
		if !c.ReadOnly {
			allErrors = append(allErrors, field.Required(field.NewPath("remoteWallet"), "either remoteWallet or privateKey is required"))
		}
	case hasRemote:
		if err := c.RemoteWallet.Validate(); err != nil {
			allErrors = append(allErrors, field.Invalid(field.NewPath("remoteWallet"), c.RemoteWallet, err.Error()))
		}
	case hasKey:
		key := strings.TrimPrefix(c.PrivateKey, "0x")
		if len(key) != 64 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>",
				fmt.Sprintf("must be 32 bytes (64 hex chars), got %d chars", len(key))))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

func (c *WalletConfig) GetContractAddress() common.Address {
	return common.HexToAddress(c.ContractAddress)
}
