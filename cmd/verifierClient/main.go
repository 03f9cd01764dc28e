package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/Layr-Labs/chain-indexer/pkg/clients/ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/config"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/contract-bindings/Verifier"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/dispatcher"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/messageSigning"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/session"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider/inMemoryWalletProvider"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider/rpcWalletProvider"
)

func main() {
	app := &cli.App{
		Name:  "verifier-client",
		Usage: "Write to and read from the verifier contract through a wallet",
		Description: `A client for the verifier contract.

This client can:
- Connect a wallet and print the authorized account
- Write a string to the contract and wait for it to be mined
- Read the contract's nonce, data and previous data
- Sign messages through two wallet surfaces and recover the signer`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rpc-url",
				Usage:   "Ethereum RPC URL",
				Value:   "http://localhost:8545",
				EnvVars: []string{config.EnvVerifierRpcUrl},
			},
			&cli.StringFlag{
				Name:    "wallet-url",
				Usage:   "JSON-RPC URL of an external wallet",
				EnvVars: []string{config.EnvVerifierWalletUrl},
			},
			&cli.StringFlag{
				Name:    "private-key",
				Usage:   "Hex private key for an in-process wallet",
				EnvVars: []string{config.EnvVerifierPrivateKey},
			},
			&cli.StringFlag{
				Name:    "contract-address",
				Usage:   "Verifier contract address",
				Value:   config.VerifierContractAddress,
				EnvVars: []string{config.EnvVerifierContractAddress},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvVerifierVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "connect",
				Usage:  "Request account access from the wallet",
				Action: connectCommand,
			},
			{
				Name:   "status",
				Usage:  "Read the contract's nonce, data and previous data",
				Action: statusCommand,
			},
			{
				Name:  "write",
				Usage: "Write a string to the contract",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "String to write",
						Required: true,
					},
				},
				Action: writeCommand,
			},
			{
				Name:  "save-signature",
				Usage: "Sign the calldata of a write without sending it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "String the calldata writes",
						Required: true,
					},
				},
				Action: saveSignatureCommand,
			},
			{
				Name:  "send-signature",
				Usage: "Decode a saved signature as a signed transaction",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "Hex signature from save-signature",
						Required: true,
					},
				},
				Action: sendSignatureCommand,
			},
			{
				Name:  "sign-message",
				Usage: "Hash a message, sign it two ways, compare and recover the signer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "message",
						Usage:    "Message to hash and sign",
						Required: true,
					},
				},
				Action: signMessageCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type client struct {
	logger     *zap.Logger
	sessions   *session.Manager
	dispatcher *dispatcher.Dispatcher
	close      func()
}

func buildConfig(c *cli.Context, readOnly bool) (*config.WalletConfig, error) {
	cfg := &config.WalletConfig{
		RpcUrl:          c.String("rpc-url"),
		ContractAddress: c.String("contract-address"),
		PrivateKey:      c.String("private-key"),
		Debug:           c.Bool("verbose"),
		ReadOnly:        readOnly,
	}
	if url := c.String("wallet-url"); url != "" {
		cfg.RemoteWallet = &config.RemoteWalletConfig{Url: url}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// createClient creates the wallet, chain client and dispatcher from CLI context
func createClient(c *cli.Context, readOnly bool) (*client, error) {
	cfg, err := buildConfig(c, readOnly)
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ethClient := ethereum.NewEthereumClient(&ethereum.EthereumClientConfig{
		BaseUrl:   cfg.RpcUrl,
		BlockType: ethereum.BlockType_Latest,
	}, zapLogger)

	l1Client, err := ethClient.GetEthereumContractCaller()
	if err != nil {
		return nil, fmt.Errorf("failed to get Ethereum contract caller: %w", err)
	}

	chainId, err := l1Client.ChainID(c.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	provider, closeProvider, err := createWalletProvider(c.Context, cfg, chainId, zapLogger)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(provider, zapLogger)
	d := dispatcher.NewDispatcher(&dispatcher.DispatcherConfig{
		ContractAddress: cfg.GetContractAddress(),
		Descriptor:      Verifier.VerifierMetaData,
		ChainId:         config.ChainId(chainId.Uint64()),
	}, sessions, l1Client, zapLogger)

	return &client{
		logger:     zapLogger,
		sessions:   sessions,
		dispatcher: d,
		close: func() {
			closeProvider()
			l1Client.Close()
			_ = zapLogger.Sync()
		},
	}, nil
}

// createWalletProvider returns a nil provider when no wallet is configured
func createWalletProvider(ctx context.Context, cfg *config.WalletConfig, chainId *big.Int, l *zap.Logger) (walletProvider.IWalletProvider, func(), error) {
	switch {
	case cfg.RemoteWallet != nil:
		provider, err := rpcWalletProvider.NewRpcWalletProvider(ctx, cfg.RemoteWallet.Url, l)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to wallet: %w", err)
		}
		return provider, provider.Close, nil
	case cfg.PrivateKey != "":
		provider, err := inMemoryWalletProvider.NewInMemoryWalletProvider(cfg.PrivateKey, chainId, l)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create wallet: %w", err)
		}
		return provider, func() {}, nil
	}
	return nil, func() {}, nil
}

// connectAndAttach runs the two setup actions of the contract screen
func (cl *client) connectAndAttach(ctx context.Context) error {
	sess, err := cl.dispatcher.Connect(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Connected: %s\n", sess.Address.Hex())

	handle, err := cl.dispatcher.AttachContract()
	if err != nil {
		return err
	}
	fmt.Printf("Contract: %s\n", handle.Address.Hex())
	return nil
}

func connectCommand(c *cli.Context) error {
	cl, err := createClient(c, false)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer cl.close()

	sess, err := cl.dispatcher.Connect(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Connected: %s\n", sess.Address.Hex())
	return nil
}

func statusCommand(c *cli.Context) error {
	cl, err := createClient(c, true)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer cl.close()

	if _, err := cl.dispatcher.AttachContract(); err != nil {
		return err
	}
	status, err := cl.dispatcher.ReadStatus(c.Context)
	if err != nil {
		return err
	}
	printStatus(status.Nonce, status.Data, status.PrevData)
	return nil
}

func printStatus(nonce, data, prevData string) {
	fmt.Printf("Nonce: %s\n", nonce)
	fmt.Printf("Data: %s\n", data)
	fmt.Printf("Previous data: %s\n", prevData)
}

func writeCommand(c *cli.Context) error {
	cl, err := createClient(c, false)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer cl.close()

	if err := cl.connectAndAttach(c.Context); err != nil {
		return err
	}

	cl.dispatcher.SetInput(c.String("data"))
	receipt, err := cl.dispatcher.Submit(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Transaction: %s (block %d)\n", receipt.TxHash.Hex(), receipt.BlockNumber)
	if receipt.ExplorerUrl != "" {
		fmt.Printf("Explorer: %s\n", receipt.ExplorerUrl)
	}
	if status := cl.dispatcher.State().Status; status != nil {
		printStatus(status.Nonce, status.Data, status.PrevData)
	}
	return nil
}

func saveSignatureCommand(c *cli.Context) error {
	cl, err := createClient(c, false)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer cl.close()

	if err := cl.connectAndAttach(c.Context); err != nil {
		return err
	}

	cl.dispatcher.SetInput(c.String("data"))
	payload, err := cl.dispatcher.SaveSignature(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Calldata: %s\n", payload.Calldata.String())
	fmt.Printf("Signature: %s\n", payload.Signature.String())
	return nil
}

func sendSignatureCommand(c *cli.Context) error {
	signature, err := hexutil.Decode(c.String("signature"))
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}

	cl, err := createClient(c, true)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer cl.close()

	cl.dispatcher.LoadSignature(signature)
	tx, err := cl.dispatcher.SendSignature(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Decoded transaction: %s\n", tx.Hash().Hex())
	return nil
}

func signMessageCommand(c *cli.Context) error {
	cl, err := createClient(c, false)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer cl.close()

	sess, err := cl.sessions.Connect(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Connected: %s\n", sess.Address.Hex())

	flow := messageSigning.NewFlow(cl.sessions, cl.logger)
	hashed := flow.Hash(c.String("message"))
	fmt.Printf("Digest: %s\n", hashed.Digest.Hex())

	sigA, err := flow.SignWithSigner(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Signer signature: %s\n", hexutil.Encode(sigA))

	sigB, err := flow.SignWithProvider(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Provider signature: %s\n", hexutil.Encode(sigB))

	equal, err := flow.Compare()
	if err != nil {
		return err
	}
	fmt.Printf("Signatures match: %t\n", equal)

	recovered, err := flow.Verify()
	if err != nil {
		return err
	}
	fmt.Printf("Recovered signer: %s\n", recovered.Hex())
	return nil
}
