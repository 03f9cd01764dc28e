package main

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/Layr-Labs/eigenx-verifier-go/pkg/config"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/messageSigning"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider/inMemoryWalletProvider"
	"github.com/Layr-Labs/eigenx-verifier-go/pkg/walletProvider/rpcWalletProvider"
	"github.com/ethereum/go-ethereum/common"
)

// Signs the same message with a remote wallet and with the matching private
// key held in process, then compares the two signatures.
func main() {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	ctx := context.Background()

	walletUrl := os.Getenv(config.EnvVerifierWalletUrl)
	if walletUrl == "" {
		walletUrl = "http://localhost:1248"
	}
	privateKey := os.Getenv(config.EnvVerifierPrivateKey)
	if privateKey == "" {
		l.Sugar().Fatalf("%s must be set to the remote wallet's key", config.EnvVerifierPrivateKey)
	}

	remote, err := rpcWalletProvider.NewRpcWalletProvider(ctx, walletUrl, l)
	if err != nil {
		l.Sugar().Fatalw("failed to connect to remote wallet", "error", err)
	}
	defer remote.Close()

	local, err := inMemoryWalletProvider.NewInMemoryWalletProvider(privateKey, big.NewInt(int64(config.DefaultChainId)), l)
	if err != nil {
		l.Sugar().Fatalw("failed to create in-memory wallet", "error", err)
	}

	remoteSigner, err := remote.GetSigner(ctx)
	if err != nil {
		l.Sugar().Fatalw("failed to get remote signer", "error", err)
	}
	localSigner, err := local.GetSigner(ctx)
	if err != nil {
		l.Sugar().Fatalw("failed to get in-memory signer", "error", err)
	}
	if remoteSigner.Address() != localSigner.Address() {
		l.Sugar().Fatalw("wallets hold different accounts",
			"remote", remoteSigner.Address().Hex(),
			"local", localSigner.Address().Hex(),
		)
	}

	message := []byte("Hello, verifier!")

	signatureRemote, err := remoteSigner.SignMessage(ctx, message)
	if err != nil {
		l.Sugar().Fatalw("failed to sign message with remote wallet", "error", err)
	}

	signatureLocal, err := localSigner.SignMessage(ctx, message)
	if err != nil {
		l.Sugar().Fatalw("failed to sign message with in-memory wallet", "error", err)
	}

	recovered, err := messageSigning.RecoverSigner(message, signatureRemote)
	if err != nil {
		l.Sugar().Fatalw("failed to recover remote signer", "error", err)
	}

	fmt.Printf("Message: %s\n", message)
	fmt.Printf("Signature (remote wallet):    %s\n", common.Bytes2Hex(signatureRemote))
	fmt.Printf("Signature (in-memory wallet): %s\n", common.Bytes2Hex(signatureLocal))
	fmt.Printf("Recovered signer: %s\n", recovered.Hex())

	if common.Bytes2Hex(signatureRemote) == common.Bytes2Hex(signatureLocal) {
		fmt.Println("Signatures match!")
	} else {
		fmt.Println("Signatures do not match!")
	}
}
