package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Session is the account currently authorized by the wallet provider
type Session struct {
	Address common.Address `json:"address"`
}

// OperationReceipt identifies a mined state-changing call
type OperationReceipt struct {
	TxHash      common.Hash `json:"txHash"`
	BlockNumber uint64      `json:"blockNumber"`
	ExplorerUrl string      `json:"explorerUrl,omitempty"`
}

// ContractStatus is the last snapshot read from the verifier contract.
// Nonce is kept as a decimal string, never as the raw integer.
type ContractStatus struct {
	Nonce    string `json:"nonce"`
	Data     string `json:"data"`
	PrevData string `json:"prevData"`
}

// SignedPayload holds populated calldata and the signer's signature over it
type SignedPayload struct {
	Calldata  hexutil.Bytes `json:"calldata"`
	Signature hexutil.Bytes `json:"signature"`
}
