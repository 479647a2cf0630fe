package solana

import (
	"context"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
)

// RPCClient is the subset of the Solana JSON-RPC API the environment needs.
type RPCClient interface {
	GetLatestBlockhash(ctx context.Context) (string, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)

	// GetAccount returns errs.NotFound if the account does not exist.
	GetAccount(ctx context.Context, address common.PublicKey) (*AccountInfo, error)

	// SendTransaction returns the transaction signature.
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
}

type AccountInfo struct {
	Owner    common.PublicKey
	Lamports uint64
	Data     []byte
}

var _ RPCClient = (*rpcClient)(nil)

type rpcClient struct {
	client *client.Client
}

func NewRPCClient(endpoint string) RPCClient {
	return &rpcClient{client: client.NewClient(endpoint)}
}

func (c *rpcClient) GetLatestBlockhash(ctx context.Context) (string, error) {
	latest, err := c.client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", errors.Wrapf(errs.ExternalServiceFailure, "get latest blockhash: %v", err)
	}
	return latest.Blockhash, nil
}

func (c *rpcClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	lamports, err := c.client.GetMinimumBalanceForRentExemption(ctx, dataLen)
	if err != nil {
		return 0, errors.Wrapf(errs.ExternalServiceFailure, "get minimum balance for rent exemption: %v", err)
	}
	return lamports, nil
}

func (c *rpcClient) GetAccount(ctx context.Context, address common.PublicKey) (*AccountInfo, error) {
	info, err := c.client.GetAccountInfo(ctx, address.ToBase58())
	if err != nil {
		return nil, errors.Wrapf(errs.ExternalServiceFailure, "get account info: %v", err)
	}
	if info.Lamports == 0 && common.IsZero(info.Owner) {
		return nil, errors.Wrapf(errs.NotFound, "account %s", address.ToBase58())
	}
	return &AccountInfo{
		Owner:    info.Owner,
		Lamports: info.Lamports,
		Data:     info.Data,
	}, nil
}

func (c *rpcClient) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	signature, err := c.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", errors.Wrapf(errs.ExternalServiceFailure, "send transaction: %v", err)
	}
	return signature, nil
}
