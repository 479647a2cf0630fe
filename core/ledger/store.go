package ledger

import (
	"context"

	"github.com/gaze-network/nft-minter/common"
)

// Store is a durable account store with all-or-nothing transactions.
type Store interface {
	StoreReader

	// Begin starts a transaction. Either every write of the transaction becomes visible
	// on Commit, or none does.
	Begin(ctx context.Context) (StoreTx, error)

	Close() error
}

type StoreReader interface {
	// GetAccount returns errs.NotFound if the account does not exist.
	GetAccount(ctx context.Context, address common.PublicKey) (*Account, error)
}

type StoreTx interface {
	StoreReader

	PutAccount(ctx context.Context, account *Account) error

	// Commit returns errs.Conflict if a concurrent transaction committed a write to an
	// account this transaction read or wrote.
	Commit(ctx context.Context) error

	// Rollback discards the transaction. It is a no-op after Commit.
	Rollback(ctx context.Context) error
}
