package badger

import (
	"context"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreCommit(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	address := types.NewAccount().PublicKey

	_, err := store.GetAccount(ctx, address)
	assert.ErrorIs(t, err, errs.NotFound)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.PutAccount(ctx, &ledger.Account{
		Address:  address,
		Owner:    common.TokenProgramID,
		Lamports: 1461600,
		Data:     []byte{1, 2, 3},
	}))

	// staged writes are visible inside the transaction only
	staged, err := tx.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1461600), staged.Lamports)
	_, err = store.GetAccount(ctx, address)
	assert.ErrorIs(t, err, errs.NotFound)

	require.NoError(t, tx.Commit(ctx))

	account, err := store.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, address, account.Address)
	assert.Equal(t, common.TokenProgramID, account.Owner)
	assert.Equal(t, uint64(1461600), account.Lamports)
	assert.Equal(t, []byte{1, 2, 3}, account.Data)
}

func TestStoreRollback(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	address := types.NewAccount().PublicKey

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.PutAccount(ctx, &ledger.Account{Address: address, Owner: common.SystemProgramID, Lamports: 1}))
	require.NoError(t, tx.Rollback(ctx))

	_, err = store.GetAccount(ctx, address)
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestStoreConflict(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	address := types.NewAccount().PublicKey

	first, err := store.Begin(ctx)
	require.NoError(t, err)
	second, err := store.Begin(ctx)
	require.NoError(t, err)

	// both observe the address as free
	_, err = first.GetAccount(ctx, address)
	require.ErrorIs(t, err, errs.NotFound)
	_, err = second.GetAccount(ctx, address)
	require.ErrorIs(t, err, errs.NotFound)

	require.NoError(t, first.PutAccount(ctx, &ledger.Account{Address: address, Owner: common.SystemProgramID, Lamports: 1}))
	require.NoError(t, second.PutAccount(ctx, &ledger.Account{Address: address, Owner: common.SystemProgramID, Lamports: 2}))

	require.NoError(t, first.Commit(ctx))
	assert.ErrorIs(t, second.Commit(ctx), errs.Conflict)

	account, err := store.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), account.Lamports)
}
