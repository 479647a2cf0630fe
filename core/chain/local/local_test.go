package local

import (
	"context"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/ledger/badger"
	"github.com/gaze-network/nft-minter/core/programs/token"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnvironment(t *testing.T) *Environment {
	t.Helper()
	store, err := badger.OpenInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, ledger.Rent{})
}

func TestAirdrop(t *testing.T) {
	ctx := context.Background()
	env := newEnvironment(t)
	wallet := types.NewAccount().PublicKey

	balance, err := env.Balance(ctx, wallet)
	require.NoError(t, err)
	assert.Zero(t, balance)

	receipt, err := env.Airdrop(ctx, wallet, 5_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, Name, receipt.Environment)
	assert.Equal(t, chain.ReceiptCommitted, receipt.Status)
	assert.NotEmpty(t, receipt.Signature)

	balance, err = env.Balance(ctx, wallet)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000_000), balance)
}

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()
	env := newEnvironment(t)
	payer, identity, authority := types.NewAccount(), types.NewAccount(), types.NewAccount()
	_, err := env.Airdrop(ctx, payer.PublicKey, 1_000_000_000)
	require.NoError(t, err)

	holding, _, err := token.AssociatedHoldingAddress(authority.PublicKey, identity.PublicKey)
	require.NoError(t, err)

	run := func() (chain.UnitOfWork, error) {
		uow, err := env.Begin(ctx, payer, identity, authority)
		require.NoError(t, err)
		if _, err := uow.InitializeIdentity(ctx, chain.InitializeIdentityParams{
			Identity:  identity.PublicKey,
			Payer:     payer.PublicKey,
			Authority: authority.PublicKey,
			MaxSupply: lo.ToPtr[uint64](1),
		}); err != nil {
			return uow, err
		}
		result, err := uow.Issue(ctx, chain.IssueParams{
			Identity:  identity.PublicKey,
			Holding:   holding,
			Payer:     payer.PublicKey,
			Authority: authority.PublicKey,
			Amount:    1,
		})
		if err != nil {
			return uow, err
		}
		assert.Equal(t, uint64(1), result.Identity.Supply)
		assert.Equal(t, uint64(1), result.Holding.Balance)
		return uow, nil
	}

	t.Run("rollback leaves nothing behind", func(t *testing.T) {
		uow, err := run()
		require.NoError(t, err)
		require.NoError(t, uow.Rollback(ctx))

		_, err = env.GetAssetIdentity(ctx, identity.PublicKey)
		assert.ErrorIs(t, err, errs.NotFound)
		_, err = env.GetHolding(ctx, holding)
		assert.ErrorIs(t, err, errs.NotFound)
		balance, err := env.Balance(ctx, payer.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000_000), balance)
	})

	t.Run("commit", func(t *testing.T) {
		uow, err := run()
		require.NoError(t, err)
		receipt, err := uow.Commit(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, receipt.Signature)

		identityRecord, err := env.GetAssetIdentity(ctx, identity.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), identityRecord.Supply)
		require.NotNil(t, identityRecord.Authority)
		assert.Equal(t, authority.PublicKey, *identityRecord.Authority)

		holdingRecord, err := env.GetHolding(ctx, holding)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), holdingRecord.Balance)
		assert.Equal(t, authority.PublicKey, holdingRecord.Owner)
	})

	t.Run("second run collides", func(t *testing.T) {
		uow, err := run()
		defer uow.Rollback(ctx)
		assert.ErrorIs(t, err, errs.AlreadyInitialized)
	})
}

func TestBeginWaitsForRunningUnitOfWork(t *testing.T) {
	ctx := context.Background()
	env := newEnvironment(t)
	payer := types.NewAccount()

	first, err := env.Begin(ctx, payer)
	require.NoError(t, err)

	waiting, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = env.Begin(waiting, payer)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, first.Rollback(ctx))
	require.NoError(t, first.Rollback(ctx))

	second, err := env.Begin(ctx, payer)
	require.NoError(t, err)
	_, err = second.Commit(ctx)
	require.NoError(t, err)
	require.NoError(t, second.Rollback(ctx))

	_, err = env.Airdrop(ctx, payer.PublicKey, 1)
	require.NoError(t, err)
}
