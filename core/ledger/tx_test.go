package ledger_test

import (
	"context"
	"testing"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/ledger/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) ledger.Store {
	t.Helper()
	store, err := badger.OpenInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRentMinimumBalance(t *testing.T) {
	type testcase struct {
		dataLen  uint64
		expected uint64
	}

	testcases := []testcase{
		{dataLen: 0, expected: 890880},
		{dataLen: 82, expected: 1461600},
		{dataLen: 165, expected: 2039280},
	}

	for _, tc := range testcases {
		assert.Equal(t, tc.expected, ledger.DefaultRent.MinimumBalance(tc.dataLen), "data length %d", tc.dataLen)
	}
	assert.Equal(t, ledger.DefaultRent, ledger.Rent{}.WithDefaults())
	assert.True(t, ledger.DefaultRent.IsExempt(1461600, 82))
	assert.False(t, ledger.DefaultRent.IsExempt(1461599, 82))
}

func TestBeginVerifiesSigners(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	t.Run("no signer", func(t *testing.T) {
		_, err := ledger.Begin(ctx, store, ledger.DefaultRent)
		assert.ErrorIs(t, err, errs.UnauthorizedSignature)
	})

	t.Run("public key without private key", func(t *testing.T) {
		_, err := ledger.Begin(ctx, store, ledger.DefaultRent, types.Account{PublicKey: types.NewAccount().PublicKey})
		assert.ErrorIs(t, err, errs.UnauthorizedSignature)
	})

	t.Run("private key of another wallet", func(t *testing.T) {
		forged := types.NewAccount()
		forged.PublicKey = types.NewAccount().PublicKey
		_, err := ledger.Begin(ctx, store, ledger.DefaultRent, forged)
		assert.ErrorIs(t, err, errs.UnauthorizedSignature)
	})

	t.Run("valid wallets", func(t *testing.T) {
		payer, other := types.NewAccount(), types.NewAccount()
		tx, err := ledger.Begin(ctx, store, ledger.DefaultRent, payer, other)
		require.NoError(t, err)
		defer tx.Rollback(ctx)
		assert.True(t, tx.IsSigner(payer.PublicKey))
		assert.True(t, tx.IsSigner(other.PublicKey))
		assert.False(t, tx.IsSigner(types.NewAccount().PublicKey))
	})
}

func TestInvokeSigned(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	programID := types.NewAccount().PublicKey

	pda, bump, err := solcommon.FindProgramAddress([][]byte{[]byte("authority")}, programID)
	require.NoError(t, err)
	seeds := [][]byte{[]byte("authority"), {bump}}

	tx, err := ledger.Begin(ctx, store, ledger.DefaultRent, types.NewAccount())
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	assert.False(t, tx.IsSigner(pda))
	err = tx.InvokeSigned(ctx, programID, seeds, func(ctx context.Context) error {
		assert.True(t, tx.IsSigner(pda))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, tx.IsSigner(pda), "signature must not outlive the invocation")

	// seeds of another program derive another address
	err = tx.InvokeSigned(ctx, types.NewAccount().PublicKey, seeds, func(ctx context.Context) error {
		assert.False(t, tx.IsSigner(pda))
		return nil
	})
	if err != nil {
		assert.ErrorIs(t, err, errs.UnauthorizedSignature)
	}
}

func TestCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	payer := types.NewAccount()

	t.Run("commit", func(t *testing.T) {
		tx, err := ledger.Begin(ctx, store, ledger.DefaultRent, payer)
		require.NoError(t, err)
		_, err = tx.Credit(ctx, payer.PublicKey, 10)
		require.NoError(t, err)
		_, err = tx.Credit(ctx, payer.PublicKey, 5)
		require.NoError(t, err)

		receipt, err := tx.Commit(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, receipt.Signature)
		assert.Equal(t, []common.PublicKey{payer.PublicKey}, receipt.Accounts)
		require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

		account, err := store.GetAccount(ctx, payer.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, uint64(15), account.Lamports)
		assert.Equal(t, common.SystemProgramID, account.Owner)
	})

	t.Run("rollback", func(t *testing.T) {
		tx, err := ledger.Begin(ctx, store, ledger.DefaultRent, payer)
		require.NoError(t, err)
		_, err = tx.Credit(ctx, payer.PublicKey, 100)
		require.NoError(t, err)
		require.NoError(t, tx.Rollback(ctx))

		account, err := store.GetAccount(ctx, payer.PublicKey)
		require.NoError(t, err)
		assert.Equal(t, uint64(15), account.Lamports)

		_, err = tx.Commit(ctx)
		assert.Error(t, err)
	})

	t.Run("overflow", func(t *testing.T) {
		tx, err := ledger.Begin(ctx, store, ledger.DefaultRent, payer)
		require.NoError(t, err)
		defer tx.Rollback(ctx)
		_, err = tx.Credit(ctx, payer.PublicKey, ^uint64(0))
		assert.ErrorIs(t, err, errs.OverflowUint64)
	})
}
