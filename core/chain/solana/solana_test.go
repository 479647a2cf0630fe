package solana

import (
	"context"
	"testing"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRPCClient struct {
	mock.Mock
}

func (m *mockRPCClient) GetLatestBlockhash(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockRPCClient) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	args := m.Called(ctx, dataLen)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockRPCClient) GetAccount(ctx context.Context, address common.PublicKey) (*AccountInfo, error) {
	args := m.Called(ctx, address)
	info, _ := args.Get(0).(*AccountInfo)
	return info, args.Error(1)
}

func (m *mockRPCClient) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

type mintFixture struct {
	payer     types.Account
	identity  types.Account
	holding   common.PublicKey
	metadata  common.PublicKey
	authority common.PublicKey
}

func newMintFixture(t *testing.T) mintFixture {
	t.Helper()
	f := mintFixture{payer: types.NewAccount(), identity: types.NewAccount()}
	f.authority = f.payer.PublicKey

	var err error
	f.holding, _, err = solcommon.FindAssociatedTokenAddress(f.authority, f.identity.PublicKey)
	require.NoError(t, err)
	f.metadata, err = chain.MetadataAddress(f.identity.PublicKey)
	require.NoError(t, err)
	return f
}

func (f mintFixture) stage(ctx context.Context, uow chain.UnitOfWork) error {
	if _, err := uow.InitializeIdentity(ctx, chain.InitializeIdentityParams{
		Identity:  f.identity.PublicKey,
		Payer:     f.payer.PublicKey,
		Authority: f.authority,
		MaxSupply: lo.ToPtr[uint64](1),
	}); err != nil {
		return err
	}
	if _, err := uow.Issue(ctx, chain.IssueParams{
		Identity:  f.identity.PublicKey,
		Holding:   f.holding,
		Payer:     f.payer.PublicKey,
		Authority: f.authority,
		Amount:    1,
	}); err != nil {
		return err
	}
	_, err := uow.CreateMetadata(ctx, chain.CreateMetadataRequest{
		Version:                 chain.RequestVersionV3,
		Metadata:                f.metadata,
		Mint:                    f.identity.PublicKey,
		MintAuthority:           f.authority,
		Payer:                   f.payer.PublicKey,
		UpdateAuthority:         f.authority,
		UpdateAuthorityIsSigner: true,
		IsMutable:               true,
		Data: chain.DataV2{
			Name:                 "Relic #1",
			Symbol:               "RLC",
			URI:                  "https://example.test/1.json",
			SellerFeeBasisPoints: 1,
			Creators:             []chain.Creator{{Address: f.authority, Verified: true, Share: 100}},
		},
	}, nil)
	return err
}

func TestUnitOfWorkCompilesOneTransaction(t *testing.T) {
	ctx := context.Background()
	rpc := &mockRPCClient{}
	f := newMintFixture(t)

	rpc.On("GetMinimumBalanceForRentExemption", mock.Anything, uint64(token.MintAccountSize)).Return(uint64(1461600), nil).Once()
	rpc.On("GetAccount", mock.Anything, f.holding).Return(nil, errors.WithStack(errs.NotFound)).Once()
	rpc.On("GetLatestBlockhash", mock.Anything).Return("EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N", nil).Once()
	rpc.On("SendTransaction", mock.Anything, mock.Anything).Return("5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW", nil).Once()

	uow, err := New(rpc).Begin(ctx, f.payer, f.identity)
	require.NoError(t, err)
	require.NoError(t, f.stage(ctx, uow))

	staged := uow.(*unitOfWork).instructions
	programs := lo.Map(staged, func(i types.Instruction, _ int) common.PublicKey { return i.ProgramID })
	assert.Equal(t, []common.PublicKey{
		common.SystemProgramID,
		common.TokenProgramID,
		common.AssociatedTokenProgramID,
		common.TokenProgramID,
		common.TokenMetadataProgramID,
		common.TokenMetadataProgramID,
	}, programs)

	receipt, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, Name, receipt.Environment)
	assert.Equal(t, "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW", receipt.Signature)
	assert.Equal(t, chain.ReceiptSubmitted, receipt.Status)
	assert.False(t, receipt.AcceptedAt.IsZero())
	rpc.AssertExpectations(t)
}

func TestUnitOfWorkRollbackSendsNothing(t *testing.T) {
	ctx := context.Background()
	rpc := &mockRPCClient{}
	f := newMintFixture(t)

	rpc.On("GetMinimumBalanceForRentExemption", mock.Anything, mock.Anything).Return(uint64(1461600), nil)
	rpc.On("GetAccount", mock.Anything, f.holding).Return(nil, errors.WithStack(errs.NotFound))

	uow, err := New(rpc).Begin(ctx, f.payer, f.identity)
	require.NoError(t, err)
	require.NoError(t, f.stage(ctx, uow))
	require.NoError(t, uow.Rollback(ctx))

	_, err = uow.Commit(ctx)
	assert.Error(t, err)
	rpc.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
}

func TestUnitOfWorkRejections(t *testing.T) {
	ctx := context.Background()
	rpc := &mockRPCClient{}
	rpc.On("GetMinimumBalanceForRentExemption", mock.Anything, mock.Anything).Return(uint64(1461600), nil)
	rpc.On("GetAccount", mock.Anything, mock.Anything).Return(nil, errors.WithStack(errs.NotFound))
	env := New(rpc)
	f := newMintFixture(t)

	t.Run("program-derived authority", func(t *testing.T) {
		uow, err := env.Begin(ctx, f.payer)
		require.NoError(t, err)
		_, err = uow.CreateMetadata(ctx, chain.CreateMetadataRequest{Version: chain.RequestVersionV3}, &chain.SignerSeeds{})
		assert.ErrorIs(t, err, errs.Unsupported)
	})

	t.Run("issue by another authority", func(t *testing.T) {
		uow, err := env.Begin(ctx, f.payer, f.identity)
		require.NoError(t, err)
		_, err = uow.InitializeIdentity(ctx, chain.InitializeIdentityParams{Identity: f.identity.PublicKey, Payer: f.payer.PublicKey, Authority: f.authority})
		require.NoError(t, err)
		_, err = uow.Issue(ctx, chain.IssueParams{Identity: f.identity.PublicKey, Holding: f.holding, Payer: f.payer.PublicKey, Authority: f.identity.PublicKey, Amount: 1})
		assert.ErrorIs(t, err, errs.AuthorityMismatch)
	})

	t.Run("second issue over cap", func(t *testing.T) {
		uow, err := env.Begin(ctx, f.payer, f.identity)
		require.NoError(t, err)
		require.NoError(t, f.stage(ctx, uow))
		_, err = uow.Issue(ctx, chain.IssueParams{Identity: f.identity.PublicKey, Holding: f.holding, Payer: f.payer.PublicKey, Authority: f.authority, Amount: 1})
		assert.ErrorIs(t, err, errs.SupplyExceeded)
	})

	t.Run("identity of unknown account", func(t *testing.T) {
		_, err := env.GetAssetIdentity(ctx, types.NewAccount().PublicKey)
		assert.ErrorIs(t, err, errs.NotFound)
	})
}
