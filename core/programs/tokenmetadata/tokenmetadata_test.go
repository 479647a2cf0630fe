package tokenmetadata

import (
	"context"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/ledger/badger"
	"github.com/gaze-network/nft-minter/core/programs/system"
	"github.com/gaze-network/nft-minter/core/programs/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tx        *ledger.Tx
	payer     types.Account
	mint      types.Account
	authority types.Account
}

// newFixture returns a unit of work holding an initialized mint of authority.
// Extra signers co-sign the unit of work.
func newFixture(t *testing.T, signAuthority bool, extra ...types.Account) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := badger.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{payer: types.NewAccount(), mint: types.NewAccount(), authority: types.NewAccount()}
	signers := append([]types.Account{f.payer, f.mint}, extra...)
	if signAuthority {
		signers = append(signers, f.authority)
	}
	f.tx, err = ledger.Begin(ctx, store, ledger.DefaultRent, signers...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.tx.Rollback(ctx) })

	_, err = f.tx.Credit(ctx, f.payer.PublicKey, 1_000_000_000)
	require.NoError(t, err)
	_, err = system.CreateAccount(ctx, f.tx, system.CreateAccountParams{
		From:  f.payer.PublicKey,
		New:   f.mint.PublicKey,
		Owner: common.TokenProgramID,
		Space: token.MintAccountSize,
	})
	require.NoError(t, err)
	_, err = token.InitializeMint(ctx, f.tx, token.InitializeMintParams{Mint: f.mint.PublicKey, MintAuthority: f.authority.PublicKey})
	require.NoError(t, err)
	return f
}

func (f *fixture) request(t *testing.T) chain.CreateMetadataRequest {
	t.Helper()
	address, err := chain.MetadataAddress(f.mint.PublicKey)
	require.NoError(t, err)
	return chain.CreateMetadataRequest{
		Version:                 chain.RequestVersionV3,
		Metadata:                address,
		Mint:                    f.mint.PublicKey,
		MintAuthority:           f.authority.PublicKey,
		Payer:                   f.payer.PublicKey,
		UpdateAuthority:         f.authority.PublicKey,
		UpdateAuthorityIsSigner: true,
		IsMutable:               true,
		Data: chain.DataV2{
			Name:                 "Relic #1",
			Symbol:               "RLC",
			URI:                  "https://example.test/1.json",
			SellerFeeBasisPoints: 1,
			Creators:             []chain.Creator{{Address: f.authority.PublicKey, Verified: true, Share: 100}},
		},
	}
}

func TestCreateMetadataAccountV3(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	request := f.request(t)

	record, err := CreateMetadataAccountV3(ctx, f.tx, request)
	require.NoError(t, err)
	assert.Equal(t, request.Metadata, record.Address)
	assert.Equal(t, f.mint.PublicKey, record.Mint)
	assert.Equal(t, f.authority.PublicKey, record.UpdateAuthority)
	assert.Equal(t, request.Data, record.Data)
	assert.True(t, record.IsMutable)
	assert.False(t, record.PrimarySaleHappened)

	stored, err := LoadMetadata(ctx, f.tx, request.Metadata)
	require.NoError(t, err)
	assert.Equal(t, record, stored)

	account, err := f.tx.GetAccount(ctx, request.Metadata)
	require.NoError(t, err)
	assert.Equal(t, common.TokenMetadataProgramID, account.Owner)
	assert.Len(t, account.Data, MetadataAccountSize)
	assert.Equal(t, ledger.DefaultRent.MinimumBalance(MetadataAccountSize), account.Lamports)

	_, err = CreateMetadataAccountV3(ctx, f.tx, request)
	assert.ErrorIs(t, err, errs.AlreadyInitialized)
}

func TestCreateMetadataAccountV3Rejections(t *testing.T) {
	ctx := context.Background()

	type testcase struct {
		name          string
		signAuthority bool
		modify        func(f *fixture, r *chain.CreateMetadataRequest)
		err           error
	}

	testcases := []testcase{
		{
			name:          "uri over limit",
			signAuthority: true,
			modify: func(f *fixture, r *chain.CreateMetadataRequest) {
				r.Data.URI = "https://example.test/" + strings.Repeat("x", chain.MaxURILength)
			},
			err: errs.InvalidMetadataLength,
		},
		{
			name:          "unknown request version",
			signAuthority: true,
			modify:        func(f *fixture, r *chain.CreateMetadataRequest) { r.Version = 2 },
			err:           errs.Unsupported,
		},
		{
			name:          "metadata address not derived from mint",
			signAuthority: true,
			modify: func(f *fixture, r *chain.CreateMetadataRequest) {
				r.Metadata = types.NewAccount().PublicKey
			},
			err: errs.InvalidArgument,
		},
		{
			name:          "mint authority does not match",
			signAuthority: true,
			modify: func(f *fixture, r *chain.CreateMetadataRequest) {
				r.MintAuthority = f.payer.PublicKey
			},
			err: errs.AuthorityMismatch,
		},
		{
			name: "mint authority did not sign",
			err:  errs.UnauthorizedSignature,
		},
		{
			name:          "verified creator did not sign",
			signAuthority: true,
			modify: func(f *fixture, r *chain.CreateMetadataRequest) {
				r.Data.Creators = []chain.Creator{
					{Address: f.authority.PublicKey, Verified: true, Share: 50},
					{Address: types.NewAccount().PublicKey, Verified: true, Share: 50},
				}
			},
			err: errs.UnauthorizedSignature,
		},
		{
			name:          "update authority did not sign",
			signAuthority: true,
			modify: func(f *fixture, r *chain.CreateMetadataRequest) {
				r.UpdateAuthority = types.NewAccount().PublicKey
			},
			err: errs.UnauthorizedSignature,
		},
		{
			name:          "payer is not a system account",
			signAuthority: true,
			modify: func(f *fixture, r *chain.CreateMetadataRequest) {
				r.Payer = f.mint.PublicKey
			},
			err: errs.InvalidArgument,
		},
		{
			name:          "payer without funds",
			signAuthority: true,
			modify: func(f *fixture, r *chain.CreateMetadataRequest) {
				r.Payer = f.authority.PublicKey
			},
			err: errs.InsufficientFunds,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.signAuthority)
			request := f.request(t)
			if tc.modify != nil {
				tc.modify(f, &request)
			}

			_, err := CreateMetadataAccountV3(ctx, f.tx, request)
			assert.ErrorIs(t, err, tc.err)

			// nothing is allocated when the registry rejects the request
			metadata, err := chain.MetadataAddress(f.mint.PublicKey)
			require.NoError(t, err)
			exists, err := f.tx.Exists(ctx, metadata)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestCreateMetadataAccountV3UnverifiedCreatorNeedsNoSignature(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	request := f.request(t)
	request.Data.Creators = []chain.Creator{
		{Address: f.authority.PublicKey, Verified: true, Share: 90},
		{Address: types.NewAccount().PublicKey, Verified: false, Share: 10},
	}
	request.Data.Collection = &chain.Collection{Verified: true, Key: types.NewAccount().PublicKey}

	record, err := CreateMetadataAccountV3(ctx, f.tx, request)
	require.NoError(t, err)
	assert.Len(t, record.Data.Creators, 2)
	require.NotNil(t, record.Data.Collection)
	assert.False(t, record.Data.Collection.Verified, "collections are never verified at creation")
}
