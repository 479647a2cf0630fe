package minter

import (
	"context"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/internal/config"
	"github.com/gaze-network/nft-minter/internal/keysource"
	minterconfig "github.com/gaze-network/nft-minter/modules/minter/config"
	"github.com/mr-tron/base58"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAuthority(t *testing.T) {
	ctx := context.Background()
	payer, authority := types.NewAccount(), types.NewAccount()
	programID := types.NewAccount().PublicKey
	programAuthority, err := ProgramAuthority(programID, []byte(DefaultAuthoritySeed))
	require.NoError(t, err)

	type testcase struct {
		name              string
		conf              minterconfig.Config
		expectedKey       []byte
		expectedSigner    bool
		expectedProgram bool
		errorKind         error
	}
	testcases := []testcase{
		{
			name:        "payer is the default authority",
			conf:        minterconfig.Config{},
			expectedKey: payer.PublicKey.Bytes(),
		},
		{
			name: "separate wallet authority",
			conf: minterconfig.Config{Authority: minterconfig.AuthorityConfig{
				Mode: AuthorityModeWallet,
				Key:  keysource.Config{Source: keysource.SourceBase58, Base58: base58.Encode(authority.PrivateKey)},
			}},
			expectedKey:    authority.PublicKey.Bytes(),
			expectedSigner: true,
		},
		{
			name: "program authority with default seed",
			conf: minterconfig.Config{
				ProgramID: programID.ToBase58(),
				Authority: minterconfig.AuthorityConfig{Mode: "PROGRAM"},
			},
			expectedKey:       programAuthority.Key.Bytes(),
			expectedProgram: true,
		},
		{
			name:      "program authority without program id",
			conf:      minterconfig.Config{Authority: minterconfig.AuthorityConfig{Mode: AuthorityModeProgram}},
			errorKind: errs.InvalidArgument,
		},
		{
			name:      "unknown mode",
			conf:      minterconfig.Config{Authority: minterconfig.AuthorityConfig{Mode: "multisig"}},
			errorKind: errs.Unsupported,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			actual, signer, err := loadAuthority(ctx, tc.conf, payer)
			if tc.errorKind != nil {
				assert.ErrorIs(t, err, tc.errorKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedKey, actual.Key.Bytes())
			assert.Equal(t, tc.expectedSigner, signer != nil)
			assert.Equal(t, tc.expectedProgram, actual.IsProgramDerived())
		})
	}
}

func TestNewFromInjector(t *testing.T) {
	ctx := context.Background()
	env := newLocalEnvironment(t)
	payer := types.NewAccount()
	_, err := env.Airdrop(ctx, payer.PublicKey, airdropLamports)
	require.NoError(t, err)

	injector := do.New()
	do.ProvideValue(injector, ctx)
	do.ProvideValue(injector, config.Config{
		Minter: minterconfig.Config{SellerFeeBasisPoints: lo.ToPtr[uint16](250)},
	})
	do.ProvideValue[chain.Environment](injector, env)
	do.ProvideNamedValue(injector, PayerService, payer)

	minter, err := New(injector)
	require.NoError(t, err)
	assert.Equal(t, payer.PublicKey, minter.Authority().Key)

	result, err := minter.Mint(ctx, relic)
	require.NoError(t, err)
	assert.Equal(t, uint16(250), result.Metadata.Data.SellerFeeBasisPoints)
}
