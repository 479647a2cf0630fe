package minter

import (
	"context"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/internal/config"
	"github.com/gaze-network/nft-minter/internal/keysource"
	minterconfig "github.com/gaze-network/nft-minter/modules/minter/config"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

const Version = "v0.1.0"

// PayerService is the injector name of the payer keypair.
const PayerService = "payer"

// New builds the minter from the injected configuration, environment and payer keypair.
func New(injector do.Injector) (*Minter, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	env, err := do.Invoke[chain.Environment](injector)
	if err != nil {
		return nil, errors.Wrap(err, "can't get execution environment")
	}
	payer, err := do.InvokeNamed[types.Account](injector, PayerService)
	if err != nil {
		return nil, errors.Wrap(err, "can't get payer keypair")
	}

	authority, authoritySigner, err := loadAuthority(ctx, conf.Minter, payer)
	if err != nil {
		return nil, errors.Wrap(err, "invalid minter authority configuration")
	}

	var verifier URIVerifier
	if conf.Minter.VerifyURI {
		verifier = NewURIVerifier(conf.Minter.VerifyURITimeout)
	}

	logger.InfoContext(ctx, "Initialized minter",
		slogx.String("environment", env.Name()),
		slogx.PublicKey("authority", authority.Key),
		slogx.String("authority_mode", authority.Mode()),
		slogx.PublicKey("payer", payer.PublicKey),
		slogx.Bool("verify_uri", verifier != nil),
	)
	return NewMinter(env, Options{
		Authority:            authority,
		Payer:                payer,
		AuthoritySigner:      authoritySigner,
		SellerFeeBasisPoints: conf.Minter.SellerFeeBasisPoints,
		URIVerifier:          verifier,
	}), nil
}

func loadAuthority(ctx context.Context, conf minterconfig.Config, payer types.Account) (Authority, *types.Account, error) {
	switch strings.ToLower(conf.Authority.Mode) {
	case AuthorityModeProgram:
		if conf.ProgramID == "" {
			return Authority{}, nil, errors.Wrap(errs.InvalidArgument, "program id is required for program authority")
		}
		programID, err := common.ParsePublicKey(conf.ProgramID)
		if err != nil {
			return Authority{}, nil, errors.Wrap(err, "invalid program id")
		}
		seeds := lo.Map(conf.Authority.Seeds, func(seed string, _ int) []byte { return []byte(seed) })
		if len(seeds) == 0 {
			seeds = [][]byte{[]byte(DefaultAuthoritySeed)}
		}
		authority, err := ProgramAuthority(programID, seeds...)
		return authority, nil, errors.WithStack(err)
	case AuthorityModeWallet, "":
		if !conf.Authority.Key.IsConfigured() {
			return WalletAuthority(payer.PublicKey), nil, nil
		}
		key, err := keysource.Load(ctx, conf.Authority.Key)
		if err != nil {
			return Authority{}, nil, errors.Wrap(err, "can't load authority keypair")
		}
		if key.PublicKey == payer.PublicKey {
			return WalletAuthority(key.PublicKey), nil, nil
		}
		return WalletAuthority(key.PublicKey), &key, nil
	default:
		return Authority{}, nil, errors.Wrapf(errs.Unsupported, "%q authority mode is not supported", conf.Authority.Mode)
	}
}
