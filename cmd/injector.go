package cmd

import (
	"context"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/core/chain/local"
	"github.com/gaze-network/nft-minter/core/chain/solana"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/ledger/badger"
	ledgerpostgres "github.com/gaze-network/nft-minter/core/ledger/postgres"
	"github.com/gaze-network/nft-minter/internal/config"
	"github.com/gaze-network/nft-minter/internal/keysource"
	"github.com/gaze-network/nft-minter/internal/postgres"
	"github.com/gaze-network/nft-minter/modules/minter"
	"github.com/gaze-network/nft-minter/pkg/decimals"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/samber/do/v2"
)

// localPayerAirdrop funds an ephemeral payer on local ledgers, in lamports.
const localPayerAirdrop = 10_000_000_000

// Register Modules
var Modules = do.Package(
	do.Lazy(minter.New),
)

// closableStore closes the ledger store when the injector shuts down.
type closableStore struct {
	ledger.Store
	cleanup func()
}

func (s closableStore) Shutdown() error {
	defer s.cleanup()
	return errors.WithStack(s.Store.Close())
}

// newInjector wires the ledger, the execution environment, the payer and the minter.
func newInjector(ctx context.Context, conf config.Config) *do.RootScope {
	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize ledger store of the local backends
	do.Provide(injector, func(i do.Injector) (ledger.Store, error) {
		conf := do.MustInvoke[config.Config](i)

		switch strings.ToLower(conf.Ledger.Backend) {
		case config.LedgerBackendBadger, "":
			store, err := badger.Open(ctx, conf.Ledger.Badger)
			if err != nil {
				if errors.Is(err, errs.InvalidArgument) {
					return nil, errors.Wrap(err, "invalid Badger configuration for ledger")
				}
				return nil, errors.Wrap(err, "can't open Badger ledger")
			}
			logger.InfoContext(ctx, "Opened Badger ledger", slogx.String("path", conf.Ledger.Badger.Path), slogx.Bool("in_memory", conf.Ledger.Badger.InMemory))
			return closableStore{Store: store, cleanup: func() {}}, nil
		case config.LedgerBackendPostgres, "postgresql", "pg":
			pg, err := postgres.NewPool(ctx, conf.Ledger.Postgres)
			if err != nil {
				if errors.Is(err, errs.InvalidArgument) {
					return nil, errors.Wrap(err, "invalid Postgres configuration for ledger")
				}
				return nil, errors.Wrap(err, "can't create Postgres connection pool")
			}
			logger.InfoContext(ctx, "Connected to Postgres ledger")
			return closableStore{Store: ledgerpostgres.NewStore(pg), cleanup: pg.Close}, nil
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q ledger backend has no local store", conf.Ledger.Backend)
		}
	})

	// Initialize execution environment
	do.Provide(injector, func(i do.Injector) (chain.Environment, error) {
		conf := do.MustInvoke[config.Config](i)

		if strings.ToLower(conf.Ledger.Backend) == config.LedgerBackendSolana {
			endpoint := conf.Ledger.RPCEndpoint
			if endpoint == "" {
				endpoint = conf.Network.RPCEndpoint()
			}
			logger.InfoContext(ctx, "Using Solana cluster", slogx.Stringer("network", conf.Network), slogx.String("endpoint", endpoint))
			return solana.New(solana.NewRPCClient(endpoint)), nil
		}

		store, err := do.Invoke[ledger.Store](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return local.New(store, conf.Ledger.Rent), nil
	})

	// Initialize payer keypair
	do.ProvideNamed(injector, minter.PayerService, func(i do.Injector) (types.Account, error) {
		conf := do.MustInvoke[config.Config](i)
		if conf.Payer.IsConfigured() {
			payer, err := keysource.Load(ctx, conf.Payer)
			if err != nil {
				return types.Account{}, errors.Wrap(err, "can't load payer keypair")
			}
			return payer, nil
		}

		env, err := do.Invoke[chain.Environment](i)
		if err != nil {
			return types.Account{}, errors.WithStack(err)
		}
		faucet, ok := env.(*local.Environment)
		if !ok {
			return types.Account{}, errors.Wrap(errs.InvalidArgument, "payer key source is required")
		}

		payer := types.NewAccount()
		if _, err := faucet.Airdrop(ctx, payer.PublicKey, localPayerAirdrop); err != nil {
			return types.Account{}, errors.Wrap(err, "can't fund ephemeral payer")
		}
		logger.WarnContext(ctx, "Payer is not configured, using a funded ephemeral payer",
			slogx.PublicKey("payer", payer.PublicKey),
			slogx.Stringer("balance_sol", decimals.LamportsToSOL(localPayerAirdrop)),
		)
		return payer, nil
	})

	return injector
}

// localEnvironment returns the local environment, or errs.Unsupported on remote ledgers.
func localEnvironment(injector do.Injector) (*local.Environment, error) {
	env, err := do.Invoke[chain.Environment](injector)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	faucet, ok := env.(*local.Environment)
	if !ok {
		return nil, errors.Wrapf(errs.Unsupported, "only available on local ledgers, current environment is %s", env.Name())
	}
	return faucet, nil
}
