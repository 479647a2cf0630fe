package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/internal/config"
	"github.com/gaze-network/nft-minter/pkg/decimals"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

type airdropCmdOptions struct {
	SOL string
}

func NewAirdropCommand() *cobra.Command {
	opts := &airdropCmdOptions{}

	cmd := &cobra.Command{
		Use:     "airdrop <address>",
		Short:   "Fund an address on a local ledger",
		Args:    cobra.ExactArgs(1),
		Example: `minter airdrop --ledger postgres --sol 2.5 <address>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return airdropHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.SOL, "sol", "1", "Amount of SOL to airdrop")

	return cmd
}

func airdropHandler(opts *airdropCmdOptions, cmd *cobra.Command, args []string) error {
	address, err := common.ParsePublicKey(args[0])
	if err != nil {
		return errors.Wrap(err, "invalid address")
	}
	lamports, err := decimals.SOLToLamports(opts.SOL)
	if err != nil {
		return errors.WithStack(err)
	}

	ctx := cmd.Context()
	injector := newInjector(ctx, config.Load())
	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.WarnContext(ctx, "Failed while shutting down", slogx.Error(err))
		}
	}()

	env, err := localEnvironment(injector)
	if err != nil {
		return errors.Wrap(err, "can't airdrop")
	}
	receipt, err := env.Airdrop(ctx, address, lamports)
	if err != nil {
		return errors.Wrap(err, "can't airdrop")
	}
	balance, err := env.Balance(ctx, address)
	if err != nil {
		return errors.Wrap(err, "can't get balance")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Airdropped %s SOL to %s, balance %s SOL (%s)\n",
		decimals.LamportsToSOL(lamports), address.ToBase58(), decimals.LamportsToSOL(balance), receipt.Signature)
	return nil
}
