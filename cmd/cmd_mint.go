package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/internal/config"
	"github.com/gaze-network/nft-minter/modules/minter"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

type mintCmdOptions struct {
	Name   string
	Symbol string
	URI    string
}

func NewMintCommand() *cobra.Command {
	opts := &mintCmdOptions{}

	cmd := &cobra.Command{
		Use:     "mint",
		Short:   "Mint one unit of a new asset and register its metadata",
		Example: `minter mint --name "Relic #1" --symbol RLC --uri https://example.test/1.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mintHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Name, "name", "", "Asset name, at most 32 bytes")
	flags.StringVar(&opts.Symbol, "symbol", "", "Asset symbol, at most 10 bytes")
	flags.StringVar(&opts.URI, "uri", "", "Off-chain metadata uri, at most 200 bytes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func mintHandler(opts *mintCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	injector := newInjector(ctx, config.Load())
	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.WarnContext(ctx, "Failed while shutting down", slogx.Error(err))
		}
	}()

	m, err := do.Invoke[*minter.Minter](injector)
	if err != nil {
		return errors.Wrap(err, "can't init minter")
	}
	result, err := m.Mint(ctx, minter.MintParams{
		Name:   opts.Name,
		Symbol: opts.Symbol,
		URI:    opts.URI,
	})
	if err != nil {
		return errors.Wrap(err, "can't mint asset")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Identity:  %s\n", result.Identity.Address.ToBase58())
	fmt.Fprintf(out, "Holding:   %s (balance %d)\n", result.Holding.Address.ToBase58(), result.Holding.Balance)
	fmt.Fprintf(out, "Metadata:  %s\n", result.Metadata.Address.ToBase58())
	fmt.Fprintf(out, "Signature: %s (%s, %s)\n", result.Receipt.Signature, result.Receipt.Environment, result.Receipt.Status)
	return nil
}
