package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/internal/config"
	"github.com/gaze-network/nft-minter/modules/minter"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func NewAssetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "asset <identity>",
		Short: "Show the identity, holding and metadata of a minted asset",
		Args:  cobra.ExactArgs(1),
		RunE:  assetHandler,
	}
}

func assetHandler(cmd *cobra.Command, args []string) error {
	identity, err := common.ParsePublicKey(args[0])
	if err != nil {
		return errors.Wrap(err, "invalid asset identity")
	}

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
	asset, err := m.GetAsset(ctx, identity)
	if err != nil {
		return errors.Wrap(err, "can't get asset")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Identity: %s (decimals %d, supply %d)\n", asset.Identity.Address.ToBase58(), asset.Identity.Decimals, asset.Identity.Supply)
	fmt.Fprintf(out, "Holding:  %s (owner %s, balance %d)\n", asset.Holding.Address.ToBase58(), asset.Holding.Owner.ToBase58(), asset.Holding.Balance)
	fmt.Fprintf(out, "Metadata: %s\n", asset.Metadata.Address.ToBase58())
	fmt.Fprintf(out, "  name=%q symbol=%q uri=%q\n", asset.Metadata.Data.Name, asset.Metadata.Data.Symbol, asset.Metadata.Data.URI)
	for _, creator := range asset.Metadata.Data.Creators {
		fmt.Fprintf(out, "  creator %s verified=%t share=%d\n", creator.Address.ToBase58(), creator.Verified, creator.Share)
	}
	return nil
}
