package cmd

import (
	"context"
	"log/slog"

	"github.com/gaze-network/nft-minter/internal/config"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:  "minter",
	Long: `Mint single-unit assets and register their metadata in one atomic unit of work`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("network", "devnet", "Solana cluster, E.g. `mainnet-beta`, `devnet`, `testnet` or `localnet`")
	flags.String("ledger", "badger", "Ledger backend, E.g. `badger`, `postgres` or `solana`")

	// Bind flags to configuration
	config.BindPFlag("network", flags.Lookup("network"))
	config.BindPFlag("ledger.backend", flags.Lookup("ledger"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands
	cmd.AddCommand(
		NewVersionCommand(),
		NewRunCommand(),
		NewMintCommand(),
		NewAssetCommand(),
		NewAirdropCommand(),
		NewGenerateKeypairCommand(),
		NewMigrateCommand(),
	)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Panic("Failed to execute root command", slogx.Error(err))
	}
}
