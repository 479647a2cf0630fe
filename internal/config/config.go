package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/ledger/badger"
	"github.com/gaze-network/nft-minter/internal/keysource"
	"github.com/gaze-network/nft-minter/internal/postgres"
	minterconfig "github.com/gaze-network/nft-minter/modules/minter/config"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/gaze-network/nft-minter/pkg/middleware/requestcontext"
	"github.com/gaze-network/nft-minter/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	LedgerBackendBadger   = "badger"
	LedgerBackendPostgres = "postgres"
	LedgerBackendSolana   = "solana"
)

var (
	isInit bool
	mu     sync.Mutex
	config = &Config{
		Logger: logger.Config{
			Output: logger.OutputText,
		},
		Network: common.NetworkDevnet,
		HTTPServer: HTTPServerConfig{
			Port: 8080,
		},
		Ledger: LedgerConfig{
			Backend: LedgerBackendBadger,
			Badger: badger.Config{
				InMemory: true,
			},
			Rent: ledger.DefaultRent,
		},
	}
)

type Config struct {
	Logger     logger.Config       `mapstructure:"logger"`
	Network    common.Network      `mapstructure:"network"`
	HTTPServer HTTPServerConfig    `mapstructure:"http_server"`
	Ledger     LedgerConfig        `mapstructure:"ledger"`
	Minter     minterconfig.Config `mapstructure:"minter"`

	// Payer funds allocations and fees.
	Payer keysource.Config `mapstructure:"payer"`
}

type HTTPServerConfig struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

type LedgerConfig struct {
	// Backend is `badger` (default), `postgres` or `solana`.
	Backend  string          `mapstructure:"backend"`
	Badger   badger.Config   `mapstructure:"badger"`
	Postgres postgres.Config `mapstructure:"postgres"`

	// RPCEndpoint overrides the public endpoint of the network for the `solana` backend.
	RPCEndpoint string `mapstructure:"rpc_endpoint"`

	// Rent of the local ledger backends.
	Rent ledger.Rent `mapstructure:"rent"`
}

// Parse parse the configuration from environment variables
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

// Load returns the loaded configuration
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *config
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	Viper.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}
