package config

import (
	"time"

	"github.com/gaze-network/nft-minter/internal/keysource"
)

type Config struct {
	// ProgramID is the address of the deployed minter program. Program-derived
	// authorities are derived from it.
	ProgramID            string          `mapstructure:"program_id"`
	Authority            AuthorityConfig `mapstructure:"authority"`
	SellerFeeBasisPoints *uint16         `mapstructure:"seller_fee_basis_points"` // unset means 1
	VerifyURI            bool            `mapstructure:"verify_uri"`
	VerifyURITimeout     time.Duration   `mapstructure:"verify_uri_timeout"`
}

type AuthorityConfig struct {
	// Mode is `wallet` (default) or `program`.
	Mode string `mapstructure:"mode"`

	// Seeds derive the program authority, bump excluded.
	Seeds []string `mapstructure:"seeds"`

	// Key is the wallet authority. When empty the payer is the authority.
	Key keysource.Config `mapstructure:"key"`
}
