// Package keysource loads ed25519 keypairs from a solana-keygen JSON file, a base58 string or
// GCP Secret Manager.
package keysource

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/mr-tron/base58"
)

const (
	SourceFile          = "file"
	SourceBase58        = "base58"
	SourceSecretManager = "secretmanager"
)

type Config struct {
	// Source is `file`, `base58` or `secretmanager`. Empty means not configured.
	Source string `mapstructure:"source"`

	// Path of a solana-keygen keypair file.
	Path string `mapstructure:"path"`

	// Base58 encoded 64-byte secret key.
	Base58 string `mapstructure:"base58"`

	// Secret is the full secret version name,
	// E.g. `projects/<project>/secrets/<secret>/versions/latest`.
	Secret string `mapstructure:"secret"`
}

func (c Config) IsConfigured() bool {
	return c.Source != ""
}

// Load returns the keypair described by conf.
func Load(ctx context.Context, conf Config) (types.Account, error) {
	var (
		account types.Account
		err     error
	)
	switch strings.ToLower(conf.Source) {
	case SourceFile:
		account, err = loadFile(conf.Path)
	case SourceBase58:
		account, err = FromBase58(conf.Base58)
	case SourceSecretManager:
		account, err = loadSecret(ctx, conf.Secret)
	case "":
		return types.Account{}, errors.Wrap(errs.InvalidArgument, "key source is not configured")
	default:
		return types.Account{}, errors.Wrapf(errs.Unsupported, "%q key source is not supported", conf.Source)
	}
	if err != nil {
		return types.Account{}, errors.WithStack(err)
	}

	logger.DebugContext(ctx, "loaded keypair",
		slogx.String("source", conf.Source),
		slogx.PublicKey("public_key", account.PublicKey),
	)
	return account, nil
}

func loadFile(path string) (types.Account, error) {
	if path == "" {
		return types.Account{}, errors.Wrap(errs.InvalidArgument, "keypair path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, errors.Wrapf(err, "can't read keypair file %q", path)
	}
	account, err := FromJSON(data)
	if err != nil {
		return types.Account{}, errors.Wrapf(err, "invalid keypair file %q", path)
	}
	return account, nil
}

func loadSecret(ctx context.Context, name string) (types.Account, error) {
	if name == "" {
		return types.Account{}, errors.Wrap(errs.InvalidArgument, "secret version name is required")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return types.Account{}, errors.Wrapf(errs.ExternalServiceFailure, "can't create secret manager client: %v", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return types.Account{}, errors.Wrapf(errs.ExternalServiceFailure, "can't access secret version %q: %v", name, err)
	}
	account, err := FromJSON(resp.GetPayload().GetData())
	if err != nil {
		return types.Account{}, errors.Wrapf(err, "invalid keypair in secret %q", name)
	}
	return account, nil
}

// FromJSON decodes a solana-keygen keypair, a JSON array of 64 integers.
func FromJSON(data []byte) (types.Account, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return types.Account{}, errors.Wrapf(errs.InvalidArgument, "keypair is not a json array: %v", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return types.Account{}, errors.Wrapf(errs.InvalidArgument, "unexpected keypair length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}
	key := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, errors.Wrapf(errs.InvalidArgument, "keypair byte %d out of range: %d", i, v)
		}
		key[i] = byte(v)
	}
	return fromBytes(key)
}

// ToJSON encodes account the way solana-keygen does.
func ToJSON(account types.Account) ([]byte, error) {
	ints := make([]int, len(account.PrivateKey))
	for i, b := range account.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	return data, errors.WithStack(err)
}

func FromBase58(s string) (types.Account, error) {
	key, err := base58.Decode(s)
	if err != nil {
		return types.Account{}, errors.Wrapf(errs.InvalidArgument, "invalid base58 key: %v", err)
	}
	return fromBytes(key)
}

// fromBytes rejects keypairs whose public half does not match the seed.
func fromBytes(key []byte) (types.Account, error) {
	account, err := types.AccountFromBytes(key)
	if err != nil {
		return types.Account{}, errors.Wrapf(errs.InvalidArgument, "invalid keypair: %v", err)
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize]).Public().(ed25519.PublicKey)
	if !derived.Equal(ed25519.PublicKey(key[ed25519.SeedSize:])) {
		return types.Account{}, errors.Wrap(errs.InvalidArgument, "keypair public key does not match its secret")
	}
	return account, nil
}
