package common

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/mr-tron/base58"
)

// PublicKey is an ed25519 public key or a program-derived address.
type PublicKey = common.PublicKey

// Well-known program and sysvar addresses.
var (
	SystemProgramID          = common.SystemProgramID
	TokenProgramID           = common.TokenProgramID
	AssociatedTokenProgramID = common.SPLAssociatedTokenAccountProgramID
	TokenMetadataProgramID   = common.MetaplexTokenMetaProgramID
	SysVarRentPubkey         = common.SysVarRentPubkey
)

// ZeroPublicKey is the all-zero address, used as "not provided".
var ZeroPublicKey PublicKey

// ParsePublicKey decodes a base58 address. Unlike common.PublicKeyFromString it rejects
// malformed input instead of truncating it.
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return ZeroPublicKey, errors.Wrapf(errs.InvalidArgument, "invalid base58 address %q", s)
	}
	if len(b) != common.PublicKeyLength {
		return ZeroPublicKey, errors.Wrapf(errs.InvalidArgument, "invalid address length %d, expected %d", len(b), common.PublicKeyLength)
	}
	return common.PublicKeyFromBytes(b), nil
}

// IsZero reports whether key is the all-zero address.
func IsZero(key PublicKey) bool {
	return key == ZeroPublicKey
}

// PublicKeyFromBytes returns the key in b, which is zero padded or truncated to 32 bytes.
func PublicKeyFromBytes(b []byte) PublicKey {
	return common.PublicKeyFromBytes(b)
}
