package minter

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/core/programs/token"
	"github.com/samber/lo"
)

// Accounts are the addresses a mint touches. Zero addresses, except Identity and Payer,
// are filled in; provided ones are checked against their derivation. Program overrides
// are pointers because the system program is the zero address.
type Accounts struct {
	// Identity is the new asset identity. Its keypair must co-sign.
	Identity common.PublicKey
	// Holding is the associated holding of Authority for Identity.
	Holding common.PublicKey
	// Payer funds every allocation. Its keypair must co-sign.
	Payer     common.PublicKey
	Authority common.PublicKey
	// Metadata is the registry address derived from Identity.
	Metadata common.PublicKey

	TokenProgram  *common.PublicKey
	SystemProgram *common.PublicKey
	Rent          *common.PublicKey
}

// resolve fills derived addresses and rejects anything that does not match authority.
func (a Accounts) resolve(authority Authority) (Accounts, error) {
	if common.IsZero(a.Identity) {
		return a, errors.Wrap(errs.InvalidArgument, "asset identity address is required")
	}
	if common.IsZero(a.Payer) {
		return a, errors.Wrap(errs.InvalidArgument, "payer address is required")
	}

	if common.IsZero(a.Authority) {
		a.Authority = authority.Key
	}
	if a.Authority != authority.Key {
		return a, errors.Wrapf(errs.AuthorityMismatch, "authority %s is not the configured authority %s", a.Authority.ToBase58(), authority.Key.ToBase58())
	}
	if a.Identity == a.Payer || a.Identity == a.Authority {
		return a, errors.Wrap(errs.InvalidArgument, "asset identity must be a fresh address")
	}

	for _, program := range []struct {
		name     string
		address  **common.PublicKey
		expected common.PublicKey
	}{
		{"token program", &a.TokenProgram, common.TokenProgramID},
		{"system program", &a.SystemProgram, common.SystemProgramID},
		{"rent sysvar", &a.Rent, common.SysVarRentPubkey},
	} {
		if *program.address == nil {
			*program.address = lo.ToPtr(program.expected)
		}
		if got := **program.address; got != program.expected {
			return a, errors.Wrapf(errs.InvalidArgument, "%s must be %s, got %s", program.name, program.expected.ToBase58(), got.ToBase58())
		}
	}

	holding, _, err := token.AssociatedHoldingAddress(a.Authority, a.Identity)
	if err != nil {
		return a, errors.WithStack(err)
	}
	if common.IsZero(a.Holding) {
		a.Holding = holding
	}
	if a.Holding != holding {
		return a, errors.Wrapf(errs.InvalidArgument, "holding %s is not the associated holding %s", a.Holding.ToBase58(), holding.ToBase58())
	}

	metadata, err := chain.MetadataAddress(a.Identity)
	if err != nil {
		return a, errors.WithStack(err)
	}
	if common.IsZero(a.Metadata) {
		a.Metadata = metadata
	}
	if a.Metadata != metadata {
		return a, errors.Wrapf(errs.InvalidArgument, "metadata %s is not derived from identity %s", a.Metadata.ToBase58(), a.Identity.ToBase58())
	}
	return a, nil
}
