package minter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/samber/lo"
)

const (
	// Decimals of every minted asset, units are indivisible.
	Decimals = 0

	// MaxSupply of every minted asset.
	MaxSupply = 1
)

// initializeIdentity creates the asset identity with zero supply under the authority.
func (m *Minter) initializeIdentity(ctx context.Context, uow chain.UnitOfWork, accounts Accounts) (*chain.AssetIdentity, error) {
	identity, err := uow.InitializeIdentity(ctx, chain.InitializeIdentityParams{
		Identity:  accounts.Identity,
		Payer:     accounts.Payer,
		Authority: accounts.Authority,
		Decimals:  Decimals,
		MaxSupply: lo.ToPtr[uint64](MaxSupply),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.DebugContext(ctx, "initialized asset identity")
	return identity, nil
}
