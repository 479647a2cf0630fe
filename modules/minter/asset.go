package minter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/core/programs/token"
	"golang.org/x/sync/errgroup"
)

// Asset is the committed state of a minted asset.
type Asset struct {
	Identity chain.AssetIdentity
	Holding  chain.Holding
	Metadata chain.MetadataRecord
}

// GetAsset reads the identity, the authority's holding and the metadata of a minted asset.
func (m *Minter) GetAsset(ctx context.Context, identity common.PublicKey) (*Asset, error) {
	holdingAddress, _, err := token.AssociatedHoldingAddress(m.authority.Key, identity)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	metadataAddress, err := chain.MetadataAddress(identity)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var asset Asset
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result, err := m.env.GetAssetIdentity(ctx, identity)
		if err != nil {
			return errors.Wrap(err, "can't get asset identity")
		}
		asset.Identity = *result
		return nil
	})
	group.Go(func() error {
		result, err := m.env.GetHolding(ctx, holdingAddress)
		if err != nil {
			return errors.Wrap(err, "can't get holding")
		}
		asset.Holding = *result
		return nil
	})
	group.Go(func() error {
		result, err := m.env.GetMetadata(ctx, metadataAddress)
		if err != nil {
			return errors.Wrap(err, "can't get metadata")
		}
		asset.Metadata = *result
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &asset, nil
}
