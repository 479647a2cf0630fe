package httphandler

import (
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/samber/lo"
)

func mapAsset(identity chain.AssetIdentity, held chain.Holding, record chain.MetadataRecord) asset {
	var authority *string
	if identity.Authority != nil {
		authority = lo.ToPtr(identity.Authority.ToBase58())
	}
	return asset{
		Identity:  identity.Address.ToBase58(),
		Authority: authority,
		Decimals:  identity.Decimals,
		Supply:    identity.Supply,
		MaxSupply: identity.MaxSupply,
		Holding: holding{
			Address: held.Address.ToBase58(),
			Owner:   held.Owner.ToBase58(),
			Balance: held.Balance,
		},
		Metadata: metadata{
			Address:              record.Address.ToBase58(),
			Name:                 record.Data.Name,
			Symbol:               record.Data.Symbol,
			URI:                  record.Data.URI,
			SellerFeeBasisPoints: record.Data.SellerFeeBasisPoints,
			UpdateAuthority:      record.UpdateAuthority.ToBase58(),
			Creators: lo.Map(record.Data.Creators, func(c chain.Creator, _ int) creator {
				return creator{
					Address:  c.Address.ToBase58(),
					Verified: c.Verified,
					Share:    c.Share,
				}
			}),
			IsMutable:           record.IsMutable,
			PrimarySaleHappened: record.PrimarySaleHappened,
		},
	}
}
