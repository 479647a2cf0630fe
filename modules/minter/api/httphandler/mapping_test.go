package httphandler

import (
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestMapAsset(t *testing.T) {
	mint, owner, holdingAddress, metadataAddress := types.NewAccount().PublicKey, types.NewAccount().PublicKey, types.NewAccount().PublicKey, types.NewAccount().PublicKey

	got := mapAsset(
		chain.AssetIdentity{Address: mint, Authority: &owner, Supply: 1, MaxSupply: lo.ToPtr[uint64](1)},
		chain.Holding{Address: holdingAddress, Mint: mint, Owner: owner, Balance: 1},
		chain.MetadataRecord{
			Address:         metadataAddress,
			Mint:            mint,
			UpdateAuthority: owner,
			Data: chain.DataV2{
				Name:                 "Relic #1",
				Symbol:               "RLC",
				URI:                  "https://example.test/1.json",
				SellerFeeBasisPoints: 1,
				Creators:             []chain.Creator{{Address: owner, Verified: true, Share: 100}},
			},
			IsMutable: true,
		},
	)

	assert.Equal(t, asset{
		Identity:  mint.ToBase58(),
		Authority: lo.ToPtr(owner.ToBase58()),
		Supply:    1,
		MaxSupply: lo.ToPtr[uint64](1),
		Holding: holding{
			Address: holdingAddress.ToBase58(),
			Owner:   owner.ToBase58(),
			Balance: 1,
		},
		Metadata: metadata{
			Address:              metadataAddress.ToBase58(),
			Name:                 "Relic #1",
			Symbol:               "RLC",
			URI:                  "https://example.test/1.json",
			SellerFeeBasisPoints: 1,
			UpdateAuthority:      owner.ToBase58(),
			Creators:             []creator{{Address: owner.ToBase58(), Verified: true, Share: 100}},
			IsMutable:            true,
		},
	}, got)

	fixed := mapAsset(chain.AssetIdentity{Address: mint}, chain.Holding{}, chain.MetadataRecord{})
	assert.Nil(t, fixed.Authority)
	assert.Empty(t, fixed.Metadata.Creators)
}
