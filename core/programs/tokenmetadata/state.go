package tokenmetadata

import (
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/samber/lo"
)

// MetadataAccountSize is the space allocated for every metadata record.
const MetadataAccountSize = 679

// Key tags the kind of a registry account.
type Key uint8

const (
	KeyUninitialized Key = 0
	KeyMetadataV1    Key = 4
)

type creator struct {
	Address  common.PublicKey
	Verified bool
	Share    uint8
}

type collection struct {
	Verified bool
	Key      common.PublicKey
}

type uses struct {
	UseMethod uint8
	Remaining uint64
	Total     uint64
}

type collectionDetails struct {
	Size uint64
}

type data struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             *[]creator
}

// metadata is the stored layout of a metadata record.
type metadata struct {
	Key                 Key
	UpdateAuthority     common.PublicKey
	Mint                common.PublicKey
	Data                data
	PrimarySaleHappened bool
	IsMutable           bool
	Collection          *collection
	Uses                *uses
	CollectionDetails   *collectionDetails
}

func newMetadata(request chain.CreateMetadataRequest) *metadata {
	m := &metadata{
		Key:             KeyMetadataV1,
		UpdateAuthority: request.UpdateAuthority,
		Mint:            request.Mint,
		Data: data{
			Name:                 request.Data.Name,
			Symbol:               request.Data.Symbol,
			URI:                  request.Data.URI,
			SellerFeeBasisPoints: request.Data.SellerFeeBasisPoints,
		},
		IsMutable: request.IsMutable,
	}
	if request.Data.Creators != nil {
		creators := lo.Map(request.Data.Creators, func(c chain.Creator, _ int) creator {
			return creator{Address: c.Address, Verified: c.Verified, Share: c.Share}
		})
		m.Data.Creators = &creators
	}
	if c := request.Data.Collection; c != nil {
		// collections are verified by the collection authority later, never at creation
		m.Collection = &collection{Verified: false, Key: c.Key}
	}
	if u := request.Data.Uses; u != nil {
		m.Uses = &uses{UseMethod: uint8(u.UseMethod), Remaining: u.Remaining, Total: u.Total}
	}
	if d := request.CollectionDetails; d != nil {
		m.CollectionDetails = &collectionDetails{Size: d.Size}
	}
	return m
}

func (m *metadata) record(address common.PublicKey) *chain.MetadataRecord {
	r := &chain.MetadataRecord{
		Address:         address,
		Mint:            m.Mint,
		UpdateAuthority: m.UpdateAuthority,
		Data: chain.DataV2{
			Name:                 m.Data.Name,
			Symbol:               m.Data.Symbol,
			URI:                  m.Data.URI,
			SellerFeeBasisPoints: m.Data.SellerFeeBasisPoints,
		},
		PrimarySaleHappened: m.PrimarySaleHappened,
		IsMutable:           m.IsMutable,
	}
	if m.Data.Creators != nil {
		r.Data.Creators = lo.Map(*m.Data.Creators, func(c creator, _ int) chain.Creator {
			return chain.Creator{Address: c.Address, Verified: c.Verified, Share: c.Share}
		})
	}
	if c := m.Collection; c != nil {
		r.Data.Collection = &chain.Collection{Verified: c.Verified, Key: c.Key}
	}
	if u := m.Uses; u != nil {
		r.Data.Uses = &chain.Uses{UseMethod: chain.UseMethod(u.UseMethod), Remaining: u.Remaining, Total: u.Total}
	}
	if d := m.CollectionDetails; d != nil {
		r.CollectionDetails = &chain.CollectionDetails{Size: d.Size}
	}
	return r
}
