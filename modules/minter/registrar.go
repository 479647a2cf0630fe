package minter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/pkg/logger"
)

// creatorShare is the share of the single creator attestation.
const creatorShare = chain.TotalCreatorShares

// MintParams are the descriptive fields of a new asset.
type MintParams struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

func (p MintParams) data(sellerFeeBasisPoints uint16, creator chain.Creator) chain.DataV2 {
	return chain.DataV2{
		Name:                 p.Name,
		Symbol:               p.Symbol,
		URI:                  p.URI,
		SellerFeeBasisPoints: sellerFeeBasisPoints,
		Creators:             []chain.Creator{creator},
	}
}

// Validate checks the fields against the registry limits, so an oversized field fails
// before anything is staged.
func (p MintParams) Validate() error {
	return errors.WithStack(chain.DataV2{Name: p.Name, Symbol: p.Symbol, URI: p.URI}.ValidateFieldLengths())
}

// registerMetadata registers the descriptive metadata under the authority's signature. The
// authority is the mint authority, the update authority and the only verified creator. The
// allocation is funded by accounts.Payer, which is the authority itself unless a separate
// funding wallet co-signs.
func (m *Minter) registerMetadata(ctx context.Context, uow chain.UnitOfWork, accounts Accounts, params MintParams) (*chain.MetadataRecord, error) {
	request := chain.CreateMetadataRequest{
		Version:                 chain.RequestVersionV3,
		Metadata:                accounts.Metadata,
		Mint:                    accounts.Identity,
		MintAuthority:           accounts.Authority,
		Payer:                   accounts.Payer,
		UpdateAuthority:         accounts.Authority,
		UpdateAuthorityIsSigner: true,
		IsMutable:               true,
		Data: params.data(m.sellerFeeBasisPoints, chain.Creator{
			Address:  accounts.Authority,
			Verified: true,
			Share:    creatorShare,
		}),
	}
	record, err := uow.CreateMetadata(ctx, request, m.authority.SignerSeeds())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.DebugContext(ctx, "registered metadata")
	return record, nil
}
