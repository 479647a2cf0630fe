package minter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
)

// issueSupply credits the single unit to the authority's holding. A second issuance is
// rejected by the token-accounting service.
func (m *Minter) issueSupply(ctx context.Context, uow chain.UnitOfWork, accounts Accounts) (*chain.IssueResult, error) {
	issued, err := uow.Issue(ctx, chain.IssueParams{
		Identity:       accounts.Identity,
		Holding:        accounts.Holding,
		Payer:          accounts.Payer,
		Authority:      accounts.Authority,
		AuthoritySeeds: m.authority.SignerSeeds(),
		Amount:         1,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.DebugContext(ctx, "issued supply",
		slogx.Uint64("supply", issued.Identity.Supply),
		slogx.Uint64("balance", issued.Holding.Balance),
	)
	return issued, nil
}
