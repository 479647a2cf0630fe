// Package minter mints a single indivisible unit of a new asset into the authority's holding
// and registers its metadata, all inside one unit of work.
package minter

import (
	"context"
	"slices"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
)

// DefaultSellerFeeBasisPoints is recorded on every metadata registration unless configured.
const DefaultSellerFeeBasisPoints = 1

type Minter struct {
	env       chain.Environment
	authority Authority

	// payer funds allocations and fees of units of work started by Mint.
	payer types.Account

	// authoritySigner co-signs in wallet mode. Nil when the payer is the authority
	// or the authority is program-derived.
	authoritySigner *types.Account

	sellerFeeBasisPoints uint16
	uriVerifier          URIVerifier
}

type Options struct {
	Authority            Authority
	Payer                types.Account
	AuthoritySigner      *types.Account
	// SellerFeeBasisPoints defaults to DefaultSellerFeeBasisPoints when nil. Zero is kept.
	SellerFeeBasisPoints *uint16

	// URIVerifier checks the off-chain metadata before anything is staged. Optional.
	URIVerifier URIVerifier
}

func NewMinter(env chain.Environment, opts Options) *Minter {
	sellerFee := uint16(DefaultSellerFeeBasisPoints)
	if opts.SellerFeeBasisPoints != nil {
		sellerFee = *opts.SellerFeeBasisPoints
	}
	return &Minter{
		env:                  env,
		authority:            opts.Authority,
		payer:                opts.Payer,
		authoritySigner:      opts.AuthoritySigner,
		sellerFeeBasisPoints: sellerFee,
		uriVerifier:          opts.URIVerifier,
	}
}

func (m *Minter) Authority() Authority {
	return m.authority
}

func (m *Minter) Environment() chain.Environment {
	return m.env
}

// Result is the state observable after a committed mint.
type Result struct {
	Identity chain.AssetIdentity
	Holding  chain.Holding
	Metadata chain.MetadataRecord
	Receipt  chain.Receipt
}

// Mint creates a fresh asset identity and mints it with the configured payer and authority.
func (m *Minter) Mint(ctx context.Context, params MintParams) (*Result, error) {
	identity := types.NewAccount()
	signers := []types.Account{m.payer, identity}
	if m.authoritySigner != nil {
		signers = append(signers, *m.authoritySigner)
	}
	result, err := m.MintAsset(ctx, params, Accounts{
		Identity: identity.PublicKey,
		Payer:    m.payer.PublicKey,
	}, signers...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return result, nil
}

// MintAsset initializes the identity, issues one unit and registers the metadata in a single
// unit of work. Nothing is observable unless every step succeeds. signers must hold the payer and
// the identity keypairs, plus the authority in wallet mode.
func (m *Minter) MintAsset(ctx context.Context, params MintParams, accounts Accounts, signers ...types.Account) (_ *Result, err error) {
	start := time.Now()
	if err := params.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	accounts, err = accounts.resolve(m.authority)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	signers, err = m.orderSigners(accounts, signers)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ctx = logger.WithContext(ctx,
		slogx.String("environment", m.env.Name()),
		slogx.PublicKey("identity", accounts.Identity),
		slogx.PublicKey("authority", accounts.Authority),
		slogx.String("authority_mode", m.authority.Mode()),
	)

	if m.uriVerifier != nil {
		if err := m.uriVerifier.Verify(ctx, params); err != nil {
			return nil, errors.Wrap(err, "can't verify metadata uri")
		}
	}

	uow, err := m.env.Begin(ctx, signers...)
	if err != nil {
		return nil, errors.Wrap(err, "can't begin unit of work")
	}
	defer func() {
		if err := uow.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback unit of work", slogx.Error(err))
		}
	}()

	if _, err := m.initializeIdentity(ctx, uow, accounts); err != nil {
		return nil, errors.Wrap(err, "can't initialize asset identity")
	}
	issued, err := m.issueSupply(ctx, uow, accounts)
	if err != nil {
		return nil, errors.Wrap(err, "can't issue supply")
	}
	metadata, err := m.registerMetadata(ctx, uow, accounts, params)
	if err != nil {
		return nil, errors.Wrap(err, "can't register metadata")
	}

	receipt, err := uow.Commit(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't commit unit of work")
	}

	logger.InfoContext(ctx, "Minted asset",
		slogx.String("name", params.Name),
		slogx.String("symbol", params.Symbol),
		slogx.String("signature", receipt.Signature),
		slogx.Duration("duration", time.Since(start)),
	)
	return &Result{
		Identity: issued.Identity,
		Holding:  issued.Holding,
		Metadata: *metadata,
		Receipt:  *receipt,
	}, nil
}

// orderSigners puts the payer first and checks every required signer is present.
func (m *Minter) orderSigners(accounts Accounts, signers []types.Account) ([]types.Account, error) {
	index := func(key common.PublicKey) int {
		return slices.IndexFunc(signers, func(s types.Account) bool { return s.PublicKey == key })
	}

	payer := index(accounts.Payer)
	if payer < 0 {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "payer %s did not sign", accounts.Payer.ToBase58())
	}
	if index(accounts.Identity) < 0 {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "asset identity %s did not sign", accounts.Identity.ToBase58())
	}
	if !m.authority.IsProgramDerived() && index(accounts.Authority) < 0 {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "authority %s did not sign", accounts.Authority.ToBase58())
	}

	ordered := make([]types.Account, 0, len(signers))
	ordered = append(ordered, signers[payer])
	for i, signer := range signers {
		if i == payer || slices.ContainsFunc(ordered, func(s types.Account) bool { return s.PublicKey == signer.PublicKey }) {
			continue
		}
		ordered = append(ordered, signer)
	}
	return ordered, nil
}
