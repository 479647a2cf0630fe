// Package solana compiles a unit of work into a single Solana transaction. The cluster
// executes the transaction atomically, so nothing is observable unless every instruction succeeds.
package solana

import (
	"context"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/samber/lo"
)

const Name = "solana"

var _ chain.Environment = (*Environment)(nil)

type Environment struct {
	rpc RPCClient
}

func New(rpc RPCClient) *Environment {
	return &Environment{rpc: rpc}
}

func (e *Environment) Name() string {
	return Name
}

func (e *Environment) Begin(_ context.Context, signers ...types.Account) (chain.UnitOfWork, error) {
	if len(signers) == 0 {
		return nil, errors.Wrap(errs.UnauthorizedSignature, "at least one signer is required to pay fees")
	}
	return &unitOfWork{
		env:        e,
		signers:    signers,
		identities: make(map[common.PublicKey]*chain.AssetIdentity),
		holdings:   make(map[common.PublicKey]*chain.Holding),
	}, nil
}

func (e *Environment) GetAssetIdentity(ctx context.Context, address common.PublicKey) (*chain.AssetIdentity, error) {
	account, err := e.getOwnedAccount(ctx, address, common.TokenProgramID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	mint, err := token.MintAccountFromData(account.Data)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is not a mint: %v", address.ToBase58(), err)
	}
	return &chain.AssetIdentity{
		Address:   address,
		Authority: mint.MintAuthority,
		Decimals:  mint.Decimals,
		Supply:    mint.Supply,
	}, nil
}

func (e *Environment) GetHolding(ctx context.Context, address common.PublicKey) (*chain.Holding, error) {
	account, err := e.getOwnedAccount(ctx, address, common.TokenProgramID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	holding, err := token.TokenAccountFromData(account.Data)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is not a token account: %v", address.ToBase58(), err)
	}
	return &chain.Holding{
		Address: address,
		Mint:    holding.Mint,
		Owner:   holding.Owner,
		Balance: holding.Amount,
	}, nil
}

func (e *Environment) GetMetadata(ctx context.Context, address common.PublicKey) (*chain.MetadataRecord, error) {
	account, err := e.getOwnedAccount(ctx, address, common.TokenMetadataProgramID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	metadata, err := token_metadata.MetadataDeserialize(account.Data)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is not a metadata record: %v", address.ToBase58(), err)
	}

	record := &chain.MetadataRecord{
		Address:         address,
		Mint:            metadata.Mint,
		UpdateAuthority: metadata.UpdateAuthority,
		Data: chain.DataV2{
			// the registry pads stored strings with NUL bytes
			Name:                 strings.TrimRight(metadata.Data.Name, "\x00"),
			Symbol:               strings.TrimRight(metadata.Data.Symbol, "\x00"),
			URI:                  strings.TrimRight(metadata.Data.Uri, "\x00"),
			SellerFeeBasisPoints: metadata.Data.SellerFeeBasisPoints,
		},
		PrimarySaleHappened: metadata.PrimarySaleHappened,
		IsMutable:           metadata.IsMutable,
	}
	if metadata.Data.Creators != nil {
		record.Data.Creators = lo.Map(*metadata.Data.Creators, func(c token_metadata.Creator, _ int) chain.Creator {
			return chain.Creator{Address: c.Address, Verified: c.Verified, Share: c.Share}
		})
	}
	return record, nil
}

func (e *Environment) getOwnedAccount(ctx context.Context, address common.PublicKey, owner common.PublicKey) (*AccountInfo, error) {
	account, err := e.rpc.GetAccount(ctx, address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if account.Owner != owner {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is owned by %s, expected %s", address.ToBase58(), account.Owner.ToBase58(), owner.ToBase58())
	}
	return account, nil
}

// unitOfWork accumulates instructions. Staged records mirror what the transaction will produce.
type unitOfWork struct {
	env          *Environment
	signers      []types.Account
	instructions []types.Instruction
	identities   map[common.PublicKey]*chain.AssetIdentity
	holdings     map[common.PublicKey]*chain.Holding
	done         bool
}

func (u *unitOfWork) InitializeIdentity(ctx context.Context, params chain.InitializeIdentityParams) (*chain.AssetIdentity, error) {
	if err := u.check(); err != nil {
		return nil, errors.WithStack(err)
	}
	if params.MaxSupply != nil && *params.MaxSupply != 1 {
		return nil, errors.Wrapf(errs.Unsupported, "max supply %d, only single-unit identities can be capped", *params.MaxSupply)
	}
	if _, staged := u.identities[params.Identity]; staged {
		return nil, errors.Wrapf(errs.AlreadyInitialized, "account %s is already in use", params.Identity.ToBase58())
	}

	rent, err := u.env.rpc.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	u.instructions = append(u.instructions,
		system.CreateAccount(system.CreateAccountParam{
			From:     params.Payer,
			New:      params.Identity,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals: params.Decimals,
			Mint:     params.Identity,
			MintAuth: params.Authority,
		}),
	)

	authority := params.Authority
	identity := &chain.AssetIdentity{
		Address:   params.Identity,
		Authority: &authority,
		Decimals:  params.Decimals,
		MaxSupply: params.MaxSupply,
	}
	u.identities[params.Identity] = identity
	clone := *identity
	return &clone, nil
}

func (u *unitOfWork) Issue(ctx context.Context, params chain.IssueParams) (*chain.IssueResult, error) {
	if err := u.check(); err != nil {
		return nil, errors.WithStack(err)
	}
	if params.AuthoritySeeds != nil {
		return nil, errors.Wrap(errs.Unsupported, "program-derived authorities sign only inside on-chain programs")
	}

	identity, err := u.identity(ctx, params.Identity)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if identity.Authority == nil || *identity.Authority != params.Authority {
		return nil, errors.Wrapf(errs.AuthorityMismatch, "%s is not the mint authority of %s", params.Authority.ToBase58(), params.Identity.ToBase58())
	}
	supply := identity.Supply + params.Amount
	if supply < identity.Supply || (identity.MaxSupply != nil && supply > *identity.MaxSupply) {
		return nil, errors.Wrapf(errs.SupplyExceeded, "supply %d + %d", identity.Supply, params.Amount)
	}

	holding, err := u.holding(ctx, params)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	u.instructions = append(u.instructions, token.MintTo(token.MintToParam{
		Mint:   params.Identity,
		To:     params.Holding,
		Auth:   params.Authority,
		Amount: params.Amount,
	}))
	identity.Supply = supply
	holding.Balance += params.Amount

	return &chain.IssueResult{Identity: *identity, Holding: *holding}, nil
}

func (u *unitOfWork) CreateMetadata(ctx context.Context, request chain.CreateMetadataRequest, authoritySeeds *chain.SignerSeeds) (*chain.MetadataRecord, error) {
	if err := u.check(); err != nil {
		return nil, errors.WithStack(err)
	}
	if authoritySeeds != nil {
		return nil, errors.Wrap(errs.Unsupported, "program-derived authorities sign only inside on-chain programs")
	}
	if err := request.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if request.Data.Collection != nil || request.Data.Uses != nil || request.CollectionDetails != nil {
		return nil, errors.Wrap(errs.Unsupported, "collections and uses")
	}
	address, err := chain.MetadataAddress(request.Mint)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if address != request.Metadata {
		return nil, errors.Wrapf(errs.InvalidArgument, "metadata %s is not derived from mint %s", request.Metadata.ToBase58(), request.Mint.ToBase58())
	}

	var creators *[]token_metadata.Creator
	if request.Data.Creators != nil {
		creators = lo.ToPtr(lo.Map(request.Data.Creators, func(c chain.Creator, _ int) token_metadata.Creator {
			return token_metadata.Creator{Address: c.Address, Verified: c.Verified, Share: c.Share}
		}))
	}
	u.instructions = append(u.instructions, token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
		Metadata:                request.Metadata,
		Mint:                    request.Mint,
		MintAuthority:           request.MintAuthority,
		Payer:                   request.Payer,
		UpdateAuthority:         request.UpdateAuthority,
		UpdateAuthorityIsSigner: request.UpdateAuthorityIsSigner,
		IsMutable:               request.IsMutable,
		Data: token_metadata.DataV2{
			Name:                 request.Data.Name,
			Symbol:               request.Data.Symbol,
			Uri:                  request.Data.URI,
			SellerFeeBasisPoints: request.Data.SellerFeeBasisPoints,
			Creators:             creators,
		},
	}))

	// a master edition with no prints pins the supply of a capped identity
	if identity, ok := u.identities[request.Mint]; ok && identity.MaxSupply != nil {
		edition, err := chain.MasterEditionAddress(request.Mint)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		u.instructions = append(u.instructions, token_metadata.CreateMasterEditionV3(token_metadata.CreateMasterEditionParam{
			Edition:         edition,
			Mint:            request.Mint,
			UpdateAuthority: request.UpdateAuthority,
			MintAuthority:   request.MintAuthority,
			Metadata:        request.Metadata,
			Payer:           request.Payer,
			MaxSupply:       lo.ToPtr[uint64](0),
		}))
	}

	return &chain.MetadataRecord{
		Address:         request.Metadata,
		Mint:            request.Mint,
		UpdateAuthority: request.UpdateAuthority,
		Data:            request.Data,
		IsMutable:       request.IsMutable,
	}, nil
}

func (u *unitOfWork) Commit(ctx context.Context) (*chain.Receipt, error) {
	if err := u.check(); err != nil {
		return nil, errors.WithStack(err)
	}
	u.done = true
	if len(u.instructions) == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "nothing to commit")
	}

	blockhash, err := u.env.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: u.signers,
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        u.signers[0].PublicKey,
			RecentBlockhash: blockhash,
			Instructions:    u.instructions,
		}),
	})
	if err != nil {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "can't sign transaction: %v", err)
	}

	signature, err := u.env.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.DebugContext(ctx, "sent transaction", slogx.String("signature", signature), slogx.Int("instructions", len(u.instructions)))

	// confirmation is left to the caller; the cluster may still drop the transaction
	return &chain.Receipt{
		Signature:   signature,
		Environment: Name,
		Status:      chain.ReceiptSubmitted,
		AcceptedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

// Rollback drops the staged instructions. Nothing has been sent.
func (u *unitOfWork) Rollback(_ context.Context) error {
	u.done = true
	u.instructions = nil
	return nil
}

func (u *unitOfWork) check() error {
	if u.done {
		return errors.New("unit of work is already finished")
	}
	return nil
}

// identity returns the staged identity at address, reading it from the cluster if needed.
func (u *unitOfWork) identity(ctx context.Context, address common.PublicKey) (*chain.AssetIdentity, error) {
	if identity, ok := u.identities[address]; ok {
		return identity, nil
	}
	identity, err := u.env.GetAssetIdentity(ctx, address)
	if err != nil {
		return nil, errors.Wrap(err, "can't read asset identity")
	}
	u.identities[address] = identity
	return identity, nil
}

// holding returns the staged holding, adding an instruction to create it if it does not exist.
func (u *unitOfWork) holding(ctx context.Context, params chain.IssueParams) (*chain.Holding, error) {
	if holding, ok := u.holdings[params.Holding]; ok {
		return holding, nil
	}

	holding, err := u.env.GetHolding(ctx, params.Holding)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return nil, errors.Wrap(err, "can't read holding")
		}
		u.instructions = append(u.instructions, associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 params.Payer,
			Owner:                  params.Authority,
			Mint:                   params.Identity,
			AssociatedTokenAccount: params.Holding,
		}))
		holding = &chain.Holding{
			Address: params.Holding,
			Mint:    params.Identity,
			Owner:   params.Authority,
		}
	}
	if holding.Mint != params.Identity {
		return nil, errors.Wrapf(errs.InvalidArgument, "holding %s belongs to mint %s", params.Holding.ToBase58(), holding.Mint.ToBase58())
	}
	u.holdings[params.Holding] = holding
	return holding, nil
}
