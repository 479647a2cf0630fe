// Package local runs units of work against a ledger store with in-process programs.
package local

import (
	"context"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/programs/system"
	"github.com/gaze-network/nft-minter/core/programs/token"
	"github.com/gaze-network/nft-minter/core/programs/tokenmetadata"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
)

const Name = "local"

var _ chain.Environment = (*Environment)(nil)

// Environment applies one unit of work at a time: every mint debits the shared payer,
// so overlapping optimistic transactions would conflict even for distinct identities.
type Environment struct {
	store ledger.Store
	rent  ledger.Rent
	slot  chan struct{} // held from Begin until Commit or Rollback
}

func New(store ledger.Store, rent ledger.Rent) *Environment {
	return &Environment{
		store: store,
		rent:  rent.WithDefaults(),
		slot:  make(chan struct{}, 1),
	}
}

// acquire waits for the running unit of work to finish. The returned release is idempotent.
func (e *Environment) acquire(ctx context.Context) (release func(), err error) {
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "can't begin unit of work")
	}
	var once sync.Once
	return func() { once.Do(func() { <-e.slot }) }, nil
}

func (e *Environment) Name() string {
	return Name
}

func (e *Environment) Begin(ctx context.Context, signers ...types.Account) (chain.UnitOfWork, error) {
	release, err := e.acquire(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	tx, err := ledger.Begin(ctx, e.store, e.rent, signers...)
	if err != nil {
		release()
		return nil, errors.WithStack(err)
	}
	return &unitOfWork{tx: tx, release: release}, nil
}

// Airdrop credits lamports to address out of thin air.
func (e *Environment) Airdrop(ctx context.Context, address common.PublicKey, lamports uint64) (*chain.Receipt, error) {
	release, err := e.acquire(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer release()

	tx, err := ledger.Begin(ctx, e.store, e.rent, types.NewAccount())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback airdrop", slogx.Error(err))
		}
	}()

	if _, err := tx.Credit(ctx, address, lamports); err != nil {
		return nil, errors.WithStack(err)
	}
	receipt, err := tx.Commit(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return newReceipt(receipt), nil
}

// Balance returns the lamports held by address, zero if it was never funded.
func (e *Environment) Balance(ctx context.Context, address common.PublicKey) (uint64, error) {
	account, err := e.store.GetAccount(ctx, address)
	if err != nil {
		return 0, errors.WithStack(ignoreNotFound(err))
	}
	return account.Lamports, nil
}

func (e *Environment) GetAssetIdentity(ctx context.Context, address common.PublicKey) (*chain.AssetIdentity, error) {
	mint, _, err := token.LoadMint(ctx, e.store, address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return newAssetIdentity(address, mint), nil
}

func (e *Environment) GetHolding(ctx context.Context, address common.PublicKey) (*chain.Holding, error) {
	holding, _, err := token.LoadHolding(ctx, e.store, address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return newHolding(address, holding), nil
}

func (e *Environment) GetMetadata(ctx context.Context, address common.PublicKey) (*chain.MetadataRecord, error) {
	record, err := tokenmetadata.LoadMetadata(ctx, e.store, address)
	return record, errors.WithStack(err)
}

type unitOfWork struct {
	tx      *ledger.Tx
	release func()
}

func (u *unitOfWork) InitializeIdentity(ctx context.Context, params chain.InitializeIdentityParams) (*chain.AssetIdentity, error) {
	if _, err := system.CreateAccount(ctx, u.tx, system.CreateAccountParams{
		From:  params.Payer,
		New:   params.Identity,
		Owner: common.TokenProgramID,
		Space: token.MintAccountSize,
	}); err != nil {
		return nil, errors.Wrap(err, "can't allocate asset identity")
	}

	mint, err := token.InitializeMint(ctx, u.tx, token.InitializeMintParams{
		Mint:          params.Identity,
		Decimals:      params.Decimals,
		MintAuthority: params.Authority,
		MaxSupply:     params.MaxSupply,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't initialize asset identity")
	}
	return newAssetIdentity(params.Identity, mint), nil
}

func (u *unitOfWork) Issue(ctx context.Context, params chain.IssueParams) (*chain.IssueResult, error) {
	exists, err := u.tx.Exists(ctx, params.Holding)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		if _, err := token.CreateAssociatedHolding(ctx, u.tx, token.CreateHoldingParams{
			Payer:   params.Payer,
			Holding: params.Holding,
			Owner:   params.Authority,
			Mint:    params.Identity,
		}); err != nil {
			return nil, errors.Wrap(err, "can't create holding")
		}
	}

	var result *chain.IssueResult
	err = u.invoke(ctx, params.AuthoritySeeds, func(ctx context.Context) error {
		mint, holding, err := token.MintTo(ctx, u.tx, token.MintToParams{
			Mint:        params.Identity,
			Destination: params.Holding,
			Authority:   params.Authority,
			Amount:      params.Amount,
		})
		if err != nil {
			return errors.WithStack(err)
		}
		result = &chain.IssueResult{
			Identity: *newAssetIdentity(params.Identity, mint),
			Holding:  *newHolding(params.Holding, holding),
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't issue supply")
	}
	return result, nil
}

func (u *unitOfWork) CreateMetadata(ctx context.Context, request chain.CreateMetadataRequest, authoritySeeds *chain.SignerSeeds) (*chain.MetadataRecord, error) {
	var record *chain.MetadataRecord
	err := u.invoke(ctx, authoritySeeds, func(ctx context.Context) (err error) {
		record, err = tokenmetadata.CreateMetadataAccountV3(ctx, u.tx, request)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create metadata")
	}
	return record, nil
}

func (u *unitOfWork) Commit(ctx context.Context) (*chain.Receipt, error) {
	defer u.release()
	receipt, err := u.tx.Commit(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return newReceipt(receipt), nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	defer u.release()
	return errors.WithStack(u.tx.Rollback(ctx))
}

// invoke runs fn signed by the program-derived address of seeds, if any.
func (u *unitOfWork) invoke(ctx context.Context, seeds *chain.SignerSeeds, fn func(ctx context.Context) error) error {
	if seeds == nil {
		return fn(ctx)
	}
	return u.tx.InvokeSigned(ctx, seeds.ProgramID, seeds.Seeds, fn)
}

func newAssetIdentity(address common.PublicKey, mint *token.Mint) *chain.AssetIdentity {
	return &chain.AssetIdentity{
		Address:   address,
		Authority: mint.MintAuthority,
		Decimals:  mint.Decimals,
		Supply:    mint.Supply,
		MaxSupply: mint.MaxSupply,
	}
}

func newHolding(address common.PublicKey, holding *token.Holding) *chain.Holding {
	return &chain.Holding{
		Address: address,
		Mint:    holding.Mint,
		Owner:   holding.Owner,
		Balance: holding.Amount,
	}
}

func newReceipt(receipt *ledger.Receipt) *chain.Receipt {
	return &chain.Receipt{
		Signature:   receipt.Signature,
		Environment: Name,
		Status:      chain.ReceiptCommitted,
		AcceptedAt:  receipt.CommittedAt.UTC().Truncate(time.Millisecond),
	}
}
