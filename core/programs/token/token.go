// Package token keeps the supply of asset identities and the balances of their holders.
package token

import (
	"context"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/programs/system"
)

type InitializeMintParams struct {
	Mint          common.PublicKey
	Decimals      uint8
	MintAuthority common.PublicKey
	MaxSupply     *uint64
}

// InitializeMint writes a zero-supply mint into an account allocated for this program.
func InitializeMint(ctx context.Context, tx *ledger.Tx, params InitializeMintParams) (*Mint, error) {
	account, err := tx.GetAccount(ctx, params.Mint)
	if err != nil {
		return nil, errors.Wrapf(err, "mint %s must be allocated first", params.Mint.ToBase58())
	}
	if account.Owner != common.TokenProgramID {
		return nil, errors.Wrapf(errs.InvalidArgument, "mint %s is not owned by the token program", params.Mint.ToBase58())
	}
	if !account.IsUninitialized() {
		return nil, errors.Wrapf(errs.AlreadyInitialized, "mint %s", params.Mint.ToBase58())
	}
	if !tx.Rent().IsExempt(account.Lamports, uint64(len(account.Data))) {
		return nil, errors.Wrapf(errs.InsufficientFunds, "mint %s is not rent exempt", params.Mint.ToBase58())
	}
	if params.MaxSupply != nil && *params.MaxSupply == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "max supply must be positive")
	}

	authority := params.MintAuthority
	mint := &Mint{
		MintAuthority: &authority,
		Decimals:      params.Decimals,
		IsInitialized: true,
		MaxSupply:     params.MaxSupply,
	}
	if err := store(ctx, tx, account, *mint); err != nil {
		return nil, errors.WithStack(err)
	}
	return mint, nil
}

// AssociatedHoldingAddress returns the canonical holding address of owner for mint and its bump seed.
func AssociatedHoldingAddress(owner, mint common.PublicKey) (common.PublicKey, uint8, error) {
	address, bump, err := solcommon.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return common.ZeroPublicKey, 0, errors.Wrap(err, "can't derive associated holding address")
	}
	return address, bump, nil
}

type CreateHoldingParams struct {
	Payer   common.PublicKey
	Holding common.PublicKey
	Owner   common.PublicKey
	Mint    common.PublicKey
}

// CreateAssociatedHolding allocates and initializes the canonical holding of Owner for Mint.
// The holding address signs through the associated token program's seeds.
func CreateAssociatedHolding(ctx context.Context, tx *ledger.Tx, params CreateHoldingParams) (*Holding, error) {
	address, bump, err := AssociatedHoldingAddress(params.Owner, params.Mint)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if address != params.Holding {
		return nil, errors.Wrapf(errs.InvalidArgument, "holding %s is not the associated holding %s", params.Holding.ToBase58(), address.ToBase58())
	}
	if _, _, err := LoadMint(ctx, tx, params.Mint); err != nil {
		return nil, errors.WithStack(err)
	}

	seeds := [][]byte{params.Owner.Bytes(), common.TokenProgramID.Bytes(), params.Mint.Bytes(), {bump}}
	var account *ledger.Account
	if err := tx.InvokeSigned(ctx, common.AssociatedTokenProgramID, seeds, func(ctx context.Context) error {
		account, err = system.CreateAccount(ctx, tx, system.CreateAccountParams{
			From:  params.Payer,
			New:   params.Holding,
			Owner: common.TokenProgramID,
			Space: HoldingAccountSize,
		})
		return errors.WithStack(err)
	}); err != nil {
		return nil, errors.Wrap(err, "can't allocate holding")
	}

	holding := &Holding{
		Mint:          params.Mint,
		Owner:         params.Owner,
		IsInitialized: true,
	}
	if err := store(ctx, tx, account, *holding); err != nil {
		return nil, errors.WithStack(err)
	}
	return holding, nil
}

type MintToParams struct {
	Mint        common.PublicKey
	Destination common.PublicKey
	Authority   common.PublicKey
	Amount      uint64
}

// MintTo issues Amount new units of Mint into Destination. Supply and balance change together.
func MintTo(ctx context.Context, tx *ledger.Tx, params MintToParams) (*Mint, *Holding, error) {
	if params.Amount == 0 {
		return nil, nil, errors.Wrap(errs.InvalidArgument, "amount must be positive")
	}

	mint, mintAccount, err := LoadMint(ctx, tx, params.Mint)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if mint.MintAuthority == nil {
		return nil, nil, errors.Wrapf(errs.AuthorityMismatch, "supply of mint %s is fixed", params.Mint.ToBase58())
	}
	if *mint.MintAuthority != params.Authority {
		return nil, nil, errors.Wrapf(errs.AuthorityMismatch, "%s is not the mint authority of %s", params.Authority.ToBase58(), params.Mint.ToBase58())
	}
	if !tx.IsSigner(params.Authority) {
		return nil, nil, errors.Wrapf(errs.UnauthorizedSignature, "mint authority %s must sign", params.Authority.ToBase58())
	}

	holding, holdingAccount, err := LoadHolding(ctx, tx, params.Destination)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if holding.Mint != params.Mint {
		return nil, nil, errors.Wrapf(errs.InvalidArgument, "holding %s belongs to mint %s", params.Destination.ToBase58(), holding.Mint.ToBase58())
	}

	supply := mint.Supply + params.Amount
	if supply < mint.Supply {
		return nil, nil, errors.Wrapf(errs.SupplyExceeded, "supply %d + %d overflows", mint.Supply, params.Amount)
	}
	if mint.MaxSupply != nil && supply > *mint.MaxSupply {
		return nil, nil, errors.Wrapf(errs.SupplyExceeded, "supply %d would exceed max supply %d", supply, *mint.MaxSupply)
	}
	balance := holding.Amount + params.Amount
	if balance < holding.Amount {
		return nil, nil, errors.Wrapf(errs.OverflowUint64, "balance %d + %d", holding.Amount, params.Amount)
	}

	mint.Supply = supply
	holding.Amount = balance
	if err := store(ctx, tx, mintAccount, *mint); err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if err := store(ctx, tx, holdingAccount, *holding); err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return mint, holding, nil
}
