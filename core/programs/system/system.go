// Package system allocates ledger accounts and moves lamports between them.
package system

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/ledger"
)

// MaxAccountSize is the largest data length an account can be allocated with.
const MaxAccountSize = 10 * 1024 * 1024

type CreateAccountParams struct {
	// From pays the rent-exempt balance. It must sign.
	From common.PublicKey
	// New is the address to allocate. It must sign, directly or through InvokeSigned.
	New      common.PublicKey
	Owner    common.PublicKey
	Space    uint64
	Lamports uint64 // zero means the rent-exempt minimum for Space
}

// CreateAccount allocates a zeroed account of Space bytes owned by Owner, funded by From.
func CreateAccount(ctx context.Context, tx *ledger.Tx, params CreateAccountParams) (*ledger.Account, error) {
	if !tx.IsSigner(params.From) {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "funding account %s must sign", params.From.ToBase58())
	}
	if !tx.IsSigner(params.New) {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "new account %s must sign", params.New.ToBase58())
	}
	if params.Space > MaxAccountSize {
		return nil, errors.Wrapf(errs.InvalidArgument, "space %d exceeds maximum %d", params.Space, MaxAccountSize)
	}

	exists, err := tx.Exists(ctx, params.New)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errors.Wrapf(errs.AlreadyInitialized, "account %s is already in use", params.New.ToBase58())
	}

	minimum := tx.Rent().MinimumBalance(params.Space)
	lamports := params.Lamports
	if lamports == 0 {
		lamports = minimum
	}
	if lamports < minimum {
		return nil, errors.Wrapf(errs.InsufficientFunds, "%d lamports do not make %d bytes rent exempt, need %d", lamports, params.Space, minimum)
	}

	from, err := tx.GetAccount(ctx, params.From)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(errs.InsufficientFunds, "funding account %s has no balance, need %d lamports", params.From.ToBase58(), lamports)
		}
		return nil, errors.WithStack(err)
	}
	if from.Owner != common.SystemProgramID {
		return nil, errors.Wrapf(errs.InvalidArgument, "funding account %s must be a system account", params.From.ToBase58())
	}
	if from.Lamports < lamports {
		return nil, errors.Wrapf(errs.InsufficientFunds, "funding account %s has %d lamports, need %d", params.From.ToBase58(), from.Lamports, lamports)
	}
	from.Lamports -= lamports

	account := &ledger.Account{
		Address:  params.New,
		Owner:    params.Owner,
		Lamports: lamports,
		Data:     make([]byte, params.Space),
	}
	if err := tx.PutAccount(ctx, from); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := tx.PutAccount(ctx, account); err != nil {
		return nil, errors.WithStack(err)
	}
	return account, nil
}

// Transfer moves lamports between system accounts. From must sign.
func Transfer(ctx context.Context, tx *ledger.Tx, from, to common.PublicKey, lamports uint64) error {
	if !tx.IsSigner(from) {
		return errors.Wrapf(errs.UnauthorizedSignature, "sender %s must sign", from.ToBase58())
	}
	sender, err := tx.GetAccount(ctx, from)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.Wrapf(errs.InsufficientFunds, "sender %s has no balance", from.ToBase58())
		}
		return errors.WithStack(err)
	}
	if sender.Owner != common.SystemProgramID {
		return errors.Wrapf(errs.InvalidArgument, "sender %s must be a system account", from.ToBase58())
	}
	if sender.Lamports < lamports {
		return errors.Wrapf(errs.InsufficientFunds, "sender %s has %d lamports, need %d", from.ToBase58(), sender.Lamports, lamports)
	}
	sender.Lamports -= lamports
	if err := tx.PutAccount(ctx, sender); err != nil {
		return errors.WithStack(err)
	}
	if _, err := tx.Credit(ctx, to, lamports); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
