package token

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/near/borsh-go"
)

const (
	MintAccountSize    = 82
	HoldingAccountSize = 165
)

// Mint is the state of an asset identity.
type Mint struct {
	// MintAuthority may issue supply. Nil means the supply is fixed.
	MintAuthority *common.PublicKey
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
	// MaxSupply caps Supply. Nil means uncapped.
	MaxSupply *uint64
}

// Holding is the balance of one owner for one asset identity.
type Holding struct {
	Mint          common.PublicKey
	Owner         common.PublicKey
	Amount        uint64
	IsInitialized bool
}

// LoadMint reads an initialized mint owned by this program.
func LoadMint(ctx context.Context, reader ledger.StoreReader, address common.PublicKey) (*Mint, *ledger.Account, error) {
	var mint Mint
	account, err := load(ctx, reader, address, &mint)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !mint.IsInitialized {
		return nil, nil, errors.Wrapf(errs.InvalidArgument, "mint %s is not initialized", address.ToBase58())
	}
	return &mint, account, nil
}

// LoadHolding reads an initialized holding owned by this program.
func LoadHolding(ctx context.Context, reader ledger.StoreReader, address common.PublicKey) (*Holding, *ledger.Account, error) {
	var holding Holding
	account, err := load(ctx, reader, address, &holding)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if !holding.IsInitialized {
		return nil, nil, errors.Wrapf(errs.InvalidArgument, "holding %s is not initialized", address.ToBase58())
	}
	return &holding, account, nil
}

func load(ctx context.Context, reader ledger.StoreReader, address common.PublicKey, state any) (*ledger.Account, error) {
	account, err := reader.GetAccount(ctx, address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if account.Owner != common.TokenProgramID {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is not owned by the token program", address.ToBase58())
	}
	if account.IsUninitialized() {
		return account, nil
	}
	if err := borsh.Deserialize(state, account.Data); err != nil {
		return nil, errors.Wrapf(err, "can't decode account %s", address.ToBase58())
	}
	return account, nil
}

// store encodes state into account data, zero padded to the allocated space.
// state is taken by value: borsh encodes a pointer as an option.
func store[T Mint | Holding](ctx context.Context, tx *ledger.Tx, account *ledger.Account, state T) error {
	data, err := borsh.Serialize(state)
	if err != nil {
		return errors.Wrap(err, "can't encode state")
	}
	if len(data) > len(account.Data) {
		return errors.Wrapf(errs.SomethingWentWrong, "state of %d bytes does not fit account %s of %d bytes", len(data), account.Address.ToBase58(), len(account.Data))
	}
	copy(account.Data, data)
	clear(account.Data[len(data):])
	return errors.WithStack(tx.PutAccount(ctx, account))
}
