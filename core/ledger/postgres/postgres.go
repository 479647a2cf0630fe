package postgres

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/internal/postgres"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	getAccountQuery = `SELECT "owner", "lamports", "data" FROM "ledger_accounts" WHERE "address" = $1`

	putAccountQuery = `INSERT INTO "ledger_accounts" ("address", "owner", "lamports", "data")
VALUES ($1, $2, $3, $4)
ON CONFLICT ("address") DO UPDATE SET
	"owner" = EXCLUDED."owner",
	"lamports" = EXCLUDED."lamports",
	"data" = EXCLUDED."data",
	"updated_at" = NOW()`
)

// pg error codes reported when serializable transactions collide
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

var _ ledger.Store = (*Store)(nil)

// Store is a ledger.Store on PostgreSQL. Transactions run with serializable isolation.
type Store struct {
	db postgres.DB
}

func NewStore(db postgres.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetAccount(ctx context.Context, address common.PublicKey) (*ledger.Account, error) {
	return getAccount(ctx, s.db, address)
}

func (s *Store) Begin(ctx context.Context) (ledger.StoreTx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &storeTx{tx: tx}, nil
}

// Close is a no-op, the connection pool is owned by the caller.
func (s *Store) Close() error {
	return nil
}

type storeTx struct {
	tx pgx.Tx
}

func (t *storeTx) GetAccount(ctx context.Context, address common.PublicKey) (*ledger.Account, error) {
	account, err := getAccount(ctx, t.tx, address)
	if err != nil {
		return nil, errors.WithStack(asConflict(err))
	}
	return account, nil
}

func (t *storeTx) PutAccount(ctx context.Context, account *ledger.Account) error {
	if account.Lamports > math.MaxInt64 {
		return errors.Wrapf(errs.OverflowUint64, "lamports %d can't be stored", account.Lamports)
	}
	data := account.Data
	if data == nil {
		data = []byte{}
	}
	if _, err := t.tx.Exec(ctx, putAccountQuery, account.Address.Bytes(), account.Owner.Bytes(), int64(account.Lamports), data); err != nil {
		return errors.Wrap(asConflict(err), "failed to upsert account")
	}
	return nil
}

func (t *storeTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return errors.Wrap(asConflict(err), "failed to commit transaction")
	}
	return nil
}

func (t *storeTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Wrap(err, "failed to rollback transaction")
	}
	if err == nil {
		logger.DebugContext(ctx, "rolled back ledger transaction")
	}
	return nil
}

func getAccount(ctx context.Context, q postgres.Queryable, address common.PublicKey) (*ledger.Account, error) {
	var (
		owner    []byte
		lamports int64
		data     []byte
	)
	if err := q.QueryRow(ctx, getAccountQuery, address.Bytes()).Scan(&owner, &lamports, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "account %s", address.ToBase58())
		}
		return nil, errors.Wrap(err, "failed to get account")
	}
	return &ledger.Account{
		Address:  address,
		Owner:    common.PublicKeyFromBytes(owner),
		Lamports: uint64(lamports),
		Data:     data,
	}, nil
}

func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
			return errors.Wrap(errs.Conflict, pgErr.Message)
		}
	}
	return err
}
