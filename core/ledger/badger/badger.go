package badger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v3"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/near/borsh-go"
)

var accountKeyPrefix = []byte("accounts/")

const inMemoryMemTableSize = 16 << 20

type Config struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// storedAccount is the value layout of an account record.
type storedAccount struct {
	Owner    common.PublicKey
	Lamports uint64
	Data     []byte
}

var _ ledger.Store = (*Store)(nil)

// Store is a ledger.Store on an embedded Badger database.
type Store struct {
	db *badger.DB
}

func Open(ctx context.Context, conf Config) (*Store, error) {
	opts := badger.DefaultOptions(conf.Path).WithLogger(newLogger(ctx))
	if conf.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("").WithMemTableSize(inMemoryMemTableSize)
	} else if conf.Path == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "badger path is required unless in-memory mode is enabled")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "can't open badger database")
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a volatile store, mostly useful for tests and local runs.
func OpenInMemory(ctx context.Context) (*Store, error) {
	return Open(ctx, Config{InMemory: true})
}

func (s *Store) Close() error {
	return errors.WithStack(s.db.Close())
}

func (s *Store) GetAccount(_ context.Context, address common.PublicKey) (*ledger.Account, error) {
	txn := s.db.NewTransaction(false)
	defer txn.Discard()
	return getAccount(txn, address)
}

func (s *Store) Begin(_ context.Context) (ledger.StoreTx, error) {
	return &storeTx{txn: s.db.NewTransaction(true)}, nil
}

type storeTx struct {
	txn *badger.Txn
}

func (t *storeTx) GetAccount(_ context.Context, address common.PublicKey) (*ledger.Account, error) {
	return getAccount(t.txn, address)
}

func (t *storeTx) PutAccount(_ context.Context, account *ledger.Account) error {
	value, err := borsh.Serialize(storedAccount{
		Owner:    account.Owner,
		Lamports: account.Lamports,
		Data:     account.Data,
	})
	if err != nil {
		return errors.Wrap(err, "can't encode account")
	}
	if err := t.txn.Set(accountKey(account.Address), value); err != nil {
		return errors.Wrap(err, "can't stage account write")
	}
	return nil
}

func (t *storeTx) Commit(_ context.Context) error {
	if err := t.txn.Commit(); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			return errors.Wrap(errs.Conflict, err.Error())
		}
		return errors.Wrap(err, "can't commit badger transaction")
	}
	return nil
}

func (t *storeTx) Rollback(_ context.Context) error {
	t.txn.Discard()
	return nil
}

func getAccount(txn *badger.Txn, address common.PublicKey) (*ledger.Account, error) {
	item, err := txn.Get(accountKey(address))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.Wrapf(errs.NotFound, "account %s", address.ToBase58())
		}
		return nil, errors.Wrap(err, "can't read account")
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.Wrap(err, "can't copy account value")
	}

	var stored storedAccount
	if err := borsh.Deserialize(&stored, value); err != nil {
		return nil, errors.Wrapf(err, "can't decode account %s", address.ToBase58())
	}
	return &ledger.Account{
		Address:  address,
		Owner:    stored.Owner,
		Lamports: stored.Lamports,
		Data:     stored.Data,
	}, nil
}

func accountKey(address common.PublicKey) []byte {
	key := make([]byte, 0, len(accountKeyPrefix)+len(address))
	key = append(key, accountKeyPrefix...)
	return append(key, address[:]...)
}

// badgerLogger routes badger's internal logs to the application logger.
type badgerLogger struct {
	ctx context.Context
}

func newLogger(ctx context.Context) badger.Logger {
	return &badgerLogger{ctx: logger.WithContext(ctx, "package", "badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	logger.LogContext(l.ctx, slog.LevelError, fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	logger.WarnContext(l.ctx, fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	logger.DebugContext(l.ctx, fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	logger.DebugContext(l.ctx, fmt.Sprintf(format, args...))
}
