package migrate

import (
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
)

const (
	ledgerMigrationSource = "core/ledger/database/postgresql/migrations"
	ledgerMigrationTable  = "ledger_schema_migrations"
)

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

// parseDatabaseURL validates the database url against the supported drivers.
func parseDatabaseURL(databaseURL string) (*url.URL, error) {
	if databaseURL == "" {
		return nil, errors.New("--database is required")
	}
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[parsed.Scheme]; !ok {
		return nil, errors.Errorf("unsupported database driver: %s", parsed.Scheme)
	}
	return parsed, nil
}

// newMigrate opens the ledger migrations against databaseURL, tracking them in their own table.
func newMigrate(databaseURL *url.URL, sourcePath string) (*migrate.Migrate, error) {
	newDatabaseURL := cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {ledgerMigrationTable}})
	m, err := migrate.New("file://"+sourcePath, newDatabaseURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Migrate instance")
	}
	m.Log = &consoleLogger{
		prefix: "[Ledger] ",
	}
	return m, nil
}
