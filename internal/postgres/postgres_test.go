package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigString(t *testing.T) {
	type testcase struct {
		name     string
		conf     Config
		expected string
	}
	testcases := []testcase{
		{
			name:     "defaults",
			expected: "host=127.0.0.1 dbname=postgres port=5432 sslmode=prefer",
		},
		{
			name:     "credentials",
			conf:     Config{Host: "db", DBName: "ledger", User: "minter", Password: "secret", SSLMode: "disable"},
			expected: "host=db dbname=ledger port=5432 sslmode=disable user=minter password=secret",
		},
		{
			name:     "url wins",
			conf:     Config{Host: "db", URL: "postgres://minter@db/ledger"},
			expected: "postgres://minter@db/ledger",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.conf.String())
		})
	}
}
