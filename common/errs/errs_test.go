package errs

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	type testcase struct {
		name     string
		err      error
		expected ErrorKind
		ok       bool
	}

	testcases := []testcase{
		{
			name:     "plain kind",
			err:      AlreadyInitialized,
			expected: AlreadyInitialized,
			ok:       true,
		},
		{
			name:     "wrapped kind",
			err:      errors.Wrap(errors.Wrapf(SupplyExceeded, "supply %d", 1), "issue"),
			expected: SupplyExceeded,
			ok:       true,
		},
		{
			name:     "public error keeps kind",
			err:      WithPublicMessageCode(errors.WithStack(InvalidMetadataLength), "bad request", string(InvalidMetadataLength)),
			expected: InvalidMetadataLength,
			ok:       true,
		},
		{
			name: "no kind",
			err:  errors.New("boom"),
			ok:   false,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			kind, ok := KindOf(tc.err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, kind)
			if tc.ok {
				assert.ErrorIs(t, tc.err, tc.expected)
			}
		})
	}
}
