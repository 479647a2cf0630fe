package common

import (
	"strings"
	"testing"

	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey(t *testing.T) {
	type testcase struct {
		name  string
		input string
		err   error
	}

	testcases := []testcase{
		{
			name:  "token program",
			input: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		},
		{
			name:  "metadata program",
			input: "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s",
		},
		{
			name:  "not base58",
			input: "0OIl",
			err:   errs.InvalidArgument,
		},
		{
			name:  "too short",
			input: "abc",
			err:   errs.InvalidArgument,
		},
		{
			name:  "too long",
			input: strings.Repeat("1", 64) + "2",
			err:   errs.InvalidArgument,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := ParsePublicKey(tc.input)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.True(t, IsZero(key))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, key.ToBase58())
		})
	}
}

func TestWellKnownPrograms(t *testing.T) {
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", TokenProgramID.ToBase58())
	assert.Equal(t, "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s", TokenMetadataProgramID.ToBase58())
	assert.Equal(t, "SysvarRent111111111111111111111111111111111", SysVarRentPubkey.ToBase58())
}

func TestNetwork(t *testing.T) {
	assert.True(t, NetworkDevnet.IsSupported())
	assert.True(t, NetworkLocalnet.IsSupported())
	assert.False(t, Network("mainnet").IsSupported())
	assert.Equal(t, "https://api.devnet.solana.com", NetworkDevnet.RPCEndpoint())
}
