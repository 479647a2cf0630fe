package chain

import (
	"strings"
	"testing"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataValidate(t *testing.T) {
	creator := types.NewAccount().PublicKey
	other := types.NewAccount().PublicKey

	valid := func() DataV2 {
		return DataV2{
			Name:                 "Relic #1",
			Symbol:               "RLC",
			URI:                  "https://example.test/1.json",
			SellerFeeBasisPoints: 1,
			Creators:             []Creator{{Address: creator, Verified: true, Share: 100}},
		}
	}

	type testcase struct {
		name   string
		modify func(d *DataV2)
		err    error
	}

	testcases := []testcase{
		{
			name:   "valid",
			modify: func(d *DataV2) {},
		},
		{
			name: "fields at their limits",
			modify: func(d *DataV2) {
				d.Name = strings.Repeat("n", MaxNameLength)
				d.Symbol = strings.Repeat("s", MaxSymbolLength)
				d.URI = strings.Repeat("u", MaxURILength)
			},
		},
		{
			name:   "name over limit",
			modify: func(d *DataV2) { d.Name = strings.Repeat("n", MaxNameLength+1) },
			err:    errs.InvalidMetadataLength,
		},
		{
			name:   "symbol over limit",
			modify: func(d *DataV2) { d.Symbol = strings.Repeat("s", MaxSymbolLength+1) },
			err:    errs.InvalidMetadataLength,
		},
		{
			name:   "uri over limit",
			modify: func(d *DataV2) { d.URI = strings.Repeat("u", MaxURILength+1) },
			err:    errs.InvalidMetadataLength,
		},
		{
			name: "limits count bytes not runes",
			// 11 runes, 33 bytes
			modify: func(d *DataV2) { d.Name = strings.Repeat("界", 11) },
			err:    errs.InvalidMetadataLength,
		},
		{
			name:   "invalid utf-8",
			modify: func(d *DataV2) { d.Symbol = "\xff" },
			err:    errs.InvalidArgument,
		},
		{
			name:   "seller fee over 100%",
			modify: func(d *DataV2) { d.SellerFeeBasisPoints = MaxSellerFeeBasisPoints + 1 },
			err:    errs.InvalidArgument,
		},
		{
			name:   "no creators",
			modify: func(d *DataV2) { d.Creators = nil },
		},
		{
			name:   "empty creators",
			modify: func(d *DataV2) { d.Creators = []Creator{} },
			err:    errs.InvalidArgument,
		},
		{
			name: "shares do not sum to 100",
			modify: func(d *DataV2) {
				d.Creators = []Creator{{Address: creator, Share: 60}, {Address: other, Share: 30}}
			},
			err: errs.InvalidArgument,
		},
		{
			name: "duplicate creators",
			modify: func(d *DataV2) {
				d.Creators = []Creator{{Address: creator, Share: 50}, {Address: creator, Share: 50}}
			},
			err: errs.InvalidArgument,
		},
		{
			name: "too many creators",
			modify: func(d *DataV2) {
				d.Creators = nil
				for i := 0; i < MaxCreatorLimit+1; i++ {
					d.Creators = append(d.Creators, Creator{Address: types.NewAccount().PublicKey, Share: 1})
				}
			},
			err: errs.InvalidArgument,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			data := valid()
			tc.modify(&data)
			err := data.Validate()
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateMetadataRequestVersion(t *testing.T) {
	request := CreateMetadataRequest{Data: DataV2{Name: "Test", Symbol: "TST", URI: "https://example.test/t.json"}}
	assert.ErrorIs(t, request.Validate(), errs.Unsupported)

	request.Version = RequestVersionV3
	assert.NoError(t, request.Validate())
}

func TestVerifiedCreators(t *testing.T) {
	a, b := types.NewAccount().PublicKey, types.NewAccount().PublicKey
	data := DataV2{Creators: []Creator{{Address: a, Verified: true, Share: 50}, {Address: b, Share: 50}}}
	assert.Equal(t, []solcommon.PublicKey{a}, data.VerifiedCreators())
}

func TestMetadataAddress(t *testing.T) {
	mint := types.NewAccount().PublicKey

	address, err := MetadataAddress(mint)
	require.NoError(t, err)

	seeds, err := MetadataSignerSeeds(mint)
	require.NoError(t, err)
	derived, err := solcommon.CreateProgramAddress(seeds.Seeds, seeds.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, address, derived)

	edition, err := MasterEditionAddress(mint)
	require.NoError(t, err)
	assert.NotEqual(t, address, edition)
}
