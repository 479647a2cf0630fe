package chain

import (
	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
)

// MetadataSeedPrefix is the first seed of every metadata record address.
const MetadataSeedPrefix = "metadata"

// MetadataAddress returns the registry address of the metadata record of mint.
func MetadataAddress(mint common.PublicKey) (common.PublicKey, error) {
	address, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return common.ZeroPublicKey, errors.Wrap(err, "can't derive metadata address")
	}
	return address, nil
}

// MetadataSignerSeeds returns the seeds, bump included, the registry signs with for the
// metadata record of mint.
func MetadataSignerSeeds(mint common.PublicKey) (SignerSeeds, error) {
	seeds := [][]byte{[]byte(MetadataSeedPrefix), common.TokenMetadataProgramID.Bytes(), mint.Bytes()}
	_, bump, err := solcommon.FindProgramAddress(seeds, common.TokenMetadataProgramID)
	if err != nil {
		return SignerSeeds{}, errors.Wrap(err, "can't derive metadata address")
	}
	return SignerSeeds{
		ProgramID: common.TokenMetadataProgramID,
		Seeds:     append(seeds, []byte{bump}),
	}, nil
}

// MasterEditionAddress returns the registry address of the master edition of mint.
func MasterEditionAddress(mint common.PublicKey) (common.PublicKey, error) {
	address, err := token_metadata.GetMasterEdition(mint)
	if err != nil {
		return common.ZeroPublicKey, errors.Wrap(err, "can't derive master edition address")
	}
	return address, nil
}
