package minter

import (
	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
)

const (
	AuthorityModeWallet  = "wallet"
	AuthorityModeProgram = "program"
)

// DefaultAuthoritySeed derives the program authority when no seeds are configured.
const DefaultAuthoritySeed = "mint_authority"

// Authority is the key that controls an asset: it initializes the identity, issues supply and
// signs the metadata registration. A program-derived authority carries the seeds to sign with.
type Authority struct {
	Key   common.PublicKey
	seeds *chain.SignerSeeds
}

// WalletAuthority is an authority whose keypair co-signs every unit of work.
func WalletAuthority(key common.PublicKey) Authority {
	return Authority{Key: key}
}

// ProgramAuthority is the address derived from seeds under programID. It signs through the seeds,
// no private key exists.
func ProgramAuthority(programID common.PublicKey, seeds ...[]byte) (Authority, error) {
	if len(seeds) == 0 {
		return Authority{}, errors.Wrap(errs.InvalidArgument, "program authority requires at least one seed")
	}
	key, bump, err := solcommon.FindProgramAddress(seeds, programID)
	if err != nil {
		return Authority{}, errors.Wrapf(errs.InvalidArgument, "can't derive program authority: %v", err)
	}

	signerSeeds := make([][]byte, 0, len(seeds)+1)
	signerSeeds = append(signerSeeds, seeds...)
	signerSeeds = append(signerSeeds, []byte{bump})
	return Authority{
		Key: key,
		seeds: &chain.SignerSeeds{
			ProgramID: programID,
			Seeds:     signerSeeds,
		},
	}, nil
}

func (a Authority) IsProgramDerived() bool {
	return a.seeds != nil
}

// SignerSeeds returns the seeds to sign with, nil for wallet authorities.
func (a Authority) SignerSeeds() *chain.SignerSeeds {
	return a.seeds
}

func (a Authority) Mode() string {
	if a.IsProgramDerived() {
		return AuthorityModeProgram
	}
	return AuthorityModeWallet
}
