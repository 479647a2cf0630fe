// Package tokenmetadata is the metadata registry: it binds descriptive metadata to an asset
// identity under the identity's mint authority.
package tokenmetadata

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/core/chain"
	"github.com/gaze-network/nft-minter/core/ledger"
	"github.com/gaze-network/nft-minter/core/programs/system"
	"github.com/gaze-network/nft-minter/core/programs/token"
	"github.com/near/borsh-go"
)

// CreateMetadataAccountV3 allocates the metadata record of request.Mint and writes request.Data
// into it. The mint authority must sign and match the mint; so must every verified creator.
func CreateMetadataAccountV3(ctx context.Context, tx *ledger.Tx, request chain.CreateMetadataRequest) (*chain.MetadataRecord, error) {
	if err := request.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	seeds, err := chain.MetadataSignerSeeds(request.Mint)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	address, err := chain.MetadataAddress(request.Mint)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if address != request.Metadata {
		return nil, errors.Wrapf(errs.InvalidArgument, "metadata %s is not derived from mint %s", request.Metadata.ToBase58(), request.Mint.ToBase58())
	}

	mint, _, err := token.LoadMint(ctx, tx, request.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mint")
	}
	if mint.MintAuthority == nil || *mint.MintAuthority != request.MintAuthority {
		return nil, errors.Wrapf(errs.AuthorityMismatch, "%s is not the mint authority of %s", request.MintAuthority.ToBase58(), request.Mint.ToBase58())
	}
	if !tx.IsSigner(request.MintAuthority) {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "mint authority %s must sign", request.MintAuthority.ToBase58())
	}
	if request.UpdateAuthorityIsSigner && !tx.IsSigner(request.UpdateAuthority) {
		return nil, errors.Wrapf(errs.UnauthorizedSignature, "update authority %s must sign", request.UpdateAuthority.ToBase58())
	}
	for _, creator := range request.Data.VerifiedCreators() {
		if !tx.IsSigner(creator) {
			return nil, errors.Wrapf(errs.UnauthorizedSignature, "verified creator %s must sign", creator.ToBase58())
		}
	}

	var account *ledger.Account
	if err := tx.InvokeSigned(ctx, seeds.ProgramID, seeds.Seeds, func(ctx context.Context) error {
		account, err = system.CreateAccount(ctx, tx, system.CreateAccountParams{
			From:  request.Payer,
			New:   request.Metadata,
			Owner: common.TokenMetadataProgramID,
			Space: MetadataAccountSize,
		})
		return errors.WithStack(err)
	}); err != nil {
		return nil, errors.Wrap(err, "can't allocate metadata")
	}

	record := newMetadata(request)
	encoded, err := borsh.Serialize(*record)
	if err != nil {
		return nil, errors.Wrap(err, "can't encode metadata")
	}
	if len(encoded) > len(account.Data) {
		return nil, errors.Wrapf(errs.SomethingWentWrong, "metadata of %d bytes exceeds %d", len(encoded), len(account.Data))
	}
	copy(account.Data, encoded)
	if err := tx.PutAccount(ctx, account); err != nil {
		return nil, errors.WithStack(err)
	}
	return record.record(address), nil
}

// LoadMetadata reads the metadata record at address.
func LoadMetadata(ctx context.Context, reader ledger.StoreReader, address common.PublicKey) (*chain.MetadataRecord, error) {
	account, err := reader.GetAccount(ctx, address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if account.Owner != common.TokenMetadataProgramID {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is not owned by the metadata registry", address.ToBase58())
	}
	var stored metadata
	if err := borsh.Deserialize(&stored, account.Data); err != nil {
		return nil, errors.Wrapf(err, "can't decode metadata %s", address.ToBase58())
	}
	if stored.Key != KeyMetadataV1 {
		return nil, errors.Wrapf(errs.InvalidArgument, "account %s is not a metadata record", address.ToBase58())
	}
	return stored.record(address), nil
}
