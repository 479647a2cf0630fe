// Package chain defines the execution environment the minter runs against: one unit of work
// spanning the token-accounting service and the metadata registry, committed all-or-nothing.
package chain

import (
	"context"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gaze-network/nft-minter/common"
)

// Environment is a ledger the minter can read and run units of work against.
type Environment interface {
	Reader

	// Begin starts a unit of work co-signed by signers. The first signer pays fees.
	Begin(ctx context.Context, signers ...types.Account) (UnitOfWork, error)

	// Name identifies the environment in receipts and logs.
	Name() string
}

// UnitOfWork stages calls to external services. Nothing is observable until Commit succeeds.
type UnitOfWork interface {
	TokenAccounting
	Registry

	Commit(ctx context.Context) (*Receipt, error)

	// Rollback discards every staged call. It is a no-op after Commit.
	Rollback(ctx context.Context) error
}

type TokenAccounting interface {
	// InitializeIdentity allocates and initializes a new asset identity with zero supply.
	InitializeIdentity(ctx context.Context, params InitializeIdentityParams) (*AssetIdentity, error)

	// Issue creates the holding if absent and increases supply and balance by Amount.
	Issue(ctx context.Context, params IssueParams) (*IssueResult, error)
}

type Registry interface {
	// CreateMetadata registers descriptive metadata for an asset identity.
	CreateMetadata(ctx context.Context, request CreateMetadataRequest, authoritySeeds *SignerSeeds) (*MetadataRecord, error)
}

type Reader interface {
	GetAssetIdentity(ctx context.Context, address common.PublicKey) (*AssetIdentity, error)
	GetHolding(ctx context.Context, address common.PublicKey) (*Holding, error)
	GetMetadata(ctx context.Context, address common.PublicKey) (*MetadataRecord, error)
}

// SignerSeeds lets a program sign for the address derived from Seeds, including the bump seed.
type SignerSeeds struct {
	ProgramID common.PublicKey
	Seeds     [][]byte
}

type InitializeIdentityParams struct {
	Identity  common.PublicKey
	Payer     common.PublicKey
	Authority common.PublicKey
	Decimals  uint8
	MaxSupply *uint64
}

type IssueParams struct {
	Identity       common.PublicKey
	Holding        common.PublicKey
	Payer          common.PublicKey
	Authority      common.PublicKey
	AuthoritySeeds *SignerSeeds
	Amount         uint64
}

type IssueResult struct {
	Identity AssetIdentity
	Holding  Holding
}

// AssetIdentity is the token-accounting record of an asset.
type AssetIdentity struct {
	Address   common.PublicKey
	Authority *common.PublicKey
	Decimals  uint8
	Supply    uint64
	MaxSupply *uint64
}

// Holding is the balance of one owner for one asset.
type Holding struct {
	Address common.PublicKey
	Mint    common.PublicKey
	Owner   common.PublicKey
	Balance uint64
}

// ReceiptStatus is how far a unit of work had progressed when Commit returned.
type ReceiptStatus string

const (
	// ReceiptCommitted means every write is durable and visible.
	ReceiptCommitted ReceiptStatus = "committed"
	// ReceiptSubmitted means the environment accepted the transaction but has not confirmed it.
	ReceiptSubmitted ReceiptStatus = "submitted"
)

// Receipt describes a unit of work accepted by Commit.
type Receipt struct {
	Signature   string
	Environment string
	Status      ReceiptStatus
	// AcceptedAt is the commit time for committed receipts and the submission time otherwise.
	AcceptedAt time.Time
}
