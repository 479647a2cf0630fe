package chain

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/samber/lo"
)

// Registry field limits in bytes.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	MaxCreatorLimit         = 5
	MaxSellerFeeBasisPoints = 10000
	TotalCreatorShares      = 100
)

// RequestVersion selects the registry call variant.
type RequestVersion uint8

const (
	RequestVersionV3 RequestVersion = 3
)

type Creator struct {
	Address  common.PublicKey `json:"address"`
	Verified bool             `json:"verified"`
	Share    uint8            `json:"share"`
}

type Collection struct {
	Verified bool             `json:"verified"`
	Key      common.PublicKey `json:"key"`
}

type UseMethod uint8

const (
	UseMethodBurn UseMethod = iota
	UseMethodMultiple
	UseMethodSingle
)

type Uses struct {
	UseMethod UseMethod `json:"useMethod"`
	Remaining uint64    `json:"remaining"`
	Total     uint64    `json:"total"`
}

type CollectionDetails struct {
	Size uint64 `json:"size"`
}

// DataV2 is the descriptive part of a metadata record.
type DataV2 struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator // nil means no creators
	Collection           *Collection
	Uses                 *Uses
}

// CreateMetadataRequest is a typed registry call. Only RequestVersionV3 is defined.
type CreateMetadataRequest struct {
	Version                 RequestVersion
	Metadata                common.PublicKey
	Mint                    common.PublicKey
	MintAuthority           common.PublicKey
	Payer                   common.PublicKey
	UpdateAuthority         common.PublicKey
	UpdateAuthorityIsSigner bool
	IsMutable               bool
	Data                    DataV2
	CollectionDetails       *CollectionDetails
}

// MetadataRecord is a registered metadata record.
type MetadataRecord struct {
	Address             common.PublicKey
	Mint                common.PublicKey
	UpdateAuthority     common.PublicKey
	Data                DataV2
	PrimarySaleHappened bool
	IsMutable           bool
	CollectionDetails   *CollectionDetails
}

// ValidateFieldLengths checks name, symbol and uri against the registry limits.
func (d DataV2) ValidateFieldLengths() error {
	for _, field := range []struct {
		name  string
		value string
		limit int
	}{
		{"name", d.Name, MaxNameLength},
		{"symbol", d.Symbol, MaxSymbolLength},
		{"uri", d.URI, MaxURILength},
	} {
		if len(field.value) > field.limit {
			return errors.Wrapf(errs.InvalidMetadataLength, "%s is %d bytes, limit is %d", field.name, len(field.value), field.limit)
		}
		if !utf8.ValidString(field.value) {
			return errors.Wrapf(errs.InvalidArgument, "%s is not valid utf-8", field.name)
		}
	}
	return nil
}

// Validate checks everything the registry checks without reading the ledger.
func (d DataV2) Validate() error {
	if err := d.ValidateFieldLengths(); err != nil {
		return errors.WithStack(err)
	}
	if d.SellerFeeBasisPoints > MaxSellerFeeBasisPoints {
		return errors.Wrapf(errs.InvalidArgument, "seller fee %d basis points exceeds %d", d.SellerFeeBasisPoints, MaxSellerFeeBasisPoints)
	}
	if d.Creators == nil {
		return nil
	}
	if len(d.Creators) == 0 {
		return errors.Wrap(errs.InvalidArgument, "creators must not be empty when present")
	}
	if len(d.Creators) > MaxCreatorLimit {
		return errors.Wrapf(errs.InvalidArgument, "%d creators exceed limit %d", len(d.Creators), MaxCreatorLimit)
	}
	addresses := lo.Map(d.Creators, func(c Creator, _ int) common.PublicKey { return c.Address })
	if len(lo.Uniq(addresses)) != len(addresses) {
		return errors.Wrap(errs.InvalidArgument, "creator addresses must be unique")
	}
	shares := lo.SumBy(d.Creators, func(c Creator) int { return int(c.Share) })
	if shares != TotalCreatorShares {
		return errors.Wrapf(errs.InvalidArgument, "creator shares sum to %d, must be %d", shares, TotalCreatorShares)
	}
	return nil
}

// Validate checks the request shape and its data.
func (r CreateMetadataRequest) Validate() error {
	if r.Version != RequestVersionV3 {
		return errors.Wrapf(errs.Unsupported, "registry request version %d", r.Version)
	}
	if err := r.Data.Validate(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// VerifiedCreators returns the creators whose attestation needs a co-signature.
func (d DataV2) VerifiedCreators() []common.PublicKey {
	verified := lo.Filter(d.Creators, func(c Creator, _ int) bool { return c.Verified })
	return lo.Map(verified, func(c Creator, _ int) common.PublicKey { return c.Address })
}
