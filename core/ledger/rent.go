package ledger

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
)

const (
	// AccountStorageOverhead is the number of bytes charged for every account on top of its data.
	AccountStorageOverhead = 128

	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2
)

// Rent holds the rent sysvar parameters of the ledger.
type Rent struct {
	LamportsPerByteYear uint64 `mapstructure:"lamports_per_byte_year"`
	ExemptionThreshold  uint64 `mapstructure:"exemption_threshold"` // years
}

// DefaultRent is the rent charged by Solana clusters.
var DefaultRent = Rent{
	LamportsPerByteYear: DefaultLamportsPerByteYear,
	ExemptionThreshold:  DefaultExemptionThreshold,
}

// WithDefaults fills zero fields with DefaultRent values.
func (r Rent) WithDefaults() Rent {
	return Rent{
		LamportsPerByteYear: utils.Default(r.LamportsPerByteYear, DefaultLamportsPerByteYear),
		ExemptionThreshold:  utils.Default(r.ExemptionThreshold, DefaultExemptionThreshold),
	}
}

// MinimumBalance returns the lamports an account with dataLen bytes needs to be rent exempt.
func (r Rent) MinimumBalance(dataLen uint64) uint64 {
	return (AccountStorageOverhead + dataLen) * r.LamportsPerByteYear * r.ExemptionThreshold
}

// IsExempt reports whether an account holding lamports with dataLen bytes is rent exempt.
func (r Rent) IsExempt(lamports uint64, dataLen uint64) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// checkedAdd returns a+b or errs.OverflowUint64.
func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.WithStack(errs.OverflowUint64)
	}
	return sum, nil
}
