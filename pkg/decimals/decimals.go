// Package decimals converts between integer base units and their decimal display amounts.
package decimals

import (
	"math"
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

const (
	// SOLDecimals is the number of decimals between lamports and SOL.
	SOLDecimals = 9
)

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal converts an integer amount of base units to its display amount.
func ToDecimal[T constraints.Unsigned, D constraints.Integer](value T, decimals D) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(value)), -int32(decimals))
}

// ToBaseUnits converts a display amount to base units. The amount must be non-negative, fit in
// uint64 and carry no more than decimals fractional digits.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %s is negative", amount)
	}
	units := amount.Mul(PowerOfTen(decimals))
	if !units.Equal(units.Truncate(0)) {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %s has more than %d decimals", amount, decimals)
	}
	if units.GreaterThan(decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)) {
		return 0, errors.Wrapf(errs.OverflowUint64, "amount %s overflows", amount)
	}
	return units.BigInt().Uint64(), nil
}

// LamportsToSOL returns the SOL amount of lamports.
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return ToDecimal(lamports, SOLDecimals)
}

// SOLToLamports parses a SOL amount, E.g. `1.5`, into lamports.
func SOLToLamports(sol string) (uint64, error) {
	amount, err := decimal.NewFromString(sol)
	if err != nil {
		return 0, errors.Wrapf(errs.InvalidArgument, "invalid SOL amount %q: %v", sol, err)
	}
	lamports, err := ToBaseUnits(amount, SOLDecimals)
	return lamports, errors.WithStack(err)
}
