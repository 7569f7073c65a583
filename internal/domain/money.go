package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts are stored as integer minor units with two implied decimal places.
const minorExponent = 2

// ToMinorUnits converts a major-unit amount to integer minor units. Amounts
// with more than two decimal places are rejected rather than rounded, so the
// stored value is always exact.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.Equal(amount.Round(minorExponent)) {
		return 0, fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, amount)
	}

	return amount.Shift(minorExponent).IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a major-unit amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorExponent)
}
