package utils

import (
	"errors"
	"math/big"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ToMinorUnits converts a decimal amount such as "1500.559" into minor units
// (kobo, cents), flooring any fraction beyond two places.
func ToMinorUnits(amount string) (int64, error) {
	value, ok := new(big.Rat).SetString(strings.TrimSpace(amount))
	if !ok || value.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	value.Mul(value, big.NewRat(100, 1))
	minor := new(big.Int).Quo(value.Num(), value.Denom())
	if !minor.IsInt64() || minor.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	return minor.Int64(), nil
}
