// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors. All amounts the
// system stores are rounded to two places with Round2 before persisting.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds a monetary value to two decimal places, half up.
// decimal.Round is half-away-from-zero; amounts here are never negative,
// so the two rules coincide.
func Round2(m Money) Money {
	return m.Round(2)
}

// LineTotal computes quantity × unitPrice rounded to two places.
func LineTotal(quantity int, unitPrice Money) Money {
	return Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}
