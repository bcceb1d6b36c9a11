// Package money does the ledger arithmetic on decimals so repeated balance
// updates do not accumulate binary floating point error.
package money

import "github.com/shopspring/decimal"

// BalancePlaces is the precision wallet balances are kept at.
const BalancePlaces = 8

// DefaultCommissionRate is the platform's share of a completed payment.
const DefaultCommissionRate = 0.05

// MaxAmount is the largest amount a single operation accepts.
const MaxAmount = 1e15

// InRange reports whether amount is positive and no larger than MaxAmount.
func InRange(amount float64) bool {
	return amount > 0 && amount <= MaxAmount
}

// Normalize rounds an amount to balance precision.
func Normalize(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(BalancePlaces).InexactFloat64()
}

// Add returns balance + delta at balance precision. Delta may be negative.
func Add(balance, delta float64) float64 {
	return decimal.NewFromFloat(balance).
		Add(decimal.NewFromFloat(delta)).
		Round(BalancePlaces).
		InexactFloat64()
}

// Covers reports whether balance is enough to pay amount.
func Covers(balance, amount float64) bool {
	return decimal.NewFromFloat(balance).GreaterThanOrEqual(decimal.NewFromFloat(amount))
}

// Fee returns amount * rate rounded to minor units (two places).
func Fee(amount, rate float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(2).
		InexactFloat64()
}
