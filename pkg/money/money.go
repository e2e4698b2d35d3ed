// Package money holds the rounding rules applied to every monetary aggregate.
//
// Amounts are carried as float64 in entities and JSON, but every arithmetic
// step that produces a persisted figure (line total, subtotal, tax, total,
// issue value, variance value) goes through decimal and is rounded to cents
// with banker's rounding so repeated saves never drift.
package money

import "github.com/shopspring/decimal"

// Round2 rounds n to cents, half to even.
func Round2(n float64) float64 {
	return decimal.NewFromFloat(n).RoundBank(2).InexactFloat64()
}

// Mul returns round2(a*b) computed in decimal.
func Mul(a, b float64) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).RoundBank(2).InexactFloat64()
}

// Sum adds the values in decimal and rounds the result to cents.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.RoundBank(2).InexactFloat64()
}

// Div returns round2(a/b), or 0 when b is not positive.
func Div(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return decimal.NewFromFloat(a).Div(decimal.NewFromFloat(b)).RoundBank(2).InexactFloat64()
}

// Delta returns a-b computed in decimal without rounding. Quantities use it;
// only money is rounded to cents.
func Delta(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}
