package domain

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// CalculateCommission computes round(orderAmount * rate / 100, 2) with
// half-up rounding. The arithmetic runs through decimals end to end so
// currency values never touch binary floating point on the way.
func CalculateCommission(orderAmount, ratePercent float64) float64 {
	amount := decimal.NewFromFloat(orderAmount)
	rate := decimal.NewFromFloat(ratePercent)
	commission := amount.Mul(rate).Div(oneHundred).Round(2)
	out, _ := commission.Float64()
	return out
}

// Round2 normalizes a currency value to 2 decimal places, half-up.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
