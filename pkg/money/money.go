// Package money keeps summary arithmetic exact. Prices arrive as JSON floats;
// every computation happens on decimals and only the final two-decimal rounding
// is handed back to callers.
package money

import "github.com/shopspring/decimal"

// D lifts a float price into decimal space.
func D(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// Line computes unit price times quantity.
func Line(unitPrice float64, quantity int) decimal.Decimal {
	return D(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// Percent computes value% of base.
func Percent(base decimal.Decimal, value float64) decimal.Decimal {
	return base.Mul(D(value)).Div(decimal.NewFromInt(100))
}

// Rate multiplies base by a fractional rate such as a tax rate.
func Rate(base decimal.Decimal, rate float64) decimal.Decimal {
	return base.Mul(D(rate))
}

// Round settles an amount to cents, half away from zero.
func Round(amount decimal.Decimal) float64 {
	rounded, _ := amount.Round(2).Float64()
	return rounded
}
