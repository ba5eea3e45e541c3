// Package money holds monetary amounts as integer minor units (cents) and
// provides the rounding rules used wherever a price is derived.
//
// Amounts only become decimals at the boundary: when parsed from a request,
// formatted for a response, or multiplied by a fractional quantity.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount of money in minor units.
type Cents int64

// Zero is the zero amount.
const Zero Cents = 0

var hundred = decimal.NewFromInt(100)

// FromDecimal rounds a major-unit amount (e.g. 12.345) to the nearest cent,
// half away from zero.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}

// Parse converts a decimal string such as "27.50" into Cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with exactly two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Float64 returns the amount in major units. Only for metrics and display.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

// MulQuantity returns round(qty * c) to the cent.
func (c Cents) MulQuantity(qty decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(qty).Round(0).IntPart())
}

// ApplyPercentOff returns round(c * (1 - pct/100)), clamped at zero.
func (c Cents) ApplyPercentOff(pct decimal.Decimal) Cents {
	factor := hundred.Sub(pct)
	v := Cents(decimal.NewFromInt(int64(c)).Mul(factor).Div(hundred).Round(0).IntPart())
	return v.ClampZero()
}

// DivideRound returns round(c / n) to the cent. n must be positive.
func (c Cents) DivideRound(n int) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Div(decimal.NewFromInt(int64(n))).Round(0).IntPart())
}

// ClampZero returns c, or zero when c is negative.
func (c Cents) ClampZero() Cents {
	if c < 0 {
		return 0
	}
	return c
}
