// Package money formats parsed expense amounts for display using ISO-4217
// currency rules. Amounts are carried as decimals and only converted to minor
// units at the display edge.
package money

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	TWD = "TWD" // New Taiwan Dollar
	USD = "USD" // US Dollar
	EUR = "EUR" // Euro
	JPY = "JPY" // Japanese Yen (no decimal places)
	CNY = "CNY" // Chinese Yuan
)

// Money is a display-ready amount in one currency.
type Money struct {
	m *money.Money
}

// IsKnownCurrency reports whether code is a currency go-money knows about.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

// NewFromDecimal creates Money from a decimal amount, rounding half away from
// zero to the currency's minor unit. Unknown currencies fall back to TWD.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	code := strings.ToUpper(currencyCode)
	currency := money.GetCurrency(code)
	if currency == nil {
		code = TWD
		currency = money.GetCurrency(TWD)
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(multiplier).Round(0).IntPart()

	return &Money{m: money.New(minor, code)}
}

// Display returns a formatted string for display (e.g., "NT$1,234.00")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "0"
	}
	return m.m.Display()
}

// ToDecimal returns the rounded amount in major units.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}

// String returns the rounded amount as a plain decimal string (e.g., "1234.5")
func (m *Money) String() string {
	return m.ToDecimal().String()
}

// Sum adds amounts that share one currency.
func Sum(currencyCode string, amounts ...decimal.Decimal) *Money {
	total := decimal.Sum(decimal.Zero, amounts...)
	return NewFromDecimal(total, currencyCode)
}
