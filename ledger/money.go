package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// MONEY HELPERS - decimal arithmetic shared by all calculators
// =============================================================================
// Intermediate sums keep full precision; rounding to 2 decimal places
// happens only at formula-output boundaries (see RoundMoney callers).

var hundred = decimal.NewFromInt(100)

// Money parses a decimal string, returning zero on malformed input.
// Intended for trusted storage round-trips, not user input.
func Money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundMoney rounds to 2 decimal places using half-up rounding.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns amount * pct / 100 rounded to 2 decimal places half-up.
// pct is a percentage (0-100), not a fraction.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).DivRound(hundred, 2)
}

// ClampNonNegative floors a balance at zero. Overpayment never yields a
// negative remaining amount.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
