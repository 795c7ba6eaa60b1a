/*
model.go - Salary models

PURPOSE:
  Turns a teacher record into a concrete compensation model. Three models
  exist:

    Fixed:      total = base salary; student payments are irrelevant
    Percentage: total = student payments x pct / 100 (base salary ignored
                even when set)
    Mixed:      total = base salary + the percentage share

  The percentage share is rounded to 2 decimal places half-up at the formula
  boundary; the payment sum feeding it keeps full precision.

UNRECOGNIZED TYPES:
  A teacher with a salary type outside the enumeration still gets paid:
  ModelFor falls back to a fixed model on the base salary and logs the
  misconfiguration. Salary calculation must never fail on a bad enum value.

SEE ALSO:
  - calculator.go: feeds the month's student payments into the model
*/
package salary

import (
	"log"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// MODEL - one variant per salary type
// =============================================================================

// Model computes gross compensation from a month's student payments.
// Implementations are the three salary types; each returns the total and
// the payment-based share of it.
type Model interface {
	// Compensation returns (totalSalary, paymentBasedSalary) for the given
	// sum of student payments.
	Compensation(studentPayments decimal.Decimal) (total, paymentBased decimal.Decimal)
}

// Fixed pays the base salary regardless of student payments.
type Fixed struct {
	Base decimal.Decimal
}

func (f Fixed) Compensation(decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return f.Base, decimal.Zero
}

// Percentage pays a share of student payments; any configured base salary
// is ignored entirely.
type Percentage struct {
	Pct decimal.Decimal // percent, 0-100
}

func (p Percentage) Compensation(studentPayments decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	share := ledger.PercentOf(studentPayments, p.Pct)
	return share, share
}

// Mixed pays the base salary plus a share of student payments.
type Mixed struct {
	Base decimal.Decimal
	Pct  decimal.Decimal
}

func (m Mixed) Compensation(studentPayments decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	share := ledger.PercentOf(studentPayments, m.Pct)
	return m.Base.Add(share), share
}

// =============================================================================
// MODEL FACTORY
// =============================================================================

// ModelFor maps a teacher record to its compensation model. Unrecognized
// salary types fall back to Fixed on the base salary - a visible, logged
// branch, not a silent default.
func ModelFor(t ledger.Teacher) Model {
	switch t.SalaryType {
	case ledger.SalaryFixed:
		return Fixed{Base: t.BaseSalary}
	case ledger.SalaryPercentage:
		return Percentage{Pct: t.PaymentPercentage}
	case ledger.SalaryMixed:
		return Mixed{Base: t.BaseSalary, Pct: t.PaymentPercentage}
	default:
		log.Printf("salary: teacher %s has unsupported salary type %q, falling back to fixed", t.ID, t.SalaryType)
		return Fixed{Base: t.BaseSalary}
	}
}
