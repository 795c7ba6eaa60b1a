// Package tuition implements the student-facing half of the reconciliation
// engine: monthly payment status, unpaid-balance detection, and the recording
// of tuition payments against enrollments.
package tuition

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// RESULT TYPES - recomputed on every query, never persisted
// =============================================================================

// StudentPaymentStatus is the derived billing state of one student for one
// billing month.
type StudentPaymentStatus struct {
	StudentID ledger.StudentID
	Period    ledger.YearMonth

	// HasPaidInMonth is true when at least one payment was recorded for the
	// billing month.
	HasPaidInMonth bool

	// TotalPaidInMonth sums the month's payments across all enrollments.
	TotalPaidInMonth decimal.Decimal

	// ExpectedAmount sums the prices of every course the student is
	// currently enrolled in, evaluated at query time.
	ExpectedAmount decimal.Decimal

	// RemainingAmount is expected minus paid, floored at zero.
	RemainingAmount decimal.Decimal

	Status ledger.PaymentStatus

	// LastPaymentAt is the student's lifetime most recent payment timestamp,
	// independent of the queried month. Nil when the student never paid.
	LastPaymentAt *time.Time
}

// UnpaidStudentRecord is one (student, group) pair with money still owed.
// A student enrolled in two unpaid groups yields two records.
type UnpaidStudentRecord struct {
	StudentID       ledger.StudentID
	FirstName       string
	LastName        string
	Phone           string
	ParentPhone     string
	RemainingAmount decimal.Decimal
	GroupID         ledger.GroupID
	GroupName       string
}
