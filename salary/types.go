// Package salary implements the teacher-facing half of the reconciliation
// engine: gross compensation from the three salary models and reconciliation
// of disbursed salary payments against it.
package salary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// RESULT TYPES - recomputed on every query, never persisted
// =============================================================================

// GroupBreakdown reports one group's contribution to a teacher's salary
// calculation. Enrolled counts and course price are included for
// transparency; only paying students and their payments feed the formula.
type GroupBreakdown struct {
	GroupID    ledger.GroupID
	GroupName  string
	CourseName string

	// PaidStudents counts enrolled students with a nonzero payment toward
	// this group in the billing month.
	PaidStudents int

	// Payments sums those students' payments toward this group.
	Payments decimal.Decimal

	// EnrolledStudents counts everyone enrolled, paying or not.
	EnrolledStudents int

	CoursePrice decimal.Decimal
}

// Calculation is the derived compensation picture for one teacher and one
// billing month.
type Calculation struct {
	TeacherID   ledger.TeacherID
	TeacherName string
	BranchID    ledger.BranchID
	BranchName  string
	Period      ledger.YearMonth

	BaseSalary         decimal.Decimal
	PaymentBasedSalary decimal.Decimal
	TotalSalary        decimal.Decimal

	// TotalStudentPayments sums Payments across all the teacher's groups.
	TotalStudentPayments decimal.Decimal

	// PaidStudents sums PaidStudents across all the teacher's groups.
	PaidStudents int

	// AlreadyPaid sums the disbursements recorded for this billing month.
	AlreadyPaid decimal.Decimal

	// RemainingAmount is total minus disbursed, floored at zero.
	RemainingAmount decimal.Decimal

	Groups []GroupBreakdown
}

// HistoryEntry is one reconciled billing month in a teacher's salary
// history. TotalSalary is recomputed at query time with the teacher's
// current parameters, not the parameters in effect when paid.
type HistoryEntry struct {
	TeacherID   ledger.TeacherID
	TeacherName string
	Period      ledger.YearMonth

	TotalSalary     decimal.Decimal
	TotalPaid       decimal.Decimal
	RemainingAmount decimal.Decimal
	FullyPaid       bool
	LastPaymentAt   *time.Time
	PaymentCount    int
}
