/*
Package ledger provides the core record types and storage contracts for the
tuition and salary reconciliation engine.

PURPOSE:
  This package defines the raw records the engine consumes (students, teachers,
  courses, groups, payments) and the query interfaces the calculators pull
  them through. The engine itself holds no persistent state: every derived
  value (payment status, unpaid balances, salaries owed) is recomputed from
  these records on each call.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed identifiers: BranchID, CourseID, GroupID, StudentID, TeacherID
  - Entity records: Branch, Course, Student, Teacher, Group
  - Payment records: TuitionPayment (student tuition), SalaryPayment
    (teacher disbursement), Expense (branch operating cost)
  - SalaryType: FIXED / PERCENTAGE / MIXED compensation models

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all monetary values - never floats
  2. Type Safety: Strong typing for IDs prevents mixing student/teacher IDs
  3. Relationships by reference: groups point at courses and teachers by ID;
     enrollment is a (group, student) pair resolved through the store, never
     a pointer graph
  4. Derived state is never stored: calculators return result structs that
     are recomputed on every query

SEE ALSO:
  - money.go: Monetary helpers (rounding, clamping)
  - month.go: YearMonth billing periods
  - store.go: Query and append interfaces
  - errors.go: Error taxonomy
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	BranchID        string
	CourseID        string
	GroupID         string
	StudentID       string
	TeacherID       string
	PaymentID       string
	SalaryPaymentID string
	ExpenseID       string
)

// =============================================================================
// ENTITY RECORDS
// =============================================================================

// Branch is a physical business location scoping teachers, students and
// courses. Engine computations never cross branch boundaries.
type Branch struct {
	ID        BranchID
	Name      string
	Address   string
	CreatedAt time.Time
}

// Course carries the expected monthly charge per enrolled student.
type Course struct {
	ID             CourseID
	BranchID       BranchID
	Name           string
	Price          decimal.Decimal // expected charge per billing month
	DurationMonths int
	CreatedAt      time.Time
}

// Student is billed through group enrollments; a student may belong to
// several groups (and therefore several courses) at once.
type Student struct {
	ID          StudentID
	BranchID    BranchID
	FirstName   string
	LastName    string
	Phone       string
	ParentPhone string
	CreatedAt   time.Time
}

func (s Student) FullName() string { return s.FirstName + " " + s.LastName }

// SalaryType selects how a teacher's monthly compensation is derived.
type SalaryType string

const (
	SalaryFixed      SalaryType = "FIXED"      // flat base salary
	SalaryPercentage SalaryType = "PERCENTAGE" // share of student payments
	SalaryMixed      SalaryType = "MIXED"      // base + share
)

// Teacher owns groups and earns compensation according to SalaryType.
// PaymentPercentage is expressed in percent (0-100), not a fraction.
type Teacher struct {
	ID                TeacherID
	BranchID          BranchID
	FirstName         string
	LastName          string
	BaseSalary        decimal.Decimal
	PaymentPercentage decimal.Decimal
	SalaryType        SalaryType
	CreatedAt         time.Time
}

func (t Teacher) FullName() string { return t.FirstName + " " + t.LastName }

// Group ties enrolled students to one course and one teacher.
type Group struct {
	ID        GroupID
	BranchID  BranchID
	CourseID  CourseID
	TeacherID TeacherID
	Name      string
	CreatedAt time.Time
}

// =============================================================================
// PAYMENT RECORDS
// =============================================================================

// TuitionPayment records one payment event by a student toward a group's
// course for a billing month. Immutable once created; only Amount may be
// corrected through an explicit update.
type TuitionPayment struct {
	ID          PaymentID
	StudentID   StudentID
	CourseID    CourseID // the group's course, captured at record time
	GroupID     GroupID
	BranchID    BranchID
	Amount      decimal.Decimal // > 0, enforced at recording
	Description string
	Period      YearMonth // billing month the payment applies to
	CreatedAt   time.Time
}

// SalaryPayment is an append-only record of a salary disbursement to a
// teacher for a billing month. Disbursements may exceed the calculated
// salary (advances, corrections); the engine never caps them.
type SalaryPayment struct {
	ID          SalaryPaymentID
	TeacherID   TeacherID
	BranchID    BranchID
	Amount      decimal.Decimal // > 0, enforced at recording
	Description string
	Period      YearMonth
	CreatedAt   time.Time
}

// Expense is a branch operating cost outside tuition and salaries (rent,
// utilities, supplies). Expenses are dated by CreatedAt, not by billing
// month: a cost belongs to the day it was incurred.
type Expense struct {
	ID          ExpenseID
	BranchID    BranchID
	Amount      decimal.Decimal // > 0, enforced at recording
	Category    string
	Description string
	CreatedAt   time.Time
}

// =============================================================================
// PAYMENT STATUS
// =============================================================================

// PaymentStatus classifies a student's billing month.
// Rank order matters: UNPAID < PARTIAL < PAID.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "UNPAID"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusPaid    PaymentStatus = "PAID"
)

// Rank returns the ordering position of the status. Paying more never
// lowers the rank.
func (p PaymentStatus) Rank() int {
	switch p {
	case StatusPaid:
		return 2
	case StatusPartial:
		return 1
	default:
		return 0
	}
}
