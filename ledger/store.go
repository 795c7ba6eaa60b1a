/*
store.go - Query and append interfaces backing the engine

PURPOSE:
  Defines the boundary between the calculators and the database. The engine
  only ever pulls records through these interfaces and appends through the
  two payment-recording operations; it never caches what it reads.

KEY INTERFACES:
  Directory:    Entity lookups and enrollment queries
  PaymentStore: Tuition payment appends, corrections and aggregates
  SalaryStore:  Salary payment appends and aggregates
  ExpenseStore: Branch operating expense appends and aggregates
  Store:        All of the above (what a concrete backend implements)

AGGREGATES:
  Sum/Count/Last queries return zero values (decimal.Zero, 0, nil) when no
  rows match - callers never see "no rows" as an error for aggregates.

CONSISTENCY:
  Implementations must be read-your-writes consistent within one computation.
  Appends and amount corrections are single-row atomic; no cross-entity
  transaction is required.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite backend
  - ledger/store: in-memory backend for tests and demos

SEE ALSO:
  - tuition/: consumes Directory + PaymentStore
  - salary/:  consumes Directory + PaymentStore + SalaryStore
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DIRECTORY - Entity lookups and enrollment queries
// =============================================================================

// Directory resolves entity records and enrollment relationships.
// Lookups return the matching not-found sentinel when the id is unknown.
type Directory interface {
	GetBranch(ctx context.Context, id BranchID) (Branch, error)
	GetCourse(ctx context.Context, id CourseID) (Course, error)
	GetStudent(ctx context.Context, id StudentID) (Student, error)
	GetTeacher(ctx context.Context, id TeacherID) (Teacher, error)
	GetGroup(ctx context.Context, id GroupID) (Group, error)

	// GroupsByBranch returns every group in a branch.
	GroupsByBranch(ctx context.Context, branchID BranchID) ([]Group, error)

	// GroupsByTeacher returns the groups a teacher owns.
	GroupsByTeacher(ctx context.Context, teacherID TeacherID) ([]Group, error)

	// GroupsByStudent returns the groups a student is currently enrolled in.
	GroupsByStudent(ctx context.Context, studentID StudentID) ([]Group, error)

	// StudentsByGroup returns the students currently enrolled in a group.
	StudentsByGroup(ctx context.Context, groupID GroupID) ([]Student, error)

	// TeachersByBranch returns every teacher in a branch.
	TeachersByBranch(ctx context.Context, branchID BranchID) ([]Teacher, error)

	// IsEnrolled reports whether (student, group) is an active enrollment.
	IsEnrolled(ctx context.Context, studentID StudentID, groupID GroupID) (bool, error)
}

// =============================================================================
// PAYMENT STORE - Tuition payments
// =============================================================================

// PaymentStore persists tuition payments and answers the aggregate queries
// the calculators are built on.
type PaymentStore interface {
	// AppendTuitionPayment persists one payment record. Single-row atomic.
	AppendTuitionPayment(ctx context.Context, p TuitionPayment) error

	// GetTuitionPayment returns one payment or ErrPaymentNotFound.
	GetTuitionPayment(ctx context.Context, id PaymentID) (TuitionPayment, error)

	// UpdateTuitionPaymentAmount corrects the amount of an existing payment.
	// The only permitted mutation of a recorded payment.
	UpdateTuitionPaymentAmount(ctx context.Context, id PaymentID, amount decimal.Decimal) error

	// DeleteTuitionPayment hard-deletes a payment record.
	DeleteTuitionPayment(ctx context.Context, id PaymentID) error

	// PaymentsByStudent returns all payments ever recorded for a student,
	// newest first.
	PaymentsByStudent(ctx context.Context, studentID StudentID) ([]TuitionPayment, error)

	// PaymentsByBranchMonth returns a branch's payments for one billing month.
	PaymentsByBranchMonth(ctx context.Context, branchID BranchID, period YearMonth) ([]TuitionPayment, error)

	// SumByStudentMonth totals a student's payments for a billing month
	// across all of their enrollments.
	SumByStudentMonth(ctx context.Context, studentID StudentID, period YearMonth) (decimal.Decimal, error)

	// SumByStudentGroupMonth totals a student's payments toward one group
	// for a billing month.
	SumByStudentGroupMonth(ctx context.Context, studentID StudentID, groupID GroupID, period YearMonth) (decimal.Decimal, error)

	// SumByStudentCourseMonth totals a student's payments toward one course
	// for a billing month.
	SumByStudentCourseMonth(ctx context.Context, studentID StudentID, courseID CourseID, period YearMonth) (decimal.Decimal, error)

	// SumByStudentCourse totals a student's payments toward one course over
	// all time.
	SumByStudentCourse(ctx context.Context, studentID StudentID, courseID CourseID) (decimal.Decimal, error)

	// SumByBranchRange totals a branch's payments with CreatedAt in [from, to].
	SumByBranchRange(ctx context.Context, branchID BranchID, from, to time.Time) (decimal.Decimal, error)

	// SumByBranchMonth totals a branch's payments for one billing month.
	SumByBranchMonth(ctx context.Context, branchID BranchID, period YearMonth) (decimal.Decimal, error)

	// LastPaymentAt returns the CreatedAt of a student's most recent payment,
	// or nil if the student has never paid. Lifetime, not month-scoped.
	LastPaymentAt(ctx context.Context, studentID StudentID) (*time.Time, error)
}

// =============================================================================
// SALARY STORE - Teacher salary disbursements
// =============================================================================

// SalaryStore persists salary disbursements and their aggregates.
type SalaryStore interface {
	// AppendSalaryPayment persists one disbursement record. Single-row atomic.
	AppendSalaryPayment(ctx context.Context, p SalaryPayment) error

	// GetSalaryPayment returns one disbursement or ErrSalaryPaymentNotFound.
	GetSalaryPayment(ctx context.Context, id SalaryPaymentID) (SalaryPayment, error)

	// DeleteSalaryPayment hard-deletes a disbursement record.
	DeleteSalaryPayment(ctx context.Context, id SalaryPaymentID) error

	// SalaryPaymentsByTeacher returns a teacher's disbursements, newest first.
	SalaryPaymentsByTeacher(ctx context.Context, teacherID TeacherID) ([]SalaryPayment, error)

	// SalaryPaymentsByBranch returns a branch's disbursements, newest first.
	SalaryPaymentsByBranch(ctx context.Context, branchID BranchID) ([]SalaryPayment, error)

	// SumSalaryPaid totals disbursements for (teacher, period).
	SumSalaryPaid(ctx context.Context, teacherID TeacherID, period YearMonth) (decimal.Decimal, error)

	// CountSalaryPayments counts disbursements for (teacher, period).
	CountSalaryPayments(ctx context.Context, teacherID TeacherID, period YearMonth) (int, error)

	// LastSalaryPaymentAt returns the CreatedAt of the latest disbursement
	// for (teacher, period), or nil when none exists.
	LastSalaryPaymentAt(ctx context.Context, teacherID TeacherID, period YearMonth) (*time.Time, error)

	// SalaryPaymentPeriods returns the distinct billing months that have at
	// least one disbursement for the teacher, in no particular order.
	SalaryPaymentPeriods(ctx context.Context, teacherID TeacherID) ([]YearMonth, error)

	// SumSalaryPaidByBranchRange totals a branch's disbursements with
	// CreatedAt in [from, to].
	SumSalaryPaidByBranchRange(ctx context.Context, branchID BranchID, from, to time.Time) (decimal.Decimal, error)
}

// =============================================================================
// EXPENSE STORE - Branch operating costs
// =============================================================================

// ExpenseStore persists branch operating expenses and their aggregates.
type ExpenseStore interface {
	// AppendExpense persists one expense record. Single-row atomic.
	AppendExpense(ctx context.Context, e Expense) error

	// GetExpense returns one expense or ErrExpenseNotFound.
	GetExpense(ctx context.Context, id ExpenseID) (Expense, error)

	// DeleteExpense hard-deletes an expense record.
	DeleteExpense(ctx context.Context, id ExpenseID) error

	// ExpensesByBranch returns a branch's expenses, newest first.
	ExpensesByBranch(ctx context.Context, branchID BranchID) ([]Expense, error)

	// SumExpensesByBranch totals a branch's expenses over all time.
	SumExpensesByBranch(ctx context.Context, branchID BranchID) (decimal.Decimal, error)

	// SumExpensesByBranchRange totals a branch's expenses with CreatedAt
	// in [from, to].
	SumExpensesByBranchRange(ctx context.Context, branchID BranchID, from, to time.Time) (decimal.Decimal, error)
}

// =============================================================================
// STORE - Everything a concrete backend provides
// =============================================================================

// Store is the full contract a backend implements. Calculators accept the
// narrow interfaces above; wiring code passes a Store.
type Store interface {
	Directory
	PaymentStore
	SalaryStore
	ExpenseStore
}

// =============================================================================
// ENTITY WRITES - administrative plumbing feeding the engine
// =============================================================================

// EntityWriter covers the record-keeping writes that supply the engine's
// inputs. Lifecycle beyond this (renames, cascades, archival) is the calling
// system's concern.
type EntityWriter interface {
	SaveBranch(ctx context.Context, b Branch) error
	SaveCourse(ctx context.Context, c Course) error
	SaveStudent(ctx context.Context, s Student) error
	SaveTeacher(ctx context.Context, t Teacher) error
	SaveGroup(ctx context.Context, g Group) error

	// Enroll adds (student, group); ErrAlreadyEnrolled on duplicates.
	Enroll(ctx context.Context, studentID StudentID, groupID GroupID) error

	// Unenroll removes (student, group); no error if absent.
	Unenroll(ctx context.Context, studentID StudentID, groupID GroupID) error
}
