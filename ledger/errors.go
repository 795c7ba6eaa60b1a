/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Not-found errors - referenced records that do not exist
  2. Validation errors - business rule violations at recording time
  3. Store errors - database-level failures

All errors are synchronous and final: nothing in this engine is retried
internally, and no partial results are returned alongside an error.

USAGE:
  Callers classify with the helpers:

    if ledger.IsNotFound(err) { ... 404 ... }
    if ledger.IsClientError(err) { ... 400 ... }

SEE ALSO:
  - tuition/recorder.go: wraps ErrNotEnrolled with membership context
  - api/handlers.go: maps classifications to HTTP statuses
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBranchNotFound is returned when a referenced branch doesn't exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrCourseNotFound is returned when a referenced course doesn't exist.
	ErrCourseNotFound = errors.New("course not found")

	// ErrStudentNotFound is returned when a referenced student doesn't exist.
	ErrStudentNotFound = errors.New("student not found")

	// ErrTeacherNotFound is returned when a referenced teacher doesn't exist.
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrGroupNotFound is returned when a referenced group doesn't exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrPaymentNotFound is returned when a tuition payment id doesn't exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrSalaryPaymentNotFound is returned when a salary payment id doesn't exist.
	ErrSalaryPaymentNotFound = errors.New("salary payment not found")

	// ErrExpenseNotFound is returned when an expense id doesn't exist.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidAmount is returned when a payment amount is zero or negative.
	// Rejected before any mutation.
	ErrInvalidAmount = errors.New("payment amount must be greater than zero")

	// ErrNotEnrolled is returned when a payment references a (student, group)
	// pair without an active enrollment. Rejected before any mutation.
	ErrNotEnrolled = errors.New("student is not enrolled in group")

	// ErrInvalidPeriod is returned when a billing month is malformed.
	ErrInvalidPeriod = errors.New("invalid billing period")

	// ErrAlreadyEnrolled is returned when enrolling a student into a group
	// they already belong to.
	ErrAlreadyEnrolled = errors.New("student already enrolled in group")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidAmountError reports the offending amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: must be greater than zero", e.Amount)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// NotEnrolledError reports which membership check failed.
type NotEnrolledError struct {
	StudentID StudentID
	GroupID   GroupID
}

func (e *NotEnrolledError) Error() string {
	return fmt.Sprintf("student %s is not enrolled in group %s", e.StudentID, e.GroupID)
}

func (e *NotEnrolledError) Unwrap() error { return ErrNotEnrolled }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBranchNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrTeacherNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrSalaryPaymentNotFound) ||
		errors.Is(err, ErrExpenseNotFound)
}

// IsClientError returns true if the error is due to invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNotEnrolled) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrAlreadyEnrolled)
}
