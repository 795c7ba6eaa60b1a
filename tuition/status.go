/*
status.go - Student payment status calculation

PURPOSE:
  Answers "where does this student stand for month M?" - the central
  per-student derivation. Pulls the month's payments and the student's
  current enrollments, and classifies the month as UNPAID, PARTIAL or PAID.

CLASSIFICATION:
  totalPaid == 0            -> UNPAID
  totalPaid >= expected     -> PAID
  otherwise                 -> PARTIAL

  A student with no enrollments and no payments is UNPAID (expected and
  remaining both zero); there is no separate "not applicable" state.

EXPECTED AMOUNT:
  Sum of course prices over the student's CURRENT enrollments at CURRENT
  prices, even when querying past months. A past month's status can
  therefore shift if enrollments or prices changed since - a known
  limitation, kept on purpose rather than silently reinterpreted.

SEE ALSO:
  - unpaid.go: the per-group batch variant (different aggregation rule)
  - recorder.go: the write path feeding this calculation
*/
package tuition

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// STATUS CALCULATOR
// =============================================================================

// StatusCalculator derives a student's monthly payment status. Stateless;
// safe for concurrent use.
type StatusCalculator struct {
	dir      ledger.Directory
	payments ledger.PaymentStore
}

func NewStatusCalculator(dir ledger.Directory, payments ledger.PaymentStore) *StatusCalculator {
	return &StatusCalculator{dir: dir, payments: payments}
}

// Status computes the payment status for one student and billing month.
// Idempotent: identical inputs over unchanged records yield identical
// results. No side effects.
func (c *StatusCalculator) Status(ctx context.Context, studentID ledger.StudentID, period ledger.YearMonth) (StudentPaymentStatus, error) {
	if !period.Valid() {
		return StudentPaymentStatus{}, ledger.ErrInvalidPeriod
	}
	if _, err := c.dir.GetStudent(ctx, studentID); err != nil {
		return StudentPaymentStatus{}, err
	}

	totalPaid, err := c.payments.SumByStudentMonth(ctx, studentID, period)
	if err != nil {
		return StudentPaymentStatus{}, fmt.Errorf("sum payments for student %s: %w", studentID, err)
	}

	expected, err := c.expectedMonthly(ctx, studentID)
	if err != nil {
		return StudentPaymentStatus{}, err
	}

	lastPaid, err := c.payments.LastPaymentAt(ctx, studentID)
	if err != nil {
		return StudentPaymentStatus{}, fmt.Errorf("last payment for student %s: %w", studentID, err)
	}

	status := ledger.StatusPartial
	switch {
	case totalPaid.IsZero():
		status = ledger.StatusUnpaid
	case totalPaid.GreaterThanOrEqual(expected):
		status = ledger.StatusPaid
	}

	return StudentPaymentStatus{
		StudentID:        studentID,
		Period:           period,
		HasPaidInMonth:   totalPaid.IsPositive(),
		TotalPaidInMonth: totalPaid,
		ExpectedAmount:   expected,
		RemainingAmount:  ledger.ClampNonNegative(expected.Sub(totalPaid)),
		Status:           status,
		LastPaymentAt:    lastPaid,
	}, nil
}

// expectedMonthly sums the course prices reachable through the student's
// current enrollments.
func (c *StatusCalculator) expectedMonthly(ctx context.Context, studentID ledger.StudentID) (decimal.Decimal, error) {
	groups, err := c.dir.GroupsByStudent(ctx, studentID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("groups for student %s: %w", studentID, err)
	}

	expected := decimal.Zero
	for _, g := range groups {
		course, err := c.dir.GetCourse(ctx, g.CourseID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("course %s for group %s: %w", g.CourseID, g.ID, err)
		}
		expected = expected.Add(course.Price)
	}
	return expected, nil
}
