/*
recorder.go - Tuition payment recording with membership enforcement

PURPOSE:
  The only write path for tuition money. Validates the business invariants
  before anything touches the store:

  1. The student and group must exist.
  2. The (student, group) pair must be an ACTIVE enrollment - payments
     against groups the student left (or never joined) are rejected.
  3. The amount must be strictly positive.

  Overpayment is allowed: families pre-pay months ahead, and corrections
  arrive as extra payments. There is no cap against the course price.

CORRECTIONS:
  A recorded payment is immutable except for its amount, which can be
  corrected through UpdateAmount (same positive-amount rule, still no cap).
  Deletion is a hard delete; derived values simply recompute without it.

SEE ALSO:
  - status.go, unpaid.go: read paths over the recorded payments
*/
package tuition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// RECORD REQUEST
// =============================================================================

// RecordRequest carries everything needed to record one tuition payment.
// The course is resolved from the group, not supplied by the caller.
type RecordRequest struct {
	StudentID   ledger.StudentID
	GroupID     ledger.GroupID
	Amount      decimal.Decimal
	Period      ledger.YearMonth
	Description string
}

// =============================================================================
// RECORDER
// =============================================================================

// Recorder validates and appends tuition payments.
type Recorder struct {
	dir      ledger.Directory
	payments ledger.PaymentStore
	now      func() time.Time
}

func NewRecorder(dir ledger.Directory, payments ledger.PaymentStore) *Recorder {
	return &Recorder{dir: dir, payments: payments, now: time.Now}
}

// Record validates the request and appends a payment. All checks run before
// the single-row append; a failed check mutates nothing.
func (r *Recorder) Record(ctx context.Context, req RecordRequest) (ledger.TuitionPayment, error) {
	if !req.Amount.IsPositive() {
		return ledger.TuitionPayment{}, &ledger.InvalidAmountError{Amount: req.Amount}
	}
	if !req.Period.Valid() {
		return ledger.TuitionPayment{}, ledger.ErrInvalidPeriod
	}

	student, err := r.dir.GetStudent(ctx, req.StudentID)
	if err != nil {
		return ledger.TuitionPayment{}, err
	}
	group, err := r.dir.GetGroup(ctx, req.GroupID)
	if err != nil {
		return ledger.TuitionPayment{}, err
	}

	enrolled, err := r.dir.IsEnrolled(ctx, student.ID, group.ID)
	if err != nil {
		return ledger.TuitionPayment{}, fmt.Errorf("enrollment check: %w", err)
	}
	if !enrolled {
		return ledger.TuitionPayment{}, &ledger.NotEnrolledError{StudentID: student.ID, GroupID: group.ID}
	}

	// The group's course is captured on the payment so later aggregation
	// doesn't depend on the group keeping the same course.
	course, err := r.dir.GetCourse(ctx, group.CourseID)
	if err != nil {
		return ledger.TuitionPayment{}, err
	}

	payment := ledger.TuitionPayment{
		ID:          ledger.PaymentID(uuid.NewString()),
		StudentID:   student.ID,
		CourseID:    course.ID,
		GroupID:     group.ID,
		BranchID:    group.BranchID,
		Amount:      req.Amount,
		Description: req.Description,
		Period:      req.Period,
		CreatedAt:   r.now().UTC(),
	}

	if err := r.payments.AppendTuitionPayment(ctx, payment); err != nil {
		return ledger.TuitionPayment{}, fmt.Errorf("append payment: %w", err)
	}
	return payment, nil
}

// UpdateAmount corrects the amount of an existing payment.
func (r *Recorder) UpdateAmount(ctx context.Context, id ledger.PaymentID, amount decimal.Decimal) (ledger.TuitionPayment, error) {
	if !amount.IsPositive() {
		return ledger.TuitionPayment{}, &ledger.InvalidAmountError{Amount: amount}
	}
	if err := r.payments.UpdateTuitionPaymentAmount(ctx, id, amount); err != nil {
		return ledger.TuitionPayment{}, err
	}
	return r.payments.GetTuitionPayment(ctx, id)
}

// Delete hard-deletes a payment record.
func (r *Recorder) Delete(ctx context.Context, id ledger.PaymentID) error {
	return r.payments.DeleteTuitionPayment(ctx, id)
}
