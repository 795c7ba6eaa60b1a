/*
reconcile.go - Salary payment reconciliation

PURPOSE:
  Tracks disbursed salary payments against calculated compensation. The
  record path validates and appends; the history path recomputes every
  month that has at least one disbursement.

OVERPAYMENT POLICY:
  A disbursement may exceed the remaining amount. Advances and corrections
  are normal business here, so there is no automatic cap - the calculation
  is recomputed at record time purely so the response can show the caller
  where the teacher now stands.

HISTORY:
  One entry per distinct (year, month) with recorded disbursements, newest
  first. Each entry's TotalSalary is recomputed with the teacher's CURRENT
  salary parameters - history shifts when the model changes. Matches the
  rest of the engine: derived values are never frozen.

SEE ALSO:
  - calculator.go: the compensation calculation reconciled against
*/
package salary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// RECORD REQUEST
// =============================================================================

// RecordRequest carries one salary disbursement to record.
type RecordRequest struct {
	TeacherID   ledger.TeacherID
	BranchID    ledger.BranchID
	Period      ledger.YearMonth
	Amount      decimal.Decimal
	Description string
}

// RecordResult pairs the stored disbursement with the calculation at record
// time, so callers can see the resulting position without a second query.
type RecordResult struct {
	Payment     ledger.SalaryPayment
	Calculation Calculation
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler records salary disbursements and derives reconciliation views.
type Reconciler struct {
	dir      ledger.Directory
	salaries ledger.SalaryStore
	calc     *Calculator
	now      func() time.Time
}

func NewReconciler(dir ledger.Directory, salaries ledger.SalaryStore, calc *Calculator) *Reconciler {
	return &Reconciler{dir: dir, salaries: salaries, calc: calc, now: time.Now}
}

// RecordPayment validates and appends one disbursement. Amounts above the
// remaining salary are accepted; amount <= 0 is rejected before any
// mutation.
func (r *Reconciler) RecordPayment(ctx context.Context, req RecordRequest) (RecordResult, error) {
	if !req.Amount.IsPositive() {
		return RecordResult{}, &ledger.InvalidAmountError{Amount: req.Amount}
	}
	if !req.Period.Valid() {
		return RecordResult{}, ledger.ErrInvalidPeriod
	}

	teacher, err := r.dir.GetTeacher(ctx, req.TeacherID)
	if err != nil {
		return RecordResult{}, err
	}
	if _, err := r.dir.GetBranch(ctx, req.BranchID); err != nil {
		return RecordResult{}, err
	}

	payment := ledger.SalaryPayment{
		ID:          ledger.SalaryPaymentID(uuid.NewString()),
		TeacherID:   teacher.ID,
		BranchID:    req.BranchID,
		Amount:      req.Amount,
		Description: req.Description,
		Period:      req.Period,
		CreatedAt:   r.now().UTC(),
	}

	if err := r.salaries.AppendSalaryPayment(ctx, payment); err != nil {
		return RecordResult{}, fmt.Errorf("append salary payment: %w", err)
	}

	calc, err := r.calc.Calculate(ctx, teacher.ID, req.Period)
	if err != nil {
		return RecordResult{}, err
	}
	return RecordResult{Payment: payment, Calculation: calc}, nil
}

// History returns one entry per billing month with recorded disbursements,
// sorted newest first.
func (r *Reconciler) History(ctx context.Context, teacherID ledger.TeacherID) ([]HistoryEntry, error) {
	teacher, err := r.dir.GetTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	periods, err := r.salaries.SalaryPaymentPeriods(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("salary periods for teacher %s: %w", teacherID, err)
	}

	entries := make([]HistoryEntry, 0, len(periods))
	for _, period := range periods {
		calc, err := r.calc.Calculate(ctx, teacherID, period)
		if err != nil {
			return nil, err
		}

		totalPaid, err := r.salaries.SumSalaryPaid(ctx, teacherID, period)
		if err != nil {
			return nil, err
		}
		lastPaid, err := r.salaries.LastSalaryPaymentAt(ctx, teacherID, period)
		if err != nil {
			return nil, err
		}
		count, err := r.salaries.CountSalaryPayments(ctx, teacherID, period)
		if err != nil {
			return nil, err
		}

		remaining := ledger.ClampNonNegative(calc.TotalSalary.Sub(totalPaid))
		entries = append(entries, HistoryEntry{
			TeacherID:       teacher.ID,
			TeacherName:     teacher.FullName(),
			Period:          period,
			TotalSalary:     calc.TotalSalary,
			TotalPaid:       totalPaid,
			RemainingAmount: remaining,
			FullyPaid:       remaining.IsZero(),
			LastPaymentAt:   lastPaid,
			PaymentCount:    count,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[j].Period.Before(entries[i].Period)
	})
	return entries, nil
}

// DeletePayment hard-deletes one disbursement. Derived views recompute
// without it on the next query; nothing else cascades.
func (r *Reconciler) DeletePayment(ctx context.Context, id ledger.SalaryPaymentID) error {
	return r.salaries.DeleteSalaryPayment(ctx, id)
}

// PaymentsByTeacher lists a teacher's disbursements, newest first.
func (r *Reconciler) PaymentsByTeacher(ctx context.Context, teacherID ledger.TeacherID) ([]ledger.SalaryPayment, error) {
	if _, err := r.dir.GetTeacher(ctx, teacherID); err != nil {
		return nil, err
	}
	return r.salaries.SalaryPaymentsByTeacher(ctx, teacherID)
}

// PaymentsByBranch lists a branch's disbursements, newest first.
func (r *Reconciler) PaymentsByBranch(ctx context.Context, branchID ledger.BranchID) ([]ledger.SalaryPayment, error) {
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}
	return r.salaries.SalaryPaymentsByBranch(ctx, branchID)
}
