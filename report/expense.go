package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// EXPENSE LOG
// =============================================================================

// ExpenseLog records and removes branch operating expenses. Like the payment
// recorder, it validates before any mutation and writes nothing on failure.
type ExpenseLog struct {
	dir   ledger.Directory
	store ledger.ExpenseStore
}

func NewExpenseLog(dir ledger.Directory, store ledger.ExpenseStore) *ExpenseLog {
	return &ExpenseLog{dir: dir, store: store}
}

// RecordExpenseRequest carries the inputs for one expense record.
type RecordExpenseRequest struct {
	BranchID    ledger.BranchID
	Amount      decimal.Decimal
	Category    string
	Description string
}

// Record validates and persists one expense. The branch must exist and the
// amount must be positive.
func (l *ExpenseLog) Record(ctx context.Context, req RecordExpenseRequest) (ledger.Expense, error) {
	if _, err := l.dir.GetBranch(ctx, req.BranchID); err != nil {
		return ledger.Expense{}, err
	}
	if !req.Amount.IsPositive() {
		return ledger.Expense{}, &ledger.InvalidAmountError{Amount: req.Amount}
	}

	e := ledger.Expense{
		ID:          ledger.ExpenseID(uuid.NewString()),
		BranchID:    req.BranchID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.store.AppendExpense(ctx, e); err != nil {
		return ledger.Expense{}, err
	}
	return e, nil
}

// Delete hard-deletes an expense record.
func (l *ExpenseLog) Delete(ctx context.Context, id ledger.ExpenseID) error {
	return l.store.DeleteExpense(ctx, id)
}

// ListByBranch returns a branch's expenses, newest first.
func (l *ExpenseLog) ListByBranch(ctx context.Context, branchID ledger.BranchID) ([]ledger.Expense, error) {
	if _, err := l.dir.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}
	return l.store.ExpensesByBranch(ctx, branchID)
}
