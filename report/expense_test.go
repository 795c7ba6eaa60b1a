package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/tuition-engine/ledger"
	memstore "github.com/edulink/tuition-engine/ledger/store"
	"github.com/edulink/tuition-engine/report"
)

// =============================================================================
// EXPENSE LOG TESTS
// =============================================================================

func newExpenseLog(t *testing.T) (*report.ExpenseLog, *memstore.Memory) {
	t.Helper()
	store := memstore.NewMemory()
	require.NoError(t, store.SaveBranch(context.Background(), ledger.Branch{ID: "b1", Name: "Main"}))
	return report.NewExpenseLog(store, store), store
}

func TestExpenseLog_Record(t *testing.T) {
	log, store := newExpenseLog(t)
	ctx := context.Background()

	e, err := log.Record(ctx, report.RecordExpenseRequest{
		BranchID: "b1", Amount: ledger.Money("150000"),
		Category: "rent", Description: "March rent",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "rent", e.Category)
	assert.False(t, e.CreatedAt.IsZero())

	total, err := store.SumExpensesByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "150000", total.String())
}

func TestExpenseLog_RejectsNonPositiveAmount(t *testing.T) {
	log, store := newExpenseLog(t)
	ctx := context.Background()

	_, err := log.Record(ctx, report.RecordExpenseRequest{BranchID: "b1", Amount: ledger.Money("0")})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = log.Record(ctx, report.RecordExpenseRequest{BranchID: "b1", Amount: ledger.Money("-500")})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	// Nothing was written
	total, err := store.SumExpensesByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestExpenseLog_RejectsUnknownBranch(t *testing.T) {
	log, _ := newExpenseLog(t)

	_, err := log.Record(context.Background(), report.RecordExpenseRequest{
		BranchID: "ghost", Amount: ledger.Money("1000"),
	})
	assert.ErrorIs(t, err, ledger.ErrBranchNotFound)
}

func TestExpenseLog_ListByBranch(t *testing.T) {
	log, _ := newExpenseLog(t)
	ctx := context.Background()

	for _, category := range []string{"rent", "utilities", "supplies"} {
		_, err := log.Record(ctx, report.RecordExpenseRequest{
			BranchID: "b1", Amount: ledger.Money("10000"), Category: category,
		})
		require.NoError(t, err)
	}

	expenses, err := log.ListByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, expenses, 3)

	_, err = log.ListByBranch(ctx, "ghost")
	assert.ErrorIs(t, err, ledger.ErrBranchNotFound)
}

func TestExpenseLog_Delete(t *testing.T) {
	log, store := newExpenseLog(t)
	ctx := context.Background()

	e, err := log.Record(ctx, report.RecordExpenseRequest{BranchID: "b1", Amount: ledger.Money("75000")})
	require.NoError(t, err)

	require.NoError(t, log.Delete(ctx, e.ID))
	total, err := store.SumExpensesByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	// Second delete reports the missing record
	assert.ErrorIs(t, log.Delete(ctx, e.ID), ledger.ErrExpenseNotFound)
}
