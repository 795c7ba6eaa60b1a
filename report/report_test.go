package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/tuition-engine/ledger"
	memstore "github.com/edulink/tuition-engine/ledger/store"
	"github.com/edulink/tuition-engine/report"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newBranchWithMoney(t *testing.T) *memstore.Memory {
	t.Helper()
	store := memstore.NewMemory()
	ctx := context.Background()
	march := ledger.NewYearMonth(2026, 3)

	require.NoError(t, store.SaveBranch(ctx, ledger.Branch{ID: "b1", Name: "Main"}))

	// Two payments on March 10, one on March 11, one in April
	for _, p := range []ledger.TuitionPayment{
		{ID: "p1", StudentID: "s1", CourseID: "c1", GroupID: "g1", BranchID: "b1",
			Amount: ledger.Money("300000"), Period: march,
			CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "p2", StudentID: "s2", CourseID: "c1", GroupID: "g1", BranchID: "b1",
			Amount: ledger.Money("200000"), Period: march,
			CreatedAt: time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC)},
		{ID: "p3", StudentID: "s1", CourseID: "c1", GroupID: "g1", BranchID: "b1",
			Amount: ledger.Money("100000"), Period: march,
			CreatedAt: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)},
		{ID: "p4", StudentID: "s1", CourseID: "c1", GroupID: "g1", BranchID: "b1",
			Amount: ledger.Money("400000"), Period: ledger.NewYearMonth(2026, 4),
			CreatedAt: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)},
	} {
		require.NoError(t, store.AppendTuitionPayment(ctx, p))
	}

	require.NoError(t, store.AppendSalaryPayment(ctx, ledger.SalaryPayment{
		ID: "sp1", TeacherID: "t1", BranchID: "b1",
		Amount: ledger.Money("250000"), Period: march,
		CreatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}))

	// Rent in March, supplies in April
	require.NoError(t, store.AppendExpense(ctx, ledger.Expense{
		ID: "e1", BranchID: "b1", Amount: ledger.Money("150000"), Category: "rent",
		CreatedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.AppendExpense(ctx, ledger.Expense{
		ID: "e2", BranchID: "b1", Amount: ledger.Money("40000"), Category: "supplies",
		CreatedAt: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}))
	return store
}

// =============================================================================
// REPORT TESTS
// =============================================================================

func TestDailyIncome_SumsOneCalendarDay(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.DailyIncome(context.Background(), "b1",
		time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, report.KindDailyIncome, summary.Kind)
	assert.Equal(t, "500000", summary.Total.String())
}

func TestMonthlyIncome_SumsByBillingPeriod(t *testing.T) {
	// Monthly income follows the billing period on the payment, not the
	// timestamp it was recorded at.
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.MonthlyIncome(context.Background(), "b1", ledger.NewYearMonth(2026, 3))
	require.NoError(t, err)
	assert.Equal(t, "600000", summary.Total.String())
	require.NotNil(t, summary.Period)
	assert.Equal(t, 2026, summary.Period.Year)
}

func TestRangeIncome_InclusiveOfEndDay(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.RangeIncome(context.Background(), "b1",
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// The March 11 payment counts: the range runs to end of that day
	assert.Equal(t, "600000", summary.Total.String())
}

func TestDailyOutflow_SumsSalaryDisbursements(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.DailyOutflow(context.Background(), "b1",
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "250000", summary.Total.String())
}

func TestMonthlyOutflow_SumsCalendarMonth(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.MonthlyOutflow(context.Background(), "b1", ledger.NewYearMonth(2026, 3))
	require.NoError(t, err)

	assert.Equal(t, report.KindMonthlyOutflow, summary.Kind)
	assert.Equal(t, "250000", summary.Total.String())
	require.NotNil(t, summary.Period)

	// April has no disbursements
	summary, err = r.MonthlyOutflow(context.Background(), "b1", ledger.NewYearMonth(2026, 4))
	require.NoError(t, err)
	assert.True(t, summary.Total.IsZero())
}

func TestMonthlyOutflow_InvalidPeriod(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	_, err := r.MonthlyOutflow(context.Background(), "b1", ledger.NewYearMonth(2026, 0))
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}

// =============================================================================
// EXPENSE REPORT TESTS
// =============================================================================

func TestDailyExpense_SumsOneCalendarDay(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.DailyExpense(context.Background(), "b1",
		time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, report.KindDailyExpense, summary.Kind)
	assert.Equal(t, "150000", summary.Total.String())
}

func TestMonthlyExpense_SumsCalendarMonth(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.MonthlyExpense(context.Background(), "b1", ledger.NewYearMonth(2026, 4))
	require.NoError(t, err)
	assert.Equal(t, "40000", summary.Total.String())
	require.NotNil(t, summary.Period)
	assert.Equal(t, 2026, summary.Period.Year)
}

func TestTotalExpense_SumsLifetime(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.TotalExpense(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, report.KindTotalExpense, summary.Kind)
	assert.Equal(t, "190000", summary.Total.String())
}

func TestRangeExpense_InclusiveOfEndDay(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	summary, err := r.RangeExpense(context.Background(), "b1",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// The April 1 supplies purchase counts: the range runs to end of that day
	assert.Equal(t, "190000", summary.Total.String())
}

// =============================================================================
// FINANCIAL SUMMARY TESTS
// =============================================================================

func TestSummarize_NetProfit(t *testing.T) {
	// GIVEN March: 600000 income, 150000 rent, 250000 salary paid out
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	// WHEN summarizing the month of March
	summary, err := r.Summarize(context.Background(), "b1",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// THEN net profit is income minus expenses minus salaries
	assert.Equal(t, "600000", summary.Income.String())
	assert.Equal(t, "150000", summary.Expenses.String())
	assert.Equal(t, "250000", summary.Salaries.String())
	assert.Equal(t, "200000", summary.NetProfit.String())
}

func TestSummarize_NetProfitCanBeNegative(t *testing.T) {
	// April: 400000 income, 40000 supplies, no salary outflow yet
	store := newBranchWithMoney(t)
	ctx := context.Background()
	require.NoError(t, store.AppendSalaryPayment(ctx, ledger.SalaryPayment{
		ID: "sp2", TeacherID: "t1", BranchID: "b1",
		Amount: ledger.Money("500000"), Period: ledger.NewYearMonth(2026, 4),
		CreatedAt: time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC),
	}))
	r := report.NewReporter(store, store, store, store)

	summary, err := r.Summarize(ctx, "b1",
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "-140000", summary.NetProfit.String())
}

func TestSummarize_UnknownBranch(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	_, err := r.Summarize(context.Background(), "nope",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ledger.ErrBranchNotFound)
}

func TestReports_UnknownBranch(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)
	ctx := context.Background()

	_, err := r.DailyIncome(ctx, "nope", time.Now())
	assert.ErrorIs(t, err, ledger.ErrBranchNotFound)
	_, err = r.MonthlyIncome(ctx, "nope", ledger.NewYearMonth(2026, 3))
	assert.ErrorIs(t, err, ledger.ErrBranchNotFound)
}

func TestMonthlyIncome_InvalidPeriod(t *testing.T) {
	store := newBranchWithMoney(t)
	r := report.NewReporter(store, store, store, store)

	_, err := r.MonthlyIncome(context.Background(), "b1", ledger.NewYearMonth(2026, 14))
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}
