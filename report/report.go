// Package report derives branch-level money totals: tuition income, salary
// outflow and operating expenses for a day, a month, or an arbitrary date
// range, plus a net-profit summary combining the three. Like the rest of the
// engine, every figure is recomputed from raw records on each call.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// REPORT TYPES
// =============================================================================

type Kind string

const (
	KindDailyIncome    Kind = "DAILY_INCOME"
	KindMonthlyIncome  Kind = "MONTHLY_INCOME"
	KindRangeIncome    Kind = "RANGE_INCOME"
	KindDailyOutflow   Kind = "DAILY_OUTFLOW"
	KindMonthlyOutflow Kind = "MONTHLY_OUTFLOW"
	KindRangeOutflow   Kind = "RANGE_OUTFLOW"
	KindDailyExpense   Kind = "DAILY_EXPENSE"
	KindMonthlyExpense Kind = "MONTHLY_EXPENSE"
	KindRangeExpense   Kind = "RANGE_EXPENSE"
	KindTotalExpense   Kind = "TOTAL_EXPENSE"
)

// Summary is one branch-level money total.
type Summary struct {
	Kind     Kind
	BranchID ledger.BranchID
	Total    decimal.Decimal

	// Set for month reports.
	Period *ledger.YearMonth

	// Set for day and range reports.
	From *time.Time
	To   *time.Time
}

// =============================================================================
// REPORTER
// =============================================================================

// Reporter computes branch money totals. Stateless.
type Reporter struct {
	dir      ledger.Directory
	payments ledger.PaymentStore
	salaries ledger.SalaryStore
	expenses ledger.ExpenseStore
}

func NewReporter(dir ledger.Directory, payments ledger.PaymentStore, salaries ledger.SalaryStore, expenses ledger.ExpenseStore) *Reporter {
	return &Reporter{dir: dir, payments: payments, salaries: salaries, expenses: expenses}
}

// DailyIncome totals tuition payments recorded on one calendar day.
func (r *Reporter) DailyIncome(ctx context.Context, branchID ledger.BranchID, day time.Time) (Summary, error) {
	from, to := dayBounds(day)
	return r.incomeRange(ctx, branchID, from, to, KindDailyIncome)
}

// MonthlyIncome totals tuition payments applied to one billing month.
func (r *Reporter) MonthlyIncome(ctx context.Context, branchID ledger.BranchID, period ledger.YearMonth) (Summary, error) {
	if !period.Valid() {
		return Summary{}, ledger.ErrInvalidPeriod
	}
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return Summary{}, err
	}
	total, err := r.payments.SumByBranchMonth(ctx, branchID, period)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Kind: KindMonthlyIncome, BranchID: branchID, Total: total, Period: &period}, nil
}

// RangeIncome totals tuition payments recorded within [from, to].
func (r *Reporter) RangeIncome(ctx context.Context, branchID ledger.BranchID, from, to time.Time) (Summary, error) {
	return r.incomeRange(ctx, branchID, from, endOfDay(to), KindRangeIncome)
}

// MonthlyOutflow totals salary disbursements recorded during one calendar
// month. Outflow follows the disbursement timestamp, not the billing period
// it reconciles.
func (r *Reporter) MonthlyOutflow(ctx context.Context, branchID ledger.BranchID, period ledger.YearMonth) (Summary, error) {
	if !period.Valid() {
		return Summary{}, ledger.ErrInvalidPeriod
	}
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return Summary{}, err
	}
	total, err := r.salaries.SumSalaryPaidByBranchRange(ctx, branchID, period.Start(), period.End())
	if err != nil {
		return Summary{}, err
	}
	return Summary{Kind: KindMonthlyOutflow, BranchID: branchID, Total: total, Period: &period}, nil
}

// DailyOutflow totals salary disbursements recorded on one calendar day.
func (r *Reporter) DailyOutflow(ctx context.Context, branchID ledger.BranchID, day time.Time) (Summary, error) {
	from, to := dayBounds(day)
	return r.outflowRange(ctx, branchID, from, to, KindDailyOutflow)
}

// RangeOutflow totals salary disbursements recorded within [from, to].
func (r *Reporter) RangeOutflow(ctx context.Context, branchID ledger.BranchID, from, to time.Time) (Summary, error) {
	return r.outflowRange(ctx, branchID, from, endOfDay(to), KindRangeOutflow)
}

// DailyExpense totals operating expenses recorded on one calendar day.
func (r *Reporter) DailyExpense(ctx context.Context, branchID ledger.BranchID, day time.Time) (Summary, error) {
	from, to := dayBounds(day)
	return r.expenseRange(ctx, branchID, from, to, KindDailyExpense)
}

// MonthlyExpense totals operating expenses recorded during one calendar month.
func (r *Reporter) MonthlyExpense(ctx context.Context, branchID ledger.BranchID, period ledger.YearMonth) (Summary, error) {
	if !period.Valid() {
		return Summary{}, ledger.ErrInvalidPeriod
	}
	summary, err := r.expenseRange(ctx, branchID, period.Start(), period.End(), KindMonthlyExpense)
	if err != nil {
		return Summary{}, err
	}
	summary.From, summary.To = nil, nil
	summary.Period = &period
	return summary, nil
}

// RangeExpense totals operating expenses recorded within [from, to].
func (r *Reporter) RangeExpense(ctx context.Context, branchID ledger.BranchID, from, to time.Time) (Summary, error) {
	return r.expenseRange(ctx, branchID, from, endOfDay(to), KindRangeExpense)
}

// TotalExpense totals a branch's operating expenses over all time.
func (r *Reporter) TotalExpense(ctx context.Context, branchID ledger.BranchID) (Summary, error) {
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return Summary{}, err
	}
	total, err := r.expenses.SumExpensesByBranch(ctx, branchID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Kind: KindTotalExpense, BranchID: branchID, Total: total}, nil
}

// FinancialSummary is a branch's cash picture over one window: tuition taken
// in, minus operating expenses and salary disbursements.
type FinancialSummary struct {
	BranchID  ledger.BranchID
	From      time.Time
	To        time.Time
	Income    decimal.Decimal
	Expenses  decimal.Decimal
	Salaries  decimal.Decimal
	NetProfit decimal.Decimal
}

// Summarize computes the financial summary for [from, to]. All three legs
// follow record timestamps so the window reads as cash flow.
func (r *Reporter) Summarize(ctx context.Context, branchID ledger.BranchID, from, to time.Time) (FinancialSummary, error) {
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return FinancialSummary{}, err
	}
	to = endOfDay(to)

	income, err := r.payments.SumByBranchRange(ctx, branchID, from, to)
	if err != nil {
		return FinancialSummary{}, err
	}
	expenses, err := r.expenses.SumExpensesByBranchRange(ctx, branchID, from, to)
	if err != nil {
		return FinancialSummary{}, err
	}
	salaries, err := r.salaries.SumSalaryPaidByBranchRange(ctx, branchID, from, to)
	if err != nil {
		return FinancialSummary{}, err
	}

	return FinancialSummary{
		BranchID:  branchID,
		From:      from,
		To:        to,
		Income:    income,
		Expenses:  expenses,
		Salaries:  salaries,
		NetProfit: income.Sub(expenses).Sub(salaries),
	}, nil
}

func (r *Reporter) incomeRange(ctx context.Context, branchID ledger.BranchID, from, to time.Time, kind Kind) (Summary, error) {
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return Summary{}, err
	}
	total, err := r.payments.SumByBranchRange(ctx, branchID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Kind: kind, BranchID: branchID, Total: total, From: &from, To: &to}, nil
}

func (r *Reporter) outflowRange(ctx context.Context, branchID ledger.BranchID, from, to time.Time, kind Kind) (Summary, error) {
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return Summary{}, err
	}
	total, err := r.salaries.SumSalaryPaidByBranchRange(ctx, branchID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Kind: kind, BranchID: branchID, Total: total, From: &from, To: &to}, nil
}

func (r *Reporter) expenseRange(ctx context.Context, branchID ledger.BranchID, from, to time.Time, kind Kind) (Summary, error) {
	if _, err := r.dir.GetBranch(ctx, branchID); err != nil {
		return Summary{}, err
	}
	total, err := r.expenses.SumExpensesByBranchRange(ctx, branchID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Kind: kind, BranchID: branchID, Total: total, From: &from, To: &to}, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func endOfDay(t time.Time) time.Time {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
