package salary_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/tuition-engine/ledger"
	memstore "github.com/edulink/tuition-engine/ledger/store"
	"github.com/edulink/tuition-engine/salary"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newReconciler builds the calculator/reconciler pair over a mixed-salary
// teacher owing 500000 base + 10% of payments.
func newReconciler(t *testing.T) (*memstore.Memory, *salary.Reconciler) {
	t.Helper()
	store := newAcademy(t, ledger.Teacher{
		BaseSalary:        ledger.Money("500000"),
		PaymentPercentage: ledger.Money("10"),
		SalaryType:        ledger.SalaryMixed,
	})
	calc := salary.NewCalculator(store, store, store)
	return store, salary.NewReconciler(store, store, calc)
}

// =============================================================================
// RECONCILIATION TESTS
// =============================================================================

func TestRecordPayment_ReturnsUpdatedCalculation(t *testing.T) {
	// GIVEN: 2M of student payments, so the teacher is owed 700000
	store, recon := newReconciler(t)
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "2000000", period)

	// WHEN: Disbursing 300000
	result, err := recon.RecordPayment(context.Background(), salary.RecordRequest{
		TeacherID: "t1", BranchID: "b1", Period: period,
		Amount: ledger.Money("300000"), Description: "advance",
	})
	require.NoError(t, err)

	// THEN: The response shows the new position
	assert.Equal(t, "300000", result.Payment.Amount.String())
	assert.Equal(t, "700000", result.Calculation.TotalSalary.String())
	assert.Equal(t, "300000", result.Calculation.AlreadyPaid.String())
	assert.Equal(t, "400000", result.Calculation.RemainingAmount.String())
}

func TestRecordPayment_OverpaymentClampsRemainingToZero(t *testing.T) {
	// GIVEN: 700000 owed, 300000 already disbursed
	store, recon := newReconciler(t)
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "2000000", period)
	ctx := context.Background()

	_, err := recon.RecordPayment(ctx, salary.RecordRequest{
		TeacherID: "t1", BranchID: "b1", Period: period, Amount: ledger.Money("300000"),
	})
	require.NoError(t, err)

	// WHEN: Disbursing another 500000, past the total
	result, err := recon.RecordPayment(ctx, salary.RecordRequest{
		TeacherID: "t1", BranchID: "b1", Period: period, Amount: ledger.Money("500000"),
	})
	require.NoError(t, err)

	// THEN: Accepted; already-paid exceeds the total, remaining floors at 0
	assert.Equal(t, "800000", result.Calculation.AlreadyPaid.String())
	assert.True(t, result.Calculation.RemainingAmount.IsZero())
}

func TestRecordPayment_RejectsNonPositiveAmount(t *testing.T) {
	_, recon := newReconciler(t)

	_, err := recon.RecordPayment(context.Background(), salary.RecordRequest{
		TeacherID: "t1", BranchID: "b1",
		Period: ledger.NewYearMonth(2026, 3), Amount: ledger.Money("0"),
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestRecordPayment_RejectsUnknownTeacher(t *testing.T) {
	_, recon := newReconciler(t)

	_, err := recon.RecordPayment(context.Background(), salary.RecordRequest{
		TeacherID: "ghost", BranchID: "b1",
		Period: ledger.NewYearMonth(2026, 3), Amount: ledger.Money("100"),
	})
	assert.ErrorIs(t, err, ledger.ErrTeacherNotFound)
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHistory_OneEntryPerMonthNewestFirst(t *testing.T) {
	// GIVEN: Disbursements in February (two) and March (one)
	store, recon := newReconciler(t)
	ctx := context.Background()
	feb := ledger.NewYearMonth(2026, 2)
	march := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "1000000", feb)

	for _, req := range []salary.RecordRequest{
		{TeacherID: "t1", BranchID: "b1", Period: feb, Amount: ledger.Money("300000")},
		{TeacherID: "t1", BranchID: "b1", Period: feb, Amount: ledger.Money("300000")},
		{TeacherID: "t1", BranchID: "b1", Period: march, Amount: ledger.Money("100000")},
	} {
		_, err := recon.RecordPayment(ctx, req)
		require.NoError(t, err)
	}

	// WHEN: Fetching history
	entries, err := recon.History(ctx, "t1")
	require.NoError(t, err)

	// THEN: Two entries, March before February
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Period.Equal(march))
	assert.True(t, entries[1].Period.Equal(feb))

	// February: owed 500000 + 10% of 1M = 600000, paid 600000, fully paid
	assert.Equal(t, "600000", entries[1].TotalSalary.String())
	assert.Equal(t, "600000", entries[1].TotalPaid.String())
	assert.True(t, entries[1].FullyPaid)
	assert.Equal(t, 2, entries[1].PaymentCount)

	// March: owed 500000 base (no payments), 100000 disbursed
	assert.Equal(t, "500000", entries[0].TotalSalary.String())
	assert.Equal(t, "400000", entries[0].RemainingAmount.String())
	assert.False(t, entries[0].FullyPaid)
	assert.NotNil(t, entries[0].LastPaymentAt)
}

func TestHistory_RecomputesWithCurrentParameters(t *testing.T) {
	// GIVEN: A fully reconciled February
	store, recon := newReconciler(t)
	ctx := context.Background()
	feb := ledger.NewYearMonth(2026, 2)
	_, err := recon.RecordPayment(ctx, salary.RecordRequest{
		TeacherID: "t1", BranchID: "b1", Period: feb, Amount: ledger.Money("500000"),
	})
	require.NoError(t, err)

	// WHEN: The teacher's base salary is raised afterwards
	teacher, err := store.GetTeacher(ctx, "t1")
	require.NoError(t, err)
	teacher.BaseSalary = ledger.Money("800000")
	require.NoError(t, store.SaveTeacher(ctx, teacher))

	entries, err := recon.History(ctx, "t1")
	require.NoError(t, err)

	// THEN: History reflects the current parameters, so February reopens
	require.Len(t, entries, 1)
	assert.Equal(t, "800000", entries[0].TotalSalary.String())
	assert.Equal(t, "300000", entries[0].RemainingAmount.String())
	assert.False(t, entries[0].FullyPaid)
}

func TestHistory_EmptyForTeacherWithNoDisbursements(t *testing.T) {
	_, recon := newReconciler(t)

	entries, err := recon.History(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// =============================================================================
// DELETION TESTS
// =============================================================================

func TestDeletePayment_RecomputesRemaining(t *testing.T) {
	// GIVEN: A single disbursement covering the whole salary
	store, recon := newReconciler(t)
	ctx := context.Background()
	period := ledger.NewYearMonth(2026, 3)
	result, err := recon.RecordPayment(ctx, salary.RecordRequest{
		TeacherID: "t1", BranchID: "b1", Period: period, Amount: ledger.Money("500000"),
	})
	require.NoError(t, err)
	assert.True(t, result.Calculation.RemainingAmount.IsZero())

	// WHEN: Deleting the disbursement
	require.NoError(t, recon.DeletePayment(ctx, result.Payment.ID))

	// THEN: The calculation shows the full amount owed again
	calc := salary.NewCalculator(store, store, store)
	after, err := calc.Calculate(ctx, "t1", period)
	require.NoError(t, err)
	assert.Equal(t, "500000", after.RemainingAmount.String())
	assert.True(t, after.AlreadyPaid.IsZero())
}

func TestDeletePayment_UnknownID(t *testing.T) {
	_, recon := newReconciler(t)
	err := recon.DeletePayment(context.Background(), "nope")
	assert.ErrorIs(t, err, ledger.ErrSalaryPaymentNotFound)
}
