package tuition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/tuition-engine/ledger"
	memstore "github.com/edulink/tuition-engine/ledger/store"
	"github.com/edulink/tuition-engine/tuition"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newSchool seeds one branch with an English course (500000), a Math course
// (400000), one group per course, and one student enrolled in both.
func newSchool(t *testing.T) *memstore.Memory {
	t.Helper()
	store := memstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.SaveBranch(ctx, ledger.Branch{ID: "b1", Name: "Main"}))
	require.NoError(t, store.SaveCourse(ctx, ledger.Course{
		ID: "english", BranchID: "b1", Name: "English", Price: ledger.Money("500000"),
	}))
	require.NoError(t, store.SaveCourse(ctx, ledger.Course{
		ID: "math", BranchID: "b1", Name: "Math", Price: ledger.Money("400000"),
	}))
	require.NoError(t, store.SaveTeacher(ctx, ledger.Teacher{
		ID: "t1", BranchID: "b1", FirstName: "Aziza", LastName: "Karimova",
		BaseSalary: ledger.Money("3000000"), SalaryType: ledger.SalaryFixed,
	}))
	require.NoError(t, store.SaveGroup(ctx, ledger.Group{
		ID: "g-eng", BranchID: "b1", CourseID: "english", TeacherID: "t1", Name: "English A",
	}))
	require.NoError(t, store.SaveGroup(ctx, ledger.Group{
		ID: "g-math", BranchID: "b1", CourseID: "math", TeacherID: "t1", Name: "Math A",
	}))
	require.NoError(t, store.SaveStudent(ctx, ledger.Student{
		ID: "s1", BranchID: "b1", FirstName: "Jasur", LastName: "Toshpulatov",
	}))
	require.NoError(t, store.Enroll(ctx, "s1", "g-eng"))
	require.NoError(t, store.Enroll(ctx, "s1", "g-math"))
	return store
}

func pay(t *testing.T, store *memstore.Memory, studentID, groupID, amount string, period ledger.YearMonth) ledger.TuitionPayment {
	t.Helper()
	recorder := tuition.NewRecorder(store, store)
	payment, err := recorder.Record(context.Background(), tuition.RecordRequest{
		StudentID: ledger.StudentID(studentID),
		GroupID:   ledger.GroupID(groupID),
		Amount:    ledger.Money(amount),
		Period:    period,
	})
	require.NoError(t, err)
	return payment
}

// =============================================================================
// STATUS TESTS
// =============================================================================

func TestStatus_NoPayments_Unpaid(t *testing.T) {
	// GIVEN: A student enrolled in two courses with no payments
	store := newSchool(t)
	calc := tuition.NewStatusCalculator(store, store)
	period := ledger.NewYearMonth(2026, 3)

	// WHEN: Calculating status for March
	status, err := calc.Status(context.Background(), "s1", period)
	require.NoError(t, err)

	// THEN: Unpaid, owing both course prices
	assert.Equal(t, ledger.StatusUnpaid, status.Status)
	assert.False(t, status.HasPaidInMonth)
	assert.True(t, status.TotalPaidInMonth.IsZero())
	assert.Equal(t, "900000", status.ExpectedAmount.String())
	assert.Equal(t, "900000", status.RemainingAmount.String())
	assert.Nil(t, status.LastPaymentAt)
}

func TestStatus_PartialPayment(t *testing.T) {
	// GIVEN: 300000 paid of an expected 900000
	store := newSchool(t)
	period := ledger.NewYearMonth(2026, 3)
	pay(t, store, "s1", "g-eng", "300000", period)

	// WHEN: Calculating status
	calc := tuition.NewStatusCalculator(store, store)
	status, err := calc.Status(context.Background(), "s1", period)
	require.NoError(t, err)

	// THEN: Partial with the difference remaining
	assert.Equal(t, ledger.StatusPartial, status.Status)
	assert.True(t, status.HasPaidInMonth)
	assert.Equal(t, "300000", status.TotalPaidInMonth.String())
	assert.Equal(t, "600000", status.RemainingAmount.String())
	assert.NotNil(t, status.LastPaymentAt)
}

func TestStatus_FullPayment_AcrossGroups(t *testing.T) {
	// GIVEN: The month's expected total paid across both groups
	store := newSchool(t)
	period := ledger.NewYearMonth(2026, 3)
	pay(t, store, "s1", "g-eng", "500000", period)
	pay(t, store, "s1", "g-math", "400000", period)

	// WHEN: Calculating status
	calc := tuition.NewStatusCalculator(store, store)
	status, err := calc.Status(context.Background(), "s1", period)
	require.NoError(t, err)

	// THEN: Paid with nothing remaining
	assert.Equal(t, ledger.StatusPaid, status.Status)
	assert.Equal(t, "900000", status.TotalPaidInMonth.String())
	assert.True(t, status.RemainingAmount.IsZero())
}

func TestStatus_Overpayment_RemainingClampedToZero(t *testing.T) {
	// GIVEN: A payment above the expected monthly total
	store := newSchool(t)
	period := ledger.NewYearMonth(2026, 3)
	pay(t, store, "s1", "g-eng", "1200000", period)

	// WHEN: Calculating status
	calc := tuition.NewStatusCalculator(store, store)
	status, err := calc.Status(context.Background(), "s1", period)
	require.NoError(t, err)

	// THEN: Paid; remaining never goes negative
	assert.Equal(t, ledger.StatusPaid, status.Status)
	assert.True(t, status.RemainingAmount.IsZero())
}

func TestStatus_NoEnrollments_UnpaidWithZeroExpected(t *testing.T) {
	// GIVEN: A student with no group memberships at all
	store := newSchool(t)
	ctx := context.Background()
	require.NoError(t, store.SaveStudent(ctx, ledger.Student{
		ID: "loner", BranchID: "b1", FirstName: "Olim", LastName: "Qodirov",
	}))

	// WHEN: Calculating status
	calc := tuition.NewStatusCalculator(store, store)
	status, err := calc.Status(ctx, "loner", ledger.NewYearMonth(2026, 3))
	require.NoError(t, err)

	// THEN: Unpaid with zero expected and zero remaining, not an error
	assert.Equal(t, ledger.StatusUnpaid, status.Status)
	assert.True(t, status.ExpectedAmount.IsZero())
	assert.True(t, status.RemainingAmount.IsZero())
}

func TestStatus_MonthsAreIndependent(t *testing.T) {
	// GIVEN: A full payment in March only
	store := newSchool(t)
	march := ledger.NewYearMonth(2026, 3)
	april := ledger.NewYearMonth(2026, 4)
	pay(t, store, "s1", "g-eng", "500000", march)
	pay(t, store, "s1", "g-math", "400000", march)

	calc := tuition.NewStatusCalculator(store, store)

	// WHEN: Checking April
	status, err := calc.Status(context.Background(), "s1", april)
	require.NoError(t, err)

	// THEN: April starts over as unpaid, but the lifetime last-payment date
	// still reflects the March payments
	assert.Equal(t, ledger.StatusUnpaid, status.Status)
	assert.True(t, status.TotalPaidInMonth.IsZero())
	assert.NotNil(t, status.LastPaymentAt)
}

func TestStatus_Idempotent(t *testing.T) {
	// GIVEN: A partial payment
	store := newSchool(t)
	period := ledger.NewYearMonth(2026, 3)
	pay(t, store, "s1", "g-eng", "250000", period)
	calc := tuition.NewStatusCalculator(store, store)

	// WHEN: Calculating twice without changing the records
	first, err := calc.Status(context.Background(), "s1", period)
	require.NoError(t, err)
	second, err := calc.Status(context.Background(), "s1", period)
	require.NoError(t, err)

	// THEN: Identical answers
	assert.Equal(t, first.Status, second.Status)
	assert.True(t, first.TotalPaidInMonth.Equal(second.TotalPaidInMonth))
	assert.True(t, first.RemainingAmount.Equal(second.RemainingAmount))
}

func TestStatus_UnknownStudent(t *testing.T) {
	store := newSchool(t)
	calc := tuition.NewStatusCalculator(store, store)

	_, err := calc.Status(context.Background(), "ghost", ledger.NewYearMonth(2026, 3))
	assert.ErrorIs(t, err, ledger.ErrStudentNotFound)
}

func TestStatus_InvalidPeriod(t *testing.T) {
	store := newSchool(t)
	calc := tuition.NewStatusCalculator(store, store)

	_, err := calc.Status(context.Background(), "s1", ledger.NewYearMonth(2026, 13))
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}
