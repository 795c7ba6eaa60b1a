package salary_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/tuition-engine/ledger"
	memstore "github.com/edulink/tuition-engine/ledger/store"
	"github.com/edulink/tuition-engine/salary"
	"github.com/edulink/tuition-engine/tuition"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// newAcademy seeds one branch, a 500000 English course, the given teacher,
// one group owned by them, and three enrolled students.
func newAcademy(t *testing.T, teacher ledger.Teacher) *memstore.Memory {
	t.Helper()
	store := memstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, store.SaveBranch(ctx, ledger.Branch{ID: "b1", Name: "Main"}))
	require.NoError(t, store.SaveCourse(ctx, ledger.Course{
		ID: "english", BranchID: "b1", Name: "English", Price: ledger.Money("500000"),
	}))
	teacher.ID = "t1"
	teacher.BranchID = "b1"
	if teacher.FirstName == "" {
		teacher.FirstName = "Bekzod"
		teacher.LastName = "Rustamov"
	}
	require.NoError(t, store.SaveTeacher(ctx, teacher))
	require.NoError(t, store.SaveGroup(ctx, ledger.Group{
		ID: "g1", BranchID: "b1", CourseID: "english", TeacherID: "t1", Name: "English A",
	}))
	for _, id := range []ledger.StudentID{"s1", "s2", "s3"} {
		require.NoError(t, store.SaveStudent(ctx, ledger.Student{
			ID: id, BranchID: "b1", FirstName: "Student", LastName: string(id),
		}))
		require.NoError(t, store.Enroll(ctx, id, "g1"))
	}
	return store
}

func payTuition(t *testing.T, store *memstore.Memory, studentID, groupID, amount string, period ledger.YearMonth) {
	t.Helper()
	recorder := tuition.NewRecorder(store, store)
	_, err := recorder.Record(context.Background(), tuition.RecordRequest{
		StudentID: ledger.StudentID(studentID),
		GroupID:   ledger.GroupID(groupID),
		Amount:    ledger.Money(amount),
		Period:    period,
	})
	require.NoError(t, err)
}

// =============================================================================
// SALARY MODEL TESTS
// =============================================================================

func TestCalculate_FixedSalaryIgnoresPayments(t *testing.T) {
	// GIVEN: A fixed-salary teacher whose students paid 1.5M this month
	store := newAcademy(t, ledger.Teacher{
		BaseSalary: ledger.Money("3000000"), SalaryType: ledger.SalaryFixed,
	})
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "1000000", period)
	payTuition(t, store, "s2", "g1", "500000", period)

	// WHEN: Calculating compensation
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(context.Background(), "t1", period)
	require.NoError(t, err)

	// THEN: Total is the base salary, payment-based share is zero
	assert.Equal(t, "3000000", result.TotalSalary.String())
	assert.True(t, result.PaymentBasedSalary.IsZero())
	assert.Equal(t, "1500000", result.TotalStudentPayments.String())
}

func TestCalculate_PercentageIgnoresBaseSalary(t *testing.T) {
	// GIVEN: A 40% teacher with a configured-but-irrelevant base salary
	store := newAcademy(t, ledger.Teacher{
		BaseSalary:        ledger.Money("9999999"),
		PaymentPercentage: ledger.Money("40"),
		SalaryType:        ledger.SalaryPercentage,
	})
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "2000000", period)

	// WHEN: Calculating compensation
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(context.Background(), "t1", period)
	require.NoError(t, err)

	// THEN: 40% of 2M and nothing else
	assert.Equal(t, "800000", result.TotalSalary.String())
	assert.Equal(t, "800000", result.PaymentBasedSalary.String())
}

func TestCalculate_MixedAddsShareToBase(t *testing.T) {
	// GIVEN: Base 500000 plus 10% of payments, students paid 2M total
	store := newAcademy(t, ledger.Teacher{
		BaseSalary:        ledger.Money("500000"),
		PaymentPercentage: ledger.Money("10"),
		SalaryType:        ledger.SalaryMixed,
	})
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "1200000", period)
	payTuition(t, store, "s2", "g1", "800000", period)

	// WHEN: Calculating compensation
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(context.Background(), "t1", period)
	require.NoError(t, err)

	// THEN: 500000 + 200000
	assert.Equal(t, "700000", result.TotalSalary.String())
	assert.Equal(t, "200000", result.PaymentBasedSalary.String())
	assert.Equal(t, "500000", result.BaseSalary.String())
}

func TestCalculate_PercentageShareRoundsHalfUp(t *testing.T) {
	// GIVEN: 12.5% of 333333 = 41666.625, which must round to 2 places
	store := newAcademy(t, ledger.Teacher{
		PaymentPercentage: ledger.Money("12.5"),
		SalaryType:        ledger.SalaryPercentage,
	})
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "333333", period)

	// WHEN: Calculating compensation
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(context.Background(), "t1", period)
	require.NoError(t, err)

	// THEN: Half-up to 41666.63
	assert.Equal(t, "41666.63", result.TotalSalary.String())
}

func TestCalculate_UnknownSalaryTypeFallsBackToFixed(t *testing.T) {
	// GIVEN: A teacher with a salary type outside the enumeration
	store := newAcademy(t, ledger.Teacher{
		BaseSalary:        ledger.Money("1000000"),
		PaymentPercentage: ledger.Money("50"),
		SalaryType:        ledger.SalaryType("COMMISSION"),
	})
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "2000000", period)

	// WHEN: Calculating compensation
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(context.Background(), "t1", period)
	require.NoError(t, err)

	// THEN: Treated as fixed on the base salary, never an error
	assert.Equal(t, "1000000", result.TotalSalary.String())
	assert.True(t, result.PaymentBasedSalary.IsZero())
}

// =============================================================================
// COUNTING AND BREAKDOWN TESTS
// =============================================================================

func TestCalculate_CountsOnlyPayingStudents(t *testing.T) {
	// GIVEN: Three enrolled students, two of whom paid this month
	store := newAcademy(t, ledger.Teacher{
		PaymentPercentage: ledger.Money("50"), SalaryType: ledger.SalaryPercentage,
	})
	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "500000", period)
	payTuition(t, store, "s2", "g1", "300000", period)

	// WHEN: Calculating compensation
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(context.Background(), "t1", period)
	require.NoError(t, err)

	// THEN: Two paid of three enrolled
	assert.Equal(t, 2, result.PaidStudents)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, 2, result.Groups[0].PaidStudents)
	assert.Equal(t, 3, result.Groups[0].EnrolledStudents)
	assert.Equal(t, "800000", result.Groups[0].Payments.String())
	assert.Equal(t, "English", result.Groups[0].CourseName)
}

func TestCalculate_SumsAcrossTeacherGroups(t *testing.T) {
	// GIVEN: The teacher owns a second group with its own payments
	store := newAcademy(t, ledger.Teacher{
		PaymentPercentage: ledger.Money("10"), SalaryType: ledger.SalaryPercentage,
	})
	ctx := context.Background()
	require.NoError(t, store.SaveGroup(ctx, ledger.Group{
		ID: "g2", BranchID: "b1", CourseID: "english", TeacherID: "t1", Name: "English B",
	}))
	require.NoError(t, store.Enroll(ctx, "s3", "g2"))

	period := ledger.NewYearMonth(2026, 3)
	payTuition(t, store, "s1", "g1", "500000", period)
	payTuition(t, store, "s3", "g2", "500000", period)

	// WHEN: Calculating compensation
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(ctx, "t1", period)
	require.NoError(t, err)

	// THEN: Both groups feed the total
	assert.Equal(t, "1000000", result.TotalStudentPayments.String())
	assert.Equal(t, "100000", result.TotalSalary.String())
	assert.Len(t, result.Groups, 2)
}

func TestCalculate_OtherMonthsDoNotLeakIn(t *testing.T) {
	// GIVEN: Payments in March and April
	store := newAcademy(t, ledger.Teacher{
		PaymentPercentage: ledger.Money("10"), SalaryType: ledger.SalaryPercentage,
	})
	payTuition(t, store, "s1", "g1", "500000", ledger.NewYearMonth(2026, 3))
	payTuition(t, store, "s1", "g1", "500000", ledger.NewYearMonth(2026, 4))

	// WHEN: Calculating for March
	calc := salary.NewCalculator(store, store, store)
	result, err := calc.Calculate(context.Background(), "t1", ledger.NewYearMonth(2026, 3))
	require.NoError(t, err)

	// THEN: Only March payments count
	assert.Equal(t, "500000", result.TotalStudentPayments.String())
}

func TestCalculateBranch_OneResultPerTeacher(t *testing.T) {
	// GIVEN: A second teacher in the same branch
	store := newAcademy(t, ledger.Teacher{
		BaseSalary: ledger.Money("3000000"), SalaryType: ledger.SalaryFixed,
	})
	ctx := context.Background()
	require.NoError(t, store.SaveTeacher(ctx, ledger.Teacher{
		ID: "t2", BranchID: "b1", FirstName: "Dilnoza", LastName: "Yusupova",
		BaseSalary: ledger.Money("2500000"), SalaryType: ledger.SalaryFixed,
	}))

	// WHEN: Calculating the whole branch
	calc := salary.NewCalculator(store, store, store)
	results, err := calc.CalculateBranch(ctx, "b1", ledger.NewYearMonth(2026, 3))
	require.NoError(t, err)

	// THEN: One calculation per teacher
	require.Len(t, results, 2)
}

func TestCalculate_UnknownTeacher(t *testing.T) {
	store := newAcademy(t, ledger.Teacher{SalaryType: ledger.SalaryFixed})
	calc := salary.NewCalculator(store, store, store)

	_, err := calc.Calculate(context.Background(), "ghost", ledger.NewYearMonth(2026, 3))
	assert.ErrorIs(t, err, ledger.ErrTeacherNotFound)
}
