package tuition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/tuition-engine/ledger"
	"github.com/edulink/tuition-engine/tuition"
)

// =============================================================================
// UNPAID DETECTION TESTS
// =============================================================================

func TestUnpaid_ReportsEachOwedGroupSeparately(t *testing.T) {
	// GIVEN: A student enrolled in English (500000) and Math (400000) who
	// paid English in full for March
	store := newSchool(t)
	period := ledger.NewYearMonth(2026, 3)
	pay(t, store, "s1", "g-eng", "500000", period)

	// WHEN: Listing unpaid students for March
	detector := tuition.NewUnpaidDetector(store, store)
	records, err := detector.FindUnpaidForMonth(context.Background(), "b1", period)
	require.NoError(t, err)

	// THEN: One record for the Math group only
	require.Len(t, records, 1)
	assert.Equal(t, ledger.StudentID("s1"), records[0].StudentID)
	assert.Equal(t, ledger.GroupID("g-math"), records[0].GroupID)
	assert.Equal(t, "400000", records[0].RemainingAmount.String())
	assert.Equal(t, "Jasur", records[0].FirstName)
}

func TestUnpaid_PartialPayerListedWithDifference(t *testing.T) {
	// GIVEN: 300000 paid toward the 500000 English course
	store := newSchool(t)
	period := ledger.NewYearMonth(2026, 3)
	pay(t, store, "s1", "g-eng", "300000", period)
	pay(t, store, "s1", "g-math", "400000", period)

	// WHEN: Listing unpaid students
	detector := tuition.NewUnpaidDetector(store, store)
	records, err := detector.FindUnpaidForMonth(context.Background(), "b1", period)
	require.NoError(t, err)

	// THEN: Only the English shortfall shows up
	require.Len(t, records, 1)
	assert.Equal(t, ledger.GroupID("g-eng"), records[0].GroupID)
	assert.Equal(t, "200000", records[0].RemainingAmount.String())
}

func TestUnpaid_FullyPaidBranchIsEmpty(t *testing.T) {
	// GIVEN: Everything paid for March
	store := newSchool(t)
	period := ledger.NewYearMonth(2026, 3)
	pay(t, store, "s1", "g-eng", "500000", period)
	pay(t, store, "s1", "g-math", "400000", period)

	// WHEN: Listing unpaid students
	detector := tuition.NewUnpaidDetector(store, store)
	records, err := detector.FindUnpaidForMonth(context.Background(), "b1", period)
	require.NoError(t, err)

	// THEN: Nobody owes anything
	assert.Empty(t, records)
}

func TestUnpaid_MonthlyModeIgnoresOtherMonths(t *testing.T) {
	// GIVEN: English paid in March, nothing in April
	store := newSchool(t)
	march := ledger.NewYearMonth(2026, 3)
	april := ledger.NewYearMonth(2026, 4)
	pay(t, store, "s1", "g-eng", "500000", march)

	// WHEN: Listing unpaid students for April
	detector := tuition.NewUnpaidDetector(store, store)
	records, err := detector.FindUnpaidForMonth(context.Background(), "b1", april)
	require.NoError(t, err)

	// THEN: Both groups owe again in April
	assert.Len(t, records, 2)
}

func TestUnpaid_AllTimeModeCountsLifetimePayments(t *testing.T) {
	// GIVEN: English paid across two months, totalling one course price
	store := newSchool(t)
	pay(t, store, "s1", "g-eng", "250000", ledger.NewYearMonth(2026, 3))
	pay(t, store, "s1", "g-eng", "250000", ledger.NewYearMonth(2026, 4))

	// WHEN: Listing unpaid students with no month filter
	detector := tuition.NewUnpaidDetector(store, store)
	records, err := detector.FindUnpaidAllTime(context.Background(), "b1")
	require.NoError(t, err)

	// THEN: English is covered lifetime-wise; only Math remains
	require.Len(t, records, 1)
	assert.Equal(t, ledger.GroupID("g-math"), records[0].GroupID)
}

func TestUnpaid_UnknownBranch(t *testing.T) {
	store := newSchool(t)
	detector := tuition.NewUnpaidDetector(store, store)

	_, err := detector.FindUnpaidAllTime(context.Background(), "nope")
	assert.ErrorIs(t, err, ledger.ErrBranchNotFound)
}

func TestUnpaid_InvalidPeriod(t *testing.T) {
	store := newSchool(t)
	detector := tuition.NewUnpaidDetector(store, store)

	_, err := detector.FindUnpaidForMonth(context.Background(), "b1", ledger.NewYearMonth(2026, 0))
	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}
