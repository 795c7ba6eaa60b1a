/*
unpaid.go - Unpaid student detection

PURPOSE:
  Produces the branch-wide list of (student, group) pairs that still owe
  money. This deliberately does NOT reuse the status calculation: status
  aggregates a student's payments across all courses, while collection needs
  to know which specific group is unpaid. A student can be fully paid
  overall and still owe for one group.

SELECTION MODES:
  Monthly:  remaining = course.price - payments toward the group's course
            in the target month
  All-time: remaining = course.price - every payment the student ever made
            toward the group's course

  Either way, remaining is floored at zero and only positive remainders are
  reported, one record per (student, group).

SEE ALSO:
  - status.go: cross-course aggregation for a single student
*/
package tuition

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// UNPAID DETECTOR
// =============================================================================

// UnpaidDetector lists students with outstanding balances per group.
// Stateless; safe for concurrent use.
type UnpaidDetector struct {
	dir      ledger.Directory
	payments ledger.PaymentStore
}

func NewUnpaidDetector(dir ledger.Directory, payments ledger.PaymentStore) *UnpaidDetector {
	return &UnpaidDetector{dir: dir, payments: payments}
}

// FindUnpaidForMonth lists every (student, group) pair in the branch owing
// money for the given billing month.
func (d *UnpaidDetector) FindUnpaidForMonth(ctx context.Context, branchID ledger.BranchID, period ledger.YearMonth) ([]UnpaidStudentRecord, error) {
	if !period.Valid() {
		return nil, ledger.ErrInvalidPeriod
	}
	return d.findUnpaid(ctx, branchID, func(ctx context.Context, studentID ledger.StudentID, courseID ledger.CourseID) (decimal.Decimal, error) {
		return d.payments.SumByStudentCourseMonth(ctx, studentID, courseID, period)
	})
}

// FindUnpaidAllTime lists every (student, group) pair in the branch whose
// lifetime payments toward the group's course fall short of one course price.
func (d *UnpaidDetector) FindUnpaidAllTime(ctx context.Context, branchID ledger.BranchID) ([]UnpaidStudentRecord, error) {
	return d.findUnpaid(ctx, branchID, d.payments.SumByStudentCourse)
}

type paidFunc func(ctx context.Context, studentID ledger.StudentID, courseID ledger.CourseID) (decimal.Decimal, error)

func (d *UnpaidDetector) findUnpaid(ctx context.Context, branchID ledger.BranchID, paid paidFunc) ([]UnpaidStudentRecord, error) {
	if _, err := d.dir.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	groups, err := d.dir.GroupsByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("groups for branch %s: %w", branchID, err)
	}

	var records []UnpaidStudentRecord
	for _, group := range groups {
		course, err := d.dir.GetCourse(ctx, group.CourseID)
		if err != nil {
			return nil, fmt.Errorf("course %s for group %s: %w", group.CourseID, group.ID, err)
		}

		students, err := d.dir.StudentsByGroup(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("students for group %s: %w", group.ID, err)
		}

		for _, student := range students {
			totalPaid, err := paid(ctx, student.ID, course.ID)
			if err != nil {
				return nil, fmt.Errorf("payments for student %s course %s: %w", student.ID, course.ID, err)
			}

			remaining := course.Price.Sub(totalPaid)
			if !remaining.IsPositive() {
				continue
			}

			records = append(records, UnpaidStudentRecord{
				StudentID:       student.ID,
				FirstName:       student.FirstName,
				LastName:        student.LastName,
				Phone:           student.Phone,
				ParentPhone:     student.ParentPhone,
				RemainingAmount: remaining,
				GroupID:         group.ID,
				GroupName:       group.Name,
			})
		}
	}

	return records, nil
}
