/*
calculator.go - Teacher salary calculation

PURPOSE:
  Derives a teacher's gross compensation for a billing month from raw
  payment records, with a per-group breakdown. Nothing is stored: the same
  call with the same records always produces the same answer.

COUNTING RULE:
  Within each group the teacher owns, a student counts as "paid" only when
  their payments toward THAT group in the target month are nonzero. The
  group's payment total is the sum over those students. Enrolled-but-unpaid
  students appear in the enrolled count only.

FORMULA:
  The month's total student payments feed the teacher's salary model
  (model.go). Disbursements already recorded for the month are subtracted
  to produce the remaining amount, floored at zero.

COST:
  O(groups x students) queries per call. Deliberate: recomputation avoids
  any cache-invalidation problem at this system's scale.

SEE ALSO:
  - model.go: the three salary models and the fallback
  - reconcile.go: disbursement recording and history over this calculation
*/
package salary

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator derives teacher compensation. Stateless; safe for concurrent
// use.
type Calculator struct {
	dir      ledger.Directory
	payments ledger.PaymentStore
	salaries ledger.SalaryStore
}

func NewCalculator(dir ledger.Directory, payments ledger.PaymentStore, salaries ledger.SalaryStore) *Calculator {
	return &Calculator{dir: dir, payments: payments, salaries: salaries}
}

// Calculate computes one teacher's compensation for a billing month.
func (c *Calculator) Calculate(ctx context.Context, teacherID ledger.TeacherID, period ledger.YearMonth) (Calculation, error) {
	if !period.Valid() {
		return Calculation{}, ledger.ErrInvalidPeriod
	}

	teacher, err := c.dir.GetTeacher(ctx, teacherID)
	if err != nil {
		return Calculation{}, err
	}
	branch, err := c.dir.GetBranch(ctx, teacher.BranchID)
	if err != nil {
		return Calculation{}, err
	}

	groups, err := c.dir.GroupsByTeacher(ctx, teacherID)
	if err != nil {
		return Calculation{}, fmt.Errorf("groups for teacher %s: %w", teacherID, err)
	}

	totalPayments := decimal.Zero
	paidStudents := 0
	breakdowns := make([]GroupBreakdown, 0, len(groups))

	for _, group := range groups {
		b, err := c.groupBreakdown(ctx, group, period)
		if err != nil {
			return Calculation{}, err
		}
		totalPayments = totalPayments.Add(b.Payments)
		paidStudents += b.PaidStudents
		breakdowns = append(breakdowns, b)
	}

	total, paymentBased := ModelFor(teacher).Compensation(totalPayments)

	alreadyPaid, err := c.salaries.SumSalaryPaid(ctx, teacherID, period)
	if err != nil {
		return Calculation{}, fmt.Errorf("salary paid for teacher %s: %w", teacherID, err)
	}

	return Calculation{
		TeacherID:            teacher.ID,
		TeacherName:          teacher.FullName(),
		BranchID:             branch.ID,
		BranchName:           branch.Name,
		Period:               period,
		BaseSalary:           teacher.BaseSalary,
		PaymentBasedSalary:   paymentBased,
		TotalSalary:          total,
		TotalStudentPayments: totalPayments,
		PaidStudents:         paidStudents,
		AlreadyPaid:          alreadyPaid,
		RemainingAmount:      ledger.ClampNonNegative(total.Sub(alreadyPaid)),
		Groups:               breakdowns,
	}, nil
}

// CalculateBranch maps Calculate over every teacher in the branch.
func (c *Calculator) CalculateBranch(ctx context.Context, branchID ledger.BranchID, period ledger.YearMonth) ([]Calculation, error) {
	if _, err := c.dir.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	teachers, err := c.dir.TeachersByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("teachers for branch %s: %w", branchID, err)
	}

	calcs := make([]Calculation, 0, len(teachers))
	for _, t := range teachers {
		calc, err := c.Calculate(ctx, t.ID, period)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}
	return calcs, nil
}

func (c *Calculator) groupBreakdown(ctx context.Context, group ledger.Group, period ledger.YearMonth) (GroupBreakdown, error) {
	course, err := c.dir.GetCourse(ctx, group.CourseID)
	if err != nil {
		return GroupBreakdown{}, fmt.Errorf("course %s for group %s: %w", group.CourseID, group.ID, err)
	}

	students, err := c.dir.StudentsByGroup(ctx, group.ID)
	if err != nil {
		return GroupBreakdown{}, fmt.Errorf("students for group %s: %w", group.ID, err)
	}

	groupPayments := decimal.Zero
	paid := 0
	for _, student := range students {
		amount, err := c.payments.SumByStudentGroupMonth(ctx, student.ID, group.ID, period)
		if err != nil {
			return GroupBreakdown{}, fmt.Errorf("payments for student %s in group %s: %w", student.ID, group.ID, err)
		}
		if amount.IsPositive() {
			paid++
			groupPayments = groupPayments.Add(amount)
		}
	}

	return GroupBreakdown{
		GroupID:          group.ID,
		GroupName:        group.Name,
		CourseName:       course.Name,
		PaidStudents:     paid,
		Payments:         groupPayments,
		EnrolledStudents: len(students),
		CoursePrice:      course.Price,
	}, nil
}
