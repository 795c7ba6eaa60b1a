// Package store provides an in-memory ledger.Store implementation
// (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	branches map[ledger.BranchID]ledger.Branch
	courses  map[ledger.CourseID]ledger.Course
	students map[ledger.StudentID]ledger.Student
	teachers map[ledger.TeacherID]ledger.Teacher
	groups   map[ledger.GroupID]ledger.Group

	// enrollment set keyed by (group, student)
	enrollments map[enrollKey]struct{}

	payments       map[ledger.PaymentID]ledger.TuitionPayment
	salaryPayments map[ledger.SalaryPaymentID]ledger.SalaryPayment
	expenses       map[ledger.ExpenseID]ledger.Expense
}

type enrollKey struct {
	GroupID   ledger.GroupID
	StudentID ledger.StudentID
}

func NewMemory() *Memory {
	return &Memory{
		branches:       make(map[ledger.BranchID]ledger.Branch),
		courses:        make(map[ledger.CourseID]ledger.Course),
		students:       make(map[ledger.StudentID]ledger.Student),
		teachers:       make(map[ledger.TeacherID]ledger.Teacher),
		groups:         make(map[ledger.GroupID]ledger.Group),
		enrollments:    make(map[enrollKey]struct{}),
		payments:       make(map[ledger.PaymentID]ledger.TuitionPayment),
		salaryPayments: make(map[ledger.SalaryPaymentID]ledger.SalaryPayment),
		expenses:       make(map[ledger.ExpenseID]ledger.Expense),
	}
}

// Compile-time interface checks.
var (
	_ ledger.Store        = (*Memory)(nil)
	_ ledger.EntityWriter = (*Memory)(nil)
)

// =============================================================================
// DIRECTORY
// =============================================================================

func (m *Memory) GetBranch(_ context.Context, id ledger.BranchID) (ledger.Branch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.branches[id]
	if !ok {
		return ledger.Branch{}, ledger.ErrBranchNotFound
	}
	return b, nil
}

func (m *Memory) GetCourse(_ context.Context, id ledger.CourseID) (ledger.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return ledger.Course{}, ledger.ErrCourseNotFound
	}
	return c, nil
}

func (m *Memory) GetStudent(_ context.Context, id ledger.StudentID) (ledger.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[id]
	if !ok {
		return ledger.Student{}, ledger.ErrStudentNotFound
	}
	return s, nil
}

func (m *Memory) GetTeacher(_ context.Context, id ledger.TeacherID) (ledger.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teachers[id]
	if !ok {
		return ledger.Teacher{}, ledger.ErrTeacherNotFound
	}
	return t, nil
}

func (m *Memory) GetGroup(_ context.Context, id ledger.GroupID) (ledger.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return ledger.Group{}, ledger.ErrGroupNotFound
	}
	return g, nil
}

func (m *Memory) GroupsByBranch(_ context.Context, branchID ledger.BranchID) ([]ledger.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Group
	for _, g := range m.groups {
		if g.BranchID == branchID {
			out = append(out, g)
		}
	}
	sortGroups(out)
	return out, nil
}

func (m *Memory) GroupsByTeacher(_ context.Context, teacherID ledger.TeacherID) ([]ledger.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Group
	for _, g := range m.groups {
		if g.TeacherID == teacherID {
			out = append(out, g)
		}
	}
	sortGroups(out)
	return out, nil
}

func (m *Memory) GroupsByStudent(_ context.Context, studentID ledger.StudentID) ([]ledger.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Group
	for k := range m.enrollments {
		if k.StudentID != studentID {
			continue
		}
		if g, ok := m.groups[k.GroupID]; ok {
			out = append(out, g)
		}
	}
	sortGroups(out)
	return out, nil
}

func (m *Memory) StudentsByGroup(_ context.Context, groupID ledger.GroupID) ([]ledger.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Student
	for k := range m.enrollments {
		if k.GroupID != groupID {
			continue
		}
		if s, ok := m.students[k.StudentID]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) TeachersByBranch(_ context.Context, branchID ledger.BranchID) ([]ledger.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Teacher
	for _, t := range m.teachers {
		if t.BranchID == branchID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) IsEnrolled(_ context.Context, studentID ledger.StudentID, groupID ledger.GroupID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.enrollments[enrollKey{GroupID: groupID, StudentID: studentID}]
	return ok, nil
}

// =============================================================================
// PAYMENT STORE
// =============================================================================

func (m *Memory) AppendTuitionPayment(_ context.Context, p ledger.TuitionPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	return nil
}

func (m *Memory) GetTuitionPayment(_ context.Context, id ledger.PaymentID) (ledger.TuitionPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return ledger.TuitionPayment{}, ledger.ErrPaymentNotFound
	}
	return p, nil
}

func (m *Memory) UpdateTuitionPaymentAmount(_ context.Context, id ledger.PaymentID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return ledger.ErrPaymentNotFound
	}
	p.Amount = amount
	m.payments[id] = p
	return nil
}

func (m *Memory) DeleteTuitionPayment(_ context.Context, id ledger.PaymentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return ledger.ErrPaymentNotFound
	}
	delete(m.payments, id)
	return nil
}

func (m *Memory) PaymentsByStudent(_ context.Context, studentID ledger.StudentID) ([]ledger.TuitionPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.TuitionPayment
	for _, p := range m.payments {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	sortPaymentsNewestFirst(out)
	return out, nil
}

func (m *Memory) PaymentsByBranchMonth(_ context.Context, branchID ledger.BranchID, period ledger.YearMonth) ([]ledger.TuitionPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.TuitionPayment
	for _, p := range m.payments {
		if p.BranchID == branchID && p.Period.Equal(period) {
			out = append(out, p)
		}
	}
	sortPaymentsNewestFirst(out)
	return out, nil
}

func (m *Memory) SumByStudentMonth(_ context.Context, studentID ledger.StudentID, period ledger.YearMonth) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumPayments(func(p ledger.TuitionPayment) bool {
		return p.StudentID == studentID && p.Period.Equal(period)
	}), nil
}

func (m *Memory) SumByStudentGroupMonth(_ context.Context, studentID ledger.StudentID, groupID ledger.GroupID, period ledger.YearMonth) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumPayments(func(p ledger.TuitionPayment) bool {
		return p.StudentID == studentID && p.GroupID == groupID && p.Period.Equal(period)
	}), nil
}

func (m *Memory) SumByStudentCourseMonth(_ context.Context, studentID ledger.StudentID, courseID ledger.CourseID, period ledger.YearMonth) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumPayments(func(p ledger.TuitionPayment) bool {
		return p.StudentID == studentID && p.CourseID == courseID && p.Period.Equal(period)
	}), nil
}

func (m *Memory) SumByStudentCourse(_ context.Context, studentID ledger.StudentID, courseID ledger.CourseID) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumPayments(func(p ledger.TuitionPayment) bool {
		return p.StudentID == studentID && p.CourseID == courseID
	}), nil
}

func (m *Memory) SumByBranchRange(_ context.Context, branchID ledger.BranchID, from, to time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumPayments(func(p ledger.TuitionPayment) bool {
		return p.BranchID == branchID && !p.CreatedAt.Before(from) && !p.CreatedAt.After(to)
	}), nil
}

func (m *Memory) SumByBranchMonth(_ context.Context, branchID ledger.BranchID, period ledger.YearMonth) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumPayments(func(p ledger.TuitionPayment) bool {
		return p.BranchID == branchID && p.Period.Equal(period)
	}), nil
}

func (m *Memory) LastPaymentAt(_ context.Context, studentID ledger.StudentID) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *time.Time
	for _, p := range m.payments {
		if p.StudentID != studentID {
			continue
		}
		if last == nil || p.CreatedAt.After(*last) {
			t := p.CreatedAt
			last = &t
		}
	}
	return last, nil
}

func (m *Memory) sumPayments(match func(ledger.TuitionPayment) bool) decimal.Decimal {
	total := decimal.Zero
	for _, p := range m.payments {
		if match(p) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// =============================================================================
// SALARY STORE
// =============================================================================

func (m *Memory) AppendSalaryPayment(_ context.Context, p ledger.SalaryPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salaryPayments[p.ID] = p
	return nil
}

func (m *Memory) GetSalaryPayment(_ context.Context, id ledger.SalaryPaymentID) (ledger.SalaryPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.salaryPayments[id]
	if !ok {
		return ledger.SalaryPayment{}, ledger.ErrSalaryPaymentNotFound
	}
	return p, nil
}

func (m *Memory) DeleteSalaryPayment(_ context.Context, id ledger.SalaryPaymentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.salaryPayments[id]; !ok {
		return ledger.ErrSalaryPaymentNotFound
	}
	delete(m.salaryPayments, id)
	return nil
}

func (m *Memory) SalaryPaymentsByTeacher(_ context.Context, teacherID ledger.TeacherID) ([]ledger.SalaryPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.SalaryPayment
	for _, p := range m.salaryPayments {
		if p.TeacherID == teacherID {
			out = append(out, p)
		}
	}
	sortSalaryPaymentsNewestFirst(out)
	return out, nil
}

func (m *Memory) SalaryPaymentsByBranch(_ context.Context, branchID ledger.BranchID) ([]ledger.SalaryPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.SalaryPayment
	for _, p := range m.salaryPayments {
		if p.BranchID == branchID {
			out = append(out, p)
		}
	}
	sortSalaryPaymentsNewestFirst(out)
	return out, nil
}

func (m *Memory) SumSalaryPaid(_ context.Context, teacherID ledger.TeacherID, period ledger.YearMonth) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, p := range m.salaryPayments {
		if p.TeacherID == teacherID && p.Period.Equal(period) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (m *Memory) CountSalaryPayments(_ context.Context, teacherID ledger.TeacherID, period ledger.YearMonth) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, p := range m.salaryPayments {
		if p.TeacherID == teacherID && p.Period.Equal(period) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) LastSalaryPaymentAt(_ context.Context, teacherID ledger.TeacherID, period ledger.YearMonth) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *time.Time
	for _, p := range m.salaryPayments {
		if p.TeacherID != teacherID || !p.Period.Equal(period) {
			continue
		}
		if last == nil || p.CreatedAt.After(*last) {
			t := p.CreatedAt
			last = &t
		}
	}
	return last, nil
}

func (m *Memory) SalaryPaymentPeriods(_ context.Context, teacherID ledger.TeacherID) ([]ledger.YearMonth, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[ledger.YearMonth]struct{})
	var out []ledger.YearMonth
	for _, p := range m.salaryPayments {
		if p.TeacherID != teacherID {
			continue
		}
		if _, ok := seen[p.Period]; ok {
			continue
		}
		seen[p.Period] = struct{}{}
		out = append(out, p.Period)
	}
	return out, nil
}

func (m *Memory) SumSalaryPaidByBranchRange(_ context.Context, branchID ledger.BranchID, from, to time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, p := range m.salaryPayments {
		if p.BranchID == branchID && !p.CreatedAt.Before(from) && !p.CreatedAt.After(to) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

// =============================================================================
// EXPENSE STORE
// =============================================================================

func (m *Memory) AppendExpense(_ context.Context, e ledger.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.ID] = e
	return nil
}

func (m *Memory) GetExpense(_ context.Context, id ledger.ExpenseID) (ledger.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.expenses[id]
	if !ok {
		return ledger.Expense{}, ledger.ErrExpenseNotFound
	}
	return e, nil
}

func (m *Memory) DeleteExpense(_ context.Context, id ledger.ExpenseID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return ledger.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *Memory) ExpensesByBranch(_ context.Context, branchID ledger.BranchID) ([]ledger.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Expense
	for _, e := range m.expenses {
		if e.BranchID == branchID {
			out = append(out, e)
		}
	}
	sortExpensesNewestFirst(out)
	return out, nil
}

func (m *Memory) SumExpensesByBranch(_ context.Context, branchID ledger.BranchID) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, e := range m.expenses {
		if e.BranchID == branchID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (m *Memory) SumExpensesByBranchRange(_ context.Context, branchID ledger.BranchID, from, to time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, e := range m.expenses {
		if e.BranchID == branchID && !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// =============================================================================
// ENTITY WRITER
// =============================================================================

func (m *Memory) SaveBranch(_ context.Context, b ledger.Branch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[b.ID] = b
	return nil
}

func (m *Memory) SaveCourse(_ context.Context, c ledger.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *Memory) SaveStudent(_ context.Context, s ledger.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[s.ID] = s
	return nil
}

func (m *Memory) SaveTeacher(_ context.Context, t ledger.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teachers[t.ID] = t
	return nil
}

func (m *Memory) SaveGroup(_ context.Context, g ledger.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID] = g
	return nil
}

func (m *Memory) Enroll(_ context.Context, studentID ledger.StudentID, groupID ledger.GroupID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := enrollKey{GroupID: groupID, StudentID: studentID}
	if _, ok := m.enrollments[k]; ok {
		return ledger.ErrAlreadyEnrolled
	}
	m.enrollments[k] = struct{}{}
	return nil
}

func (m *Memory) Unenroll(_ context.Context, studentID ledger.StudentID, groupID ledger.GroupID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.enrollments, enrollKey{GroupID: groupID, StudentID: studentID})
	return nil
}

// =============================================================================
// SORT HELPERS - deterministic output for tests
// =============================================================================

func sortGroups(gs []ledger.Group) {
	sort.Slice(gs, func(i, j int) bool { return gs[i].ID < gs[j].ID })
}

func sortPaymentsNewestFirst(ps []ledger.TuitionPayment) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}

func sortSalaryPaymentsNewestFirst(ps []ledger.SalaryPayment) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}

func sortExpensesNewestFirst(es []ledger.Expense) {
	sort.Slice(es, func(i, j int) bool {
		if !es[i].CreatedAt.Equal(es[j].CreatedAt) {
			return es[i].CreatedAt.After(es[j].CreatedAt)
		}
		return es[i].ID < es[j].ID
	})
}
