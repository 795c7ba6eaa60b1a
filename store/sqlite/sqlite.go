/*
Package sqlite provides the SQLite-backed implementation of the ledger
storage interfaces.

PURPOSE:
  Implements ledger.Store and ledger.EntityWriter using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  branches, courses, students, teachers, groups: entity records
  enrollments:     (group_id, student_id) membership pairs, unique
  payments:        tuition payment records
  salary_payments: teacher salary disbursements
  expenses:        branch operating costs

MONEY:
  Amounts are stored as decimal strings (TEXT) and summed in Go with
  decimal.Decimal. SQLite's numeric SUM coerces to float and drifts,
  which the engine's money arithmetic cannot tolerate.

INDEXES:
  Critical indexes for performance:
  - idx_payments_student_month: student payment status (hot path)
  - idx_payments_group: per-group sums for salary calculation
  - idx_payments_course: unpaid-student detection
  - idx_salary_payments_teacher_month: reconciliation sums

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/tuition.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
)

const timeLayout = time.RFC3339Nano

// Store implements ledger.Store and ledger.EntityWriter using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time interface checks.
var (
	_ ledger.Store        = (*Store)(nil)
	_ ledger.EntityWriter = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS branches (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL REFERENCES branches(id),
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		duration_months INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_courses_branch ON courses(branch_id);

	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL REFERENCES branches(id),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		phone TEXT,
		parent_phone TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_students_branch ON students(branch_id);

	CREATE TABLE IF NOT EXISTS teachers (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL REFERENCES branches(id),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		payment_percentage TEXT NOT NULL,
		salary_type TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_teachers_branch ON teachers(branch_id);

	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL REFERENCES branches(id),
		course_id TEXT NOT NULL REFERENCES courses(id),
		teacher_id TEXT NOT NULL REFERENCES teachers(id),
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_groups_branch ON groups(branch_id);
	CREATE INDEX IF NOT EXISTS idx_groups_teacher ON groups(teacher_id);

	CREATE TABLE IF NOT EXISTS enrollments (
		group_id TEXT NOT NULL REFERENCES groups(id),
		student_id TEXT NOT NULL REFERENCES students(id),
		created_at TEXT NOT NULL,
		PRIMARY KEY (group_id, student_id)
	);
	CREATE INDEX IF NOT EXISTS idx_enrollments_student ON enrollments(student_id);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id),
		course_id TEXT NOT NULL REFERENCES courses(id),
		group_id TEXT NOT NULL REFERENCES groups(id),
		branch_id TEXT NOT NULL REFERENCES branches(id),
		amount TEXT NOT NULL,
		description TEXT,
		pay_year INTEGER NOT NULL,
		pay_month INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_payments_student_month
		ON payments(student_id, pay_year, pay_month);
	CREATE INDEX IF NOT EXISTS idx_payments_group
		ON payments(group_id, pay_year, pay_month);
	CREATE INDEX IF NOT EXISTS idx_payments_course
		ON payments(course_id);
	CREATE INDEX IF NOT EXISTS idx_payments_branch_month
		ON payments(branch_id, pay_year, pay_month);

	CREATE TABLE IF NOT EXISTS salary_payments (
		id TEXT PRIMARY KEY,
		teacher_id TEXT NOT NULL REFERENCES teachers(id),
		branch_id TEXT NOT NULL REFERENCES branches(id),
		amount TEXT NOT NULL,
		description TEXT,
		pay_year INTEGER NOT NULL,
		pay_month INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_salary_payments_teacher_month
		ON salary_payments(teacher_id, pay_year, pay_month);
	CREATE INDEX IF NOT EXISTS idx_salary_payments_branch
		ON salary_payments(branch_id);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		branch_id TEXT NOT NULL REFERENCES branches(id),
		amount TEXT NOT NULL,
		category TEXT,
		description TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_branch ON expenses(branch_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DIRECTORY
// =============================================================================

func (s *Store) GetBranch(ctx context.Context, id ledger.BranchID) (ledger.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(address,''), created_at FROM branches WHERE id = ?`, string(id))

	var b ledger.Branch
	var createdAt string
	if err := row.Scan(&b.ID, &b.Name, &b.Address, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Branch{}, ledger.ErrBranchNotFound
		}
		return ledger.Branch{}, err
	}
	b.CreatedAt = parseTime(createdAt)
	return b, nil
}

func (s *Store) GetCourse(ctx context.Context, id ledger.CourseID) (ledger.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, name, price, duration_months, created_at FROM courses WHERE id = ?`, string(id))
	return scanCourse(row)
}

func (s *Store) GetStudent(ctx context.Context, id ledger.StudentID) (ledger.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, first_name, last_name, COALESCE(phone,''), COALESCE(parent_phone,''), created_at
		 FROM students WHERE id = ?`, string(id))

	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Student{}, ledger.ErrStudentNotFound
	}
	return st, err
}

func (s *Store) GetTeacher(ctx context.Context, id ledger.TeacherID) (ledger.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, first_name, last_name, base_salary, payment_percentage, salary_type, created_at
		 FROM teachers WHERE id = ?`, string(id))

	t, err := scanTeacher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Teacher{}, ledger.ErrTeacherNotFound
	}
	return t, err
}

func (s *Store) GetGroup(ctx context.Context, id ledger.GroupID) (ledger.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, course_id, teacher_id, name, created_at FROM groups WHERE id = ?`, string(id))

	var g ledger.Group
	var createdAt string
	if err := row.Scan(&g.ID, &g.BranchID, &g.CourseID, &g.TeacherID, &g.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Group{}, ledger.ErrGroupNotFound
		}
		return ledger.Group{}, err
	}
	g.CreatedAt = parseTime(createdAt)
	return g, nil
}

func (s *Store) GroupsByBranch(ctx context.Context, branchID ledger.BranchID) ([]ledger.Group, error) {
	return s.queryGroups(ctx,
		`SELECT id, branch_id, course_id, teacher_id, name, created_at FROM groups WHERE branch_id = ? ORDER BY id`,
		string(branchID))
}

func (s *Store) GroupsByTeacher(ctx context.Context, teacherID ledger.TeacherID) ([]ledger.Group, error) {
	return s.queryGroups(ctx,
		`SELECT id, branch_id, course_id, teacher_id, name, created_at FROM groups WHERE teacher_id = ? ORDER BY id`,
		string(teacherID))
}

func (s *Store) GroupsByStudent(ctx context.Context, studentID ledger.StudentID) ([]ledger.Group, error) {
	return s.queryGroups(ctx,
		`SELECT g.id, g.branch_id, g.course_id, g.teacher_id, g.name, g.created_at
		 FROM groups g
		 JOIN enrollments e ON e.group_id = g.id
		 WHERE e.student_id = ?
		 ORDER BY g.id`,
		string(studentID))
}

func (s *Store) StudentsByGroup(ctx context.Context, groupID ledger.GroupID) ([]ledger.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.branch_id, st.first_name, st.last_name, COALESCE(st.phone,''), COALESCE(st.parent_phone,''), st.created_at
		 FROM students st
		 JOIN enrollments e ON e.student_id = st.id
		 WHERE e.group_id = ?
		 ORDER BY st.id`,
		string(groupID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) TeachersByBranch(ctx context.Context, branchID ledger.BranchID) ([]ledger.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, branch_id, first_name, last_name, base_salary, payment_percentage, salary_type, created_at
		 FROM teachers WHERE branch_id = ? ORDER BY id`,
		string(branchID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) IsEnrolled(ctx context.Context, studentID ledger.StudentID, groupID ledger.GroupID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isEnrolledLocked(ctx, studentID, groupID)
}

func (s *Store) isEnrolledLocked(ctx context.Context, studentID ledger.StudentID, groupID ledger.GroupID) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM enrollments WHERE student_id = ? AND group_id = ?`,
		string(studentID), string(groupID)).Scan(&n)
	return n > 0, err
}

// =============================================================================
// PAYMENT STORE
// =============================================================================

func (s *Store) AppendTuitionPayment(ctx context.Context, p ledger.TuitionPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, student_id, course_id, group_id, branch_id, amount, description, pay_year, pay_month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.StudentID), string(p.CourseID), string(p.GroupID), string(p.BranchID),
		p.Amount.String(), p.Description, p.Period.Year, int(p.Period.Month), p.CreatedAt.Format(timeLayout))
	return err
}

func (s *Store) GetTuitionPayment(ctx context.Context, id ledger.PaymentID) (ledger.TuitionPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, student_id, course_id, group_id, branch_id, amount, COALESCE(description,''), pay_year, pay_month, created_at
		 FROM payments WHERE id = ?`, string(id))

	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.TuitionPayment{}, ledger.ErrPaymentNotFound
	}
	return p, err
}

func (s *Store) UpdateTuitionPaymentAmount(ctx context.Context, id ledger.PaymentID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET amount = ? WHERE id = ?`, amount.String(), string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) DeleteTuitionPayment(ctx context.Context, id ledger.PaymentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) PaymentsByStudent(ctx context.Context, studentID ledger.StudentID) ([]ledger.TuitionPayment, error) {
	return s.queryPayments(ctx,
		`SELECT id, student_id, course_id, group_id, branch_id, amount, COALESCE(description,''), pay_year, pay_month, created_at
		 FROM payments WHERE student_id = ? ORDER BY created_at DESC, id`,
		string(studentID))
}

func (s *Store) PaymentsByBranchMonth(ctx context.Context, branchID ledger.BranchID, period ledger.YearMonth) ([]ledger.TuitionPayment, error) {
	return s.queryPayments(ctx,
		`SELECT id, student_id, course_id, group_id, branch_id, amount, COALESCE(description,''), pay_year, pay_month, created_at
		 FROM payments WHERE branch_id = ? AND pay_year = ? AND pay_month = ? ORDER BY created_at DESC, id`,
		string(branchID), period.Year, int(period.Month))
}

func (s *Store) SumByStudentMonth(ctx context.Context, studentID ledger.StudentID, period ledger.YearMonth) (decimal.Decimal, error) {
	return s.sumAmounts(ctx,
		`SELECT amount FROM payments WHERE student_id = ? AND pay_year = ? AND pay_month = ?`,
		string(studentID), period.Year, int(period.Month))
}

func (s *Store) SumByStudentGroupMonth(ctx context.Context, studentID ledger.StudentID, groupID ledger.GroupID, period ledger.YearMonth) (decimal.Decimal, error) {
	return s.sumAmounts(ctx,
		`SELECT amount FROM payments WHERE student_id = ? AND group_id = ? AND pay_year = ? AND pay_month = ?`,
		string(studentID), string(groupID), period.Year, int(period.Month))
}

func (s *Store) SumByStudentCourseMonth(ctx context.Context, studentID ledger.StudentID, courseID ledger.CourseID, period ledger.YearMonth) (decimal.Decimal, error) {
	return s.sumAmounts(ctx,
		`SELECT amount FROM payments WHERE student_id = ? AND course_id = ? AND pay_year = ? AND pay_month = ?`,
		string(studentID), string(courseID), period.Year, int(period.Month))
}

func (s *Store) SumByStudentCourse(ctx context.Context, studentID ledger.StudentID, courseID ledger.CourseID) (decimal.Decimal, error) {
	return s.sumAmounts(ctx,
		`SELECT amount FROM payments WHERE student_id = ? AND course_id = ?`,
		string(studentID), string(courseID))
}

func (s *Store) SumByBranchRange(ctx context.Context, branchID ledger.BranchID, from, to time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, created_at FROM payments WHERE branch_id = ?`, string(branchID))
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()
	return sumAmountsInRange(rows, from, to)
}

func (s *Store) SumByBranchMonth(ctx context.Context, branchID ledger.BranchID, period ledger.YearMonth) (decimal.Decimal, error) {
	return s.sumAmounts(ctx,
		`SELECT amount FROM payments WHERE branch_id = ? AND pay_year = ? AND pay_month = ?`,
		string(branchID), period.Year, int(period.Month))
}

func (s *Store) LastPaymentAt(ctx context.Context, studentID ledger.StudentID) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM payments WHERE student_id = ? ORDER BY created_at DESC LIMIT 1`,
		string(studentID))

	var createdAt string
	if err := row.Scan(&createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t := parseTime(createdAt)
	return &t, nil
}

// =============================================================================
// SALARY STORE
// =============================================================================

func (s *Store) AppendSalaryPayment(ctx context.Context, p ledger.SalaryPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO salary_payments (id, teacher_id, branch_id, amount, description, pay_year, pay_month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.TeacherID), string(p.BranchID),
		p.Amount.String(), p.Description, p.Period.Year, int(p.Period.Month), p.CreatedAt.Format(timeLayout))
	return err
}

func (s *Store) GetSalaryPayment(ctx context.Context, id ledger.SalaryPaymentID) (ledger.SalaryPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, teacher_id, branch_id, amount, COALESCE(description,''), pay_year, pay_month, created_at
		 FROM salary_payments WHERE id = ?`, string(id))

	p, err := scanSalaryPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.SalaryPayment{}, ledger.ErrSalaryPaymentNotFound
	}
	return p, err
}

func (s *Store) DeleteSalaryPayment(ctx context.Context, id ledger.SalaryPaymentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM salary_payments WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrSalaryPaymentNotFound
	}
	return nil
}

func (s *Store) SalaryPaymentsByTeacher(ctx context.Context, teacherID ledger.TeacherID) ([]ledger.SalaryPayment, error) {
	return s.querySalaryPayments(ctx,
		`SELECT id, teacher_id, branch_id, amount, COALESCE(description,''), pay_year, pay_month, created_at
		 FROM salary_payments WHERE teacher_id = ? ORDER BY created_at DESC, id`,
		string(teacherID))
}

func (s *Store) SalaryPaymentsByBranch(ctx context.Context, branchID ledger.BranchID) ([]ledger.SalaryPayment, error) {
	return s.querySalaryPayments(ctx,
		`SELECT id, teacher_id, branch_id, amount, COALESCE(description,''), pay_year, pay_month, created_at
		 FROM salary_payments WHERE branch_id = ? ORDER BY created_at DESC, id`,
		string(branchID))
}

func (s *Store) SumSalaryPaid(ctx context.Context, teacherID ledger.TeacherID, period ledger.YearMonth) (decimal.Decimal, error) {
	return s.sumAmounts(ctx,
		`SELECT amount FROM salary_payments WHERE teacher_id = ? AND pay_year = ? AND pay_month = ?`,
		string(teacherID), period.Year, int(period.Month))
}

func (s *Store) CountSalaryPayments(ctx context.Context, teacherID ledger.TeacherID, period ledger.YearMonth) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM salary_payments WHERE teacher_id = ? AND pay_year = ? AND pay_month = ?`,
		string(teacherID), period.Year, int(period.Month)).Scan(&n)
	return n, err
}

func (s *Store) LastSalaryPaymentAt(ctx context.Context, teacherID ledger.TeacherID, period ledger.YearMonth) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM salary_payments
		 WHERE teacher_id = ? AND pay_year = ? AND pay_month = ?
		 ORDER BY created_at DESC LIMIT 1`,
		string(teacherID), period.Year, int(period.Month))

	var createdAt string
	if err := row.Scan(&createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t := parseTime(createdAt)
	return &t, nil
}

func (s *Store) SalaryPaymentPeriods(ctx context.Context, teacherID ledger.TeacherID) ([]ledger.YearMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT pay_year, pay_month FROM salary_payments WHERE teacher_id = ?`,
		string(teacherID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.YearMonth
	for rows.Next() {
		var year, month int
		if err := rows.Scan(&year, &month); err != nil {
			return nil, err
		}
		out = append(out, ledger.NewYearMonth(year, month))
	}
	return out, rows.Err()
}

func (s *Store) SumSalaryPaidByBranchRange(ctx context.Context, branchID ledger.BranchID, from, to time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, created_at FROM salary_payments WHERE branch_id = ?`, string(branchID))
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()
	return sumAmountsInRange(rows, from, to)
}

// =============================================================================
// EXPENSE STORE
// =============================================================================

func (s *Store) AppendExpense(ctx context.Context, e ledger.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, branch_id, amount, category, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(e.ID), string(e.BranchID), e.Amount.String(), e.Category, e.Description,
		e.CreatedAt.Format(timeLayout))
	return err
}

func (s *Store) GetExpense(ctx context.Context, id ledger.ExpenseID) (ledger.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, branch_id, amount, COALESCE(category,''), COALESCE(description,''), created_at
		 FROM expenses WHERE id = ?`, string(id))

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Expense{}, ledger.ErrExpenseNotFound
	}
	return e, err
}

func (s *Store) DeleteExpense(ctx context.Context, id ledger.ExpenseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrExpenseNotFound
	}
	return nil
}

func (s *Store) ExpensesByBranch(ctx context.Context, branchID ledger.BranchID) ([]ledger.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, branch_id, amount, COALESCE(category,''), COALESCE(description,''), created_at
		 FROM expenses WHERE branch_id = ? ORDER BY created_at DESC, id`,
		string(branchID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) SumExpensesByBranch(ctx context.Context, branchID ledger.BranchID) (decimal.Decimal, error) {
	return s.sumAmounts(ctx,
		`SELECT amount FROM expenses WHERE branch_id = ?`, string(branchID))
}

func (s *Store) SumExpensesByBranchRange(ctx context.Context, branchID ledger.BranchID, from, to time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT amount, created_at FROM expenses WHERE branch_id = ?`, string(branchID))
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()
	return sumAmountsInRange(rows, from, to)
}

// =============================================================================
// ENTITY WRITER
// =============================================================================

func (s *Store) SaveBranch(ctx context.Context, b ledger.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO branches (id, name, address, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, address = excluded.address`,
		string(b.ID), b.Name, b.Address, orNow(b.CreatedAt))
	return err
}

func (s *Store) SaveCourse(ctx context.Context, c ledger.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, branch_id, name, price, duration_months, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, price = excluded.price, duration_months = excluded.duration_months`,
		string(c.ID), string(c.BranchID), c.Name, c.Price.String(), c.DurationMonths, orNow(c.CreatedAt))
	return err
}

func (s *Store) SaveStudent(ctx context.Context, st ledger.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (id, branch_id, first_name, last_name, phone, parent_phone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name, last_name = excluded.last_name,
			phone = excluded.phone, parent_phone = excluded.parent_phone`,
		string(st.ID), string(st.BranchID), st.FirstName, st.LastName, st.Phone, st.ParentPhone, orNow(st.CreatedAt))
	return err
}

func (s *Store) SaveTeacher(ctx context.Context, t ledger.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teachers (id, branch_id, first_name, last_name, base_salary, payment_percentage, salary_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name, last_name = excluded.last_name,
			base_salary = excluded.base_salary, payment_percentage = excluded.payment_percentage,
			salary_type = excluded.salary_type`,
		string(t.ID), string(t.BranchID), t.FirstName, t.LastName,
		t.BaseSalary.String(), t.PaymentPercentage.String(), string(t.SalaryType), orNow(t.CreatedAt))
	return err
}

func (s *Store) SaveGroup(ctx context.Context, g ledger.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (id, branch_id, course_id, teacher_id, name, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			course_id = excluded.course_id, teacher_id = excluded.teacher_id, name = excluded.name`,
		string(g.ID), string(g.BranchID), string(g.CourseID), string(g.TeacherID), g.Name, orNow(g.CreatedAt))
	return err
}

func (s *Store) Enroll(ctx context.Context, studentID ledger.StudentID, groupID ledger.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrolled, err := s.isEnrolledLocked(ctx, studentID, groupID)
	if err != nil {
		return err
	}
	if enrolled {
		return ledger.ErrAlreadyEnrolled
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO enrollments (group_id, student_id, created_at) VALUES (?, ?, ?)`,
		string(groupID), string(studentID), time.Now().UTC().Format(timeLayout))
	return err
}

func (s *Store) Unenroll(ctx context.Context, studentID ledger.StudentID, groupID ledger.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE group_id = ? AND student_id = ?`,
		string(groupID), string(studentID))
	return err
}

// =============================================================================
// SCAN AND QUERY HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (ledger.Course, error) {
	var c ledger.Course
	var price, createdAt string
	if err := row.Scan(&c.ID, &c.BranchID, &c.Name, &price, &c.DurationMonths, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Course{}, ledger.ErrCourseNotFound
		}
		return ledger.Course{}, err
	}
	c.Price = ledger.Money(price)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func scanStudent(row rowScanner) (ledger.Student, error) {
	var st ledger.Student
	var createdAt string
	if err := row.Scan(&st.ID, &st.BranchID, &st.FirstName, &st.LastName, &st.Phone, &st.ParentPhone, &createdAt); err != nil {
		return ledger.Student{}, err
	}
	st.CreatedAt = parseTime(createdAt)
	return st, nil
}

func scanTeacher(row rowScanner) (ledger.Teacher, error) {
	var t ledger.Teacher
	var baseSalary, pct, createdAt string
	if err := row.Scan(&t.ID, &t.BranchID, &t.FirstName, &t.LastName, &baseSalary, &pct, &t.SalaryType, &createdAt); err != nil {
		return ledger.Teacher{}, err
	}
	t.BaseSalary = ledger.Money(baseSalary)
	t.PaymentPercentage = ledger.Money(pct)
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func scanPayment(row rowScanner) (ledger.TuitionPayment, error) {
	var p ledger.TuitionPayment
	var amount, createdAt string
	var year, month int
	if err := row.Scan(&p.ID, &p.StudentID, &p.CourseID, &p.GroupID, &p.BranchID, &amount, &p.Description, &year, &month, &createdAt); err != nil {
		return ledger.TuitionPayment{}, err
	}
	p.Amount = ledger.Money(amount)
	p.Period = ledger.NewYearMonth(year, month)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

func scanExpense(row rowScanner) (ledger.Expense, error) {
	var e ledger.Expense
	var amount, createdAt string
	if err := row.Scan(&e.ID, &e.BranchID, &amount, &e.Category, &e.Description, &createdAt); err != nil {
		return ledger.Expense{}, err
	}
	e.Amount = ledger.Money(amount)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

func scanSalaryPayment(row rowScanner) (ledger.SalaryPayment, error) {
	var p ledger.SalaryPayment
	var amount, createdAt string
	var year, month int
	if err := row.Scan(&p.ID, &p.TeacherID, &p.BranchID, &amount, &p.Description, &year, &month, &createdAt); err != nil {
		return ledger.SalaryPayment{}, err
	}
	p.Amount = ledger.Money(amount)
	p.Period = ledger.NewYearMonth(year, month)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

func (s *Store) queryGroups(ctx context.Context, query string, args ...any) ([]ledger.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Group
	for rows.Next() {
		var g ledger.Group
		var createdAt string
		if err := rows.Scan(&g.ID, &g.BranchID, &g.CourseID, &g.TeacherID, &g.Name, &createdAt); err != nil {
			return nil, err
		}
		g.CreatedAt = parseTime(createdAt)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]ledger.TuitionPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.TuitionPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) querySalaryPayments(ctx context.Context, query string, args ...any) ([]ledger.SalaryPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.SalaryPayment
	for rows.Next() {
		p, err := scanSalaryPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// sumAmounts totals a single-column amount query in Go with decimals.
func (s *Store) sumAmounts(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(ledger.Money(amount))
	}
	return total, rows.Err()
}

// sumAmountsInRange totals (amount, created_at) rows whose timestamp falls
// within [from, to]. The range check happens in Go on parsed times rather
// than on string ordering.
func sumAmountsInRange(rows *sql.Rows, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for rows.Next() {
		var amount, createdAt string
		if err := rows.Scan(&amount, &createdAt); err != nil {
			return decimal.Zero, err
		}
		at := parseTime(createdAt)
		if at.Before(from) || at.After(to) {
			continue
		}
		total = total.Add(ledger.Money(amount))
	}
	return total, rows.Err()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func orNow(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.Format(timeLayout)
}
