/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  All amounts cross the wire as decimal strings ("500000.00"), never as
  JSON numbers. Float64 cannot represent money exactly.

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  the validator before touching domain logic.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: The domain model behind them
*/
package api

import (
	"time"

	"github.com/edulink/tuition-engine/ledger"
	"github.com/edulink/tuition-engine/report"
	"github.com/edulink/tuition-engine/salary"
	"github.com/edulink/tuition-engine/tuition"
)

// =============================================================================
// ENTITY TYPES
// =============================================================================

// ErrorResponse is the JSON body for all error replies.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// BranchDTO represents a branch in API responses.
type BranchDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateBranchRequest is the request to create a branch.
type CreateBranchRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// CourseDTO represents a course in API responses.
type CourseDTO struct {
	ID             string `json:"id"`
	BranchID       string `json:"branch_id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	DurationMonths int    `json:"duration_months,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// CreateCourseRequest is the request to create a course.
type CreateCourseRequest struct {
	ID             string `json:"id"`
	BranchID       string `json:"branch_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Price          string `json:"price" validate:"required"`
	DurationMonths int    `json:"duration_months" validate:"gte=0"`
}

// StudentDTO represents a student in API responses.
type StudentDTO struct {
	ID          string `json:"id"`
	BranchID    string `json:"branch_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone,omitempty"`
	ParentPhone string `json:"parent_phone,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateStudentRequest is the request to create a student.
type CreateStudentRequest struct {
	ID          string `json:"id"`
	BranchID    string `json:"branch_id" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone"`
	ParentPhone string `json:"parent_phone"`
}

// TeacherDTO represents a teacher in API responses.
type TeacherDTO struct {
	ID                string `json:"id"`
	BranchID          string `json:"branch_id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	BaseSalary        string `json:"base_salary"`
	PaymentPercentage string `json:"payment_percentage"`
	SalaryType        string `json:"salary_type"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// CreateTeacherRequest is the request to create a teacher.
type CreateTeacherRequest struct {
	ID                string `json:"id"`
	BranchID          string `json:"branch_id" validate:"required"`
	FirstName         string `json:"first_name" validate:"required"`
	LastName          string `json:"last_name" validate:"required"`
	BaseSalary        string `json:"base_salary"`
	PaymentPercentage string `json:"payment_percentage"`
	SalaryType        string `json:"salary_type" validate:"required,oneof=FIXED PERCENTAGE MIXED"`
}

// GroupDTO represents a group in API responses.
type GroupDTO struct {
	ID        string `json:"id"`
	BranchID  string `json:"branch_id"`
	CourseID  string `json:"course_id"`
	TeacherID string `json:"teacher_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateGroupRequest is the request to create a group.
type CreateGroupRequest struct {
	ID        string `json:"id"`
	BranchID  string `json:"branch_id" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
}

// EnrollRequest is the request to enroll a student into a group.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

// =============================================================================
// TUITION TYPES
// =============================================================================

// PaymentDTO represents a tuition payment in API responses.
type PaymentDTO struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	GroupID     string `json:"group_id"`
	CourseID    string `json:"course_id"`
	BranchID    string `json:"branch_id"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	CreatedAt   string `json:"created_at"`
}

// RecordPaymentRequest is the request to record a tuition payment.
type RecordPaymentRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	GroupID     string `json:"group_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Year        int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Month       int    `json:"month" validate:"required,gte=1,lte=12"`
	Description string `json:"description"`
}

// UpdatePaymentRequest is the request to correct a payment's amount.
type UpdatePaymentRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// StatusDTO represents a student's payment status for one billing month.
type StatusDTO struct {
	StudentID       string `json:"student_id"`
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	HasPaidInMonth  bool   `json:"has_paid_in_month"`
	TotalPaid       string `json:"total_paid"`
	ExpectedAmount  string `json:"expected_amount"`
	RemainingAmount string `json:"remaining_amount"`
	Status          string `json:"status"`
	LastPaymentAt   string `json:"last_payment_at,omitempty"`
}

// UnpaidStudentDTO represents one student owing money in one group.
type UnpaidStudentDTO struct {
	StudentID       string `json:"student_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
	ParentPhone     string `json:"parent_phone,omitempty"`
	RemainingAmount string `json:"remaining_amount"`
	GroupID         string `json:"group_id"`
	GroupName       string `json:"group_name"`
}

// =============================================================================
// SALARY TYPES
// =============================================================================

// GroupBreakdownDTO is one group's contribution to a salary calculation.
type GroupBreakdownDTO struct {
	GroupID          string `json:"group_id"`
	GroupName        string `json:"group_name"`
	CourseName       string `json:"course_name"`
	PaidStudents     int    `json:"paid_students"`
	Payments         string `json:"payments"`
	EnrolledStudents int    `json:"enrolled_students"`
	CoursePrice      string `json:"course_price"`
}

// SalaryCalculationDTO is the derived compensation picture for one teacher
// and one billing month.
type SalaryCalculationDTO struct {
	TeacherID            string              `json:"teacher_id"`
	TeacherName          string              `json:"teacher_name"`
	BranchID             string              `json:"branch_id"`
	BranchName           string              `json:"branch_name"`
	Year                 int                 `json:"year"`
	Month                int                 `json:"month"`
	BaseSalary           string              `json:"base_salary"`
	PaymentBasedSalary   string              `json:"payment_based_salary"`
	TotalSalary          string              `json:"total_salary"`
	TotalStudentPayments string              `json:"total_student_payments"`
	PaidStudents         int                 `json:"paid_students"`
	AlreadyPaid          string              `json:"already_paid"`
	RemainingAmount      string              `json:"remaining_amount"`
	Groups               []GroupBreakdownDTO `json:"groups"`
}

// SalaryPaymentDTO represents a recorded salary disbursement.
type SalaryPaymentDTO struct {
	ID          string `json:"id"`
	TeacherID   string `json:"teacher_id"`
	BranchID    string `json:"branch_id"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	CreatedAt   string `json:"created_at"`
}

// RecordSalaryPaymentRequest is the request to record a salary disbursement.
type RecordSalaryPaymentRequest struct {
	TeacherID   string `json:"teacher_id" validate:"required"`
	BranchID    string `json:"branch_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Year        int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Month       int    `json:"month" validate:"required,gte=1,lte=12"`
	Description string `json:"description"`
}

// RecordSalaryPaymentResponse pairs the stored disbursement with the
// recomputed calculation.
type RecordSalaryPaymentResponse struct {
	Payment     SalaryPaymentDTO     `json:"payment"`
	Calculation SalaryCalculationDTO `json:"calculation"`
}

// SalaryHistoryEntryDTO is one reconciled billing month.
type SalaryHistoryEntryDTO struct {
	TeacherID       string `json:"teacher_id"`
	TeacherName     string `json:"teacher_name"`
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	TotalSalary     string `json:"total_salary"`
	TotalPaid       string `json:"total_paid"`
	RemainingAmount string `json:"remaining_amount"`
	FullyPaid       bool   `json:"fully_paid"`
	LastPaymentAt   string `json:"last_payment_at,omitempty"`
	PaymentCount    int    `json:"payment_count"`
}

// =============================================================================
// EXPENSE TYPES
// =============================================================================

// ExpenseDTO represents a branch operating expense.
type ExpenseDTO struct {
	ID          string `json:"id"`
	BranchID    string `json:"branch_id"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// RecordExpenseRequest is the request to record an operating expense.
type RecordExpenseRequest struct {
	BranchID    string `json:"branch_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// ReportDTO is one branch-level money total.
type ReportDTO struct {
	Kind     string `json:"kind"`
	BranchID string `json:"branch_id"`
	Total    string `json:"total"`
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

// FinancialSummaryDTO is a branch's income, outgoings and net profit over
// one window.
type FinancialSummaryDTO struct {
	BranchID  string `json:"branch_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Income    string `json:"income"`
	Expenses  string `json:"expenses"`
	Salaries  string `json:"salaries"`
	NetProfit string `json:"net_profit"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	Name string `json:"name" validate:"required"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toBranchDTO(b ledger.Branch) BranchDTO {
	return BranchDTO{
		ID:        string(b.ID),
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func toCourseDTO(c ledger.Course) CourseDTO {
	return CourseDTO{
		ID:             string(c.ID),
		BranchID:       string(c.BranchID),
		Name:           c.Name,
		Price:          c.Price.String(),
		DurationMonths: c.DurationMonths,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

func toStudentDTO(s ledger.Student) StudentDTO {
	return StudentDTO{
		ID:          string(s.ID),
		BranchID:    string(s.BranchID),
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Phone:       s.Phone,
		ParentPhone: s.ParentPhone,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

func toTeacherDTO(t ledger.Teacher) TeacherDTO {
	return TeacherDTO{
		ID:                string(t.ID),
		BranchID:          string(t.BranchID),
		FirstName:         t.FirstName,
		LastName:          t.LastName,
		BaseSalary:        t.BaseSalary.String(),
		PaymentPercentage: t.PaymentPercentage.String(),
		SalaryType:        string(t.SalaryType),
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
	}
}

func toGroupDTO(g ledger.Group) GroupDTO {
	return GroupDTO{
		ID:        string(g.ID),
		BranchID:  string(g.BranchID),
		CourseID:  string(g.CourseID),
		TeacherID: string(g.TeacherID),
		Name:      g.Name,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentDTO(p ledger.TuitionPayment) PaymentDTO {
	return PaymentDTO{
		ID:          string(p.ID),
		StudentID:   string(p.StudentID),
		GroupID:     string(p.GroupID),
		CourseID:    string(p.CourseID),
		BranchID:    string(p.BranchID),
		Amount:      p.Amount.String(),
		Description: p.Description,
		Year:        p.Period.Year,
		Month:       int(p.Period.Month),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentDTOs(payments []ledger.TuitionPayment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos
}

func toStatusDTO(s tuition.StudentPaymentStatus) StatusDTO {
	dto := StatusDTO{
		StudentID:       string(s.StudentID),
		Year:            s.Period.Year,
		Month:           int(s.Period.Month),
		HasPaidInMonth:  s.HasPaidInMonth,
		TotalPaid:       s.TotalPaidInMonth.String(),
		ExpectedAmount:  s.ExpectedAmount.String(),
		RemainingAmount: s.RemainingAmount.String(),
		Status:          string(s.Status),
	}
	if s.LastPaymentAt != nil {
		dto.LastPaymentAt = s.LastPaymentAt.Format(time.RFC3339)
	}
	return dto
}

func toUnpaidDTOs(records []tuition.UnpaidStudentRecord) []UnpaidStudentDTO {
	dtos := make([]UnpaidStudentDTO, len(records))
	for i, rec := range records {
		dtos[i] = UnpaidStudentDTO{
			StudentID:       string(rec.StudentID),
			FirstName:       rec.FirstName,
			LastName:        rec.LastName,
			Phone:           rec.Phone,
			ParentPhone:     rec.ParentPhone,
			RemainingAmount: rec.RemainingAmount.String(),
			GroupID:         string(rec.GroupID),
			GroupName:       rec.GroupName,
		}
	}
	return dtos
}

func toCalculationDTO(c salary.Calculation) SalaryCalculationDTO {
	groups := make([]GroupBreakdownDTO, len(c.Groups))
	for i, g := range c.Groups {
		groups[i] = GroupBreakdownDTO{
			GroupID:          string(g.GroupID),
			GroupName:        g.GroupName,
			CourseName:       g.CourseName,
			PaidStudents:     g.PaidStudents,
			Payments:         g.Payments.String(),
			EnrolledStudents: g.EnrolledStudents,
			CoursePrice:      g.CoursePrice.String(),
		}
	}
	return SalaryCalculationDTO{
		TeacherID:            string(c.TeacherID),
		TeacherName:          c.TeacherName,
		BranchID:             string(c.BranchID),
		BranchName:           c.BranchName,
		Year:                 c.Period.Year,
		Month:                int(c.Period.Month),
		BaseSalary:           c.BaseSalary.String(),
		PaymentBasedSalary:   c.PaymentBasedSalary.String(),
		TotalSalary:          c.TotalSalary.String(),
		TotalStudentPayments: c.TotalStudentPayments.String(),
		PaidStudents:         c.PaidStudents,
		AlreadyPaid:          c.AlreadyPaid.String(),
		RemainingAmount:      c.RemainingAmount.String(),
		Groups:               groups,
	}
}

func toSalaryPaymentDTO(p ledger.SalaryPayment) SalaryPaymentDTO {
	return SalaryPaymentDTO{
		ID:          string(p.ID),
		TeacherID:   string(p.TeacherID),
		BranchID:    string(p.BranchID),
		Amount:      p.Amount.String(),
		Description: p.Description,
		Year:        p.Period.Year,
		Month:       int(p.Period.Month),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toSalaryPaymentDTOs(payments []ledger.SalaryPayment) []SalaryPaymentDTO {
	dtos := make([]SalaryPaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toSalaryPaymentDTO(p)
	}
	return dtos
}

func toHistoryDTOs(entries []salary.HistoryEntry) []SalaryHistoryEntryDTO {
	dtos := make([]SalaryHistoryEntryDTO, len(entries))
	for i, e := range entries {
		dto := SalaryHistoryEntryDTO{
			TeacherID:       string(e.TeacherID),
			TeacherName:     e.TeacherName,
			Year:            e.Period.Year,
			Month:           int(e.Period.Month),
			TotalSalary:     e.TotalSalary.String(),
			TotalPaid:       e.TotalPaid.String(),
			RemainingAmount: e.RemainingAmount.String(),
			FullyPaid:       e.FullyPaid,
			PaymentCount:    e.PaymentCount,
		}
		if e.LastPaymentAt != nil {
			dto.LastPaymentAt = e.LastPaymentAt.Format(time.RFC3339)
		}
		dtos[i] = dto
	}
	return dtos
}

func toExpenseDTO(e ledger.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          string(e.ID),
		BranchID:    string(e.BranchID),
		Amount:      e.Amount.String(),
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func toExpenseDTOs(expenses []ledger.Expense) []ExpenseDTO {
	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toExpenseDTO(e)
	}
	return dtos
}

func toFinancialSummaryDTO(s report.FinancialSummary) FinancialSummaryDTO {
	return FinancialSummaryDTO{
		BranchID:  string(s.BranchID),
		From:      s.From.Format(time.RFC3339),
		To:        s.To.Format(time.RFC3339),
		Income:    s.Income.String(),
		Expenses:  s.Expenses.String(),
		Salaries:  s.Salaries.String(),
		NetProfit: s.NetProfit.String(),
	}
}

func toReportDTO(s report.Summary) ReportDTO {
	dto := ReportDTO{
		Kind:     string(s.Kind),
		BranchID: string(s.BranchID),
		Total:    s.Total.String(),
	}
	if s.Period != nil {
		dto.Year = s.Period.Year
		dto.Month = int(s.Period.Month)
	}
	if s.From != nil {
		dto.From = s.From.Format(time.RFC3339)
	}
	if s.To != nil {
		dto.To = s.To.Format(time.RFC3339)
	}
	return dto
}
