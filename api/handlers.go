/*
handlers.go - HTTP API handlers for the tuition reconciliation engine

PURPOSE:
  Exposes the reconciliation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Entities:
    POST   /api/branches                      Create branch
    GET    /api/branches/{id}                 Get branch
    POST   /api/courses                       Create course
    POST   /api/students                      Create student
    POST   /api/teachers                      Create teacher
    POST   /api/groups                        Create group
    POST   /api/groups/{id}/enrollments       Enroll student
    DELETE /api/groups/{id}/enrollments/{sid} Unenroll student

  Tuition:
    POST   /api/payments                      Record tuition payment
    PUT    /api/payments/{id}                 Correct payment amount
    DELETE /api/payments/{id}                 Delete payment
    GET    /api/students/{id}/status          Payment status for a month
    GET    /api/branches/{id}/unpaid-students Unpaid list (monthly/all-time)

  Salary:
    GET    /api/teachers/{id}/salary          Salary calculation for a month
    GET    /api/teachers/{id}/salary/history  Reconciliation history
    GET    /api/branches/{id}/salaries        All teachers in a branch
    POST   /api/salary-payments               Record salary disbursement
    DELETE /api/salary-payments/{id}          Delete disbursement

  Expenses:
    POST   /api/expenses                      Record operating expense
    DELETE /api/expenses/{id}                 Delete expense
    GET    /api/branches/{id}/expenses        List branch expenses

  Reports:
    GET    /api/branches/{id}/reports/income   Daily/monthly/range income
    GET    /api/branches/{id}/reports/outflow  Daily/monthly/range salary outflow
    GET    /api/branches/{id}/reports/expenses Daily/monthly/range/total expenses
    GET    /api/branches/{id}/reports/summary  Net profit over a window

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (go-playground/validator on request DTOs)
  3. Call domain logic (tuition, salary, report packages)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, not-enrolled
  - 404: Entity not found
  - 500: Internal errors
  Domain errors are classified via ledger.IsNotFound / ledger.IsClientError.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edulink/tuition-engine/ledger"
	"github.com/edulink/tuition-engine/report"
	"github.com/edulink/tuition-engine/salary"
	"github.com/edulink/tuition-engine/tuition"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Backend is the persistence surface the API needs: full read access plus
// entity writes. Both the SQLite and the in-memory store satisfy it.
type Backend interface {
	ledger.Store
	ledger.EntityWriter
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store Backend

	status   *tuition.StatusCalculator
	unpaid   *tuition.UnpaidDetector
	recorder *tuition.Recorder
	calc     *salary.Calculator
	recon    *salary.Reconciler
	reporter *report.Reporter
	expenses *report.ExpenseLog

	validate *validator.Validate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler wires the engine components on top of the given store.
func NewHandler(store Backend) *Handler {
	calc := salary.NewCalculator(store, store, store)
	return &Handler{
		Store:    store,
		status:   tuition.NewStatusCalculator(store, store),
		unpaid:   tuition.NewUnpaidDetector(store, store),
		recorder: tuition.NewRecorder(store, store),
		calc:     calc,
		recon:    salary.NewReconciler(store, store, calc),
		reporter: report.NewReporter(store, store, store, store),
		expenses: report.NewExpenseLog(store, store),
		validate: validator.New(),
	}
}

// =============================================================================
// ENTITY HANDLERS
// =============================================================================

// CreateBranch creates a new branch.
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req CreateBranchRequest
	if !h.decode(w, r, &req) {
		return
	}

	b := ledger.Branch{
		ID:        ledger.BranchID(orUUID(req.ID)),
		Name:      req.Name,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveBranch(r.Context(), b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create branch", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBranchDTO(b))
}

// GetBranch returns a single branch.
func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.Store.GetBranch(r.Context(), ledger.BranchID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get branch", err)
		return
	}
	writeJSON(w, http.StatusOK, toBranchDTO(b))
}

// CreateCourse creates a new course.
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, err := parseAmount(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price", err)
		return
	}

	c := ledger.Course{
		ID:             ledger.CourseID(orUUID(req.ID)),
		BranchID:       ledger.BranchID(req.BranchID),
		Name:           req.Name,
		Price:          price,
		DurationMonths: req.DurationMonths,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.Store.SaveCourse(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create course", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCourseDTO(c))
}

// GetCourse returns a single course.
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetCourse(r.Context(), ledger.CourseID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get course", err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseDTO(c))
}

// CreateStudent creates a new student.
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if !h.decode(w, r, &req) {
		return
	}

	st := ledger.Student{
		ID:          ledger.StudentID(orUUID(req.ID)),
		BranchID:    ledger.BranchID(req.BranchID),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		ParentPhone: req.ParentPhone,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Store.SaveStudent(r.Context(), st); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create student", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStudentDTO(st))
}

// GetStudent returns a single student.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	st, err := h.Store.GetStudent(r.Context(), ledger.StudentID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get student", err)
		return
	}
	writeJSON(w, http.StatusOK, toStudentDTO(st))
}

// CreateTeacher creates a new teacher.
func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req CreateTeacherRequest
	if !h.decode(w, r, &req) {
		return
	}
	baseSalary, err := parseOptionalAmount(req.BaseSalary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base_salary", err)
		return
	}
	pct, err := parseOptionalAmount(req.PaymentPercentage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment_percentage", err)
		return
	}

	t := ledger.Teacher{
		ID:                ledger.TeacherID(orUUID(req.ID)),
		BranchID:          ledger.BranchID(req.BranchID),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		BaseSalary:        baseSalary,
		PaymentPercentage: pct,
		SalaryType:        ledger.SalaryType(req.SalaryType),
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.Store.SaveTeacher(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create teacher", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeacherDTO(t))
}

// GetTeacher returns a single teacher.
func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	t, err := h.Store.GetTeacher(r.Context(), ledger.TeacherID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get teacher", err)
		return
	}
	writeJSON(w, http.StatusOK, toTeacherDTO(t))
}

// CreateGroup creates a new group.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	g := ledger.Group{
		ID:        ledger.GroupID(orUUID(req.ID)),
		BranchID:  ledger.BranchID(req.BranchID),
		CourseID:  ledger.CourseID(req.CourseID),
		TeacherID: ledger.TeacherID(req.TeacherID),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveGroup(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create group", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupDTO(g))
}

// GetGroup returns a single group.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.Store.GetGroup(r.Context(), ledger.GroupID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get group", err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupDTO(g))
}

// ListBranchTeachers returns every teacher in a branch.
func (h *Handler) ListBranchTeachers(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetBranch(r.Context(), branchID); err != nil {
		writeDomainError(w, "Failed to get branch", err)
		return
	}
	teachers, err := h.Store.TeachersByBranch(r.Context(), branchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list teachers", err)
		return
	}
	dtos := make([]TeacherDTO, len(teachers))
	for i, t := range teachers {
		dtos[i] = toTeacherDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListBranchGroups returns every group in a branch.
func (h *Handler) ListBranchGroups(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetBranch(r.Context(), branchID); err != nil {
		writeDomainError(w, "Failed to get branch", err)
		return
	}
	groups, err := h.Store.GroupsByBranch(r.Context(), branchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groups", err)
		return
	}
	dtos := make([]GroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = toGroupDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListGroupStudents returns everyone enrolled in a group.
func (h *Handler) ListGroupStudents(w http.ResponseWriter, r *http.Request) {
	groupID := ledger.GroupID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetGroup(r.Context(), groupID); err != nil {
		writeDomainError(w, "Failed to get group", err)
		return
	}
	students, err := h.Store.StudentsByGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list students", err)
		return
	}
	dtos := make([]StudentDTO, len(students))
	for i, st := range students {
		dtos[i] = toStudentDTO(st)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Enroll enrolls a student into a group.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	groupID := ledger.GroupID(chi.URLParam(r, "id"))
	var req EnrollRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	if _, err := h.Store.GetGroup(ctx, groupID); err != nil {
		writeDomainError(w, "Failed to get group", err)
		return
	}
	if _, err := h.Store.GetStudent(ctx, ledger.StudentID(req.StudentID)); err != nil {
		writeDomainError(w, "Failed to get student", err)
		return
	}
	if err := h.Store.Enroll(ctx, ledger.StudentID(req.StudentID), groupID); err != nil {
		writeDomainError(w, "Failed to enroll", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unenroll removes a student from a group. Past payments stay.
func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	groupID := ledger.GroupID(chi.URLParam(r, "id"))
	studentID := ledger.StudentID(chi.URLParam(r, "studentID"))

	if err := h.Store.Unenroll(r.Context(), studentID, groupID); err != nil {
		writeDomainError(w, "Failed to unenroll", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TUITION HANDLERS
// =============================================================================

// RecordPayment records a tuition payment for an enrolled student.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	payment, err := h.recorder.Record(r.Context(), tuition.RecordRequest{
		StudentID:   ledger.StudentID(req.StudentID),
		GroupID:     ledger.GroupID(req.GroupID),
		Amount:      amount,
		Period:      ledger.NewYearMonth(req.Year, req.Month),
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(payment))
}

// UpdatePayment corrects the amount of an existing payment.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id := ledger.PaymentID(chi.URLParam(r, "id"))
	var req UpdatePaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	payment, err := h.recorder.UpdateAmount(r.Context(), id, amount)
	if err != nil {
		writeDomainError(w, "Failed to update payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(payment))
}

// DeletePayment hard-deletes a payment record.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.recorder.Delete(r.Context(), ledger.PaymentID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, "Failed to delete payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStudentStatus returns a student's payment status for a billing month.
// Defaults to the current month when year/month are omitted.
func (h *Handler) GetStudentStatus(w http.ResponseWriter, r *http.Request) {
	studentID := ledger.StudentID(chi.URLParam(r, "id"))
	period, present, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}
	if !present {
		period = ledger.CurrentYearMonth()
	}

	status, err := h.status.Status(r.Context(), studentID, period)
	if err != nil {
		writeDomainError(w, "Failed to calculate status", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusDTO(status))
}

// ListStudentPayments lists a student's payments, newest first.
func (h *Handler) ListStudentPayments(w http.ResponseWriter, r *http.Request) {
	studentID := ledger.StudentID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetStudent(r.Context(), studentID); err != nil {
		writeDomainError(w, "Failed to get student", err)
		return
	}
	payments, err := h.Store.PaymentsByStudent(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// ListUnpaidStudents lists students owing money in a branch. With year and
// month query parameters the check is against that billing month; without
// them it is against lifetime payments per course.
func (h *Handler) ListUnpaidStudents(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	period, present, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	var records []tuition.UnpaidStudentRecord
	if present {
		records, err = h.unpaid.FindUnpaidForMonth(r.Context(), branchID, period)
	} else {
		records, err = h.unpaid.FindUnpaidAllTime(r.Context(), branchID)
	}
	if err != nil {
		writeDomainError(w, "Failed to list unpaid students", err)
		return
	}
	writeJSON(w, http.StatusOK, toUnpaidDTOs(records))
}

// ListBranchPayments lists a branch's payments for one billing month.
func (h *Handler) ListBranchPayments(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	period, present, err := periodFromQuery(r)
	if err != nil || !present {
		writeError(w, http.StatusBadRequest, "year and month query parameters are required", err)
		return
	}
	if _, err := h.Store.GetBranch(r.Context(), branchID); err != nil {
		writeDomainError(w, "Failed to get branch", err)
		return
	}
	payments, err := h.Store.PaymentsByBranchMonth(r.Context(), branchID, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// =============================================================================
// SALARY HANDLERS
// =============================================================================

// GetTeacherSalary returns a teacher's salary calculation for a billing
// month. Defaults to the current month when year/month are omitted.
func (h *Handler) GetTeacherSalary(w http.ResponseWriter, r *http.Request) {
	teacherID := ledger.TeacherID(chi.URLParam(r, "id"))
	period, present, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}
	if !present {
		period = ledger.CurrentYearMonth()
	}

	calc, err := h.calc.Calculate(r.Context(), teacherID, period)
	if err != nil {
		writeDomainError(w, "Failed to calculate salary", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalculationDTO(calc))
}

// GetTeacherSalaryHistory returns one entry per billing month with recorded
// disbursements, newest first.
func (h *Handler) GetTeacherSalaryHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.recon.History(r.Context(), ledger.TeacherID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get salary history", err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTOs(entries))
}

// ListBranchSalaries returns the salary calculation for every teacher in a
// branch. Defaults to the current month when year/month are omitted.
func (h *Handler) ListBranchSalaries(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	period, present, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}
	if !present {
		period = ledger.CurrentYearMonth()
	}

	calcs, err := h.calc.CalculateBranch(r.Context(), branchID, period)
	if err != nil {
		writeDomainError(w, "Failed to calculate salaries", err)
		return
	}
	dtos := make([]SalaryCalculationDTO, len(calcs))
	for i, c := range calcs {
		dtos[i] = toCalculationDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordSalaryPayment records a salary disbursement and returns the
// recomputed calculation alongside it.
func (h *Handler) RecordSalaryPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordSalaryPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	result, err := h.recon.RecordPayment(r.Context(), salary.RecordRequest{
		TeacherID:   ledger.TeacherID(req.TeacherID),
		BranchID:    ledger.BranchID(req.BranchID),
		Period:      ledger.NewYearMonth(req.Year, req.Month),
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, "Failed to record salary payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, RecordSalaryPaymentResponse{
		Payment:     toSalaryPaymentDTO(result.Payment),
		Calculation: toCalculationDTO(result.Calculation),
	})
}

// GetSalaryPayment returns a single disbursement record.
func (h *Handler) GetSalaryPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetSalaryPayment(r.Context(), ledger.SalaryPaymentID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to get salary payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toSalaryPaymentDTO(p))
}

// DeleteSalaryPayment hard-deletes a disbursement record.
func (h *Handler) DeleteSalaryPayment(w http.ResponseWriter, r *http.Request) {
	if err := h.recon.DeletePayment(r.Context(), ledger.SalaryPaymentID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, "Failed to delete salary payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTeacherSalaryPayments lists a teacher's disbursements, newest first.
func (h *Handler) ListTeacherSalaryPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.recon.PaymentsByTeacher(r.Context(), ledger.TeacherID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to list salary payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toSalaryPaymentDTOs(payments))
}

// ListBranchSalaryPayments lists a branch's disbursements, newest first.
func (h *Handler) ListBranchSalaryPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.recon.PaymentsByBranch(r.Context(), ledger.BranchID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to list salary payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toSalaryPaymentDTOs(payments))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetIncomeReport returns branch tuition income. Query selects the window:
//
//	?date=YYYY-MM-DD          one calendar day
//	?year=YYYY&month=M        one billing month
//	?from=...&to=...          arbitrary date range
func (h *Handler) GetIncomeReport(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	ctx := r.Context()

	if day := r.URL.Query().Get("date"); day != "" {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
		summary, err := h.reporter.DailyIncome(ctx, branchID, t)
		if err != nil {
			writeDomainError(w, "Failed to build report", err)
			return
		}
		writeJSON(w, http.StatusOK, toReportDTO(summary))
		return
	}

	if from, to, ok, err := rangeFromQuery(r); ok {
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from/to (use YYYY-MM-DD)", err)
			return
		}
		summary, err := h.reporter.RangeIncome(ctx, branchID, from, to)
		if err != nil {
			writeDomainError(w, "Failed to build report", err)
			return
		}
		writeJSON(w, http.StatusOK, toReportDTO(summary))
		return
	}

	period, present, err := periodFromQuery(r)
	if err != nil || !present {
		writeError(w, http.StatusBadRequest, "Provide date, from/to, or year/month", err)
		return
	}
	summary, err := h.reporter.MonthlyIncome(ctx, branchID, period)
	if err != nil {
		writeDomainError(w, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(summary))
}

// GetOutflowReport returns branch salary outflow for a day, a calendar
// month, or a date range.
func (h *Handler) GetOutflowReport(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	ctx := r.Context()

	if day := r.URL.Query().Get("date"); day != "" {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
		summary, err := h.reporter.DailyOutflow(ctx, branchID, t)
		if err != nil {
			writeDomainError(w, "Failed to build report", err)
			return
		}
		writeJSON(w, http.StatusOK, toReportDTO(summary))
		return
	}

	if from, to, ok, err := rangeFromQuery(r); ok {
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from/to (use YYYY-MM-DD)", err)
			return
		}
		summary, err := h.reporter.RangeOutflow(ctx, branchID, from, to)
		if err != nil {
			writeDomainError(w, "Failed to build report", err)
			return
		}
		writeJSON(w, http.StatusOK, toReportDTO(summary))
		return
	}

	period, present, err := periodFromQuery(r)
	if err != nil || !present {
		writeError(w, http.StatusBadRequest, "Provide date, from/to, or year/month", err)
		return
	}
	summary, err := h.reporter.MonthlyOutflow(ctx, branchID, period)
	if err != nil {
		writeDomainError(w, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(summary))
}

// GetExpenseReport returns branch operating expenses. Query selects the
// window like the income report; with no parameters the total is lifetime.
func (h *Handler) GetExpenseReport(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))
	ctx := r.Context()

	if day := r.URL.Query().Get("date"); day != "" {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
		summary, err := h.reporter.DailyExpense(ctx, branchID, t)
		if err != nil {
			writeDomainError(w, "Failed to build report", err)
			return
		}
		writeJSON(w, http.StatusOK, toReportDTO(summary))
		return
	}

	if from, to, ok, err := rangeFromQuery(r); ok {
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from/to (use YYYY-MM-DD)", err)
			return
		}
		summary, err := h.reporter.RangeExpense(ctx, branchID, from, to)
		if err != nil {
			writeDomainError(w, "Failed to build report", err)
			return
		}
		writeJSON(w, http.StatusOK, toReportDTO(summary))
		return
	}

	period, present, err := periodFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	var summary report.Summary
	if present {
		summary, err = h.reporter.MonthlyExpense(ctx, branchID, period)
	} else {
		summary, err = h.reporter.TotalExpense(ctx, branchID)
	}
	if err != nil {
		writeDomainError(w, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(summary))
}

// GetFinancialSummary returns income minus expenses minus salaries for a
// window given as from/to dates or as a year/month pair.
func (h *Handler) GetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	branchID := ledger.BranchID(chi.URLParam(r, "id"))

	from, to, ok, err := rangeFromQuery(r)
	if ok && err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from/to (use YYYY-MM-DD)", err)
		return
	}
	if !ok {
		period, present, perr := periodFromQuery(r)
		if perr != nil || !present {
			writeError(w, http.StatusBadRequest, "Provide from/to or year/month", perr)
			return
		}
		from, to = period.Start(), period.End()
	}

	summary, err := h.reporter.Summarize(r.Context(), branchID, from, to)
	if err != nil {
		writeDomainError(w, "Failed to build summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toFinancialSummaryDTO(summary))
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// RecordExpense records a branch operating expense.
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req RecordExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	expense, err := h.expenses.Record(r.Context(), report.RecordExpenseRequest{
		BranchID:    ledger.BranchID(req.BranchID),
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, "Failed to record expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

// DeleteExpense hard-deletes an expense record.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.Delete(r.Context(), ledger.ExpenseID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, "Failed to delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBranchExpenses lists a branch's expenses, newest first.
func (h *Handler) ListBranchExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListByBranch(r.Context(), ledger.BranchID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTOs(expenses))
}

// =============================================================================
// HELPERS
// =============================================================================

// decode parses the JSON body and runs struct validation. On failure it
// writes the error response and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// periodFromQuery reads year and month query parameters. Returns
// present=false when both are absent; an error when only one is given or
// either fails to parse.
func periodFromQuery(r *http.Request) (ledger.YearMonth, bool, error) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" && monthStr == "" {
		return ledger.YearMonth{}, false, nil
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return ledger.YearMonth{}, true, err
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return ledger.YearMonth{}, true, err
	}
	period := ledger.NewYearMonth(year, month)
	if !period.Valid() {
		return ledger.YearMonth{}, true, ledger.ErrInvalidPeriod
	}
	return period, true, nil
}

// rangeFromQuery reads from/to query parameters as YYYY-MM-DD dates.
func rangeFromQuery(r *http.Request) (from, to time.Time, ok bool, err error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	from, err = time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, true, err
	}
	to, err = time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, true, err
	}
	return from, to, true, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// parseOptionalAmount treats an empty string as zero.
func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func orUUID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses: not-found to 404,
// client errors to 400, everything else to 500.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
