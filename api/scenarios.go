/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates a branch, courses,
	teachers, groups, students, and payments that demonstrate specific
	engine behavior.

AVAILABLE SCENARIOS:

	language-school:  One branch, three salary models, partial payers
	unpaid-chase:     A branch with several students behind on tuition

HOW SCENARIOS WORK:
 1. Create branch, courses, teachers, groups
 2. Enroll students
 3. Record tuition payments for the current billing month
 4. Optionally record salary disbursements

USAGE VIA API:

	POST /api/scenarios/load
	{"name": "language-school"}

NOTE:

	Scenarios write into whatever store the server runs on. Only use in
	development/demo environments.

SEE ALSO:
  - handlers.go: Handler context and helpers
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edulink/tuition-engine/ledger"
	"github.com/edulink/tuition-engine/report"
	"github.com/edulink/tuition-engine/salary"
	"github.com/edulink/tuition-engine/tuition"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		Name:        "language-school",
		Description: "One branch with fixed, percentage, and mixed salary teachers and a mix of paid and partial students",
	},
	{
		Name:        "unpaid-chase",
		Description: "A branch where several students are behind on tuition, for exercising the unpaid-student list",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.Name == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{Name: h.currentScenario})
}

// LoadScenario populates the store with one of the demo scenarios.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}

	var err error
	switch req.Name {
	case "language-school":
		err = h.loadLanguageSchool(r.Context())
	case "unpaid-chase":
		err = h.loadUnpaidChase(r.Context())
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.Name), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.Name
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.Name})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadLanguageSchool builds one branch with all three salary models in play:
// a fixed-salary teacher, a percentage teacher, and a mixed teacher, with
// enough payments to make the percentage shares interesting.
func (h *Handler) loadLanguageSchool(ctx context.Context) error {
	now := time.Now().UTC()
	period := ledger.CurrentYearMonth()

	branch := ledger.Branch{ID: "demo-main", Name: "Main Branch", Address: "12 Navoi Street", CreatedAt: now}
	if err := h.Store.SaveBranch(ctx, branch); err != nil {
		return err
	}

	english := ledger.Course{ID: "demo-english", BranchID: branch.ID, Name: "General English", Price: ledger.Money("500000"), DurationMonths: 6, CreatedAt: now}
	math := ledger.Course{ID: "demo-math", BranchID: branch.ID, Name: "Mathematics", Price: ledger.Money("400000"), DurationMonths: 9, CreatedAt: now}
	for _, c := range []ledger.Course{english, math} {
		if err := h.Store.SaveCourse(ctx, c); err != nil {
			return err
		}
	}

	teachers := []ledger.Teacher{
		{ID: "demo-t-fixed", BranchID: branch.ID, FirstName: "Aziza", LastName: "Karimova",
			BaseSalary: ledger.Money("3000000"), SalaryType: ledger.SalaryFixed, CreatedAt: now},
		{ID: "demo-t-pct", BranchID: branch.ID, FirstName: "Bekzod", LastName: "Rustamov",
			PaymentPercentage: ledger.Money("40"), SalaryType: ledger.SalaryPercentage, CreatedAt: now},
		{ID: "demo-t-mixed", BranchID: branch.ID, FirstName: "Dilnoza", LastName: "Yusupova",
			BaseSalary: ledger.Money("1500000"), PaymentPercentage: ledger.Money("10"),
			SalaryType: ledger.SalaryMixed, CreatedAt: now},
	}
	for _, t := range teachers {
		if err := h.Store.SaveTeacher(ctx, t); err != nil {
			return err
		}
	}

	groups := []ledger.Group{
		{ID: "demo-g-eng-a", BranchID: branch.ID, CourseID: english.ID, TeacherID: "demo-t-pct", Name: "English A1", CreatedAt: now},
		{ID: "demo-g-eng-b", BranchID: branch.ID, CourseID: english.ID, TeacherID: "demo-t-mixed", Name: "English B2", CreatedAt: now},
		{ID: "demo-g-math", BranchID: branch.ID, CourseID: math.ID, TeacherID: "demo-t-fixed", Name: "Math Evening", CreatedAt: now},
	}
	for _, g := range groups {
		if err := h.Store.SaveGroup(ctx, g); err != nil {
			return err
		}
	}

	students := []ledger.Student{
		{ID: "demo-s1", BranchID: branch.ID, FirstName: "Jasur", LastName: "Toshpulatov", Phone: "+998901112233", CreatedAt: now},
		{ID: "demo-s2", BranchID: branch.ID, FirstName: "Madina", LastName: "Alimova", ParentPhone: "+998909998877", CreatedAt: now},
		{ID: "demo-s3", BranchID: branch.ID, FirstName: "Sardor", LastName: "Nazarov", CreatedAt: now},
		{ID: "demo-s4", BranchID: branch.ID, FirstName: "Nilufar", LastName: "Ergasheva", CreatedAt: now},
	}
	for _, st := range students {
		if err := h.Store.SaveStudent(ctx, st); err != nil {
			return err
		}
	}

	enrollments := map[ledger.GroupID][]ledger.StudentID{
		"demo-g-eng-a": {"demo-s1", "demo-s2"},
		"demo-g-eng-b": {"demo-s3"},
		"demo-g-math":  {"demo-s2", "demo-s4"},
	}
	for groupID, studentIDs := range enrollments {
		for _, studentID := range studentIDs {
			if err := h.Store.Enroll(ctx, studentID, groupID); err != nil {
				return err
			}
		}
	}

	// s1 pays in full, s2 pays half of English and all of Math, s3 pays in
	// full, s4 pays nothing.
	payments := []tuition.RecordRequest{
		{StudentID: "demo-s1", GroupID: "demo-g-eng-a", Amount: ledger.Money("500000"), Period: period, Description: "cash"},
		{StudentID: "demo-s2", GroupID: "demo-g-eng-a", Amount: ledger.Money("250000"), Period: period, Description: "card, first half"},
		{StudentID: "demo-s2", GroupID: "demo-g-math", Amount: ledger.Money("400000"), Period: period},
		{StudentID: "demo-s3", GroupID: "demo-g-eng-b", Amount: ledger.Money("500000"), Period: period},
	}
	for _, p := range payments {
		if _, err := h.recorder.Record(ctx, p); err != nil {
			return err
		}
	}

	// A partial salary disbursement so the reconciliation view has data.
	if _, err := h.recon.RecordPayment(ctx, salary.RecordRequest{
		TeacherID:   "demo-t-mixed",
		BranchID:    branch.ID,
		Period:      period,
		Amount:      ledger.Money("1000000"),
		Description: "advance",
	}); err != nil {
		return err
	}

	// An operating expense so the financial summary shows all three legs.
	_, err := h.expenses.Record(ctx, report.RecordExpenseRequest{
		BranchID:    branch.ID,
		Amount:      ledger.Money("800000"),
		Category:    "rent",
		Description: "monthly rent",
	})
	return err
}

// loadUnpaidChase builds a branch where most students still owe money, so
// the unpaid-student endpoints return a meaningful list.
func (h *Handler) loadUnpaidChase(ctx context.Context) error {
	now := time.Now().UTC()
	period := ledger.CurrentYearMonth()

	branch := ledger.Branch{ID: "demo-chase", Name: "Chilonzor Branch", CreatedAt: now}
	if err := h.Store.SaveBranch(ctx, branch); err != nil {
		return err
	}
	course := ledger.Course{ID: "demo-chase-ielts", BranchID: branch.ID, Name: "IELTS Prep", Price: ledger.Money("800000"), DurationMonths: 4, CreatedAt: now}
	if err := h.Store.SaveCourse(ctx, course); err != nil {
		return err
	}
	teacher := ledger.Teacher{
		ID: "demo-chase-t", BranchID: branch.ID, FirstName: "Kamola", LastName: "Saidova",
		BaseSalary: ledger.Money("2000000"), PaymentPercentage: ledger.Money("15"),
		SalaryType: ledger.SalaryMixed, CreatedAt: now,
	}
	if err := h.Store.SaveTeacher(ctx, teacher); err != nil {
		return err
	}
	group := ledger.Group{ID: "demo-chase-g", BranchID: branch.ID, CourseID: course.ID, TeacherID: teacher.ID, Name: "IELTS Morning", CreatedAt: now}
	if err := h.Store.SaveGroup(ctx, group); err != nil {
		return err
	}

	students := []ledger.Student{
		{ID: "demo-chase-s1", BranchID: branch.ID, FirstName: "Olim", LastName: "Qodirov", Phone: "+998933334455", CreatedAt: now},
		{ID: "demo-chase-s2", BranchID: branch.ID, FirstName: "Zilola", LastName: "Mirzaeva", ParentPhone: "+998977776655", CreatedAt: now},
		{ID: "demo-chase-s3", BranchID: branch.ID, FirstName: "Timur", LastName: "Abdullaev", CreatedAt: now},
	}
	for _, st := range students {
		if err := h.Store.SaveStudent(ctx, st); err != nil {
			return err
		}
		if err := h.Store.Enroll(ctx, st.ID, group.ID); err != nil {
			return err
		}
	}

	// Only one partial payment: everyone shows up on the unpaid list.
	_, err := h.recorder.Record(ctx, tuition.RecordRequest{
		StudentID: "demo-chase-s1",
		GroupID:   group.ID,
		Amount:    ledger.Money("300000"),
		Period:    period,
	})
	return err
}
