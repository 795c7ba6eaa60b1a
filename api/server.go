/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. Rate limit: Per-IP request cap (httprate)
  5. CORS:       Cross-origin requests for the admin frontend

ROUTE GROUPS:
  /api/branches/*        Branch entities plus branch-scoped queries
  /api/courses/*         Course entities
  /api/students/*        Students, payment status, payment history
  /api/teachers/*        Teachers, salary calculation, reconciliation
  /api/groups/*          Groups and enrollments
  /api/payments/*        Tuition payment writes
  /api/salary-payments/* Salary disbursement reads and writes
  /api/expenses/*        Operating expense writes
  /api/scenarios/*       Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(300, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Branch routes
		r.Route("/branches", func(r chi.Router) {
			r.Post("/", h.CreateBranch)
			r.Get("/{id}", h.GetBranch)
			r.Get("/{id}/teachers", h.ListBranchTeachers)
			r.Get("/{id}/groups", h.ListBranchGroups)
			r.Get("/{id}/unpaid-students", h.ListUnpaidStudents)
			r.Get("/{id}/salaries", h.ListBranchSalaries)
			r.Get("/{id}/payments", h.ListBranchPayments)
			r.Get("/{id}/salary-payments", h.ListBranchSalaryPayments)
			r.Get("/{id}/expenses", h.ListBranchExpenses)
			r.Get("/{id}/reports/income", h.GetIncomeReport)
			r.Get("/{id}/reports/outflow", h.GetOutflowReport)
			r.Get("/{id}/reports/expenses", h.GetExpenseReport)
			r.Get("/{id}/reports/summary", h.GetFinancialSummary)
		})

		// Course routes
		r.Route("/courses", func(r chi.Router) {
			r.Post("/", h.CreateCourse)
			r.Get("/{id}", h.GetCourse)
		})

		// Student routes
		r.Route("/students", func(r chi.Router) {
			r.Post("/", h.CreateStudent)
			r.Get("/{id}", h.GetStudent)
			r.Get("/{id}/status", h.GetStudentStatus)
			r.Get("/{id}/payments", h.ListStudentPayments)
		})

		// Teacher routes
		r.Route("/teachers", func(r chi.Router) {
			r.Post("/", h.CreateTeacher)
			r.Get("/{id}", h.GetTeacher)
			r.Get("/{id}/salary", h.GetTeacherSalary)
			r.Get("/{id}/salary/history", h.GetTeacherSalaryHistory)
			r.Get("/{id}/salary-payments", h.ListTeacherSalaryPayments)
		})

		// Group and enrollment routes
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", h.CreateGroup)
			r.Get("/{id}", h.GetGroup)
			r.Get("/{id}/students", h.ListGroupStudents)
			r.Post("/{id}/enrollments", h.Enroll)
			r.Delete("/{id}/enrollments/{studentID}", h.Unenroll)
		})

		// Tuition payment routes
		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.RecordPayment)
			r.Put("/{id}", h.UpdatePayment)
			r.Delete("/{id}", h.DeletePayment)
		})

		// Salary disbursement routes
		r.Route("/salary-payments", func(r chi.Router) {
			r.Post("/", h.RecordSalaryPayment)
			r.Get("/{id}", h.GetSalaryPayment)
			r.Delete("/{id}", h.DeleteSalaryPayment)
		})

		// Expense routes
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", h.RecordExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Tuition Reconciliation Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Tuition Reconciliation Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><code>POST /api/payments</code> - Record tuition payment</li>
<li><code>GET /api/students/{id}/status</code> - Student payment status</li>
<li><code>GET /api/branches/{id}/unpaid-students</code> - Unpaid students</li>
<li><code>GET /api/teachers/{id}/salary</code> - Salary calculation</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
