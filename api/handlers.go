/*
handlers.go - HTTP API handlers for the vacation engine

PURPOSE:
  Exposes the vacation engine via REST API. Handles HTTP request/response,
  JSON serialization and request-shape validation, and delegates every
  decision to ferias.Service.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List all employees
    POST   /api/employees                    Create or update employee
    GET    /api/employees/{id}               Employee with visible periods
    POST   /api/employees/{id}/periods       Provision next accrual period
    GET    /api/employees/{id}/notifications Notifications for the employee

  Periods:
    GET    /api/periods/{id}                 Period with derived status and balance
    GET    /api/periods/{id}/balance         Balance (?days=N adds abono_offered)
    POST   /api/periods/{id}/validate        Dry-run validation
    POST   /api/periods/{id}/fractions       Submit new fraction
    PUT    /api/periods/{id}/fractions/{fid} Edit fraction
    DELETE /api/periods/{id}/fractions/{fid} Delete fraction
    DELETE /api/periods/{id}/fractions       Clear schedule
    POST   /api/periods/{id}/approve         Approve current stage
    POST   /api/periods/{id}/reject          Reject

  Admin:
    POST   /api/admin/periods/bulk           Provision next period for everyone
    GET    /api/admin/scheduler              Scheduler state, last and next run
    POST   /api/admin/scheduler/run          Run the scheduler once now

  Calendar, org, config: see calendar.go

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, validation errors, invalid input
  - 403: Approver not authorized
  - 404: Resource not found
  - 409: Workflow conflicts (locked fraction, invalid transition)
  - 422: Vacation rule violated (rule + reason in body)
  - 500: Internal errors

SECURITY NOTE:
  No authentication. Actor ids (requester, approver) come in the body;
  session handling belongs to the gateway in front of this service.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/warp/ferias-engine/factory"
	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *ferias.Service
	Repo    ferias.Repository
	Configs *factory.ConfigFactory
	Logger  *slog.Logger

	// Scheduler is optional; the scheduler endpoints answer 404 without it.
	Scheduler *ProvisionScheduler

	validate *validator.Validate

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler around the service.
func NewHandler(svc *ferias.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Service:  svc,
		Repo:     svc.Repo,
		Configs:  factory.NewConfigFactory(),
		Logger:   logger,
		validate: validator.New(),
	}
}

// decode reads a JSON body into dst and runs the validator tags.
// It writes the 400 response itself and reports whether to continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation error", err)
		return false
	}
	return true
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Repo.ListEmployees(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns an employee with its visible periods.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.EmployeeView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get employee", err)
		return
	}

	dto := EmployeeDetailDTO{EmployeeDTO: toEmployeeDTO(view.Employee), Periods: []PeriodDTO{}}
	for _, pv := range view.Periods {
		dto.Periods = append(dto.Periods, toPeriodDTO(pv))
	}
	writeJSON(w, http.StatusOK, dto)
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	admission, err := generic.ParseDate(req.AdmissionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid admission_date format (use YYYY-MM-DD)", err)
		return
	}

	emp := ferias.Employee{
		ID:             req.ID,
		Name:           req.Name,
		Email:          req.Email,
		AdmissionDate:  admission,
		UnitID:         req.UnitID,
		AreaID:         req.AreaID,
		DepartmentID:   req.DepartmentID,
		HierarchyLevel: req.HierarchyLevel,
		ManagerID:      req.ManagerID,
		Role:           ferias.Role(req.Role),
		Status:         ferias.EmployeeStatus(req.Status),
	}
	if emp.ID == "" {
		emp.ID = generic.NewID(generic.PrefixEmployee)
	}
	for _, l := range req.Leaves {
		start, err := generic.ParseDate(l.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid leave start_date", err)
			return
		}
		end, err := generic.ParseDate(l.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid leave end_date", err)
			return
		}
		emp.Leaves = append(emp.Leaves, ferias.Leave{
			ID:          l.ID,
			Range:       generic.DateRange{Start: start, End: end},
			Description: l.Description,
		})
	}

	if err := h.Service.SaveEmployee(r.Context(), emp); err != nil {
		h.writeServiceError(w, "Failed to save employee", err)
		return
	}

	saved, err := h.Repo.GetEmployee(r.Context(), emp.ID)
	if err != nil {
		h.writeServiceError(w, "Failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*saved))
}

// ProvisionPeriod creates the employee's next accrual period.
// POST /api/employees/{id}/periods
func (h *Handler) ProvisionPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.ProvisionNext(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to provision period", err)
		return
	}
	h.writePeriod(w, r, http.StatusCreated, p.ID)
}

// ListNotifications returns the notifications addressed to an employee.
// GET /api/employees/{id}/notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Repo.ListNotifications(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to list notifications", err)
		return
	}
	dtos := make([]NotificationDTO, len(notes))
	for i, n := range notes {
		dtos[i] = toNotificationDTO(n)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// GetPeriod returns a period with derived statuses and balance.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	h.writePeriod(w, r, http.StatusOK, chi.URLParam(r, "id"))
}

func (h *Handler) writePeriod(w http.ResponseWriter, r *http.Request, status int, periodID string) {
	view, err := h.Service.PeriodView(r.Context(), periodID)
	if err != nil {
		h.writeServiceError(w, "Failed to get period", err)
		return
	}
	writeJSON(w, status, toPeriodDTO(*view))
}

// GetBalance returns the balance of a period. With ?days=N it also reports
// whether abono can be offered alongside a vacation of N days.
// GET /api/periods/{id}/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.Service.Balance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to compute balance", err)
		return
	}

	dto := toBalanceDTO(bal)
	if q := r.URL.Query().Get("days"); q != "" {
		days, err := strconv.Atoi(q)
		if err != nil || days <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer", err)
			return
		}
		offered := bal.AbonoOffered(days)
		dto.AbonoOffered = &offered
	}
	writeJSON(w, http.StatusOK, dto)
}

// ValidateFraction runs the rules without saving.
// POST /api/periods/{id}/validate
func (h *Handler) ValidateFraction(w http.ResponseWriter, r *http.Request) {
	var req FractionRequest
	if !h.decode(w, r, &req) {
		return
	}
	fr, err := req.toFractionRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}

	res, err := h.Service.Validate(r.Context(), chi.URLParam(r, "id"), fr)
	if err != nil {
		h.writeServiceError(w, "Failed to validate fraction", err)
		return
	}
	writeJSON(w, http.StatusOK, ValidationResultDTO{OK: res.OK, Rule: string(res.Rule), Reason: res.Reason})
}

// SubmitFraction validates and stores a new fraction.
// POST /api/periods/{id}/fractions
func (h *Handler) SubmitFraction(w http.ResponseWriter, r *http.Request) {
	h.saveFraction(w, r, "")
}

// EditFraction validates and stores a replacement fraction.
// PUT /api/periods/{id}/fractions/{fid}
func (h *Handler) EditFraction(w http.ResponseWriter, r *http.Request) {
	h.saveFraction(w, r, chi.URLParam(r, "fid"))
}

func (h *Handler) saveFraction(w http.ResponseWriter, r *http.Request, fractionID string) {
	var req FractionRequest
	if !h.decode(w, r, &req) {
		return
	}
	fr, err := req.toFractionRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}

	ctx := r.Context()
	periodID := chi.URLParam(r, "id")

	var frac ferias.Fraction
	if fractionID == "" {
		_, frac, err = h.Service.SubmitFraction(ctx, periodID, fr)
	} else {
		_, frac, err = h.Service.EditFraction(ctx, periodID, fractionID, fr)
	}
	if err != nil {
		h.writeServiceError(w, "Failed to save fraction", err)
		return
	}

	view, err := h.Service.PeriodView(ctx, periodID)
	if err != nil {
		h.writeServiceError(w, "Failed to get period", err)
		return
	}
	status := http.StatusCreated
	if fractionID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, SubmitFractionResponse{
		Fraction: toFractionDTO(frac, ferias.DeriveFractionStatus(frac, h.Service.Today())),
		Period:   toPeriodDTO(*view),
	})
}

// DeleteFraction removes a fraction that has not started.
// DELETE /api/periods/{id}/fractions/{fid}
func (h *Handler) DeleteFraction(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if _, err := h.Service.DeleteFraction(r.Context(), periodID, chi.URLParam(r, "fid")); err != nil {
		h.writeServiceError(w, "Failed to delete fraction", err)
		return
	}
	h.writePeriod(w, r, http.StatusOK, periodID)
}

// ClearSchedule removes all fractions of a period.
// DELETE /api/periods/{id}/fractions
func (h *Handler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if _, err := h.Service.ClearSchedule(r.Context(), periodID); err != nil {
		h.writeServiceError(w, "Failed to clear schedule", err)
		return
	}
	h.writePeriod(w, r, http.StatusOK, periodID)
}

// ApprovePeriod advances the workflow.
// POST /api/periods/{id}/approve
func (h *Handler) ApprovePeriod(w http.ResponseWriter, r *http.Request) {
	h.approval(w, r, ferias.ActionApprove)
}

// RejectPeriod rejects the pending request.
// POST /api/periods/{id}/reject
func (h *Handler) RejectPeriod(w http.ResponseWriter, r *http.Request) {
	h.approval(w, r, ferias.ActionReject)
}

func (h *Handler) approval(w http.ResponseWriter, r *http.Request, action ferias.ApprovalAction) {
	var req ApprovalRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	periodID := chi.URLParam(r, "id")

	var notes []ferias.Notification
	var err error
	if action == ferias.ActionApprove {
		_, notes, err = h.Service.Approve(ctx, periodID, req.ApproverID)
	} else {
		_, notes, err = h.Service.Reject(ctx, periodID, req.ApproverID)
	}
	if err != nil {
		h.writeServiceError(w, "Failed to "+string(action)+" period", err)
		return
	}

	view, err := h.Service.PeriodView(ctx, periodID)
	if err != nil {
		h.writeServiceError(w, "Failed to get period", err)
		return
	}
	resp := ApprovalResponse{Period: toPeriodDTO(*view), Notifications: make([]NotificationDTO, 0, len(notes))}
	for _, n := range notes {
		resp.Notifications = append(resp.Notifications, toNotificationDTO(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

// BulkProvision creates the next period for every eligible employee.
// POST /api/admin/periods/bulk
func (h *Handler) BulkProvision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.Service.BulkProvision(ctx)
	if res == nil {
		h.writeServiceError(w, "Failed to provision periods", err)
		return
	}

	cfg, cfgErr := h.Service.Config(ctx)
	if cfgErr != nil {
		h.writeServiceError(w, "Failed to load config", cfgErr)
		return
	}
	today := h.Service.Today()
	resp := BulkProvisionResponse{Created: []PeriodDTO{}, Skipped: res.Skipped}
	if resp.Skipped == nil {
		resp.Skipped = []string{}
	}
	for _, p := range res.Created {
		resp.Created = append(resp.Created, toPeriodDTO(ferias.BuildPeriodView(p, cfg, today)))
	}
	if err != nil {
		// Partial success: report what was created and what failed.
		resp.Errors = err.Error()
		h.Logger.Error("bulk provisioning incomplete", slog.Any("error", err))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSchedulerStatus reports the provisioning scheduler state.
// GET /api/admin/scheduler
func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusNotFound, "Scheduler not configured", nil)
		return
	}
	ps := h.Scheduler
	resp := SchedulerStatusDTO{Enabled: ps.Enabled, Interval: ps.CheckInterval.String()}
	if ps.Enabled {
		next := ps.GetNextRunTime()
		resp.NextRunAt = &next
	}
	if run := ps.LastRun(); run != nil {
		dto := toProvisionRunDTO(*run)
		resp.LastRun = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// RunScheduler runs one provisioning pass right away.
// POST /api/admin/scheduler/run
func (h *Handler) RunScheduler(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusNotFound, "Scheduler not configured", nil)
		return
	}
	run := h.Scheduler.RunNow(r.Context())
	writeJSON(w, http.StatusOK, toProvisionRunDTO(run))
}

// =============================================================================
// HELPERS
// =============================================================================

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

// writeServiceError maps engine and store errors to HTTP responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	var rv *ferias.RuleViolationError
	switch {
	case errors.As(err, &rv):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  message,
			Rule:   string(rv.Result.Rule),
			Reason: rv.Result.Reason,
		})
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, generic.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, message, err)
	case errors.Is(err, generic.ErrInvalidTransition),
		errors.Is(err, generic.ErrFractionLocked),
		errors.Is(err, generic.ErrProtectedStatus),
		errors.Is(err, generic.ErrDuplicateID):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
