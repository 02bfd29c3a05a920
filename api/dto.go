/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator tags for shape checks
  (required fields, enums, date formats). Business rules are NOT checked
  here: a missing start date on a fraction is left to the engine so the
  caller gets the rule code start_required.

DATES:
  All dates are YYYY-MM-DD strings on the wire.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON, used as-is for /api/config
*/
package api

import (
	"time"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	AdmissionDate  string     `json:"admission_date"`
	UnitID         string     `json:"unit_id,omitempty"`
	AreaID         string     `json:"area_id,omitempty"`
	DepartmentID   string     `json:"department_id,omitempty"`
	HierarchyLevel int        `json:"hierarchy_level"`
	ManagerID      *string    `json:"manager_id,omitempty"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	Leaves         []LeaveDTO `json:"leaves,omitempty"`
}

// LeaveDTO is an absence record.
type LeaveDTO struct {
	ID          string `json:"id,omitempty"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description,omitempty"`
}

// EmployeeDetailDTO is an employee with its visible periods.
type EmployeeDetailDTO struct {
	EmployeeDTO
	Periods []PeriodDTO `json:"periods"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID             string     `json:"id" validate:"omitempty,max=64"`
	Name           string     `json:"name" validate:"required,min=1,max=200"`
	Email          string     `json:"email" validate:"omitempty,email"`
	AdmissionDate  string     `json:"admission_date" validate:"required,datetime=2006-01-02"`
	UnitID         string     `json:"unit_id" validate:"omitempty,max=64"`
	AreaID         string     `json:"area_id" validate:"omitempty,max=64"`
	DepartmentID   string     `json:"department_id" validate:"omitempty,max=64"`
	HierarchyLevel int        `json:"hierarchy_level" validate:"min=0,max=10"`
	ManagerID      *string    `json:"manager_id" validate:"omitempty,min=1"`
	Role           string     `json:"role" validate:"omitempty,oneof=user manager admin rh"`
	Status         string     `json:"status" validate:"omitempty,oneof=active inactive"`
	Leaves         []LeaveDTO `json:"leaves" validate:"omitempty,dive"`
}

// =============================================================================
// PERIODS AND FRACTIONS
// =============================================================================

// PeriodDTO is an accrual period with derived status and balance.
type PeriodDTO struct {
	ID                 string        `json:"id"`
	EmployeeID         string        `json:"employee_id"`
	StartDate          string        `json:"start_date"`
	EndDate            string        `json:"end_date"`
	ConcessionDeadline string        `json:"concession_deadline"`
	SaldoTotal         int           `json:"saldo_total"`
	WorkflowStatus     string        `json:"workflow_status"`
	Status             string        `json:"status"` // derived, as of today
	DayInputMode       string        `json:"day_input_mode"`
	AbonoBasis         string        `json:"abono_basis"`
	AllowedDayCounts   []int         `json:"allowed_day_counts,omitempty"`
	Fractions          []FractionDTO `json:"fractions"`
	Balance            BalanceDTO    `json:"balance"`
	ManagerApproverID  *string       `json:"manager_approver_id,omitempty"`
	RHApproverID       *string       `json:"rh_approver_id,omitempty"`
	Signature          *SignatureDTO `json:"signature,omitempty"`
}

// FractionDTO is a fraction with its stored and derived status.
type FractionDTO struct {
	ID           string `json:"id"`
	Sequence     int    `json:"sequence"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Days         int    `json:"days"`
	AbonoDays    int    `json:"abono_days"`
	Advance13th  bool   `json:"advance_13th"`
	StoredStatus string `json:"stored_status"`
	Status       string `json:"status"` // derived, as of today
}

// BalanceDTO is the balance of a period.
type BalanceDTO struct {
	SaldoTotal       int    `json:"saldo_total"`
	UsedDays         int    `json:"used_days"`
	AbonoDays        int    `json:"abono_days"`
	RemainingBalance int    `json:"remaining_balance"`
	AbonoQuota       int    `json:"abono_quota"`
	AbonoBasis       string `json:"abono_basis"`
	AbonoOffered     *bool  `json:"abono_offered,omitempty"` // only with ?days=N
}

// SignatureDTO is the e-signature envelope of the current request.
type SignatureDTO struct {
	ID          string              `json:"id"`
	RequesterID string              `json:"requester_id"`
	CreatedAt   string              `json:"created_at"`
	Events      []SignatureEventDTO `json:"events"`
}

type SignatureEventDTO struct {
	SignerID string `json:"signer_id"`
	Action   string `json:"action"`
	At       string `json:"at"`
}

// FractionRequest is a proposed new or edited fraction. StartDate is not
// required here: an empty start is reported by the engine as a rule.
type FractionRequest struct {
	RequesterID       string `json:"requester_id" validate:"omitempty,max=64"`
	EditingFractionID string `json:"editing_fraction_id" validate:"omitempty,max=64"`
	StartDate         string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Days              int    `json:"days" validate:"required,min=1,max=365"`
	AbonoRequested    bool   `json:"abono_requested"`
	AbonoDays         int    `json:"abono_days" validate:"min=0,max=30"`
	Advance13th       bool   `json:"advance_13th"`
}

// SubmitFractionResponse is returned after a fraction is stored.
type SubmitFractionResponse struct {
	Fraction FractionDTO `json:"fraction"`
	Period   PeriodDTO   `json:"period"`
}

// ApprovalRequest identifies who approves or rejects.
type ApprovalRequest struct {
	ApproverID string `json:"approver_id" validate:"required,max=64"`
}

// ApprovalResponse is the period after the action plus the produced notifications.
type ApprovalResponse struct {
	Period        PeriodDTO         `json:"period"`
	Notifications []NotificationDTO `json:"notifications"`
}

// BulkProvisionResponse reports the periods created by bulk provisioning.
type BulkProvisionResponse struct {
	Created []PeriodDTO `json:"created"`
	Skipped []string    `json:"skipped"`
	Errors  string      `json:"errors,omitempty"`
}

// ProvisionRunDTO is one pass of the provisioning scheduler.
type ProvisionRunDTO struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Created     int       `json:"created"`
	Skipped     int       `json:"skipped"`
	Error       string    `json:"error,omitempty"`
}

// SchedulerStatusDTO describes the provisioning scheduler.
type SchedulerStatusDTO struct {
	Enabled   bool             `json:"enabled"`
	Interval  string           `json:"interval"`
	NextRunAt *time.Time       `json:"next_run_at,omitempty"`
	LastRun   *ProvisionRunDTO `json:"last_run,omitempty"`
}

// =============================================================================
// CALENDAR, ORG, CATALOG
// =============================================================================

type HolidayDTO struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	UnitID string `json:"unit_id,omitempty"`
}

type CreateHolidayRequest struct {
	ID     string `json:"id" validate:"omitempty,max=64"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Type   string `json:"type" validate:"required,oneof=feriado ponto_facultativo recesso custom"`
	UnitID string `json:"unit_id" validate:"omitempty,max=64"`
}

type CollectiveRuleDTO struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	UnitID       string   `json:"unit_id,omitempty"`
	AreaID       string   `json:"area_id,omitempty"`
	DepartmentID string   `json:"department_id,omitempty"`
	EmployeeIDs  []string `json:"employee_ids,omitempty"`
}

type CreateCollectiveRuleRequest struct {
	ID           string   `json:"id" validate:"omitempty,max=64"`
	Description  string   `json:"description" validate:"max=500"`
	StartDate    string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	UnitID       string   `json:"unit_id" validate:"omitempty,max=64"`
	AreaID       string   `json:"area_id" validate:"omitempty,max=64"`
	DepartmentID string   `json:"department_id" validate:"omitempty,max=64"`
	EmployeeIDs  []string `json:"employee_ids" validate:"omitempty,dive,min=1"`
}

type OrgUnitDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

type CreateOrgUnitRequest struct {
	ID       string  `json:"id" validate:"required,max=64"`
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Type     string  `json:"type" validate:"omitempty,max=50"`
	ParentID *string `json:"parent_id" validate:"omitempty,min=1"`
}

type StatusDTO struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Style    string `json:"style,omitempty"`
	Active   bool   `json:"active"`
	Category string `json:"category"`
	System   bool   `json:"system"`
}

type UpsertStatusRequest struct {
	ID       string `json:"id" validate:"required,max=64"`
	Label    string `json:"label" validate:"required,min=1,max=100"`
	Style    string `json:"style" validate:"omitempty,max=50"`
	Active   bool   `json:"active"`
	Category string `json:"category" validate:"required,oneof=period fraction both"`
}

type NotificationDTO struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	PeriodID    string `json:"period_id"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	CreatedAt   string `json:"created_at"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is returned for every failed request. Rule and Reason are
// set when a vacation rule rejected the request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ValidationResultDTO is the outcome of a dry-run validation.
type ValidationResultDTO struct {
	OK     bool   `json:"ok"`
	Rule   string `json:"rule,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(e ferias.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             e.ID,
		Name:           e.Name,
		Email:          e.Email,
		AdmissionDate:  e.AdmissionDate.String(),
		UnitID:         e.UnitID,
		AreaID:         e.AreaID,
		DepartmentID:   e.DepartmentID,
		HierarchyLevel: e.HierarchyLevel,
		ManagerID:      e.ManagerID,
		Role:           string(e.Role),
		Status:         string(e.Status),
	}
	for _, l := range e.Leaves {
		dto.Leaves = append(dto.Leaves, LeaveDTO{
			ID:          l.ID,
			StartDate:   l.Range.Start.String(),
			EndDate:     l.Range.End.String(),
			Description: l.Description,
		})
	}
	return dto
}

func toPeriodDTO(v ferias.PeriodView) PeriodDTO {
	p := v.Period
	dto := PeriodDTO{
		ID:                 p.ID,
		EmployeeID:         p.EmployeeID,
		StartDate:          p.StartDate.String(),
		EndDate:            p.EndDate.String(),
		ConcessionDeadline: p.ConcessionDeadline.String(),
		SaldoTotal:         p.SaldoTotal,
		WorkflowStatus:     string(p.Status),
		Status:             string(v.DisplayStatus),
		DayInputMode:       string(v.DayInputMode),
		AbonoBasis:         string(v.Balance.Basis),
		AllowedDayCounts:   v.AllowedDayCounts,
		Fractions:          make([]FractionDTO, 0, len(v.Fractions)),
		Balance:            toBalanceDTO(v.Balance),
		ManagerApproverID:  p.ManagerApproverID,
		RHApproverID:       p.RHApproverID,
	}
	for _, f := range v.Fractions {
		dto.Fractions = append(dto.Fractions, toFractionDTO(f.Fraction, f.DerivedStatus))
	}
	if p.Signature != nil {
		sig := &SignatureDTO{
			ID:          p.Signature.ID,
			RequesterID: p.Signature.RequesterID,
			CreatedAt:   p.Signature.CreatedAt.UTC().Format(time.RFC3339),
		}
		for _, e := range p.Signature.Events {
			sig.Events = append(sig.Events, SignatureEventDTO{
				SignerID: e.SignerID,
				Action:   e.Action,
				At:       e.At.UTC().Format(time.RFC3339),
			})
		}
		dto.Signature = sig
	}
	return dto
}

func toFractionDTO(f ferias.Fraction, derived ferias.FractionStatus) FractionDTO {
	return FractionDTO{
		ID:           f.ID,
		Sequence:     f.Sequence,
		StartDate:    f.StartDate.String(),
		EndDate:      f.EndDate.String(),
		Days:         f.Days,
		AbonoDays:    f.AbonoDays,
		Advance13th:  f.Advance13th,
		StoredStatus: string(f.Status),
		Status:       string(derived),
	}
}

func toBalanceDTO(b ferias.Balance) BalanceDTO {
	return BalanceDTO{
		SaldoTotal:       b.SaldoTotal,
		UsedDays:         b.UsedDays,
		AbonoDays:        b.AbonoDays,
		RemainingBalance: b.RemainingBalance,
		AbonoQuota:       b.AbonoQuota,
		AbonoBasis:       string(b.Basis),
	}
}

func toHolidayDTO(h ferias.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Date: h.Date.String(), Name: h.Name, Type: string(h.Type), UnitID: h.UnitID}
}

func toCollectiveRuleDTO(r ferias.CollectiveRule) CollectiveRuleDTO {
	return CollectiveRuleDTO{
		ID:           r.ID,
		Description:  r.Description,
		StartDate:    r.Start.String(),
		EndDate:      r.End.String(),
		UnitID:       r.UnitID,
		AreaID:       r.AreaID,
		DepartmentID: r.DepartmentID,
		EmployeeIDs:  r.EmployeeIDs,
	}
}

func toStatusDTO(s ferias.StatusDefinition) StatusDTO {
	return StatusDTO{
		ID:       s.ID,
		Label:    s.Label,
		Style:    s.Style,
		Active:   s.Active,
		Category: string(s.Category),
		System:   s.System,
	}
}

func toNotificationDTO(n ferias.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		PeriodID:    n.PeriodID,
		Kind:        string(n.Kind),
		Message:     n.Message,
		CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toFractionRequest converts the wire request. StartDate was already
// format-checked by the validator; an empty one stays the zero Date.
func (req FractionRequest) toFractionRequest() (ferias.FractionRequest, error) {
	var start generic.Date
	if req.StartDate != "" {
		d, err := generic.ParseDate(req.StartDate)
		if err != nil {
			return ferias.FractionRequest{}, err
		}
		start = d
	}
	return ferias.FractionRequest{
		RequesterID:       req.RequesterID,
		EditingFractionID: req.EditingFractionID,
		Start:             start,
		Days:              req.Days,
		AbonoRequested:    req.AbonoRequested,
		AbonoDays:         req.AbonoDays,
		Advance13th:       req.Advance13th,
	}, nil
}

func toProvisionRunDTO(run ProvisionRun) ProvisionRunDTO {
	return ProvisionRunDTO{
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Created:     run.Created,
		Skipped:     run.Skipped,
		Error:       run.Error,
	}
}
