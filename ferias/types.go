/*
Package ferias implements the statutory vacation ("férias") rules engine.

PURPOSE:
  Given an employee's accrual period, its scheduled fractions, the company
  configuration, the holiday calendar and the collective-vacation rules,
  the engine decides whether a proposed fraction is legal, how much balance
  and abono quota remain, and what the current lifecycle status of periods
  and fractions is.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: identity, org placement, role and hierarchy level
  - AccrualPeriod (P.A.): 12-month entitlement window, normally 30 days
  - Fraction: one contiguous slice of vacation from a period
  - CollectiveRule: company shutdown overriding individual constraints
  - Holiday / OrgUnit: calendar and org tree inputs

TWO STATE MACHINES:
  WorkflowStatus is persisted on the period and moves only through approval
  actions (planning -> pending_manager -> pending_rh -> scheduled, or
  rejected). FractionStatus is persisted on each fraction, but what callers
  display is always re-derived from (stored status, today) in status.go.
  Derived values are never written back.

SEE ALSO:
  - status.go: status derivation
  - balance.go: balance and abono quota
  - validation.go: the ordered legality checks
  - workflow.go: approval state machine
*/
package ferias

import (
	"time"

	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
	RoleRH      Role = "rh"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// Employee is the person accruing and scheduling vacation.
type Employee struct {
	ID            string
	Name          string
	Email         string
	AdmissionDate generic.Date

	// Organizational placement
	UnitID         string
	AreaID         string
	DepartmentID   string
	HierarchyLevel int

	ManagerID *string
	Role      Role
	Status    EmployeeStatus

	Periods []AccrualPeriod
	Leaves  []Leave
}

// Leave is an absence record. It is carried for completeness and not
// consulted by the rules.
type Leave struct {
	ID          string
	Range       generic.DateRange
	Description string
}

// IsActive reports whether the employee is active.
func (e *Employee) IsActive() bool { return e.Status != EmployeeInactive }

// =============================================================================
// ACCRUAL PERIOD
// =============================================================================

// WorkflowStatus is the persisted approval state of a period.
type WorkflowStatus string

const (
	WorkflowPlanning       WorkflowStatus = "planning"
	WorkflowPendingManager WorkflowStatus = "pending_manager"
	WorkflowPendingRH      WorkflowStatus = "pending_rh"
	WorkflowScheduled      WorkflowStatus = "scheduled"
	WorkflowRejected       WorkflowStatus = "rejected"
)

// DayInputMode controls whether day counts come from a fixed list or free input.
type DayInputMode string

const (
	DayInputSystem DayInputMode = "system"
	DayInputList   DayInputMode = "list"
	DayInputFree   DayInputMode = "free"
)

// AbonoBasis selects which balance the abono quota is computed from.
type AbonoBasis string

const (
	AbonoBasisSystem  AbonoBasis = "system"
	AbonoBasisInitial AbonoBasis = "initial_balance"
	AbonoBasisCurrent AbonoBasis = "current_balance"
)

// DefaultSaldoTotal is the statutory entitlement of a full period.
const DefaultSaldoTotal = 30

// AccrualPeriod is one 12-month entitlement window of an employee.
type AccrualPeriod struct {
	ID         string
	EmployeeID string

	StartDate          generic.Date
	EndDate            generic.Date // exclusive: StartDate + 12 months
	ConcessionDeadline generic.Date

	SaldoTotal int
	Status     WorkflowStatus

	// Per-period policy overrides; "system" defers to AppConfig.
	DayInputMode DayInputMode
	AbonoBasis   AbonoBasis

	Fractions []Fraction

	// Approval metadata, opaque to the rules.
	ManagerApproverID *string
	RHApproverID      *string
	Signature         *SignatureEnvelope
}

// Clone returns a deep copy so engine operations never mutate their input.
func (p AccrualPeriod) Clone() AccrualPeriod {
	out := p
	out.Fractions = append([]Fraction(nil), p.Fractions...)
	if p.ManagerApproverID != nil {
		id := *p.ManagerApproverID
		out.ManagerApproverID = &id
	}
	if p.RHApproverID != nil {
		id := *p.RHApproverID
		out.RHApproverID = &id
	}
	if p.Signature != nil {
		sig := *p.Signature
		sig.Events = append([]SignatureEvent(nil), p.Signature.Events...)
		out.Signature = &sig
	}
	return out
}

// FindFraction returns the fraction with the given id.
func (p *AccrualPeriod) FindFraction(id string) (Fraction, bool) {
	for _, f := range p.Fractions {
		if f.ID == id {
			return f, true
		}
	}
	return Fraction{}, false
}

// SignatureEnvelope is the e-signature record attached to a request.
type SignatureEnvelope struct {
	ID          string
	RequesterID string
	CreatedAt   time.Time
	Events      []SignatureEvent
}

// SignatureEvent records one signer acting on the envelope.
type SignatureEvent struct {
	SignerID string
	Action   string
	At       time.Time
}

// =============================================================================
// FRACTION
// =============================================================================

// FractionStatus is the stored status of a fraction.
type FractionStatus string

const (
	FractionPlanned   FractionStatus = "planned"
	FractionScheduled FractionStatus = "scheduled"
	FractionEnjoying  FractionStatus = "enjoying"
	FractionEnjoyed   FractionStatus = "enjoyed"
	FractionCanceled  FractionStatus = "canceled"
	FractionRejected  FractionStatus = "rejected"
)

// Fraction is a contiguous slice of vacation taken from one period.
type Fraction struct {
	ID          string
	Sequence    int
	StartDate   generic.Date
	EndDate     generic.Date // StartDate + Days - 1
	Days        int
	AbonoDays   int
	Advance13th bool
	Status      FractionStatus
}

// Range returns the inclusive date range of the fraction.
func (f Fraction) Range() generic.DateRange {
	return generic.DateRange{Start: f.StartDate, End: f.EndDate}
}

// IsActive reports whether the fraction counts against the balance.
func (f Fraction) IsActive() bool {
	return f.Status != FractionCanceled && f.Status != FractionRejected
}

// activeFractions filters out canceled/rejected fractions and the excluded id.
func activeFractions(fractions []Fraction, excludeID string) []Fraction {
	var out []Fraction
	for _, f := range fractions {
		if !f.IsActive() || (excludeID != "" && f.ID == excludeID) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// =============================================================================
// CALENDAR AND ORG INPUTS
// =============================================================================

// CollectiveRule is a company-mandated vacation window. Empty filters are wildcards.
type CollectiveRule struct {
	ID           string
	Description  string
	Start        generic.Date
	End          generic.Date
	UnitID       string
	AreaID       string
	DepartmentID string
	EmployeeIDs  []string
}

// Range returns the inclusive range of the rule.
func (r CollectiveRule) Range() generic.DateRange {
	return generic.DateRange{Start: r.Start, End: r.End}
}

type HolidayType string

const (
	HolidayFeriado          HolidayType = "feriado"
	HolidayPontoFacultativo HolidayType = "ponto_facultativo"
	HolidayRecesso          HolidayType = "recesso"
	HolidayCustom           HolidayType = "custom"
)

// Holiday is a calendar entry. An empty UnitID means company-wide.
type Holiday struct {
	ID     string
	Date   generic.Date
	Name   string
	Type   HolidayType
	UnitID string
}

// BlocksVacationStart reports whether the holiday forbids starting vacation
// in the two days before it.
func (h Holiday) BlocksVacationStart() bool {
	return h.Type == HolidayFeriado || h.Type == HolidayPontoFacultativo
}

// AppliesTo reports whether the holiday is company-wide or scoped to unitID.
func (h Holiday) AppliesTo(unitID string) bool {
	return h.UnitID == "" || h.UnitID == unitID
}

// OrgUnit is a node of the organizational tree.
type OrgUnit struct {
	ID       string
	Name     string
	Type     string
	ParentID *string
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

type NotificationKind string

const (
	NotifyManagerApproved NotificationKind = "manager_approved"
	NotifyPendingRH       NotificationKind = "pending_rh"
	NotifyScheduled       NotificationKind = "scheduled"
	NotifyRejected        NotificationKind = "rejected"
)

// Notification is produced by workflow actions. Delivery is out of scope;
// the store only keeps them for the recipient to read.
type Notification struct {
	ID          string
	RecipientID string
	PeriodID    string
	Kind        NotificationKind
	Message     string
	CreatedAt   time.Time
}
