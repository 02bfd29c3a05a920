/*
service.go - Load, decide, save

PURPOSE:
  Service is the stateful shell around the pure engine. Every operation
  follows the same shape:

    1. load the employee, period, calendar and config from the Repository
    2. run the pure function (ValidateFraction, ApplyFraction,
       ApplyApprovalAction, ...)
    3. save the returned copy, with notifications when there are any

  Service holds no domain state between calls. Today comes from Clock so
  tests can pin the date.

ERRORS:
  Rule violations come back as *RuleViolationError (errors.Is with
  generic.ErrRuleViolation). Authorization failures are ErrNotAuthorized.
  Storage errors are wrapped and passed through.

EXAMPLE:
  svc := ferias.NewService(repo, generic.SystemClock{}, logger)
  period, frac, err := svc.SubmitFraction(ctx, periodID, ferias.FractionRequest{
      RequesterID: "emp-1",
      Start:       generic.MustParseDate("2027-03-01"),
      Days:        20,
  })
  var rv *ferias.RuleViolationError
  if errors.As(err, &rv) {
      // rv.Result.Rule, rv.Result.Reason
  }
*/
package ferias

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// ERRORS
// =============================================================================

// RuleViolationError carries the failed check of a rejected request.
type RuleViolationError struct {
	Result Result
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("rule %s violated: %s", e.Result.Rule, e.Result.Reason)
}

func (e *RuleViolationError) Unwrap() error { return generic.ErrRuleViolation }

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	Repo   Repository
	Clock  generic.Clock
	Logger *slog.Logger

	// Now stamps notifications and signature events. Defaults to time.Now.
	Now func() time.Time
}

func NewService(repo Repository, clock generic.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Repo: repo, Clock: clock, Logger: logger, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Today is the business date used by every rule.
func (s *Service) Today() generic.Date { return s.Clock.Today() }

// Config returns the stored configuration.
func (s *Service) Config(ctx context.Context) (*AppConfig, error) {
	cfg, err := s.Repo.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// UpdateConfig validates and stores cfg.
func (s *Service) UpdateConfig(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.Repo.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	s.Logger.Info("config updated", "max_fractions", cfg.MaxFracionamentos, "abono_basis", cfg.DefaultAbonoBasis)
	return nil
}

// =============================================================================
// EMPLOYEES AND ORG
// =============================================================================

// SaveEmployee checks the manager reference and stores the employee.
func (s *Service) SaveEmployee(ctx context.Context, emp Employee) error {
	if emp.ID == "" || emp.Name == "" {
		return fmt.Errorf("%w: employee id and name are required", generic.ErrInvalidInput)
	}
	if emp.ManagerID != nil && *emp.ManagerID != "" {
		if *emp.ManagerID == emp.ID {
			return generic.ErrSelfManager
		}
		if _, err := s.Repo.GetEmployee(ctx, *emp.ManagerID); err != nil {
			return fmt.Errorf("manager %s: %w", *emp.ManagerID, err)
		}
	}
	if emp.Role == "" {
		emp.Role = RoleUser
	}
	if emp.Status == "" {
		emp.Status = EmployeeActive
	}
	return s.Repo.SaveEmployee(ctx, emp)
}

// SaveOrgUnit stores u unless its parent link would close a cycle.
func (s *Service) SaveOrgUnit(ctx context.Context, u OrgUnit) error {
	if u.ID == "" {
		return fmt.Errorf("%w: unit id is required", generic.ErrInvalidInput)
	}
	units, err := s.Repo.ListOrgUnits(ctx)
	if err != nil {
		return fmt.Errorf("list org units: %w", err)
	}
	if u.ParentID != nil {
		if err := NewOrgTree(units).CheckParent(u.ID, *u.ParentID); err != nil {
			return err
		}
	}
	return s.Repo.SaveOrgUnit(ctx, u)
}

// =============================================================================
// VIEWS - Derived status and balance, recomputed on every read
// =============================================================================

// FractionView is a fraction with its status as of today.
type FractionView struct {
	Fraction
	DerivedStatus FractionStatus
}

// PeriodView is a period with everything derived from it as of today.
type PeriodView struct {
	Period           AccrualPeriod
	DisplayStatus    PeriodDisplayStatus
	Fractions        []FractionView
	Balance          Balance
	DayInputMode     DayInputMode
	AllowedDayCounts []int
}

// EmployeeView is an employee with the visible periods derived.
type EmployeeView struct {
	Employee Employee
	Periods  []PeriodView
}

// BuildPeriodView derives the view of p as of today.
func BuildPeriodView(p AccrualPeriod, cfg *AppConfig, today generic.Date) PeriodView {
	bal := ComputeBalance(&p, cfg, "")
	v := PeriodView{
		Period:           p,
		DisplayStatus:    DeriveAccrualPeriodStatus(p, today),
		Balance:          bal,
		DayInputMode:     EffectiveDayInputMode(&p, cfg),
		AllowedDayCounts: AllowedDayCounts(&p, cfg, bal.RemainingBalance),
	}
	for _, f := range p.Fractions {
		v.Fractions = append(v.Fractions, FractionView{Fraction: f, DerivedStatus: DeriveFractionStatus(f, today)})
	}
	return v
}

// PeriodView loads a period and derives its view.
func (s *Service) PeriodView(ctx context.Context, periodID string) (*PeriodView, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	v := BuildPeriodView(*p, cfg, s.Today())
	return &v, nil
}

// EmployeeView loads an employee and derives the view of each visible period.
func (s *Service) EmployeeView(ctx context.Context, employeeID string) (*EmployeeView, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	emp, err := s.Repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	v := &EmployeeView{Employee: *emp}
	for _, p := range VisiblePeriods(emp.Periods, cfg) {
		v.Periods = append(v.Periods, BuildPeriodView(p, cfg, today))
	}
	return v, nil
}

// Balance computes the balance of a period.
func (s *Service) Balance(ctx context.Context, periodID string) (Balance, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return Balance{}, err
	}
	p, err := s.Repo.GetPeriod(ctx, periodID)
	if err != nil {
		return Balance{}, err
	}
	return ComputeBalance(p, cfg, ""), nil
}

// =============================================================================
// SCHEDULING
// =============================================================================

// FractionRequest is a caller's proposal for a new or edited fraction.
type FractionRequest struct {
	RequesterID       string
	EditingFractionID string

	Start          generic.Date
	Days           int
	AbonoRequested bool
	AbonoDays      int
	Advance13th    bool
}

type loaded struct {
	cfg      *AppConfig
	period   *AccrualPeriod
	employee *Employee
	holidays []Holiday
	rules    []CollectiveRule
}

func (s *Service) load(ctx context.Context, periodID string) (*loaded, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	emp, err := s.Repo.GetEmployee(ctx, p.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("owner of period %s: %w", periodID, err)
	}
	holidays, err := s.Repo.ListHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	rules, err := s.Repo.ListCollectiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collective rules: %w", err)
	}
	return &loaded{cfg: cfg, period: p, employee: emp, holidays: holidays, rules: rules}, nil
}

func (l *loaded) input(req FractionRequest, today generic.Date) ValidationInput {
	return ValidationInput{
		Employee:          l.employee,
		Period:            l.period,
		EditingFractionID: req.EditingFractionID,
		Holidays:          l.holidays,
		Rules:             l.rules,
		Config:            l.cfg,
		Today:             today,
		Start:             req.Start,
		Days:              req.Days,
		AbonoRequested:    req.AbonoRequested,
		AbonoDays:         req.AbonoDays,
		Advance13th:       req.Advance13th,
	}
}

// Validate runs the rules without writing anything.
func (s *Service) Validate(ctx context.Context, periodID string, req FractionRequest) (Result, error) {
	l, err := s.load(ctx, periodID)
	if err != nil {
		return Result{}, err
	}
	if req.EditingFractionID != "" {
		if _, ok := l.period.FindFraction(req.EditingFractionID); !ok {
			return Result{}, fmt.Errorf("%w: %s", generic.ErrFractionNotFound, req.EditingFractionID)
		}
	}
	return ValidateFraction(l.input(req, s.Today()))
}

// SubmitFraction validates and stores a new fraction.
func (s *Service) SubmitFraction(ctx context.Context, periodID string, req FractionRequest) (*AccrualPeriod, Fraction, error) {
	req.EditingFractionID = ""
	return s.saveFraction(ctx, periodID, req)
}

// EditFraction validates and stores a replacement for fractionID.
func (s *Service) EditFraction(ctx context.Context, periodID, fractionID string, req FractionRequest) (*AccrualPeriod, Fraction, error) {
	if fractionID == "" {
		return nil, Fraction{}, fmt.Errorf("%w: fraction id is required", generic.ErrInvalidInput)
	}
	req.EditingFractionID = fractionID
	return s.saveFraction(ctx, periodID, req)
}

func (s *Service) saveFraction(ctx context.Context, periodID string, req FractionRequest) (*AccrualPeriod, Fraction, error) {
	l, err := s.load(ctx, periodID)
	if err != nil {
		return nil, Fraction{}, err
	}
	if req.EditingFractionID != "" {
		if _, ok := l.period.FindFraction(req.EditingFractionID); !ok {
			return nil, Fraction{}, fmt.Errorf("%w: %s", generic.ErrFractionNotFound, req.EditingFractionID)
		}
	}
	if req.RequesterID == "" {
		req.RequesterID = l.employee.ID
	}

	today := s.Today()
	res, err := ValidateFraction(l.input(req, today))
	if err != nil {
		return nil, Fraction{}, err
	}
	if !res.OK {
		s.Logger.Info("fraction rejected",
			"period_id", periodID, "employee_id", l.employee.ID, "rule", res.Rule)
		return nil, Fraction{}, &RuleViolationError{Result: res}
	}

	bal := ComputeBalance(l.period, l.cfg, req.EditingFractionID)
	draft := FractionDraft{
		Start:       req.Start,
		Days:        req.Days,
		AbonoDays:   EffectiveAbonoDays(req.AbonoRequested, req.AbonoDays, bal),
		Advance13th: req.Advance13th,
	}
	updated, frac, err := ApplyFraction(*l.period, req.EditingFractionID, draft, req.RequesterID, s.now())
	if err != nil {
		return nil, Fraction{}, err
	}
	if err := s.Repo.SavePeriod(ctx, updated); err != nil {
		return nil, Fraction{}, fmt.Errorf("save period %s: %w", periodID, err)
	}

	s.Logger.Info("fraction scheduled",
		"period_id", periodID, "fraction_id", frac.ID, "start", frac.StartDate.String(),
		"days", frac.Days, "abono_days", frac.AbonoDays, "edited", req.EditingFractionID != "")
	return &updated, frac, nil
}

// DeleteFraction removes a fraction that has not started.
func (s *Service) DeleteFraction(ctx context.Context, periodID, fractionID string) (*AccrualPeriod, error) {
	p, err := s.Repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	updated, err := DeleteFraction(*p, fractionID, s.Today())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SavePeriod(ctx, updated); err != nil {
		return nil, fmt.Errorf("save period %s: %w", periodID, err)
	}
	s.Logger.Info("fraction deleted", "period_id", periodID, "fraction_id", fractionID)
	return &updated, nil
}

// ClearSchedule removes every fraction of a period.
func (s *Service) ClearSchedule(ctx context.Context, periodID string) (*AccrualPeriod, error) {
	p, err := s.Repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	updated, err := ClearSchedule(*p, s.Today())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SavePeriod(ctx, updated); err != nil {
		return nil, fmt.Errorf("save period %s: %w", periodID, err)
	}
	s.Logger.Info("schedule cleared", "period_id", periodID)
	return &updated, nil
}

// =============================================================================
// APPROVAL
// =============================================================================

// Approve advances the period one workflow step on behalf of approverID.
func (s *Service) Approve(ctx context.Context, periodID, approverID string) (*AccrualPeriod, []Notification, error) {
	return s.act(ctx, periodID, approverID, ActionApprove)
}

// Reject sends the period back to the requester.
func (s *Service) Reject(ctx context.Context, periodID, approverID string) (*AccrualPeriod, []Notification, error) {
	return s.act(ctx, periodID, approverID, ActionReject)
}

func (s *Service) act(ctx context.Context, periodID, approverID string, action ApprovalAction) (*AccrualPeriod, []Notification, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.Repo.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, nil, err
	}
	requester, err := s.Repo.GetEmployee(ctx, p.EmployeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("owner of period %s: %w", periodID, err)
	}
	approver, err := s.Repo.GetEmployee(ctx, approverID)
	if err != nil {
		return nil, nil, fmt.Errorf("approver %s: %w", approverID, err)
	}
	units, err := s.Repo.ListOrgUnits(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list org units: %w", err)
	}

	if p.Status != WorkflowPendingManager && p.Status != WorkflowPendingRH {
		return nil, nil, fmt.Errorf("%w: period %s is %s", generic.ErrInvalidTransition, periodID, p.Status)
	}
	if !CanApprove(approver, requester, p.Status, NewOrgTree(units), cfg) {
		s.Logger.Warn("approval denied",
			"period_id", periodID, "approver_id", approverID, "status", p.Status)
		return nil, nil, fmt.Errorf("%w: %s cannot act on period %s", generic.ErrNotAuthorized, approverID, periodID)
	}

	directory, err := s.Repo.ListEmployees(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list employees: %w", err)
	}
	updated, notes, err := ApplyApprovalAction(*p, action, approver, requester, directory, s.now())
	if err != nil {
		return nil, nil, err
	}
	if err := s.Repo.SavePeriod(ctx, updated, notes...); err != nil {
		return nil, nil, fmt.Errorf("save period %s: %w", periodID, err)
	}

	s.Logger.Info("approval action applied",
		"action", action, "period_id", periodID, "approver_id", approverID, "from", p.Status, "to", updated.Status,
		"notifications", len(notes))
	return &updated, notes, nil
}

// =============================================================================
// PROVISIONING
// =============================================================================

// ProvisionNext creates the employee's next accrual period.
func (s *Service) ProvisionNext(ctx context.Context, employeeID string) (*AccrualPeriod, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	emp, err := s.Repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.AdmissionDate.IsZero() && len(emp.Periods) == 0 {
		return nil, fmt.Errorf("%w: employee %s has no admission date", generic.ErrInvalidInput, employeeID)
	}
	p := NewAccrualPeriod(emp.ID, NextPeriodStart(emp), cfg)
	if err := s.Repo.SavePeriod(ctx, p); err != nil {
		return nil, fmt.Errorf("save period: %w", err)
	}
	s.Logger.Info("period provisioned", "employee_id", employeeID, "period_id", p.ID,
		"start", p.StartDate.String(), "end", p.EndDate.String())
	return &p, nil
}

// BulkResult reports what BulkProvision did per employee.
type BulkResult struct {
	Created []AccrualPeriod
	Skipped []string
}

// BulkProvision creates the next period for every active employee whose
// next period starts on or before today.
func (s *Service) BulkProvision(ctx context.Context) (*BulkResult, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.Repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	today := s.Today()
	res := &BulkResult{}
	var errs []error
	for i := range employees {
		emp := &employees[i]
		if !emp.IsActive() || (emp.AdmissionDate.IsZero() && len(emp.Periods) == 0) {
			res.Skipped = append(res.Skipped, emp.ID)
			continue
		}
		start := NextPeriodStart(emp)
		if start.After(today) {
			res.Skipped = append(res.Skipped, emp.ID)
			continue
		}
		p := NewAccrualPeriod(emp.ID, start, cfg)
		if err := s.Repo.SavePeriod(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("employee %s: %w", emp.ID, err))
			continue
		}
		res.Created = append(res.Created, p)
	}

	s.Logger.Info("bulk provisioning finished", "created", len(res.Created), "skipped", len(res.Skipped))
	return res, errors.Join(errs...)
}
