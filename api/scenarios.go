/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for demos. Each scenario creates an org tree, employees, holidays
	and accrual periods that show one part of the vacation rules.

AVAILABLE SCENARIOS:

	first-period:        Employee with a fresh, unscheduled period
	approval-chain:      Request waiting for manager, then RH
	collective-vacation: Year-end company shutdown allows an early start
	split-vacation:      Past period enjoyed in three fractions

DATES:

	All dates are relative to the service clock, so a scenario loaded on
	any day still passes the notice and deadline rules.

HOW SCENARIOS WORK:
 1. Keep the current configuration (or the defaults)
 2. Reset the store
 3. Restore the configuration, org tree and holidays
 4. Create employees and periods
 5. Optionally submit fractions through the service

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "approval-chain"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler and error mapping
  - ferias/service.go: operations used to build the data
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "first-period",
		Name:        "Primeiro período",
		Description: "Colaboradora com período aquisitivo completo e nenhuma férias programada",
	},
	{
		ID:          "approval-chain",
		Name:        "Fluxo de aprovação",
		Description: "Solicitação de 20 dias aguardando gestor e depois RH",
	},
	{
		ID:          "collective-vacation",
		Name:        "Férias coletivas",
		Description: "Recesso de fim de ano permite início antes do fim do período aquisitivo",
	},
	{
		ID:          "split-vacation",
		Name:        "Férias fracionadas",
		Description: "Período anterior gozado em três parcelas (14 + 10 + 6 dias)",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current, Description: "Currently loaded scenario"})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "first-period":
		load = h.loadFirstPeriodScenario
	case "approval-chain":
		load = h.loadApprovalChainScenario
	case "collective-vacation":
		load = h.loadCollectiveVacationScenario
	case "split-vacation":
		load = h.loadSplitVacationScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	h.currentScenario = ""
	if err := h.resetKeepingConfig(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	if err := load(ctx); err != nil {
		h.Logger.Error("scenario load failed", "scenario", req.ScenarioID, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID
	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data except the configuration.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.resetKeepingConfig(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) resetKeepingConfig(ctx context.Context) error {
	cfg, err := h.Repo.GetConfig(ctx)
	if errors.Is(err, generic.ErrConfigMissing) {
		cfg = ferias.DefaultAppConfig()
	} else if err != nil {
		return err
	}
	if err := h.Repo.Reset(ctx); err != nil {
		return err
	}
	return h.Repo.SaveConfig(ctx, cfg)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadFirstPeriodScenario(ctx context.Context) error {
	if err := h.seedCompany(ctx); err != nil {
		return err
	}

	// Admitted 14 months ago: the first period is complete and can be scheduled.
	today := h.Service.Today()
	ana := ferias.Employee{
		ID:             "emp-ana",
		Name:           "Ana Souza",
		Email:          "ana.souza@example.com",
		AdmissionDate:  today.AddMonths(-14),
		UnitID:         "sp",
		AreaID:         "plataforma",
		HierarchyLevel: 1,
	}
	if err := h.Service.SaveEmployee(ctx, ana); err != nil {
		return err
	}
	_, err := h.Service.ProvisionNext(ctx, ana.ID)
	return err
}

func (h *Handler) loadApprovalChainScenario(ctx context.Context) error {
	if err := h.seedCompany(ctx); err != nil {
		return err
	}
	if err := h.seedApprovers(ctx); err != nil {
		return err
	}

	today := h.Service.Today()
	diego := ferias.Employee{
		ID:             "emp-diego",
		Name:           "Diego Lima",
		Email:          "diego.lima@example.com",
		AdmissionDate:  today.AddMonths(-15),
		UnitID:         "sp",
		AreaID:         "plataforma",
		HierarchyLevel: 1,
		ManagerID:      strPtr("emp-bruno"),
	}
	if err := h.Service.SaveEmployee(ctx, diego); err != nil {
		return err
	}
	p, err := h.Service.ProvisionNext(ctx, diego.ID)
	if err != nil {
		return err
	}

	// 20 days leaves 10, so a second fraction can still be requested.
	req := ferias.FractionRequest{RequesterID: diego.ID, Days: 20}
	req.Start, err = h.firstValidStart(ctx, p.ID, req, today.AddDays(45))
	if err != nil {
		return err
	}
	_, _, err = h.Service.SubmitFraction(ctx, p.ID, req)
	return err
}

func (h *Handler) loadCollectiveVacationScenario(ctx context.Context) error {
	if err := h.seedCompany(ctx); err != nil {
		return err
	}

	// Next year-end shutdown that is still beyond the notice window.
	today := h.Service.Today()
	year := today.Year()
	if generic.NewDate(year, time.December, 20).Before(today.AddDays(60)) {
		year++
	}
	rule := ferias.CollectiveRule{
		ID:          "col-fim-de-ano",
		Description: "Recesso coletivo de fim de ano - unidade São Paulo",
		Start:       generic.NewDate(year, time.December, 20),
		End:         generic.NewDate(year+1, time.January, 3),
		UnitID:      "sp",
	}
	if err := h.Repo.SaveCollectiveRule(ctx, rule); err != nil {
		return err
	}

	// Admitted eight months before the shutdown: the period is still open
	// when the shutdown starts.
	elisa := ferias.Employee{
		ID:             "emp-elisa",
		Name:           "Elisa Martins",
		Email:          "elisa.martins@example.com",
		AdmissionDate:  rule.Start.AddMonths(-8),
		UnitID:         "sp",
		AreaID:         "plataforma",
		HierarchyLevel: 1,
	}
	if err := h.Service.SaveEmployee(ctx, elisa); err != nil {
		return err
	}
	_, err := h.Service.ProvisionNext(ctx, elisa.ID)
	return err
}

func (h *Handler) loadSplitVacationScenario(ctx context.Context) error {
	if err := h.seedCompany(ctx); err != nil {
		return err
	}

	cfg, err := h.Service.Config(ctx)
	if err != nil {
		return err
	}
	today := h.Service.Today()
	fabio := ferias.Employee{
		ID:             "emp-fabio",
		Name:           "Fábio Rocha",
		Email:          "fabio.rocha@example.com",
		AdmissionDate:  today.AddMonths(-30),
		UnitID:         "rj",
		AreaID:         "tecnologia",
		HierarchyLevel: 1,
	}
	if err := h.Service.SaveEmployee(ctx, fabio); err != nil {
		return err
	}

	// The first period ended 18 months ago and was taken in three parts
	// during the concession window. History is written directly since
	// past dates cannot pass the notice rule.
	past := ferias.NewAccrualPeriod(fabio.ID, fabio.AdmissionDate, cfg)
	past.Status = ferias.WorkflowScheduled
	first := past.EndDate.AddDays(30)
	for first.Weekday() != time.Monday {
		first = first.AddDays(1)
	}
	for i, days := range []int{14, 10, 6} {
		start := first.AddMonths(3 * i)
		for start.Weekday() != time.Monday {
			start = start.AddDays(1)
		}
		past.Fractions = append(past.Fractions, ferias.Fraction{
			ID:        fmt.Sprintf("frac-fabio-%d", i+1),
			Sequence:  i + 1,
			StartDate: start,
			EndDate:   start.AddDays(days - 1),
			Days:      days,
			Status:    ferias.FractionScheduled,
		})
	}
	past.ManagerApproverID = strPtr("emp-bruno")
	past.RHApproverID = strPtr("emp-carla")
	if err := h.Repo.SavePeriod(ctx, past); err != nil {
		return err
	}

	_, err = h.Service.ProvisionNext(ctx, fabio.ID)
	return err
}

// =============================================================================
// SHARED SEED DATA
// =============================================================================

// seedCompany creates the org tree and the national holidays for the
// current and next two years.
func (h *Handler) seedCompany(ctx context.Context) error {
	units := []ferias.OrgUnit{
		{ID: "empresa", Name: "Empresa", Type: "company"},
		{ID: "sp", Name: "São Paulo", Type: "unit", ParentID: strPtr("empresa")},
		{ID: "rj", Name: "Rio de Janeiro", Type: "unit", ParentID: strPtr("empresa")},
		{ID: "rh", Name: "Recursos Humanos", Type: "area", ParentID: strPtr("empresa")},
		{ID: "tecnologia", Name: "Tecnologia", Type: "area", ParentID: strPtr("empresa")},
		{ID: "plataforma", Name: "Plataforma", Type: "area", ParentID: strPtr("tecnologia")},
	}
	for _, u := range units {
		if err := h.Service.SaveOrgUnit(ctx, u); err != nil {
			return fmt.Errorf("org unit %s: %w", u.ID, err)
		}
	}

	national := []struct {
		month time.Month
		day   int
		name  string
	}{
		{time.January, 1, "Confraternização Universal"},
		{time.April, 21, "Tiradentes"},
		{time.May, 1, "Dia do Trabalho"},
		{time.September, 7, "Independência do Brasil"},
		{time.October, 12, "Nossa Senhora Aparecida"},
		{time.November, 2, "Finados"},
		{time.November, 15, "Proclamação da República"},
		{time.November, 20, "Dia da Consciência Negra"},
		{time.December, 25, "Natal"},
	}
	year := h.Service.Today().Year()
	for y := year; y <= year+2; y++ {
		for _, n := range national {
			hol := ferias.Holiday{
				ID:   fmt.Sprintf("hol-%d-%02d-%02d", y, n.month, n.day),
				Date: generic.NewDate(y, n.month, n.day),
				Name: n.name,
				Type: ferias.HolidayFeriado,
			}
			if err := h.Repo.SaveHoliday(ctx, hol); err != nil {
				return err
			}
		}
		// Municipal holiday, São Paulo only
		if err := h.Repo.SaveHoliday(ctx, ferias.Holiday{
			ID:     fmt.Sprintf("hol-%d-sp", y),
			Date:   generic.NewDate(y, time.January, 25),
			Name:   "Aniversário de São Paulo",
			Type:   ferias.HolidayFeriado,
			UnitID: "sp",
		}); err != nil {
			return err
		}
	}
	return nil
}

// seedApprovers creates a manager in Tecnologia and an RH analyst.
func (h *Handler) seedApprovers(ctx context.Context) error {
	today := h.Service.Today()
	approvers := []ferias.Employee{
		{
			ID:             "emp-bruno",
			Name:           "Bruno Carvalho",
			Email:          "bruno.carvalho@example.com",
			AdmissionDate:  today.AddYears(-5),
			UnitID:         "sp",
			AreaID:         "tecnologia",
			HierarchyLevel: 2,
			Role:           ferias.RoleManager,
		},
		{
			ID:             "emp-carla",
			Name:           "Carla Mendes",
			Email:          "carla.mendes@example.com",
			AdmissionDate:  today.AddYears(-7),
			UnitID:         "sp",
			AreaID:         "rh",
			HierarchyLevel: 3,
			Role:           ferias.RoleRH,
		},
	}
	for _, e := range approvers {
		if err := h.Service.SaveEmployee(ctx, e); err != nil {
			return fmt.Errorf("employee %s: %w", e.ID, err)
		}
	}
	return nil
}

// firstValidStart walks forward from 'from' until the rules accept req.
func (h *Handler) firstValidStart(ctx context.Context, periodID string, req ferias.FractionRequest, from generic.Date) (generic.Date, error) {
	start := from
	for n := 0; n < 90; n++ {
		req.Start = start
		res, err := h.Service.Validate(ctx, periodID, req)
		if err != nil {
			return generic.Date{}, err
		}
		if res.OK {
			return start, nil
		}
		start = start.AddDays(1)
	}
	return generic.Date{}, fmt.Errorf("no valid start found after %s", from)
}

func strPtr(s string) *string { return &s }
