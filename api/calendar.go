package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/ferias-engine/factory"
	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays returns the holiday calendar.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Repo.ListHolidays(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds or replaces a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	hol := ferias.Holiday{
		ID:     req.ID,
		Date:   date,
		Name:   req.Name,
		Type:   ferias.HolidayType(req.Type),
		UnitID: req.UnitID,
	}
	if hol.ID == "" {
		hol.ID = generic.NewID(generic.PrefixHoliday)
	}
	if err := h.Repo.SaveHoliday(r.Context(), hol); err != nil {
		h.writeServiceError(w, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COLLECTIVE RULES
// =============================================================================

// ListCollectiveRules returns collective rules in declaration order.
func (h *Handler) ListCollectiveRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Repo.ListCollectiveRules(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list collective rules", err)
		return
	}
	dtos := make([]CollectiveRuleDTO, len(rules))
	for i, rule := range rules {
		dtos[i] = toCollectiveRuleDTO(rule)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCollectiveRule adds or replaces a collective rule.
func (h *Handler) CreateCollectiveRule(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectiveRuleRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, err := generic.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := generic.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date must not be before start_date", nil)
		return
	}

	rule := ferias.CollectiveRule{
		ID:           req.ID,
		Description:  req.Description,
		Start:        start,
		End:          end,
		UnitID:       req.UnitID,
		AreaID:       req.AreaID,
		DepartmentID: req.DepartmentID,
		EmployeeIDs:  req.EmployeeIDs,
	}
	if rule.ID == "" {
		rule.ID = generic.NewID(generic.PrefixRule)
	}
	if err := h.Repo.SaveCollectiveRule(r.Context(), rule); err != nil {
		h.writeServiceError(w, "Failed to save collective rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollectiveRuleDTO(rule))
}

// DeleteCollectiveRule removes a collective rule.
func (h *Handler) DeleteCollectiveRule(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteCollectiveRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete collective rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ORG UNITS
// =============================================================================

// ListOrgUnits returns the org tree as a flat list.
func (h *Handler) ListOrgUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.Repo.ListOrgUnits(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list org units", err)
		return
	}
	dtos := make([]OrgUnitDTO, len(units))
	for i, u := range units {
		dtos[i] = OrgUnitDTO{ID: u.ID, Name: u.Name, Type: u.Type, ParentID: u.ParentID}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateOrgUnit adds or moves an org unit. A parent that would close a
// cycle is rejected.
func (h *Handler) CreateOrgUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateOrgUnitRequest
	if !h.decode(w, r, &req) {
		return
	}
	u := ferias.OrgUnit{ID: req.ID, Name: req.Name, Type: req.Type, ParentID: req.ParentID}
	if err := h.Service.SaveOrgUnit(r.Context(), u); err != nil {
		h.writeServiceError(w, "Failed to save org unit", err)
		return
	}
	writeJSON(w, http.StatusCreated, OrgUnitDTO{ID: u.ID, Name: u.Name, Type: u.Type, ParentID: u.ParentID})
}

// =============================================================================
// CONFIG AND STATUS CATALOG
// =============================================================================

// GetConfig returns the system configuration document.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.Config(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to load config", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Configs.ToJSON(cfg))
}

// UpdateConfig replaces the system configuration. Missing fields take
// their defaults.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cj factory.ConfigJSON
	if err := json.NewDecoder(r.Body).Decode(&cj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	cfg, err := h.Configs.FromJSON(cj)
	if err != nil {
		h.writeServiceError(w, "Invalid config", err)
		return
	}
	if err := h.Service.UpdateConfig(r.Context(), cfg); err != nil {
		h.writeServiceError(w, "Failed to save config", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Configs.ToJSON(cfg))
}

// ListStatuses returns the catalog, optionally filtered by ?category=.
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.Config(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to load config", err)
		return
	}

	defs := cfg.Statuses
	if cat := r.URL.Query().Get("category"); cat != "" {
		defs = cfg.StatusesFor(ferias.StatusCategory(cat))
	}
	dtos := make([]StatusDTO, len(defs))
	for i, s := range defs {
		dtos[i] = toStatusDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertStatus adds a custom status or edits the label/style of any status.
func (h *Handler) UpsertStatus(w http.ResponseWriter, r *http.Request) {
	var req UpsertStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.editCatalog(w, r, req.ID, func(cfg *ferias.AppConfig) error {
		return cfg.UpsertStatus(ferias.StatusDefinition{
			ID:       req.ID,
			Label:    req.Label,
			Style:    req.Style,
			Active:   req.Active,
			Category: ferias.StatusCategory(req.Category),
		})
	})
}

// DeleteStatus removes a custom status. System statuses answer 409.
func (h *Handler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.editCatalog(w, r, id, func(cfg *ferias.AppConfig) error {
		if _, ok := cfg.Status(id); !ok {
			return fmt.Errorf("status %s: %w", id, generic.ErrStatusNotFound)
		}
		return cfg.DeleteStatus(id)
	})
}

func (h *Handler) editCatalog(w http.ResponseWriter, r *http.Request, id string, edit func(*ferias.AppConfig) error) {
	ctx := r.Context()
	cfg, err := h.Service.Config(ctx)
	if err != nil {
		h.writeServiceError(w, "Failed to load config", err)
		return
	}
	if err := edit(cfg); err != nil {
		h.writeServiceError(w, "Failed to edit status "+id, err)
		return
	}
	if err := h.Service.UpdateConfig(ctx, cfg); err != nil {
		h.writeServiceError(w, "Failed to save config", err)
		return
	}

	dtos := make([]StatusDTO, len(cfg.Statuses))
	for i, s := range cfg.Statuses {
		dtos[i] = toStatusDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}
