/*
config.go - Company-wide vacation policy knobs

PURPOSE:
  AppConfig holds every tunable the rules read: notice periods, the
  fractionation limit, the concession grace period, the 13th-salary
  advance window, the abono basis and the day-count options. It is
  read-only input to every engine call.

DEFAULTS:
  DefaultAppConfig mirrors the statutory baseline:
    - 30 days minimum notice, 45 days before the deadline for abono
    - at most 3 fractions per period
    - concession deadline = period end + 365 days
    - 13th advance allowed for vacations starting 01/02 to 30/11
    - abono quota over the initial balance

STATUS CATALOG:
  Labels and styles of every status are configurable. Entries marked System
  back the engine's own status ids and cannot be deleted, only relabeled.

SEE ALSO:
  - factory/config.go: JSON representation and parsing
  - balance.go: uses AbonoBasis
  - validation.go: uses notice days, limits and the 13th window
*/
package ferias

import (
	"fmt"

	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// APP CONFIG
// =============================================================================

// AppConfig is the system-wide vacation policy.
type AppConfig struct {
	DayOptions          []int
	DefaultDayInputMode DayInputMode
	DefaultAbonoBasis   AbonoBasis

	AntecedenciaMinimaDias      int
	AntecedenciaMinimaAbonoDias int
	MaxFracionamentos           int
	ConcessionGraceDays         int

	Advance13thWindow generic.RecurringWindow

	// Periods ending before this date are hidden from listings.
	DisplayCutoff *generic.Date

	// Area whose members act as the RH approval stage.
	HRAreaID string

	Statuses []StatusDefinition
}

// DefaultAppConfig returns the statutory baseline configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		DayOptions:                  []int{5, 10, 14, 15, 20, 30},
		DefaultDayInputMode:         DayInputList,
		DefaultAbonoBasis:           AbonoBasisInitial,
		AntecedenciaMinimaDias:      30,
		AntecedenciaMinimaAbonoDias: 45,
		MaxFracionamentos:           3,
		ConcessionGraceDays:         365,
		Advance13thWindow: generic.RecurringWindow{
			Start: generic.MonthDay{Month: 2, Day: 1},
			End:   generic.MonthDay{Month: 11, Day: 30},
		},
		HRAreaID: "rh",
		Statuses: DefaultStatusCatalog(),
	}
}

// Validate checks the configuration for values the rules cannot work with.
func (c *AppConfig) Validate() error {
	if c == nil {
		return generic.ErrConfigMissing
	}
	if c.AntecedenciaMinimaDias < 0 || c.AntecedenciaMinimaAbonoDias < 0 {
		return fmt.Errorf("%w: notice days must not be negative", generic.ErrInvalidInput)
	}
	if c.MaxFracionamentos < 1 {
		return fmt.Errorf("%w: max fractionations must be at least 1", generic.ErrInvalidInput)
	}
	if c.ConcessionGraceDays < 0 {
		return fmt.Errorf("%w: concession grace days must not be negative", generic.ErrInvalidInput)
	}
	switch c.DefaultAbonoBasis {
	case AbonoBasisInitial, AbonoBasisCurrent:
	default:
		return fmt.Errorf("%w: default abono basis %q", generic.ErrInvalidInput, c.DefaultAbonoBasis)
	}
	switch c.DefaultDayInputMode {
	case DayInputList, DayInputFree:
	default:
		return fmt.Errorf("%w: default day input mode %q", generic.ErrInvalidInput, c.DefaultDayInputMode)
	}
	for _, d := range c.DayOptions {
		if d <= 0 {
			return fmt.Errorf("%w: day option %d", generic.ErrInvalidInput, d)
		}
	}
	return nil
}

// EffectiveAbonoBasis resolves the period override against the system default.
func EffectiveAbonoBasis(p *AccrualPeriod, cfg *AppConfig) AbonoBasis {
	if p.AbonoBasis != "" && p.AbonoBasis != AbonoBasisSystem {
		return p.AbonoBasis
	}
	return cfg.DefaultAbonoBasis
}

// EffectiveDayInputMode resolves the period override against the system default.
func EffectiveDayInputMode(p *AccrualPeriod, cfg *AppConfig) DayInputMode {
	if p.DayInputMode != "" && p.DayInputMode != DayInputSystem {
		return p.DayInputMode
	}
	return cfg.DefaultDayInputMode
}

// AllowedDayCounts returns the day counts a caller should offer for the
// period, capped at the remaining balance. Free input returns nil.
func AllowedDayCounts(p *AccrualPeriod, cfg *AppConfig, remaining int) []int {
	if EffectiveDayInputMode(p, cfg) == DayInputFree {
		return nil
	}
	var out []int
	for _, d := range cfg.DayOptions {
		if d <= remaining {
			out = append(out, d)
		}
	}
	return out
}

// VisiblePeriods drops periods that ended before the display cutoff.
func VisiblePeriods(periods []AccrualPeriod, cfg *AppConfig) []AccrualPeriod {
	if cfg == nil || cfg.DisplayCutoff == nil {
		return periods
	}
	var out []AccrualPeriod
	for _, p := range periods {
		if p.EndDate.Before(*cfg.DisplayCutoff) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// =============================================================================
// STATUS CATALOG
// =============================================================================

type StatusCategory string

const (
	CategoryPeriod   StatusCategory = "period"
	CategoryFraction StatusCategory = "fraction"
	CategoryBoth     StatusCategory = "both"
)

// StatusDefinition is the display metadata of one status id.
type StatusDefinition struct {
	ID       string
	Label    string
	Style    string
	Active   bool
	Category StatusCategory
	System   bool
}

// DefaultStatusCatalog returns the protected entries backing the engine's statuses.
func DefaultStatusCatalog() []StatusDefinition {
	sys := func(id, label, style string, cat StatusCategory) StatusDefinition {
		return StatusDefinition{ID: id, Label: label, Style: style, Active: true, Category: cat, System: true}
	}
	return []StatusDefinition{
		sys(string(WorkflowPlanning), "Em planejamento", "gray", CategoryPeriod),
		sys(string(WorkflowPendingManager), "Aguardando gestor", "yellow", CategoryPeriod),
		sys(string(WorkflowPendingRH), "Aguardando RH", "orange", CategoryPeriod),
		sys(string(WorkflowScheduled), "Programadas", "blue", CategoryBoth),
		sys(string(WorkflowRejected), "Reprovadas", "red", CategoryBoth),
		sys(string(FractionPlanned), "Planejadas", "gray", CategoryFraction),
		sys(string(FractionEnjoying), "Em gozo", "green", CategoryBoth),
		sys(string(FractionEnjoyed), "Gozadas", "teal", CategoryBoth),
		sys(string(FractionCanceled), "Canceladas", "slate", CategoryFraction),
	}
}

// StatusesFor returns the active catalog entries usable for a category.
func (c *AppConfig) StatusesFor(cat StatusCategory) []StatusDefinition {
	var out []StatusDefinition
	for _, s := range c.Statuses {
		if !s.Active {
			continue
		}
		if s.Category == cat || s.Category == CategoryBoth || cat == CategoryBoth {
			out = append(out, s)
		}
	}
	return out
}

// Status looks up a catalog entry by id.
func (c *AppConfig) Status(id string) (StatusDefinition, bool) {
	for _, s := range c.Statuses {
		if s.ID == id {
			return s, true
		}
	}
	return StatusDefinition{}, false
}

// UpsertStatus adds or replaces a catalog entry. System entries keep their
// protected flag and category; only label, style and active are editable.
func (c *AppConfig) UpsertStatus(def StatusDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("%w: status id required", generic.ErrInvalidInput)
	}
	switch def.Category {
	case CategoryPeriod, CategoryFraction, CategoryBoth:
	default:
		return fmt.Errorf("%w: status category %q", generic.ErrInvalidInput, def.Category)
	}
	for i, s := range c.Statuses {
		if s.ID != def.ID {
			continue
		}
		if s.System {
			def.System = true
			def.Category = s.Category
		}
		c.Statuses[i] = def
		return nil
	}
	def.System = false
	c.Statuses = append(c.Statuses, def)
	return nil
}

// DeleteStatus removes a custom catalog entry.
func (c *AppConfig) DeleteStatus(id string) error {
	for i, s := range c.Statuses {
		if s.ID != id {
			continue
		}
		if s.System {
			return generic.ErrProtectedStatus
		}
		c.Statuses = append(c.Statuses[:i], c.Statuses[i+1:]...)
		return nil
	}
	return generic.ErrStatusNotFound
}
