/*
Package factory provides JSON to Go conversion of the vacation policy.

PURPOSE:
  Converts the JSON form of the system configuration into ferias.AppConfig
  and back. The admin UI edits this document, the SQLite store persists it
  as-is, and a JSON file can seed it at startup (APP_CONFIG_FILE).

JSON SCHEMA:
  {
    "day_options": [5, 10, 14, 15, 20, 30],
    "default_day_input_mode": "list",
    "default_abono_basis": "initial_balance",
    "antecedencia_minima_dias": 30,
    "antecedencia_minima_abono_dias": 45,
    "max_fracionamentos": 3,
    "concession_grace_days": 365,
    "inicio_adiantamento_13": "01/02",
    "fim_adiantamento_13": "30/11",
    "display_cutoff": "2020-01-01",
    "hr_area_id": "rh",
    "statuses": [
      {"id": "planning", "label": "Em planejamento", "style": "gray",
       "active": true, "category": "period", "system": true}
    ]
  }

DEFAULTS:
  Every field is optional. Missing fields take the value from
  ferias.DefaultAppConfig, so "{}" is a valid document. Numeric fields
  are pointers so an explicit 0 is kept.

USAGE:
  f := factory.NewConfigFactory()
  cfg, err := f.ParseConfig(jsonString)
  doc, err := f.MarshalConfig(cfg)

SEE ALSO:
  - ferias/config.go: AppConfig and the status catalog
  - store/sqlite/sqlite.go: stores the document in app_config
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of ferias.AppConfig.
type ConfigJSON struct {
	DayOptions          []int  `json:"day_options,omitempty"`
	DefaultDayInputMode string `json:"default_day_input_mode,omitempty"`
	DefaultAbonoBasis   string `json:"default_abono_basis,omitempty"`

	AntecedenciaMinimaDias      *int `json:"antecedencia_minima_dias,omitempty"`
	AntecedenciaMinimaAbonoDias *int `json:"antecedencia_minima_abono_dias,omitempty"`
	MaxFracionamentos           *int `json:"max_fracionamentos,omitempty"`
	ConcessionGraceDays         *int `json:"concession_grace_days,omitempty"`

	InicioAdiantamento13 string `json:"inicio_adiantamento_13,omitempty"` // DD/MM
	FimAdiantamento13    string `json:"fim_adiantamento_13,omitempty"`    // DD/MM

	DisplayCutoff string `json:"display_cutoff,omitempty"` // YYYY-MM-DD
	HRAreaID      string `json:"hr_area_id,omitempty"`

	Statuses []StatusJSON `json:"statuses,omitempty"`
}

// StatusJSON is one entry of the status catalog.
type StatusJSON struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Style    string `json:"style,omitempty"`
	Active   bool   `json:"active"`
	Category string `json:"category"`
	System   bool   `json:"system,omitempty"`
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts JSON configuration to ferias.AppConfig.
type ConfigFactory struct{}

// NewConfigFactory creates a new config factory.
func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParseConfig parses a JSON document into a validated AppConfig.
func (f *ConfigFactory) ParseConfig(jsonStr string) (*ferias.AppConfig, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("%w: invalid config JSON: %v", generic.ErrInvalidInput, err)
	}
	return f.FromJSON(cj)
}

// MarshalConfig renders cfg as a JSON document.
func (f *ConfigFactory) MarshalConfig(cfg *ferias.AppConfig) (string, error) {
	if cfg == nil {
		return "", generic.ErrConfigMissing
	}
	b, err := json.Marshal(f.ToJSON(cfg))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromJSON fills the defaults and validates the result.
func (f *ConfigFactory) FromJSON(cj ConfigJSON) (*ferias.AppConfig, error) {
	cfg := ferias.DefaultAppConfig()

	if len(cj.DayOptions) > 0 {
		cfg.DayOptions = append([]int(nil), cj.DayOptions...)
	}
	if cj.DefaultDayInputMode != "" {
		cfg.DefaultDayInputMode = ferias.DayInputMode(cj.DefaultDayInputMode)
	}
	if cj.DefaultAbonoBasis != "" {
		cfg.DefaultAbonoBasis = ferias.AbonoBasis(cj.DefaultAbonoBasis)
	}
	setInt(&cfg.AntecedenciaMinimaDias, cj.AntecedenciaMinimaDias)
	setInt(&cfg.AntecedenciaMinimaAbonoDias, cj.AntecedenciaMinimaAbonoDias)
	setInt(&cfg.MaxFracionamentos, cj.MaxFracionamentos)
	setInt(&cfg.ConcessionGraceDays, cj.ConcessionGraceDays)

	if cj.InicioAdiantamento13 != "" {
		md, err := generic.ParseMonthDay(cj.InicioAdiantamento13)
		if err != nil {
			return nil, fmt.Errorf("inicio_adiantamento_13: %w", err)
		}
		cfg.Advance13thWindow.Start = md
	}
	if cj.FimAdiantamento13 != "" {
		md, err := generic.ParseMonthDay(cj.FimAdiantamento13)
		if err != nil {
			return nil, fmt.Errorf("fim_adiantamento_13: %w", err)
		}
		cfg.Advance13thWindow.End = md
	}

	if cj.DisplayCutoff != "" {
		d, err := generic.ParseDate(cj.DisplayCutoff)
		if err != nil {
			return nil, fmt.Errorf("display_cutoff: %w", err)
		}
		cfg.DisplayCutoff = &d
	}
	if cj.HRAreaID != "" {
		cfg.HRAreaID = cj.HRAreaID
	}

	// Custom entries are layered over the built-in catalog so system
	// entries survive a document that omits them.
	for _, sj := range cj.Statuses {
		if err := cfg.UpsertStatus(parseStatus(sj)); err != nil {
			return nil, fmt.Errorf("status %q: %w", sj.ID, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON converts an AppConfig back to its JSON representation.
func (f *ConfigFactory) ToJSON(cfg *ferias.AppConfig) ConfigJSON {
	cj := ConfigJSON{
		DayOptions:                  append([]int(nil), cfg.DayOptions...),
		DefaultDayInputMode:         string(cfg.DefaultDayInputMode),
		DefaultAbonoBasis:           string(cfg.DefaultAbonoBasis),
		AntecedenciaMinimaDias:      intPtr(cfg.AntecedenciaMinimaDias),
		AntecedenciaMinimaAbonoDias: intPtr(cfg.AntecedenciaMinimaAbonoDias),
		MaxFracionamentos:           intPtr(cfg.MaxFracionamentos),
		ConcessionGraceDays:         intPtr(cfg.ConcessionGraceDays),
		InicioAdiantamento13:        cfg.Advance13thWindow.Start.String(),
		FimAdiantamento13:           cfg.Advance13thWindow.End.String(),
		HRAreaID:                    cfg.HRAreaID,
	}
	if cfg.DisplayCutoff != nil {
		cj.DisplayCutoff = cfg.DisplayCutoff.String()
	}
	for _, s := range cfg.Statuses {
		cj.Statuses = append(cj.Statuses, StatusJSON{
			ID:       s.ID,
			Label:    s.Label,
			Style:    s.Style,
			Active:   s.Active,
			Category: string(s.Category),
			System:   s.System,
		})
	}
	return cj
}

func parseStatus(sj StatusJSON) ferias.StatusDefinition {
	cat := ferias.StatusCategory(sj.Category)
	if cat == "" {
		cat = ferias.CategoryBoth
	}
	return ferias.StatusDefinition{
		ID:       sj.ID,
		Label:    sj.Label,
		Style:    sj.Style,
		Active:   sj.Active,
		Category: cat,
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func intPtr(v int) *int { return &v }
