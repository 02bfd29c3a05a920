/*
validation.go - Legality checks for a new or edited vacation fraction

PURPOSE:
  ValidateFraction decides whether a proposed fraction may be scheduled.
  It is a pure function over already-loaded data: the employee, the
  accrual period, the holiday calendar, the collective rules and the
  configuration. Nothing is written; the caller persists the fraction
  afterwards (see schedule.go ApplyFraction).

CHECK ORDER:
  The checks run in a fixed order and the first failure wins. Callers rely
  on this order for their messages, so new checks go at the end.

   1. start_required        start date present
   2. start_weekday         not Friday or Saturday
   3. holiday_eve           no feriado/ponto facultativo in start+1 or start+2
   4. before_period_end     early start only to cover a collective rule
   5. min_notice            start >= today + notice days
   6. abono_notice          abono only until deadline - abono notice days
   7. advance_13th_year     one 13th advance per calendar year
      advance_13th_window   start inside the DD/MM window
   8. concession_deadline   start < concession deadline
   9. overlap               no overlap with active fractions
  10. abono_quota           explicit abono days <= abono quota
      balance               days + abono <= remaining
  11. max_fractions         new fraction under the fractionation limit
  12. min_fraction_size     no fraction under 5 days once split
  13. residual_balance      leftover is 0 or >= 5
  14. fourteen_day_block    a 14-day block exists or still fits

RESULT vs ERROR:
  A rule violation is a normal outcome and comes back as Result{OK: false}.
  The error return is reserved for broken inputs (nil config, nil period),
  which are programming mistakes rather than business outcomes.

SEE ALSO:
  - balance.go: remaining balance and abono quota
  - collective.go: rule matching for check 4
*/
package ferias

import (
	"fmt"
	"time"

	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// RULE CODES
// =============================================================================

type RuleCode string

const (
	RuleStartRequired      RuleCode = "start_required"
	RuleStartWeekday       RuleCode = "start_weekday"
	RuleHolidayEve         RuleCode = "holiday_eve"
	RuleBeforePeriodEnd    RuleCode = "before_period_end"
	RuleMinNotice          RuleCode = "min_notice"
	RuleAbonoNotice        RuleCode = "abono_notice"
	RuleAdvance13thYear    RuleCode = "advance_13th_year"
	RuleAdvance13thWindow  RuleCode = "advance_13th_window"
	RuleConcessionDeadline RuleCode = "concession_deadline"
	RuleOverlap            RuleCode = "overlap"
	RuleAbonoQuota         RuleCode = "abono_quota"
	RuleBalance            RuleCode = "balance"
	RuleMaxFractions       RuleCode = "max_fractions"
	RuleMinFractionSize    RuleCode = "min_fraction_size"
	RuleResidualBalance    RuleCode = "residual_balance"
	RuleFourteenDayBlock   RuleCode = "fourteen_day_block"
)

const (
	minFractionDays = 5
	minResidualDays = 5
	blockDays       = 14
)

// =============================================================================
// INPUT / RESULT
// =============================================================================

// ValidationInput bundles everything one validation call reads.
type ValidationInput struct {
	Employee *Employee
	Period   *AccrualPeriod

	// EditingFractionID is the fraction being replaced; "" for a new one.
	EditingFractionID string

	Holidays []Holiday
	Rules    []CollectiveRule
	Config   *AppConfig
	Today    generic.Date

	// Proposed fraction
	Start          generic.Date
	Days           int
	AbonoRequested bool
	AbonoDays      int
	Advance13th    bool
}

// Result is the outcome of a validation. Rule and Reason are empty when OK.
type Result struct {
	OK     bool     `json:"ok"`
	Rule   RuleCode `json:"rule,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func accepted() Result { return Result{OK: true} }

func violation(rule RuleCode, format string, args ...any) Result {
	return Result{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// =============================================================================
// VALIDATE
// =============================================================================

// ValidateFraction runs the ordered checks against a proposed fraction.
func ValidateFraction(in ValidationInput) (Result, error) {
	if in.Config == nil {
		return Result{}, generic.ErrConfigMissing
	}
	if in.Employee == nil || in.Period == nil {
		return Result{}, fmt.Errorf("%w: employee and period are required", generic.ErrInvalidInput)
	}
	if in.Days <= 0 {
		return Result{}, fmt.Errorf("%w: day count must be positive, got %d", generic.ErrInvalidInput, in.Days)
	}
	if in.AbonoDays < 0 {
		return Result{}, fmt.Errorf("%w: abono days must not be negative", generic.ErrInvalidInput)
	}

	cfg := in.Config
	p := in.Period
	today := in.Today

	// 1
	if in.Start.IsZero() {
		return violation(RuleStartRequired, "Informe a data de início das férias."), nil
	}
	start := in.Start
	end := start.AddDays(in.Days - 1)

	// 2
	if wd := start.Weekday(); wd == time.Friday || wd == time.Saturday {
		return violation(RuleStartWeekday,
			"As férias não podem iniciar nos dois dias que antecedem o repouso semanal (sexta-feira ou sábado)."), nil
	}

	// 3
	if h, ok := holidayEve(start, in.Holidays, in.Employee.UnitID); ok {
		return violation(RuleHolidayEve,
			"As férias não podem iniciar nos dois dias que antecedem o feriado %s (%s).", h.Name, h.Date.Format()), nil
	}

	// 4
	if start.Before(p.EndDate) {
		rule, ok := FindApplicableRule(in.Employee, in.Rules, today)
		covers := ok && generic.RangeOfDays(start, in.Days).Covers(rule.Range())
		if !covers {
			return violation(RuleBeforePeriodEnd,
				"As férias só podem iniciar após o fim do período aquisitivo (%s), salvo férias coletivas.",
				p.EndDate.Format()), nil
		}
	}

	// 5
	minStart := today.AddDays(cfg.AntecedenciaMinimaDias)
	if start.Before(minStart) {
		return violation(RuleMinNotice,
			"As férias devem ser solicitadas com antecedência mínima de %d dias (início a partir de %s).",
			cfg.AntecedenciaMinimaDias, minStart.Format()), nil
	}

	bal := ComputeBalance(p, cfg, in.EditingFractionID)
	abono := EffectiveAbonoDays(in.AbonoRequested, in.AbonoDays, bal)

	// 6
	if abono > 0 {
		limit := p.ConcessionDeadline.AddDays(-cfg.AntecedenciaMinimaAbonoDias)
		if today.After(limit) {
			return violation(RuleAbonoNotice,
				"O abono pecuniário deve ser solicitado até %d dias antes do fim do período concessivo (até %s).",
				cfg.AntecedenciaMinimaAbonoDias, limit.Format()), nil
		}
	}

	// 7
	if in.Advance13th {
		if advance13thTaken(in, start.Year()) {
			return violation(RuleAdvance13thYear,
				"O adiantamento do 13º salário já foi solicitado para férias em %d.", start.Year()), nil
		}
		if !cfg.Advance13thWindow.Contains(start) {
			return violation(RuleAdvance13thWindow,
				"O adiantamento do 13º salário só pode ser solicitado para férias iniciadas entre %s.",
				cfg.Advance13thWindow), nil
		}
	}

	// 8
	if !start.Before(p.ConcessionDeadline) {
		return violation(RuleConcessionDeadline,
			"As férias devem iniciar antes do fim do período concessivo (%s).", p.ConcessionDeadline.Format()), nil
	}

	existing := activeFractions(p.Fractions, in.EditingFractionID)
	proposed := generic.DateRange{Start: start, End: end}

	// 9
	for _, f := range existing {
		if proposed.Overlaps(f.Range()) {
			return violation(RuleOverlap,
				"O período solicitado conflita com outras férias já programadas (%s).", f.Range()), nil
		}
	}

	// 10
	if abono > bal.AbonoQuota {
		if bal.AbonoQuota == 0 {
			return violation(RuleAbonoQuota,
				"O abono pecuniário deste período aquisitivo já foi concedido."), nil
		}
		return violation(RuleAbonoQuota,
			"O abono pecuniário está limitado a %d dias neste período aquisitivo (solicitados %d).",
			bal.AbonoQuota, abono), nil
	}
	if in.Days+abono > bal.RemainingBalance {
		return violation(RuleBalance,
			"Saldo insuficiente: solicitados %d dias, disponíveis %d.", in.Days+abono, bal.RemainingBalance), nil
	}

	// 11
	if in.EditingFractionID == "" && nonCanceledCount(p.Fractions) >= cfg.MaxFracionamentos {
		return violation(RuleMaxFractions,
			"O período aquisitivo já atingiu o limite de %d fracionamentos.", cfg.MaxFracionamentos), nil
	}

	// 12
	if len(existing)+1 > 1 {
		small := in.Days < minFractionDays
		for _, f := range existing {
			if f.Days < minFractionDays {
				small = true
			}
		}
		if small {
			return violation(RuleMinFractionSize,
				"Quando fracionadas, nenhuma parcela das férias pode ser inferior a %d dias.", minFractionDays), nil
		}
	}

	// 13
	leftover := bal.RemainingBalance - in.Days - abono
	if leftover > 0 && leftover < minResidualDays {
		return violation(RuleResidualBalance,
			"O saldo restante (%d dias) não pode ser inferior a %d dias.", leftover, minResidualDays), nil
	}

	// 14
	hasBlock := in.Days >= blockDays
	for _, f := range existing {
		if f.Days >= blockDays {
			hasBlock = true
		}
	}
	if !hasBlock {
		if leftover == 0 {
			return violation(RuleFourteenDayBlock,
				"Uma das parcelas das férias deve ter no mínimo 14 dias corridos."), nil
		}
		if leftover < blockDays {
			return violation(RuleFourteenDayBlock,
				"O saldo restante (%d dias) não comporta a parcela obrigatória de 14 dias.", leftover), nil
		}
	}

	return accepted(), nil
}

// holidayEve returns the first start-blocking holiday on start+1 or start+2.
func holidayEve(start generic.Date, holidays []Holiday, unitID string) (Holiday, bool) {
	next, after := start.AddDays(1), start.AddDays(2)
	for _, h := range holidays {
		if !h.BlocksVacationStart() || !h.AppliesTo(unitID) {
			continue
		}
		if h.Date.Equal(next) || h.Date.Equal(after) {
			return h, true
		}
	}
	return Holiday{}, false
}

// advance13thTaken reports whether any active fraction of the employee other
// than the one being edited already carries the advance in year.
func advance13thTaken(in ValidationInput, year int) bool {
	seen := false
	check := func(fractions []Fraction) bool {
		for _, f := range activeFractions(fractions, in.EditingFractionID) {
			if f.Advance13th && f.StartDate.Year() == year {
				return true
			}
		}
		return false
	}
	for _, p := range in.Employee.Periods {
		if p.ID == in.Period.ID {
			seen = true
			if check(in.Period.Fractions) {
				return true
			}
			continue
		}
		if check(p.Fractions) {
			return true
		}
	}
	return !seen && check(in.Period.Fractions)
}

func nonCanceledCount(fractions []Fraction) int {
	n := 0
	for _, f := range fractions {
		if f.Status != FractionCanceled {
			n++
		}
	}
	return n
}
