package ferias

import (
	"fmt"
	"slices"
	"time"

	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// PROVISIONING - New accrual periods
// =============================================================================

// NewAccrualPeriod builds a planning period of 12 months starting at start.
func NewAccrualPeriod(employeeID string, start generic.Date, cfg *AppConfig) AccrualPeriod {
	end := start.AddMonths(12)
	grace := 0
	if cfg != nil {
		grace = cfg.ConcessionGraceDays
	}
	return AccrualPeriod{
		ID:                 generic.NewID(generic.PrefixPeriod),
		EmployeeID:         employeeID,
		StartDate:          start,
		EndDate:            end,
		ConcessionDeadline: end.AddDays(grace),
		SaldoTotal:         DefaultSaldoTotal,
		Status:             WorkflowPlanning,
		DayInputMode:       DayInputSystem,
		AbonoBasis:         AbonoBasisSystem,
	}
}

// NextPeriodStart is the end of the employee's latest period, or the
// admission date when there is none.
func NextPeriodStart(emp *Employee) generic.Date {
	next := emp.AdmissionDate
	for _, p := range emp.Periods {
		if p.EndDate.After(next) {
			next = p.EndDate
		}
	}
	return next
}

// NewEnvelope opens a signature envelope for a fresh request.
func NewEnvelope(requesterID string, now time.Time) *SignatureEnvelope {
	return &SignatureEnvelope{
		ID:          generic.NewID(generic.PrefixEnvelope),
		RequesterID: requesterID,
		CreatedAt:   now,
		Events:      []SignatureEvent{{SignerID: requesterID, Action: "requested", At: now}},
	}
}

// =============================================================================
// SCHEDULE MUTATIONS - Applied after a successful validation
// =============================================================================

// FractionDraft holds the caller-supplied fields of a fraction.
type FractionDraft struct {
	Start       generic.Date
	Days        int
	AbonoDays   int
	Advance13th bool
}

// ApplyFraction inserts a new fraction (editingID == "") or replaces an
// existing one, re-sequences by start date and restarts the approval flow.
// It returns the updated period copy and the stored fraction.
func ApplyFraction(
	period AccrualPeriod,
	editingID string,
	draft FractionDraft,
	requesterID string,
	now time.Time,
) (AccrualPeriod, Fraction, error) {
	out := period.Clone()

	f := Fraction{
		ID:          editingID,
		StartDate:   draft.Start,
		EndDate:     draft.Start.AddDays(draft.Days - 1),
		Days:        draft.Days,
		AbonoDays:   draft.AbonoDays,
		Advance13th: draft.Advance13th,
		Status:      FractionPlanned,
	}

	if editingID == "" {
		f.ID = generic.NewID(generic.PrefixFraction)
		out.Fractions = append(out.Fractions, f)
	} else {
		idx := slices.IndexFunc(out.Fractions, func(x Fraction) bool { return x.ID == editingID })
		if idx < 0 {
			return period, Fraction{}, fmt.Errorf("%w: %s", generic.ErrFractionNotFound, editingID)
		}
		out.Fractions[idx] = f
	}

	resequence(out.Fractions)
	out.Status = WorkflowPendingManager
	out.ManagerApproverID = nil
	out.RHApproverID = nil
	out.Signature = NewEnvelope(requesterID, now)

	stored, _ := out.FindFraction(f.ID)
	return out, stored, nil
}

// DeleteFraction removes a fraction that has not started yet.
func DeleteFraction(period AccrualPeriod, fractionID string, today generic.Date) (AccrualPeriod, error) {
	idx := slices.IndexFunc(period.Fractions, func(x Fraction) bool { return x.ID == fractionID })
	if idx < 0 {
		return period, fmt.Errorf("%w: %s", generic.ErrFractionNotFound, fractionID)
	}
	if isStarted(period.Fractions[idx], today) {
		return period, fmt.Errorf("%w: fraction %s already started", generic.ErrFractionLocked, fractionID)
	}

	out := period.Clone()
	out.Fractions = slices.Delete(out.Fractions, idx, idx+1)
	resequence(out.Fractions)
	if len(activeFractions(out.Fractions, "")) == 0 {
		resetWorkflow(&out)
	}
	return out, nil
}

// ClearSchedule removes every fraction of the period. Nothing is removed if
// any fraction has started.
func ClearSchedule(period AccrualPeriod, today generic.Date) (AccrualPeriod, error) {
	for _, f := range period.Fractions {
		if isStarted(f, today) {
			return period, fmt.Errorf("%w: fraction %s already started", generic.ErrFractionLocked, f.ID)
		}
	}
	out := period.Clone()
	out.Fractions = nil
	resetWorkflow(&out)
	return out, nil
}

func resetWorkflow(p *AccrualPeriod) {
	p.Status = WorkflowPlanning
	p.ManagerApproverID = nil
	p.RHApproverID = nil
	p.Signature = nil
}

// resequence orders fractions by start date and numbers them 1..N.
func resequence(fractions []Fraction) {
	slices.SortStableFunc(fractions, func(a, b Fraction) int {
		return a.StartDate.Compare(b.StartDate)
	})
	for i := range fractions {
		fractions[i].Sequence = i + 1
	}
}
