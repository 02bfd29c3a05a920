package ferias

import "github.com/warp/ferias-engine/generic"

// =============================================================================
// DISPLAY STATUS - Derived on every read, never persisted
// =============================================================================

// PeriodDisplayStatus is what callers show for a period. It is the workflow
// status while an approval is in flight, otherwise it is derived from the
// fractions and today.
type PeriodDisplayStatus string

const (
	DisplayPlanning       PeriodDisplayStatus = "planning"
	DisplayPendingManager PeriodDisplayStatus = "pending_manager"
	DisplayPendingRH      PeriodDisplayStatus = "pending_rh"
	DisplayRejected       PeriodDisplayStatus = "rejected"
	DisplayScheduled      PeriodDisplayStatus = "scheduled"
	DisplayEnjoyed        PeriodDisplayStatus = "enjoyed"
)

// DeriveFractionStatus returns the effective status of a fraction on today.
//
//	canceled, enjoyed        -> unchanged (terminal)
//	scheduled, enjoying      -> by date: scheduled < start <= enjoying <= end < enjoyed
//	planned, rejected        -> unchanged (not time-driven)
func DeriveFractionStatus(f Fraction, today generic.Date) FractionStatus {
	switch f.Status {
	case FractionScheduled, FractionEnjoying:
		switch {
		case today.After(f.EndDate):
			return FractionEnjoyed
		case today.Before(f.StartDate):
			return FractionScheduled
		default:
			return FractionEnjoying
		}
	default:
		return f.Status
	}
}

// DeriveAccrualPeriodStatus returns the effective status of a period on today.
// Workflow states in flight (pending_manager, pending_rh, rejected) dominate.
func DeriveAccrualPeriodStatus(p AccrualPeriod, today generic.Date) PeriodDisplayStatus {
	switch p.Status {
	case WorkflowPendingManager:
		return DisplayPendingManager
	case WorkflowPendingRH:
		return DisplayPendingRH
	case WorkflowRejected:
		return DisplayRejected
	}

	valid := activeFractions(p.Fractions, "")
	if len(valid) == 0 {
		return DisplayPlanning
	}
	for _, f := range valid {
		if DeriveFractionStatus(f, today) != FractionEnjoyed {
			return DisplayScheduled
		}
	}
	return DisplayEnjoyed
}

// isStarted reports whether a fraction is being or has been enjoyed on today.
func isStarted(f Fraction, today generic.Date) bool {
	s := DeriveFractionStatus(f, today)
	return s == FractionEnjoying || s == FractionEnjoyed
}
