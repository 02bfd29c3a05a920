package ferias_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/ferias-engine/ferias"
)

// =============================================================================
// FRACTION STATUS DERIVATION
// =============================================================================

func TestDeriveFractionStatus_TimeProgression(t *testing.T) {
	// GIVEN: A scheduled fraction 2027-03-01 .. 2027-03-10
	// WHEN: Today advances day by day across it
	// THEN: scheduled -> enjoying -> enjoyed, never reversing
	f := fraction("f1", "2027-03-01", 10)
	f.Status = ferias.FractionScheduled

	rank := map[ferias.FractionStatus]int{
		ferias.FractionScheduled: 0,
		ferias.FractionEnjoying:  1,
		ferias.FractionEnjoyed:   2,
	}
	last := 0
	for d := date("2027-02-20"); d.BeforeOrEqual(date("2027-03-20")); d = d.AddDays(1) {
		got := ferias.DeriveFractionStatus(f, d)
		r, ok := rank[got]
		assert.True(t, ok, "unexpected status %s on %s", got, d)
		assert.GreaterOrEqual(t, r, last, "status went back on %s", d)
		last = r
	}

	assert.Equal(t, ferias.FractionScheduled, ferias.DeriveFractionStatus(f, date("2027-02-28")))
	assert.Equal(t, ferias.FractionEnjoying, ferias.DeriveFractionStatus(f, date("2027-03-01")))
	assert.Equal(t, ferias.FractionEnjoying, ferias.DeriveFractionStatus(f, date("2027-03-10")))
	assert.Equal(t, ferias.FractionEnjoyed, ferias.DeriveFractionStatus(f, date("2027-03-11")))
}

func TestDeriveFractionStatus_StoredEnjoyingFollowsDates(t *testing.T) {
	f := fraction("f1", "2027-03-01", 10)
	f.Status = ferias.FractionEnjoying

	assert.Equal(t, ferias.FractionScheduled, ferias.DeriveFractionStatus(f, date("2027-02-01")))
	assert.Equal(t, ferias.FractionEnjoyed, ferias.DeriveFractionStatus(f, date("2027-04-01")))
}

func TestDeriveFractionStatus_NonTemporalStatuses(t *testing.T) {
	// Terminal and non time-driven statuses never change.
	for _, st := range []ferias.FractionStatus{
		ferias.FractionCanceled,
		ferias.FractionEnjoyed,
		ferias.FractionPlanned,
		ferias.FractionRejected,
	} {
		f := fraction("f1", "2027-03-01", 10)
		f.Status = st
		for _, d := range []string{"2027-02-01", "2027-03-05", "2027-04-01"} {
			assert.Equal(t, st, ferias.DeriveFractionStatus(f, date(d)), "status %s on %s", st, d)
		}
	}
}

func TestDeriveFractionStatus_Idempotent(t *testing.T) {
	f := fraction("f1", "2027-03-01", 10)
	f.Status = ferias.FractionScheduled
	before := f

	a := ferias.DeriveFractionStatus(f, date("2027-03-05"))
	b := ferias.DeriveFractionStatus(f, date("2027-03-05"))

	assert.Equal(t, a, b)
	assert.Equal(t, before, f)
}

// =============================================================================
// PERIOD STATUS DERIVATION
// =============================================================================

func TestDeriveAccrualPeriodStatus_WorkflowDominates(t *testing.T) {
	p := newPeriod()
	f := fraction("f1", "2026-01-05", 30)
	f.Status = ferias.FractionScheduled
	p.Fractions = []ferias.Fraction{f} // fully enjoyed by today

	cases := map[ferias.WorkflowStatus]ferias.PeriodDisplayStatus{
		ferias.WorkflowPendingManager: ferias.DisplayPendingManager,
		ferias.WorkflowPendingRH:      ferias.DisplayPendingRH,
		ferias.WorkflowRejected:       ferias.DisplayRejected,
	}
	for stored, want := range cases {
		p.Status = stored
		assert.Equal(t, want, ferias.DeriveAccrualPeriodStatus(*p, today))
	}
}

func TestDeriveAccrualPeriodStatus_FromFractions(t *testing.T) {
	p := newPeriod()
	p.Status = ferias.WorkflowScheduled

	// No valid fractions
	assert.Equal(t, ferias.DisplayPlanning, ferias.DeriveAccrualPeriodStatus(*p, today))

	canceled := fraction("f0", "2026-11-30", 10)
	canceled.Status = ferias.FractionCanceled
	p.Fractions = []ferias.Fraction{canceled}
	assert.Equal(t, ferias.DisplayPlanning, ferias.DeriveAccrualPeriodStatus(*p, today))

	// One enjoyed, one still ahead
	past := fraction("f1", "2026-06-01", 15)
	past.Status = ferias.FractionScheduled
	ahead := fraction("f2", "2026-11-30", 15)
	ahead.Status = ferias.FractionScheduled
	p.Fractions = append(p.Fractions, past, ahead)
	assert.Equal(t, ferias.DisplayScheduled, ferias.DeriveAccrualPeriodStatus(*p, today))

	// Everything valid is behind us
	assert.Equal(t, ferias.DisplayEnjoyed, ferias.DeriveAccrualPeriodStatus(*p, date("2027-01-01")))
}

func TestDeriveAccrualPeriodStatus_PlanningWithPlannedFractions(t *testing.T) {
	// Planned fractions never become enjoyed, so the period stays scheduled.
	p := newPeriod()
	p.Fractions = []ferias.Fraction{fraction("f1", "2026-01-05", 30)}
	assert.Equal(t, ferias.DisplayScheduled, ferias.DeriveAccrualPeriodStatus(*p, today))
}
