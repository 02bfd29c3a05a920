package ferias_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// Monday 2026-10-19. The default period below is complete and its
// concession window runs until 2027-09-01.
var today = generic.MustParseDate("2026-10-19")

func date(s string) generic.Date { return generic.MustParseDate(s) }

func strPtr(s string) *string { return &s }

func newEmployee() *ferias.Employee {
	return &ferias.Employee{
		ID:             "emp-1",
		Name:           "Ana Souza",
		AdmissionDate:  date("2025-09-01"),
		UnitID:         "sp",
		AreaID:         "plataforma",
		HierarchyLevel: 1,
		ManagerID:      strPtr("emp-mgr"),
		Role:           ferias.RoleUser,
		Status:         ferias.EmployeeActive,
	}
}

func newPeriod() *ferias.AccrualPeriod {
	return &ferias.AccrualPeriod{
		ID:                 "pa-1",
		EmployeeID:         "emp-1",
		StartDate:          date("2025-09-01"),
		EndDate:            date("2026-09-01"),
		ConcessionDeadline: date("2027-09-01"),
		SaldoTotal:         30,
		Status:             ferias.WorkflowPlanning,
		DayInputMode:       ferias.DayInputSystem,
		AbonoBasis:         ferias.AbonoBasisSystem,
	}
}

// fraction builds an active fraction of n days.
func fraction(id, start string, n int) ferias.Fraction {
	s := date(start)
	return ferias.Fraction{
		ID:        id,
		StartDate: s,
		EndDate:   s.AddDays(n - 1),
		Days:      n,
		Status:    ferias.FractionPlanned,
	}
}

// input returns a request for n days from Monday 2026-11-30 against the
// default employee and period.
func input(n int) ferias.ValidationInput {
	return ferias.ValidationInput{
		Employee: newEmployee(),
		Period:   newPeriod(),
		Config:   ferias.DefaultAppConfig(),
		Today:    today,
		Start:    date("2026-11-30"),
		Days:     n,
	}
}

func requireAccepted(t *testing.T, in ferias.ValidationInput) {
	t.Helper()
	res, err := ferias.ValidateFraction(in)
	require.NoError(t, err)
	require.True(t, res.OK, "expected accepted, got %s: %s", res.Rule, res.Reason)
}

func requireRejected(t *testing.T, in ferias.ValidationInput, rule ferias.RuleCode) ferias.Result {
	t.Helper()
	res, err := ferias.ValidateFraction(in)
	require.NoError(t, err)
	require.False(t, res.OK, "expected %s, got accepted", rule)
	require.Equal(t, rule, res.Rule, "reason: %s", res.Reason)
	require.NotEmpty(t, res.Reason)
	return res
}
