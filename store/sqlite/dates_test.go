package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// seeded returns a store holding emp-1 with one period and one fraction.
func seeded(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.SaveEmployee(ctx, ferias.Employee{
		ID: "emp-1", Name: "Ana", AdmissionDate: generic.MustParseDate("2025-09-01"),
		Role: ferias.RoleUser, Status: ferias.EmployeeActive,
	}))
	p := ferias.NewAccrualPeriod("emp-1", generic.MustParseDate("2025-09-01"), ferias.DefaultAppConfig())
	p.ID = "pa-1"
	start := generic.MustParseDate("2026-11-30")
	p.Fractions = []ferias.Fraction{{
		ID: "f1", Sequence: 1, StartDate: start, EndDate: start.AddDays(13), Days: 14,
		Status: ferias.FractionPlanned,
	}}
	require.NoError(t, s.SavePeriod(ctx, p))
	return s
}

func TestStore_CorruptPeriodDate(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	// GIVEN: A period whose start date was overwritten with garbage
	_, err := s.db.ExecContext(ctx, "UPDATE accrual_periods SET start_date = '2025-13-45' WHERE id = 'pa-1'")
	require.NoError(t, err)

	// WHEN: Loading it
	_, err = s.GetPeriod(ctx, "pa-1")

	// THEN: The corruption surfaces instead of a zero date
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period pa-1")
	assert.Contains(t, err.Error(), `corrupt start_date "2025-13-45"`)
	assert.NotErrorIs(t, err, generic.ErrInvalidInput)
}

func TestStore_CorruptFractionDate(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	_, err := s.db.ExecContext(ctx, "UPDATE fractions SET end_date = 'amanhã' WHERE id = 'f1'")
	require.NoError(t, err)

	_, err = s.ListPeriods(ctx, "emp-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `fraction f1: corrupt end_date "amanhã"`)
}

func TestStore_CorruptAdmissionDate(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	_, err := s.db.ExecContext(ctx, "UPDATE employees SET admission_date = '01/09/2025' WHERE id = 'emp-1'")
	require.NoError(t, err)

	_, err = s.GetEmployee(ctx, "emp-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt admission_date")

	// A missing admission date is still allowed
	_, err = s.db.ExecContext(ctx, "UPDATE employees SET admission_date = NULL WHERE id = 'emp-1'")
	require.NoError(t, err)
	emp, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, emp.AdmissionDate.IsZero())
}
