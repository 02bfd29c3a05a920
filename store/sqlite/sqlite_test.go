package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
	"github.com/warp/ferias-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func d(s string) generic.Date { return generic.MustParseDate(s) }

func strPtr(s string) *string { return &s }

func seedEmployee(t *testing.T, s *sqlite.Store) ferias.Employee {
	t.Helper()
	emp := ferias.Employee{
		ID:             "emp-1",
		Name:           "Ana Souza",
		Email:          "ana@example.com",
		AdmissionDate:  d("2025-09-01"),
		UnitID:         "sp",
		AreaID:         "plataforma",
		DepartmentID:   "backend",
		HierarchyLevel: 1,
		ManagerID:      strPtr("emp-mgr"),
		Role:           ferias.RoleUser,
		Status:         ferias.EmployeeActive,
		Leaves: []ferias.Leave{
			{ID: "leave-1", Range: generic.DateRange{Start: d("2026-02-02"), End: d("2026-02-06")}, Description: "Licença"},
		},
	}
	require.NoError(t, s.SaveEmployee(context.Background(), emp))
	return emp
}

func TestStore_Migrates(t *testing.T) {
	s := newStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStore_EmployeeRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	want := seedEmployee(t, s)

	got, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.AdmissionDate, got.AdmissionDate)
	assert.Equal(t, "emp-mgr", *got.ManagerID)
	assert.Equal(t, want.Leaves, got.Leaves)
	assert.Empty(t, got.Periods)

	// Upsert replaces fields and leaves
	want.Name = "Ana S."
	want.Leaves = nil
	want.ManagerID = nil
	require.NoError(t, s.SaveEmployee(ctx, want))
	got, err = s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana S.", got.Name)
	assert.Empty(t, got.Leaves)
	assert.Nil(t, got.ManagerID)

	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.GetEmployee(ctx, "emp-404")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
}

func TestStore_PeriodWithFractionsAndNotifications(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedEmployee(t, s)
	now := time.Date(2026, time.October, 19, 14, 0, 0, 0, time.UTC)

	p := ferias.NewAccrualPeriod("emp-1", d("2025-09-01"), ferias.DefaultAppConfig())
	p.Status = ferias.WorkflowPendingRH
	p.ManagerApproverID = strPtr("emp-mgr")
	p.Signature = ferias.NewEnvelope("emp-1", now)
	p.Fractions = []ferias.Fraction{{
		ID: "frac-1", Sequence: 1, StartDate: d("2026-11-30"), EndDate: d("2026-12-19"),
		Days: 20, AbonoDays: 10, Advance13th: true, Status: ferias.FractionPlanned,
	}}
	note := ferias.Notification{
		ID: "ntf-1", RecipientID: "emp-1", PeriodID: p.ID,
		Kind: ferias.NotifyManagerApproved, Message: "ok", CreatedAt: now,
	}

	require.NoError(t, s.SavePeriod(ctx, p, note))

	got, err := s.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Fractions, got.Fractions)
	assert.Equal(t, p.ConcessionDeadline, got.ConcessionDeadline)
	assert.Equal(t, ferias.WorkflowPendingRH, got.Status)
	assert.Equal(t, "emp-mgr", *got.ManagerApproverID)
	assert.Nil(t, got.RHApproverID)
	require.NotNil(t, got.Signature)
	require.Len(t, got.Signature.Events, 1)
	assert.True(t, got.Signature.Events[0].At.Equal(now))

	inbox, err := s.ListNotifications(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, ferias.NotifyManagerApproved, inbox[0].Kind)
	assert.True(t, inbox[0].CreatedAt.Equal(now))

	// Saving again replaces the fractions
	p.Fractions = nil
	p.Signature = nil
	require.NoError(t, s.SavePeriod(ctx, p))
	got, err = s.GetPeriod(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Fractions)
	assert.Nil(t, got.Signature)

	emp, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, emp.Periods, 1)

	_, err = s.GetPeriod(ctx, "pa-404")
	assert.ErrorIs(t, err, generic.ErrPeriodNotFound)
}

func TestStore_SavePeriodUnknownEmployee(t *testing.T) {
	s := newStore(t)
	p := ferias.NewAccrualPeriod("emp-ghost", d("2025-09-01"), ferias.DefaultAppConfig())

	err := s.SavePeriod(context.Background(), p)
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
}

func TestStore_Calendar(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveHoliday(ctx, ferias.Holiday{ID: "hol-2", Date: d("2026-12-25"), Name: "Natal", Type: ferias.HolidayFeriado}))
	require.NoError(t, s.SaveHoliday(ctx, ferias.Holiday{ID: "hol-1", Date: d("2026-11-20"), Name: "Consciência Negra", Type: ferias.HolidayFeriado, UnitID: "sp"}))

	holidays, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "hol-1", holidays[0].ID, "ordered by date")
	assert.Equal(t, "sp", holidays[0].UnitID)

	require.NoError(t, s.DeleteHoliday(ctx, "hol-1"))
	assert.ErrorIs(t, s.DeleteHoliday(ctx, "hol-1"), generic.ErrHolidayNotFound)

	// Rules keep declaration order, also across updates
	second := ferias.CollectiveRule{ID: "col-b", Start: d("2026-12-20"), End: d("2027-01-03")}
	first := ferias.CollectiveRule{ID: "col-z", Start: d("2026-07-01"), End: d("2026-07-10"), EmployeeIDs: []string{"emp-1"}}
	require.NoError(t, s.SaveCollectiveRule(ctx, first))
	require.NoError(t, s.SaveCollectiveRule(ctx, second))
	first.Description = "Recesso de julho"
	require.NoError(t, s.SaveCollectiveRule(ctx, first))

	rules, err := s.ListCollectiveRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "col-z", rules[0].ID)
	assert.Equal(t, "Recesso de julho", rules[0].Description)
	assert.Equal(t, []string{"emp-1"}, rules[0].EmployeeIDs)
	assert.Empty(t, rules[1].EmployeeIDs)

	require.NoError(t, s.DeleteCollectiveRule(ctx, "col-b"))
	assert.ErrorIs(t, s.DeleteCollectiveRule(ctx, "col-b"), generic.ErrRuleNotFound)
}

func TestStore_OrgUnits(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveOrgUnit(ctx, ferias.OrgUnit{ID: "empresa", Name: "Empresa"}))
	require.NoError(t, s.SaveOrgUnit(ctx, ferias.OrgUnit{ID: "tecnologia", Name: "Tecnologia", Type: "area", ParentID: strPtr("empresa")}))

	units, err := s.ListOrgUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Nil(t, units[0].ParentID)
	assert.Equal(t, "empresa", *units[1].ParentID)
	assert.Equal(t, "area", units[1].Type)
}

func TestStore_Config(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.GetConfig(ctx)
	assert.ErrorIs(t, err, generic.ErrConfigMissing)

	cfg := ferias.DefaultAppConfig()
	cfg.MaxFracionamentos = 2
	cfg.AntecedenciaMinimaDias = 0
	cutoff := d("2024-01-01")
	cfg.DisplayCutoff = &cutoff
	require.NoError(t, cfg.UpsertStatus(ferias.StatusDefinition{
		ID: "suspended", Label: "Suspensas", Active: true, Category: ferias.CategoryFraction,
	}))
	require.NoError(t, s.SaveConfig(ctx, cfg))

	got, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestStore_Reset(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedEmployee(t, s)
	require.NoError(t, s.SaveConfig(ctx, ferias.DefaultAppConfig()))

	require.NoError(t, s.Reset(ctx))

	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = s.GetConfig(ctx)
	assert.ErrorIs(t, err, generic.ErrConfigMissing)
}
