package ferias_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/ferias"
)

func TestFindApplicableRule(t *testing.T) {
	emp := newEmployee()
	emp.DepartmentID = "backend"

	expired := ferias.CollectiveRule{ID: "old", Start: date("2025-12-22"), End: date("2026-01-02")}
	otherUnit := ferias.CollectiveRule{ID: "rj", Start: date("2026-12-23"), End: date("2027-01-03"), UnitID: "rj"}
	byDept := ferias.CollectiveRule{ID: "dept", Start: date("2026-12-23"), End: date("2027-01-03"), UnitID: "sp", DepartmentID: "backend"}
	wildcard := ferias.CollectiveRule{ID: "all", Start: date("2026-12-20"), End: date("2027-01-05")}

	tests := []struct {
		name   string
		rules  []ferias.CollectiveRule
		wantID string
	}{
		{"no rules", nil, ""},
		{"expired rule skipped", []ferias.CollectiveRule{expired}, ""},
		{"filter mismatch skipped", []ferias.CollectiveRule{otherUnit}, ""},
		{"all filters match", []ferias.CollectiveRule{otherUnit, byDept}, "dept"},
		{"first match wins", []ferias.CollectiveRule{expired, wildcard, byDept}, "all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := ferias.FindApplicableRule(emp, tt.rules, today)
			if tt.wantID == "" {
				assert.False(t, ok)
				assert.Nil(t, rule)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantID, rule.ID)
		})
	}
}

func TestFindApplicableRule_EmployeeList(t *testing.T) {
	rule := ferias.CollectiveRule{
		ID:          "named",
		Start:       date("2026-12-23"),
		End:         date("2027-01-03"),
		EmployeeIDs: []string{"emp-9", "emp-1"},
	}
	emp := newEmployee()

	_, ok := ferias.FindApplicableRule(emp, []ferias.CollectiveRule{rule}, today)
	assert.True(t, ok)

	emp.ID = "emp-2"
	_, ok = ferias.FindApplicableRule(emp, []ferias.CollectiveRule{rule}, today)
	assert.False(t, ok)
}

func TestFindApplicableRule_EndingToday(t *testing.T) {
	rule := ferias.CollectiveRule{ID: "r", Start: date("2026-10-01"), End: today}
	_, ok := ferias.FindApplicableRule(newEmployee(), []ferias.CollectiveRule{rule}, today)
	assert.True(t, ok, "a rule ending today is still in effect")
}
