package ferias

import (
	"slices"

	"github.com/warp/ferias-engine/generic"
)

// FindApplicableRule returns the first rule, in declaration order, that is
// still in effect on today and whose filters all match the employee.
// Empty filters are wildcards.
func FindApplicableRule(emp *Employee, rules []CollectiveRule, today generic.Date) (*CollectiveRule, bool) {
	if emp == nil {
		return nil, false
	}
	for i := range rules {
		r := &rules[i]
		if r.End.Before(today) {
			continue
		}
		if ruleMatches(r, emp) {
			return r, true
		}
	}
	return nil, false
}

func ruleMatches(r *CollectiveRule, emp *Employee) bool {
	if r.UnitID != "" && r.UnitID != emp.UnitID {
		return false
	}
	if r.AreaID != "" && r.AreaID != emp.AreaID {
		return false
	}
	if r.DepartmentID != "" && r.DepartmentID != emp.DepartmentID {
		return false
	}
	if len(r.EmployeeIDs) > 0 && !slices.Contains(r.EmployeeIDs, emp.ID) {
		return false
	}
	return true
}
