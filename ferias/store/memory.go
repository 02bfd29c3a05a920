// Package store provides an in-memory ferias.Repository.
package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	employees     map[string]ferias.Employee // without periods
	employeeOrder []string
	periods       map[string]ferias.AccrualPeriod
	holidays      []ferias.Holiday
	rules         []ferias.CollectiveRule
	units         []ferias.OrgUnit
	config        *ferias.AppConfig
	notifications []ferias.Notification
}

var _ ferias.Repository = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.employees = make(map[string]ferias.Employee)
	m.employeeOrder = nil
	m.periods = make(map[string]ferias.AccrualPeriod)
	m.holidays = nil
	m.rules = nil
	m.units = nil
	m.config = nil
	m.notifications = nil
}

// Reset drops everything, including the config.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) ListEmployees(_ context.Context) ([]ferias.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ferias.Employee, 0, len(m.employeeOrder))
	for _, id := range m.employeeOrder {
		out = append(out, m.hydrateLocked(m.employees[id]))
	}
	return out, nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (*ferias.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return nil, generic.ErrEmployeeNotFound
	}
	out := m.hydrateLocked(emp)
	return &out, nil
}

func (m *Memory) SaveEmployee(_ context.Context, emp ferias.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[emp.ID]; !ok {
		m.employeeOrder = append(m.employeeOrder, emp.ID)
	}
	emp.Periods = nil
	emp.Leaves = slices.Clone(emp.Leaves)
	m.employees[emp.ID] = emp
	return nil
}

// hydrateLocked attaches the employee's periods, oldest first.
func (m *Memory) hydrateLocked(emp ferias.Employee) ferias.Employee {
	emp.Leaves = slices.Clone(emp.Leaves)
	emp.Periods = m.periodsOfLocked(emp.ID)
	return emp
}

func (m *Memory) periodsOfLocked(employeeID string) []ferias.AccrualPeriod {
	var out []ferias.AccrualPeriod
	for _, p := range m.periods {
		if p.EmployeeID == employeeID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// =============================================================================
// PERIODS
// =============================================================================

func (m *Memory) GetPeriod(_ context.Context, id string) (*ferias.AccrualPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.periods[id]
	if !ok {
		return nil, generic.ErrPeriodNotFound
	}
	out := p.Clone()
	return &out, nil
}

func (m *Memory) ListPeriods(_ context.Context, employeeID string) ([]ferias.AccrualPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.periodsOfLocked(employeeID), nil
}

func (m *Memory) SavePeriod(_ context.Context, p ferias.AccrualPeriod, notes ...ferias.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[p.EmployeeID]; !ok {
		return generic.ErrEmployeeNotFound
	}
	m.periods[p.ID] = p.Clone()
	m.notifications = append(m.notifications, notes...)
	return nil
}

// =============================================================================
// CALENDAR
// =============================================================================

func (m *Memory) ListHolidays(_ context.Context) ([]ferias.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.holidays), nil
}

func (m *Memory) SaveHoliday(_ context.Context, h ferias.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays = upsert(m.holidays, h, func(x ferias.Holiday) bool { return x.ID == h.ID })
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.holidays)
	m.holidays = slices.DeleteFunc(m.holidays, func(x ferias.Holiday) bool { return x.ID == id })
	if len(m.holidays) == n {
		return generic.ErrHolidayNotFound
	}
	return nil
}

func (m *Memory) ListCollectiveRules(_ context.Context) ([]ferias.CollectiveRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ferias.CollectiveRule, len(m.rules))
	for i, r := range m.rules {
		r.EmployeeIDs = slices.Clone(r.EmployeeIDs)
		out[i] = r
	}
	return out, nil
}

func (m *Memory) SaveCollectiveRule(_ context.Context, r ferias.CollectiveRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.EmployeeIDs = slices.Clone(r.EmployeeIDs)
	m.rules = upsert(m.rules, r, func(x ferias.CollectiveRule) bool { return x.ID == r.ID })
	return nil
}

func (m *Memory) DeleteCollectiveRule(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.rules)
	m.rules = slices.DeleteFunc(m.rules, func(x ferias.CollectiveRule) bool { return x.ID == id })
	if len(m.rules) == n {
		return generic.ErrRuleNotFound
	}
	return nil
}

// =============================================================================
// ORG UNITS
// =============================================================================

func (m *Memory) ListOrgUnits(_ context.Context) ([]ferias.OrgUnit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.units), nil
}

func (m *Memory) SaveOrgUnit(_ context.Context, u ferias.OrgUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units = upsert(m.units, u, func(x ferias.OrgUnit) bool { return x.ID == u.ID })
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

func (m *Memory) GetConfig(_ context.Context) (*ferias.AppConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return nil, generic.ErrConfigMissing
	}
	return cloneConfig(m.config), nil
}

func (m *Memory) SaveConfig(_ context.Context, cfg *ferias.AppConfig) error {
	if cfg == nil {
		return generic.ErrConfigMissing
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cloneConfig(cfg)
	return nil
}

func cloneConfig(cfg *ferias.AppConfig) *ferias.AppConfig {
	out := *cfg
	out.DayOptions = slices.Clone(cfg.DayOptions)
	out.Statuses = slices.Clone(cfg.Statuses)
	if cfg.DisplayCutoff != nil {
		d := *cfg.DisplayCutoff
		out.DisplayCutoff = &d
	}
	return &out
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func (m *Memory) ListNotifications(_ context.Context, recipientID string) ([]ferias.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ferias.Notification
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func upsert[T any](items []T, item T, match func(T) bool) []T {
	if i := slices.IndexFunc(items, match); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}
