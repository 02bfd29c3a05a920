/*
store.go - Persistence boundary of the vacation engine

PURPOSE:
  The rules never touch storage. Service loads what a call needs through
  the Repository, runs the pure functions, and writes the result back.
  Implementations decide how rows are laid out; they only have to keep
  the field set and return copies, never shared slices.

KEY INTERFACES:
  EmployeeStore:     employees with their periods and leaves
  PeriodStore:       accrual periods with their fractions
  CalendarStore:     holidays and collective rules
  OrgStore:          org units
  ConfigStore:       the single AppConfig document
  NotificationStore: produced notifications, by recipient
  Repository:        all of the above

ATOMIC WRITES:
  SavePeriod writes the period, its fractions and any notifications in one
  go. An approval either lands with its notifications or not at all.
  Concurrent writers to the same period are last-writer-wins.

IMPLEMENTATIONS:
  - ferias/store/memory.go: in-memory, for tests and demos
  - store/sqlite/sqlite.go: SQLite with goose migrations
*/
package ferias

import "context"

// =============================================================================
// STORES
// =============================================================================

type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]Employee, error)

	// GetEmployee returns the employee with periods and leaves loaded.
	GetEmployee(ctx context.Context, id string) (*Employee, error)

	// SaveEmployee upserts identity and placement. Periods are saved
	// through PeriodStore.
	SaveEmployee(ctx context.Context, emp Employee) error
}

type PeriodStore interface {
	GetPeriod(ctx context.Context, id string) (*AccrualPeriod, error)
	ListPeriods(ctx context.Context, employeeID string) ([]AccrualPeriod, error)

	// SavePeriod upserts the period, replaces its fractions and appends
	// notes, atomically.
	SavePeriod(ctx context.Context, p AccrualPeriod, notes ...Notification) error
}

type CalendarStore interface {
	ListHolidays(ctx context.Context) ([]Holiday, error)
	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id string) error

	// ListCollectiveRules returns rules in declaration order.
	ListCollectiveRules(ctx context.Context) ([]CollectiveRule, error)
	SaveCollectiveRule(ctx context.Context, r CollectiveRule) error
	DeleteCollectiveRule(ctx context.Context, id string) error
}

type OrgStore interface {
	ListOrgUnits(ctx context.Context) ([]OrgUnit, error)
	SaveOrgUnit(ctx context.Context, u OrgUnit) error
}

type ConfigStore interface {
	// GetConfig returns generic.ErrConfigMissing until a config is saved.
	GetConfig(ctx context.Context) (*AppConfig, error)
	SaveConfig(ctx context.Context, cfg *AppConfig) error
}

type NotificationStore interface {
	ListNotifications(ctx context.Context, recipientID string) ([]Notification, error)
}

// Repository is everything the Service needs.
type Repository interface {
	EmployeeStore
	PeriodStore
	CalendarStore
	OrgStore
	ConfigStore
	NotificationStore

	// Reset drops all data. Used by demo scenarios.
	Reset(ctx context.Context) error
}
