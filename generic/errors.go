/*
errors.go - Centralized error types for the vacation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The ferias package wraps these with domain context; the api package
  maps them to HTTP statuses.

ERROR CATEGORIES:
  1. Contract errors - missing collaborator data (fatal configuration)
  2. Business errors - rule violations, locked fractions, bad transitions
  3. Store errors - missing records

RULE VIOLATIONS ARE NOT EXCEPTIONS:
  The validation engine returns a Result value for a violated rule. Only
  the Service turns a failed Result into an error (RuleViolationError in
  ferias) so that HTTP callers get a 422 with the rule code.

SEE ALSO:
  - ferias/validation.go: Result and rule codes
  - api/handlers.go: writeServiceError
*/
package generic

import (
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConfigMissing is returned when the engine is called without an
	// AppConfig. This is a programming error, not a rule violation.
	ErrConfigMissing = errors.New("app config not loaded")

	// ErrInvalidInput is returned when required collaborator data is absent
	// (nil employee, nil period) or a request is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRuleViolation is wrapped by every business-rule rejection.
	ErrRuleViolation = errors.New("vacation rule violated")

	// ErrNotFound is the parent of all lookup failures.
	ErrNotFound = errors.New("not found")

	ErrEmployeeNotFound = wrapNotFound("employee not found")
	ErrPeriodNotFound   = wrapNotFound("accrual period not found")
	ErrFractionNotFound = wrapNotFound("fraction not found")
	ErrHolidayNotFound  = wrapNotFound("holiday not found")
	ErrRuleNotFound     = wrapNotFound("collective vacation rule not found")
	ErrOrgUnitNotFound  = wrapNotFound("org unit not found")
	ErrStatusNotFound   = wrapNotFound("status definition not found")

	// ErrOrgCycle is returned when a parent chain in the org tree revisits a unit.
	ErrOrgCycle = errors.New("org unit hierarchy contains a cycle")

	// ErrNotAuthorized is returned when an approver may not act on a period.
	ErrNotAuthorized = errors.New("approver not authorized for this period")

	// ErrInvalidTransition is returned for workflow actions not allowed in the current status.
	ErrInvalidTransition = errors.New("invalid workflow transition")

	// ErrFractionLocked is returned when deleting a fraction that is being or was enjoyed.
	ErrFractionLocked = errors.New("fraction already started and cannot be removed")

	// ErrProtectedStatus is returned when deleting a system status definition.
	ErrProtectedStatus = errors.New("system status cannot be deleted")

	// ErrSelfManager is returned when an employee is set as their own manager.
	ErrSelfManager = errors.New("employee cannot be their own manager")

	// ErrDuplicateID is returned when creating a record whose id already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

func wrapNotFound(msg string) error { return &notFoundError{msg: msg} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input
// or a business rule, as opposed to an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrRuleViolation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrFractionLocked) ||
		errors.Is(err, ErrProtectedStatus) ||
		errors.Is(err, ErrSelfManager) ||
		errors.Is(err, ErrOrgCycle) ||
		errors.Is(err, ErrDuplicateID)
}
