package generic

import (
	"github.com/google/uuid"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// NewID returns a prefixed random identifier, e.g. "frac-3f1c...".
// The prefix keeps ids readable in logs and notifications.
func NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// IDPrefixes used across the engine.
const (
	PrefixEmployee     = "emp"
	PrefixPeriod       = "pa"
	PrefixFraction     = "frac"
	PrefixHoliday      = "hol"
	PrefixRule         = "col"
	PrefixOrgUnit      = "unit"
	PrefixNotification = "ntf"
	PrefixEnvelope     = "env"
)
