package generic_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// DATE TESTS
// =============================================================================

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := generic.ParseDate("2027-03-01")
	require.NoError(t, err)

	assert.Equal(t, 2027, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2027-03-01", d.String())
	assert.Equal(t, "01/03/2027", d.Format())
}

func TestDate_ParseInvalid(t *testing.T) {
	_, err := generic.ParseDate("01/03/2027")
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestDate_ZeroValue(t *testing.T) {
	var d generic.Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
	assert.Equal(t, "", d.Format())
}

func TestDate_Arithmetic(t *testing.T) {
	// GIVEN: 2027-12-23 (Thursday)
	// WHEN: Adding days across the year boundary
	// THEN: Calendar normalizes like time.Date
	d := generic.MustParseDate("2027-12-23")

	assert.Equal(t, "2028-01-03", d.AddDays(11).String())
	assert.Equal(t, "2027-12-13", d.AddDays(-10).String())
	assert.Equal(t, "2028-12-23", d.AddMonths(12).String())
	assert.Equal(t, "2026-12-23", d.AddYears(-1).String())
	assert.Equal(t, 11, d.DaysUntil(d.AddDays(11)))
	assert.Equal(t, -3, d.DaysUntil(d.AddDays(-3)))
}

func TestDate_DaysUntilAcrossDST(t *testing.T) {
	// Noon anchoring keeps day counts exact whatever the host zone does.
	a := generic.MustParseDate("2027-03-01")
	b := generic.MustParseDate("2027-11-01")
	assert.Equal(t, 245, a.DaysUntil(b))
}

func TestDate_Comparisons(t *testing.T) {
	a := generic.MustParseDate("2027-01-04")
	b := generic.MustParseDate("2027-01-05")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, b.AfterOrEqual(a))
	assert.True(t, a.Equal(generic.NewDate(2027, time.January, 4)))
	assert.Equal(t, -1, a.Compare(b))
}

func TestDate_DateOfUsesLocalCalendarDay(t *testing.T) {
	// 23:30 in São Paulo is already the next day in UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	tm := time.Date(2027, time.February, 5, 23, 30, 0, 0, loc)

	assert.Equal(t, "2027-02-05", generic.DateOf(tm).String())
	assert.Equal(t, "2027-02-06", generic.DateOf(tm.UTC()).String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start generic.Date `json:"start"`
	}

	b, err := json.Marshal(payload{Start: generic.MustParseDate("2027-02-05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2027-02-05"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2026-12-04"}`), &p))
	assert.Equal(t, time.Friday, p.Start.Weekday())

	require.NoError(t, json.Unmarshal([]byte(`{"start":""}`), &p))
	assert.True(t, p.Start.IsZero())
}

func TestFixedClock(t *testing.T) {
	clock := generic.FixedClock{Date: generic.MustParseDate("2026-10-19")}
	assert.Equal(t, "2026-10-19", clock.Today().String())
}

func TestNewID_Prefix(t *testing.T) {
	id := generic.NewID(generic.PrefixFraction)
	assert.Regexp(t, `^frac-[0-9a-f-]{36}$`, id)
	assert.NotEqual(t, id, generic.NewID(generic.PrefixFraction))
}
