package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateUsesLocalCalendar(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	// 20:00 UTC on the 9th is already the 10th in the resort's zone
	d, err := ParseDate("2025-10-09T20:00:00Z", ist)
	require.NoError(t, err)
	assert.Equal(t, MustParseDate("2025-10-10"), d)

	d, err = ParseDate("2025-10-10", ist)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.October, Day: 10}, d)

	_, err = ParseDate("10/10/2025", ist)
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err = ParseDate("  ", ist)
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestDateKeyIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("resort", 3*60*60)
	morning := time.Date(2025, 11, 1, 0, 5, 0, 0, loc)
	evening := time.Date(2025, 11, 1, 23, 55, 0, 0, loc)

	assert.Equal(t, DateIn(morning, loc), DateIn(evening, loc))
	assert.Equal(t, DateIn(morning, loc).Key(), DateIn(evening, loc).Key())
	assert.Equal(t, "2025-11-01", DateIn(evening, loc).Key())
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(MustParseDate("2025-10-10"))
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-10"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-10-10"`), &d))
	assert.Equal(t, MustParseDate("2025-10-10"), d)

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-10-10", d.String())

	require.NoError(t, d.Scan("2025-12-31T00:00:00Z"))
	assert.Equal(t, "2025-12-31", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", v)
}
