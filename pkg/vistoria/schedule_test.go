package vistoria

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vistoria.app/api/utils"
)

func TestComposeScheduledAt(t *testing.T) {
	now := time.Date(2030, 1, 10, 12, 0, 0, 0, Zone)

	valid := []struct {
		date, tod string
		want      time.Time
	}{
		{"2030-01-11", "10:00", time.Date(2030, 1, 11, 10, 0, 0, 0, Zone)},
		{"2030-01-10", "12:00:01", time.Date(2030, 1, 10, 12, 0, 1, 0, Zone)},
		{" 2030-02-01 ", " 23:59:59 ", time.Date(2030, 2, 1, 23, 59, 59, 0, Zone)},
	}
	for _, tc := range valid {
		got, err := ComposeScheduledAt(tc.date, tc.tod, now)
		require.NoError(t, err, "%s %s", tc.date, tc.tod)
		assert.True(t, tc.want.Equal(got))
	}

	invalid := []struct{ date, tod string }{
		{"", "10:00"},
		{"2030-01-11", ""},
		{"2030-01-11", "24:00"},
		{"2030-01-11", "9:00"},
		{"2030-01-11", "10:60"},
		{"2030-01-11", "10:00:60"},
		{"2030-02-30", "10:00"},
		{"11/01/2030", "10:00"},
		{"2030-01-10", "12:00"},
		{"2030-01-10", "11:59:59"},
		{"2029-12-31", "23:00"},
	}
	for _, tc := range invalid {
		_, err := ComposeScheduledAt(tc.date, tc.tod, now)
		assert.ErrorIs(t, err, utils.ErrInvalidInput, "%q %q", tc.date, tc.tod)
	}
}

func TestComposeScheduledAtIsAnchoredToUTCMinus3(t *testing.T) {
	// 09:30 in UTC-3 is 12:30 UTC
	now := time.Date(2030, 1, 11, 12, 29, 0, 0, time.UTC)
	got, err := ComposeScheduledAt("2030-01-11", "09:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 1, 11, 12, 30, 0, 0, time.UTC), got.UTC())

	now = time.Date(2030, 1, 11, 12, 30, 0, 0, time.UTC)
	_, err = ComposeScheduledAt("2030-01-11", "09:30", now)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
