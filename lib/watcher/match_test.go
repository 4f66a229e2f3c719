package watcher

import (
	"testing"

	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustTime(t *testing.T, s string) models.TimeOfDay {
	t.Helper()
	tod, err := models.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestMatches(t *testing.T) {
	saturday := "2025-06-07"
	tuesday := "2025-06-03"

	weekendMorning := func() *models.Alert {
		return &models.Alert{
			DaysOfWeek: models.Weekdays{6, 7},
			TimeFrom:   8 * 60,
			TimeTo:     12 * 60,
		}
	}

	tests := []struct {
		name  string
		alert *models.Alert
		slot  models.Slot
		want  bool
	}{
		{
			name:  "saturday morning indoor slot matches",
			alert: weekendMorning(),
			slot:  models.Slot{Date: mustDate(t, saturday), StartTime: mustTime(t, "09:00"), Indoor: true},
			want:  true,
		},
		{
			name:  "weekday absent from set never matches",
			alert: weekendMorning(),
			slot:  models.Slot{Date: mustDate(t, tuesday), StartTime: mustTime(t, "09:00")},
			want:  false,
		},
		{
			name:  "start equal to time_from matches (inclusive lower bound)",
			alert: weekendMorning(),
			slot:  models.Slot{Date: mustDate(t, saturday), StartTime: mustTime(t, "08:00")},
			want:  true,
		},
		{
			name:  "start equal to time_to never matches (exclusive upper bound)",
			alert: weekendMorning(),
			slot:  models.Slot{Date: mustDate(t, saturday), StartTime: mustTime(t, "12:00")},
			want:  false,
		},
		{
			name:  "start before window",
			alert: weekendMorning(),
			slot:  models.Slot{Date: mustDate(t, saturday), StartTime: mustTime(t, "07:59")},
			want:  false,
		},
		{
			name: "indoor required rejects outdoor",
			alert: func() *models.Alert {
				a := weekendMorning()
				a.IndoorOnly = boolPtr(true)
				return a
			}(),
			slot: models.Slot{Date: mustDate(t, saturday), StartTime: mustTime(t, "09:00"), Indoor: false},
			want: false,
		},
		{
			name: "outdoor required rejects indoor",
			alert: func() *models.Alert {
				a := weekendMorning()
				a.IndoorOnly = boolPtr(false)
				return a
			}(),
			slot: models.Slot{Date: mustDate(t, saturday), StartTime: mustTime(t, "09:00"), Indoor: true},
			want: false,
		},
		{
			name:  "no indoor preference accepts either",
			alert: weekendMorning(),
			slot:  models.Slot{Date: mustDate(t, saturday), StartTime: mustTime(t, "09:00"), Indoor: false},
			want:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.alert, tc.slot))
			// Deterministic: a second call with identical inputs agrees.
			assert.Equal(t, tc.want, Matches(tc.alert, tc.slot))
		})
	}
}
