package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "09:00", want: 9 * 60},
		{input: "09:30:00", want: 9*60 + 30},
		{input: "00:00", want: 0},
		{input: "23:59", want: 23*60 + 59},
		{input: "9am", wantErr: true},
		{input: "25:00", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	tod, err := ParseTimeOfDay("08:05")
	require.NoError(t, err)
	assert.Equal(t, "08:05", tod.String())
}

func TestDateWeekday(t *testing.T) {
	// 2025-06-02 is a Monday, 2025-06-08 a Sunday.
	monday, err := ParseDate("2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, 1, monday.Weekday())

	sunday := monday.AddDays(6)
	assert.Equal(t, 7, sunday.Weekday())
	assert.Equal(t, "2025-06-08", sunday.String())
}

func TestDateAddDaysAcrossMonth(t *testing.T) {
	d, err := ParseDate("2025-01-30")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-02", d.AddDays(3).String())
}

func TestDateScanRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-06-07")
	require.NoError(t, err)

	v, err := d.Value()
	require.NoError(t, err)

	var scanned Date
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, d, scanned)
}

func TestWeekdaysValidate(t *testing.T) {
	assert.Error(t, Weekdays{}.Validate())
	assert.Error(t, Weekdays{0}.Validate())
	assert.Error(t, Weekdays{8}.Validate())
	assert.NoError(t, Weekdays{1, 7}.Validate())
}

func TestWeekdaysNormalized(t *testing.T) {
	assert.Equal(t, Weekdays{1, 3, 6}, Weekdays{6, 3, 1, 3}.Normalized())
}

func TestWeekdaysScanRoundTrip(t *testing.T) {
	w := Weekdays{6, 7}
	v, err := w.Value()
	require.NoError(t, err)
	assert.Equal(t, "6,7", v)

	var scanned Weekdays
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, w, scanned)
	assert.True(t, scanned.Contains(6))
	assert.False(t, scanned.Contains(5))
}
