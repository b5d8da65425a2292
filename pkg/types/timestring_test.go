package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid morning", input: "08:00"},
		{name: "valid midnight", input: "00:00"},
		{name: "valid last minute", input: "23:59"},
		{name: "missing colon", input: "0800", wantErr: true},
		{name: "single digit hour", input: "8:00", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "garbage", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("18:30")

	minutes, err := ts.Minutes()

	require.NoError(t, err)
	assert.Equal(t, 18*60+30, minutes)
}

func TestTimeString_IsBefore(t *testing.T) {
	assert.True(t, TimeString("08:00").IsBefore(TimeString("09:00")))
	assert.False(t, TimeString("09:00").IsBefore(TimeString("08:00")))
	assert.False(t, TimeString("09:00").IsBefore(TimeString("09:00")))
	assert.False(t, TimeString("bad").IsBefore(TimeString("09:00")))
}

func TestTimeString_AddMinutes(t *testing.T) {
	t.Run("within the day", func(t *testing.T) {
		ts, err := TimeString("10:15").AddMinutes(90)

		require.NoError(t, err)
		assert.Equal(t, TimeString("11:45"), ts)
	})

	t.Run("exactly to end of day", func(t *testing.T) {
		ts, err := TimeString("23:00").AddMinutes(60)

		require.NoError(t, err)
		assert.Equal(t, TimeString("24:00"), ts)
	})

	t.Run("past midnight is an error", func(t *testing.T) {
		_, err := TimeString("23:30").AddMinutes(60)

		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})

	t.Run("negative result is an error", func(t *testing.T) {
		_, err := TimeString("00:30").AddMinutes(-60)

		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}

func TestTimeString_ToDateTime(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	resolved, err := TimeString("18:00").ToDateTime(date)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC), resolved)
}
