package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeRangeFromLabel(t *testing.T) {
	t.Run("valid label", func(t *testing.T) {
		r, err := NewTimeRangeFromLabel("18:00-20:00")

		require.NoError(t, err)
		assert.Equal(t, TimeString("18:00"), r.Start)
		assert.Equal(t, TimeString("20:00"), r.End)
	})

	t.Run("label round trip", func(t *testing.T) {
		r, err := NewTimeRangeFromLabel("09:30-11:00")

		require.NoError(t, err)
		assert.Equal(t, "09:30-11:00", r.Label())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewTimeRangeFromLabel("20:00-18:00")

		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})

	t.Run("zero length slot", func(t *testing.T) {
		_, err := NewTimeRangeFromLabel("18:00-18:00")

		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})

	t.Run("missing dash", func(t *testing.T) {
		_, err := NewTimeRangeFromLabel("18:00 20:00")

		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}

func TestTimeRange_DurationMinutes(t *testing.T) {
	r, err := NewTimeRangeFromLabel("10:15-12:45")

	require.NoError(t, err)
	assert.Equal(t, 150, r.DurationMinutes())
}

func TestTimeRange_Resolve(t *testing.T) {
	r, err := NewTimeRangeFromLabel("18:00-20:00")
	require.NoError(t, err)

	date := time.Date(2026, 9, 14, 13, 37, 0, 0, time.UTC)

	start, end, err := r.Resolve(date)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 14, 20, 0, 0, 0, time.UTC), end)
}
