package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(ts time.Time) Reading {
	return Reading{Datetime: ts}
}

func TestParseTimeWindow(t *testing.T) {
	t.Run("both absent means no filtering", func(t *testing.T) {
		w, err := ParseTimeWindow("", "")
		require.NoError(t, err)
		assert.True(t, w.IsZero())
	})

	t.Run("date-only end widens to end of day", func(t *testing.T) {
		w, err := ParseTimeWindow("2024-01-02", "2024-01-02")
		require.NoError(t, err)

		require.NotNil(t, w.Start)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *w.Start)
		require.NotNil(t, w.End)
		assert.Equal(t, time.Date(2024, 1, 2, 23, 59, 59, 999999999, time.UTC), *w.End)
	})

	t.Run("datetime end used as-is", func(t *testing.T) {
		w, err := ParseTimeWindow("", "2024-01-02T12:00:00Z")
		require.NoError(t, err)
		require.NotNil(t, w.End)
		assert.Equal(t, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), *w.End)
	})

	t.Run("invalid start", func(t *testing.T) {
		_, err := ParseTimeWindow("soon", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "startDate")
	})

	t.Run("invalid end", func(t *testing.T) {
		_, err := ParseTimeWindow("", "2024-13-45")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "endDate")
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := ParseTimeWindow("2024-01-10", "2024-01-02")
		assert.Error(t, err)
	})
}

func TestTimeWindow_Contains(t *testing.T) {
	w, err := ParseTimeWindow("2024-01-02", "2024-01-02")
	require.NoError(t, err)

	t.Run("single-day filter keeps the whole day", func(t *testing.T) {
		assert.True(t, w.Contains(reading(time.Date(2024, 1, 2, 23, 58, 0, 0, time.UTC))))
	})

	t.Run("start of day included", func(t *testing.T) {
		assert.True(t, w.Contains(reading(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))))
	})

	t.Run("day before excluded", func(t *testing.T) {
		assert.False(t, w.Contains(reading(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC))))
	})

	t.Run("next midnight excluded", func(t *testing.T) {
		assert.False(t, w.Contains(reading(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))))
	})

	t.Run("inferred datetime always retained", func(t *testing.T) {
		r := Reading{Datetime: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), DatetimeInferred: true}
		assert.True(t, w.Contains(r))
	})

	t.Run("zero window retains everything", func(t *testing.T) {
		var zero TimeWindow
		assert.True(t, zero.Contains(reading(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))))
	})

	t.Run("start-only window", func(t *testing.T) {
		onlyStart, err := ParseTimeWindow("2024-01-02", "")
		require.NoError(t, err)
		assert.True(t, onlyStart.Contains(reading(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))))
		assert.False(t, onlyStart.Contains(reading(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))))
	})
}
