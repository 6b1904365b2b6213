package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridDefaultDay(t *testing.T) {
	grid, err := NewGrid(8, 18, 30*time.Minute)
	require.NoError(t, err)

	slots := grid.Slots()
	assert.Len(t, slots, 20)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "17:30", slots[len(slots)-1])

	for i := 1; i < len(slots); i++ {
		prev, _ := grid.Position(slots[i-1])
		cur, _ := grid.Position(slots[i])
		assert.Equal(t, prev+1, cur, "labels must be strictly increasing by position")
	}
}

func TestNewGridRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name        string
		open, close int
		granularity time.Duration
	}{
		{"negative open", -1, 18, 30 * time.Minute},
		{"open after close", 18, 8, 30 * time.Minute},
		{"open equals close", 10, 10, 30 * time.Minute},
		{"zero granularity", 8, 18, 0},
		{"granularity over an hour", 8, 18, 90 * time.Minute},
		{"granularity not dividing the hour", 8, 18, 25 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.open, tt.close, tt.granularity)
			assert.Error(t, err)
		})
	}
}

func TestGridTimeAt(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

	start, err := grid.TimeAt(day, "09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local), start)

	_, err = grid.TimeAt(day, "07:00")
	assert.Error(t, err, "labels outside opening hours are unknown")

	_, err = grid.TimeAt(day, "09:15")
	assert.Error(t, err, "labels off the granularity boundary are unknown")
}

func TestGridWindow(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

	start, end, err := grid.Window(day, "17:30")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, end.Sub(start))
	assert.Equal(t, 17, start.Hour())
	assert.Equal(t, 30, start.Minute())
}

func TestGridSpan(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)

	span, err := grid.Span("09:00", "10:30")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, span)

	// Order-independent.
	reversed, err := grid.Span("10:30", "09:00")
	require.NoError(t, err)
	assert.Equal(t, span, reversed)

	single, err := grid.Span("08:00", "08:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00"}, single)
}

func TestGridSortByPosition(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)

	sorted := grid.SortByPosition([]string{"10:00", "08:30", "09:30"})
	assert.Equal(t, []string{"08:30", "09:30", "10:00"}, sorted)

	// Unknown labels are dropped.
	assert.Equal(t, []string{"08:00"}, grid.SortByPosition([]string{"08:00", "23:00"}))
}

func TestGridSlotsBetween(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

	start, _ := grid.TimeAt(day, "09:00")
	end := start.Add(time.Hour)
	assert.Equal(t, []string{"09:00", "09:30"}, grid.SlotsBetween(start, end))
}

func TestGridHourlyGranularity(t *testing.T) {
	grid, err := NewGrid(9, 12, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, grid.Slots())
}
