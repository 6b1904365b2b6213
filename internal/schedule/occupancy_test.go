package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

var testDay = time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

func makeAppointment(t *testing.T, grid *Grid, from, to string, status model.AppointmentStatus) *model.Appointment {
	t.Helper()
	start, err := grid.TimeAt(testDay, from)
	require.NoError(t, err)
	end, err := grid.TimeAt(testDay, to)
	require.NoError(t, err)
	return &model.Appointment{
		ID:          uuid.New(),
		PatientID:   uuid.New(),
		PatientName: "Jordan Reyes",
		StartTime:   start,
		EndTime:     end,
		Status:      status,
		CreatedAt:   time.Now(),
	}
}

func TestOccupancyFreeSlot(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	occ := resolver.Occupancy(testDay, "09:00", nil, nil)
	assert.Equal(t, SlotFree, occ.Status)
	assert.Nil(t, occ.Owner)
}

func TestOccupancyReturnsStatusVerbatim(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusPending,
		model.AppointmentStatusConfirmed,
		model.AppointmentStatusCompleted,
	} {
		apt := makeAppointment(t, grid, "09:00", "09:30", status)
		occ := resolver.Occupancy(testDay, "09:00", []*model.Appointment{apt}, nil)
		assert.Equal(t, SlotStatus(status), occ.Status)
		require.NotNil(t, occ.Owner)
		assert.Equal(t, apt.ID, occ.Owner.ID)
	}
}

func TestOccupancySkipsCanceled(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	apt := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusCanceled)
	occ := resolver.Occupancy(testDay, "09:00", []*model.Appointment{apt}, nil)
	assert.Equal(t, SlotFree, occ.Status)
}

func TestOccupancySkipsExcludedAppointment(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	apt := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusConfirmed)
	occ := resolver.Occupancy(testDay, "09:00", []*model.Appointment{apt}, &apt.ID)
	assert.Equal(t, SlotFree, occ.Status, "an appointment being edited must not conflict with itself")
}

func TestOccupancyHalfOpenIntervals(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	apt := makeAppointment(t, grid, "09:00", "10:00", model.AppointmentStatusConfirmed)
	existing := []*model.Appointment{apt}

	// Slots covered by [09:00, 10:00).
	assert.Equal(t, SlotConfirmed, resolver.Occupancy(testDay, "09:00", existing, nil).Status)
	assert.Equal(t, SlotConfirmed, resolver.Occupancy(testDay, "09:30", existing, nil).Status)

	// Adjacent slots share only the boundary instant, which belongs to one side.
	assert.Equal(t, SlotFree, resolver.Occupancy(testDay, "08:30", existing, nil).Status)
	assert.Equal(t, SlotFree, resolver.Occupancy(testDay, "10:00", existing, nil).Status)
}

// A free occupancy report for every slot of a window implies the window is
// truly disjoint from all non-canceled appointments.
func TestOccupancyNoFalseNegatives(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	existing := []*model.Appointment{
		makeAppointment(t, grid, "09:00", "10:00", model.AppointmentStatusConfirmed),
		makeAppointment(t, grid, "14:00", "15:30", model.AppointmentStatusPending),
	}

	for _, from := range grid.Slots() {
		start, end, err := grid.Window(testDay, from)
		require.NoError(t, err)

		if resolver.Occupancy(testDay, from, existing, nil).Status != SlotFree {
			continue
		}
		for _, apt := range existing {
			assert.False(t, apt.Overlaps(start, end),
				"slot %s reported free but overlaps appointment %s", from, apt.ID)
		}
	}
}

func TestRangeFree(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	confirmed := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusConfirmed)
	pending := makeAppointment(t, grid, "11:00", "11:30", model.AppointmentStatusPending)
	existing := []*model.Appointment{confirmed, pending}

	span, err := grid.Span("08:30", "09:30")
	require.NoError(t, err)
	assert.False(t, resolver.RangeFree(span, testDay, existing, nil),
		"span crossing a confirmed slot must be blocked")

	span, err = grid.Span("10:30", "11:30")
	require.NoError(t, err)
	assert.True(t, resolver.RangeFree(span, testDay, existing, nil),
		"pending occupancy does not block a span")
}

func TestPendingConflictsDistinct(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	// One pending appointment spanning two slots must be reported once.
	pending := makeAppointment(t, grid, "10:00", "11:00", model.AppointmentStatusPending)
	span, err := grid.Span("10:00", "11:00")
	require.NoError(t, err)

	conflicts := resolver.PendingConflicts(span, testDay, []*model.Appointment{pending}, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, pending.ID, conflicts[0].ID)
}

func TestDayOccupancyCoversAllSlots(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	resolver := NewResolver(grid)

	apt := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusPending)
	occupancy := resolver.DayOccupancy(testDay, []*model.Appointment{apt}, nil)

	assert.Len(t, occupancy, 20)
	assert.Equal(t, SlotPending, occupancy["09:00"].Status)
	assert.Equal(t, SlotFree, occupancy["08:00"].Status)
}
