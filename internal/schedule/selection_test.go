package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

func newTestSelector(t *testing.T, existing []*model.Appointment) (*Grid, *Selector) {
	t.Helper()
	grid := MustGrid(8, 18, 30*time.Minute)
	selector := NewSelector(grid, NewResolver(grid))
	selector.Begin(testDay, existing, nil)
	return grid, selector
}

func TestClickOnEmptySelectsSingle(t *testing.T) {
	_, selector := newTestSelector(t, nil)

	assert.Equal(t, ClickSelected, selector.Click("09:00"))
	sel := selector.Selection()
	assert.Equal(t, SelectionSingle, sel.Kind)
	assert.Equal(t, []string{"09:00"}, sel.Slots)
}

func TestClickSameSlotClearsSelection(t *testing.T) {
	_, selector := newTestSelector(t, nil)

	selector.Click("09:00")
	assert.Equal(t, ClickCleared, selector.Click("09:00"))
	assert.Equal(t, SelectionEmpty, selector.Selection().Kind)

	// Idempotent: the same two clicks land in the same place every time.
	selector.Click("09:00")
	assert.Equal(t, ClickCleared, selector.Click("09:00"))
	assert.Equal(t, SelectionEmpty, selector.Selection().Kind)
}

func TestClickInsideRangeClearsWholeSelection(t *testing.T) {
	_, selector := newTestSelector(t, nil)

	selector.Click("09:00")
	selector.Click("10:00")
	require.Equal(t, SelectionRange, selector.Selection().Kind)

	// Re-clicking any selected slot resets everything, not just that slot.
	assert.Equal(t, ClickCleared, selector.Click("09:30"))
	assert.Equal(t, SelectionEmpty, selector.Selection().Kind)
}

func TestClickExtendsToContiguousSpan(t *testing.T) {
	_, selector := newTestSelector(t, nil)

	selector.Click("09:00")
	assert.Equal(t, ClickExtended, selector.Click("10:30"))

	sel := selector.Selection()
	assert.Equal(t, SelectionRange, sel.Kind)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, sel.Slots)
}

func TestClickExtendsBackward(t *testing.T) {
	_, selector := newTestSelector(t, nil)

	selector.Click("10:00")
	assert.Equal(t, ClickExtended, selector.Click("09:00"))
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, selector.Selection().Slots)
}

func TestClickLockedSlotIgnored(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	existing := []*model.Appointment{
		makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusConfirmed),
		makeAppointment(t, grid, "10:00", "10:30", model.AppointmentStatusCompleted),
	}
	_, selector := newTestSelector(t, existing)

	assert.Equal(t, ClickIgnored, selector.Click("09:00"))
	assert.Equal(t, ClickIgnored, selector.Click("10:00"))
	assert.Equal(t, SelectionEmpty, selector.Selection().Kind)
}

func TestClickUnknownSlotIgnored(t *testing.T) {
	_, selector := newTestSelector(t, nil)

	assert.Equal(t, ClickIgnored, selector.Click("07:00"))
	assert.Equal(t, SelectionEmpty, selector.Selection().Kind)
}

// Existing: confirmed 09:00-09:30. Selecting 08:30 then clicking 09:30 would
// sweep the locked 09:00 slot into the span, so the extension is rejected and
// the selection stays at 08:30.
func TestRangeExtensionCannotCrossLockedSlot(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	existing := []*model.Appointment{
		makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusConfirmed),
	}
	_, selector := newTestSelector(t, existing)

	require.Equal(t, ClickSelected, selector.Click("08:30"))
	assert.Equal(t, ClickRejected, selector.Click("09:30"))

	sel := selector.Selection()
	assert.Equal(t, SelectionSingle, sel.Kind)
	assert.Equal(t, []string{"08:30"}, sel.Slots)
}

func TestRangeExtensionMayIncludePendingSlots(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	existing := []*model.Appointment{
		makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusPending),
	}
	_, selector := newTestSelector(t, existing)

	selector.Click("08:30")
	assert.Equal(t, ClickExtended, selector.Click("09:30"))
	assert.Equal(t, []string{"08:30", "09:00", "09:30"}, selector.Selection().Slots)
}

// Property: no sequence of clicks ever yields a range containing a locked slot.
func TestSelectionNeverContainsLockedSlot(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	existing := []*model.Appointment{
		makeAppointment(t, grid, "11:00", "12:00", model.AppointmentStatusConfirmed),
		makeAppointment(t, grid, "15:00", "15:30", model.AppointmentStatusCompleted),
	}
	resolver := NewResolver(grid)
	_, selector := newTestSelector(t, existing)

	clicks := []string{"10:00", "10:30", "12:30", "14:00", "16:00", "09:00", "15:00"}
	for _, slot := range clicks {
		selector.Click(slot)
		for _, sel := range selector.Selection().Slots {
			occ := resolver.Occupancy(testDay, sel, existing, nil)
			assert.False(t, occ.Status.Locked(),
				"selection contains locked slot %s after clicking %s", sel, slot)
		}
	}
}

func TestBeginResetsSelection(t *testing.T) {
	_, selector := newTestSelector(t, nil)

	selector.Click("09:00")
	selector.Begin(testDay.AddDate(0, 0, 1), nil, nil)
	assert.Equal(t, SelectionEmpty, selector.Selection().Kind)
}

func TestRestoreSeedsSelectionFromWindow(t *testing.T) {
	grid, selector := newTestSelector(t, nil)

	start, _ := grid.TimeAt(testDay, "09:00")
	selector.Restore(start, start.Add(time.Hour))

	sel := selector.Selection()
	assert.Equal(t, SelectionRange, sel.Kind)
	assert.Equal(t, []string{"09:00", "09:30"}, sel.Slots)

	selector.Restore(start, start.Add(30*time.Minute))
	assert.Equal(t, SelectionSingle, selector.Selection().Kind)
}

func TestEditingExcludesOwnAppointment(t *testing.T) {
	grid := MustGrid(8, 18, 30*time.Minute)
	mine := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusConfirmed)

	selector := NewSelector(grid, NewResolver(grid))
	selector.Begin(testDay, []*model.Appointment{mine}, &mine.ID)

	assert.Equal(t, ClickSelected, selector.Click("09:00"),
		"own slots stay selectable while editing")
}
