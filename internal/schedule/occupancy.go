package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

type SlotStatus string

const (
	SlotFree      SlotStatus = "free"
	SlotPending   SlotStatus = "pending"
	SlotConfirmed SlotStatus = "confirmed"
	SlotCompleted SlotStatus = "completed"
)

// Locked reports whether the slot cannot be selected or crossed. Pending
// occupancy is soft: it can be overwritten after confirmation.
func (s SlotStatus) Locked() bool {
	return s == SlotConfirmed || s == SlotCompleted
}

// Occupancy is the status a slot inherits from an overlapping non-canceled
// appointment. Owner is nil when the slot is free.
type Occupancy struct {
	Status SlotStatus         `json:"status"`
	Owner  *model.Appointment `json:"owner,omitempty"`
}

// Resolver computes per-slot occupancy against a snapshot of existing
// appointments. It holds no state beyond the grid.
type Resolver struct {
	grid *Grid
}

func NewResolver(grid *Grid) *Resolver {
	return &Resolver{grid: grid}
}

// Occupancy resolves one slot on the given day. Canceled appointments are
// skipped, as is the appointment identified by excludeID (so an appointment
// being edited never conflicts with itself). An appointment conflicts when
// its [start, end) intersects the slot's half-open window. The conflicting
// appointment's status is returned verbatim.
func (r *Resolver) Occupancy(day time.Time, slot string, existing []*model.Appointment, excludeID *uuid.UUID) Occupancy {
	slotStart, slotEnd, err := r.grid.Window(day, slot)
	if err != nil {
		return Occupancy{Status: SlotFree}
	}

	for _, apt := range existing {
		if apt.Status == model.AppointmentStatusCanceled {
			continue
		}
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if apt.Overlaps(slotStart, slotEnd) {
			return Occupancy{Status: SlotStatus(apt.Status), Owner: apt}
		}
	}
	return Occupancy{Status: SlotFree}
}

// RangeFree reports whether every slot in the candidate span is selectable.
// Confirmed and completed occupancy block the span; pending occupancy does
// not, those appointments become overwrite candidates at save time.
func (r *Resolver) RangeFree(span []string, day time.Time, existing []*model.Appointment, excludeID *uuid.UUID) bool {
	for _, slot := range span {
		if r.Occupancy(day, slot, existing, excludeID).Status.Locked() {
			return false
		}
	}
	return true
}

// PendingConflicts collects the distinct pending appointments overlapping any
// slot in the span, preserving grid order of first contact.
func (r *Resolver) PendingConflicts(span []string, day time.Time, existing []*model.Appointment, excludeID *uuid.UUID) []*model.Appointment {
	seen := make(map[uuid.UUID]bool)
	var conflicts []*model.Appointment
	for _, slot := range span {
		occ := r.Occupancy(day, slot, existing, excludeID)
		if occ.Status != SlotPending || occ.Owner == nil {
			continue
		}
		if !seen[occ.Owner.ID] {
			seen[occ.Owner.ID] = true
			conflicts = append(conflicts, occ.Owner)
		}
	}
	return conflicts
}

// DayOccupancy resolves every slot of the grid for rendering a day view.
func (r *Resolver) DayOccupancy(day time.Time, existing []*model.Appointment, excludeID *uuid.UUID) map[string]Occupancy {
	out := make(map[string]Occupancy, len(r.grid.Slots()))
	for _, slot := range r.grid.Slots() {
		out[slot] = r.Occupancy(day, slot, existing, excludeID)
	}
	return out
}
