package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

type SelectionKind int

const (
	SelectionEmpty SelectionKind = iota
	SelectionSingle
	SelectionRange
)

// Selection is the in-progress slot selection for one booking action.
// Slots are always contiguous and ordered by grid position.
type Selection struct {
	Kind  SelectionKind
	Slots []string
}

func (s Selection) Contains(slot string) bool {
	for _, sel := range s.Slots {
		if sel == slot {
			return true
		}
	}
	return false
}

type ClickOutcome int

const (
	// ClickIgnored means the slot is locked by a confirmed or completed
	// appointment and the click was a no-op.
	ClickIgnored ClickOutcome = iota
	// ClickCleared means an already-selected slot was clicked again and the
	// whole selection reset to empty.
	ClickCleared
	// ClickSelected means the slot became the single selected slot.
	ClickSelected
	// ClickExtended means the selection grew to the contiguous span between
	// the previous selection and the clicked slot.
	ClickExtended
	// ClickRejected means the candidate span crossed a locked slot and the
	// selection was left unchanged.
	ClickRejected
)

// Selector tracks a user's slot selection for one booking form session.
// It transitions on Click and resets unconditionally on date change or
// form reset. Not safe for concurrent use; one Selector per session.
type Selector struct {
	grid     *Grid
	resolver *Resolver

	day      time.Time
	existing []*model.Appointment
	exclude  *uuid.UUID

	current Selection
}

func NewSelector(grid *Grid, resolver *Resolver) *Selector {
	return &Selector{grid: grid, resolver: resolver}
}

// Begin binds the selector to a day and appointment snapshot, clearing any
// previous selection. excludeID identifies the appointment being edited,
// if any.
func (s *Selector) Begin(day time.Time, existing []*model.Appointment, excludeID *uuid.UUID) {
	s.day = day
	s.existing = existing
	s.exclude = excludeID
	s.Reset()
}

// Reset returns the selection to empty. Called on date change, submit and
// form close.
func (s *Selector) Reset() {
	s.current = Selection{Kind: SelectionEmpty}
}

// Selection returns the current selection.
func (s *Selector) Selection() Selection {
	return s.current
}

// Restore seeds the selection from an existing appointment's window so the
// edit form opens with its slots highlighted.
func (s *Selector) Restore(start, end time.Time) {
	slots := s.grid.SlotsBetween(start, end)
	switch len(slots) {
	case 0:
		s.current = Selection{Kind: SelectionEmpty}
	case 1:
		s.current = Selection{Kind: SelectionSingle, Slots: slots}
	default:
		s.current = Selection{Kind: SelectionRange, Slots: slots}
	}
}

// Click applies one slot click and returns the outcome. A click on a locked
// slot is ignored; a click on a selected slot clears the whole selection;
// otherwise the selection becomes either the single clicked slot or the
// contiguous span from the current selection to the clicked slot, provided
// the span does not cross a confirmed or completed slot.
func (s *Selector) Click(slot string) ClickOutcome {
	if !s.grid.Contains(slot) {
		return ClickIgnored
	}
	if s.resolver.Occupancy(s.day, slot, s.existing, s.exclude).Status.Locked() {
		return ClickIgnored
	}
	if s.current.Contains(slot) {
		s.Reset()
		return ClickCleared
	}

	if s.current.Kind == SelectionEmpty {
		s.current = Selection{Kind: SelectionSingle, Slots: []string{slot}}
		return ClickSelected
	}

	first := s.current.Slots[0]
	last := s.current.Slots[len(s.current.Slots)-1]
	span := s.candidateSpan(first, last, slot)
	if !s.resolver.RangeFree(span, s.day, s.existing, s.exclude) {
		return ClickRejected
	}

	s.current = Selection{Kind: SelectionRange, Slots: span}
	return ClickExtended
}

// candidateSpan covers the inclusive min..max grid positions across the
// current selection endpoints and the clicked slot.
func (s *Selector) candidateSpan(first, last, clicked string) []string {
	fi, _ := s.grid.Position(first)
	li, _ := s.grid.Position(last)
	ci, _ := s.grid.Position(clicked)

	lo, hi := fi, li
	if ci < lo {
		lo = ci
	}
	if ci > hi {
		hi = ci
	}
	span, _ := s.grid.Span(s.grid.Slots()[lo], s.grid.Slots()[hi])
	return span
}
