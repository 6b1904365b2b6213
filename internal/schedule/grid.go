package schedule

import (
	"fmt"
	"time"
)

const (
	DefaultOpenHour    = 8
	DefaultCloseHour   = 18
	DefaultGranularity = 30 * time.Minute
)

// Grid is the fixed sequence of bookable slot labels for one clinic day.
// Labels are "HH:MM" strings at a fixed granularity covering [open:00, close:00).
// A Grid is immutable after construction.
type Grid struct {
	openHour    int
	closeHour   int
	granularity time.Duration
	labels      []string
	positions   map[string]int
}

func NewGrid(openHour, closeHour int, granularity time.Duration) (*Grid, error) {
	if openHour < 0 || openHour > 23 {
		return nil, fmt.Errorf("invalid open hour %d", openHour)
	}
	if closeHour < 1 || closeHour > 24 {
		return nil, fmt.Errorf("invalid close hour %d", closeHour)
	}
	if openHour >= closeHour {
		return nil, fmt.Errorf("open hour %d must be before close hour %d", openHour, closeHour)
	}
	if granularity <= 0 || granularity > time.Hour {
		return nil, fmt.Errorf("invalid slot granularity %v", granularity)
	}
	if time.Hour%granularity != 0 {
		return nil, fmt.Errorf("slot granularity %v must divide one hour evenly", granularity)
	}

	g := &Grid{
		openHour:    openHour,
		closeHour:   closeHour,
		granularity: granularity,
		positions:   make(map[string]int),
	}

	open := time.Duration(openHour) * time.Hour
	close := time.Duration(closeHour) * time.Hour
	for d := open; d < close; d += granularity {
		label := fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
		g.positions[label] = len(g.labels)
		g.labels = append(g.labels, label)
	}
	return g, nil
}

// MustGrid is a construction helper for configurations known to be valid.
func MustGrid(openHour, closeHour int, granularity time.Duration) *Grid {
	g, err := NewGrid(openHour, closeHour, granularity)
	if err != nil {
		panic(err)
	}
	return g
}

// Granularity returns the slot duration.
func (g *Grid) Granularity() time.Duration {
	return g.granularity
}

// Slots returns the ordered slot labels. The caller must not modify the
// returned slice.
func (g *Grid) Slots() []string {
	return g.labels
}

// Position returns the grid index of a label. Slots compare by position,
// not by label string ordering.
func (g *Grid) Position(label string) (int, bool) {
	i, ok := g.positions[label]
	return i, ok
}

// Contains reports whether label is a slot of this grid.
func (g *Grid) Contains(label string) bool {
	_, ok := g.positions[label]
	return ok
}

// TimeAt maps a slot label onto a calendar day, keeping the day's location.
func (g *Grid) TimeAt(day time.Time, label string) (time.Time, error) {
	i, ok := g.positions[label]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown slot %q", label)
	}
	offset := time.Duration(g.openHour)*time.Hour + time.Duration(i)*g.granularity
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(offset), nil
}

// Window returns the half-open time window [start, start+granularity) a slot
// occupies on the given day.
func (g *Grid) Window(day time.Time, label string) (time.Time, time.Time, error) {
	start, err := g.TimeAt(day, label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(g.granularity), nil
}

// Span returns the inclusive contiguous run of labels between positions
// lo and hi (order-independent).
func (g *Grid) Span(a, b string) ([]string, error) {
	i, ok := g.positions[a]
	if !ok {
		return nil, fmt.Errorf("unknown slot %q", a)
	}
	j, ok := g.positions[b]
	if !ok {
		return nil, fmt.Errorf("unknown slot %q", b)
	}
	if i > j {
		i, j = j, i
	}
	span := make([]string, j-i+1)
	copy(span, g.labels[i:j+1])
	return span, nil
}

// SortByPosition returns the labels reordered by grid position. Unknown
// labels are dropped.
func (g *Grid) SortByPosition(labels []string) []string {
	sorted := make([]string, 0, len(labels))
	for _, l := range g.labels {
		for _, in := range labels {
			if in == l {
				sorted = append(sorted, l)
				break
			}
		}
	}
	return sorted
}

// SlotsBetween returns the grid labels whose windows fall inside the
// half-open range [start, end) on start's day. Used to rebuild a selection
// from a stored appointment.
func (g *Grid) SlotsBetween(start, end time.Time) []string {
	var slots []string
	for _, label := range g.labels {
		t, err := g.TimeAt(start, label)
		if err != nil {
			continue
		}
		if !t.Before(start) && t.Before(end) {
			slots = append(slots, label)
		}
	}
	return slots
}
