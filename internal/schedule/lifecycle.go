package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentCompleted = errors.New("completed appointments are read-only")
	ErrAlreadyCanceled      = errors.New("appointment is already canceled")
	ErrNotCanceled          = errors.New("appointment is not canceled")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// Gateway is the persistence contract the scheduling core depends on. Each
// mutation returns the full refreshed appointment snapshot; the core never
// keeps a long-lived copy.
type Gateway interface {
	List(ctx context.Context) ([]*model.Appointment, error)
	// Save applies the cancelIDs status flips first, then upserts appt
	// (create when appt.ID is nil-valued, update otherwise), as one
	// logical operation.
	Save(ctx context.Context, appt *model.Appointment, cancelIDs []uuid.UUID) ([]*model.Appointment, error)
	// Restore flips one canceled appointment back to pending.
	Restore(ctx context.Context, id uuid.UUID) ([]*model.Appointment, error)
}

// SaveForm is the validated input assembled by the booking form.
type SaveForm struct {
	ID          *uuid.UUID
	PatientID   uuid.UUID
	PatientName string
	Day         time.Time
	Slots       []string
	Status      model.AppointmentStatus
	Observation string
}

type SaveOutcome int

const (
	// SaveInvalid means required input is missing; nothing was mutated.
	SaveInvalid SaveOutcome = iota
	// SaveRequiresConfirmation means the selection overlaps pending
	// appointments; the caller must confirm before CommitSave cancels them.
	SaveRequiresConfirmation
	// SaveReady means the payload can be committed as-is.
	SaveReady
)

type SaveResult struct {
	Outcome               SaveOutcome
	Reason                string
	Appointment           *model.Appointment
	ConflictingPendingIDs []uuid.UUID
}

type RestoreOutcome int

const (
	RestoreDone RestoreOutcome = iota
	// RestoreRejected means the freed window has been taken; the
	// appointment stays canceled and Blocking names the occupant.
	RestoreRejected
)

type RestoreResult struct {
	Outcome      RestoreOutcome
	Blocking     *model.Appointment
	Appointments []*model.Appointment
}

// Lifecycle owns appointment status transitions and the save/cancel/restore
// flows. All expected conditions are reported as outcome values; only
// gateway failures surface as errors.
type Lifecycle struct {
	grid     *Grid
	resolver *Resolver
	gateway  Gateway
}

func NewLifecycle(grid *Grid, resolver *Resolver, gateway Gateway) *Lifecycle {
	return &Lifecycle{grid: grid, resolver: resolver, gateway: gateway}
}

// PrepareSave validates the form against the existing snapshot and either
// produces a commit-ready payload or the set of pending appointment ids
// that must be confirmed for overwrite. It mutates nothing.
func (l *Lifecycle) PrepareSave(form SaveForm, existing []*model.Appointment) SaveResult {
	if form.Day.IsZero() {
		return SaveResult{Outcome: SaveInvalid, Reason: "a date must be selected"}
	}
	if len(form.Slots) == 0 {
		return SaveResult{Outcome: SaveInvalid, Reason: "at least one time slot must be selected"}
	}
	if form.PatientID == uuid.Nil {
		return SaveResult{Outcome: SaveInvalid, Reason: "a patient must be selected"}
	}

	status := form.Status
	if status == "" {
		status = model.AppointmentStatusPending
	}
	if !status.Valid() || status == model.AppointmentStatusCanceled {
		return SaveResult{Outcome: SaveInvalid, Reason: fmt.Sprintf("invalid appointment status %q", status)}
	}

	sorted := l.grid.SortByPosition(form.Slots)
	if len(sorted) != len(form.Slots) {
		return SaveResult{Outcome: SaveInvalid, Reason: "selection contains unknown time slots"}
	}

	// The appointment occupies the whole window between the first and last
	// slot, so the conflict scan must cover every slot in that span, not
	// just the ones listed in the form.
	span, err := l.grid.Span(sorted[0], sorted[len(sorted)-1])
	if err != nil {
		return SaveResult{Outcome: SaveInvalid, Reason: err.Error()}
	}

	start, err := l.grid.TimeAt(form.Day, sorted[0])
	if err != nil {
		return SaveResult{Outcome: SaveInvalid, Reason: err.Error()}
	}
	lastStart, _ := l.grid.TimeAt(form.Day, sorted[len(sorted)-1])
	end := lastStart.Add(l.grid.Granularity())

	if form.ID != nil {
		if prev := findByID(existing, *form.ID); prev != nil {
			if prev.Status.Terminal() {
				return SaveResult{Outcome: SaveInvalid, Reason: ErrAppointmentCompleted.Error()}
			}
			if !prev.Status.CanTransitionTo(status) {
				return SaveResult{
					Outcome: SaveInvalid,
					Reason:  fmt.Sprintf("cannot move appointment from %s to %s", prev.Status, status),
				}
			}
		}
	}

	if !l.resolver.RangeFree(span, form.Day, existing, form.ID) {
		return SaveResult{Outcome: SaveInvalid, Reason: "selection overlaps a confirmed or completed appointment"}
	}

	apt := &model.Appointment{
		PatientID:   form.PatientID,
		PatientName: form.PatientName,
		StartTime:   start,
		EndTime:     end,
		Status:      status,
		Observation: form.Observation,
	}
	if form.ID != nil {
		apt.ID = *form.ID
	}

	pending := l.resolver.PendingConflicts(span, form.Day, existing, form.ID)
	if len(pending) > 0 {
		ids := make([]uuid.UUID, len(pending))
		for i, p := range pending {
			ids[i] = p.ID
		}
		return SaveResult{
			Outcome:               SaveRequiresConfirmation,
			Appointment:           apt,
			ConflictingPendingIDs: ids,
		}
	}

	return SaveResult{Outcome: SaveReady, Appointment: apt}
}

// CommitSave cancels the confirmed overwrite targets and upserts the
// appointment through the gateway as one logical operation.
func (l *Lifecycle) CommitSave(ctx context.Context, apt *model.Appointment, cancelIDs []uuid.UUID) ([]*model.Appointment, error) {
	snapshot, err := l.gateway.Save(ctx, apt, cancelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}
	return snapshot, nil
}

// Cancel soft-deletes an appointment. Allowed from any state except
// completed; canceled appointments stay in the snapshot for restore.
func (l *Lifecycle) Cancel(ctx context.Context, id uuid.UUID) ([]*model.Appointment, error) {
	existing, err := l.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	apt := findByID(existing, id)
	if apt == nil {
		return nil, ErrAppointmentNotFound
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, ErrAppointmentCompleted
	}
	if apt.Status == model.AppointmentStatusCanceled {
		return nil, ErrAlreadyCanceled
	}

	canceled := *apt
	canceled.Status = model.AppointmentStatusCanceled
	snapshot, err := l.gateway.Save(ctx, &canceled, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return snapshot, nil
}

// Restore re-validates a canceled appointment's original window against the
// current non-canceled appointments. A conflict aborts the restore and names
// the blocking appointment; otherwise the status flips back to pending.
// Canceled appointments are excluded from the check, so two restores racing
// for the same freed window are not mutually protected.
func (l *Lifecycle) Restore(ctx context.Context, id uuid.UUID) (*RestoreResult, error) {
	existing, err := l.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	apt := findByID(existing, id)
	if apt == nil {
		return nil, ErrAppointmentNotFound
	}
	if apt.Status != model.AppointmentStatusCanceled {
		return nil, ErrNotCanceled
	}

	for _, other := range existing {
		if other.ID == apt.ID || other.Status == model.AppointmentStatusCanceled {
			continue
		}
		if other.Overlaps(apt.StartTime, apt.EndTime) {
			return &RestoreResult{Outcome: RestoreRejected, Blocking: other}, nil
		}
	}

	snapshot, err := l.gateway.Restore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to restore appointment: %w", err)
	}
	return &RestoreResult{Outcome: RestoreDone, Appointments: snapshot}, nil
}

func findByID(appointments []*model.Appointment, id uuid.UUID) *model.Appointment {
	for _, apt := range appointments {
		if apt.ID == id {
			return apt
		}
	}
	return nil
}
