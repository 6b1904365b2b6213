package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted
}

// CanTransitionTo reports whether the status machine allows s -> next.
// Completed is terminal; canceled can only go back to pending (restore).
// Completion requires prior confirmation, so pending -> completed is rejected.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCanceled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCanceled
	case AppointmentStatusCompleted:
		return false
	case AppointmentStatusCanceled:
		return next == AppointmentStatusPending
	}
	return false
}

type Appointment struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id"`
	PatientName string            `db:"patient_name" json:"patient_name"`
	StartTime   time.Time         `db:"start_time" json:"start_time"`
	EndTime     time.Time         `db:"end_time" json:"end_time"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Observation string            `db:"observation" json:"observation,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether the appointment's half-open window [start, end)
// intersects [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

type SaveAppointmentRequest struct {
	ID          *uuid.UUID `json:"id"`
	PatientID   uuid.UUID  `json:"patient_id" validate:"required"`
	Date        string     `json:"date" validate:"required"`
	Slots       []string   `json:"slots" validate:"required,min=1"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending confirmed completed"`
	Observation string     `json:"observation" validate:"max=2000"`
}
