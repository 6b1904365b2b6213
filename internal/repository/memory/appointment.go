// Package memory provides map-backed repositories honoring the same
// snapshot contracts as the Postgres implementations. Used by tests and
// local development without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
)

type appointmentRepository struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func NewAppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepository{
		appointments: make(map[uuid.UUID]*model.Appointment),
	}
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(), nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt, ok := r.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment not found")
	}
	copied := *apt
	return &copied, nil
}

func (r *appointmentRepository) Save(ctx context.Context, appointment *model.Appointment, cancelIDs []uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, id := range cancelIDs {
		if apt, ok := r.appointments[id]; ok {
			apt.Status = model.AppointmentStatusCanceled
			apt.UpdatedAt = now
		}
	}

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
		appointment.CreatedAt = now
	} else if _, ok := r.appointments[appointment.ID]; !ok {
		return nil, fmt.Errorf("appointment not found")
	} else {
		appointment.CreatedAt = r.appointments[appointment.ID].CreatedAt
	}
	appointment.UpdatedAt = now

	copied := *appointment
	r.appointments[appointment.ID] = &copied

	return r.snapshot(), nil
}

func (r *appointmentRepository) Restore(ctx context.Context, id uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt, ok := r.appointments[id]
	if !ok || apt.Status != model.AppointmentStatusCanceled {
		return nil, fmt.Errorf("appointment not found or not canceled")
	}
	apt.Status = model.AppointmentStatusPending
	apt.UpdatedAt = time.Now()

	return r.snapshot(), nil
}

func (r *appointmentRepository) snapshot() []*model.Appointment {
	out := make([]*model.Appointment, 0, len(r.appointments))
	for _, apt := range r.appointments {
		copied := *apt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
