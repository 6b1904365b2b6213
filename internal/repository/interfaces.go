package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
)

// All repository interfaces in one file. AppointmentRepository doubles as
// the scheduling core's persistence gateway: every mutation returns the
// full refreshed snapshot.
type (
	AppointmentRepository interface {
		List(ctx context.Context) ([]*model.Appointment, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Save(ctx context.Context, appointment *model.Appointment, cancelIDs []uuid.UUID) ([]*model.Appointment, error)
		Restore(ctx context.Context, id uuid.UUID) ([]*model.Appointment, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
		Update(ctx context.Context, invoice *model.Invoice) error
		List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}
)
