package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
)

var ErrAppointmentNotCompleted = errors.New("invoices can only be issued for completed appointments")

type Service struct {
	repo            repository.InvoiceRepository
	appointmentRepo repository.AppointmentRepository
}

func NewService(repo repository.InvoiceRepository, appointmentRepo repository.AppointmentRepository) *Service {
	return &Service{repo: repo, appointmentRepo: appointmentRepo}
}

// CreateInvoice issues an invoice for a completed appointment, denormalizing
// the patient reference from the appointment record.
func (s *Service) CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	apt, err := s.appointmentRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if apt.Status != model.AppointmentStatusCompleted {
		return nil, ErrAppointmentNotCompleted
	}

	invoice := &model.Invoice{
		AppointmentID: apt.ID,
		PatientID:     apt.PatientID,
		PatientName:   apt.PatientName,
		Amount:        req.Amount,
		Status:        model.InvoiceStatusUnpaid,
		IssuedAt:      time.Now(),
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, paid bool) (*model.Invoice, error) {
	invoice, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if paid {
		invoice.Status = model.InvoiceStatusPaid
	} else {
		invoice.Status = model.InvoiceStatusUnpaid
	}

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	return s.repo.List(ctx, filters)
}
