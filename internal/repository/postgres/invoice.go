package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
)

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, appointment_id, patient_id, patient_name, amount,
			status, issued_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	invoice.ID = uuid.New()
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = invoice.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.AppointmentID,
		invoice.PatientID,
		invoice.PatientName,
		invoice.Amount,
		invoice.Status,
		invoice.IssuedAt,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `
		SELECT id, appointment_id, patient_id, patient_name, amount,
			   status, issued_at, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`
	var invoice model.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice not found")
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET amount = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	invoice.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		invoice.Amount,
		invoice.Status,
		invoice.UpdatedAt,
		invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice not found")
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	query := `
		SELECT id, appointment_id, patient_id, patient_name, amount,
			   status, issued_at, created_at, updated_at
		FROM invoices
		WHERE 1=1
	`
	var args []interface{}
	argCount := 1

	if filters != nil && filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters != nil && filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}

	query += " ORDER BY issued_at DESC"

	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
