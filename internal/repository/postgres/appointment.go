package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

const appointmentColumns = `
	id, patient_id, patient_name, start_time, end_time,
	status, observation, created_at, updated_at
`

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment not found")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// Save applies the cancelIDs status flips and the upsert in one transaction,
// then returns the refreshed snapshot.
func (r *appointmentRepository) Save(ctx context.Context, appointment *model.Appointment, cancelIDs []uuid.UUID) ([]*model.Appointment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	if len(cancelIDs) > 0 {
		cancelQuery := `
			UPDATE appointments
			SET status = $1, updated_at = $2
			WHERE id = ANY($3)
		`
		ids := make([]string, len(cancelIDs))
		for i, id := range cancelIDs {
			ids[i] = id.String()
		}
		if _, err := tx.ExecContext(ctx, cancelQuery, model.AppointmentStatusCanceled, now, pq.Array(ids)); err != nil {
			return nil, fmt.Errorf("failed to cancel conflicting appointments: %w", err)
		}
	}

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
		appointment.CreatedAt = now
		appointment.UpdatedAt = now

		insertQuery := `
			INSERT INTO appointments (
				id, patient_id, patient_name, start_time, end_time,
				status, observation, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err = tx.ExecContext(ctx, insertQuery,
			appointment.ID,
			appointment.PatientID,
			appointment.PatientName,
			appointment.StartTime,
			appointment.EndTime,
			appointment.Status,
			appointment.Observation,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create appointment: %w", err)
		}
	} else {
		appointment.UpdatedAt = now

		updateQuery := `
			UPDATE appointments
			SET patient_id = $1, patient_name = $2, start_time = $3,
				end_time = $4, status = $5, observation = $6, updated_at = $7
			WHERE id = $8
		`
		result, err := tx.ExecContext(ctx, updateQuery,
			appointment.PatientID,
			appointment.PatientName,
			appointment.StartTime,
			appointment.EndTime,
			appointment.Status,
			appointment.Observation,
			appointment.UpdatedAt,
			appointment.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update appointment: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return nil, fmt.Errorf("appointment not found")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit save: %w", err)
	}

	return r.List(ctx)
}

func (r *appointmentRepository) Restore(ctx context.Context, id uuid.UUID) ([]*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.AppointmentStatusPending,
		time.Now(),
		id,
		model.AppointmentStatusCanceled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to restore appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("appointment not found or not canceled")
	}

	return r.List(ctx)
}
