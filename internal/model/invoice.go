package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
)

type Invoice struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	AppointmentID uuid.UUID     `db:"appointment_id" json:"appointment_id"`
	PatientID     uuid.UUID     `db:"patient_id" json:"patient_id"`
	PatientName   string        `db:"patient_name" json:"patient_name"`
	Amount        float64       `db:"amount" json:"amount"`
	Status        InvoiceStatus `db:"status" json:"status"`
	IssuedAt      time.Time     `db:"issued_at" json:"issued_at"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

type CreateInvoiceRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Amount        float64   `json:"amount" validate:"required,gt=0"`
}

type InvoiceFilters struct {
	Status    InvoiceStatus
	PatientID uuid.UUID
}
