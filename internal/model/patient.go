package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email,omitempty"`
	ProfilePicture string    `db:"profile_picture" json:"profile_picture,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePatientRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Phone          string `json:"phone" validate:"required,max=30"`
	Email          string `json:"email" validate:"omitempty,email"`
	ProfilePicture string `json:"profile_picture"`
}

type UpdatePatientRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=200"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	ProfilePicture *string `json:"profile_picture"`
}

type PatientFilters struct {
	// Search matches against name or phone, case-insensitive.
	Search string
}
