package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
)

type patientRepository struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*model.Patient
}

func NewPatientRepository() repository.PatientRepository {
	return &patientRepository{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	copied := *patient
	r.patients[patient.ID] = &copied
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient not found")
	}
	copied := *p
	return &copied, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[patient.ID]; !ok {
		return fmt.Errorf("patient not found")
	}
	patient.UpdatedAt = time.Now()
	copied := *patient
	r.patients[patient.ID] = &copied
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return fmt.Errorf("patient not found")
	}
	delete(r.patients, id)
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Patient
	for _, p := range r.patients {
		if filters != nil && filters.Search != "" {
			search := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(p.Phone, filters.Search) {
				continue
			}
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
