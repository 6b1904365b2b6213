package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository"
	"github.com/clinicdesk/scheduling-api/internal/schedule"
)

const (
	snapshotCacheKey = "appointments:snapshot"
	snapshotCacheTTL = 30 * time.Second
)

// Service exposes the scheduling core over the appointment repository. It
// caches the full appointment snapshot briefly; every mutation drops the
// cache and stores the refreshed list returned by the gateway.
type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	grid        *schedule.Grid
	resolver    *schedule.Resolver
	lifecycle   *schedule.Lifecycle
	cache       *cache.Cache
	logger      zerolog.Logger
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository, grid *schedule.Grid, logger zerolog.Logger) *Service {
	resolver := schedule.NewResolver(grid)
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		grid:        grid,
		resolver:    resolver,
		lifecycle:   schedule.NewLifecycle(grid, resolver, repo),
		cache:       cache.New(snapshotCacheTTL, time.Minute),
		logger:      logger.With().Str("service", "appointment").Logger(),
	}
}

func (s *Service) Grid() *schedule.Grid {
	return s.grid
}

func (s *Service) List(ctx context.Context) ([]*model.Appointment, error) {
	if cached, ok := s.cache.Get(snapshotCacheKey); ok {
		return cached.([]*model.Appointment), nil
	}

	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	s.cache.SetDefault(snapshotCacheKey, appointments)
	return appointments, nil
}

// DayOccupancy resolves the occupancy of every grid slot on a day, for slot
// affordance rendering. excludeID skips the appointment being edited.
func (s *Service) DayOccupancy(ctx context.Context, day time.Time, excludeID *uuid.UUID) (map[string]schedule.Occupancy, error) {
	appointments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.DayOccupancy(day, appointments, excludeID), nil
}

// SaveResponse is the tagged outcome of a save attempt. Exactly one branch
// applies: ValidationError, RequiresConfirmation, or Appointments.
type SaveResponse struct {
	ValidationError       string
	RequiresConfirmation  bool
	ConflictingPendingIDs []uuid.UUID
	Appointments          []*model.Appointment
}

// Save runs the two-phase save flow. Without confirm, a selection that
// overlaps pending appointments returns the confirmation branch and mutates
// nothing; with confirm, those pending appointments are canceled together
// with the upsert.
func (s *Service) Save(ctx context.Context, req *model.SaveAppointmentRequest, confirm bool) (*SaveResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return &SaveResponse{ValidationError: fmt.Sprintf("invalid date %q", req.Date)}, nil
	}

	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return &SaveResponse{ValidationError: "a valid patient must be selected"}, nil
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	form := schedule.SaveForm{
		ID:          req.ID,
		PatientID:   patient.ID,
		PatientName: patient.Name,
		Day:         day,
		Slots:       req.Slots,
		Status:      model.AppointmentStatus(req.Status),
		Observation: req.Observation,
	}

	result := s.lifecycle.PrepareSave(form, existing)
	switch result.Outcome {
	case schedule.SaveInvalid:
		return &SaveResponse{ValidationError: result.Reason}, nil

	case schedule.SaveRequiresConfirmation:
		if !confirm {
			return &SaveResponse{
				RequiresConfirmation:  true,
				ConflictingPendingIDs: result.ConflictingPendingIDs,
			}, nil
		}
		snapshot, err := s.lifecycle.CommitSave(ctx, result.Appointment, result.ConflictingPendingIDs)
		if err != nil {
			return nil, err
		}
		s.storeSnapshot(snapshot)
		s.logger.Info().
			Str("appointment_id", result.Appointment.ID.String()).
			Int("overwritten", len(result.ConflictingPendingIDs)).
			Msg("appointment saved with overwrite")
		return &SaveResponse{Appointments: snapshot}, nil

	default:
		snapshot, err := s.lifecycle.CommitSave(ctx, result.Appointment, nil)
		if err != nil {
			return nil, err
		}
		s.storeSnapshot(snapshot)
		s.logger.Info().
			Str("appointment_id", result.Appointment.ID.String()).
			Time("start", result.Appointment.StartTime).
			Msg("appointment saved")
		return &SaveResponse{Appointments: snapshot}, nil
	}
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) ([]*model.Appointment, error) {
	snapshot, err := s.lifecycle.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.storeSnapshot(snapshot)
	s.logger.Info().Str("appointment_id", id.String()).Msg("appointment canceled")
	return snapshot, nil
}

func (s *Service) Restore(ctx context.Context, id uuid.UUID) (*schedule.RestoreResult, error) {
	result, err := s.lifecycle.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.Outcome == schedule.RestoreDone {
		s.storeSnapshot(result.Appointments)
		s.logger.Info().Str("appointment_id", id.String()).Msg("appointment restored")
	}
	return result, nil
}

func (s *Service) storeSnapshot(snapshot []*model.Appointment) {
	s.cache.SetDefault(snapshotCacheKey, snapshot)
}
