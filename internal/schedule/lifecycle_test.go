package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-api/internal/model"
	"github.com/clinicdesk/scheduling-api/internal/repository/memory"
)

func newTestLifecycle(t *testing.T) (*Grid, *Lifecycle) {
	t.Helper()
	grid := MustGrid(8, 18, 30*time.Minute)
	return grid, NewLifecycle(grid, NewResolver(grid), memory.NewAppointmentRepository())
}

func validForm(slots ...string) SaveForm {
	return SaveForm{
		PatientID:   uuid.New(),
		PatientName: "Jordan Reyes",
		Day:         testDay,
		Slots:       slots,
		Status:      model.AppointmentStatusPending,
	}
}

func TestPrepareSaveValidation(t *testing.T) {
	_, lc := newTestLifecycle(t)

	tests := []struct {
		name   string
		mutate func(*SaveForm)
	}{
		{"missing day", func(f *SaveForm) { f.Day = time.Time{} }},
		{"no slots", func(f *SaveForm) { f.Slots = nil }},
		{"missing patient", func(f *SaveForm) { f.PatientID = uuid.Nil }},
		{"canceled status", func(f *SaveForm) { f.Status = model.AppointmentStatusCanceled }},
		{"unknown status", func(f *SaveForm) { f.Status = "archived" }},
		{"unknown slot", func(f *SaveForm) { f.Slots = []string{"07:00"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm("09:00")
			tt.mutate(&form)
			result := lc.PrepareSave(form, nil)
			assert.Equal(t, SaveInvalid, result.Outcome)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestPrepareSaveComputesWindow(t *testing.T) {
	grid, lc := newTestLifecycle(t)

	// Slots arrive in click order; the window still spans first to last.
	result := lc.PrepareSave(validForm("10:00", "09:00", "09:30"), nil)
	require.Equal(t, SaveReady, result.Outcome)

	wantStart, _ := grid.TimeAt(testDay, "09:00")
	assert.Equal(t, wantStart, result.Appointment.StartTime)
	assert.Equal(t, wantStart.Add(90*time.Minute), result.Appointment.EndTime)
	assert.Equal(t, model.AppointmentStatusPending, result.Appointment.Status)
}

func TestPrepareSaveDefaultsToPending(t *testing.T) {
	_, lc := newTestLifecycle(t)

	form := validForm("09:00")
	form.Status = ""
	result := lc.PrepareSave(form, nil)
	require.Equal(t, SaveReady, result.Outcome)
	assert.Equal(t, model.AppointmentStatusPending, result.Appointment.Status)
}

// The appointment window covers the gap between the first and last slot, so
// occupants of unlisted gap slots must still block or require confirmation.
func TestPrepareSaveChecksGapSlots(t *testing.T) {
	grid, lc := newTestLifecycle(t)

	confirmed := makeAppointment(t, grid, "08:30", "09:00", model.AppointmentStatusConfirmed)
	result := lc.PrepareSave(validForm("08:00", "09:00"), []*model.Appointment{confirmed})
	assert.Equal(t, SaveInvalid, result.Outcome,
		"a confirmed appointment inside the window must block the save")

	pending := makeAppointment(t, grid, "08:30", "09:00", model.AppointmentStatusPending)
	result = lc.PrepareSave(validForm("08:00", "09:00"), []*model.Appointment{pending})
	require.Equal(t, SaveRequiresConfirmation, result.Outcome,
		"a pending appointment inside the window is an overwrite candidate")
	assert.Equal(t, []uuid.UUID{pending.ID}, result.ConflictingPendingIDs)

	result = lc.PrepareSave(validForm("08:00", "09:00"), nil)
	assert.Equal(t, SaveReady, result.Outcome, "a free gap stays bookable")
}

func TestPrepareSaveBlockedByConfirmed(t *testing.T) {
	grid, lc := newTestLifecycle(t)

	existing := []*model.Appointment{
		makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusConfirmed),
	}
	result := lc.PrepareSave(validForm("09:00"), existing)
	assert.Equal(t, SaveInvalid, result.Outcome)
}

func TestPrepareSavePendingOverlapRequiresConfirmation(t *testing.T) {
	grid, lc := newTestLifecycle(t)

	pending := makeAppointment(t, grid, "09:00", "10:00", model.AppointmentStatusPending)
	result := lc.PrepareSave(validForm("09:30", "10:00"), []*model.Appointment{pending})

	require.Equal(t, SaveRequiresConfirmation, result.Outcome)
	assert.Equal(t, []uuid.UUID{pending.ID}, result.ConflictingPendingIDs)
	require.NotNil(t, result.Appointment)
}

func TestPrepareSaveEditSkipsOwnConflict(t *testing.T) {
	grid, lc := newTestLifecycle(t)

	mine := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusPending)
	form := validForm("09:00", "09:30")
	form.ID = &mine.ID
	form.PatientID = mine.PatientID

	result := lc.PrepareSave(form, []*model.Appointment{mine})
	assert.Equal(t, SaveReady, result.Outcome,
		"extending an appointment over its own slots needs no confirmation")
}

func TestPrepareSaveRefusesEditingCompleted(t *testing.T) {
	grid, lc := newTestLifecycle(t)

	done := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusCompleted)
	form := validForm("10:00")
	form.ID = &done.ID
	form.Status = model.AppointmentStatusConfirmed

	result := lc.PrepareSave(form, []*model.Appointment{done})
	assert.Equal(t, SaveInvalid, result.Outcome)
}

func TestPrepareSaveRejectsPendingToCompleted(t *testing.T) {
	grid, lc := newTestLifecycle(t)

	apt := makeAppointment(t, grid, "09:00", "09:30", model.AppointmentStatusPending)
	form := validForm("09:00")
	form.ID = &apt.ID
	form.Status = model.AppointmentStatusCompleted

	result := lc.PrepareSave(form, []*model.Appointment{apt})
	assert.Equal(t, SaveInvalid, result.Outcome,
		"an appointment must be confirmed before completion")
}

func TestCommitSaveOverwritesPending(t *testing.T) {
	ctx := context.Background()
	_, lc := newTestLifecycle(t)

	// Seed a pending appointment through the gateway.
	seed := lc.PrepareSave(validForm("09:00", "09:30"), nil)
	require.Equal(t, SaveReady, seed.Outcome)
	snapshot, err := lc.CommitSave(ctx, seed.Appointment, nil)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	victim := snapshot[0]

	// A confirmed booking over the same slots asks for confirmation, then
	// cancels the pending one on commit.
	form := validForm("09:00")
	form.Status = model.AppointmentStatusConfirmed
	result := lc.PrepareSave(form, snapshot)
	require.Equal(t, SaveRequiresConfirmation, result.Outcome)
	require.Equal(t, []uuid.UUID{victim.ID}, result.ConflictingPendingIDs)

	snapshot, err = lc.CommitSave(ctx, result.Appointment, result.ConflictingPendingIDs)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	byID := make(map[uuid.UUID]model.AppointmentStatus, len(snapshot))
	for _, apt := range snapshot {
		byID[apt.ID] = apt.Status
	}
	assert.Equal(t, model.AppointmentStatusCanceled, byID[victim.ID])
	assert.Equal(t, model.AppointmentStatusConfirmed, byID[result.Appointment.ID])
}

func TestCancelFlow(t *testing.T) {
	ctx := context.Background()
	_, lc := newTestLifecycle(t)

	seed := lc.PrepareSave(validForm("09:00"), nil)
	require.Equal(t, SaveReady, seed.Outcome)
	snapshot, err := lc.CommitSave(ctx, seed.Appointment, nil)
	require.NoError(t, err)
	id := snapshot[0].ID

	snapshot, err = lc.Cancel(ctx, id)
	require.NoError(t, err)
	require.Len(t, snapshot, 1, "canceled appointments stay in the snapshot")
	assert.Equal(t, model.AppointmentStatusCanceled, snapshot[0].Status)

	_, err = lc.Cancel(ctx, id)
	assert.ErrorIs(t, err, ErrAlreadyCanceled)

	_, err = lc.Cancel(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancelRefusesCompleted(t *testing.T) {
	ctx := context.Background()
	_, lc := newTestLifecycle(t)

	form := validForm("09:00")
	form.Status = model.AppointmentStatusConfirmed
	seed := lc.PrepareSave(form, nil)
	require.Equal(t, SaveReady, seed.Outcome)
	snapshot, err := lc.CommitSave(ctx, seed.Appointment, nil)
	require.NoError(t, err)

	complete := *snapshot[0]
	complete.Status = model.AppointmentStatusCompleted
	_, err = lc.CommitSave(ctx, &complete, nil)
	require.NoError(t, err)

	_, err = lc.Cancel(ctx, complete.ID)
	assert.ErrorIs(t, err, ErrAppointmentCompleted)
}

func TestRestoreIntoFreeWindow(t *testing.T) {
	ctx := context.Background()
	_, lc := newTestLifecycle(t)

	seed := lc.PrepareSave(validForm("09:00"), nil)
	snapshot, err := lc.CommitSave(ctx, seed.Appointment, nil)
	require.NoError(t, err)
	id := snapshot[0].ID

	_, err = lc.Cancel(ctx, id)
	require.NoError(t, err)

	result, err := lc.Restore(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RestoreDone, result.Outcome)
	require.Len(t, result.Appointments, 1)
	assert.Equal(t, model.AppointmentStatusPending, result.Appointments[0].Status)
}

func TestRestoreRejectedWhenWindowTaken(t *testing.T) {
	ctx := context.Background()
	_, lc := newTestLifecycle(t)

	seed := lc.PrepareSave(validForm("09:00"), nil)
	snapshot, err := lc.CommitSave(ctx, seed.Appointment, nil)
	require.NoError(t, err)
	id := snapshot[0].ID

	_, err = lc.Cancel(ctx, id)
	require.NoError(t, err)

	// Someone else takes the freed slot.
	taker := validForm("09:00")
	taker.Status = model.AppointmentStatusConfirmed
	takerResult := lc.PrepareSave(taker, nil)
	require.Equal(t, SaveReady, takerResult.Outcome)
	_, err = lc.CommitSave(ctx, takerResult.Appointment, nil)
	require.NoError(t, err)

	result, err := lc.Restore(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RestoreRejected, result.Outcome)
	require.NotNil(t, result.Blocking)
	assert.Equal(t, takerResult.Appointment.ID, result.Blocking.ID)
}

func TestRestoreRequiresCanceledStatus(t *testing.T) {
	ctx := context.Background()
	_, lc := newTestLifecycle(t)

	seed := lc.PrepareSave(validForm("09:00"), nil)
	snapshot, err := lc.CommitSave(ctx, seed.Appointment, nil)
	require.NoError(t, err)

	_, err = lc.Restore(ctx, snapshot[0].ID)
	assert.ErrorIs(t, err, ErrNotCanceled)

	_, err = lc.Restore(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
