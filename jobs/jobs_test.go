package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	activated int
	err       error
	calls     int
}

func (f *fakeReconciler) ReconcileProvisional(ctx context.Context) (int, error) {
	f.calls++
	return f.activated, f.err
}

type fakeReporter struct {
	from, to string
	err      error
}

func (f *fakeReporter) PatientFlow(ctx context.Context, from, to string) (*models.PatientFlowReport, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	return &models.PatientFlowReport{From: from, To: to, TotalAppointments: 4, UniquePatients: 3}, nil
}

func TestReconcilePatients(t *testing.T) {
	patients := &fakeReconciler{activated: 2}
	s := NewScheduler(patients, &fakeReporter{})

	assert.Equal(t, 2, s.ReconcilePatients())
	assert.Equal(t, 1, patients.calls)
}

func TestReconcilePatients_Error(t *testing.T) {
	s := NewScheduler(&fakeReconciler{err: errors.New("mongo down")}, &fakeReporter{})

	assert.Equal(t, 0, s.ReconcilePatients())
}

func TestDailySnapshot_UsesPreviousDay(t *testing.T) {
	reporter := &fakeReporter{}
	s := NewScheduler(&fakeReconciler{}, reporter)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC) }

	report := s.DailySnapshot()

	require.NotNil(t, report)
	assert.Equal(t, "2025-03-09", reporter.from)
	assert.Equal(t, "2025-03-09", reporter.to)
	assert.Equal(t, 4, report.TotalAppointments)
}

func TestDailySnapshot_Error(t *testing.T) {
	s := NewScheduler(&fakeReconciler{}, &fakeReporter{err: errors.New("boom")})

	assert.Nil(t, s.DailySnapshot())
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(&fakeReconciler{}, &fakeReporter{})

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
