package jobs

import (
	"context"
	"time"

	"github.com/MiniduTH/vitalink-sub001/metrics"
	"github.com/MiniduTH/vitalink-sub001/models"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	ReconcileSpec     = "*/5 * * * *"
	DailySnapshotSpec = "5 0 * * *"

	reconcileJob = "reconcile_provisional_patients"
	snapshotJob  = "daily_patient_flow"
)

type PatientReconciler interface {
	ReconcileProvisional(ctx context.Context) (int, error)
}

type FlowReporter interface {
	PatientFlow(ctx context.Context, from, to string) (*models.PatientFlowReport, error)
}

type Scheduler struct {
	cron       *cron.Cron
	patients   PatientReconciler
	reports    FlowReporter
	now        func() time.Time
	jobTimeout time.Duration
}

func NewScheduler(patients PatientReconciler, reports FlowReporter) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		patients:   patients,
		reports:    reports,
		now:        time.Now,
		jobTimeout: time.Minute,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(ReconcileSpec, func() { s.ReconcilePatients() }); err != nil {
		log.Println("Error while scheduling reconciliation: ", err)
		return err
	}
	if _, err := s.cron.AddFunc(DailySnapshotSpec, func() { s.DailySnapshot() }); err != nil {
		log.Println("Error while scheduling daily snapshot: ", err)
		return err
	}
	s.cron.Start()
	log.WithField("jobs", len(s.cron.Entries())).Info("job scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) ReconcilePatients() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	activated, err := s.patients.ReconcileProvisional(ctx)
	metrics.RecordJobRun(reconcileJob, err)
	if err != nil {
		log.Println("Error from ReconcileProvisional: ", err)
		return activated
	}
	if activated > 0 {
		log.WithFields(log.Fields{"job": reconcileJob, "activated": activated}).Info("provisional patients activated")
	}
	return activated
}

/*
* Build the patient flow report for yesterday
* Log the headline numbers
 */
func (s *Scheduler) DailySnapshot() *models.PatientFlowReport {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	day := s.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	report, err := s.reports.PatientFlow(ctx, day, day)
	metrics.RecordJobRun(snapshotJob, err)
	if err != nil {
		log.Println("Error from PatientFlow: ", err)
		return nil
	}
	log.WithFields(log.Fields{
		"job":               snapshotJob,
		"date":              day,
		"totalAppointments": report.TotalAppointments,
		"uniquePatients":    report.UniquePatients,
		"byStatus":          report.ByStatus,
	}).Info("daily patient flow")
	return report
}
