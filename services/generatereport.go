package services

import (
	"context"
	"errors"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/reports"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/util"

	log "github.com/sirupsen/logrus"
)

type ExportInput struct {
	ReportType string                 `json:"reportType"`
	ReportData map[string]interface{} `json:"reportData"`
	Format     string                 `json:"format"`
}

// ReportingService only reads. Ranges are inclusive calendar days.
type ReportingService struct {
	appointments repositories.AppointmentRepository
	payments     repositories.PaymentRepository
	staff        repositories.StaffRepository
	exporter     *reports.Exporter
}

func NewReportingService(appointments repositories.AppointmentRepository, payments repositories.PaymentRepository, staff repositories.StaffRepository, exporter *reports.Exporter) *ReportingService {
	return &ReportingService{appointments: appointments, payments: payments, staff: staff, exporter: exporter}
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, util.ValidationError(util.INVALID_DATE_RANGE)
	}
	return start, end, nil
}

/*
* Count appointments in the range
* Break the count down by status, day, doctor and slot
 */
func (s *ReportingService) PatientFlow(ctx context.Context, from, to string) (*models.PatientFlowReport, error) {
	if _, _, err := parseRange(from, to); err != nil {
		return nil, err
	}
	appointments, err := s.appointments.ListByDateRange(ctx, from, to)
	if err != nil {
		log.Println("Error from ListByDateRange: ", err)
		return nil, util.InternalError("failed to load appointments", err)
	}
	report := &models.PatientFlowReport{
		From:     from,
		To:       to,
		ByStatus: map[models.AppointmentStatus]int{},
		ByDay:    map[string]int{},
		ByDoctor: map[string]int{},
		BySlot:   map[string]int{},
	}
	patients := map[string]struct{}{}
	for _, a := range appointments {
		report.TotalAppointments++
		report.ByStatus[a.Status]++
		report.ByDay[a.AppointmentDate]++
		report.ByDoctor[a.DoctorID]++
		report.BySlot[a.TimeSlot]++
		patients[a.PatientID] = struct{}{}
	}
	report.UniquePatients = len(patients)
	return report, nil
}

/*
* Load payments created in the range
* Billed counts every payment, collected only Completed ones
* Insurance coverage and patient portion are summed over Completed payments
 */
func (s *ReportingService) Revenue(ctx context.Context, from, to string) (*models.RevenueReport, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByDateRange(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		log.Println("Error from payments ListByDateRange: ", err)
		return nil, util.InternalError("failed to load payments", err)
	}
	report := &models.RevenueReport{From: from, To: to, ByStatus: map[models.PaymentStatus]int{}}
	for _, p := range payments {
		report.ByStatus[p.Status]++
		report.TotalBilled += p.Amount
		if p.Status == models.PaymentCompleted {
			report.TotalCollected += p.PatientPortion
			report.InsuranceCoverage += p.InsuranceCoverage
			report.PatientPortion += p.PatientPortion
		}
	}
	report.TotalBilled = roundCents(report.TotalBilled)
	report.TotalCollected = roundCents(report.TotalCollected)
	report.InsuranceCoverage = roundCents(report.InsuranceCoverage)
	report.PatientPortion = roundCents(report.PatientPortion)
	return report, nil
}

/*
* Map every doctor to a department through the staff list
* Count the range's appointments per department
* Appointments whose doctor is unknown or has no department are unassigned
 */
func (s *ReportingService) DepartmentLoad(ctx context.Context, from, to string) (*models.DepartmentLoadReport, error) {
	if _, _, err := parseRange(from, to); err != nil {
		return nil, err
	}
	departments, err := s.staff.ListDepartments(ctx)
	if err != nil {
		return nil, util.InternalError("failed to load departments", err)
	}
	staff, err := s.staff.List(ctx, repositories.StaffFilter{})
	if err != nil {
		return nil, util.InternalError("failed to load staff", err)
	}
	appointments, err := s.appointments.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, util.InternalError("failed to load appointments", err)
	}

	rows := make([]models.DepartmentLoad, len(departments))
	index := make(map[string]int, len(departments))
	for i, d := range departments {
		rows[i] = models.DepartmentLoad{DepartmentID: d.Code, DepartmentName: d.Name}
		index[d.Code] = i
	}
	doctorDept := map[string]string{}
	for _, st := range staff {
		if st.DepartmentID == "" {
			continue
		}
		doctorDept[st.Code] = st.DepartmentID
		if i, ok := index[st.DepartmentID]; ok && st.Specialization != "" {
			rows[i].Doctors++
		}
	}

	report := &models.DepartmentLoadReport{From: from, To: to}
	for _, a := range appointments {
		if a.Status == models.AppointmentCancelled {
			continue
		}
		i, ok := index[doctorDept[a.DoctorID]]
		if !ok {
			report.Unassigned++
			continue
		}
		rows[i].Appointments++
	}
	report.Departments = rows
	return report, nil
}

func (s *ReportingService) Export(ctx context.Context, input ExportInput) (*reports.Result, error) {
	if len(input.ReportData) == 0 {
		return nil, util.ValidationError(util.REPORT_DATA_REQUIRED)
	}
	name := input.ReportType
	if name == "" {
		name = "report"
	}
	res, err := s.exporter.Export(ctx, name, input.ReportData, input.Format)
	if errors.Is(err, reports.ErrUnsupportedFormat) {
		return nil, util.ValidationError(util.INVALID_REPORT_FORMAT)
	}
	if err != nil {
		return nil, util.InternalError("failed to export report", err)
	}
	return res, nil
}
