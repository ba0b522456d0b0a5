package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/reports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports_PatientFlow(t *testing.T) {
	h := newHarness(t, false)
	patientID := h.addPatient()
	h.addAppointment(patientID, models.AppointmentScheduled)
	h.addAppointment(patientID, models.AppointmentCancelled)

	w := h.do(http.MethodGet, "/reports/patient-flow?from=2030-01-01&to=2030-01-31", nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report models.PatientFlowReport
	decode(t, w, &report)
	assert.Equal(t, 2, report.TotalAppointments)
	assert.Equal(t, 1, report.UniquePatients)
}

func TestReports_DepartmentLoad(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.staff.UpsertDepartment(context.Background(), &models.Department{Code: "DEP001", Name: "Cardiology", HospitalID: "HOSP001"}))
	h.addAppointment(h.addPatient(), models.AppointmentScheduled)

	w := h.do(http.MethodGet, "/reports/department-load?from=2030-01-01&to=2030-01-31", nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report models.DepartmentLoadReport
	decode(t, w, &report)
	require.Len(t, report.Departments, 1)
	assert.Equal(t, "DEP001", report.Departments[0].DepartmentID)
	assert.Equal(t, 1, report.Departments[0].Appointments)
	assert.Equal(t, 0, report.Unassigned)
}

func TestReports_InvalidRange(t *testing.T) {
	h := newHarness(t, false)

	for _, path := range []string{
		"/reports/patient-flow?from=2030-02-01&to=2030-01-01",
		"/reports/revenue?from=bad&to=2030-01-01",
		"/reports/department-load",
	} {
		assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, path, nil, "").Code, path)
	}
}

func TestReports_ExportCSV(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodPost, "/reports/export", map[string]interface{}{
		"reportType": "revenue",
		"reportData": map[string]interface{}{"totalBilled": 1000, "totalCollected": 200},
		"format":     "csv",
	}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result reports.Result
	decode(t, w, &result)
	assert.Equal(t, reports.FormatCSV, result.Format)
	assert.FileExists(t, result.Path)
}

func TestReports_ExportRejections(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodPost, "/reports/export", map[string]interface{}{
		"reportType": "revenue", "reportData": map[string]interface{}{"a": 1}, "format": "xlsx",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/reports/export", map[string]interface{}{"reportType": "revenue", "format": "csv"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
