package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/notification"
	"github.com/MiniduTH/vitalink-sub001/providers"
	"github.com/MiniduTH/vitalink-sub001/reports"
	"github.com/MiniduTH/vitalink-sub001/repositories/memory"
	"github.com/MiniduTH/vitalink-sub001/role"
	"github.com/MiniduTH/vitalink-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type harness struct {
	t            *testing.T
	router       *gin.Engine
	sessions     *authorization.Manager
	patients     *memory.Patients
	appointments *memory.Appointments
	payments     *memory.Payments
	insurance    *memory.Insurance
	staff        *memory.Staff
	gateway      *providers.StubGateway
	provider     *providers.StubInsurance
	checks       map[string]Pinger
}

func newHarness(t *testing.T, enforce bool) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		t:            t,
		sessions:     authorization.NewManager("test-secret", time.Hour, enforce),
		patients:     memory.NewPatients(),
		appointments: memory.NewAppointments(),
		payments:     memory.NewPayments(),
		insurance:    memory.NewInsurance(),
		staff:        memory.NewStaff(),
		gateway:      &providers.StubGateway{TransactionID: "TXN-GATEWAY-1"},
		provider:     &providers.StubInsurance{},
		checks:       map[string]Pinger{},
	}
	records := memory.NewRecords()
	notifier := notification.NewDispatcher()

	hash, err := bcrypt.GenerateFromPassword([]byte("doctor123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, h.staff.UpsertStaff(context.Background(), &models.Staff{
		Code: "DOC001", Name: "Dr. Nimal Silva", Email: "nimal@vitalink.local",
		Role: role.Doctor, DepartmentID: "DEP001", Password: string(hash), IsActive: true,
	}))

	slots, err := services.GenerateSlots("09:00", "12:00", 30)
	require.NoError(t, err)

	patientService := services.NewPatientService(h.patients, records, notifier)
	appointmentService := services.NewAppointmentService(h.appointments, h.patients, services.NewSlotCatalog(slots), notifier)
	insuranceService := services.NewInsuranceService(h.insurance, h.patients, h.payments, h.provider, notifier)
	billingService := services.NewBillingService(h.payments, h.appointments, insuranceService, h.gateway, notifier)
	exporter := reports.NewExporter(t.TempDir(), nil)
	reportingService := services.NewReportingService(h.appointments, h.payments, h.staff, exporter)
	authService := services.NewAuthService(h.staff, h.sessions)

	r := gin.New()
	NewAuthController(authService, h.sessions).Register(r)
	NewHealthController(h.checks).Register(r)
	NewMockController(h.gateway, h.provider).Register(r)
	RoleController{}.Register(r)

	r.Use(h.sessions.Session())
	NewPatientController(patientService, appointmentService, billingService, insuranceService).Register(r, h.sessions)
	NewHealthRecordController(services.NewHealthRecordService(records)).Register(r, h.sessions)
	NewAppointmentController(appointmentService).Register(r, h.sessions)
	NewBillingController(billingService).Register(r, h.sessions)
	NewInsuranceController(insuranceService).Register(r, h.sessions)
	NewReportController(reportingService).Register(r, h.sessions)
	NewStaffController(services.NewStaffService(h.staff)).Register(r, h.sessions)
	h.router = r
	return h
}

func (h *harness) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else {
		payload, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) token(code, roleCode string) string {
	h.t.Helper()
	token, _, err := h.sessions.Issue(code, code, roleCode)
	require.NoError(h.t, err)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (h *harness) addPatient() string {
	return h.patients.Add(models.Patient{
		Name: "Kamal Perera", DateOfBirth: "1988-02-01", Phone: "0771234567",
		Email: "kamal@example.com", Status: models.PatientActive,
	}).ID.Hex()
}

func (h *harness) addAppointment(patientID string, status models.AppointmentStatus) string {
	return h.appointments.Add(models.Appointment{
		PatientID: patientID, DoctorID: "DOC001", AppointmentDate: "2030-01-15",
		TimeSlot: "09:00-09:30", Status: status,
	}).ID.Hex()
}
