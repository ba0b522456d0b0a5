package controllers

import (
	"net/http"
	"testing"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func patientBody(email string) map[string]string {
	return map[string]string{
		"name":        "Nimal Perera",
		"dateOfBirth": "1990-04-12",
		"phone":       "0771234567",
		"email":       email,
	}
}

func TestRegisterPatient(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodPost, "/patients", patientBody("nimal@example.com"), "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var patient models.Patient
	env := decode(t, w, &patient)
	assert.True(t, env.Success)
	assert.False(t, patient.ID.IsZero())
	assert.Equal(t, models.PatientActive, patient.Status)
}

func TestRegisterPatient_Rejections(t *testing.T) {
	h := newHarness(t, false)
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/patients", patientBody("nimal@example.com"), "").Code)

	bad := patientBody("not-an-email")
	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"invalid email", bad, http.StatusBadRequest},
		{"duplicate email", patientBody("NIMAL@example.com"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/patients", tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode(t, w, nil)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestRegisterPatient_MalformedBodyMessage(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodPost, "/patients", `[]`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.INVALID_REQUEST_BODY, decode(t, w, nil).Error)
}

func TestGetPatient(t *testing.T) {
	h := newHarness(t, false)
	id := h.addPatient()

	w := h.do(http.MethodGet, "/patients/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var patient models.Patient
	decode(t, w, &patient)
	assert.Equal(t, "Kamal Perera", patient.Name)

	w = h.do(http.MethodGet, "/patients/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndSearchPatients(t *testing.T) {
	h := newHarness(t, false)
	h.addPatient()

	var patients []models.Patient
	w := h.do(http.MethodGet, "/patients?search=kamal", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &patients)
	assert.Len(t, patients, 1)

	w = h.do(http.MethodGet, "/patients?limit=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &patients)
	assert.Len(t, patients, 1)
}

func TestUpdateAndDeletePatient(t *testing.T) {
	h := newHarness(t, false)
	id := h.addPatient()

	body := patientBody("kamal.new@example.com")
	w := h.do(http.MethodPut, "/patients/"+id, body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var patient models.Patient
	decode(t, w, &patient)
	assert.Equal(t, "kamal.new@example.com", patient.Email)

	w = h.do(http.MethodDelete, "/patients/"+id, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/patients/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatientSubresources(t *testing.T) {
	h := newHarness(t, false)
	id := h.addPatient()
	h.addAppointment(id, models.AppointmentScheduled)

	var appointments []models.Appointment
	w := h.do(http.MethodGet, "/patients/"+id+"/appointments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &appointments)
	assert.Len(t, appointments, 1)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/patients/"+id+"/payments", nil, "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/patients/"+id+"/policies", nil, "").Code)
}
