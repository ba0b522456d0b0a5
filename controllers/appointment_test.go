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

func bookingBody(patientID, slot string) map[string]string {
	return map[string]string{
		"patientId":       patientID,
		"doctorId":        "DOC001",
		"appointmentDate": "2030-01-15",
		"timeSlot":        slot,
		"reason":          "checkup",
	}
}

func TestBookAppointment(t *testing.T) {
	h := newHarness(t, false)
	patientID := h.addPatient()

	w := h.do(http.MethodPost, "/appointments", bookingBody(patientID, "09:30-10:00"), "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var appointment models.Appointment
	decode(t, w, &appointment)
	assert.Equal(t, models.AppointmentScheduled, appointment.Status)
	assert.Equal(t, "09:30-10:00", appointment.TimeSlot)
}

func TestBookAppointment_Rejections(t *testing.T) {
	h := newHarness(t, false)
	patientID := h.addPatient()
	h.addAppointment(patientID, models.AppointmentScheduled)

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"slot taken", bookingBody(patientID, "09:00-09:30"), http.StatusConflict},
		{"slot not offered", bookingBody(patientID, "15:00-15:30"), http.StatusBadRequest},
		{"unknown patient", bookingBody(primitive.NewObjectID().Hex(), "10:00-10:30"), http.StatusNotFound},
		{"malformed", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/appointments", tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAvailableSlots(t *testing.T) {
	h := newHarness(t, false)
	h.addAppointment(h.addPatient(), models.AppointmentScheduled)

	w := h.do(http.MethodGet, "/appointments/available-slots?doctorId=DOC001&date=2030-01-15", nil, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		DoctorID       string   `json:"doctorId"`
		Date           string   `json:"date"`
		AvailableSlots []string `json:"availableSlots"`
	}
	decode(t, w, &body)
	assert.Equal(t, "DOC001", body.DoctorID)
	assert.Len(t, body.AvailableSlots, 5)
	assert.NotContains(t, body.AvailableSlots, "09:00-09:30")
}

func TestAvailableSlots_MissingParams(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodGet, "/appointments/available-slots?date=2030-01-15", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoctorAppointments(t *testing.T) {
	h := newHarness(t, false)
	h.addAppointment(h.addPatient(), models.AppointmentScheduled)

	var appointments []models.Appointment
	w := h.do(http.MethodGet, "/appointments?doctorId=DOC001&date=2030-01-15", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &appointments)
	assert.Len(t, appointments, 1)

	w = h.do(http.MethodGet, "/appointments?date=2030-01-15", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.DOCTOR_ID_REQUIRED, decode(t, w, nil).Error)
}

func TestUpdateAppointment_Lifecycle(t *testing.T) {
	h := newHarness(t, false)
	id := h.addAppointment(h.addPatient(), models.AppointmentScheduled)
	path := "/appointments/" + id

	var appointment models.Appointment
	w := h.do(http.MethodPut, path, map[string]string{"action": "confirm"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &appointment)
	assert.Equal(t, models.AppointmentConfirmed, appointment.Status)

	w = h.do(http.MethodPost, path+"/check-in", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &appointment)
	assert.Equal(t, models.AppointmentCheckedIn, appointment.Status)

	w = h.do(http.MethodPut, path, map[string]string{"action": "Complete"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &appointment)
	assert.Equal(t, models.AppointmentCompleted, appointment.Status)

	w = h.do(http.MethodPut, path, map[string]string{"action": "cancel"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckIn_CompletedIsRejected(t *testing.T) {
	h := newHarness(t, false)
	id := h.addAppointment(h.addPatient(), models.AppointmentCompleted)

	w := h.do(http.MethodPost, "/appointments/"+id+"/check-in", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.False(t, decode(t, w, nil).Success)
}

func TestUpdateAppointment_CancelAndReschedule(t *testing.T) {
	h := newHarness(t, false)
	patientID := h.addPatient()
	id := h.addAppointment(patientID, models.AppointmentScheduled)

	var appointment models.Appointment
	w := h.do(http.MethodPut, "/appointments/"+id, map[string]string{
		"action": "reschedule", "appointmentDate": "2030-01-16", "timeSlot": "11:00-11:30",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &appointment)
	assert.Equal(t, "2030-01-16", appointment.AppointmentDate)
	assert.Equal(t, "11:00-11:30", appointment.TimeSlot)

	w = h.do(http.MethodPut, "/appointments/"+id, map[string]string{"action": "cancel", "reason": "travel"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &appointment)
	assert.Equal(t, models.AppointmentCancelled, appointment.Status)
}

func TestUpdateAppointment_InvalidAction(t *testing.T) {
	h := newHarness(t, false)
	id := h.addAppointment(h.addPatient(), models.AppointmentScheduled)

	w := h.do(http.MethodPut, "/appointments/"+id, map[string]string{"action": "archive"}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.INVALID_APPOINTMENT_ACTION, decode(t, w, nil).Error)
}

func TestGetAppointment_NotFound(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodGet, "/appointments/"+primitive.NewObjectID().Hex(), nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
