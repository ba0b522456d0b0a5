package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/metrics"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/notification"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/util"

	log "github.com/sirupsen/logrus"
)

// SlotLocker serializes bookings for one slot across instances. ok is false
// when someone else holds the slot.
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

type BookingInput struct {
	PatientID       string `json:"patientId" validate:"required"`
	DoctorID        string `json:"doctorId" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"timeSlot" validate:"required"`
	Reason          string `json:"reason"`
}

type AppointmentService struct {
	appointments repositories.AppointmentRepository
	patients     repositories.PatientRepository
	catalog      *SlotCatalog
	notifier     notification.Notifier
	locker       SlotLocker
	now          func() time.Time
}

func NewAppointmentService(appointments repositories.AppointmentRepository, patients repositories.PatientRepository, catalog *SlotCatalog, notifier notification.Notifier) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		catalog:      catalog,
		notifier:     notifier,
		now:          time.Now,
	}
}

// WithLocker turns on the slot lock for book and reschedule.
func (s *AppointmentService) WithLocker(locker SlotLocker) *AppointmentService {
	s.locker = locker
	return s
}

func (s *AppointmentService) Catalog() *SlotCatalog {
	return s.catalog
}

/*
* Validate the input and the slot against the catalog
* The patient must exist, the doctor is not checked
* Reject when a non-cancelled appointment holds the same doctor, date and slot
* Create as Scheduled and notify
 */
func (s *AppointmentService) BookAppointment(ctx context.Context, input BookingInput, createdBy string) (*models.Appointment, error) {
	input.PatientID = strings.TrimSpace(input.PatientID)
	input.DoctorID = strings.TrimSpace(input.DoctorID)
	input.TimeSlot = strings.TrimSpace(input.TimeSlot)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !s.catalog.Contains(input.TimeSlot) {
		return nil, util.ValidationError(util.SLOT_NOT_IN_CATALOG)
	}
	if _, err := s.patients.GetByID(ctx, input.PatientID); err != nil {
		return nil, storeError(err, util.PATIENT_NOT_FOUND, "")
	}

	release, err := s.lockSlot(ctx, input.DoctorID, input.AppointmentDate, input.TimeSlot)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensureSlotFree(ctx, input.DoctorID, input.AppointmentDate, input.TimeSlot, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	appointment := &models.Appointment{
		PatientID:       input.PatientID,
		DoctorID:        input.DoctorID,
		AppointmentDate: input.AppointmentDate,
		TimeSlot:        input.TimeSlot,
		Reason:          input.Reason,
		Status:          models.AppointmentScheduled,
		CreatedAt:       now,
		CreatedBy:       createdBy,
		UpdatedAt:       now,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		log.Println("Error from Create appointment: ", err)
		return nil, util.InternalError("failed to create appointment", err)
	}
	metrics.RecordAppointmentBooked()

	s.notify(ctx, notification.AppointmentBooked, appointment)
	return appointment, nil
}

// lockSlot is a no-op unless a locker is configured. A locker failure is
// logged and the booking continues unlocked.
func (s *AppointmentService) lockSlot(ctx context.Context, doctorID, date, slot string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}
	release, ok, err := s.locker.Acquire(ctx, util.SlotLockKey+doctorID+":"+date+":"+slot)
	if err != nil {
		log.Println("Error from slot lock, continuing without it: ", err)
		return noop, nil
	}
	if !ok {
		return nil, util.ConflictError(util.SLOT_BUSY)
	}
	return release, nil
}

func (s *AppointmentService) ensureSlotFree(ctx context.Context, doctorID, date, slot, excludeID string) error {
	existing, err := s.appointments.FindActiveBySlot(ctx, doctorID, date, slot)
	if err != nil {
		log.Println("Error from FindActiveBySlot: ", err)
		return util.InternalError("failed to check slot", err)
	}
	for _, a := range existing {
		if a.ID.Hex() != excludeID {
			metrics.RecordBookingConflict()
			return util.ConflictError(util.SLOT_ALREADY_BOOKED)
		}
	}
	return nil
}

/*
* Take the catalog for the day
* Drop every slot held by a non-cancelled appointment of the doctor
 */
func (s *AppointmentService) GetAvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" || date == "" {
		return nil, util.ValidationError(util.DOCTOR_ID_AND_DATE_REQUIRED)
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}
	booked, err := s.appointments.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, util.InternalError("failed to load appointments", err)
	}
	occupied := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		if a.Status != models.AppointmentCancelled {
			occupied[a.TimeSlot] = struct{}{}
		}
	}
	available := []string{}
	for _, slot := range s.catalog.Slots() {
		if _, taken := occupied[slot]; !taken {
			available = append(available, slot)
		}
	}
	return available, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.APPOINTMENT_NOT_FOUND, "")
	}
	return appointment, nil
}

func (s *AppointmentService) ConfirmAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	allowed := func(st models.AppointmentStatus) bool { return st == models.AppointmentScheduled }
	return s.move(ctx, id, "confirm", allowed, models.AppointmentConfirmed, nil, notification.AppointmentConfirmed)
}

func (s *AppointmentService) CheckIn(ctx context.Context, id string) (*models.Appointment, error) {
	allowed := func(st models.AppointmentStatus) bool {
		return st == models.AppointmentScheduled || st == models.AppointmentConfirmed
	}
	fields := map[string]interface{}{"checkedInAt": s.now().UTC()}
	return s.move(ctx, id, "check in", allowed, models.AppointmentCheckedIn, fields, notification.AppointmentCheckedIn)
}

func (s *AppointmentService) CancelAppointment(ctx context.Context, id, reason string) (*models.Appointment, error) {
	fields := map[string]interface{}{"cancelledAt": s.now().UTC()}
	if reason = strings.TrimSpace(reason); reason != "" {
		fields["cancellationReason"] = reason
	}
	return s.move(ctx, id, "cancel", notTerminal, models.AppointmentCancelled, fields, notification.AppointmentCancelled)
}

func (s *AppointmentService) CompleteAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	fields := map[string]interface{}{"completedAt": s.now().UTC()}
	return s.move(ctx, id, "complete", notTerminal, models.AppointmentCompleted, fields, notification.AppointmentCompleted)
}

func notTerminal(st models.AppointmentStatus) bool {
	return !st.IsTerminal()
}

/*
* Load the appointment and check the transition is legal from its status
* Write with the observed status as precondition
* A concurrent change between read and write is a ConflictError
 */
func (s *AppointmentService) move(ctx context.Context, id, action string, allowed func(models.AppointmentStatus) bool, to models.AppointmentStatus, fields map[string]interface{}, event string) (*models.Appointment, error) {
	current, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(current.Status) {
		return nil, util.ValidationErrorf(util.INVALID_TRANSITION, action, current.Status)
	}
	updated, err := s.appointments.UpdateStatus(ctx, id, current.Status, to, fields)
	if err != nil {
		return nil, transitionError(err)
	}
	metrics.RecordAppointmentTransition(string(current.Status), string(to))

	s.notify(ctx, event, updated)
	return updated, nil
}

/*
* Not allowed once Completed or Cancelled
* The new slot must be in the catalog and free, ignoring this appointment
* Date and slot are written only if the status is still what we read
 */
func (s *AppointmentService) RescheduleAppointment(ctx context.Context, id, newDate, newSlot string) (*models.Appointment, error) {
	newSlot = strings.TrimSpace(newSlot)
	if _, err := parseDate(newDate); err != nil {
		return nil, err
	}
	if !s.catalog.Contains(newSlot) {
		return nil, util.ValidationError(util.SLOT_NOT_IN_CATALOG)
	}
	current, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, util.ValidationErrorf(util.INVALID_TRANSITION, "reschedule", current.Status)
	}

	release, err := s.lockSlot(ctx, current.DoctorID, newDate, newSlot)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensureSlotFree(ctx, current.DoctorID, newDate, newSlot, id); err != nil {
		return nil, err
	}
	updated, err := s.appointments.Reschedule(ctx, id, current.Status, newDate, newSlot)
	if err != nil {
		return nil, transitionError(err)
	}

	s.notify(ctx, notification.AppointmentRescheduled, updated)
	return updated, nil
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrStatusChanged):
		return util.ConflictError(util.APPOINTMENT_STATUS_CHANGED)
	case errors.Is(err, repositories.ErrNotFound):
		return util.NotFoundError(util.APPOINTMENT_NOT_FOUND)
	}
	log.Println("Error from appointment transition: ", err)
	return util.InternalError("failed to update appointment", err)
}

func (s *AppointmentService) GetPatientAppointments(ctx context.Context, patientID string) ([]models.Appointment, error) {
	appointments, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, util.InternalError("failed to load appointments", err)
	}
	return appointments, nil
}

// GetDoctorAppointments lists a doctor's appointments, for one day when date
// is given.
func (s *AppointmentService) GetDoctorAppointments(ctx context.Context, doctorID, date string) ([]models.Appointment, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" {
		return nil, util.ValidationError(util.DOCTOR_ID_REQUIRED)
	}
	var (
		appointments []models.Appointment
		err          error
	)
	if date != "" {
		if _, perr := parseDate(date); perr != nil {
			return nil, perr
		}
		appointments, err = s.appointments.ListByDoctorAndDate(ctx, doctorID, date)
	} else {
		appointments, err = s.appointments.ListByDoctor(ctx, doctorID)
	}
	if err != nil {
		return nil, util.InternalError("failed to load appointments", err)
	}
	return appointments, nil
}

func (s *AppointmentService) notify(ctx context.Context, eventType string, a *models.Appointment) {
	s.notifier.Notify(ctx, notification.NewEvent(eventType, a.ID.Hex(), a.PatientID, map[string]interface{}{
		"doctorId":        a.DoctorID,
		"appointmentDate": a.AppointmentDate,
		"timeSlot":        a.TimeSlot,
		"status":          string(a.Status),
	}))
}
