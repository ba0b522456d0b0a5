package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/repositories/memory"
	"github.com/MiniduTH/vitalink-sub001/notification"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type appointmentFixture struct {
	svc          *AppointmentService
	appointments *memory.Appointments
	patients     *memory.Patients
	notifier     *recordingNotifier
	patientID    string
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	slots, err := GenerateSlots("09:00", "12:00", 30)
	require.NoError(t, err)
	f := &appointmentFixture{
		appointments: memory.NewAppointments(),
		patients:     memory.NewPatients(),
		notifier:     &recordingNotifier{},
	}
	f.patientID = f.patients.Add(models.Patient{Name: "Kamal", Email: "kamal@example.com"}).ID.Hex()
	f.svc = NewAppointmentService(f.appointments, f.patients, NewSlotCatalog(slots), f.notifier)
	f.svc.now = clock
	return f
}

func (f *appointmentFixture) booking() BookingInput {
	return BookingInput{
		PatientID:       f.patientID,
		DoctorID:        "DOC001",
		AppointmentDate: "2025-03-12",
		TimeSlot:        "09:00-09:30",
		Reason:          "checkup",
	}
}

func (f *appointmentFixture) seed(status models.AppointmentStatus) models.Appointment {
	return f.appointments.Add(models.Appointment{
		PatientID:       f.patientID,
		DoctorID:        "DOC001",
		AppointmentDate: "2025-03-12",
		TimeSlot:        "10:00-10:30",
		Status:          status,
	})
}

func TestBookAppointment_Success(t *testing.T) {
	f := newAppointmentFixture(t)

	appointment, err := f.svc.BookAppointment(context.Background(), f.booking(), "REC001")

	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, appointment.Status)
	assert.Equal(t, "REC001", appointment.CreatedBy)
	assert.Equal(t, []string{notification.AppointmentBooked}, f.notifier.types())
}

func TestBookAppointment_Validation(t *testing.T) {
	f := newAppointmentFixture(t)
	cases := map[string]func(in *BookingInput){
		"missing doctor":   func(in *BookingInput) { in.DoctorID = "" },
		"missing patient":  func(in *BookingInput) { in.PatientID = "" },
		"bad date":         func(in *BookingInput) { in.AppointmentDate = "12-03-2025" },
		"slot not offered": func(in *BookingInput) { in.TimeSlot = "13:00-13:30" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := f.booking()
			mutate(&in)
			_, err := f.svc.BookAppointment(context.Background(), in, "")
			assert.Equal(t, util.KindValidation, util.KindOf(err))
		})
	}
}

func TestBookAppointment_UnknownPatient(t *testing.T) {
	f := newAppointmentFixture(t)
	in := f.booking()
	in.PatientID = primitive.NewObjectID().Hex()

	_, err := f.svc.BookAppointment(context.Background(), in, "")

	assert.Equal(t, util.KindNotFound, util.KindOf(err))
}

func TestBookAppointment_SlotTaken(t *testing.T) {
	f := newAppointmentFixture(t)
	_, err := f.svc.BookAppointment(context.Background(), f.booking(), "")
	require.NoError(t, err)

	_, err = f.svc.BookAppointment(context.Background(), f.booking(), "")

	assert.Equal(t, util.KindConflict, util.KindOf(err))
	assert.Equal(t, util.SLOT_ALREADY_BOOKED, err.Error())
}

func TestBookAppointment_CancelledSlotIsFree(t *testing.T) {
	f := newAppointmentFixture(t)
	first, err := f.svc.BookAppointment(context.Background(), f.booking(), "")
	require.NoError(t, err)
	_, err = f.svc.CancelAppointment(context.Background(), first.ID.Hex(), "patient asked")
	require.NoError(t, err)

	_, err = f.svc.BookAppointment(context.Background(), f.booking(), "")

	assert.NoError(t, err)
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	released int
}

func (l *fakeLocker) Acquire(_ context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released++
	}, true, nil
}

func TestBookAppointment_WithLocker(t *testing.T) {
	f := newAppointmentFixture(t)
	locker := &fakeLocker{held: map[string]bool{}}
	f.svc.WithLocker(locker)

	_, err := f.svc.BookAppointment(context.Background(), f.booking(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, locker.released)

	in := f.booking()
	locker.held[util.SlotLockKey+in.DoctorID+":"+in.AppointmentDate+":"+"09:30-10:00"] = true
	in.TimeSlot = "09:30-10:00"
	_, err = f.svc.BookAppointment(context.Background(), in, "")
	assert.Equal(t, util.KindConflict, util.KindOf(err))
	assert.Equal(t, util.SLOT_BUSY, err.Error())
}

func TestBookAppointment_LockerDownStillBooks(t *testing.T) {
	f := newAppointmentFixture(t)
	f.svc.WithLocker(&fakeLocker{err: errors.New("redis down")})

	_, err := f.svc.BookAppointment(context.Background(), f.booking(), "")

	assert.NoError(t, err)
}

func TestGetAvailableSlots(t *testing.T) {
	f := newAppointmentFixture(t)
	_, err := f.svc.BookAppointment(context.Background(), f.booking(), "")
	require.NoError(t, err)
	cancelled := f.seed(models.AppointmentCancelled)

	slots, err := f.svc.GetAvailableSlots(context.Background(), "DOC001", "2025-03-12")

	require.NoError(t, err)
	assert.NotContains(t, slots, "09:00-09:30")
	assert.Contains(t, slots, cancelled.TimeSlot)
	assert.Len(t, slots, 5)

	_, err = f.svc.GetAvailableSlots(context.Background(), "", "2025-03-12")
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	_, err = f.svc.GetAvailableSlots(context.Background(), "DOC001", "")
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestAppointmentLifecycle(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.seed(models.AppointmentScheduled)
	id := a.ID.Hex()

	confirmed, err := f.svc.ConfirmAppointment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentConfirmed, confirmed.Status)

	checkedIn, err := f.svc.CheckIn(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.CheckedInAt)

	completed, err := f.svc.CompleteAppointment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	assert.Equal(t, []string{
		notification.AppointmentConfirmed,
		notification.AppointmentCheckedIn,
		notification.AppointmentCompleted,
	}, f.notifier.types())
}

func TestAppointmentTransitions_Rejected(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	confirmed := f.seed(models.AppointmentConfirmed)
	_, err := f.svc.ConfirmAppointment(ctx, confirmed.ID.Hex())
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	completed := f.seed(models.AppointmentCompleted)
	_, err = f.svc.CheckIn(ctx, completed.ID.Hex())
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	_, err = f.svc.CancelAppointment(ctx, completed.ID.Hex(), "")
	assert.Equal(t, util.KindValidation, util.KindOf(err))
	_, err = f.svc.RescheduleAppointment(ctx, completed.ID.Hex(), "2025-03-13", "09:00-09:30")
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	cancelled := f.seed(models.AppointmentCancelled)
	_, err = f.svc.CompleteAppointment(ctx, cancelled.ID.Hex())
	assert.Equal(t, util.KindValidation, util.KindOf(err))

	_, err = f.svc.ConfirmAppointment(ctx, primitive.NewObjectID().Hex())
	assert.Equal(t, util.KindNotFound, util.KindOf(err))
	assert.Empty(t, f.notifier.types())
}

func TestCheckIn_RejectedStates(t *testing.T) {
	tests := []models.AppointmentStatus{
		models.AppointmentCheckedIn,
		models.AppointmentCompleted,
		models.AppointmentCancelled,
	}
	for _, status := range tests {
		t.Run(string(status), func(t *testing.T) {
			f := newAppointmentFixture(t)
			a := f.seed(status)

			_, err := f.svc.CheckIn(context.Background(), a.ID.Hex())

			assert.Equal(t, util.KindValidation, util.KindOf(err))
			stored, err := f.appointments.GetByID(context.Background(), a.ID.Hex())
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
			assert.Empty(t, f.notifier.types())
		})
	}
}

func TestCancelAppointment_KeepsReason(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.seed(models.AppointmentCheckedIn)

	cancelled, err := f.svc.CancelAppointment(context.Background(), a.ID.Hex(), " doctor unavailable ")

	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
	assert.Equal(t, "doctor unavailable", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)
}

func TestTransition_LostRaceIsConflict(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.seed(models.AppointmentScheduled)
	f.appointments.BeforeWrite = func(a *models.Appointment) {
		a.Status = models.AppointmentCancelled
	}

	_, err := f.svc.ConfirmAppointment(context.Background(), a.ID.Hex())

	assert.Equal(t, util.KindConflict, util.KindOf(err))
	stored, _ := f.appointments.GetByID(context.Background(), a.ID.Hex())
	assert.Equal(t, models.AppointmentCancelled, stored.Status)
}

func TestRescheduleAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.seed(models.AppointmentConfirmed)
	blocker := f.appointments.Add(models.Appointment{
		PatientID: "someone", DoctorID: "DOC001", AppointmentDate: "2025-03-13",
		TimeSlot: "11:00-11:30", Status: models.AppointmentScheduled,
	})

	_, err := f.svc.RescheduleAppointment(context.Background(), a.ID.Hex(), blocker.AppointmentDate, blocker.TimeSlot)
	assert.Equal(t, util.KindConflict, util.KindOf(err))

	same, err := f.svc.RescheduleAppointment(context.Background(), a.ID.Hex(), a.AppointmentDate, a.TimeSlot)
	require.NoError(t, err)
	assert.Equal(t, a.TimeSlot, same.TimeSlot)

	moved, err := f.svc.RescheduleAppointment(context.Background(), a.ID.Hex(), "2025-03-14", "09:30-10:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", moved.AppointmentDate)
	assert.Equal(t, "09:30-10:00", moved.TimeSlot)
	assert.Equal(t, models.AppointmentConfirmed, moved.Status)

	_, err = f.svc.RescheduleAppointment(context.Background(), a.ID.Hex(), "2025-03-14", "18:00-18:30")
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}

func TestListAppointments(t *testing.T) {
	f := newAppointmentFixture(t)
	f.seed(models.AppointmentScheduled)
	f.appointments.Add(models.Appointment{PatientID: f.patientID, DoctorID: "DOC001", AppointmentDate: "2025-03-15", TimeSlot: "09:00-09:30"})
	f.appointments.Add(models.Appointment{PatientID: "other", DoctorID: "DOC002", AppointmentDate: "2025-03-12", TimeSlot: "09:00-09:30"})

	mine, err := f.svc.GetPatientAppointments(context.Background(), f.patientID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.GetDoctorAppointments(context.Background(), "DOC001", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	day, err := f.svc.GetDoctorAppointments(context.Background(), "DOC001", "2025-03-15")
	require.NoError(t, err)
	assert.Len(t, day, 1)

	_, err = f.svc.GetDoctorAppointments(context.Background(), "", "")
	assert.Equal(t, util.KindValidation, util.KindOf(err))
}
