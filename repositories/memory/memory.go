// Package memory holds map-backed repositories with the same semantics as
// the Mongo ones, including conditional status writes and unique keys. They
// back the service and handler tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.PatientRepository      = (*Patients)(nil)
	_ repositories.HealthRecordRepository = (*Records)(nil)
	_ repositories.AppointmentRepository  = (*Appointments)(nil)
	_ repositories.PaymentRepository      = (*Payments)(nil)
	_ repositories.InsuranceRepository    = (*Insurance)(nil)
	_ repositories.StaffRepository        = (*Staff)(nil)
)

// Patients enforces a unique email. StatusErr, when set, fails SetStatus.
type Patients struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]models.Patient
	StatusErr error
}

func NewPatients() *Patients {
	return &Patients{byID: map[primitive.ObjectID]models.Patient{}}
}

func (f *Patients) Add(p models.Patient) models.Patient {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.byID[p.ID] = p
	return p
}

func (f *Patients) Create(_ context.Context, patient *models.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Email == patient.Email {
			return repositories.ErrDuplicate
		}
	}
	patient.ID = primitive.NewObjectID()
	f.byID[patient.ID] = *patient
	return nil
}

func (f *Patients) GetByID(_ context.Context, id string) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	p, ok := f.byID[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *Patients) GetByEmail(_ context.Context, email string) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Email == email {
			found := p
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Patients) Update(_ context.Context, patient *models.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[patient.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.byID[patient.ID] = *patient
	return nil
}

func (f *Patients) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	if _, ok := f.byID[oid]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, oid)
	return nil
}

func (f *Patients) Search(_ context.Context, query string, limit int64) ([]models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	out := []models.Patient{}
	for _, p := range f.byID {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Email), q) || strings.Contains(p.Phone, q) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Patients) List(_ context.Context, limit int64) ([]models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Patient{}
	for _, p := range f.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Patients) ListByStatus(_ context.Context, status models.PatientStatus) ([]models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Patient{}
	for _, p := range f.byID {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Patients) SetStatus(_ context.Context, id string, status models.PatientStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatusErr != nil {
		return f.StatusErr
	}
	oid, _ := primitive.ObjectIDFromHex(id)
	p, ok := f.byID[oid]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Status = status
	f.byID[oid] = p
	return nil
}

// Records fails the next FailEnsures calls to EnsureForPatient.
type Records struct {
	mu          sync.Mutex
	byPatient   map[string]models.HealthRecord
	FailEnsures int
	EnsureCalls int
}

func NewRecords() *Records {
	return &Records{byPatient: map[string]models.HealthRecord{}}
}

func (f *Records) Create(_ context.Context, record *models.HealthRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byPatient[record.PatientID]; ok {
		return repositories.ErrDuplicate
	}
	record.ID = primitive.NewObjectID()
	f.byPatient[record.PatientID] = *record
	return nil
}

func (f *Records) GetByPatient(_ context.Context, patientID string) (*models.HealthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byPatient[patientID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &r, nil
}

func (f *Records) EnsureForPatient(_ context.Context, patientID string) (*models.HealthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EnsureCalls++
	if f.FailEnsures > 0 {
		f.FailEnsures--
		return nil, errors.New("store unavailable")
	}
	r, ok := f.byPatient[patientID]
	if !ok {
		now := time.Now().UTC()
		r = models.HealthRecord{ID: primitive.NewObjectID(), PatientID: patientID, CreatedAt: now, UpdatedAt: now}
		f.byPatient[patientID] = r
	}
	return &r, nil
}

func (f *Records) update(patientID string, fn func(r *models.HealthRecord)) (*models.HealthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byPatient[patientID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(&r)
	f.byPatient[patientID] = r
	return &r, nil
}

func (f *Records) UpdateDetails(_ context.Context, patientID, bloodType string, allergies, chronic []string) (*models.HealthRecord, error) {
	return f.update(patientID, func(r *models.HealthRecord) {
		r.BloodType = bloodType
		r.Allergies = allergies
		r.ChronicConditions = chronic
	})
}

func (f *Records) ReplaceEncounters(_ context.Context, patientID string, encounters []models.Encounter) (*models.HealthRecord, error) {
	return f.update(patientID, func(r *models.HealthRecord) {
		r.Encounters = append([]models.Encounter(nil), encounters...)
	})
}

func (f *Records) ReplaceMedications(_ context.Context, patientID string, medications []models.Medication) (*models.HealthRecord, error) {
	return f.update(patientID, func(r *models.HealthRecord) {
		r.Medications = append([]models.Medication(nil), medications...)
	})
}

type Appointments struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Appointment
	// BeforeWrite runs inside conditional writes before the status check,
	// letting tests simulate a concurrent change.
	BeforeWrite func(a *models.Appointment)
}

func NewAppointments() *Appointments {
	return &Appointments{byID: map[primitive.ObjectID]models.Appointment{}}
}

func (f *Appointments) Add(a models.Appointment) models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	f.byID[a.ID] = a
	return a
}

func (f *Appointments) Create(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = primitive.NewObjectID()
	f.byID[a.ID] = *a
	return nil
}

func (f *Appointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	a, ok := f.byID[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (f *Appointments) filter(keep func(models.Appointment) bool) []models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range f.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}

func (f *Appointments) FindActiveBySlot(_ context.Context, doctorID, date, slot string) ([]models.Appointment, error) {
	return f.filter(func(a models.Appointment) bool {
		return a.DoctorID == doctorID && a.AppointmentDate == date && a.TimeSlot == slot && a.Status != models.AppointmentCancelled
	}), nil
}

func (f *Appointments) ListByDoctorAndDate(_ context.Context, doctorID, date string) ([]models.Appointment, error) {
	return f.filter(func(a models.Appointment) bool { return a.DoctorID == doctorID && a.AppointmentDate == date }), nil
}

func (f *Appointments) ListByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	return f.filter(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (f *Appointments) ListByDoctor(_ context.Context, doctorID string) ([]models.Appointment, error) {
	return f.filter(func(a models.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (f *Appointments) ListByDateRange(_ context.Context, from, to string) ([]models.Appointment, error) {
	return f.filter(func(a models.Appointment) bool { return a.AppointmentDate >= from && a.AppointmentDate <= to }), nil
}

func (f *Appointments) conditional(id string, from models.AppointmentStatus, apply func(a *models.Appointment)) (*models.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if f.BeforeWrite != nil {
		f.BeforeWrite(&a)
		f.byID[oid] = a
	}
	if a.Status != from {
		return nil, repositories.ErrStatusChanged
	}
	apply(&a)
	a.UpdatedAt = time.Now().UTC()
	f.byID[oid] = a
	return &a, nil
}

func (f *Appointments) UpdateStatus(_ context.Context, id string, from, to models.AppointmentStatus, fields map[string]interface{}) (*models.Appointment, error) {
	return f.conditional(id, from, func(a *models.Appointment) {
		a.Status = to
		for k, v := range fields {
			switch k {
			case "checkedInAt":
				t := v.(time.Time)
				a.CheckedInAt = &t
			case "completedAt":
				t := v.(time.Time)
				a.CompletedAt = &t
			case "cancelledAt":
				t := v.(time.Time)
				a.CancelledAt = &t
			case "cancellationReason":
				a.CancellationReason = v.(string)
			}
		}
	})
}

func (f *Appointments) Reschedule(_ context.Context, id string, from models.AppointmentStatus, date, slot string) (*models.Appointment, error) {
	return f.conditional(id, from, func(a *models.Appointment) {
		a.AppointmentDate = date
		a.TimeSlot = slot
	})
}

type Payments struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Payment
}

func NewPayments() *Payments {
	return &Payments{byID: map[primitive.ObjectID]models.Payment{}}
}

func (f *Payments) Add(p models.Payment) models.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.byID[p.ID] = p
	return p
}

func (f *Payments) Create(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.AppointmentID == p.AppointmentID {
			return repositories.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	f.byID[p.ID] = *p
	return nil
}

func (f *Payments) GetByID(_ context.Context, id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	p, ok := f.byID[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *Payments) GetByAppointment(_ context.Context, appointmentID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.AppointmentID == appointmentID {
			found := p
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Payments) ListByPatient(_ context.Context, patientID string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Payment{}
	for _, p := range f.byID {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Payments) ListByDateRange(_ context.Context, from, to time.Time) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Payment{}
	for _, p := range f.byID {
		if !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Payments) CompleteTransition(_ context.Context, id string, outcome models.PaymentOutcome) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	p, ok := f.byID[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.Status != models.PaymentPending {
		return nil, repositories.ErrStatusChanged
	}
	p.Status = outcome.Status
	p.PaymentMethod = outcome.PaymentMethod
	p.CardLast4 = outcome.CardLast4
	p.UpdatedAt = outcome.At
	if outcome.Status == models.PaymentCompleted {
		at := outcome.At
		p.TransactionID = outcome.TransactionID
		p.PaidAt = &at
	} else {
		p.FailureReason = outcome.FailureReason
	}
	f.byID[oid] = p
	return &p, nil
}

type Insurance struct {
	mu       sync.Mutex
	policies map[primitive.ObjectID]models.InsurancePolicy
	claims   map[primitive.ObjectID]models.InsuranceClaim
}

func NewInsurance() *Insurance {
	return &Insurance{
		policies: map[primitive.ObjectID]models.InsurancePolicy{},
		claims:   map[primitive.ObjectID]models.InsuranceClaim{},
	}
}

func (f *Insurance) AddPolicy(p models.InsurancePolicy) models.InsurancePolicy {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.policies[p.ID] = p
	return p
}

func (f *Insurance) CreatePolicy(_ context.Context, policy *models.InsurancePolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.policies {
		if p.PolicyNumber == policy.PolicyNumber {
			return repositories.ErrDuplicate
		}
	}
	policy.ID = primitive.NewObjectID()
	f.policies[policy.ID] = *policy
	return nil
}

func (f *Insurance) GetPolicy(_ context.Context, id string) (*models.InsurancePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	p, ok := f.policies[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *Insurance) GetPolicyByNumber(_ context.Context, number string) (*models.InsurancePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.policies {
		if p.PolicyNumber == number {
			found := p
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Insurance) ListPoliciesByPatient(_ context.Context, patientID string) ([]models.InsurancePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.InsurancePolicy{}
	for _, p := range f.policies {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Insurance) FindActivePolicy(_ context.Context, patientID string, now time.Time) (*models.InsurancePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *models.InsurancePolicy
	for _, p := range f.policies {
		if p.PatientID != patientID || p.Status != models.PolicyActive || p.EndDate.Before(now) {
			continue
		}
		if found == nil || p.EndDate.After(found.EndDate) ||
			(p.EndDate.Equal(found.EndDate) && p.ID.Hex() < found.ID.Hex()) {
			candidate := p
			found = &candidate
		}
	}
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return found, nil
}

func (f *Insurance) CreateClaim(_ context.Context, claim *models.InsuranceClaim) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.claims {
		if c.PaymentID == claim.PaymentID {
			return repositories.ErrDuplicate
		}
	}
	claim.ID = primitive.NewObjectID()
	f.claims[claim.ID] = *claim
	return nil
}

func (f *Insurance) GetClaim(_ context.Context, id string) (*models.InsuranceClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	c, ok := f.claims[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (f *Insurance) GetClaimByPayment(_ context.Context, paymentID string) (*models.InsuranceClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.claims {
		if c.PaymentID == paymentID {
			found := c
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Insurance) ListClaimsByPolicy(_ context.Context, policyID string) ([]models.InsuranceClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.InsuranceClaim{}
	for _, c := range f.claims {
		if c.PolicyID == policyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type Staff struct {
	mu          sync.Mutex
	hospital    *models.Hospital
	departments map[string]models.Department
	staff       map[string]models.Staff
}

func NewStaff() *Staff {
	return &Staff{departments: map[string]models.Department{}, staff: map[string]models.Staff{}}
}

func (f *Staff) List(_ context.Context, filter repositories.StaffFilter) ([]models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Staff{}
	for _, s := range f.staff {
		if filter.Role != "" && s.Role != filter.Role {
			continue
		}
		if filter.DepartmentID != "" && s.DepartmentID != filter.DepartmentID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *Staff) GetByID(_ context.Context, code string) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.staff[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (f *Staff) GetByEmail(_ context.Context, email string) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.staff {
		if s.Email == email {
			found := s
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Staff) ListDepartments(_ context.Context) ([]models.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Department{}
	for _, d := range f.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *Staff) GetDepartment(_ context.Context, code string) (*models.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.departments[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &d, nil
}

func (f *Staff) GetHospital(_ context.Context) (*models.Hospital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hospital == nil {
		return nil, repositories.ErrNotFound
	}
	h := *f.hospital
	return &h, nil
}

func (f *Staff) UpsertHospital(_ context.Context, hospital *models.Hospital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := *hospital
	f.hospital = &h
	return nil
}

func (f *Staff) UpsertDepartment(_ context.Context, department *models.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.departments[department.Code] = *department
	return nil
}

func (f *Staff) UpsertStaff(_ context.Context, staff *models.Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staff[staff.Code] = *staff
	return nil
}
