package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("duplicate document")
	ErrStatusChanged = errors.New("status changed concurrently")
)

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	GetByEmail(ctx context.Context, email string) (*models.Patient, error)
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int64) ([]models.Patient, error)
	List(ctx context.Context, limit int64) ([]models.Patient, error)
	ListByStatus(ctx context.Context, status models.PatientStatus) ([]models.Patient, error)
	SetStatus(ctx context.Context, id string, status models.PatientStatus) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	FindActiveBySlot(ctx context.Context, doctorID, date, slot string) ([]models.Appointment, error)
	ListByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListByDateRange(ctx context.Context, from, to string) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, fields map[string]interface{}) (*models.Appointment, error)
	Reschedule(ctx context.Context, id string, from models.AppointmentStatus, date, slot string) (*models.Appointment, error)
}

type HealthRecordRepository interface {
	Create(ctx context.Context, record *models.HealthRecord) error
	GetByPatient(ctx context.Context, patientID string) (*models.HealthRecord, error)
	EnsureForPatient(ctx context.Context, patientID string) (*models.HealthRecord, error)
	UpdateDetails(ctx context.Context, patientID, bloodType string, allergies, chronicConditions []string) (*models.HealthRecord, error)
	ReplaceEncounters(ctx context.Context, patientID string, encounters []models.Encounter) (*models.HealthRecord, error)
	ReplaceMedications(ctx context.Context, patientID string, medications []models.Medication) (*models.HealthRecord, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByAppointment(ctx context.Context, appointmentID string) (*models.Payment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Payment, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	CompleteTransition(ctx context.Context, id string, outcome models.PaymentOutcome) (*models.Payment, error)
}

type InsuranceRepository interface {
	CreatePolicy(ctx context.Context, policy *models.InsurancePolicy) error
	GetPolicy(ctx context.Context, id string) (*models.InsurancePolicy, error)
	GetPolicyByNumber(ctx context.Context, policyNumber string) (*models.InsurancePolicy, error)
	ListPoliciesByPatient(ctx context.Context, patientID string) ([]models.InsurancePolicy, error)
	FindActivePolicy(ctx context.Context, patientID string, now time.Time) (*models.InsurancePolicy, error)
	CreateClaim(ctx context.Context, claim *models.InsuranceClaim) error
	GetClaim(ctx context.Context, id string) (*models.InsuranceClaim, error)
	GetClaimByPayment(ctx context.Context, paymentID string) (*models.InsuranceClaim, error)
	ListClaimsByPolicy(ctx context.Context, policyID string) ([]models.InsuranceClaim, error)
}

type StaffFilter struct {
	Role         string
	DepartmentID string
}

type StaffRepository interface {
	List(ctx context.Context, filter StaffFilter) ([]models.Staff, error)
	GetByID(ctx context.Context, code string) (*models.Staff, error)
	GetByEmail(ctx context.Context, email string) (*models.Staff, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartment(ctx context.Context, code string) (*models.Department, error)
	GetHospital(ctx context.Context) (*models.Hospital, error)
	UpsertHospital(ctx context.Context, hospital *models.Hospital) error
	UpsertDepartment(ctx context.Context, department *models.Department) error
	UpsertStaff(ctx context.Context, staff *models.Staff) error
}

/*
* Parse the hex id
* An id that is not an ObjectID can never match, so it is ErrNotFound
 */
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
