package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/notification"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/util"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultPatientLimit = 50
	recordAttempts      = 3
)

type PatientInput struct {
	Name             string `json:"name" validate:"required"`
	DateOfBirth      string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Phone            string `json:"phone" validate:"required,phone"`
	Email            string `json:"email" validate:"required,email"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
}

type PatientService struct {
	patients repositories.PatientRepository
	records  repositories.HealthRecordRepository
	notifier notification.Notifier
	now      func() time.Time
}

func NewPatientService(patients repositories.PatientRepository, records repositories.HealthRecordRepository, notifier notification.Notifier) *PatientService {
	return &PatientService{patients: patients, records: records, notifier: notifier, now: time.Now}
}

func (s *PatientService) validate(input *PatientInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateStruct(input); err != nil {
		return err
	}
	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		return err
	}
	if dob.After(s.now()) {
		return util.ValidationError(util.DATE_OF_BIRTH_IN_FUTURE)
	}
	return nil
}

/*
* Validate the input and reject an email that is already registered
* Create the patient as Provisional
* Ensure the health record, retrying a few times
* Flip the patient to Active and notify
* If the record cannot be created the patient stays Provisional for the
* reconciliation job and the caller gets an InternalError
 */
func (s *PatientService) RegisterPatient(ctx context.Context, input PatientInput, createdBy string) (*models.Patient, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	if _, err := s.patients.GetByEmail(ctx, input.Email); err == nil {
		return nil, util.ValidationError(util.EMAIL_ALREADY_REGISTERED)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		log.Println("Error from GetByEmail: ", err)
		return nil, util.InternalError("failed to check email", err)
	}

	now := s.now().UTC()
	patient := &models.Patient{
		Name:             input.Name,
		DateOfBirth:      input.DateOfBirth,
		Phone:            input.Phone,
		Email:            input.Email,
		Gender:           input.Gender,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		Status:           models.PatientProvisional,
		CreatedAt:        now,
		CreatedBy:        createdBy,
		UpdatedAt:        now,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, util.ValidationError(util.EMAIL_ALREADY_REGISTERED)
		}
		log.Println("Error from Create patient: ", err)
		return nil, util.InternalError("failed to create patient", err)
	}

	if err := s.activate(ctx, patient.ID.Hex()); err != nil {
		log.WithField("patient_id", patient.ID.Hex()).Println("Error while provisioning health record: ", err)
		return patient, util.InternalError(util.HEALTH_RECORD_NOT_PROVISIONED, err)
	}
	patient.Status = models.PatientActive

	s.notifier.Notify(ctx, notification.NewEvent(notification.PatientRegistered, patient.ID.Hex(), patient.Email,
		map[string]interface{}{"name": patient.Name}))
	return patient, nil
}

// activate ensures the health record exists and then marks the patient
// Active. Both steps are idempotent so it is safe to repeat.
func (s *PatientService) activate(ctx context.Context, patientID string) error {
	var err error
	for attempt := 1; attempt <= recordAttempts; attempt++ {
		if _, err = s.records.EnsureForPatient(ctx, patientID); err == nil {
			break
		}
		log.Println("Error from EnsureForPatient, attempt ", attempt, ": ", err)
	}
	if err != nil {
		return err
	}
	return s.patients.SetStatus(ctx, patientID, models.PatientActive)
}

/*
* Retry activation for every patient left Provisional
* Return how many were completed
 */
func (s *PatientService) ReconcileProvisional(ctx context.Context) (int, error) {
	pending, err := s.patients.ListByStatus(ctx, models.PatientProvisional)
	if err != nil {
		log.Println("Error from ListByStatus: ", err)
		return 0, err
	}
	completed := 0
	for _, p := range pending {
		if err := s.activate(ctx, p.ID.Hex()); err != nil {
			log.WithField("patient_id", p.ID.Hex()).Println("Error while reconciling patient: ", err)
			continue
		}
		completed++
	}
	return completed, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.PATIENT_NOT_FOUND, "")
	}
	return patient, nil
}

func (s *PatientService) ListPatients(ctx context.Context, limit int64) ([]models.Patient, error) {
	if limit <= 0 {
		limit = DefaultPatientLimit
	}
	patients, err := s.patients.List(ctx, limit)
	if err != nil {
		return nil, util.InternalError("failed to list patients", err)
	}
	return patients, nil
}

/*
* Load the patient, validate the replacement fields
* Reject a changed email that another patient already holds
 */
func (s *PatientService) UpdatePatient(ctx context.Context, id string, input PatientInput, updatedBy string) (*models.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	if input.Email != patient.Email {
		other, err := s.patients.GetByEmail(ctx, input.Email)
		if err == nil && other.ID != patient.ID {
			return nil, util.ValidationError(util.EMAIL_ALREADY_REGISTERED)
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, util.InternalError("failed to check email", err)
		}
	}

	patient.Name = input.Name
	patient.DateOfBirth = input.DateOfBirth
	patient.Phone = input.Phone
	patient.Email = input.Email
	patient.Gender = input.Gender
	patient.Address = input.Address
	patient.EmergencyContact = input.EmergencyContact
	patient.UpdatedAt = s.now().UTC()
	patient.UpdatedBy = updatedBy

	if err := s.patients.Update(ctx, patient); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, util.ValidationError(util.EMAIL_ALREADY_REGISTERED)
		}
		return nil, storeError(err, util.PATIENT_NOT_FOUND, "")
	}
	return patient, nil
}

// DeletePatient removes only the patient document. Appointments, payments
// and the health record are left in place.
func (s *PatientService) DeletePatient(ctx context.Context, id string) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return storeError(err, util.PATIENT_NOT_FOUND, "")
	}
	return nil
}

func (s *PatientService) SearchPatients(ctx context.Context, query string, limit int64) ([]models.Patient, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, util.ValidationError(util.SEARCH_QUERY_TOO_SHORT)
	}
	if limit <= 0 {
		limit = DefaultPatientLimit
	}
	patients, err := s.patients.Search(ctx, query, limit)
	if err != nil {
		return nil, util.InternalError("failed to search patients", err)
	}
	return patients, nil
}
