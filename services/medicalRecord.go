package services

import (
	"context"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/google/uuid"
)

var bloodTypes = map[string]bool{
	"A+":  true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

type RecordDetailsInput struct {
	BloodType         string   `json:"bloodType"`
	Allergies         []string `json:"allergies"`
	ChronicConditions []string `json:"chronicConditions"`
}

type LabResultInput struct {
	TestName       string `json:"testName" validate:"required"`
	Value          string `json:"value" validate:"required"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"referenceRange"`
}

type EncounterInput struct {
	AppointmentID string           `json:"appointmentId"`
	DoctorID      string           `json:"doctorId"`
	VisitDate     string           `json:"visitDate" validate:"required,datetime=2006-01-02"`
	Reason        string           `json:"reason"`
	Diagnosis     string           `json:"diagnosis"`
	Notes         string           `json:"notes"`
	LabResults    []LabResultInput `json:"labResults" validate:"dive"`
}

type MedicationInput struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage" validate:"required"`
	Frequency    string `json:"frequency"`
	StartDate    string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	PrescribedBy string `json:"prescribedBy"`
}

// HealthRecordService edits the patient's single health record. Encounters
// and medications are rewritten as whole lists, so two concurrent edits to
// the same record are last-write-wins.
type HealthRecordService struct {
	records repositories.HealthRecordRepository
	now     func() time.Time
}

func NewHealthRecordService(records repositories.HealthRecordRepository) *HealthRecordService {
	return &HealthRecordService{records: records, now: time.Now}
}

func (s *HealthRecordService) GetRecord(ctx context.Context, patientID string) (*models.HealthRecord, error) {
	record, err := s.records.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, storeError(err, util.HEALTH_RECORD_NOT_FOUND, "")
	}
	normalizeRecord(record)
	return record, nil
}

func (s *HealthRecordService) UpdateRecordDetails(ctx context.Context, patientID string, input RecordDetailsInput) (*models.HealthRecord, error) {
	bloodType := strings.ToUpper(strings.TrimSpace(input.BloodType))
	if bloodType != "" && !bloodTypes[bloodType] {
		return nil, util.ValidationError(util.INVALID_BLOOD_TYPE)
	}
	record, err := s.records.UpdateDetails(ctx, patientID, bloodType, cleanList(input.Allergies), cleanList(input.ChronicConditions))
	if err != nil {
		return nil, storeError(err, util.HEALTH_RECORD_NOT_FOUND, "")
	}
	normalizeRecord(record)
	return record, nil
}

func (s *HealthRecordService) AddEncounter(ctx context.Context, patientID string, input EncounterInput) (*models.HealthRecord, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	record, err := s.GetRecord(ctx, patientID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	record.Encounters = append(record.Encounters, models.Encounter{
		ID:            uuid.NewString(),
		AppointmentID: input.AppointmentID,
		DoctorID:      input.DoctorID,
		VisitDate:     input.VisitDate,
		Reason:        input.Reason,
		Diagnosis:     input.Diagnosis,
		Notes:         input.Notes,
		LabResults:    s.labResults(input.LabResults),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	return s.saveEncounters(ctx, patientID, record.Encounters)
}

/*
* Load the record and find the encounter
* Replace its notes and write the whole encounter list back
 */
func (s *HealthRecordService) UpdateMedicalNotes(ctx context.Context, patientID, encounterID, notes string) (*models.HealthRecord, error) {
	record, err := s.GetRecord(ctx, patientID)
	if err != nil {
		return nil, err
	}
	i := record.FindEncounter(encounterID)
	if i < 0 {
		return nil, util.NotFoundError(util.ENCOUNTER_NOT_FOUND)
	}
	record.Encounters[i].Notes = notes
	record.Encounters[i].UpdatedAt = s.now().UTC()
	return s.saveEncounters(ctx, patientID, record.Encounters)
}

// UpdateLabResults replaces the encounter's lab results with the given list.
func (s *HealthRecordService) UpdateLabResults(ctx context.Context, patientID, encounterID string, results []LabResultInput) (*models.HealthRecord, error) {
	for _, r := range results {
		if err := validateStruct(r); err != nil {
			return nil, err
		}
	}
	record, err := s.GetRecord(ctx, patientID)
	if err != nil {
		return nil, err
	}
	i := record.FindEncounter(encounterID)
	if i < 0 {
		return nil, util.NotFoundError(util.ENCOUNTER_NOT_FOUND)
	}
	record.Encounters[i].LabResults = s.labResults(results)
	record.Encounters[i].UpdatedAt = s.now().UTC()
	return s.saveEncounters(ctx, patientID, record.Encounters)
}

func (s *HealthRecordService) AddMedication(ctx context.Context, patientID string, input MedicationInput) (*models.HealthRecord, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	record, err := s.GetRecord(ctx, patientID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	start := input.StartDate
	if start == "" {
		start = now.Format(util.DateLayout)
	}
	record.Medications = append(record.Medications, models.Medication{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Dosage:       strings.TrimSpace(input.Dosage),
		Frequency:    input.Frequency,
		StartDate:    start,
		EndDate:      input.EndDate,
		PrescribedBy: input.PrescribedBy,
		Active:       true,
		CreatedAt:    now,
	})
	return s.saveMedications(ctx, patientID, record.Medications)
}

/*
* Find the medication by its id
* Mark it inactive and close its end date if it was open
 */
func (s *HealthRecordService) DiscontinueMedication(ctx context.Context, patientID, medicationID string) (*models.HealthRecord, error) {
	record, err := s.GetRecord(ctx, patientID)
	if err != nil {
		return nil, err
	}
	i := record.FindMedication(medicationID)
	if i < 0 {
		return nil, util.NotFoundError(util.MEDICATION_NOT_FOUND)
	}
	record.Medications[i].Active = false
	if record.Medications[i].EndDate == "" {
		record.Medications[i].EndDate = s.now().UTC().Format(util.DateLayout)
	}
	return s.saveMedications(ctx, patientID, record.Medications)
}

func (s *HealthRecordService) saveEncounters(ctx context.Context, patientID string, encounters []models.Encounter) (*models.HealthRecord, error) {
	record, err := s.records.ReplaceEncounters(ctx, patientID, encounters)
	if err != nil {
		return nil, storeError(err, util.HEALTH_RECORD_NOT_FOUND, "")
	}
	normalizeRecord(record)
	return record, nil
}

func (s *HealthRecordService) saveMedications(ctx context.Context, patientID string, medications []models.Medication) (*models.HealthRecord, error) {
	record, err := s.records.ReplaceMedications(ctx, patientID, medications)
	if err != nil {
		return nil, storeError(err, util.HEALTH_RECORD_NOT_FOUND, "")
	}
	normalizeRecord(record)
	return record, nil
}

func (s *HealthRecordService) labResults(inputs []LabResultInput) []models.LabResult {
	now := s.now().UTC()
	results := make([]models.LabResult, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, models.LabResult{
			TestName:       in.TestName,
			Value:          in.Value,
			Unit:           in.Unit,
			ReferenceRange: in.ReferenceRange,
			RecordedAt:     now,
		})
	}
	return results
}

func cleanList(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// normalizeRecord swaps nil lists for empty ones so the API never shows null.
func normalizeRecord(r *models.HealthRecord) {
	if r.Allergies == nil {
		r.Allergies = []string{}
	}
	if r.ChronicConditions == nil {
		r.ChronicConditions = []string{}
	}
	if r.Encounters == nil {
		r.Encounters = []models.Encounter{}
	}
	if r.Medications == nil {
		r.Medications = []models.Medication{}
	}
	for i := range r.Encounters {
		if r.Encounters[i].LabResults == nil {
			r.Encounters[i].LabResults = []models.LabResult{}
		}
	}
}
