package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LabResult struct {
	TestName       string    `json:"testName" bson:"testName"`
	Value          string    `json:"value" bson:"value"`
	Unit           string    `json:"unit,omitempty" bson:"unit,omitempty"`
	ReferenceRange string    `json:"referenceRange,omitempty" bson:"referenceRange,omitempty"`
	RecordedAt     time.Time `json:"recordedAt" bson:"recordedAt"`
}

type Encounter struct {
	ID            string      `json:"id" bson:"id"`
	AppointmentID string      `json:"appointmentId,omitempty" bson:"appointmentId,omitempty"`
	DoctorID      string      `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	VisitDate     string      `json:"visitDate" bson:"visitDate"`
	Reason        string      `json:"reason,omitempty" bson:"reason,omitempty"`
	Diagnosis     string      `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
	Notes         string      `json:"notes,omitempty" bson:"notes,omitempty"`
	LabResults    []LabResult `json:"labResults" bson:"labResults"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt"`
}

type Medication struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Dosage       string    `json:"dosage" bson:"dosage"`
	Frequency    string    `json:"frequency,omitempty" bson:"frequency,omitempty"`
	StartDate    string    `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate      string    `json:"endDate,omitempty" bson:"endDate,omitempty"`
	PrescribedBy string    `json:"prescribedBy,omitempty" bson:"prescribedBy,omitempty"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// HealthRecord is one-to-one with a patient. Encounters and medications are
// owned sub-documents addressed by their generated ID.
type HealthRecord struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID         string             `json:"patientId" bson:"patientId"`
	BloodType         string             `json:"bloodType,omitempty" bson:"bloodType,omitempty"`
	Allergies         []string           `json:"allergies" bson:"allergies"`
	ChronicConditions []string           `json:"chronicConditions" bson:"chronicConditions"`
	Encounters        []Encounter        `json:"encounters" bson:"encounters"`
	Medications       []Medication       `json:"medications" bson:"medications"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (r *HealthRecord) FindEncounter(id string) int {
	for i := range r.Encounters {
		if r.Encounters[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *HealthRecord) FindMedication(id string) int {
	for i := range r.Medications {
		if r.Medications[i].ID == id {
			return i
		}
	}
	return -1
}
