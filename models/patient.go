package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentConfirmed AppointmentStatus = "Confirmed"
	AppointmentCheckedIn AppointmentStatus = "CheckedIn"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
)

// IsTerminal reports whether no further transition is allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

type Appointment struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID          string             `json:"patientId" bson:"patientId"`
	DoctorID           string             `json:"doctorId" bson:"doctorId"`
	AppointmentDate    string             `json:"appointmentDate" bson:"appointmentDate"`
	TimeSlot           string             `json:"timeSlot" bson:"timeSlot"`
	Reason             string             `json:"reason,omitempty" bson:"reason,omitempty"`
	Status             AppointmentStatus  `json:"status" bson:"status"`
	CancellationReason string             `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CheckedInAt        *time.Time         `json:"checkedInAt,omitempty" bson:"checkedInAt,omitempty"`
	CompletedAt        *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CancelledAt        *time.Time         `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy          string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy          string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}

type PatientStatus string

const (
	PatientActive      PatientStatus = "Active"
	PatientProvisional PatientStatus = "Provisional"
)

type Patient struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	DateOfBirth      string             `json:"dateOfBirth" bson:"dateOfBirth"`
	Phone            string             `json:"phone" bson:"phone"`
	Email            string             `json:"email" bson:"email"`
	Gender           string             `json:"gender,omitempty" bson:"gender,omitempty"`
	Address          string             `json:"address,omitempty" bson:"address,omitempty"`
	EmergencyContact string             `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	Status           PatientStatus      `json:"status" bson:"status"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy        string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string             `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
}
