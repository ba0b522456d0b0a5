package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// Payment is the bill for one appointment. PatientPortion is always
// Amount - InsuranceCoverage.
type Payment struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID         string             `json:"patientId" bson:"patientId"`
	AppointmentID     string             `json:"appointmentId" bson:"appointmentId"`
	Amount            float64            `json:"amount" bson:"amount"`
	InsuranceCoverage float64            `json:"insuranceCoverage" bson:"insuranceCoverage"`
	PatientPortion    float64            `json:"patientPortion" bson:"patientPortion"`
	Status            PaymentStatus      `json:"status" bson:"status"`
	TransactionID     string             `json:"transactionId" bson:"transactionId"`
	PaymentMethod     string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	CardLast4         string             `json:"cardLast4,omitempty" bson:"cardLast4,omitempty"`
	FailureReason     string             `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	PaidAt            *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	CreatedBy         string             `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PaymentOutcome is what the gateway decided for a pending payment.
type PaymentOutcome struct {
	Status        PaymentStatus
	TransactionID string
	PaymentMethod string
	CardLast4     string
	FailureReason string
	At            time.Time
}
