package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "Active"
	PolicyExpired   PolicyStatus = "Expired"
	PolicyCancelled PolicyStatus = "Cancelled"
)

type InsurancePolicy struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PatientID          string             `json:"patientId" bson:"patientId"`
	Provider           string             `json:"provider" bson:"provider"`
	PolicyNumber       string             `json:"policyNumber" bson:"policyNumber"`
	CoveragePercentage float64            `json:"coveragePercentage" bson:"coveragePercentage"`
	MaxCoverage        float64            `json:"maxCoverage" bson:"maxCoverage"`
	StartDate          time.Time          `json:"startDate" bson:"startDate"`
	EndDate            time.Time          `json:"endDate" bson:"endDate"`
	Status             PolicyStatus       `json:"status" bson:"status"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ClaimStatus string

const (
	ClaimSubmitted ClaimStatus = "Submitted"
	ClaimApproved  ClaimStatus = "Approved"
	ClaimRejected  ClaimStatus = "Rejected"
)

type InsuranceClaim struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ClaimNumber       string             `json:"claimNumber" bson:"claimNumber"`
	PolicyID          string             `json:"policyId" bson:"policyId"`
	PaymentID         string             `json:"paymentId" bson:"paymentId"`
	PatientID         string             `json:"patientId" bson:"patientId"`
	ClaimAmount       float64            `json:"claimAmount" bson:"claimAmount"`
	ApprovedAmount    float64            `json:"approvedAmount" bson:"approvedAmount"`
	Status            ClaimStatus        `json:"status" bson:"status"`
	ProviderReference string             `json:"providerReference,omitempty" bson:"providerReference,omitempty"`
	Remarks           string             `json:"remarks,omitempty" bson:"remarks,omitempty"`
	SubmittedAt       time.Time          `json:"submittedAt" bson:"submittedAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EligibilityResult carries both figures: CoverageAmount is computed from the
// policy terms, ApprovedAmount is what the provider answered. The provider
// figure is the one billing uses.
type EligibilityResult struct {
	PatientID      string  `json:"patientId"`
	PolicyID       string  `json:"policyId"`
	PolicyNumber   string  `json:"policyNumber"`
	Amount         float64 `json:"amount"`
	CoverageAmount float64 `json:"coverageAmount"`
	Eligible       bool    `json:"eligible"`
	CoverageTier   float64 `json:"coverageTier"`
	ApprovedAmount float64 `json:"approvedAmount"`
	Message        string  `json:"message,omitempty"`
}
