package providers

import (
	"context"
	"time"
)

type ChargeRequest struct {
	PaymentID  string  `json:"paymentId"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	CardNumber string  `json:"cardNumber,omitempty"`
	CardHolder string  `json:"cardHolder,omitempty"`
	Expiry     string  `json:"expiry,omitempty"`
	CVV        string  `json:"cvv,omitempty"`
}

type ChargeResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Message       string `json:"message,omitempty"`
}

// PaymentGateway charges a payment. A decline is a ChargeResult with
// Success false; the error return is reserved for transport failures.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

type EligibilityRequest struct {
	PatientID    string  `json:"patientId"`
	PolicyNumber string  `json:"policyNumber"`
	Provider     string  `json:"provider"`
	Amount       float64 `json:"amount"`
}

type EligibilityResult struct {
	Eligible       bool    `json:"eligible"`
	CoverageTier   float64 `json:"coverageTier"`
	ApprovedAmount float64 `json:"approvedAmount"`
	Message        string  `json:"message,omitempty"`
}

type ClaimRequest struct {
	ClaimNumber  string  `json:"claimNumber"`
	PolicyNumber string  `json:"policyNumber"`
	PatientID    string  `json:"patientId"`
	PaymentID    string  `json:"paymentId"`
	Amount       float64 `json:"amount"`
}

type ClaimResult struct {
	Approved       bool    `json:"approved"`
	ApprovedAmount float64 `json:"approvedAmount"`
	Reference      string  `json:"reference,omitempty"`
	Message        string  `json:"message,omitempty"`
}

type InsuranceProvider interface {
	CheckEligibility(ctx context.Context, req EligibilityRequest) (EligibilityResult, error)
	SubmitClaim(ctx context.Context, req ClaimRequest) (ClaimResult, error)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
