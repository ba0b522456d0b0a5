package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/MiniduTH/vitalink-sub001/metrics"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/notification"
	"github.com/MiniduTH/vitalink-sub001/providers"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type PolicyInput struct {
	PatientID          string  `json:"patientId" validate:"required"`
	Provider           string  `json:"provider" validate:"required"`
	PolicyNumber       string  `json:"policyNumber" validate:"required"`
	CoveragePercentage float64 `json:"coveragePercentage"`
	MaxCoverage        float64 `json:"maxCoverage"`
	StartDate          string  `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate            string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	Status             string  `json:"status" validate:"omitempty,oneof=Active Expired Cancelled"`
}

type EligibilityInput struct {
	PatientID string  `json:"patientId" validate:"required"`
	Amount    float64 `json:"amount"`
}

type ClaimInput struct {
	PolicyID  string  `json:"policyId" validate:"required"`
	PaymentID string  `json:"paymentId" validate:"required"`
	Amount    float64 `json:"amount"`
}

type InsuranceService struct {
	insurance repositories.InsuranceRepository
	patients  repositories.PatientRepository
	payments  repositories.PaymentRepository
	provider  providers.InsuranceProvider
	notifier  notification.Notifier
	now       func() time.Time
}

func NewInsuranceService(insurance repositories.InsuranceRepository, patients repositories.PatientRepository, payments repositories.PaymentRepository, provider providers.InsuranceProvider, notifier notification.Notifier) *InsuranceService {
	return &InsuranceService{
		insurance: insurance,
		patients:  patients,
		payments:  payments,
		provider:  provider,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *InsuranceService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

/*
* Validate the terms: coverage in (0,100], non-negative cap, end after start
* The patient must exist and the policy number must be unused
* Status defaults to Active
 */
func (s *InsuranceService) CreatePolicy(ctx context.Context, input PolicyInput) (*models.InsurancePolicy, error) {
	input.PolicyNumber = strings.TrimSpace(input.PolicyNumber)
	input.Provider = strings.TrimSpace(input.Provider)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.CoveragePercentage <= 0 || input.CoveragePercentage > 100 {
		return nil, util.ValidationError(util.COVERAGE_OUT_OF_RANGE)
	}
	if input.MaxCoverage < 0 {
		return nil, util.ValidationError(util.MAX_COVERAGE_NEGATIVE)
	}
	start := s.today()
	if input.StartDate != "" {
		parsed, err := parseDate(input.StartDate)
		if err != nil {
			return nil, err
		}
		start = parsed
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, util.ValidationError(util.END_DATE_BEFORE_START)
	}
	if _, err := s.patients.GetByID(ctx, input.PatientID); err != nil {
		return nil, storeError(err, util.PATIENT_NOT_FOUND, "")
	}
	if _, err := s.insurance.GetPolicyByNumber(ctx, input.PolicyNumber); err == nil {
		return nil, util.ValidationError(util.POLICY_NUMBER_EXISTS)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, util.InternalError("failed to check policy number", err)
	}

	status := models.PolicyActive
	if input.Status != "" {
		status = models.PolicyStatus(input.Status)
	}
	now := s.now().UTC()
	policy := &models.InsurancePolicy{
		PatientID:          input.PatientID,
		Provider:           input.Provider,
		PolicyNumber:       input.PolicyNumber,
		CoveragePercentage: input.CoveragePercentage,
		MaxCoverage:        input.MaxCoverage,
		StartDate:          start,
		EndDate:            end,
		Status:             status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.insurance.CreatePolicy(ctx, policy); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, util.ValidationError(util.POLICY_NUMBER_EXISTS)
		}
		log.Println("Error from CreatePolicy: ", err)
		return nil, util.InternalError("failed to create policy", err)
	}
	return policy, nil
}

func (s *InsuranceService) GetPatientPolicies(ctx context.Context, patientID string) ([]models.InsurancePolicy, error) {
	policies, err := s.insurance.ListPoliciesByPatient(ctx, patientID)
	if err != nil {
		return nil, util.InternalError("failed to load policies", err)
	}
	return policies, nil
}

/*
* Find the patient's Active policy that has not ended
* Compute the coverage from the policy terms
* Ask the provider, whose approved amount is returned as the authoritative figure
* The two figures are independent and both are returned
 */
func (s *InsuranceService) CheckEligibility(ctx context.Context, patientID string, amount float64) (*models.EligibilityResult, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, util.ValidationError("patientId is required")
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, util.ValidationError(util.AMOUNT_MUST_BE_POSITIVE)
	}
	policy, err := s.insurance.FindActivePolicy(ctx, patientID, s.today())
	if err != nil {
		return nil, storeError(err, util.NO_ACTIVE_POLICY, "")
	}
	coverage := roundCents(math.Min(amount*policy.CoveragePercentage/100, policy.MaxCoverage))

	start := time.Now()
	answer, err := s.provider.CheckEligibility(ctx, providers.EligibilityRequest{
		PatientID:    patientID,
		PolicyNumber: policy.PolicyNumber,
		Provider:     policy.Provider,
		Amount:       amount,
	})
	metrics.RecordProviderCall("insurance", "eligibility", time.Since(start))
	if err != nil {
		log.Println("Error from insurance provider eligibility: ", err)
		return nil, util.InternalError("insurance provider unavailable", err)
	}
	metrics.RecordEligibilityCheck(answer.Eligible)

	return &models.EligibilityResult{
		PatientID:      patientID,
		PolicyID:       policy.ID.Hex(),
		PolicyNumber:   policy.PolicyNumber,
		Amount:         amount,
		CoverageAmount: coverage,
		Eligible:       answer.Eligible,
		CoverageTier:   answer.CoverageTier,
		ApprovedAmount: answer.ApprovedAmount,
		Message:        answer.Message,
	}, nil
}

/*
* Policy and payment must exist and belong to the same patient, one claim per payment
* Submit to the provider and persist the claim with its decision
* Notify claim.updated
 */
func (s *InsuranceService) SubmitClaim(ctx context.Context, input ClaimInput) (*models.InsuranceClaim, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Amount <= 0 || math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, util.ValidationError(util.AMOUNT_MUST_BE_POSITIVE)
	}
	policy, err := s.insurance.GetPolicy(ctx, input.PolicyID)
	if err != nil {
		return nil, storeError(err, util.POLICY_NOT_FOUND, "")
	}
	payment, err := s.payments.GetByID(ctx, input.PaymentID)
	if err != nil {
		return nil, storeError(err, util.PAYMENT_NOT_FOUND, "")
	}
	if payment.PatientID != policy.PatientID {
		return nil, util.ValidationError(util.CLAIM_PATIENT_MISMATCH)
	}
	if _, err := s.insurance.GetClaimByPayment(ctx, input.PaymentID); err == nil {
		return nil, util.ConflictError(util.CLAIM_EXISTS_FOR_PAYMENT)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, util.InternalError("failed to check existing claim", err)
	}

	claimNumber := "CLM-" + strings.ToUpper(uuid.NewString()[:8])
	start := time.Now()
	decision, err := s.provider.SubmitClaim(ctx, providers.ClaimRequest{
		ClaimNumber:  claimNumber,
		PolicyNumber: policy.PolicyNumber,
		PatientID:    policy.PatientID,
		PaymentID:    input.PaymentID,
		Amount:       input.Amount,
	})
	metrics.RecordProviderCall("insurance", "claim", time.Since(start))
	if err != nil {
		log.Println("Error from insurance provider claim: ", err)
		return nil, util.InternalError("insurance provider unavailable", err)
	}

	status := models.ClaimRejected
	if decision.Approved {
		status = models.ClaimApproved
	}
	now := s.now().UTC()
	claim := &models.InsuranceClaim{
		ClaimNumber:       claimNumber,
		PolicyID:          input.PolicyID,
		PaymentID:         input.PaymentID,
		PatientID:         payment.PatientID,
		ClaimAmount:       input.Amount,
		ApprovedAmount:    decision.ApprovedAmount,
		Status:            status,
		ProviderReference: decision.Reference,
		Remarks:           decision.Message,
		SubmittedAt:       now,
		UpdatedAt:         now,
	}
	if err := s.insurance.CreateClaim(ctx, claim); err != nil {
		return nil, storeError(err, util.CLAIM_NOT_FOUND, util.CLAIM_EXISTS_FOR_PAYMENT)
	}
	metrics.RecordClaim(string(status))

	s.notifier.Notify(ctx, notification.NewEvent(notification.ClaimUpdated, claim.ID.Hex(), claim.PatientID, map[string]interface{}{
		"claimNumber":    claim.ClaimNumber,
		"policyId":       claim.PolicyID,
		"paymentId":      claim.PaymentID,
		"status":         string(claim.Status),
		"approvedAmount": claim.ApprovedAmount,
	}))
	return claim, nil
}

func (s *InsuranceService) GetClaim(ctx context.Context, id string) (*models.InsuranceClaim, error) {
	claim, err := s.insurance.GetClaim(ctx, id)
	if err != nil {
		return nil, storeError(err, util.CLAIM_NOT_FOUND, "")
	}
	return claim, nil
}

func (s *InsuranceService) GetPolicyClaims(ctx context.Context, policyID string) ([]models.InsuranceClaim, error) {
	if _, err := s.insurance.GetPolicy(ctx, policyID); err != nil {
		return nil, storeError(err, util.POLICY_NOT_FOUND, "")
	}
	claims, err := s.insurance.ListClaimsByPolicy(ctx, policyID)
	if err != nil {
		return nil, util.InternalError("failed to load claims", err)
	}
	return claims, nil
}
