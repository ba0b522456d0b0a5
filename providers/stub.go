package providers

import (
	"context"
	"sync"
)

// StubGateway always answers the same way and records what it was asked.
type StubGateway struct {
	Decline       bool
	Message       string
	TransactionID string
	Err           error

	mu       sync.Mutex
	Requests []ChargeRequest
}

func (s *StubGateway) Charge(_ context.Context, req ChargeRequest) (ChargeResult, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()

	if s.Err != nil {
		return ChargeResult{}, s.Err
	}
	if s.Decline {
		return ChargeResult{Success: false, Message: s.Message}, nil
	}
	txn := s.TransactionID
	if txn == "" {
		txn = "TXN-STUB"
	}
	return ChargeResult{Success: true, TransactionID: txn}, nil
}

// StubInsurance answers eligibility with a fixed tier and claims with a
// fixed decision.
type StubInsurance struct {
	Ineligible   bool
	CoverageTier float64
	RejectClaims bool
	Err          error

	mu     sync.Mutex
	Claims []ClaimRequest
}

func (s *StubInsurance) CheckEligibility(_ context.Context, req EligibilityRequest) (EligibilityResult, error) {
	if s.Err != nil {
		return EligibilityResult{}, s.Err
	}
	if s.Ineligible {
		return EligibilityResult{Eligible: false, Message: IneligibleMessage}, nil
	}
	tier := s.CoverageTier
	if tier == 0 {
		tier = HighCoverageTier
	}
	return EligibilityResult{Eligible: true, CoverageTier: tier, ApprovedAmount: roundCents(req.Amount * tier / 100)}, nil
}

func (s *StubInsurance) SubmitClaim(_ context.Context, req ClaimRequest) (ClaimResult, error) {
	s.mu.Lock()
	s.Claims = append(s.Claims, req)
	s.mu.Unlock()

	if s.Err != nil {
		return ClaimResult{}, s.Err
	}
	if s.RejectClaims {
		return ClaimResult{Approved: false, Message: RejectedClaimMessage}, nil
	}
	return ClaimResult{Approved: true, ApprovedAmount: req.Amount, Reference: "CLM-REF-STUB"}, nil
}
