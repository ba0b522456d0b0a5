package providers

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	PaymentSuccessRate     = 0.9
	EligibilityRate        = 0.8
	ClaimApprovalRate      = 0.9
	HighCoverageTier       = 80.0
	LowCoverageTier        = 50.0
	DeclinedPaymentMessage = "Payment declined by the card issuer"
	IneligibleMessage      = "Patient is not eligible for coverage"
	RejectedClaimMessage   = "Claim rejected by the insurance provider"
)

type MockOptions struct {
	PaymentDelay       time.Duration
	EligibilityDelay   time.Duration
	ClaimDelay         time.Duration
	PaymentSuccessRate float64
	EligibilityRate    float64
	ClaimApprovalRate  float64
	Rand               *rand.Rand
}

func DefaultMockOptions() MockOptions {
	return MockOptions{
		PaymentDelay:       time.Second,
		EligibilityDelay:   500 * time.Millisecond,
		ClaimDelay:         800 * time.Millisecond,
		PaymentSuccessRate: PaymentSuccessRate,
		EligibilityRate:    EligibilityRate,
		ClaimApprovalRate:  ClaimApprovalRate,
	}
}

// Mock is the randomized provider used when no real endpoint is configured.
// It implements both PaymentGateway and InsuranceProvider.
type Mock struct {
	opts MockOptions
	mu   sync.Mutex
	rng  *rand.Rand
}

func NewMock(opts MockOptions) *Mock {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Mock{opts: opts, rng: rng}
}

func (m *Mock) roll() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64()
}

/*
* Wait for the simulated gateway latency
* Approve with the configured success rate
 */
func (m *Mock) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if err := sleep(ctx, m.opts.PaymentDelay); err != nil {
		return ChargeResult{}, err
	}
	if m.roll() >= m.opts.PaymentSuccessRate {
		return ChargeResult{Success: false, Message: DeclinedPaymentMessage}, nil
	}
	return ChargeResult{Success: true, TransactionID: "TXN-" + uuid.NewString()}, nil
}

/*
* Wait for the simulated provider latency
* Decide eligibility, then pick a coverage tier of 80 or 50 percent
* The approved amount is the tier applied to the requested amount
 */
func (m *Mock) CheckEligibility(ctx context.Context, req EligibilityRequest) (EligibilityResult, error) {
	if err := sleep(ctx, m.opts.EligibilityDelay); err != nil {
		return EligibilityResult{}, err
	}
	if m.roll() >= m.opts.EligibilityRate {
		return EligibilityResult{Eligible: false, Message: IneligibleMessage}, nil
	}
	tier := LowCoverageTier
	if m.roll() < 0.5 {
		tier = HighCoverageTier
	}
	return EligibilityResult{
		Eligible:       true,
		CoverageTier:   tier,
		ApprovedAmount: roundCents(req.Amount * tier / 100),
	}, nil
}

func (m *Mock) SubmitClaim(ctx context.Context, req ClaimRequest) (ClaimResult, error) {
	if err := sleep(ctx, m.opts.ClaimDelay); err != nil {
		return ClaimResult{}, err
	}
	if m.roll() >= m.opts.ClaimApprovalRate {
		return ClaimResult{Approved: false, Message: RejectedClaimMessage}, nil
	}
	return ClaimResult{
		Approved:       true,
		ApprovedAmount: req.Amount,
		Reference:      "CLM-REF-" + uuid.NewString()[:8],
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
