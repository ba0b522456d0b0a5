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

// EligibilityChecker is the slice of InsuranceService billing needs.
type EligibilityChecker interface {
	CheckEligibility(ctx context.Context, patientID string, amount float64) (*models.EligibilityResult, error)
}

type PaymentInput struct {
	AppointmentID  string  `json:"appointmentId" validate:"required"`
	Amount         float64 `json:"amount"`
	ApplyInsurance bool    `json:"applyInsurance"`
}

type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type ProcessPaymentInput struct {
	PaymentID     string      `json:"paymentId" validate:"required"`
	PaymentMethod string      `json:"paymentMethod" validate:"required"`
	CardDetails   CardDetails `json:"cardDetails"`
}

type BillingService struct {
	payments     repositories.PaymentRepository
	appointments repositories.AppointmentRepository
	eligibility  EligibilityChecker
	gateway      providers.PaymentGateway
	notifier     notification.Notifier
	now          func() time.Time
}

func NewBillingService(payments repositories.PaymentRepository, appointments repositories.AppointmentRepository, eligibility EligibilityChecker, gateway providers.PaymentGateway, notifier notification.Notifier) *BillingService {
	return &BillingService{
		payments:     payments,
		appointments: appointments,
		eligibility:  eligibility,
		gateway:      gateway,
		notifier:     notifier,
		now:          time.Now,
	}
}

/*
* Amount must be positive and the appointment must exist and not be cancelled
* Only one payment per appointment
* With applyInsurance, the provider's approved amount becomes the coverage,
* capped at the amount. No policy or an ineligible answer means no coverage
* Create the payment as Pending
 */
func (s *BillingService) InitiatePayment(ctx context.Context, input PaymentInput, createdBy string) (*models.Payment, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Amount <= 0 || math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return nil, util.ValidationError(util.AMOUNT_MUST_BE_POSITIVE)
	}
	appointment, err := s.appointments.GetByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, storeError(err, util.APPOINTMENT_NOT_FOUND, "")
	}
	if appointment.Status == models.AppointmentCancelled {
		return nil, util.ValidationError(util.PAYMENT_FOR_CANCELLED_APPOINTMENT)
	}
	if _, err := s.payments.GetByAppointment(ctx, input.AppointmentID); err == nil {
		return nil, util.ConflictError(util.PAYMENT_EXISTS_FOR_APPOINTMENT)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, util.InternalError("failed to check existing payment", err)
	}

	coverage := 0.0
	if input.ApplyInsurance {
		coverage, err = s.coverageFor(ctx, appointment.PatientID, input.Amount)
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	payment := &models.Payment{
		PatientID:         appointment.PatientID,
		AppointmentID:     input.AppointmentID,
		Amount:            input.Amount,
		InsuranceCoverage: coverage,
		PatientPortion:    roundCents(input.Amount - coverage),
		Status:            models.PaymentPending,
		TransactionID:     "TXN-" + uuid.NewString(),
		CreatedAt:         now,
		CreatedBy:         createdBy,
		UpdatedAt:         now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, storeError(err, util.PAYMENT_NOT_FOUND, util.PAYMENT_EXISTS_FOR_APPOINTMENT)
	}
	return payment, nil
}

func (s *BillingService) coverageFor(ctx context.Context, patientID string, amount float64) (float64, error) {
	result, err := s.eligibility.CheckEligibility(ctx, patientID, amount)
	if util.IsKind(err, util.KindNotFound) {
		return 0, nil
	}
	if err != nil {
		log.Println("Error from CheckEligibility: ", err)
		return 0, err
	}
	if !result.Eligible {
		return 0, nil
	}
	return math.Min(result.ApprovedAmount, amount), nil
}

/*
* The payment must exist and be Pending
* Charge the payment amount through the gateway
* Approved: Completed with paidAt and the gateway transaction id
* Declined: Failed, and the gateway message comes back as a ValidationError
* alongside the failed payment
* The write only applies if the payment is still Pending
 */
func (s *BillingService) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*models.Payment, error) {
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	payment, err := s.GetPayment(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, util.ValidationError(util.PAYMENT_NOT_PENDING)
	}

	start := time.Now()
	result, err := s.gateway.Charge(ctx, providers.ChargeRequest{
		PaymentID:  payment.ID.Hex(),
		Amount:     payment.Amount,
		Method:     input.PaymentMethod,
		CardNumber: input.CardDetails.CardNumber,
		CardHolder: input.CardDetails.CardHolder,
		Expiry:     input.CardDetails.Expiry,
		CVV:        input.CardDetails.CVV,
	})
	metrics.RecordProviderCall("payment_gateway", "charge", time.Since(start))
	if err != nil {
		log.Println("Error from payment gateway: ", err)
		return nil, util.InternalError("payment gateway unavailable", err)
	}

	outcome := models.PaymentOutcome{
		Status:        models.PaymentCompleted,
		TransactionID: result.TransactionID,
		PaymentMethod: input.PaymentMethod,
		CardLast4:     lastFour(input.CardDetails.CardNumber),
		At:            s.now().UTC(),
	}
	if !result.Success {
		outcome.Status = models.PaymentFailed
		outcome.FailureReason = result.Message
	}

	updated, err := s.payments.CompleteTransition(ctx, payment.ID.Hex(), outcome)
	if err != nil {
		if errors.Is(err, repositories.ErrStatusChanged) {
			return nil, util.ConflictError(util.PAYMENT_STATUS_CHANGED)
		}
		return nil, storeError(err, util.PAYMENT_NOT_FOUND, "")
	}
	metrics.RecordPayment(string(updated.Status))

	if !result.Success {
		s.notify(ctx, notification.PaymentFailed, updated)
		if result.Message == "" {
			return updated, util.ValidationError(util.PAYMENT_DECLINED)
		}
		return updated, util.ValidationErrorf("%s: %s", util.PAYMENT_DECLINED, result.Message)
	}
	s.notify(ctx, notification.PaymentConfirmed, updated)
	return updated, nil
}

func (s *BillingService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, util.PAYMENT_NOT_FOUND, "")
	}
	return payment, nil
}

func (s *BillingService) GetPatientPayments(ctx context.Context, patientID string) ([]models.Payment, error) {
	payments, err := s.payments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, util.InternalError("failed to load payments", err)
	}
	return payments, nil
}

func (s *BillingService) notify(ctx context.Context, eventType string, p *models.Payment) {
	s.notifier.Notify(ctx, notification.NewEvent(eventType, p.ID.Hex(), p.PatientID, map[string]interface{}{
		"appointmentId":  p.AppointmentID,
		"amount":         p.Amount,
		"patientPortion": p.PatientPortion,
		"status":         string(p.Status),
		"transactionId":  p.TransactionID,
		"failureReason":  p.FailureReason,
	}))
}

// lastFour keeps only the trailing four digits of a card number.
func lastFour(cardNumber string) string {
	digits := make([]rune, 0, len(cardNumber))
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
