package controllers

import (
	"net/http"
	"testing"

	"github.com/MiniduTH/vitalink-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *harness) createPolicy(patientID string) models.InsurancePolicy {
	h.t.Helper()
	w := h.do(http.MethodPost, "/insurance/policies", map[string]interface{}{
		"patientId":          patientID,
		"provider":           "Ceylinco",
		"policyNumber":       "POL-1001",
		"coveragePercentage": 50,
		"maxCoverage":        5000,
		"endDate":            "2099-12-31",
	}, "")
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	var policy models.InsurancePolicy
	decode(h.t, w, &policy)
	return policy
}

func TestCreatePolicy(t *testing.T) {
	h := newHarness(t, false)
	patientID := h.addPatient()

	policy := h.createPolicy(patientID)
	assert.Equal(t, models.PolicyActive, policy.Status)

	w := h.do(http.MethodPost, "/insurance/policies", map[string]interface{}{
		"patientId": patientID, "provider": "Ceylinco", "policyNumber": "POL-1001",
		"coveragePercentage": 50, "maxCoverage": 5000, "endDate": "2099-12-31",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/insurance/policies", map[string]interface{}{"patientId": patientID}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckEligibility(t *testing.T) {
	h := newHarness(t, false)
	patientID := h.addPatient()
	h.createPolicy(patientID)

	w := h.do(http.MethodPost, "/insurance/check-eligibility", map[string]interface{}{"patientId": patientID, "amount": 1000}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result models.EligibilityResult
	decode(t, w, &result)
	assert.True(t, result.Eligible)
	assert.Equal(t, 800.0, result.ApprovedAmount)
}

func TestCheckEligibility_NoPolicy(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodPost, "/insurance/check-eligibility", map[string]interface{}{"patientId": h.addPatient(), "amount": 1000}, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitClaim(t *testing.T) {
	h := newHarness(t, false)
	patientID := h.addPatient()
	policy := h.createPolicy(patientID)
	payment := h.initiatePayment(h.addAppointment(patientID, models.AppointmentCompleted), 1000)

	body := map[string]interface{}{"policyId": policy.ID.Hex(), "paymentId": payment.ID.Hex(), "amount": 500}
	w := h.do(http.MethodPost, "/insurance/claims", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var claim models.InsuranceClaim
	decode(t, w, &claim)
	assert.Equal(t, models.ClaimApproved, claim.Status)

	assert.Equal(t, http.StatusConflict, h.do(http.MethodPost, "/insurance/claims", body, "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/insurance/claims/"+claim.ID.Hex(), nil, "").Code)

	var claims []models.InsuranceClaim
	w = h.do(http.MethodGet, "/insurance/policies/"+policy.ID.Hex()+"/claims", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &claims)
	assert.Len(t, claims, 1)
}

func TestGetClaim_NotFound(t *testing.T) {
	h := newHarness(t, false)

	w := h.do(http.MethodGet, "/insurance/claims/"+primitive.NewObjectID().Hex(), nil, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
