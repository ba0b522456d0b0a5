package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/providers"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// MockController serves the simulated payment gateway and insurance
// provider. Replies are the bare provider results: 200 for an approval,
// 400 for a decline.
type MockController struct {
	gateway   providers.PaymentGateway
	insurance providers.InsuranceProvider
}

func NewMockController(gateway providers.PaymentGateway, insurance providers.InsuranceProvider) *MockController {
	return &MockController{gateway: gateway, insurance: insurance}
}

func (ctl *MockController) Register(router gin.IRouter) {
	mock := router.Group("/mock")
	{
		mock.POST("/payment-gateway", ctl.Charge)
		mock.POST("/insurance-provider", ctl.CheckEligibility)
		mock.POST("/insurance-provider/claims", ctl.SubmitClaim)
	}
}

func answer(c *gin.Context, ok bool, body interface{}) {
	if ok {
		c.JSON(http.StatusOK, body)
		return
	}
	c.JSON(http.StatusBadRequest, body)
}

func (ctl *MockController) Charge(c *gin.Context) {
	var req providers.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, providers.ChargeResult{Message: "invalid request"})
		return
	}
	res, err := ctl.gateway.Charge(c.Request.Context(), req)
	if err != nil {
		log.Println("Error from mock gateway: ", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}
	answer(c, res.Success, res)
}

func (ctl *MockController) CheckEligibility(c *gin.Context) {
	var req providers.EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, providers.EligibilityResult{Message: "invalid request"})
		return
	}
	res, err := ctl.insurance.CheckEligibility(c.Request.Context(), req)
	if err != nil {
		log.Println("Error from mock insurance eligibility: ", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}
	answer(c, res.Eligible, res)
}

func (ctl *MockController) SubmitClaim(c *gin.Context) {
	var req providers.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, providers.ClaimResult{Message: "invalid request"})
		return
	}
	res, err := ctl.insurance.SubmitClaim(c.Request.Context(), req)
	if err != nil {
		log.Println("Error from mock insurance claim: ", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}
	answer(c, res.Approved, res)
}
