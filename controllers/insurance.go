package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

type InsuranceController struct {
	insurance *services.InsuranceService
}

func NewInsuranceController(insurance *services.InsuranceService) *InsuranceController {
	return &InsuranceController{insurance: insurance}
}

func (ctl *InsuranceController) Register(router gin.IRouter, auth *authorization.Manager) {
	insurance := router.Group("/insurance")
	{
		insurance.POST("/policies", auth.Authorize("insurance", "create"), ctl.CreatePolicy)
		insurance.GET("/policies/:id/claims", auth.Authorize("insurance", "view"), ctl.PolicyClaims)
		insurance.POST("/check-eligibility", auth.Authorize("insurance", "view"), ctl.CheckEligibility)
		insurance.POST("/claims", auth.Authorize("insurance", "create"), ctl.SubmitClaim)
		insurance.GET("/claims/:id", auth.Authorize("insurance", "view"), ctl.GetClaim)
	}
}

func (ctl *InsuranceController) CreatePolicy(c *gin.Context) {
	var body services.PolicyInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	policy, err := ctl.insurance.CreatePolicy(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(policy))
}

func (ctl *InsuranceController) CheckEligibility(c *gin.Context) {
	var body services.EligibilityInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	result, err := ctl.insurance.CheckEligibility(c.Request.Context(), body.PatientID, body.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(result))
}

func (ctl *InsuranceController) SubmitClaim(c *gin.Context) {
	var body services.ClaimInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	claim, err := ctl.insurance.SubmitClaim(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(claim))
}

func (ctl *InsuranceController) GetClaim(c *gin.Context) {
	claim, err := ctl.insurance.GetClaim(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(claim))
}

func (ctl *InsuranceController) PolicyClaims(c *gin.Context) {
	claims, err := ctl.insurance.GetPolicyClaims(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(claims))
}
