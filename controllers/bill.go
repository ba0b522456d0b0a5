package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

type BillingController struct {
	billing *services.BillingService
}

func NewBillingController(billing *services.BillingService) *BillingController {
	return &BillingController{billing: billing}
}

func (ctl *BillingController) Register(router gin.IRouter, auth *authorization.Manager) {
	billing := router.Group("/billing")
	{
		billing.POST("/payments", auth.Authorize("billing", "create"), ctl.InitiatePayment)
		billing.GET("/payments/:id", auth.Authorize("billing", "view"), ctl.GetPayment)
		billing.POST("/process-payment", auth.Authorize("billing", "update"), ctl.ProcessPayment)
	}
}

func (ctl *BillingController) InitiatePayment(c *gin.Context) {
	var body services.PaymentInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	payment, err := ctl.billing.InitiatePayment(c.Request.Context(), body, actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(payment))
}

func (ctl *BillingController) GetPayment(c *gin.Context) {
	payment, err := ctl.billing.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(payment))
}

/*
* Bind the payment id, method and card details
* A declined charge is a 400 that still carries the failed payment
 */
func (ctl *BillingController) ProcessPayment(c *gin.Context) {
	var body services.ProcessPaymentInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	payment, err := ctl.billing.ProcessPayment(c.Request.Context(), body)
	if err != nil {
		if payment != nil {
			failWithData(c, err, payment)
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(payment))
}
