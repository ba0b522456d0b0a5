package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	patients     *services.PatientService
	appointments *services.AppointmentService
	billing      *services.BillingService
	insurance    *services.InsuranceService
}

func NewPatientController(patients *services.PatientService, appointments *services.AppointmentService, billing *services.BillingService, insurance *services.InsuranceService) *PatientController {
	return &PatientController{patients: patients, appointments: appointments, billing: billing, insurance: insurance}
}

func (ctl *PatientController) Register(router gin.IRouter, auth *authorization.Manager) {
	patients := router.Group("/patients")
	{
		patients.POST("", auth.Authorize("patient", "create"), ctl.RegisterPatient)
		patients.GET("", auth.Authorize("patient", "view"), ctl.ListPatients)
		patients.GET("/:id", auth.Authorize("patient", "view"), ctl.GetPatient)
		patients.PUT("/:id", auth.Authorize("patient", "update"), ctl.UpdatePatient)
		patients.DELETE("/:id", auth.Authorize("patient", "delete"), ctl.DeletePatient)
		patients.GET("/:id/appointments", auth.Authorize("appointment", "view"), ctl.PatientAppointments)
		patients.GET("/:id/payments", auth.Authorize("billing", "view"), ctl.PatientPayments)
		patients.GET("/:id/policies", auth.Authorize("insurance", "view"), ctl.PatientPolicies)
	}
}

/*
* Bind the patient fields and pass to the service
* A patient left provisional comes back with the error and the stored patient
 */
func (ctl *PatientController) RegisterPatient(c *gin.Context) {
	var body services.PatientInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	patient, err := ctl.patients.RegisterPatient(c.Request.Context(), body, actor(c))
	if err != nil {
		if patient != nil {
			failWithData(c, err, patient)
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(patient))
}

// ListPatients searches when a search query is given, otherwise lists.
func (ctl *PatientController) ListPatients(c *gin.Context) {
	if query, ok := c.GetQuery("search"); ok {
		patients, err := ctl.patients.SearchPatients(c.Request.Context(), query, queryLimit(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, util.SuccessResponse(patients))
		return
	}
	patients, err := ctl.patients.ListPatients(c.Request.Context(), queryLimit(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(patients))
}

func (ctl *PatientController) GetPatient(c *gin.Context) {
	patient, err := ctl.patients.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(patient))
}

func (ctl *PatientController) UpdatePatient(c *gin.Context) {
	var body services.PatientInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	patient, err := ctl.patients.UpdatePatient(c.Request.Context(), c.Param("id"), body, actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(patient))
}

func (ctl *PatientController) DeletePatient(c *gin.Context) {
	if err := ctl.patients.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"id": c.Param("id"), "deleted": true}))
}

func (ctl *PatientController) PatientAppointments(c *gin.Context) {
	appointments, err := ctl.appointments.GetPatientAppointments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointments))
}

func (ctl *PatientController) PatientPayments(c *gin.Context) {
	payments, err := ctl.billing.GetPatientPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(payments))
}

func (ctl *PatientController) PatientPolicies(c *gin.Context) {
	policies, err := ctl.insurance.GetPatientPolicies(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(policies))
}
