package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

type HealthRecordController struct {
	records *services.HealthRecordService
}

func NewHealthRecordController(records *services.HealthRecordService) *HealthRecordController {
	return &HealthRecordController{records: records}
}

func (ctl *HealthRecordController) Register(router gin.IRouter, auth *authorization.Manager) {
	record := router.Group("/patients/:id/health-record")
	{
		record.GET("", auth.Authorize("healthRecord", "view"), ctl.GetRecord)
		record.PUT("", auth.Authorize("healthRecord", "update"), ctl.UpdateDetails)
		record.POST("/encounters", auth.Authorize("healthRecord", "create"), ctl.AddEncounter)
		record.PUT("/encounters/:encounterId/notes", auth.Authorize("healthRecord", "update"), ctl.UpdateNotes)
		record.PUT("/encounters/:encounterId/lab-results", auth.Authorize("healthRecord", "update"), ctl.UpdateLabResults)
		record.POST("/medications", auth.Authorize("healthRecord", "create"), ctl.AddMedication)
		record.POST("/medications/:medicationId/discontinue", auth.Authorize("healthRecord", "update"), ctl.DiscontinueMedication)
	}
}

func (ctl *HealthRecordController) GetRecord(c *gin.Context) {
	record, err := ctl.records.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(record))
}

func (ctl *HealthRecordController) UpdateDetails(c *gin.Context) {
	var body services.RecordDetailsInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	record, err := ctl.records.UpdateRecordDetails(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(record))
}

func (ctl *HealthRecordController) AddEncounter(c *gin.Context) {
	var body services.EncounterInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	if body.DoctorID == "" {
		body.DoctorID = actor(c)
	}
	record, err := ctl.records.AddEncounter(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(record))
}

func (ctl *HealthRecordController) UpdateNotes(c *gin.Context) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	record, err := ctl.records.UpdateMedicalNotes(c.Request.Context(), c.Param("id"), c.Param("encounterId"), body.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(record))
}

func (ctl *HealthRecordController) UpdateLabResults(c *gin.Context) {
	var body struct {
		LabResults []services.LabResultInput `json:"labResults"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	record, err := ctl.records.UpdateLabResults(c.Request.Context(), c.Param("id"), c.Param("encounterId"), body.LabResults)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(record))
}

func (ctl *HealthRecordController) AddMedication(c *gin.Context) {
	var body services.MedicationInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	if body.PrescribedBy == "" {
		body.PrescribedBy = actor(c)
	}
	record, err := ctl.records.AddMedication(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(record))
}

func (ctl *HealthRecordController) DiscontinueMedication(c *gin.Context) {
	record, err := ctl.records.DiscontinueMedication(c.Request.Context(), c.Param("id"), c.Param("medicationId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(record))
}
