package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

type AppointmentController struct {
	appointments *services.AppointmentService
}

func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

func (ctl *AppointmentController) Register(router gin.IRouter, auth *authorization.Manager) {
	appointments := router.Group("/appointments")
	{
		appointments.POST("", auth.Authorize("appointment", "create"), ctl.BookAppointment)
		appointments.GET("", auth.Authorize("appointment", "view"), ctl.DoctorAppointments)
		appointments.GET("/available-slots", auth.Authorize("appointment", "view"), ctl.AvailableSlots)
		appointments.GET("/:id", auth.Authorize("appointment", "view"), ctl.GetAppointment)
		appointments.POST("/:id/check-in", auth.Authorize("appointment", "update"), ctl.CheckIn)
		appointments.PUT("/:id", auth.Authorize("appointment", "update"), ctl.UpdateAppointment)
	}
}

type appointmentAction struct {
	Action          string `json:"action"`
	Reason          string `json:"reason"`
	AppointmentDate string `json:"appointmentDate"`
	TimeSlot        string `json:"timeSlot"`
}

func (ctl *AppointmentController) BookAppointment(c *gin.Context) {
	var body services.BookingInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	appointment, err := ctl.appointments.BookAppointment(c.Request.Context(), body, actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(appointment))
}

func (ctl *AppointmentController) DoctorAppointments(c *gin.Context) {
	appointments, err := ctl.appointments.GetDoctorAppointments(c.Request.Context(), c.Query("doctorId"), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointments))
}

func (ctl *AppointmentController) AvailableSlots(c *gin.Context) {
	doctorID, date := c.Query("doctorId"), c.Query("date")
	slots, err := ctl.appointments.GetAvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{
		"doctorId":       doctorID,
		"date":           date,
		"availableSlots": slots,
	}))
}

func (ctl *AppointmentController) GetAppointment(c *gin.Context) {
	appointment, err := ctl.appointments.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

func (ctl *AppointmentController) CheckIn(c *gin.Context) {
	appointment, err := ctl.appointments.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}

/*
* Bind the action and dispatch it
* confirm, cancel (with an optional reason), complete,
* reschedule (with appointmentDate and timeSlot)
 */
func (ctl *AppointmentController) UpdateAppointment(c *gin.Context) {
	var body appointmentAction
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		appointment *models.Appointment
		err         error
	)
	switch strings.ToLower(strings.TrimSpace(body.Action)) {
	case "confirm":
		appointment, err = ctl.appointments.ConfirmAppointment(ctx, id)
	case "cancel":
		appointment, err = ctl.appointments.CancelAppointment(ctx, id, body.Reason)
	case "complete":
		appointment, err = ctl.appointments.CompleteAppointment(ctx, id)
	case "reschedule":
		appointment, err = ctl.appointments.RescheduleAppointment(ctx, id, body.AppointmentDate, body.TimeSlot)
	default:
		c.JSON(http.StatusBadRequest, util.FailedResponse(errors.New(util.INVALID_APPOINTMENT_ACTION)))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(appointment))
}
