package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

type StaffController struct {
	staff *services.StaffService
}

func NewStaffController(staff *services.StaffService) *StaffController {
	return &StaffController{staff: staff}
}

func (ctl *StaffController) Register(router gin.IRouter, auth *authorization.Manager) {
	view := auth.Authorize("staff", "view")
	router.GET("/staff", view, ctl.ListStaff)
	router.GET("/staff/:id", view, ctl.GetStaff)
	router.GET("/departments", view, ctl.ListDepartments)
	router.GET("/departments/:id", view, ctl.GetDepartment)
	router.GET("/hospital", view, ctl.GetHospital)
}

// ListStaff filters by ?role= and ?departmentId= when given.
func (ctl *StaffController) ListStaff(c *gin.Context) {
	staff, err := ctl.staff.ListStaff(c.Request.Context(), c.Query("role"), c.Query("departmentId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(staff))
}

func (ctl *StaffController) GetStaff(c *gin.Context) {
	staff, err := ctl.staff.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(staff))
}

func (ctl *StaffController) ListDepartments(c *gin.Context) {
	departments, err := ctl.staff.ListDepartments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(departments))
}

func (ctl *StaffController) GetDepartment(c *gin.Context) {
	department, err := ctl.staff.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(department))
}

func (ctl *StaffController) GetHospital(c *gin.Context) {
	hospital, err := ctl.staff.GetHospital(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(hospital))
}
