package controllers

import (
	"net/http"

	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/services"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reports *services.ReportingService
}

func NewReportController(reports *services.ReportingService) *ReportController {
	return &ReportController{reports: reports}
}

func (ctl *ReportController) Register(router gin.IRouter, auth *authorization.Manager) {
	reports := router.Group("/reports")
	{
		reports.GET("/patient-flow", auth.Authorize("report", "view"), ctl.PatientFlow)
		reports.GET("/revenue", auth.Authorize("report", "view"), ctl.Revenue)
		reports.GET("/department-load", auth.Authorize("report", "view"), ctl.DepartmentLoad)
		reports.POST("/export", auth.Authorize("report", "create"), ctl.Export)
	}
}

func (ctl *ReportController) PatientFlow(c *gin.Context) {
	report, err := ctl.reports.PatientFlow(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(report))
}

func (ctl *ReportController) Revenue(c *gin.Context) {
	report, err := ctl.reports.Revenue(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(report))
}

func (ctl *ReportController) DepartmentLoad(c *gin.Context) {
	report, err := ctl.reports.DepartmentLoad(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(report))
}

/*
* Bind reportType, reportData and format
* Pass to the service, which writes the file and uploads it when configured
 */
func (ctl *ReportController) Export(c *gin.Context) {
	var body services.ExportInput
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	result, err := ctl.reports.Export(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(result))
}
