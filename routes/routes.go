package routes

import (
	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/controllers"
	"github.com/MiniduTH/vitalink-sub001/metrics"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth         *controllers.AuthController
	Health       *controllers.HealthController
	Mock         *controllers.MockController
	Roles        controllers.RoleController
	Patients     *controllers.PatientController
	Records      *controllers.HealthRecordController
	Appointments *controllers.AppointmentController
	Billing      *controllers.BillingController
	Insurance    *controllers.InsuranceController
	Reports      *controllers.ReportController
	Staff        *controllers.StaffController
}

type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Routes(r *gin.Engine, sessions *authorization.Manager, ctl Controllers, opts Options) {
	r.Use(RequestLogger(), metrics.Middleware(), CORS(opts.CORSOrigins))
	if opts.RateLimitRPS > 0 {
		r.Use(NewIPRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Middleware())
	}

	//public
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	ctl.Health.Register(r)
	ctl.Auth.Register(r)
	ctl.Mock.Register(r)
	ctl.Roles.Register(r)

	//private routes
	r.Use(sessions.Session())
	ctl.Patients.Register(r, sessions)
	ctl.Records.Register(r, sessions)
	ctl.Appointments.Register(r, sessions)
	ctl.Billing.Register(r, sessions)
	ctl.Insurance.Register(r, sessions)
	ctl.Reports.Register(r, sessions)
	ctl.Staff.Register(r, sessions)
}
