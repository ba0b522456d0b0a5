package main

import (
	"context"
	"time"

	"github.com/MiniduTH/vitalink-sub001/config"
	"github.com/MiniduTH/vitalink-sub001/config/authorization"
	"github.com/MiniduTH/vitalink-sub001/config/db"
	cache "github.com/MiniduTH/vitalink-sub001/config/redis"
	"github.com/MiniduTH/vitalink-sub001/controllers"
	"github.com/MiniduTH/vitalink-sub001/jobs"
	"github.com/MiniduTH/vitalink-sub001/notification"
	"github.com/MiniduTH/vitalink-sub001/providers"
	"github.com/MiniduTH/vitalink-sub001/reports"
	"github.com/MiniduTH/vitalink-sub001/repositories"
	"github.com/MiniduTH/vitalink-sub001/routes"
	"github.com/MiniduTH/vitalink-sub001/services"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

const providerTimeout = 10 * time.Second

type app struct {
	cfg         *config.Config
	sessions    *authorization.Manager
	staff       *services.StaffService
	controllers routes.Controllers
	scheduler   *jobs.Scheduler
	closers     []func()
}

/*
* Build repositories over mongo, decorated with the redis cache when configured
* Pick real or mock providers, notification sinks and the report uploader
* Assemble services and controllers
 */
func buildApp(ctx context.Context, cfg *config.Config, database *mongo.Database) (*app, error) {
	a := &app{cfg: cfg}
	checks := map[string]controllers.Pinger{
		"mongo": func(ctx context.Context) error { return db.Ping(ctx, database) },
	}

	var patients repositories.PatientRepository = repositories.NewPatientRepository(database)
	records := repositories.NewHealthRecordRepository(database)
	appointments := repositories.NewAppointmentRepository(database)
	payments := repositories.NewPaymentRepository(database)
	insurance := repositories.NewInsuranceRepository(database)
	staff := repositories.NewStaffRepository(database)

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		redisClient = client
		a.closers = append(a.closers, func() { _ = client.Close() })
		patients = repositories.NewCachedPatientRepository(patients, client, cfg.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	catalog, err := slotCatalog(cfg)
	if err != nil {
		return nil, err
	}

	mock := providers.NewMock(providers.MockOptions{
		PaymentDelay:       cfg.MockPaymentDelay,
		EligibilityDelay:   cfg.MockInsuranceDelay,
		ClaimDelay:         cfg.MockClaimDelay,
		PaymentSuccessRate: providers.PaymentSuccessRate,
		EligibilityRate:    providers.EligibilityRate,
		ClaimApprovalRate:  providers.ClaimApprovalRate,
	})
	var gateway providers.PaymentGateway = mock
	if cfg.PaymentGatewayURL != "" {
		gateway = providers.NewHTTPGateway(cfg.PaymentGatewayURL, providerTimeout)
	}
	var insuranceProvider providers.InsuranceProvider = mock
	if cfg.InsuranceURL != "" {
		insuranceProvider = providers.NewHTTPInsurance(cfg.InsuranceURL, providerTimeout)
	}

	sinks := []notification.Sink{notification.LogSink{}}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := notification.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, kafka)
		a.closers = append(a.closers, func() {
			if err := kafka.Close(); err != nil {
				log.Println("Error while closing kafka writer: ", err)
			}
		})
	}
	notifier := notification.NewDispatcher(sinks...)

	var uploader reports.Uploader
	if cfg.ReportS3Bucket != "" {
		s3, err := reports.NewS3Uploader(ctx, cfg.ReportS3Bucket)
		if err != nil {
			return nil, err
		}
		uploader = s3
	}
	exporter := reports.NewExporter(cfg.ReportDir, uploader)

	a.sessions = authorization.NewManager(cfg.JWTSecret, cfg.SessionTTL, cfg.EnforceAPIAuth)

	patientService := services.NewPatientService(patients, records, notifier)
	appointmentService := services.NewAppointmentService(appointments, patients, catalog, notifier)
	if redisClient != nil && cfg.BookingLockEnabled {
		appointmentService.WithLocker(cache.NewLocker(redisClient, cfg.BookingLockTTL))
	}
	insuranceService := services.NewInsuranceService(insurance, patients, payments, insuranceProvider, notifier)
	billingService := services.NewBillingService(payments, appointments, insuranceService, gateway, notifier)
	recordService := services.NewHealthRecordService(records)
	reportingService := services.NewReportingService(appointments, payments, staff, exporter)
	a.staff = services.NewStaffService(staff)
	authService := services.NewAuthService(staff, a.sessions)

	a.controllers = routes.Controllers{
		Auth:         controllers.NewAuthController(authService, a.sessions),
		Health:       controllers.NewHealthController(checks),
		Mock:         controllers.NewMockController(mock, mock),
		Patients:     controllers.NewPatientController(patientService, appointmentService, billingService, insuranceService),
		Records:      controllers.NewHealthRecordController(recordService),
		Appointments: controllers.NewAppointmentController(appointmentService),
		Billing:      controllers.NewBillingController(billingService),
		Insurance:    controllers.NewInsuranceController(insuranceService),
		Reports:      controllers.NewReportController(reportingService),
		Staff:        controllers.NewStaffController(a.staff),
	}
	a.scheduler = jobs.NewScheduler(patientService, reportingService)
	return a, nil
}

func slotCatalog(cfg *config.Config) (*services.SlotCatalog, error) {
	if cfg.SlotCatalogFile != "" {
		return services.LoadSlotCatalog(cfg.SlotCatalogFile)
	}
	slots, err := services.GenerateSlots(cfg.SlotStart, cfg.SlotEnd, cfg.SlotMinutes)
	if err != nil {
		return nil, err
	}
	return services.NewSlotCatalog(slots), nil
}

func (a *app) routes(r *gin.Engine) {
	routes.Routes(r, a.sessions, a.controllers, routes.Options{
		CORSOrigins:    a.cfg.CORSOrigins,
		RateLimitRPS:   a.cfg.RateLimitRPS,
		RateLimitBurst: a.cfg.RateLimitBurst,
	})
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
