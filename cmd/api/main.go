package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/scheduling-api/internal/config"
	"github.com/clinicdesk/scheduling-api/internal/handler"
	appointmentHandler "github.com/clinicdesk/scheduling-api/internal/handler/appointment"
	authHandler "github.com/clinicdesk/scheduling-api/internal/handler/auth"
	invoiceHandler "github.com/clinicdesk/scheduling-api/internal/handler/invoice"
	patientHandler "github.com/clinicdesk/scheduling-api/internal/handler/patient"
	"github.com/clinicdesk/scheduling-api/internal/middleware"
	"github.com/clinicdesk/scheduling-api/internal/repository/postgres"
	"github.com/clinicdesk/scheduling-api/internal/router"
	"github.com/clinicdesk/scheduling-api/internal/schedule"
	appointmentService "github.com/clinicdesk/scheduling-api/internal/service/appointment"
	authService "github.com/clinicdesk/scheduling-api/internal/service/auth"
	invoiceService "github.com/clinicdesk/scheduling-api/internal/service/invoice"
	patientService "github.com/clinicdesk/scheduling-api/internal/service/patient"
	"github.com/clinicdesk/scheduling-api/internal/token"
	"github.com/clinicdesk/scheduling-api/pkg/auth"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	grid, err := schedule.NewGrid(cfg.Clinic.OpenHour, cfg.Clinic.CloseHour, cfg.Clinic.Granularity())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid clinic hours configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	revocationStore := token.NewRedisStore(redisClient)
	authSvc := authService.NewService(userRepo, jwtSvc, revocationStore)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, grid, log.Logger)
	patientSvc := patientService.NewService(patientRepo)
	invoiceSvc := invoiceService.NewService(invoiceRepo, appointmentRepo)

	// Handlers
	h := handler.NewHandler()
	authH := authHandler.NewHandler(h, authSvc)
	appointmentH := appointmentHandler.NewHandler(h, appointmentSvc)
	patientH := patientHandler.NewHandler(h, patientSvc)
	invoiceH := invoiceHandler.NewHandler(h, invoiceSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authH,
		appointmentH,
		patientH,
		invoiceH,
		h,
		router.Config{
			RateLimitRPS:   float64(cfg.Server.RateLimitRPS),
			RateLimitBurst: cfg.Server.RateLimitBurst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "scheduling_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
