package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/polyclinicapp/booking-api/internal/config"
	appointmentHandler "github.com/polyclinicapp/booking-api/internal/handler/appointment"
	authHandler "github.com/polyclinicapp/booking-api/internal/handler/auth"
	doctorHandler "github.com/polyclinicapp/booking-api/internal/handler/doctor"
	healthHandler "github.com/polyclinicapp/booking-api/internal/handler/health"
	"github.com/polyclinicapp/booking-api/internal/middleware"
	"github.com/polyclinicapp/booking-api/internal/repository/postgres"
	"github.com/polyclinicapp/booking-api/internal/router"
	bookingService "github.com/polyclinicapp/booking-api/internal/service/booking"
	doctorService "github.com/polyclinicapp/booking-api/internal/service/doctor"
	eventService "github.com/polyclinicapp/booking-api/internal/service/event"
	scheduleService "github.com/polyclinicapp/booking-api/internal/service/schedule"
	userService "github.com/polyclinicapp/booking-api/internal/service/user"
	"github.com/polyclinicapp/booking-api/pkg/auth"
	"github.com/polyclinicapp/booking-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	// Schema and seed data are idempotent; every start runs both.
	migrator := postgres.NewMigrator(db)
	if err := migrator.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize schema")
	}
	if err := migrator.Seed(ctx, cfg.Seed); err != nil {
		log.Fatal().Err(err).Msg("failed to seed reference data")
	}

	m := metrics.NewMetrics("polyclinic", "api")

	// Initialize repositories
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	scheduleRepo := postgres.NewScheduleRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	// Initialize services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	eventSvc := eventService.NewService(outboxRepo)
	userSvc := userService.NewService(userRepo, jwtSvc, eventSvc, m)
	doctorSvc := doctorService.NewService(doctorRepo)
	scheduleSvc := scheduleService.NewService(scheduleRepo, doctorRepo)
	bookingSvc := bookingService.NewService(appointmentRepo, userRepo, scheduleRepo, eventSvc, m)

	// Setup router
	r := router.NewRouter(
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsPrefix:    "polyclinic",
		},
		authHandler.NewHandler(userSvc),
		doctorHandler.NewHandler(doctorSvc, scheduleSvc),
		appointmentHandler.NewHandler(bookingSvc, middleware.NewAuthMiddleware(jwtSvc)),
		healthHandler.NewHandler(db),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
