package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard-backend/config"
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/repository/s3store"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/otp"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/sms"
	"go-jobboard-backend/pkg/storage"
	"go-jobboard-backend/pkg/token"
)

// @title           Job Board Backend API
// @version         1.0
// @description     Job board backend with OTP-verified registration for seekers and companies.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting job board backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; rate limiting falls back to in-memory)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
		}
	}

	// 5. Setup Repositories
	pendingRepo := postgres.NewPendingRegistrationRepository(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)

	// Reclaim abandoned registrations in the background. Expired rows are
	// kept for a day so an in-place reissue can still reuse the payload.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredRegistrations(sweepCtx, pendingRepo, cfg.PendingSweepInterval, cfg.PendingRetention)

	// 6. Setup Delivery and Storage Services
	emailService := email.NewService(email.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
		CodeTTL:   cfg.OTPTTL,
	})
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - email verification will fail")
	}

	smsService := sms.NewService(sms.Config{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	})
	if !smsService.IsConfigured() {
		logger.Log.Warn("SMS service not fully configured - phone verification will fail")
	}

	uploader, err := storage.NewUploader(context.Background(), storage.ClientConfig{
		Provider:        storage.Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Log.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	docStore := s3store.New(uploader)

	// 7. Setup UseCases
	issuer := otp.NewIssuer(cfg.OTPTTL)
	seekerTokens := token.NewManager(cfg.SeekerTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	companyTokens := token.NewManager(cfg.CompanyTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	registrationUC := usecase.NewRegistrationUsecase(
		pendingRepo,
		usecase.NewSeekerMaterializer(userRepo),
		usecase.NewCompanyMaterializer(companyRepo),
		emailService,
		smsService,
		docStore,
		issuer,
		usecase.RegistrationConfig{
			ResendBaseWait:    cfg.ResendBaseWait,
			ResendBackoffStep: cfg.ResendBackoffStep,
		},
	)
	authUC := usecase.NewAuthUsecase(userRepo, companyRepo, seekerTokens, companyTokens, issuer, emailService)
	userUC := usecase.NewUserUsecase(userRepo, docStore)
	companyUC := usecase.NewCompanyUsecase(companyRepo, docStore)
	jobUC := usecase.NewJobUsecase(jobRepo, companyRepo)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		RegistrationUC: registrationUC,
		AuthUC:         authUC,
		UserUC:         userUC,
		CompanyUC:      companyUC,
		JobUC:          jobUC,
		SeekerTokens:   seekerTokens,
		CompanyTokens:  companyTokens,
		Config:         cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// sweepExpiredRegistrations periodically deletes pending registrations whose
// code expired longer than retention ago.
func sweepExpiredRegistrations(ctx context.Context, repo domain.PendingRegistrationRepository, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx, time.Now().Add(-retention))
			if err != nil {
				logger.Log.Warn("Expired registration sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Log.Info("Reclaimed expired pending registrations", "count", deleted)
			}
		}
	}
}
