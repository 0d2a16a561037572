package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"leadmarket.backend/internal/config"
	"leadmarket.backend/internal/infrastructure/gateway"
	"leadmarket.backend/internal/infrastructure/jobs"
	"leadmarket.backend/internal/infrastructure/notifications"
	"leadmarket.backend/internal/infrastructure/repositories"
	"leadmarket.backend/internal/interfaces/http/handlers"
	"leadmarket.backend/internal/interfaces/http/middleware"
	"leadmarket.backend/internal/usecases"
	"leadmarket.backend/pkg/jwt"
	"leadmarket.backend/pkg/logger"
	"leadmarket.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	jobRepo := repositories.NewJobRepository(db)
	accessRepo := repositories.NewJobAccessRepository(db)
	leadPaymentRepo := repositories.NewLeadPaymentRepository(db)
	applicationRepo := repositories.NewJobApplicationRepository(db)
	contractorRepo := repositories.NewContractorRepository(db)
	creditTxRepo := repositories.NewCreditTransactionRepository(db)
	commissionRepo := repositories.NewCommissionRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	pricingRepo := repositories.NewServicePricingRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// External payment gateway and notifications
	paymentGateway := gateway.NewHTTPGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)
	notifier := notifications.NewLogNotifier()

	// Initialize usecases
	pricingUsecase := usecases.NewPricingUsecase(pricingRepo, jobRepo)
	creditUsecase := usecases.NewCreditLedgerUsecase(contractorRepo, creditTxRepo, auditRepo, uow)
	contractorUsecase := usecases.NewContractorUsecase(contractorRepo, creditUsecase)
	jobUsecase := usecases.NewJobLifecycleUsecase(jobRepo, accessRepo, applicationRepo, notifier, uow)
	leadAccessUsecase := usecases.NewLeadAccessUsecase(jobRepo, accessRepo, leadPaymentRepo, contractorRepo, pricingUsecase, creditUsecase, paymentGateway, notifier, uow)
	commissionUsecase := usecases.NewCommissionUsecase(jobRepo, accessRepo, commissionRepo, invoiceRepo, contractorRepo, leadPaymentRepo, auditRepo, paymentGateway, notifier, uow, cfg.Marketplace.CommissionRate, cfg.Marketplace.CommissionDueDays)

	// Initialize handlers
	jobHandler := handlers.NewJobHandler(jobUsecase, contractorUsecase)
	leadAccessHandler := handlers.NewLeadAccessHandler(leadAccessUsecase, pricingUsecase, contractorUsecase)
	contractorHandler := handlers.NewContractorHandler(contractorUsecase)
	creditHandler := handlers.NewCreditHandler(creditUsecase, contractorUsecase)
	commissionHandler := handlers.NewCommissionHandler(commissionUsecase, contractorUsecase)
	pricingHandler := handlers.NewPricingHandler(pricingUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	overdueSweepJob := jobs.NewCommissionOverdueSweepJob(commissionUsecase, cfg.Marketplace.OverdueSweepInterval)
	go overdueSweepJob.Start(ctx)

	creditResetJob := jobs.NewWeeklyCreditResetJob(creditUsecase, cfg.Marketplace.CreditResetInterval)
	go creditResetJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		jobHandler:        jobHandler,
		leadAccessHandler: leadAccessHandler,
		contractorHandler: contractorHandler,
		creditHandler:     creditHandler,
		commissionHandler: commissionHandler,
		pricingHandler:    pricingHandler,
		authMiddleware:    authMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		overdueSweepJob.Stop()
		creditResetJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 LeadMarket Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
