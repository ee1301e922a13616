package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/schoolfund/backend/internal/application/billing"
	contributionapp "github.com/schoolfund/backend/internal/application/contribution"
	graduationapp "github.com/schoolfund/backend/internal/application/graduation"
	identityapp "github.com/schoolfund/backend/internal/application/identity"
	schoolapp "github.com/schoolfund/backend/internal/application/school"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/auth"
	"github.com/schoolfund/backend/internal/infrastructure/config"
	"github.com/schoolfund/backend/internal/infrastructure/logger"
	"github.com/schoolfund/backend/internal/infrastructure/persistence"
	"github.com/schoolfund/backend/internal/interfaces/http/handler"
	"github.com/schoolfund/backend/internal/interfaces/http/middleware"
	"github.com/schoolfund/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	engine := buildEngine(cfg, db, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// buildEngine wires repositories, services, middleware and routes into a
// ready-to-serve gin engine.
func buildEngine(cfg *config.Config, db *persistence.Database, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	events := persistence.NewGormEventRepository(db.DB)
	billingLines := persistence.NewGormBillingLineRepository(db.DB)
	stockLines := persistence.NewGormStockLineRepository(db.DB)
	contributions := persistence.NewGormContributionRepository(db.DB)
	individuals := persistence.NewGormIndividualContributionRepository(db.DB)
	graduations := persistence.NewGormGraduationRepository(db.DB)
	payments := persistence.NewGormGraduationPaymentRepository(db.DB)
	students := persistence.NewGormStudentRepository(db.DB)
	users := persistence.NewGormUserRepository(db.DB)

	// Recalculators and the per-aggregate write lock they run under
	eventRecalc := billingapp.NewEventRecalculator(events, billingLines, stockLines, log)
	contributionRecalc := contributionapp.NewRecalculator(contributions, individuals, log)
	graduationRecalc := graduationapp.NewRecalculator(graduations, payments, log)
	locks := shared.NewKeyedMutex()

	opTimeout := cfg.App.OperationTimeout

	// Application services
	eventService := billingapp.NewEventService(events, eventRecalc, locks, opTimeout, log)
	billingLineService := billingapp.NewBillingLineService(billingLines, events, eventRecalc, locks, opTimeout, log)
	stockLineService := billingapp.NewStockLineService(stockLines, events, eventRecalc, locks, opTimeout, log)
	contributionService := contributionapp.NewService(contributions, contributionRecalc, locks, opTimeout, log)
	individualService := contributionapp.NewIndividualService(individuals, contributions, contributionRecalc, locks, opTimeout, log)
	graduationService := graduationapp.NewService(graduations, graduationRecalc, locks, opTimeout, log)
	paymentService := graduationapp.NewPaymentService(payments, graduations, graduationRecalc, locks, opTimeout, log)
	studentService := schoolapp.NewStudentService(students, opTimeout, log)
	userService := identityapp.NewUserService(users, opTimeout, log)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	revoked := auth.NewRevocationList()
	authService := identityapp.NewAuthService(users, jwtService, revoked, opTimeout, log)

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins),
	)

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Revoked = revoked
	jwtCfg.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	router.New(engine).Register(
		handler.NewHealthHandler(db),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewStudentHandler(studentService),
		handler.NewEventHandler(eventService, billingLineService, stockLineService),
		handler.NewBillingLineHandler(billingLineService),
		handler.NewStockLineHandler(stockLineService),
		handler.NewContributionHandler(contributionService, individualService),
		handler.NewGraduationHandler(graduationService, paymentService),
	).Setup()

	return engine
}
