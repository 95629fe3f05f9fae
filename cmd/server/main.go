package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/access"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/database"
	"github.com/smileie/smileie-backend/internal/guard"
	"github.com/smileie/smileie-backend/internal/handler"
	"github.com/smileie/smileie-backend/internal/logger"
	"github.com/smileie/smileie-backend/internal/navigation"
	"github.com/smileie/smileie-backend/internal/repository"
	"github.com/smileie/smileie-backend/internal/router"
	"github.com/smileie/smileie-backend/internal/service"
	"github.com/smileie/smileie-backend/internal/session"
	"github.com/smileie/smileie-backend/internal/validator"
	"github.com/smileie/smileie-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Smileie Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, closeRedis, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer closeRedis()

	// ─── Access Gate ───────────────────────────────────────────────────
	evaluator := access.New()
	routeGuard := guard.New(evaluator)
	sessions := session.NewManager(session.NewRedisStore(rdb), cfg.JWTExpiry, logger.Component(log, "session"))

	// ─── Initialize Services ──────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	authService := service.NewAuthService(cfg, sessions, nil)
	userService := service.NewUserService(userRepo, authService)
	authService.SetAccounts(userService)
	menuService := navigation.NewService(navigation.NewFilter(evaluator), rdb, cfg.NavCacheTTL, log)

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	auditWorker := worker.NewLoginAuditWorker(rdb, repository.NewAuditRepository(pool), log)
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		auditWorker.Start(workerCtx)
	}()

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, auditWorker, log),
		Access:     handler.NewAccessHandler(evaluator, routeGuard),
		Navigation: handler.NewNavigationHandler(menuService, log),
		User:       handler.NewUserHandler(userService, log),
		Screen:     handler.NewScreenHandler(),
		WS:         handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, router.Deps{
		Tokens:    authService,
		Sessions:  sessions,
		Evaluator: evaluator,
		Guard:     routeGuard,
		Log:       log,
	}, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout). Open session streams
	// are hijacked connections; their request contexts derive from ctx, so
	// they end when ctx is cancelled below.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	cancel()

	// Stop background workers and wait for the audit queue to drain.
	workerCancel()
	<-auditDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
