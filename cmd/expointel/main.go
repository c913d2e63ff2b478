package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/config"
	httptransport "github.com/example/expointel/internal/http"
	"github.com/example/expointel/internal/logging"
	"github.com/example/expointel/internal/persistence/sqlite"
)

func main() {
	// Missing .env files are fine; the environment may already be populated.
	_ = godotenv.Load()

	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	userRepo := sqlite.NewUserRepository(pool)
	expoRepo := sqlite.NewExpoRepository(pool)
	companyRepo := sqlite.NewCompanyRepository(pool)
	shortlistRepo := sqlite.NewShortlistRepository(pool)
	networkRepo := sqlite.NewNetworkRepository(pool)
	expoDayRepo := sqlite.NewExpoDayRepository(pool)

	tokens := application.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL, now)
	authService := application.NewAuthService(userRepo, tokens, idGenerator, now, logger)
	directoryService := application.NewDirectoryService(expoRepo, companyRepo, idGenerator, now, logger)
	engagementService := application.NewEngagementService(shortlistRepo, networkRepo, expoDayRepo, companyRepo, expoRepo, idGenerator, now, logger)
	importService := application.NewImportService(companyRepo, idGenerator, now, logger)
	exportService := application.NewExportService(engagementService, logger)
	seedService := application.NewSeedService(expoRepo, companyRepo, userRepo, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		System: httptransport.NewSystemHandler(func(ctx context.Context) (httptransport.SeedOutcome, error) {
			result, err := seedService.Seed(ctx)
			if err != nil {
				return httptransport.SeedOutcome{}, err
			}
			return httptransport.SeedOutcome{
				AlreadySeeded: result.AlreadySeeded,
				Expos:         result.Expos,
				Companies:     result.Companies,
			}, nil
		}, logger),
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Directory:    httptransport.NewDirectoryHandler(directoryService, logger),
		Engagement:   httptransport.NewEngagementHandler(engagementService, logger),
		Admin:        httptransport.NewAdminHandler(authService, importService, logger),
		Export:       httptransport.NewExportHandler(exportService, logger),
		RequireAuth:  httptransport.RequireToken(authService, logger),
		RequireAdmin: httptransport.RequireAdmin(logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("expo intelligence API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
