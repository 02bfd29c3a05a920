/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the vacation engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment (.env) and parse command-line flags
  2. Initialize structured logger
  3. Initialize SQLite store (runs migrations)
  4. Seed the vacation policy if none is stored yet
  5. Create service, handler and router
  6. Start the provisioning scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (APP_PORT, default: 8080)
  -db      SQLite database path (DB_PATH, default: ferias.db)
           Use ":memory:" for in-memory database

ENVIRONMENT:
  APP_ENV          development | production
  LOG_LEVEL        debug | info | warn | error
  APP_TIMEZONE     zone deciding "today" (default: America/Sao_Paulo)
  CORS_ORIGINS     comma-separated allowed origins
  APP_CONFIG_FILE  JSON policy document used when the store has none
  SCHEDULER_ENABLED   automatic period provisioning (default: true)
  SCHEDULER_INTERVAL  provisioning check interval (default: 24h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment loading
  - factory/config.go: Policy document format
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/warp/ferias-engine/api"
	"github.com/warp/ferias-engine/config"
	"github.com/warp/ferias-engine/factory"
	"github.com/warp/ferias-engine/ferias"
	"github.com/warp/ferias-engine/generic"
	"github.com/warp/ferias-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	// Flags
	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	flag.Parse()

	level, _ := cfg.SlogLevel()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ferias-engine"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", slog.String("path", *dbPath), slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	if err := seedPolicy(context.Background(), store, cfg.PolicyFile, logger); err != nil {
		logger.Error("failed to seed vacation policy", slog.Any("error", err))
		os.Exit(1)
	}

	loc, _ := cfg.Location()
	svc := ferias.NewService(store, generic.SystemClock{Location: loc}, logger)
	handler := api.NewHandler(svc, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	scheduler := api.NewProvisionScheduler(svc, logger)
	scheduler.Enabled = cfg.Scheduler.Enabled
	scheduler.CheckInterval = cfg.Scheduler.Interval
	handler.Scheduler = scheduler
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down")
		scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting", slog.Int("port", *port), slog.String("db", *dbPath))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("could not listen on port", slog.Int("port", *port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}

// seedPolicy stores the policy from path, or the defaults, when the store
// has no configuration yet. An existing configuration is never overwritten.
func seedPolicy(ctx context.Context, store ferias.ConfigStore, path string, logger *slog.Logger) error {
	_, err := store.GetConfig(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, generic.ErrConfigMissing) {
		return err
	}

	policy := ferias.DefaultAppConfig()
	if path != "" {
		doc, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		policy, err = factory.NewConfigFactory().ParseConfig(string(doc))
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := store.SaveConfig(ctx, policy); err != nil {
		return err
	}
	source := path
	if source == "" {
		source = "defaults"
	}
	logger.Info("vacation policy seeded", slog.String("source", source))
	return nil
}
