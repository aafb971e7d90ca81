/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the contract-engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load YAML config if given
  2. Initialize SQLite store
  3. Create API handler with scheduler and valuer
  4. Configure HTTP router and the revaluation cron job
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML configuration file (optional)
  -addr    Listen address (overrides config)
  -db      SQLite database path (overrides config; ":memory:" works)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the revaluation job and close the database

SEE ALSO:
  - api/server.go: router configuration
  - config/config.go: YAML settings
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/contract-engine/api"
	"github.com/warp/contract-engine/config"
	"github.com/warp/contract-engine/schedule"
	"github.com/warp/contract-engine/store/sqlite"
	"github.com/warp/contract-engine/valuation"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML configuration file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	handler.DefaultHorizon = schedule.Today().AddYears(cfg.HorizonYears)
	handler.Valuer = valuation.NewValuer(valuation.FlatRateProvider{Rate: cfg.FlatDiscountRate}, "FLAT")

	// Background revaluation
	reval := api.NewRevaluationJob(store, handler, cfg.RevaluationCron)
	if err := reval.Start(); err != nil {
		log.Fatalf("Failed to start revaluation job: %v", err)
	}
	defer reval.Stop()

	// Create server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
