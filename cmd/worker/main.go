package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ticketsync/ingestion/internal/api"
	"ticketsync/ingestion/internal/cache"
	"ticketsync/ingestion/internal/client"
	"ticketsync/ingestion/internal/config"
	"ticketsync/ingestion/internal/gamesync"
	"ticketsync/ingestion/internal/metrics"
	"ticketsync/ingestion/internal/repository"
	"ticketsync/ingestion/internal/scheduler"
	"ticketsync/ingestion/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()
	setupLogger(cfg)

	log.Info().Msg("Starting NFL game sync worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("schedule", cfg.SyncSchedule).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// One client per process so every caller shares the request interval
	tmClient := client.NewClient(client.Config{
		BaseURL:         cfg.TicketmasterBaseURL,
		APIKey:          cfg.TicketmasterAPIKey,
		Timeout:         cfg.TicketmasterTimeout,
		RequestInterval: cfg.TicketmasterRequestInterval,
		PageSize:        cfg.TicketmasterPageSize,
		MaxRetries:      cfg.TicketmasterMaxRetries,
	})
	log.Info().Msg("Ticketmaster client initialized")

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	health := map[string]api.HealthCheck{"database": db.Health}

	// The API still works without redis, just uncached
	var queryCache service.Cache
	redisCache, err := cache.NewRedisCache(cache.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
	} else {
		defer redisCache.Close()
		queryCache = redisCache
		health["redis"] = redisCache.Health
	}

	engine := gamesync.NewEngine(tmClient, db, db, gamesync.Config{
		Schedule:     cfg.SyncSchedule,
		MinTeams:     cfg.MinTeamsPerEvent,
		WindowMonths: cfg.SyncWindowMonths,
		VendorName:   cfg.TicketVendorName,
	})
	runner := gamesync.NewRunner(ctx, engine)

	router := api.NewRouter(api.Deps{
		Runner:   runner,
		Games:    service.NewGameService(db, queryCache, cfg.CacheTTL),
		Schedule: cfg.SyncSchedule,
		Health:   health,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			cancel()
		}
	}()

	// Update system uptime and pool metrics
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				db.PoolStats()
			case <-ctx.Done():
				return
			}
		}
	}()

	sched := scheduler.NewScheduler(cfg.SyncSchedule, runner)
	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	if cfg.InitialSyncEnabled {
		go func() {
			log.Info().Msg("Running initial game sync...")
			runner.Trigger(ctx, gamesync.TriggerStartup)
		}()
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	if cfg.EnableScheduler {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger(cfg *config.Config) {
	// Pretty console logging in development
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		level = parsedLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}
