// Command syncnow runs a single game sync and prints its report as JSON.
// It exits non-zero when the run fails.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ticketsync/ingestion/internal/client"
	"ticketsync/ingestion/internal/config"
	"ticketsync/ingestion/internal/gamesync"
	"ticketsync/ingestion/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

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

	if err := db.Health(ctx); err != nil {
		db.Close()
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	tmClient := client.NewClient(client.Config{
		BaseURL:         cfg.TicketmasterBaseURL,
		APIKey:          cfg.TicketmasterAPIKey,
		Timeout:         cfg.TicketmasterTimeout,
		RequestInterval: cfg.TicketmasterRequestInterval,
		PageSize:        cfg.TicketmasterPageSize,
		MaxRetries:      cfg.TicketmasterMaxRetries,
	})

	engine := gamesync.NewEngine(tmClient, db, db, gamesync.Config{
		Schedule:     cfg.SyncSchedule,
		MinTeams:     cfg.MinTeamsPerEvent,
		WindowMonths: cfg.SyncWindowMonths,
		VendorName:   cfg.TicketVendorName,
	})

	report := gamesync.NewRunner(ctx, engine).Trigger(ctx, gamesync.TriggerCLI)
	db.Close()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error().Err(err).Msg("Failed to write report")
	}

	if !report.Succeeded() {
		os.Exit(1)
	}
}
