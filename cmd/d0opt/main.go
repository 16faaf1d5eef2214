package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/cli"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/config"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/db"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/repository"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Call logging is opt-in; the TUI owns the terminal otherwise.
	var observer predict.Observer = predict.NoopObserver{}
	var useCaseObservers []service.UseCaseObserver
	if cfg.LogCalls {
		observer = predict.NewLogObserver(logger)
		useCaseObservers = append(useCaseObservers, service.NewSlogUseCaseObserver(logger))
	}

	client := predict.NewHTTPClient(predict.Config{
		Endpoint:        cfg.Endpoint,
		Timeout:         cfg.Timeout,
		BreakerFailures: cfg.BreakerFailures,
	}, observer)

	// Wire local history when enabled
	var history service.HistoryService
	if cfg.History {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		history = service.NewHistoryService(
			repository.NewSQLiteRecommendationRepo(database),
			db.NewSQLiteUnitOfWork(database),
			cfg.HistoryMax,
			useCaseObservers...,
		)
	}

	builder := sensitivity.NewBuilder(cfg.TargetBrightness, cfg.Sweep())
	advice := service.NewAdviceService(service.AdviceDeps{
		Client:  client,
		Builder: &builder,
		History: history,
		Logger:  logger,
	}, useCaseObservers...)

	app := &cli.App{
		Advice:   advice,
		History:  history,
		Client:   client,
		Schema:   cfg.SchemaVersion(),
		Endpoint: cfg.Endpoint,
		Target:   cfg.TargetBrightness,
		Chart:    sensitivity.DefaultExportOptions(),
	}

	// Detect interactive terminal for the dashboard entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
