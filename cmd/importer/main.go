package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/config"
	"neowatch/internal/repository"
	"neowatch/internal/service"
	"neowatch/pkg/database"
	"neowatch/pkg/logger"
	"neowatch/pkg/metrics"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitPartial = 2
)

type options struct {
	Date  string `long:"date" short:"d" description:"Day to import (YYYY-MM-DD), defaults to today"`
	Debug bool   `long:"debug" description:"Enable debug logging"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return exitOK
		}
		return exitFailure
	}

	date, err := service.ParseImportDate(opts.Date, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.New(cfg.App.Debug || opts.Debug)
	defer log.Sync()

	db, err := database.Connect(database.Config(cfg.DB), opts.Debug)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return exitFailure
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Error("Failed to migrate database", "error", err)
		return exitFailure
	}

	importer := service.NewImportService(
		repository.NewAsteroidRepository(db),
		nil,
		clients.NewNEOClient(clients.NEOConfig{
			APIKey:  cfg.NASA.APIKey,
			NEOURL:  cfg.NASA.NEOURL,
			Timeout: cfg.NASA.Timeout,
		}),
		metrics.New("neowatch_importer", nil),
		log,
		service.ImportConfig{},
	)

	result, err := importer.Import(context.Background(), date)
	if err != nil {
		log.Error("Import failed", "date", date.Format("2006-01-02"), "error", err)
	}
	if result != nil {
		printSummary(result)
	}

	return exitCode(result, err)
}

func exitCode(result *service.ImportResult, err error) int {
	switch {
	case err != nil:
		return exitFailure
	case result.HasErrors():
		return exitPartial
	default:
		return exitOK
	}
}

func printSummary(result *service.ImportResult) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(result)
}
