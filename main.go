package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jgl02/sharedlist-scraper/config"
	"github.com/jgl02/sharedlist-scraper/models"
	"github.com/jgl02/sharedlist-scraper/scraper/gmaps"
	"github.com/jgl02/sharedlist-scraper/services"
	"github.com/jgl02/sharedlist-scraper/storage"
	"github.com/jgl02/sharedlist-scraper/utils"
)

func main() {
	cfg := config.Load()

	var noHeadless, jsonOutput bool
	flag.StringVar(&cfg.ListURL, "url", cfg.ListURL, "shared map list URL (must be public)")
	flag.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "output file path, .json or .csv")
	flag.StringVar(&cfg.City, "city", cfg.City, "city tag applied to every place from this list")
	flag.DurationVar(&cfg.ScrollPause, "scroll-pause", cfg.ScrollPause, "pause between scrolls")
	flag.IntVar(&cfg.MaxScrolls, "max-scrolls", cfg.MaxScrolls, "hard cap on scroll iterations")
	flag.IntVar(&cfg.StagnationThreshold, "stagnation-threshold", cfg.StagnationThreshold,
		"consecutive no-growth scrolls before the list counts as fully loaded")
	flag.DurationVar(&cfg.HarvestBudget, "budget", cfg.HarvestBudget, "wall-clock budget for the whole harvest")
	flag.DurationVar(&cfg.NavTimeout, "nav-timeout", cfg.NavTimeout, "timeout for the initial page load")
	flag.BoolVar(&noHeadless, "no-headless", false, "run the browser with a visible window")
	flag.BoolVar(&jsonOutput, "json-output", false, "print the run report as JSON to stdout")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flag.Parse()
	if noHeadless {
		cfg.Headless = false
	}

	logger := utils.NewLogger(cfg.Debug)

	if err := validateListURL(cfg.ListURL); err != nil {
		logger.Error("Invalid target URL: %v", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Shared list harvest starting ===")
	logger.Info("Config - pause: %s | max scrolls: %d | threshold: %d | budget: %s | output: %s",
		cfg.ScrollPause, cfg.MaxScrolls, cfg.StagnationThreshold, cfg.HarvestBudget, cfg.OutputPath)

	start := time.Now()
	harvester := gmaps.New(cfg, logger)
	places, err := harvester.Harvest(ctx)

	reportSvc := services.NewReportService(logger)
	report := reportSvc.Build(places, cfg.ListURL, cfg.City, time.Since(start), err)

	if err != nil {
		var navErr *gmaps.NavigationError
		if errors.As(err, &navErr) {
			logger.Error("List page never became ready: %v", navErr)
		} else {
			logger.Error("Harvest failed: %v", err)
		}
		emitReport(jsonOutput, report)
		os.Exit(1)
	}

	writer := storage.NewPlaceWriter(cfg.OutputPath)
	if writeErr := writer.Write(places); writeErr != nil {
		logger.Error("Writing %s failed: %v", cfg.OutputPath, writeErr)
		report.Success = false
		report.Message = fmt.Sprintf("Error: %v", writeErr)
		emitReport(jsonOutput, report)
		os.Exit(1)
	}
	logger.Info("Saved %d places to %s", len(places), cfg.OutputPath)

	reportSvc.Print(places)
	emitReport(jsonOutput, report)
}

// validateListURL rejects anything the browser could not navigate to, before
// a browser is ever launched.
func validateListURL(raw string) error {
	if raw == "" {
		return errors.New("a shared list URL is required (flag -url or env LIST_URL)")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q, want http or https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("no host in %q", raw)
	}
	return nil
}

// emitReport prints the run report to stdout when requested. Nothing else in
// the program writes to stdout.
func emitReport(jsonOutput bool, report *models.RunReport) {
	if !jsonOutput {
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "encode run report: %v\n", err)
	}
}
