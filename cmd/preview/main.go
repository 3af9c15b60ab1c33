// Package main provides a dry-run preview of a pruning run. It fetches and
// analyzes campaigns, writes the eligibility report and prints the selection
// that a real run would delete. Nothing is backed up, deleted or emailed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lead-pruner/internal/adapter"
	"github.com/lead-pruner/internal/artifact"
	"github.com/lead-pruner/internal/config"
	"github.com/lead-pruner/internal/logging"
	"github.com/lead-pruner/internal/service"
)

func main() {
	target := flag.Int("target", 0, "override the configured lead target")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *target > 0 {
		cfg.Pruning.TargetLeads = *target
	}

	// Preview logs to stderr only; no log file artifact for a dry run.
	logger, _, err := logging.Setup(logging.Config{Level: cfg.Logging.Level}, time.Now().UTC())
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	client := adapter.NewSmartleadClient(cfg.SmartLead, logger)

	filter, err := service.NewCampaignFilter(client, cfg.Pruning, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize campaign filter")
	}

	campaigns, err := client.ListCampaigns(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to fetch campaigns")
	}
	logger.Infof("Fetched %d campaigns", len(campaigns))

	eligible, all := filter.FilterCampaigns(ctx, campaigns)

	reportPath, err := artifact.WriteCampaignReport(cfg.Artifacts.Dir, all, time.Now().UTC())
	if err != nil {
		logger.WithError(err).Fatal("Failed to write eligibility report")
	}
	logger.Infof("Eligibility report written to %s", reportPath)

	selector := service.NewCampaignSelector(cfg.Pruning.TargetLeads, logger)
	selected, planned := selector.SelectCampaigns(eligible)

	fmt.Printf("\nDry run: %d of %d campaigns eligible, target %d leads\n",
		len(eligible), len(all), cfg.Pruning.TargetLeads)
	for _, report := range selected {
		fmt.Printf("  would delete %d leads from campaign %d (%s)\n",
			report.NonRespondingLeads, report.CampaignID, report.CampaignName)
	}
	if planned < cfg.Pruning.TargetLeads {
		fmt.Printf("Planned %d leads, short of the %d target\n", planned, cfg.Pruning.TargetLeads)
	} else {
		fmt.Printf("Planned %d leads\n", planned)
	}
}
