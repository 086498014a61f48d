// Command csvcts consolidates a directory tree of per-source CSV files into
// one synchronized, date-aligned wide report, using a reference file that
// supplies each identifier's start date and offset.
package main

import (
	"flag"
	"log/slog"
	"os"

	"csvcts/internal/config"
	"csvcts/internal/infrastructure"
	"csvcts/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger, _, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting consolidation",
		slog.String("config", *configPath),
		slog.String("input_dir", cfg.Input.Dir),
		slog.String("reference", cfg.Reference.Path),
		slog.String("output", cfg.Output.Path))

	if err := pipeline.Run(cfg, logger); err != nil {
		logger.Error("Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Consolidation completed successfully")
}
