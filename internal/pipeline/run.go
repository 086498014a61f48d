// Package pipeline drives one consolidation run from reference loading to
// artifact writing. Execution is single-threaded and synchronous: each input
// file is read to completion before the next begins.
package pipeline

import (
	"fmt"
	"log/slog"

	"csvcts/internal/config"
	"csvcts/internal/dataprocessing"
	"csvcts/internal/exporter"
	"csvcts/internal/files"
	"csvcts/internal/issues"
	"csvcts/internal/reference"
)

// Run executes one consolidation over the configured file set. The issue log
// is flushed even when a stage fails, so partial diagnostics survive fatal
// conditions. The returned error is non-nil only for fatal conditions:
// unreadable reference file, unreadable input root, unwritable output.
func Run(cfg *config.Config, logger *slog.Logger) error {
	ic := issues.NewCollector(logger)

	runErr := consolidate(cfg, logger, ic)

	if err := ic.Flush(cfg.Output.LogPath); err != nil {
		logger.Error("Failed to flush issue log",
			slog.String("path", cfg.Output.LogPath),
			slog.String("error", err.Error()))
		if runErr == nil {
			runErr = err
		}
	} else {
		logger.Info("Issue log written",
			slog.String("path", cfg.Output.LogPath),
			slog.Int("issue_count", ic.Len()))
	}

	return runErr
}

func consolidate(cfg *config.Config, logger *slog.Logger, ic *issues.Collector) error {
	table, err := reference.Load(cfg.Reference, ic)
	if err != nil {
		return fmt.Errorf("reference load failed: %w", err)
	}
	logger.Info("Reference table loaded",
		slog.String("path", cfg.Reference.Path),
		slog.Int("entries", table.Len()))

	discovery := files.NewDiscovery(cfg.Input.Dir)
	paths, err := discovery.FindDataFiles(cfg.Input.FileMask, ic)
	if err != nil {
		return fmt.Errorf("file discovery failed: %w", err)
	}
	logger.Info("Data files found",
		slog.String("dir", cfg.Input.Dir),
		slog.String("mask", cfg.Input.FileMask),
		slog.Int("count", len(paths)))

	aligner := dataprocessing.NewAligner(table, cfg.Reference.MaxDays)
	consolidated := dataprocessing.NewConsolidated()

	for i, path := range paths {
		logger.Info("Processing file",
			slog.Int("current", i+1),
			slog.Int("total", len(paths)),
			slog.String("path", path))

		records, err := dataprocessing.ParseFile(path, cfg.Input, cfg.Responses, ic)
		if err != nil {
			// File-level recoverable: log it and move on to the next file.
			ic.Record(issues.Issue{
				Kind:     issues.KindFileUnreadable,
				Severity: issues.SeverityError,
				Source:   path,
				Message:  err.Error(),
			})
			continue
		}

		for _, rec := range records {
			aligned, ok := aligner.Align(rec, ic)
			if !ok {
				continue
			}
			consolidated.Add(aligned, ic)
		}
	}

	logger.Info("Consolidation complete",
		slog.Int("identifiers", consolidated.Len()),
		slog.Int("day_columns", len(consolidated.DayRange())))

	summarizer := dataprocessing.NewSummarizer(cfg.Responses)
	var summaries []dataprocessing.Summary
	if cfg.Output.IncludeSummary {
		summaries = summarizer.Summarize(consolidated)
	}

	wide := exporter.NewWideExporter(logger, cfg.Output, cfg.Input.IDColumn, cfg.Responses.Blank)
	if err := wide.Write(consolidated, summarizer, summaries); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Report written", slog.String("path", cfg.Output.Path))

	return nil
}
