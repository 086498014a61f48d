// Command collatecsv concatenates every CSV in the input tree that matches
// the configured mask into a single review file, so errors and
// inconsistencies in the raw data can be inspected before consolidation.
// It is a thin collation utility; the alignment engine lives in csvcts.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"csvcts/internal/config"
	"csvcts/internal/exporter"
	"csvcts/internal/files"
	"csvcts/internal/infrastructure"
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

	discovery := files.NewDiscovery(cfg.Input.Dir)
	paths, err := discovery.WalkTree(cfg.Input.FileMask)
	if err != nil {
		logger.Error("Failed to walk input tree", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Collating files",
		slog.String("dir", cfg.Input.Dir),
		slog.Int("count", len(paths)))

	headers := append([]string{"Source_File"}, cfg.Collate.Columns...)
	var records [][]string
	for _, path := range paths {
		rows, err := collate(path, cfg.Collate.Columns)
		if err != nil {
			logger.Warn("Skipping unreadable file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, rows...)
	}

	outPath := filepath.Join(cfg.Input.Dir, cfg.Collate.OutputFile)
	writer := exporter.NewCSVWriter(logger)
	if err := writer.WriteSimpleCSV(outPath, headers, records); err != nil {
		logger.Error("Failed to write collated file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Collation complete",
		slog.String("path", outPath),
		slog.Int("rows", len(records)))
}

// collate reads one CSV and returns its rows restricted to the wanted
// columns, each prefixed with the source path. Columns missing from the
// file's header come through empty so inconsistencies stay visible.
func collate(path string, columns []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}

	var out [][]string
	for _, row := range rows[1:] {
		rec := make([]string, 0, len(columns)+1)
		rec = append(rec, path)
		for _, col := range columns {
			if i, ok := index[col]; ok && i < len(row) {
				rec = append(rec, row[i])
			} else {
				rec = append(rec, "")
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
