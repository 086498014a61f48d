// Package issues collects data-level diagnostics raised while consolidating
// input files and writes them to a CSV artifact at the end of the run.
// Issues describe problems with the data, never with the program; program
// failures stay ordinary Go errors.
package issues

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Kind tags an issue with a machine-readable category.
type Kind string

const (
	KindReferenceParseError Kind = "reference-parse-error"
	KindDuplicateReference  Kind = "duplicate-reference"
	KindUnknownIdentifier   Kind = "unknown-identifier"
	KindDateParseError      Kind = "date-parse-error"
	KindUnknownResponse     Kind = "unknown-response"
	KindMissingColumn       Kind = "missing-column"
	KindShortRow            Kind = "short-row"
	KindFileUnreadable      Kind = "file-unreadable"
	KindEmptyFile           Kind = "empty-file"
	KindNoMatchingFiles     Kind = "no-matching-files"
	KindMultipleIDsInFile   Kind = "multiple-ids-in-file"
	KindMissingDates        Kind = "missing-dates"
	KindOutsideWindow       Kind = "outside-window"
	KindCellCollision       Kind = "cell-collision"
)

// Severity classifies how serious an issue is. Neither level stops the run.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Issue is one diagnostic event. Source and Row locate the offending input
// (Row is 1-based, 0 when not applicable) so a human can fix the data
// without re-running at higher verbosity.
type Issue struct {
	Kind       Kind
	Severity   Severity
	Source     string
	Row        int
	Identifier string
	Message    string
}

// Collector accumulates issues in insertion order. Record never fails and
// never stops the run; Flush writes the artifact exactly once at the end.
// The artifact carries no run-varying fields, so identical input produces a
// byte-identical log.
type Collector struct {
	logger *slog.Logger
	items  []Issue
}

// NewCollector creates a collector that mirrors each issue to logger.
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Record appends an issue and mirrors it to the program log at the matching
// level.
func (c *Collector) Record(issue Issue) {
	c.items = append(c.items, issue)

	attrs := []any{
		slog.String("kind", string(issue.Kind)),
		slog.String("source", issue.Source),
	}
	if issue.Row > 0 {
		attrs = append(attrs, slog.Int("row", issue.Row))
	}
	if issue.Identifier != "" {
		attrs = append(attrs, slog.String("identifier", issue.Identifier))
	}

	if issue.Severity == SeverityError {
		c.logger.Error(issue.Message, attrs...)
	} else {
		c.logger.Warn(issue.Message, attrs...)
	}
}

// Len returns the number of recorded issues.
func (c *Collector) Len() int {
	return len(c.items)
}

// Issues returns the recorded issues in insertion order.
func (c *Collector) Issues() []Issue {
	return c.items
}

// Flush writes all issues to a CSV artifact at path, in insertion order.
// It is called once at termination, including after fatal pipeline errors,
// so partial diagnostics are never lost.
func (c *Collector) Flush(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create issue log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"severity", "kind", "source", "row", "identifier", "message"}); err != nil {
		return fmt.Errorf("failed to write issue log header: %w", err)
	}

	for _, issue := range c.items {
		row := ""
		if issue.Row > 0 {
			row = strconv.Itoa(issue.Row)
		}
		rec := []string{
			string(issue.Severity),
			string(issue.Kind),
			issue.Source,
			row,
			issue.Identifier,
			issue.Message,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write issue log record: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
