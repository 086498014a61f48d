// Package reference loads the identifier start-date file and answers
// lookups during alignment.
package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"csvcts/internal/config"
	"csvcts/internal/issues"
	"csvcts/pkg/contracts/domain"
)

// Table is the loaded identifier -> ReferenceEntry mapping. Immutable after
// Load; lookups are read-only.
type Table struct {
	entries map[string]domain.ReferenceEntry
}

// Load reads the reference CSV at cfg.Path. Rows whose date or offset fail to
// parse are skipped and reported, never fatal. A duplicate identifier is
// overwritten by the later row; both occurrences are reported. A missing or
// unreadable reference file is the principal fatal condition of a run.
func Load(cfg config.ReferenceConfig, ic *issues.Collector) (*Table, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read reference header: %w", err)
	}

	idIdx, dateIdx, offsetIdx := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case cfg.IDColumn:
			idIdx = i
		case cfg.DateColumn:
			dateIdx = i
		case cfg.OffsetColumn:
			if cfg.OffsetColumn != "" {
				offsetIdx = i
			}
		}
	}
	if idIdx < 0 || dateIdx < 0 {
		return nil, fmt.Errorf("reference file missing required columns %q/%q",
			cfg.IDColumn, cfg.DateColumn)
	}

	entries := make(map[string]domain.ReferenceEntry)
	for rowNum := 2; ; rowNum++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ic.Record(issues.Issue{
				Kind:     issues.KindReferenceParseError,
				Severity: issues.SeverityError,
				Source:   cfg.Path,
				Row:      rowNum,
				Message:  fmt.Sprintf("malformed row: %v", err),
			})
			continue
		}

		need := idIdx
		if dateIdx > need {
			need = dateIdx
		}
		if offsetIdx > need {
			need = offsetIdx
		}
		if len(row) <= need {
			ic.Record(issues.Issue{
				Kind:     issues.KindShortRow,
				Severity: issues.SeverityError,
				Source:   cfg.Path,
				Row:      rowNum,
				Message:  fmt.Sprintf("row has %d columns, need %d", len(row), need+1),
			})
			continue
		}

		id := strings.TrimSpace(row[idIdx])
		if id == "" {
			ic.Record(issues.Issue{
				Kind:     issues.KindReferenceParseError,
				Severity: issues.SeverityError,
				Source:   cfg.Path,
				Row:      rowNum,
				Message:  "empty identifier",
			})
			continue
		}

		startDate, err := time.Parse(cfg.DateFormat, strings.TrimSpace(row[dateIdx]))
		if err != nil {
			ic.Record(issues.Issue{
				Kind:       issues.KindReferenceParseError,
				Severity:   issues.SeverityError,
				Source:     cfg.Path,
				Row:        rowNum,
				Identifier: id,
				Message:    fmt.Sprintf("unparseable start date %q", row[dateIdx]),
			})
			continue
		}

		offset := cfg.OffsetDays
		if offsetIdx >= 0 {
			offset, err = strconv.Atoi(strings.TrimSpace(row[offsetIdx]))
			if err != nil {
				ic.Record(issues.Issue{
					Kind:       issues.KindReferenceParseError,
					Severity:   issues.SeverityError,
					Source:     cfg.Path,
					Row:        rowNum,
					Identifier: id,
					Message:    fmt.Sprintf("unparseable offset %q", row[offsetIdx]),
				})
				continue
			}
		}

		if prev, ok := entries[id]; ok {
			ic.Record(issues.Issue{
				Kind:       issues.KindDuplicateReference,
				Severity:   issues.SeverityWarn,
				Source:     cfg.Path,
				Row:        rowNum,
				Identifier: id,
				Message: fmt.Sprintf("duplicate reference entry, replacing start date %s with %s",
					prev.StartDate.Format("2006-01-02"), startDate.Format("2006-01-02")),
			})
		}
		entries[id] = domain.ReferenceEntry{ID: id, StartDate: startDate, Offset: offset}
	}

	return &Table{entries: entries}, nil
}

// Lookup returns the entry for id. The second result reports presence; a
// miss is an ordinary outcome the caller decides how to handle.
func (t *Table) Lookup(id string) (domain.ReferenceEntry, bool) {
	entry, ok := t.entries[id]
	return entry, ok
}

// Len returns the number of loaded entries.
func (t *Table) Len() int {
	return len(t.entries)
}
