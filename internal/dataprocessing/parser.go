package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"csvcts/internal/config"
	"csvcts/internal/issues"
	"csvcts/pkg/contracts/domain"
)

// ParseFile reads one input file into raw records, coercing each row's
// identifier, date and response columns. Row-level failures are reported to
// ic and the row skipped; only a whole-file failure returns an error, and the
// caller treats that as file-level recoverable. Each invocation re-reads the
// file from disk.
func ParseFile(path string, in config.InputConfig, resp config.ResponsesConfig, ic *issues.Collector) ([]domain.RawRecord, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		ic.Record(issues.Issue{
			Kind:     issues.KindEmptyFile,
			Severity: issues.SeverityWarn,
			Source:   path,
			Message:  "file contains no rows",
		})
		return nil, nil
	}

	idIdx, dateIdx, respIdx := -1, -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case in.IDColumn:
			idIdx = i
		case in.DateColumn:
			dateIdx = i
		case in.ResponseColumn:
			respIdx = i
		}
	}
	if idIdx < 0 || dateIdx < 0 || respIdx < 0 {
		ic.Record(issues.Issue{
			Kind:     issues.KindMissingColumn,
			Severity: issues.SeverityError,
			Source:   path,
			Row:      1,
			Message: fmt.Sprintf("header is missing one of %q, %q, %q",
				in.IDColumn, in.DateColumn, in.ResponseColumn),
		})
		return nil, nil
	}
	need := idIdx
	if dateIdx > need {
		need = dateIdx
	}
	if respIdx > need {
		need = respIdx
	}

	var records []domain.RawRecord
	seenIDs := make(map[string]bool)
	seenDates := make(map[time.Time]bool)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		if len(row) <= need {
			ic.Record(issues.Issue{
				Kind:     issues.KindShortRow,
				Severity: issues.SeverityError,
				Source:   path,
				Row:      rowNum,
				Message:  fmt.Sprintf("row has %d columns, need %d", len(row), need+1),
			})
			continue
		}

		id := strings.TrimSpace(row[idIdx])
		if id == "" {
			ic.Record(issues.Issue{
				Kind:     issues.KindShortRow,
				Severity: issues.SeverityError,
				Source:   path,
				Row:      rowNum,
				Message:  "empty identifier column",
			})
			continue
		}

		date, ok := parseDate(strings.TrimSpace(row[dateIdx]), in.DateFormats)
		if !ok {
			ic.Record(issues.Issue{
				Kind:       issues.KindDateParseError,
				Severity:   issues.SeverityError,
				Source:     path,
				Row:        rowNum,
				Identifier: id,
				Message:    fmt.Sprintf("unparseable date %q", row[dateIdx]),
			})
			continue
		}

		response := normalizeResponse(row[respIdx], resp)
		if response.State == domain.ResponseUnknown {
			ic.Record(issues.Issue{
				Kind:       issues.KindUnknownResponse,
				Severity:   issues.SeverityWarn,
				Source:     path,
				Row:        rowNum,
				Identifier: id,
				Message:    fmt.Sprintf("response %q is not in the configured vocabulary", row[respIdx]),
			})
		}

		seenIDs[id] = true
		seenDates[date] = true
		records = append(records, domain.RawRecord{
			ID:       id,
			Date:     date,
			Response: response,
			Source:   path,
			Row:      rowNum,
		})
	}

	reportMultipleIDs(path, seenIDs, ic)
	reportMissingDates(path, seenDates, in.DateFormats[0], ic)

	return records, nil
}

// readRows loads the cell grid of a data file. Excel workbooks go through
// excelize (first sheet); everything else is read as CSV.
func readRows(path string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xls" {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
		}
		return rows, nil
	}

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
	return rows, nil
}

// parseDate tries each configured layout in order; the first success wins.
func parseDate(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeResponse maps a raw value cell into the closed response set:
// blank cells, canonical vocabulary values (matched case-insensitively after
// trimming) or a retained unknown.
func normalizeResponse(raw string, resp config.ResponsesConfig) domain.Response {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Blank()
	}
	if canonical, ok := resp.Map[strings.ToLower(trimmed)]; ok {
		return domain.Known(canonical)
	}
	return domain.Unknown(trimmed)
}

// reportMultipleIDs flags a file that carries more than one identifier.
// Normal delivery is one subject per file, so this usually means rows from
// different subjects were pasted together.
func reportMultipleIDs(path string, seen map[string]bool, ic *issues.Collector) {
	if len(seen) <= 1 {
		return
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ic.Record(issues.Issue{
		Kind:     issues.KindMultipleIDsInFile,
		Severity: issues.SeverityWarn,
		Source:   path,
		Message:  fmt.Sprintf("file contains %d identifiers: %s", len(ids), strings.Join(ids, ", ")),
	})
}

// reportMissingDates flags calendar days absent from a file's own observed
// date range. Gaps are legitimate in sparse data but usually indicate a
// truncated export.
func reportMissingDates(path string, seen map[time.Time]bool, layout string, ic *issues.Collector) {
	if len(seen) < 2 {
		return
	}

	var min, max time.Time
	first := true
	for d := range seen {
		if first {
			min, max = d, d
			first = false
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}

	var missing []string
	for d := min.AddDate(0, 0, 1); d.Before(max); d = d.AddDate(0, 0, 1) {
		if !seen[d] {
			missing = append(missing, d.Format(layout))
		}
	}
	if len(missing) == 0 {
		return
	}
	ic.Record(issues.Issue{
		Kind:     issues.KindMissingDates,
		Severity: issues.SeverityWarn,
		Source:   path,
		Message:  fmt.Sprintf("file is missing dates: %s", strings.Join(missing, ", ")),
	})
}
