package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"csvcts/internal/config"
	"csvcts/internal/dataprocessing"
)

// WideExporter serializes the consolidated table to the final report.
type WideExporter struct {
	csvWriter *CSVWriter
	out       config.OutputConfig
	idHeader  string
	blank     string
}

// NewWideExporter creates an exporter for the configured output settings.
// idHeader names the first column; blank is the canonical code rendered for
// blank responses.
func NewWideExporter(logger *slog.Logger, out config.OutputConfig, idHeader, blank string) *WideExporter {
	return &WideExporter{
		csvWriter: NewCSVWriter(logger),
		out:       out,
		idHeader:  idHeader,
		blank:     blank,
	}
}

// Write serializes one row per identifier (sorted) and one column per
// observed relative day (ascending). Cells with no observed data render as
// the configured missing marker, never as an inconsistent empty string.
// When summary output is configured the derived columns are appended after
// the day columns.
func (w *WideExporter) Write(c *dataprocessing.Consolidated, summarizer *dataprocessing.Summarizer, summaries []dataprocessing.Summary) error {
	days := c.DayRange()

	headers := make([]string, 0, len(days)+1)
	headers = append(headers, w.idHeader)
	for _, day := range days {
		headers = append(headers, w.dayLabel(day))
	}

	var codes []string
	if w.out.IncludeSummary {
		codes = summarizer.CanonicalCodes()
		headers = append(headers, "Total_Period")
		for _, code := range codes {
			headers = append(headers, "Total_"+summarizer.ColumnName(code))
		}
		headers = append(headers, "First_Response", "First_Yes")
	}

	summaryByID := make(map[string]dataprocessing.Summary, len(summaries))
	for _, s := range summaries {
		summaryByID[s.ID] = s
	}

	var records [][]string
	for _, id := range c.IDs() {
		rec := make([]string, 0, len(headers))
		rec = append(rec, id)
		for _, day := range days {
			resp, ok := c.Cell(id, day)
			if !ok {
				rec = append(rec, w.out.MissingMarker)
				continue
			}
			rec = append(rec, resp.Render(w.blank, w.out.UnknownMarker))
		}

		if w.out.IncludeSummary {
			s := summaryByID[id]
			rec = append(rec, strconv.Itoa(s.TotalPeriod))
			for _, code := range codes {
				rec = append(rec, strconv.Itoa(s.Counts[code]))
			}
			rec = append(rec, strconv.Itoa(s.FirstResponse))
			if s.HasYes {
				rec = append(rec, strconv.Itoa(s.FirstYes))
			} else {
				rec = append(rec, "")
			}
		}

		records = append(records, rec)
	}

	return w.csvWriter.WriteSimpleCSV(w.out.Path, headers, records)
}

// dayLabel renders a relative-day column header: the plain integer by
// default, or a prefixed zero-padded label ("Day007") when configured.
func (w *WideExporter) dayLabel(day int) string {
	if w.out.DayLabelPad > 0 {
		return fmt.Sprintf("%s%0*d", w.out.DayLabelPrefix, w.out.DayLabelPad, day)
	}
	return w.out.DayLabelPrefix + strconv.Itoa(day)
}
