package dataprocessing

import (
	"fmt"
	"time"

	"csvcts/internal/issues"
	"csvcts/internal/reference"
	"csvcts/pkg/contracts/domain"
)

// Aligner re-indexes raw records onto each identifier's day-zero.
type Aligner struct {
	table *reference.Table
	// maxDays restricts kept records to relative days in [0, maxDays) when
	// positive. Zero keeps everything, negative days included.
	maxDays int
}

// NewAligner creates an aligner over the loaded reference table.
func NewAligner(table *reference.Table, maxDays int) *Aligner {
	return &Aligner{table: table, maxDays: maxDays}
}

// Align computes the record's relative day. The second result reports
// whether the record was accepted. An identifier without a reference entry
// is the most common real-world failure and gets its own issue kind so it
// is never confused with a parse failure. Records on the same relative day
// are all forwarded; collisions belong to the merger.
func (a *Aligner) Align(rec domain.RawRecord, ic *issues.Collector) (domain.AlignedRecord, bool) {
	entry, ok := a.table.Lookup(rec.ID)
	if !ok {
		ic.Record(issues.Issue{
			Kind:       issues.KindUnknownIdentifier,
			Severity:   issues.SeverityError,
			Source:     rec.Source,
			Row:        rec.Row,
			Identifier: rec.ID,
			Message:    fmt.Sprintf("no reference entry for identifier %s", rec.ID),
		})
		return domain.AlignedRecord{}, false
	}

	day := daysBetween(entry.DayZero(), rec.Date)

	if a.maxDays > 0 && (day < 0 || day >= a.maxDays) {
		ic.Record(issues.Issue{
			Kind:       issues.KindOutsideWindow,
			Severity:   issues.SeverityWarn,
			Source:     rec.Source,
			Row:        rec.Row,
			Identifier: rec.ID,
			Message:    fmt.Sprintf("relative day %d outside window [0, %d)", day, a.maxDays),
		})
		return domain.AlignedRecord{}, false
	}

	return domain.AlignedRecord{
		ID:          rec.ID,
		RelativeDay: day,
		Response:    rec.Response,
		Source:      rec.Source,
		Row:         rec.Row,
	}, true
}

// daysBetween returns the whole-day span from a to b, negative when b
// precedes a. Parsed calendar dates carry no time-of-day component, so the
// span is always an exact number of days.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
