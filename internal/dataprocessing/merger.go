package dataprocessing

import (
	"fmt"
	"sort"

	"csvcts/internal/issues"
	"csvcts/pkg/contracts/domain"
)

// cell is one populated (identifier, relative day) entry, keeping its
// provenance for collision diagnostics.
type cell struct {
	response domain.Response
	source   string
	row      int
}

// Consolidated is the wide table under construction: identifier rows by
// relative-day columns, sparse. Days without data are simply absent until
// output time.
type Consolidated struct {
	cells map[string]map[int]cell
}

// NewConsolidated creates an empty consolidated table.
func NewConsolidated() *Consolidated {
	return &Consolidated{cells: make(map[string]map[int]cell)}
}

// Add merges one aligned record into the table. When the target cell is
// already populated the earlier record wins (first-write-wins in traversal
// order), the later record is rejected, and the collision is reported with
// both sources and both values even when the values agree.
func (c *Consolidated) Add(rec domain.AlignedRecord, ic *issues.Collector) {
	row, ok := c.cells[rec.ID]
	if !ok {
		row = make(map[int]cell)
		c.cells[rec.ID] = row
	}

	if existing, ok := row[rec.RelativeDay]; ok {
		ic.Record(issues.Issue{
			Kind:       issues.KindCellCollision,
			Severity:   issues.SeverityWarn,
			Source:     rec.Source,
			Row:        rec.Row,
			Identifier: rec.ID,
			Message: fmt.Sprintf("day %d already has %s from %s; rejecting %s from %s",
				rec.RelativeDay,
				describeResponse(existing.response), existing.source,
				describeResponse(rec.Response), rec.Source),
		})
		return
	}

	row[rec.RelativeDay] = cell{response: rec.Response, source: rec.Source, row: rec.Row}
}

// describeResponse renders a response for diagnostics without consulting
// output marker configuration.
func describeResponse(r domain.Response) string {
	switch r.State {
	case domain.ResponseBlank:
		return "(blank)"
	case domain.ResponseUnknown:
		return fmt.Sprintf("unrecognized %q", r.Value)
	default:
		return fmt.Sprintf("%q", r.Value)
	}
}

// IDs returns the identifiers present in the table, sorted, so row order is
// stable across runs.
func (c *Consolidated) IDs() []string {
	ids := make([]string, 0, len(c.cells))
	for id := range c.cells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DayRange returns the sorted union of relative days observed across all
// identifiers. No single file dictates the bounds.
func (c *Consolidated) DayRange() []int {
	seen := make(map[int]bool)
	for _, row := range c.cells {
		for day := range row {
			seen[day] = true
		}
	}
	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// Cell returns the response at (id, day). The second result reports whether
// the cell is populated.
func (c *Consolidated) Cell(id string, day int) (domain.Response, bool) {
	row, ok := c.cells[id]
	if !ok {
		return domain.Response{}, false
	}
	entry, ok := row[day]
	if !ok {
		return domain.Response{}, false
	}
	return entry.response, true
}

// Row returns the populated day -> response mapping for id.
func (c *Consolidated) Row(id string) map[int]domain.Response {
	row, ok := c.cells[id]
	if !ok {
		return nil
	}
	out := make(map[int]domain.Response, len(row))
	for day, entry := range row {
		out[day] = entry.response
	}
	return out
}

// Len returns the number of identifier rows.
func (c *Consolidated) Len() int {
	return len(c.cells)
}
