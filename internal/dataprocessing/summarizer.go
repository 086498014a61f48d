package dataprocessing

import (
	"sort"

	"csvcts/internal/config"
	"csvcts/pkg/contracts/domain"
)

// Summary holds the derived statistics for one identifier row, appended to
// the wide report after the day columns.
type Summary struct {
	ID string
	// TotalPeriod is the span in days from the first to the last observed
	// response, inclusive.
	TotalPeriod int
	// Counts tallies responses per canonical code; blank cells count under
	// the configured blank code. Unrecognized responses are excluded.
	Counts map[string]int
	// FirstResponse is the earliest relative day with any response.
	FirstResponse int
	// FirstYes is the earliest relative day whose response is the configured
	// "yes" code. HasYes reports whether one exists.
	FirstYes int
	HasYes   bool
}

// Summarizer derives per-identifier statistics from the consolidated table.
type Summarizer struct {
	resp config.ResponsesConfig
}

// NewSummarizer creates a summarizer for the configured vocabulary.
func NewSummarizer(resp config.ResponsesConfig) *Summarizer {
	return &Summarizer{resp: resp}
}

// Summarize computes statistics for every identifier in the table, ordered
// by identifier.
func (s *Summarizer) Summarize(c *Consolidated) []Summary {
	var out []Summary
	for _, id := range c.IDs() {
		out = append(out, s.summarizeRow(id, c.Row(id)))
	}
	return out
}

// CanonicalCodes returns the canonical vocabulary codes plus the blank code,
// sorted, fixing the order of the Total_ columns.
func (s *Summarizer) CanonicalCodes() []string {
	seen := map[string]bool{s.resp.Blank: true}
	for _, canonical := range s.resp.Map {
		seen[canonical] = true
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ColumnName labels a canonical code for summary headers, preferring the
// configured display name.
func (s *Summarizer) ColumnName(code string) string {
	if name, ok := s.resp.Names[code]; ok {
		return name
	}
	return code
}

func (s *Summarizer) summarizeRow(id string, row map[int]domain.Response) Summary {
	sum := Summary{ID: id, Counts: make(map[string]int)}

	first := true
	minDay, maxDay := 0, 0
	for day, resp := range row {
		if first {
			minDay, maxDay = day, day
			first = false
		} else {
			if day < minDay {
				minDay = day
			}
			if day > maxDay {
				maxDay = day
			}
		}

		switch resp.State {
		case domain.ResponseKnown:
			sum.Counts[resp.Value]++
			if resp.Value == s.resp.Yes && (!sum.HasYes || day < sum.FirstYes) {
				sum.FirstYes = day
				sum.HasYes = true
			}
		case domain.ResponseBlank:
			sum.Counts[s.resp.Blank]++
		}
	}

	if !first {
		sum.TotalPeriod = maxDay - minDay + 1
		sum.FirstResponse = minDay
	}
	return sum
}
