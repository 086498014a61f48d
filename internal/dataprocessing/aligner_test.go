package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvcts/internal/config"
	"csvcts/internal/issues"
	"csvcts/internal/reference"
	"csvcts/pkg/contracts/domain"
)

// loadTable builds a reference table from CSV content.
func loadTable(t *testing.T, content string, offsetDays int) *reference.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ref.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := reference.Load(config.ReferenceConfig{
		Path:       path,
		IDColumn:   "ID",
		DateColumn: "Date",
		DateFormat: "2006-01-02",
		OffsetDays: offsetDays,
	}, testCollector())
	require.NoError(t, err)
	return table
}

func rawRecord(id, date string) domain.RawRecord {
	d, _ := time.Parse("2006-01-02", date)
	return domain.RawRecord{
		ID:       id,
		Date:     d,
		Response: domain.Known("Y"),
		Source:   "input/a.csv",
		Row:      2,
	}
}

func TestAlign_RelativeDay(t *testing.T) {
	tests := []struct {
		name       string
		offsetDays int
		recordDate string
		wantDay    int
	}{
		{"record on day zero", 0, "2020-01-01", 0},
		{"record after day zero", 0, "2020-01-03", 2},
		{"record before day zero is negative", 0, "2019-12-30", -2},
		{"positive offset shifts day zero forward", 2, "2020-01-03", 0},
		{"negative offset shifts day zero back", -2, "2020-01-03", 4},
		{"distant record", 0, "2021-01-01", 366}, // 2020 is a leap year
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := loadTable(t, "ID,Date\nID001,2020-01-01\n", tt.offsetDays)
			aligner := NewAligner(table, 0)
			ic := testCollector()

			aligned, ok := aligner.Align(rawRecord("ID001", tt.recordDate), ic)
			require.True(t, ok)
			assert.Equal(t, tt.wantDay, aligned.RelativeDay)
			assert.Equal(t, 0, ic.Len())
		})
	}
}

func TestAlign_UnknownIdentifierRejected(t *testing.T) {
	table := loadTable(t, "ID,Date\nID001,2020-01-01\n", 0)
	aligner := NewAligner(table, 0)
	ic := testCollector()

	_, ok := aligner.Align(rawRecord("ID999", "2020-01-05"), ic)
	assert.False(t, ok)

	// Exactly one issue per rejected record, with its own kind so it is
	// never confused with a parse failure.
	require.Equal(t, 1, ic.Len())
	issue := ic.Issues()[0]
	assert.Equal(t, issues.KindUnknownIdentifier, issue.Kind)
	assert.Equal(t, "ID999", issue.Identifier)
	assert.Equal(t, "input/a.csv", issue.Source)
	assert.Equal(t, 2, issue.Row)
}

func TestAlign_PreservesResponseAndProvenance(t *testing.T) {
	table := loadTable(t, "ID,Date\nID001,2020-01-01\n", 0)
	aligner := NewAligner(table, 0)

	rec := rawRecord("ID001", "2020-01-02")
	rec.Response = domain.Unknown("Perhaps")

	aligned, ok := aligner.Align(rec, testCollector())
	require.True(t, ok)
	assert.Equal(t, domain.Unknown("Perhaps"), aligned.Response)
	assert.Equal(t, "input/a.csv", aligned.Source)
	assert.Equal(t, 2, aligned.Row)
}

func TestAlign_MaxDaysWindow(t *testing.T) {
	table := loadTable(t, "ID,Date\nID001,2020-01-01\n", 0)
	aligner := NewAligner(table, 5)

	tests := []struct {
		name string
		date string
		keep bool
	}{
		{"day zero kept", "2020-01-01", true},
		{"last day inside window kept", "2020-01-05", true},
		{"day at window bound dropped", "2020-01-06", false},
		{"negative day dropped when window set", "2019-12-31", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic := testCollector()
			_, ok := aligner.Align(rawRecord("ID001", tt.date), ic)
			assert.Equal(t, tt.keep, ok)
			if !tt.keep {
				require.Equal(t, 1, ic.Len())
				assert.Equal(t, issues.KindOutsideWindow, ic.Issues()[0].Kind)
			}
		})
	}
}

func TestAlign_NoWindowKeepsNegativeDays(t *testing.T) {
	table := loadTable(t, "ID,Date\nID001,2020-01-01\n", 0)
	aligner := NewAligner(table, 0)
	ic := testCollector()

	aligned, ok := aligner.Align(rawRecord("ID001", "2019-11-01"), ic)
	require.True(t, ok)
	assert.Equal(t, -61, aligned.RelativeDay)
	assert.Equal(t, 0, ic.Len())
}
