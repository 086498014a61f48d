package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimalConfig = `
input:
  dir: testdata/input
reference:
  path: testdata/reference.csv
output:
  path: out/report.csv
  log_path: out/issues.csv
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "testdata/input", cfg.Input.Dir)
	assert.Equal(t, "testdata/reference.csv", cfg.Reference.Path)
	assert.Equal(t, "out/report.csv", cfg.Output.Path)
	assert.Equal(t, "out/issues.csv", cfg.Output.LogPath)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "*.csv", cfg.Input.FileMask)
	assert.Equal(t, "ID", cfg.Input.IDColumn)
	assert.Equal(t, "Date", cfg.Input.DateColumn)
	assert.Equal(t, "Response", cfg.Input.ResponseColumn)
	assert.Equal(t, []string{"02/01/2006"}, cfg.Input.DateFormats)

	assert.Equal(t, "2006-01-02", cfg.Reference.DateFormat)
	assert.Equal(t, 0, cfg.Reference.OffsetDays)
	assert.Equal(t, 0, cfg.Reference.MaxDays)

	assert.Equal(t, "U", cfg.Output.UnknownMarker)
	assert.Equal(t, "", cfg.Output.MissingMarker)
	assert.False(t, cfg.Output.IncludeSummary)

	assert.Equal(t, "Y", cfg.Responses.Map["yes"])
	assert.Equal(t, "B", cfg.Responses.Blank)
	assert.Equal(t, "Y", cfg.Responses.Yes)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
input:
  dir: data
  filemask: "*.xlsx"
  id_col: Subject
  date_col: When
  response_col: Answer
  date_formats:
    - "02/01/2006"
    - "2006-01-02"
reference:
  path: ref.csv
  id_col: Subject
  date_col: Start
  offset_col: Offset
  date_format: "02/01/2006"
  offset_days: -7
  max_days: 90
output:
  path: report.csv
  log_path: issues.csv
  missing_marker: NA
  day_label_prefix: Day
  day_label_pad: 3
  include_summary: true
responses:
  # y/n/yes/no parse as YAML 1.1 booleans unless quoted.
  map:
    "y": "Y"
    "n": "N"
  names:
    "Y": "Yes"
    "N": "No"
  blank: B
  "yes": "Y"
logging:
  level: debug
  format: json
  output: file
  file_path: logs/run.log
`))
	require.NoError(t, err)

	assert.Equal(t, "*.xlsx", cfg.Input.FileMask)
	assert.Equal(t, "Subject", cfg.Input.IDColumn)
	assert.Equal(t, []string{"02/01/2006", "2006-01-02"}, cfg.Input.DateFormats)
	assert.Equal(t, "Offset", cfg.Reference.OffsetColumn)
	assert.Equal(t, -7, cfg.Reference.OffsetDays)
	assert.Equal(t, 90, cfg.Reference.MaxDays)
	assert.Equal(t, "NA", cfg.Output.MissingMarker)
	assert.Equal(t, "Day", cfg.Output.DayLabelPrefix)
	assert.Equal(t, 3, cfg.Output.DayLabelPad)
	assert.True(t, cfg.Output.IncludeSummary)
	assert.Equal(t, map[string]string{"y": "Y", "n": "N"}, cfg.Responses.Map)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "input: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing input dir",
			content: `
reference:
  path: ref.csv
output:
  path: report.csv
  log_path: issues.csv
`,
		},
		{
			name: "missing output path",
			content: `
input:
  dir: data
reference:
  path: ref.csv
output:
  log_path: issues.csv
`,
		},
		{
			name: "file logging without a file path",
			content: minimalConfig + `
logging:
  output: file
`,
		},
		{
			name: "blank code collides with vocabulary",
			content: minimalConfig + `
responses:
  map:
    blankish: B
  blank: B
`,
		},
		{
			name: "negative max days",
			content: minimalConfig + `
reference:
  path: ref.csv
  max_days: -1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CSVCTS_INPUT_FILEMASK", "*.dat")
	t.Setenv("CSVCTS_REFERENCE_OFFSET_DAYS", "14")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "*.dat", cfg.Input.FileMask)
	assert.Equal(t, 14, cfg.Reference.OffsetDays)
}
