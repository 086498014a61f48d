package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the fully resolved settings object handed to the pipeline.
// The pipeline never parses flags, files or environment itself.
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Reference ReferenceConfig `yaml:"reference" envconfig:"REFERENCE"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Responses ResponsesConfig `yaml:"responses" envconfig:"RESPONSES"`
	Collate   CollateConfig   `yaml:"collate" envconfig:"COLLATE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes the data files to consolidate.
type InputConfig struct {
	Dir            string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	FileMask       string   `yaml:"filemask" envconfig:"FILEMASK"`
	IDColumn       string   `yaml:"id_col" envconfig:"ID_COL"`
	DateColumn     string   `yaml:"date_col" envconfig:"DATE_COL"`
	ResponseColumn string   `yaml:"response_col" envconfig:"RESPONSE_COL"`
	// DateFormats are Go time layouts tried in order; first success wins.
	DateFormats []string `yaml:"date_formats" envconfig:"DATE_FORMATS"`
}

// ReferenceConfig describes the start-date file.
type ReferenceConfig struct {
	Path         string `yaml:"path" envconfig:"PATH" validate:"required"`
	IDColumn     string `yaml:"id_col" envconfig:"ID_COL"`
	DateColumn   string `yaml:"date_col" envconfig:"DATE_COL"`
	// OffsetColumn names an optional per-identifier offset column. When the
	// column is absent from the file, OffsetDays applies globally.
	OffsetColumn string `yaml:"offset_col" envconfig:"OFFSET_COL"`
	DateFormat   string `yaml:"date_format" envconfig:"DATE_FORMAT"`
	OffsetDays   int    `yaml:"offset_days" envconfig:"OFFSET_DAYS"`
	// MaxDays restricts output to relative days in [0, MaxDays) when > 0.
	// Zero means unbounded; negative relative days then flow through.
	MaxDays int `yaml:"max_days" envconfig:"MAX_DAYS" validate:"gte=0"`
}

// OutputConfig describes the report and issue-log artifacts.
type OutputConfig struct {
	Path          string `yaml:"path" envconfig:"PATH" validate:"required"`
	LogPath       string `yaml:"log_path" envconfig:"LOG_PATH" validate:"required"`
	MissingMarker string `yaml:"missing_marker" envconfig:"MISSING_MARKER"`
	UnknownMarker string `yaml:"unknown_marker" envconfig:"UNKNOWN_MARKER"`
	// DayLabelPrefix and DayLabelPad control the column headers: prefix plus
	// a zero-padded day number ("Day007") when pad > 0, else the plain
	// integer relative day.
	DayLabelPrefix string `yaml:"day_label_prefix" envconfig:"DAY_LABEL_PREFIX"`
	DayLabelPad    int    `yaml:"day_label_pad" envconfig:"DAY_LABEL_PAD" validate:"gte=0"`
	IncludeSummary bool   `yaml:"include_summary" envconfig:"INCLUDE_SUMMARY"`
}

// ResponsesConfig defines the accepted value vocabulary.
type ResponsesConfig struct {
	// Map translates lowercased, trimmed raw values to canonical codes,
	// e.g. yes: Y, no: N, missing: M.
	Map map[string]string `yaml:"map" envconfig:"MAP"`
	// Names labels the canonical codes in summary columns (Y: Yes -> Total_Yes).
	Names map[string]string `yaml:"names" envconfig:"NAMES"`
	// Blank is the canonical code recorded for empty cells.
	Blank string `yaml:"blank" envconfig:"BLANK"`
	// Yes is the canonical code whose first occurrence feeds First_Yes.
	Yes string `yaml:"yes" envconfig:"YES"`
}

// CollateConfig drives the standalone collatecsv review tool.
type CollateConfig struct {
	OutputFile string   `yaml:"output_file" envconfig:"OUTPUT_FILE"`
	Columns    []string `yaml:"columns" envconfig:"COLUMNS"`
}

// LoggingConfig contains program (slog) logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load reads the YAML config at path, applies CSVCTS_* environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment takes precedence over the file.
	if err := envconfig.Process("CSVCTS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero-valued fields with working defaults.
func (c *Config) applyDefaults() {
	if c.Input.FileMask == "" {
		c.Input.FileMask = "*.csv"
	}
	if c.Input.IDColumn == "" {
		c.Input.IDColumn = "ID"
	}
	if c.Input.DateColumn == "" {
		c.Input.DateColumn = "Date"
	}
	if c.Input.ResponseColumn == "" {
		c.Input.ResponseColumn = "Response"
	}
	if len(c.Input.DateFormats) == 0 {
		c.Input.DateFormats = []string{"02/01/2006"}
	}

	if c.Reference.IDColumn == "" {
		c.Reference.IDColumn = "ID"
	}
	if c.Reference.DateColumn == "" {
		c.Reference.DateColumn = "Date"
	}
	if c.Reference.DateFormat == "" {
		c.Reference.DateFormat = "2006-01-02"
	}

	if c.Output.UnknownMarker == "" {
		c.Output.UnknownMarker = "U"
	}

	if len(c.Responses.Map) == 0 {
		c.Responses.Map = map[string]string{
			"yes":     "Y",
			"no":      "N",
			"missing": "M",
		}
	}
	if len(c.Responses.Names) == 0 {
		c.Responses.Names = map[string]string{
			"Y": "Yes",
			"N": "No",
			"M": "Missing",
		}
	}
	if c.Responses.Blank == "" {
		c.Responses.Blank = "B"
	}
	if c.Responses.Yes == "" {
		c.Responses.Yes = "Y"
	}

	if c.Collate.OutputFile == "" {
		c.Collate.OutputFile = "collated.csv"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// validate checks structural validity plus cross-field rules the tag
// language cannot express.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// The blank code must not collide with a vocabulary mapping, otherwise
	// blank cells and mapped values become indistinguishable.
	for raw, canonical := range c.Responses.Map {
		if canonical == c.Responses.Blank {
			return fmt.Errorf("response mapping %q -> %q collides with the blank code", raw, canonical)
		}
	}

	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q (want stdout, file or both)", c.Logging.Output)
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires logging.file_path", c.Logging.Output)
	}

	return nil
}
