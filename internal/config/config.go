// =============================================================================
// Retail Analytics - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. All options
// live in a single YAML file; every field has a default so an empty file (or
// no file at all) yields a usable configuration.
//
// CONFIGURATION PRECEDENCE:
//   1. Built-in defaults
//   2. Values from config.yaml
//   3. CLI flag overrides (applied by the cmd package)
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// InputPath is the path to the raw transaction file (.csv or .xlsx).
	// There is no default: the input must be supplied via the config file
	// or the --input flag.
	InputPath string `yaml:"input_path"`

	// OutputDir is the directory where cleaned data and summary tables
	// are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// FiguresDir is the directory where chart images are written.
	// Default: "<output_dir>/figures"
	FiguresDir string `yaml:"figures_dir"`

	// TopN is the number of groups kept in the "top countries" and
	// "top products" summaries.
	// Default: 10
	TopN int `yaml:"top_n"`

	// CriticalFields enumerates the raw fields that must be present and
	// non-empty for a row to survive cleaning.
	// Default: invoice_id, invoice_date, quantity, unit_price
	CriticalFields []string `yaml:"critical_fields"`

	// CSV contains settings for parsing delimited input files.
	CSV CSVSettings `yaml:"csv_settings"`

	// ChartsEnabled controls whether chart images are rendered. Summary
	// tables are always written; charts are best-effort on top.
	// Default: true
	ChartsEnabled *bool `yaml:"charts_enabled"`

	// LogLevel controls logging verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// CSVSettings contains settings for parsing delimited input files.
type CSVSettings struct {
	// Delimiter is the field separator. Accepts a literal character or
	// the names "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows in the file.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the 1-indexed row where data begins.
	// Default: 2 (immediately after a single header row)
	DataStartRow int `yaml:"data_start_row"`
}

// DefaultCriticalFields is the set of fields treated as critical when the
// configuration does not enumerate its own.
var DefaultCriticalFields = []string{"invoice_id", "invoice_date", "quantity", "unit_price"}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from a YAML file, applies defaults, and
// validates the result. A missing file is not an error: the defaults are
// returned so the CLI flags can supply everything.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults fills in every unset option.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.FiguresDir == "" {
		cfg.FiguresDir = cfg.OutputDir + "/figures"
	}
	if cfg.TopN == 0 {
		cfg.TopN = 10
	}
	if len(cfg.CriticalFields) == 0 {
		cfg.CriticalFields = append([]string(nil), DefaultCriticalFields...)
	}
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.HeaderRows == 0 {
		cfg.CSV.HeaderRows = 1
	}
	if cfg.CSV.DataStartRow == 0 {
		cfg.CSV.DataStartRow = cfg.CSV.HeaderRows + 1
	}
	if cfg.ChartsEnabled == nil {
		enabled := true
		cfg.ChartsEnabled = &enabled
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate rejects configurations that cannot produce a correct run.
func validate(cfg *Config) error {
	if cfg.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", cfg.TopN)
	}
	if cfg.CSV.HeaderRows < 1 {
		return fmt.Errorf("header_rows must be at least 1, got %d", cfg.CSV.HeaderRows)
	}
	if cfg.CSV.DataStartRow <= cfg.CSV.HeaderRows {
		return fmt.Errorf("data_start_row (%d) must come after the header rows (%d)",
			cfg.CSV.DataStartRow, cfg.CSV.HeaderRows)
	}

	known := map[string]bool{
		"invoice_id":   true,
		"stock_code":   true,
		"description":  true,
		"quantity":     true,
		"unit_price":   true,
		"invoice_date": true,
		"customer_id":  true,
		"country":      true,
	}
	for _, f := range cfg.CriticalFields {
		if !known[f] {
			return fmt.Errorf("unknown critical field %q", f)
		}
	}

	return nil
}

// Charts reports whether chart rendering is enabled.
func (c *Config) Charts() bool {
	return c.ChartsEnabled == nil || *c.ChartsEnabled
}

// DelimiterRune resolves the configured delimiter to a rune, mapping the
// symbolic names accepted in the YAML file.
func (s CSVSettings) DelimiterRune() rune {
	switch s.Delimiter {
	case "\\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	default:
		if len(s.Delimiter) > 0 {
			return rune(s.Delimiter[0])
		}
		return ','
	}
}
