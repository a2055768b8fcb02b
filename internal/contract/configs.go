package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/insight/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 1
	DefaultFetchRetries = 0
	MaxFetchRetries     = 10
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	FetchTimeout time.Duration // 0 = no timeout
	FetchRetries int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Backend          string `mapstructure:"backend"`
	DBConnect        string `mapstructure:"db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	FetchTimeout     string `mapstructure:"fetch-timeout"`
	FetchRetries     int    `mapstructure:"fetch-retries"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFetchPolicy(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of connection strings
// for the MySQL, PostgreSQL and XLSX backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.XLSXBackend:
		if connStr == "" {
			return fmt.Errorf("a workbook path is required when using %s backend", backend)
		}
		if !strings.HasSuffix(strings.ToLower(connStr), ".xlsx") {
			return fmt.Errorf("XLSX backend expects a path ending in .xlsx (received %q)", connStr)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}

// processFetchPolicy handles the retry and timeout policy of the data store.
func processFetchPolicy(cfg *Config, input *ConfigRawInput) error {
	if input.FetchRetries < 0 || input.FetchRetries > MaxFetchRetries {
		return fmt.Errorf("fetch-retries must be between 0 and %d (received %d)", MaxFetchRetries, input.FetchRetries)
	}
	cfg.FetchRetries = input.FetchRetries

	cfg.FetchTimeout = 0
	if raw := strings.TrimSpace(input.FetchTimeout); raw != "" && raw != "0" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid fetch-timeout %q: %w", input.FetchTimeout, err)
		}
		if timeout < 0 {
			return fmt.Errorf("fetch-timeout cannot be negative (received %s)", timeout)
		}
		cfg.FetchTimeout = timeout
	}
	return nil
}

// validateBackendConfigs validates data and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Data Backend Validation ---
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidDataBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, xlsx", input.Backend)
	}
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// The history store migrates its own tables, so it must not share a SQLite file with the data
	if cfg.Backend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		dataPath := cfg.DBConnect
		if dataPath == "" {
			dataPath = GetDataDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if dataPath == historyPath {
			return fmt.Errorf("data and history storage must use different SQLite database files. Both resolve to %q", dataPath)
		}
	}
	return nil
}
