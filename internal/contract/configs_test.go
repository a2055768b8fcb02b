package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/insight/schema"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Backend:          "sqlite",
		DBConnect:        "/tmp/insight-data.db",
		HistoryBackend:   "none",
		FetchTimeout:     "",
		FetchRetries:     0,
		Precision:        1,
		Output:           "text",
		Color:            "yes",
		HistoryDBConnect: "",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
				assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.True(t, cfg.UseColors)
				assert.Zero(t, cfg.FetchTimeout)
			},
		},
		{
			name:   "uppercase output is normalized",
			mutate: func(in *ConfigRawInput) { in.Output = "JSON" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.JSONOut, cfg.Output)
			},
		},
		{
			name: "fetch policy parsed",
			mutate: func(in *ConfigRawInput) {
				in.FetchTimeout = "1500ms"
				in.FetchRetries = 3
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 1500*time.Millisecond, cfg.FetchTimeout)
				assert.Equal(t, 3, cfg.FetchRetries)
			},
		},
		{
			name:   "empty history backend means none",
			mutate: func(in *ConfigRawInput) { in.HistoryBackend = "" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
			},
		},
		{
			name: "xlsx backend",
			mutate: func(in *ConfigRawInput) {
				in.Backend = "xlsx"
				in.DBConnect = "data/hr.xlsx"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.XLSXBackend, cfg.Backend)
			},
		},
		{name: "invalid precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "too many retries", mutate: func(in *ConfigRawInput) { in.FetchRetries = MaxFetchRetries + 1 }, expectError: true},
		{name: "bad timeout", mutate: func(in *ConfigRawInput) { in.FetchTimeout = "soon" }, expectError: true},
		{name: "negative timeout", mutate: func(in *ConfigRawInput) { in.FetchTimeout = "-1s" }, expectError: true},
		{name: "invalid data backend", mutate: func(in *ConfigRawInput) { in.Backend = "none" }, expectError: true},
		{name: "invalid history backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "xlsx" }, expectError: true},
		{
			name: "shared sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "sqlite"
				in.HistoryDBConnect = in.DBConnect
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/insight", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/insight", true},
		{"mysql missing db", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=insight", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=insight", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"xlsx valid", schema.XLSXBackend, "hr.XLSX", false},
		{"xlsx wrong suffix", schema.XLSXBackend, "hr.csv", true},
		{"xlsx empty", schema.XLSXBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Backend: schema.MySQLBackend, Precision: 2}
	clone := cfg.Clone()
	clone.Precision = 1
	assert.Equal(t, 2, cfg.Precision)
	assert.Equal(t, schema.MySQLBackend, clone.Backend)
}
