package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/history"
	"github.com/huangsam/insight/internal/service"
	"github.com/huangsam/insight/internal/store"
	"github.com/huangsam/insight/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// dataStore is the tabular store opened by sharedSetup.
var dataStore contract.DataStore

// services bundles the engine entry points once sharedSetup has run.
var services *service.Services

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "insight",
	Short:              "Analyze business data and answer workforce questions.",
	Long:               `Insight runs trend, anomaly, correlation, prediction, segmentation and recommendation analyses over your business tables, scores attrition risk and answers natural-language questions.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// A missing .env file is fine; anything else is worth a warning
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Could not load .env file", err)
	}

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("INSIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("fetch-timeout", "")
	viper.SetDefault("fetch-retries", contract.DefaultFetchRetries)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
}

// setConfigFile points Viper at --config or the default .insight.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".insight") // Name of config file (without extension)
	viper.SetConfigType("yaml")     // We'll use YAML format
	viper.AddConfigPath(".")        // Look in the current directory
	viper.AddConfigPath("$HOME")    // Look in the home directory
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// configSetup unmarshals config and runs validation without opening any store.
func configSetup() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	return contract.ProcessAndValidate(cfg, input)
}

// configSetupWrapper wraps configSetup to provide PreRunE for informational commands.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return configSetup()
}

// sharedSetup validates config and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := configSetup(); err != nil {
		return err
	}

	// 4. Open the tabular store behind the fetch policy
	ds, err := store.NewDataStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}
	dataStore = store.WithPolicy(ds, store.Policy{MaxRetries: cfg.FetchRetries, Timeout: cfg.FetchTimeout})

	// 5. Initialize history tracking with validated config
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	services = service.NewServices(dataStore, history.Manager.GetHistoryStore())
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Teardown releases the stores opened during setup.
func Teardown() {
	if dataStore != nil {
		if err := dataStore.Close(); err != nil {
			contract.LogWarn("Failed to close data store", err)
		}
		dataStore = nil
	}
	history.CloseHistory()
}
