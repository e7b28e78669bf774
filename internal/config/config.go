package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultDBPath      = "cognitive_analysis.db"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// Config holds all configuration for the importer CLI
type Config struct {
	// Persistence configuration
	DBPath string

	// Import configuration
	PatientID   int // 0 means derive from the document filename
	MaxFileSize int64

	// Report configuration
	Report    bool
	ReportOut string

	// Application configuration
	Version  string
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DBPath:      DefaultDBPath,
		MaxFileSize: DefaultMaxFileSize,
		Version:     "1.0.0",
		LogLevel:    DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DBPath != "" {
		if expandedPath, err := filepath.Abs(cfg.DBPath); err == nil {
			cfg.DBPath = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("COGNISCAN")
	viper.AutomaticEnv()

	viper.SetDefault("db", cfg.DBPath)
	viper.SetDefault("patient-id", cfg.PatientID)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("report", cfg.Report)
	viper.SetDefault("report-out", cfg.ReportOut)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("db", cfg.DBPath, "Path to the SQLite database")
	pflag.Int("patient-id", cfg.PatientID, "Patient ID (default: derived from the document filename)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Bool("report", cfg.Report, "Render a report PDF after importing")
	pflag.String("report-out", cfg.ReportOut, "Report output path (default: <patient-id>-report.pdf)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("db", pflag.Lookup("db"))
	_ = viper.BindPFlag("patient-id", pflag.Lookup("patient-id"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("report", pflag.Lookup("report"))
	_ = viper.BindPFlag("report-out", pflag.Lookup("report-out"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ncogniscan - import NeuroPsych Questionnaire results from assessment PDFs\n\n")
		fmt.Fprintf(os.Stderr, "  %s [options] <document.pdf>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s 34766-20231015201357.pdf                  # import, patient from filename\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --patient-id=34766 scan.pdf               # explicit patient\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --report --report-out=out.pdf input.pdf   # import and render report\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  COGNISCAN_DB           SQLite database path\n")
		fmt.Fprintf(os.Stderr, "  COGNISCAN_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  COGNISCAN_MAXFILESIZE  Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.DBPath = viper.GetString("db")
	cfg.PatientID = viper.GetInt("patient-id")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Report = viper.GetBool("report")
	cfg.ReportOut = viper.GetString("report-out")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path cannot be empty")
	}

	if c.PatientID < 0 {
		return errors.New("patient id cannot be negative")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{DBPath: %s, PatientID: %d, LogLevel: %s, MaxFileSize: %d, Report: %t}",
		c.DBPath, c.PatientID, c.LogLevel, c.MaxFileSize, c.Report)
}
