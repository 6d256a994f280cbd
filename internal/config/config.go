package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Source kinds accepted by SALES_SOURCE_KIND.
const (
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceSheets = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// DataConfig selects where the sales dataset is read from.
type DataConfig struct {
	SourceKind  string
	Path        string
	URL         string
	SheetRange  string
	HTTPTimeout time.Duration
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ReportingConfig holds scheduler and report defaults.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
	TopN         int
}

// MongoDBConfig holds settings for MongoDB. An empty URI disables snapshots.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	topN, err := getenvInt("REPORT_TOP_N", 10)
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(getenvWithDefault("SALES_HTTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("SALES_HTTP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			SourceKind:  getenvWithDefault("SALES_SOURCE_KIND", SourceFile),
			Path:        getenvWithDefault("SALES_DATA_PATH", "data/sales_data.csv"),
			URL:         os.Getenv("SALES_DATA_URL"),
			SheetRange:  getenvWithDefault("SALES_SHEET_RANGE", "Sales!A:L"),
			HTTPTimeout: timeout,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 * * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
			TopN:         topN,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "sales"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Data.SourceKind {
	case SourceFile:
		if c.Data.Path == "" {
			return errors.New("SALES_DATA_PATH must be provided for the file source")
		}
	case SourceHTTP:
		if c.Data.URL == "" {
			return errors.New("SALES_DATA_URL must be provided for the http source")
		}
	case SourceSheets:
		if err := c.Sheets.Validate(); err != nil {
			return err
		}
		if c.Data.SheetRange == "" {
			return errors.New("SALES_SHEET_RANGE must be provided for the sheets source")
		}
	default:
		return fmt.Errorf("SALES_SOURCE_KIND %q must be one of file, http, sheets", c.Data.SourceKind)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.Reporting.TopN <= 0 {
		return errors.New("REPORT_TOP_N must be a positive integer")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	return nil
}

// Validate checks the credentials needed to reach a spreadsheet.
func (s SheetsConfig) Validate() error {
	if s.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}

	if s.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
