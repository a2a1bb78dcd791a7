package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"invoices/internal/logger"
)

// DefaultAPIURL is the collection endpoint of a locally running invoice service.
const DefaultAPIURL = "http://127.0.0.1:8080/invoices"

var (
	// ErrMissingDocumentAI is returned when scan-to-draft is requested without Document AI settings.
	ErrMissingDocumentAI = errors.New("document AI is not configured")

	// ErrMissingSheet is returned when an export is requested without a target sheet.
	ErrMissingSheet = errors.New("google sheet is not configured")
)

type Config struct {
	// Invoice service
	APIURL         string
	HTTPTimeout    time.Duration
	StrictDecoding bool
	RequestFencing bool
	SampleWithID   bool

	// Local sandbox service
	SandboxAddr   string
	SandboxDBPath string

	// Google Cloud Configuration
	GoogleCloudProject         string
	GoogleCloudLocation        string
	DocumentAIProcessorID      string
	DocumentAIProcessorVersion string

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. Only malformed values are errors;
// settings a particular command needs are checked by that command.
func Load() (*Config, error) {
	config := &Config{
		APIURL:                     getEnv("INVOICES_API_URL", DefaultAPIURL),
		SandboxAddr:                getEnv("SANDBOX_ADDR", ":8080"),
		SandboxDBPath:              getEnv("SANDBOX_DB_PATH", ""),
		GoogleCloudProject:         getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:        getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID:      getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		DocumentAIProcessorVersion: getEnv("DOCUMENT_AI_PROCESSOR_VERSION", ""),
		GoogleSheetURL:             getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:       getEnv("GOOGLE_SHEET_WORKSHEET", "Invoices"),
		LogLevel:                   getEnv("LOG_LEVEL", "info"),
		LogFormat:                  getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:              getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:                  getEnv("LOG_OUTPUT", "stderr"),
	}

	var err error
	if config.HTTPTimeout, err = getDuration("INVOICES_HTTP_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if config.StrictDecoding, err = getBool("INVOICES_STRICT_DECODING", true); err != nil {
		return nil, err
	}
	if config.RequestFencing, err = getBool("INVOICES_REQUEST_FENCING", false); err != nil {
		return nil, err
	}
	if config.SampleWithID, err = getBool("INVOICES_SAMPLE_WITH_ID", false); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when the environment cannot be read.
func Default() *Config {
	return &Config{
		APIURL:               DefaultAPIURL,
		StrictDecoding:       true,
		SandboxAddr:          ":8080",
		GoogleCloudLocation:  "us",
		GoogleSheetWorksheet: "Invoices",
		LogLevel:             "info",
		LogFormat:            "console",
		LogTimeFormat:        time.RFC3339,
		LogOutput:            "stderr",
	}
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("INVOICES_API_URL must not be empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("INVOICES_HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// RequireDocumentAI checks the settings needed to turn scanned invoices into drafts.
func (c *Config) RequireDocumentAI() error {
	if c.GoogleCloudProject == "" {
		return fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT is required", ErrMissingDocumentAI)
	}
	if c.DocumentAIProcessorID == "" {
		return fmt.Errorf("%w: DOCUMENT_AI_PROCESSOR_ID is required", ErrMissingDocumentAI)
	}
	return nil
}

// RequireSheets checks the settings needed to export invoices to Google Sheets.
func (c *Config) RequireSheets() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("%w: GOOGLE_SHEET_URL is required", ErrMissingSheet)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
