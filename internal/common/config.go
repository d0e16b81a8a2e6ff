package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store    StoreConfig
	OCR      OCRConfig
	Pipeline PipelineConfig
	Currency CurrencyConfig
}

// StoreConfig holds persistence-related configuration
type StoreConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	TesseractBin  string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// PipelineConfig holds retry/backoff configuration for pipeline runs
type PipelineConfig struct {
	MaxAttempts    int
	BackoffBase    time.Duration
	ProcessTimeout time.Duration
	Workers        int
}

// CurrencyConfig holds currency defaults
type CurrencyConfig struct {
	BaseCurrency string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:        getEnv("STORE_PATH", "./docpipe.db"),
			BusyTimeout: getEnvAsDuration("STORE_BUSY_TIMEOUT", 5*time.Second),
		},
		OCR: OCRConfig{
			TesseractBin:  getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Pipeline: PipelineConfig{
			MaxAttempts:    getEnvAsInt("PIPELINE_MAX_ATTEMPTS", 3),
			BackoffBase:    getEnvAsDuration("PIPELINE_BACKOFF_BASE", time.Minute),
			ProcessTimeout: getEnvAsDuration("PIPELINE_PROCESS_TIMEOUT", 3*time.Minute),
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 4),
		},
		Currency: CurrencyConfig{
			BaseCurrency: getEnv("BASE_CURRENCY", "USD"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return NewAppError("CONFIG_ERROR", "STORE_PATH is required", ErrInvalidInput)
	}
	if c.Pipeline.MaxAttempts < 1 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_MAX_ATTEMPTS must be >= 1", ErrInvalidInput)
	}
	if len(c.Currency.BaseCurrency) != 3 {
		return NewAppError("CONFIG_ERROR", "BASE_CURRENCY must be a 3-letter ISO code", ErrInvalidInput)
	}
	return nil
}
