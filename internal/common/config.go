package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Azure       AzureConfig
	Dirs        DirsConfig
	Poll        PollConfig
	Journal     JournalConfig
	Extract     ExtractConfig
	AutoConfirm bool
}

// AzureConfig holds the Azure OpenAI connection settings.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Timeout    time.Duration
}

// DirsConfig holds the intake, scratch and archive directories.
type DirsConfig struct {
	Submissions string
	Data        string
	Processed   string
}

// PollConfig holds run/batch polling behavior.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration // 0 means wait forever
}

// JournalConfig holds the processing journal location.
type JournalConfig struct {
	Path string
}

// ExtractConfig holds extraction behavior toggles.
type ExtractConfig struct {
	PromptsFile string
	Validate    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	processed := getEnv("PROCESSED_DIR", "processed")
	return &Config{
		Azure: AzureConfig{
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-05-01-preview"),
			Deployment: getEnv("GPT4_DEPLOYMENT_NAME", ""),
			Timeout:    getEnvAsDuration("AZURE_OPENAI_TIMEOUT", 60*time.Second),
		},
		Dirs: DirsConfig{
			Submissions: getEnv("SUBMISSIONS_DIR", "submissions"),
			Data:        getEnv("DATA_DIR", "data"),
			Processed:   processed,
		},
		Poll: PollConfig{
			Interval: getEnvAsDuration("POLL_INTERVAL", 5*time.Second),
			Timeout:  getEnvAsDuration("POLL_TIMEOUT", 30*time.Minute),
		},
		Journal: JournalConfig{
			Path: getEnv("JOURNAL_PATH", filepath.Join(processed, "journal.db")),
		},
		Extract: ExtractConfig{
			PromptsFile: getEnv("PROMPTS_FILE", ""),
			Validate:    getEnvAsBool("EXTRACT_VALIDATE", false),
		},
		AutoConfirm: getEnvAsBool("AUTO_CONFIRM", false),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Azure.Endpoint == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_OPENAI_ENDPOINT is required", ErrInvalidInput)
	}
	if c.Azure.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Azure.Deployment == "" {
		return NewAppError("CONFIG_ERROR", "GPT4_DEPLOYMENT_NAME is required", ErrInvalidInput)
	}
	if c.Poll.Interval <= 0 {
		return NewAppError("CONFIG_ERROR", "POLL_INTERVAL must be positive", ErrInvalidInput)
	}
	return nil
}
