package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port string

	// Data source selection
	DataSource string

	// CSV directory source
	CSVDir string

	// Google Sheets source
	GoogleSpreadsheetID   string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
	ActualsTab            string
	BudgetTab             string
	FxTab                 string
	CashTab               string

	// Serving
	CacheTTL        time.Duration
	RefreshInterval time.Duration // 0 disables background refresh

	// Logging
	LogLevel  string
	LogPretty bool

	// Router holds settings for an external LLM router that may front the
	// deterministic classifier. Validated here, never invoked here.
	Router Router
}

// Router is the external question-router configuration.
type Router struct {
	Model   string
	APIKey  string
	BaseURL string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DataSource: getEnv("DATA_SOURCE", "memory"),
		CSVDir:     getEnv("CSV_DIR", "fixtures"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		ActualsTab:            getEnv("SHEETS_ACTUALS_TAB", "actuals"),
		BudgetTab:             getEnv("SHEETS_BUDGET_TAB", "budget"),
		FxTab:                 getEnv("SHEETS_FX_TAB", "fx"),
		CashTab:               getEnv("SHEETS_CASH_TAB", "cash"),

		CacheTTL:        getEnvDuration("CACHE_TTL", 15*time.Minute),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),

		Router: Router{
			Model:   getEnv("ROUTER_MODEL", "gpt-5-mini"),
			APIKey:  getEnv("ROUTER_API_KEY", ""),
			BaseURL: getEnv("ROUTER_BASE_URL", "https://api.openai.com/v1"),
		},
	}

	// The standard Google credential variable works as a file fallback.
	if cfg.GoogleCredentialsJSON == "" && cfg.GoogleCredentialsFile == "" {
		cfg.GoogleCredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data source
	validSources := []string{"memory", "csv", "sheets"}
	isValidSource := false
	for _, source := range validSources {
		if c.DataSource == source {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid data source '%s': must be one of %v", c.DataSource, validSources))
	}

	// Validate CSV configuration if source is csv
	if c.DataSource == "csv" {
		if c.CSVDir == "" {
			errors = append(errors, "CSV directory cannot be empty when using csv source")
		} else if info, err := os.Stat(c.CSVDir); err != nil {
			errors = append(errors, fmt.Sprintf("CSV directory does not exist: %s", c.CSVDir))
		} else if !info.IsDir() {
			errors = append(errors, fmt.Sprintf("CSV directory is not a directory: %s", c.CSVDir))
		}
	}

	// Validate Google Sheets configuration if source is sheets
	if c.DataSource == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}

		hasJSON := c.GoogleCredentialsJSON != ""
		hasFile := c.GoogleCredentialsFile != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets source")
		}
		if hasFile && !hasJSON {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}

		for _, tab := range []struct{ name, value string }{
			{"actuals", c.ActualsTab},
			{"budget", c.BudgetTab},
			{"fx", c.FxTab},
			{"cash", c.CashTab},
		} {
			if tab.value == "" {
				errors = append(errors, fmt.Sprintf("%s tab name cannot be empty when using sheets source", tab.name))
			}
		}
	}

	// Validate serving intervals
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}

	if c.RefreshInterval != 0 {
		if c.RefreshInterval < time.Second {
			errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 second", c.RefreshInterval))
		} else if c.RefreshInterval > 24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
		}
	}

	// Validate router configuration if provided
	if c.Router.BaseURL != "" {
		if parsedURL, err := url.Parse(c.Router.BaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid router base URL '%s': %v", c.Router.BaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid router base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}
	if c.Router.APIKey != "" && c.Router.Model == "" {
		errors = append(errors, "router model cannot be empty when a router API key is provided")
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
