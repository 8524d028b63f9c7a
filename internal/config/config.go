package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	ServerPort      string
	FrontendURL     string
	RedisURL        string
	RabbitMQURL     string
	OpenAIKey       string
	AIModel         string
	AIBaseURL       string
	UploadDir       string
	ReminderLead    time.Duration
	PollInterval    time.Duration
	IdleTimeout     time.Duration
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// fileConfig mirrors Config for the YAML overlay. Durations are strings so
// "10s" / "2m" style values work.
type fileConfig struct {
	DatabaseURL     *string `yaml:"database_url"`
	ServerPort      *string `yaml:"server_port"`
	FrontendURL     *string `yaml:"frontend_url"`
	RedisURL        *string `yaml:"redis_url"`
	RabbitMQURL     *string `yaml:"rabbitmq_url"`
	OpenAIKey       *string `yaml:"openai_api_key"`
	AIModel         *string `yaml:"ai_model"`
	AIBaseURL       *string `yaml:"ai_base_url"`
	UploadDir       *string `yaml:"upload_dir"`
	ReminderLead    *string `yaml:"reminder_lead"`
	PollInterval    *string `yaml:"poll_interval"`
	IdleTimeout     *string `yaml:"idle_timeout"`
	EnableHSTS      *bool   `yaml:"enable_hsts"`
	ServerDebugMode *bool   `yaml:"server_debug_mode"`
	OTELEnabled     *bool   `yaml:"otel_enabled"`
	OTELEndpoint    *string `yaml:"otel_endpoint"`
}

// Load builds configuration from an optional YAML file (DESKMATE_CONFIG)
// overlaid by environment variables. Environment always wins so container
// deployments can override a baked-in file.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:   "8080",
		FrontendURL:  "http://localhost:3000",
		RedisURL:     "redis://localhost:6379/0",
		UploadDir:    "uploads",
		ReminderLead: 24 * time.Hour,
		PollInterval: 10 * time.Second,
		IdleTimeout:  8 * time.Second,
	}

	if path := os.Getenv("DESKMATE_CONFIG"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ReminderLead < 0 {
		return nil, fmt.Errorf("reminder lead must not be negative")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if cfg.IdleTimeout <= 0 {
		return nil, fmt.Errorf("idle timeout must be positive")
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setDuration := func(dst *time.Duration, src *string, field string) error {
		if src == nil {
			return nil
		}
		d, err := parseDuration(*src)
		if err != nil {
			return fmt.Errorf("invalid %s in config file: %w", field, err)
		}
		*dst = d
		return nil
	}

	setString(&cfg.DatabaseURL, fc.DatabaseURL)
	setString(&cfg.ServerPort, fc.ServerPort)
	setString(&cfg.FrontendURL, fc.FrontendURL)
	setString(&cfg.RedisURL, fc.RedisURL)
	setString(&cfg.RabbitMQURL, fc.RabbitMQURL)
	setString(&cfg.OpenAIKey, fc.OpenAIKey)
	setString(&cfg.AIModel, fc.AIModel)
	setString(&cfg.AIBaseURL, fc.AIBaseURL)
	setString(&cfg.UploadDir, fc.UploadDir)
	setString(&cfg.OTELEndpoint, fc.OTELEndpoint)
	setBool(&cfg.EnableHSTS, fc.EnableHSTS)
	setBool(&cfg.ServerDebugMode, fc.ServerDebugMode)
	setBool(&cfg.OTELEnabled, fc.OTELEnabled)
	if err := setDuration(&cfg.ReminderLead, fc.ReminderLead, "reminder_lead"); err != nil {
		return err
	}
	if err := setDuration(&cfg.PollInterval, fc.PollInterval, "poll_interval"); err != nil {
		return err
	}
	if err := setDuration(&cfg.IdleTimeout, fc.IdleTimeout, "idle_timeout"); err != nil {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.AIModel = getEnv("AI_MODEL", cfg.AIModel)
	cfg.AIBaseURL = getEnv("AI_BASE_URL", cfg.AIBaseURL)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.ReminderLead = getEnvDuration("REMINDER_LEAD", cfg.ReminderLead)
	cfg.PollInterval = getEnvDuration("POLL_INTERVAL", cfg.PollInterval)
	cfg.IdleTimeout = getEnvDuration("IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := parseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseDuration accepts Go duration syntax ("10s", "2m") or a bare number of
// seconds.
func parseDuration(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("cannot parse duration %q", value)
}
