package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"sincroni/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Relay configuration
	ModWebhookURL       string // Moderation webhook receiving unredacted copies; empty disables auditing
	WordListPath        string // YAML profanity list; empty uses the built-in list
	DefaultEmbedColor   int
	DefaultGuildIconURL string
	BlockedAvatarURL    string
	SourceURL           string // Repository shown by /source

	// NATS configuration
	NATSServers       string // NATS server addresses (comma-separated); empty disables event streaming
	NATSSubjectPrefix string

	// OpenTelemetry configuration
	OTelEnabled      bool
	OTelExporterType string // "console" or "otlp"
	OTelEndpoint     string
	OTelServiceName  string

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

const (
	defaultEmbedColor     = 0xEB6D15
	defaultGuildIconURL   = "https://i.imgur.com/3ZUrjUP.png"
	defaultBlockedAvatar  = "https://i.imgur.com/qyk9vQq.png"
	defaultSourceURL      = "https://github.com/JDJG-Holding-Team/Sincroni"
	defaultSubjectPrefix  = "sincroni.events"
	defaultOTelEndpoint   = "localhost:4317"
	defaultOTelService    = "sincroni"
	defaultOTelExporter   = "console"
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	productionEnvironment = "production"
)

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads configuration from the environment without touching the singleton
func Load() (*Config, error) {
	return load()
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the bot runs with production logging
func (c *Config) IsProduction() bool {
	return c.Environment == productionEnvironment
}

// NATSEnabled reports whether registry events are streamed to NATS
func (c *Config) NATSEnabled() bool {
	return strings.TrimSpace(c.NATSServers) != ""
}

// AuditEnabled reports whether processed messages are mirrored to the moderation webhook
func (c *Config) AuditEnabled() bool {
	return c.ModWebhookURL != ""
}

func load() (*Config, error) {
	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		ModWebhookURL:       os.Getenv("MOD_WEBHOOK_URL"),
		WordListPath:        os.Getenv("WORD_LIST_PATH"),
		DefaultEmbedColor:   defaultEmbedColor,
		DefaultGuildIconURL: getEnvWithDefault("DEFAULT_GUILD_ICON_URL", defaultGuildIconURL),
		BlockedAvatarURL:    getEnvWithDefault("BLOCKED_AVATAR_URL", defaultBlockedAvatar),
		SourceURL:           getEnvWithDefault("SOURCE_URL", defaultSourceURL),

		NATSServers:       os.Getenv("NATS_SERVERS"),
		NATSSubjectPrefix: getEnvWithDefault("NATS_SUBJECT_PREFIX", defaultSubjectPrefix),

		OTelEnabled:      os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType: getEnvWithDefault("OTEL_EXPORTER_TYPE", defaultOTelExporter),
		OTelEndpoint:     getEnvWithDefault("OTEL_ENDPOINT", defaultOTelEndpoint),
		OTelServiceName:  getEnvWithDefault("OTEL_SERVICE_NAME", defaultOTelService),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", defaultLogLevel),
		Environment: getEnvWithDefault("ENVIRONMENT", defaultEnvironment),
	}

	if raw := os.Getenv("DEFAULT_EMBED_COLOR"); raw != "" {
		color, err := parseColor(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_EMBED_COLOR %q: %w", raw, err)
		}
		config.DefaultEmbedColor = color
	}

	switch config.OTelExporterType {
	case "console", "otlp":
	default:
		return nil, fmt.Errorf("OTEL_EXPORTER_TYPE must be console or otlp, got %q", config.OTelExporterType)
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// parseColor accepts decimal, 0x-prefixed or #-prefixed hex values
func parseColor(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	base := 10
	switch {
	case strings.HasPrefix(raw, "0x"), strings.HasPrefix(raw, "0X"):
		raw, base = raw[2:], 16
	case strings.HasPrefix(raw, "#"):
		raw, base = raw[1:], 16
	}

	value, err := strconv.ParseInt(raw, base, 32)
	if err != nil {
		return 0, err
	}
	if value < 0 || value > 0xFFFFFF {
		return 0, fmt.Errorf("color out of range")
	}
	return int(value), nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		DefaultEmbedColor:   defaultEmbedColor,
		DefaultGuildIconURL: defaultGuildIconURL,
		BlockedAvatarURL:    defaultBlockedAvatar,
		SourceURL:           defaultSourceURL,
		NATSSubjectPrefix:   defaultSubjectPrefix,
		OTelExporterType:    defaultOTelExporter,
		OTelServiceName:     defaultOTelService,
		LogLevel:            defaultLogLevel,
	}
}
