// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Warning store backends
const (
	WarningsBackendMemory = "memory"
	WarningsBackendMongo  = "mongo"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string
	DevGuildID string

	// Storage
	DataDir         string
	WarningsBackend string

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string
	MQTTTopic    string

	// Web Server
	Port      string
	FeedToken string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook string
	LogsWebhook  string
}

var (
	Version   = "Dev-Local"
	BuildTime = "unknown"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		BotToken:   getEnv("DISCORD_TOKEN", ""),
		DevGuildID: getEnv("DEV_GUILD_ID", ""),

		DataDir:         getEnv("DATA_DIR", "data"),
		WarningsBackend: strings.ToLower(getEnv("WARNINGS_BACKEND", WarningsBackendMemory)),

		MongoDBURL: getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DBName:     getEnv("DB_NAME", "BeamBot"),

		MQTTHost:     getEnv("MQTT_HOST", ""),
		MQTTPort:     getEnv("MQTT_PORT", "1883"),
		MQTTUser:     getEnv("MQTT_USER", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "beambot/modlog"),

		Port:      getEnv("PORT", "8000"),
		FeedToken: getEnv("FEED_TOKEN", ""),

		Environment: getEnv("ENVIRONMENT", "dev"),

		ErrorWebhook: getEnv("ERROR_WEBHOOK", ""),
		LogsWebhook:  getEnv("LOGS_WEBHOOK", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// MQTTEnabled reports whether a broker has been configured
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}

// UseMongoWarnings reports whether warnings should be kept in MongoDB
func (c *Config) UseMongoWarnings() bool {
	return c.WarningsBackend == WarningsBackendMongo
}

// FeedEnabled reports whether the moderation feed should be served
func (c *Config) FeedEnabled() bool {
	return c.FeedToken != ""
}
