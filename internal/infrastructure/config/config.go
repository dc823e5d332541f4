// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} expansion
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	webhook := cfg.Notify.DiscordWebhook
package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Store         StoreConfig         `yaml:"store"`
	Email         EmailConfig         `yaml:"email"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment"`
	Notify        NotifyConfig        `yaml:"notify"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StoreConfig holds storefront scrape settings.
type StoreConfig struct {
	URL             string `yaml:"url" envconfig:"STORE_URL"`
	ScraperURL      string `yaml:"scraper_url" envconfig:"SCRAPER_URL" default:"http://localhost:5000"`
	CooldownSeconds int    `yaml:"cooldown_seconds" envconfig:"SYNC_COOLDOWN_SECONDS" default:"60"`
	MaxListings     int    `yaml:"max_listings" envconfig:"STORE_MAX_LISTINGS"`
}

// EmailConfig holds sale-notification mailbox settings. The IMAP client
// itself lives outside this repo; these values are passed through to it.
type EmailConfig struct {
	Address    string `yaml:"address" envconfig:"EMAIL_ADDRESS"`
	Password   string `yaml:"password" envconfig:"EMAIL_PASSWORD"`
	IMAPServer string `yaml:"imap_server" envconfig:"EMAIL_IMAP_SERVER" default:"imap.gmail.com"`
	UnreadOnly bool   `yaml:"unread_only" envconfig:"EMAIL_UNREAD_ONLY" default:"true"`
	MaxEmails  int    `yaml:"max_emails" envconfig:"EMAIL_MAX_EMAILS" default:"50"`
}

// EnrichmentConfig holds card lookup API settings.
type EnrichmentConfig struct {
	APIKey    string `yaml:"api_key" envconfig:"POKEMON_API_KEY"`
	BaseURL   string `yaml:"base_url" envconfig:"POKEMON_API_URL" default:"https://api.pokemontcg.io/v2"`
	CachePath string `yaml:"cache_path" envconfig:"IMAGE_CACHE_PATH" default:"image_cache.json"`
}

// NotifyConfig holds Discord webhook settings.
type NotifyConfig struct {
	DiscordWebhook string `yaml:"discord_webhook" envconfig:"DISCORD_WEBHOOK"`
}

// StorageConfig holds database configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" envconfig:"DB_PATH" default:"inventory.db"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Port           int      `yaml:"port" envconfig:"PORT" default:"8080"`
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${DISCORD_WEBHOOK})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	var cfg Config
	// Process only fails on malformed struct tags.
	_ = envconfig.Process("", &cfg)
	return &cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries the specified path, falls back to environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills zero values left by a sparse YAML file with the
// same defaults the env path gets from struct tags.
func (c *Config) applyDefaults() {
	if c.Store.CooldownSeconds == 0 {
		c.Store.CooldownSeconds = 60
	}
	if c.Store.ScraperURL == "" {
		c.Store.ScraperURL = "http://localhost:5000"
	}
	if c.Email.IMAPServer == "" {
		c.Email.IMAPServer = "imap.gmail.com"
	}
	if c.Email.MaxEmails == 0 {
		c.Email.MaxEmails = 50
	}
	if c.Enrichment.BaseURL == "" {
		c.Enrichment.BaseURL = "https://api.pokemontcg.io/v2"
	}
	if c.Enrichment.CachePath == "" {
		c.Enrichment.CachePath = "image_cache.json"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "inventory.db"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}
