package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Inspection InspectionConfig
	Auth       AuthConfig
	Scheduler  SchedulerConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig selects and configures the document store backend
type StoreConfig struct {
	Backend  string // "memory", "sqlite", "postgres", "mongodb"
	SQLite   SQLiteConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
}

// SQLiteConfig holds the on-disk SQLite store configuration
type SQLiteConfig struct {
	Path string
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// InspectionConfig holds the engine configuration
type InspectionConfig struct {
	ResetHour   int    // Local hour gating the scheduled daily reset
	RecentLimit int    // Recent-activity feed size
	CatalogPath string // Optional YAML room catalog overriding the built-in seed
	MediaDir    string // Directory for uploaded inspection images
}

// AuthConfig holds the local auth provider configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// SchedulerConfig holds the periodic trigger cadences
type SchedulerConfig struct {
	ResetCheckInterval time.Duration
	RefreshInterval    time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string // "debug", "info", "warn", "error"
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/patrol")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PATROL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.idleTimeout", "120s")

	// Store defaults
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.sqlite.path", "patrol.db")
	v.SetDefault("store.postgres.host", "localhost")
	v.SetDefault("store.postgres.port", 5432)
	v.SetDefault("store.postgres.user", "patrol")
	v.SetDefault("store.postgres.password", "patrol")
	v.SetDefault("store.postgres.database", "patrol")
	v.SetDefault("store.postgres.sslMode", "disable")
	v.SetDefault("store.postgres.maxOpenConns", 10)
	v.SetDefault("store.postgres.maxIdleConns", 5)
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "patrol")
	v.SetDefault("store.mongo.collection", "documents")

	// Inspection defaults
	v.SetDefault("inspection.resetHour", 6)
	v.SetDefault("inspection.recentLimit", 5)
	v.SetDefault("inspection.catalogPath", "")
	v.SetDefault("inspection.mediaDir", "media")

	// Auth defaults (demo-grade, override in production)
	v.SetDefault("auth.jwtSecret", "patrol-demo-secret")
	v.SetDefault("auth.tokenTTL", "12h")

	// Scheduler defaults: reset check hourly, refresh every minute
	v.SetDefault("scheduler.resetCheckInterval", "1h")
	v.SetDefault("scheduler.refreshInterval", "1m")

	// Logging defaults
	v.SetDefault("logging.level", "info")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
