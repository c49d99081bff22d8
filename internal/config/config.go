package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Calendar CalendarConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	AllowedHosts    []string
	ShutdownTimeout int
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string
	Database       string
	ConnectTimeout int
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// StorageConfig holds image storage configuration
type StorageConfig struct {
	Bucket        string
	PublicBaseURL string
	MaxUploadMB   int
}

// CalendarConfig holds calendar presentation configuration
type CalendarConfig struct {
	Timezone string
}

// Load loads configuration from environment variables and an optional
// config.yaml found in path or ./config
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Comma separated override, e.g. ALLOWED_HOSTS=app.example.org,localhost:3000
	cfg.Server.AllowedHosts = GetEnvAsSlice("ALLOWED_HOSTS", ",", cfg.Server.AllowedHosts)

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("Server.ShutdownTimeout", 10)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "church-calendar")
	v.SetDefault("MongoDB.ConnectTimeout", 10)
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Storage.Bucket", "event_images")
	v.SetDefault("Storage.PublicBaseURL", "/api/v1/media")
	v.SetDefault("Storage.MaxUploadMB", 8)
	v.SetDefault("Calendar.Timezone", "Local")
	v.SetDefault("LogLevel", "info")
}

// Location resolves the calendar timezone, falling back to the server's local zone
func (c CalendarConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[WARN] Config: unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}
