// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	PublicBaseURL string        `mapstructure:"PUBLIC_BASE_URL"`

	// Database Configuration
	MongoURI            string        `mapstructure:"MONGO_URI"`
	MongoDBName         string        `mapstructure:"MONGO_DB_NAME"`
	MongoConnectTimeout time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT_SECONDS"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Frontend / CORS
	FrontendOrigin    string `mapstructure:"FRONTEND_ORIGIN"`
	LoginSuccessURL   string `mapstructure:"LOGIN_SUCCESS_URL"`
	LoginFailureURL   string `mapstructure:"LOGIN_FAILURE_URL"`
	DefaultProfilePic string `mapstructure:"DEFAULT_PROFILE_PIC"`
	UploadDir         string `mapstructure:"UPLOAD_DIR"`

	// Authentication
	AuthMode             string        `mapstructure:"AUTH_MODE"` // "google" or "static" (tests)
	GoogleClientID       string        `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string        `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL    string        `mapstructure:"GOOGLE_REDIRECT_URL"`
	OAuthStateCookieName string        `mapstructure:"OAUTH_STATE_COOKIE_NAME"`
	SessionCookieName    string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionCookieSecure  bool          `mapstructure:"SESSION_COOKIE_SECURE"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL_HOURS"`

	// Cron Jobs
	SessionExpiryJobSchedule string `mapstructure:"SESSION_EXPIRY_JOB_SCHEDULE"`

	// Upstream catalog configuration
	MarvelBaseURL    string        `mapstructure:"MARVEL_BASE_URL"`
	MarvelPublicKey  string        `mapstructure:"MARVEL_PUBLIC_KEY"`
	MarvelPrivateKey string        `mapstructure:"MARVEL_PRIVATE_KEY"`
	ComicVineBaseURL string        `mapstructure:"COMIC_VINE_BASE_URL"`
	ComicVineAPIKey  string        `mapstructure:"COMIC_VINE_API_KEY"`
	CatalogTimeout   time.Duration `mapstructure:"CATALOG_TIMEOUT_SECONDS"`
	CatalogPageSize  int           `mapstructure:"CATALOG_PAGE_SIZE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:5000")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "marvel_nexus")
	v.SetDefault("MONGO_CONNECT_TIMEOUT_SECONDS", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("FRONTEND_ORIGIN", "http://localhost:5173")
	v.SetDefault("LOGIN_SUCCESS_URL", "http://localhost:5173/profile")
	v.SetDefault("LOGIN_FAILURE_URL", "http://localhost:5173/")
	v.SetDefault("DEFAULT_PROFILE_PIC", "/default-profile-pic.jpg")
	v.SetDefault("UPLOAD_DIR", "./uploads")

	v.SetDefault("AUTH_MODE", "google")
	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")
	v.SetDefault("SESSION_COOKIE_NAME", "nexus_session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_TTL_HOURS", 14*24) // 14 days

	v.SetDefault("SESSION_EXPIRY_JOB_SCHEDULE", "@daily")

	v.SetDefault("MARVEL_BASE_URL", "https://gateway.marvel.com/v1/public")
	v.SetDefault("COMIC_VINE_BASE_URL", "https://comicvine.gamespot.com/api")
	v.SetDefault("CATALOG_TIMEOUT_SECONDS", 15)
	v.SetDefault("CATALOG_PAGE_SIZE", 20)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.MongoConnectTimeout = time.Duration(v.GetInt("MONGO_CONNECT_TIMEOUT_SECONDS")) * time.Second
	cfg.SessionTTL = time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour
	cfg.CatalogTimeout = time.Duration(v.GetInt("CATALOG_TIMEOUT_SECONDS")) * time.Second

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.MongoURI) == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	if cfg.AuthMode != "google" && cfg.AuthMode != "static" {
		return nil, fmt.Errorf("AUTH_MODE must be 'google' or 'static', got %q", cfg.AuthMode)
	}
	if cfg.AuthMode == "google" {
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required when AUTH_MODE=google")
		}
		if cfg.GoogleRedirectURL == "" {
			cfg.GoogleRedirectURL = cfg.PublicBaseURL + "/auth/google/callback"
		}
	}

	return &cfg, nil
}
