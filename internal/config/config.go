package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Deployment modes
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Host        string `yaml:"host" env:"HOST"`
		Port        string `yaml:"port" env:"PORT"`
		Mode        string `yaml:"mode" env:"APP_ENV"`
		StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
		BaseURL     string `yaml:"base_url" env:"BASE_URL"`
	} `yaml:"server"`

	Database struct {
		URL             string `yaml:"url" env:"DATABASE_URL"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Auth struct {
		SecretKey              string `yaml:"secret_key" env:"SECRET_KEY"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"TOKEN_ISSUER"`
		CookieName             string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		CookieSecure           bool   `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
		// Set when SECRET_KEY was missing and a throwaway key was generated.
		GeneratedSecret bool `yaml:"-"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Admin struct {
		Email     string `yaml:"email" env:"ADMIN_EMAIL"`
		Password  string `yaml:"password" env:"ADMIN_PASSWORD"`
		FirstName string `yaml:"first_name" env:"ADMIN_FIRST_NAME"`
		LastName  string `yaml:"last_name" env:"ADMIN_LAST_NAME"`
	} `yaml:"admin"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; deployments commonly configure through the environment only
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if strings.TrimSpace(config.Auth.SecretKey) == "" {
		secret, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate secret key: %w", err)
		}
		config.Auth.SecretKey = secret
		config.Auth.GeneratedSecret = true
	}

	if config.IsProduction() {
		config.Auth.CookieSecure = true
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Host = "0.0.0.0"
	config.Server.Port = "1001"
	config.Server.Mode = ModeDevelopment
	config.Server.StoragePath = "uploads"
	config.Server.BaseURL = "http://localhost:1001"

	config.Database.URL = "sqlite:///alumni.db"
	config.Database.MaxOpenConns = 20
	config.Database.MaxIdleConns = 5
	config.Database.ConnMaxLifetime = "1h"

	config.Auth.AccessTokenExpiration = "12h"
	config.Auth.RefreshTokenExpiration = "720h"
	config.Auth.Issuer = "alumnihub"
	config.Auth.CookieName = "alumni_session"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Admin.Email = "admin@alumnihub.local"
	config.Admin.Password = "admin123"
	config.Admin.FirstName = "Admin"
	config.Admin.LastName = "User"

	config.SMTP.Port = 587
	config.SMTP.FromName = "Alumni Association"
	config.SMTP.FromEmail = "no-reply@alumnihub.local"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Server.Mode {
	case ModeDevelopment, ModeProduction, ModeTest:
	default:
		return fmt.Errorf("unknown server mode %q", config.Server.Mode)
	}

	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if _, err := time.ParseDuration(config.Auth.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Auth.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid refresh token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime: %w", err)
	}

	if config.Auth.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == ModeProduction
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func generateSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
