package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported entity store drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
		Mode         string `yaml:"mode" env:"SERVER_MODE" env-default:"development"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"10s"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
		URL             string `yaml:"url" env:"DB_URL"`
		Name            string `yaml:"name" env:"DB_NAME" env-default:"coursedesk"`
		SQLitePath      string `yaml:"sqlite_path" env:"DB_SQLITE_PATH" env-default:"coursedesk.db"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"20"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"2"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION" env-default:"1h"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION" env-default:"168h"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER" env-default:"coursedesk"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	} `yaml:"logging"`

	Provider struct {
		BaseURL        string `yaml:"base_url" env:"PROVIDER_BASE_URL"`
		Session        string `yaml:"session" env:"PROVIDER_SESSION" env-default:"default"`
		APIKey         string `yaml:"api_key" env:"PROVIDER_API_KEY"`
		Timeout        string `yaml:"timeout" env:"PROVIDER_TIMEOUT" env-default:"0s"`
		GroupsCacheTTL string `yaml:"groups_cache_ttl" env:"PROVIDER_GROUPS_CACHE_TTL" env-default:"60s"`
	} `yaml:"provider"`

	Admin struct {
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
		Name     string `yaml:"name" env:"ADMIN_NAME" env-default:"Administrator"`
	} `yaml:"admin"`

	RateLimit struct {
		LoginRPS   float64 `yaml:"login_rps" env:"RATELIMIT_LOGIN_RPS" env-default:"1"`
		LoginBurst int     `yaml:"login_burst" env:"RATELIMIT_LOGIN_BURST" env-default:"5"`
	} `yaml:"ratelimit"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables.
// Environment variables win over the file; unset fields fall back to their env-default.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	config.Admin.Email = strings.ToLower(strings.TrimSpace(config.Admin.Email))

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres, DriverMongo:
		if config.Database.URL == "" {
			return fmt.Errorf("database url is required for driver %q", config.Database.Driver)
		}
	case DriverSQLite:
		if config.Database.SQLitePath == "" {
			return fmt.Errorf("database sqlite_path is required for driver %q", config.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Provider.BaseURL == "" {
		return fmt.Errorf("provider base_url is required")
	}

	if config.Provider.APIKey == "" {
		return fmt.Errorf("provider api_key is required")
	}

	durations := map[string]string{
		"server read_timeout":          config.Server.ReadTimeout,
		"server write_timeout":         config.Server.WriteTimeout,
		"database conn_max_lifetime":   config.Database.ConnMaxLifetime,
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"JWT refresh token expiration": config.JWT.RefreshTokenExpiration,
		"provider timeout":             config.Provider.Timeout,
		"provider groups_cache_ttl":    config.Provider.GroupsCacheTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.RateLimit.LoginRPS <= 0 || config.RateLimit.LoginBurst <= 0 {
		return fmt.Errorf("ratelimit login_rps and login_burst must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
