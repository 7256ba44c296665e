package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for visakha-admin.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (JWT signing key) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:""`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Mongo holds document store configuration.
	Mongo MongoConfig `yaml:"mongo"`

	// Auth holds session and Google sign-in configuration.
	Auth AuthConfig `yaml:"auth"`

	// Pagination holds page-size defaults and the global clamp.
	Pagination PaginationConfig `yaml:"pagination"`
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI         string `yaml:"uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	Database    string `yaml:"database" env:"MONGODB_DATABASE" env-default:"chatbot"`
	MaxPoolSize uint64 `yaml:"max_pool_size" env:"MONGODB_MAX_POOL_SIZE" env-default:"25"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// JWTSecret signs session tokens (HS256). Secret - not in YAML.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"`

	// TokenTTLHours is the session token lifetime.
	TokenTTLHours int `yaml:"token_ttl_hours" env:"AUTH_TOKEN_TTL_HOURS" env-default:"24"`

	// GoogleClientID is the OAuth client ID used as the expected audience
	// when verifying Google ID tokens.
	GoogleClientID string `yaml:"google_client_id" env:"GOOGLE_CLIENT_ID" env-default:""`

	// BootstrapAdminEmail is seeded as a super admin when admin_users holds
	// no super admin at startup (and by dev login).
	BootstrapAdminEmail string `yaml:"bootstrap_admin_email" env:"BOOTSTRAP_ADMIN_EMAIL" env-default:"admin@example.com"`
}

// PaginationConfig holds page-size defaults for list endpoints.
type PaginationConfig struct {
	// FeedbackPageSize is the default limit for /feedback-conversations.
	FeedbackPageSize int `yaml:"feedback_page_size" env:"PAGINATION_FEEDBACK_PAGE_SIZE" env-default:"10"`
	// AdminPageSize is the default limit for admin list endpoints.
	AdminPageSize int `yaml:"admin_page_size" env:"PAGINATION_ADMIN_PAGE_SIZE" env-default:"20"`
	// MaxPageSize clamps any client-supplied limit.
	MaxPageSize int `yaml:"max_page_size" env:"PAGINATION_MAX_PAGE_SIZE" env-default:"100"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnv reads configuration from environment variables only. Used by the
// knowledge MCP binary, which runs as a stdio subprocess without a config
// file next to it.
func LoadEnv(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in the production environment.
// Dev login is rejected when this is true.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// validate checks invariants that cleanenv defaults cannot express.
func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("token_ttl_hours must be positive, got %d", c.Auth.TokenTTLHours)
	}
	if c.Pagination.MaxPageSize <= 0 {
		return fmt.Errorf("max_page_size must be positive, got %d", c.Pagination.MaxPageSize)
	}
	return nil
}
