// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded before reading the environment when present.
const DefaultEnvFile = "config/local.env"

// Config holds all application configuration
type Config struct {
	// DatabaseURL is optional. Without it the server keeps state in memory.
	DatabaseURL string

	Server       ServerConfig
	CORS         CORSConfig
	Logging      LoggingConfig
	Session      SessionConfig
	TalentSource TalentSourceConfig
	Planning     PlanningConfig

	// ReferenceDataDir overrides the embedded reference tables file by file.
	ReferenceDataDir string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string
	Port int
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// SessionConfig controls planning-session tokens.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// TalentSourceConfig points at the external talent lookup. An empty URL disables it.
type TalentSourceConfig struct {
	URL       string
	UserAgent string
}

// PlanningConfig tunes the planning engines.
type PlanningConfig struct {
	LeaderPct     float64
	StrictCeiling bool
}

// Load reads DefaultEnvFile if it exists, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(DefaultEnvFile)
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	var problems []string
	cfg := &Config{
		DatabaseURL:      env("DATABASE_URL", ""),
		ReferenceDataDir: env("REFERENCE_DATA_DIR", ""),
		Server:           ServerConfig{Host: env("HOST", "0.0.0.0")},
		CORS:             CORSConfig{AllowedOrigins: parseList(env("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))},
		Logging: LoggingConfig{
			Level:  strings.ToLower(env("LOG_LEVEL", "info")),
			Format: strings.ToLower(env("LOG_FORMAT", "json")),
		},
		Session: SessionConfig{Secret: env("SESSION_SECRET", "")},
		TalentSource: TalentSourceConfig{
			URL:       env("TALENT_SOURCE_URL", ""),
			UserAgent: env("TALENT_SOURCE_USER_AGENT", "stagehand/1.0"),
		},
	}

	port, err := strconv.Atoi(env("PORT", "8080"))
	if err != nil {
		problems = append(problems, "PORT must be a number")
	}
	cfg.Server.Port = port

	ttl, err := time.ParseDuration(env("SESSION_TTL", "24h"))
	if err != nil {
		problems = append(problems, "SESSION_TTL must be a duration such as 24h")
	}
	cfg.Session.TTL = ttl

	leader, err := strconv.ParseFloat(env("TOUR_LEADER_PCT", "30"), 64)
	if err != nil {
		problems = append(problems, "TOUR_LEADER_PCT must be a number")
	}
	cfg.Planning.LeaderPct = leader

	strict, err := strconv.ParseBool(env("TALENT_STRICT_CEILING", "false"))
	if err != nil {
		problems = append(problems, "TALENT_STRICT_CEILING must be true or false")
	}
	cfg.Planning.StrictCeiling = strict

	problems = append(problems, cfg.problems()...)
	if len(problems) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	if problems := c.problems(); len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func (c *Config) problems() []string {
	var problems []string

	if len(c.Session.Secret) < 16 {
		problems = append(problems, "SESSION_SECRET must be at least 16 characters")
	}
	if c.Session.TTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, "PORT must be between 1 and 65535")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		problems = append(problems, "LOG_LEVEL must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true, "text": true}
	if !validFormats[c.Logging.Format] {
		problems = append(problems, "LOG_FORMAT must be one of: json, console")
	}

	if c.Planning.LeaderPct < 0 || c.Planning.LeaderPct > 100 {
		problems = append(problems, "TOUR_LEADER_PCT must be between 0 and 100")
	}

	return problems
}

// MemoryMode reports whether the server runs without Postgres.
func (c *Config) MemoryMode() bool {
	return c.DatabaseURL == ""
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
