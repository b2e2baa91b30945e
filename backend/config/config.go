package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ServerPort  string `koanf:"server_port"`
	DatabaseURL string `koanf:"database_url"`
	SQLitePath  string `koanf:"sqlite_path"`
	SeedTracks  bool   `koanf:"seed_tracks"`

	JWTSecret       string        `koanf:"jwt_secret"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
	CookieSecure    bool          `koanf:"cookie_secure"`

	LeetCodeBaseURL    string        `koanf:"leetcode_base_url"`
	LeetCodeGraphQLURL string        `koanf:"leetcode_graphql_url"`
	LeetCodeTimeout    time.Duration `koanf:"leetcode_timeout"`
	LeetCodeUserAgent  string        `koanf:"leetcode_user_agent"`

	// RequestTimeout bounds the context handed to each request's handlers.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	CORSOrigins string `koanf:"cors_origins"`
	LogLevel    string `koanf:"log_level"`
	LogFormat   string `koanf:"log_format"`
}

func Default() *Config {
	return &Config{
		ServerPort:        "8080",
		SQLitePath:        "dsatracker.db",
		JWTSecret:         "dev-secret",
		AccessTokenTTL:    30 * time.Minute,
		RefreshTokenTTL:   30 * 24 * time.Hour,
		LeetCodeBaseURL:   "https://leetcode.com",
		LeetCodeTimeout:   15 * time.Second,
		LeetCodeUserAgent: "dsa-tracker/1.0",
		RequestTimeout:    60 * time.Second,
		CORSOrigins:       "*",
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// LoadConfig layers environment variables (optionally seeded from .env)
// over Default(). Only variables naming a known key are considered, so
// SERVER_PORT maps to server_port and PATH is ignored.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment variables")
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	envProvider := env.Provider("", ".", func(key string) string {
		key = strings.ToLower(key)
		if !k.Exists(key) {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.LeetCodeGraphQLURL == "" {
		cfg.LeetCodeGraphQLURL = strings.TrimRight(cfg.LeetCodeBaseURL, "/") + "/graphql"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.LeetCodeTimeout <= 0 {
		return errors.New("leetcode timeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.LeetCodeBaseURL == "" {
		return errors.New("leetcode base url is required")
	}
	return nil
}

// UsesPostgres reports whether a Postgres DSN was configured; otherwise
// the SQLite file at SQLitePath backs the store.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}
