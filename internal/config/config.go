package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/EncryptEx/ichack26/internal/seed"
)

type Config struct {
	Env            string
	LogLevel       string
	HTTPAddr       string
	DBType         string
	DBDSN          string
	DataDir        string
	RosterFile     string
	CacheBackend   string
	RedisAddr      string
	LeaderboardTTL time.Duration
	SeedMode       seed.Mode
	AuthServiceURL string

	// Client side: where sleepctl finds the API and which token it sends.
	APIBaseURL string
	APIToken   string
}

var (
	cfg     *Config
	loadErr error
	once    sync.Once
)

// Load reads .env (if present) and the environment once per process.
func Load() (*Config, error) {
	once.Do(func() {
		_ = godotenv.Load()
		cfg, loadErr = FromEnv()
	})
	return cfg, loadErr
}

// FromEnv builds and validates a Config from the current environment.
func FromEnv() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("LEADERBOARD_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("config: LEADERBOARD_TTL: %w", err)
	}
	mode, err := seed.ParseMode(getEnv("SEED_MODE", string(seed.ModeRandom)))
	if err != nil {
		return nil, fmt.Errorf("config: SEED_MODE: %w", err)
	}

	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		DBType:         getEnv("STORAGE_BACKEND", "file"),
		DBDSN:          getEnv("POSTGRES_DSN", ""),
		DataDir:        getEnv("DATA_DIR", "data"),
		RosterFile:     getEnv("ROSTER_FILE", ""),
		CacheBackend:   getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		LeaderboardTTL: ttl,
		SeedMode:       mode,
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		APIToken:       getEnv("API_TOKEN", ""),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.DBType {
	case "file":
		if c.DataDir == "" {
			return errors.New("file storage requires DATA_DIR to be set")
		}
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be file or postgres, got %q", c.DBType)
	}
	if c.CacheBackend != "memory" && c.CacheBackend != "redis" {
		return fmt.Errorf("CACHE_BACKEND must be memory or redis, got %q", c.CacheBackend)
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	return nil
}

func (c *Config) UsersFile() string     { return filepath.Join(c.DataDir, "users.json") }
func (c *Config) DreamsFile() string    { return filepath.Join(c.DataDir, "dreams.json") }
func (c *Config) CommentsFile() string  { return filepath.Join(c.DataDir, "comments.json") }
func (c *Config) OverridesFile() string { return filepath.Join(c.DataDir, "overrides.json") }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
