package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/xyz-asif/jsontodo/internal/pkg/logger"
)

const (
	DriverFile  = "file"
	DriverMongo = "mongo"

	FailOpen   = "open"
	FailClosed = "closed"
)

type Config struct {
	Port        string          `toml:"port"`
	AppEnv      string          `toml:"app_env"`
	LogLevel    string          `toml:"log_level"`
	StaticDir   string          `toml:"static_dir"`
	FrontendURL string          `toml:"frontend_url"`
	SortLocale  string          `toml:"sort_locale"`
	Storage     StorageConfig   `toml:"storage"`
	Mongo       MongoConfig     `toml:"mongo"`
	RateLimit   RateLimitConfig `toml:"rate_limit"`
}

type StorageConfig struct {
	Driver   string `toml:"driver"`
	File     string `toml:"file"`
	FailMode string `toml:"fail_mode"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Document   string `toml:"document"`
}

type RateLimitConfig struct {
	Requests int      `toml:"requests"`
	Window   Duration `toml:"window"`
}

// Duration decodes "30s", "1m" or a bare number of seconds from TOML and env.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 30s, 1m or a number of seconds: %w", err)
	}
	return d, nil
}

func defaults() *Config {
	return &Config{
		Port:        "3000",
		AppEnv:      "development",
		LogLevel:    "info",
		StaticDir:   "public",
		FrontendURL: "*",
		SortLocale:  "und",
		Storage: StorageConfig{
			Driver:   DriverFile,
			File:     "simple_todos.json",
			FailMode: FailOpen,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "jsontodo",
			Collection: "todos",
			Document:   "default",
		},
		RateLimit: RateLimitConfig{
			Requests: 0,
			Window:   Duration(time.Minute),
		},
	}
}

// Load builds the config from defaults, an optional TOML file and the environment, in that order.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		logger.Debug("No .env file found")
	}

	cfg := defaults()

	path := getEnv("CONFIG_FILE", "jsontodo.toml")
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.SortLocale = getEnv("SORT_LOCALE", cfg.SortLocale)
	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.File = getEnv("TODOS_FILE", cfg.Storage.File)
	cfg.Storage.FailMode = getEnv("STORAGE_FAIL_MODE", cfg.Storage.FailMode)
	cfg.Mongo.URI = getEnv("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.Database = getEnv("MONGO_DB", cfg.Mongo.Database)
	cfg.Mongo.Collection = getEnv("MONGO_COLLECTION", cfg.Mongo.Collection)
	cfg.Mongo.Document = getEnv("MONGO_DOCUMENT", cfg.Mongo.Document)

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT: %w", err)
		}
		cfg.RateLimit.Requests = n
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if err := cfg.RateLimit.Window.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if strings.TrimSpace(c.Storage.File) == "" {
			return fmt.Errorf("TODOS_FILE is required for the file driver")
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" || c.Mongo.Document == "" {
			return fmt.Errorf("mongo driver needs MONGO_URI, MONGO_DB, MONGO_COLLECTION and MONGO_DOCUMENT")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverFile, DriverMongo, c.Storage.Driver)
	}

	if c.Storage.FailMode != FailOpen && c.Storage.FailMode != FailClosed {
		return fmt.Errorf("STORAGE_FAIL_MODE must be %q or %q, got %q", FailOpen, FailClosed, c.Storage.FailMode)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if _, err := c.Locale(); err != nil {
		return fmt.Errorf("SORT_LOCALE: %w", err)
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative")
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window.Duration() <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// Locale is the collation language for alphabetical sorting.
func (c *Config) Locale() (language.Tag, error) {
	return language.Parse(c.SortLocale)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
