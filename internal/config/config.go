package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPPort string      `yaml:"http_port"`
	LogMode  string      `yaml:"log_mode"`
	DataDir  string      `yaml:"data_dir"`
	Store    StoreConfig `yaml:"store"`
	Redis    RedisConfig `yaml:"redis"`
	CORS     CORSConfig  `yaml:"cors"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver"`
	MongoURI    string `yaml:"mongo_uri"`
	MongoDB     string `yaml:"mongo_db"`
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// RedisConfig is optional; an empty Addr disables score caching
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	ScoreTTL time.Duration `yaml:"score_ttl"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
	AllowedMethods string `yaml:"allowed_methods"`
	AllowedHeaders string `yaml:"allowed_headers"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPPort: "8080",
		LogMode:  "dev",
		DataDir:  "data",
		Store: StoreConfig{
			Driver:     DriverSQLite,
			MongoURI:   "mongodb://localhost:27017",
			MongoDB:    "storyfusion",
			SQLitePath: "storyfusion.db",
		},
		Redis: RedisConfig{
			ScoreTTL: 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
			AllowedHeaders: "Content-Type, Authorization",
		},
	}
}

// Load reads a YAML file over the defaults, then applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns CONFIG_PATH or config.yaml
func Path() string {
	return getEnv("CONFIG_PATH", "config.yaml")
}

func (c *Config) applyEnvOverrides() error {
	c.HTTPPort = getEnv("HTTP_PORT", getEnv("PORT", c.HTTPPort))
	c.LogMode = getEnv("LOG_MODE", c.LogMode)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)

	c.Store.Driver = strings.ToLower(getEnv("STORE_DRIVER", c.Store.Driver))
	c.Store.MongoURI = getEnv("MONGO_URI", c.Store.MongoURI)
	c.Store.MongoDB = getEnv("MONGO_DB", c.Store.MongoDB)
	c.Store.PostgresDSN = getEnv("POSTGRES_DSN", c.Store.PostgresDSN)
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)

	// Remove redis:// prefix if present
	c.Redis.Addr = strings.TrimPrefix(getEnv("REDIS_URI", c.Redis.Addr), "redis://")
	if v := os.Getenv("SCORE_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCORE_CACHE_TTL %q: %w", v, err)
		}
		c.Redis.ScoreTTL = d
	}

	c.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.CORS.AllowedMethods = getEnv("CORS_ALLOWED_METHODS", c.CORS.AllowedMethods)
	c.CORS.AllowedHeaders = getEnv("CORS_ALLOWED_HEADERS", c.CORS.AllowedHeaders)
	return nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverSQLite:
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store driver %q needs POSTGRES_DSN", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.HTTPPort == "" {
		return fmt.Errorf("http port is empty")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
