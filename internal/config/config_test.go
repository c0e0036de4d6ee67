package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
http_port: "9000"
data_dir: /srv/data
store:
  driver: mongo
  mongo_uri: mongodb://db:27017
redis:
  addr: cache:6379
  score_ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.HTTPPort)
		assert.Equal(t, "/srv/data", cfg.DataDir)
		assert.Equal(t, DriverMongo, cfg.Store.Driver)
		assert.Equal(t, "mongodb://db:27017", cfg.Store.MongoURI)
		assert.Equal(t, "storyfusion", cfg.Store.MongoDB, "unset keys keep defaults")
		assert.Equal(t, "cache:6379", cfg.Redis.Addr)
		assert.Equal(t, time.Hour, cfg.Redis.ScoreTTL)
	})

	t.Run("env wins", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		t.Setenv("REDIS_URI", "redis://other:6380")
		t.Setenv("STORE_DRIVER", "SQLite")
		t.Setenv("SCORE_CACHE_TTL", "5m")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "7000", cfg.HTTPPort)
		assert.Equal(t, "other:6380", cfg.Redis.Addr)
		assert.Equal(t, DriverSQLite, cfg.Store.Driver)
		assert.Equal(t, 5*time.Minute, cfg.Redis.ScoreTTL)
	})

	t.Run("HTTP_PORT beats PORT", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		t.Setenv("HTTP_PORT", "7001")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "7001", cfg.HTTPPort)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Store.Driver = DriverPostgres
	assert.Error(t, cfg.Validate())
	cfg.Store.PostgresDSN = "postgres://u:p@localhost/db"
	assert.NoError(t, cfg.Validate())
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadBadScoreTTL(t *testing.T) {
	t.Setenv("SCORE_CACHE_TTL", "tomorrow")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCORE_CACHE_TTL")
}
