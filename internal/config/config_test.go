package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "calculatorData", cfg.Storage.DataKey)
	assert.Equal(t, "calculatorUnit", cfg.Storage.UnitKey)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 20.0, cfg.Server.RateLimit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	tomlContent := `
[storage]
driver = "redis"
redis_addr = "cache:6379"
redis_db = 2
key_prefix = "calc:"

[log]
level = "debug"
file = "/tmp/ratiocalc.log"

[server]
addr = "127.0.0.1:9090"
write_timeout = "5s"
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.Equal(t, "calc:", cfg.Storage.KeyPrefix)
	assert.Equal(t, "calculatorData", cfg.Storage.DataKey, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/ratiocalc.log", cfg.Log.File)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("[invalid toml..."), 0644))

	_, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RATIOCALC_STORAGE", "memory")
	t.Setenv("RATIOCALC_REDIS_ADDR", "redis.internal:6380")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "redis.internal:6380", cfg.Storage.RedisAddr)
}

func TestLoadFileIgnoresEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, DefaultConfig()))

	t.Setenv("RATIOCALC_STORAGE", "memory")
	t.Setenv("RATIOCALC_DSN", "/tmp/override.db")
	t.Setenv("RATIOCALC_REDIS_ADDR", "redis.internal:6380")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)

	cfg.Log.Level = "debug"
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `driver = "sqlite"`)
	assert.NotContains(t, string(data), "memory")
	assert.NotContains(t, string(data), "/tmp/override.db")
	assert.NotContains(t, string(data), "redis.internal")
}

func TestLoadFileDoesNotValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"loud\"\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "loud", cfg.Log.Level)

	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveWritesDurationsAsStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, DefaultConfig()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `read_timeout = "30s"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "etcd" }},
		{"sqlite without dsn", func(c *Config) { c.Storage.DSN = "" }},
		{"empty data key", func(c *Config) { c.Storage.DataKey = "" }},
		{"same keys", func(c *Config) { c.Storage.UnitKey = c.Storage.DataKey }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }},
		{"rate without burst", func(c *Config) { c.Server.RateBurst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Storage.Driver = DriverMemory
	cfg.Server.ReadTimeout = 12 * time.Second

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, loaded.Storage.Driver)
	assert.Equal(t, 12*time.Second, loaded.Server.ReadTimeout)
}

func TestResolveSecret(t *testing.T) {
	t.Setenv("TEST_RATIOCALC_SECRET", "s3cret")

	v, err := ResolveSecret("env", "", "TEST_RATIOCALC_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	v, err = ResolveSecret("config", "inline", "")
	require.NoError(t, err)
	assert.Equal(t, "inline", v)

	_, err = ResolveSecret("env", "", "TEST_RATIOCALC_UNSET")
	assert.Error(t, err)

	_, err = ResolveSecret("vault", "", "")
	assert.Error(t, err)
}
