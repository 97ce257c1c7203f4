package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func isolate(t *testing.T) {
	t.Helper()
	// keep a stray .env or jsontodo.toml in the package dir out of the test
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "APP_ENV", "LOG_LEVEL", "STATIC_DIR", "FRONTEND_URL",
		"SORT_LOCALE", "STORAGE_DRIVER", "TODOS_FILE", "STORAGE_FAIL_MODE",
		"MONGO_URI", "MONGO_DB", "MONGO_COLLECTION", "MONGO_DOCUMENT",
		"RATE_LIMIT", "RATE_LIMIT_WINDOW",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, DriverFile, cfg.Storage.Driver)
	require.Equal(t, "simple_todos.json", cfg.Storage.File)
	require.Equal(t, FailOpen, cfg.Storage.FailMode)
	require.Equal(t, "public", cfg.StaticDir)
	require.Equal(t, 0, cfg.RateLimit.Requests)
	require.Equal(t, time.Minute, cfg.RateLimit.Window.Duration())
	require.False(t, cfg.IsProduction())

	tag, err := cfg.Locale()
	require.NoError(t, err)
	require.Equal(t, language.Und, tag)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TODOS_FILE", "/var/lib/todos.json")
	t.Setenv("STORAGE_FAIL_MODE", "closed")
	t.Setenv("SORT_LOCALE", "ko")
	t.Setenv("RATE_LIMIT", "30")
	t.Setenv("RATE_LIMIT_WINDOW", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8081", cfg.Port)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "/var/lib/todos.json", cfg.Storage.File)
	require.Equal(t, FailClosed, cfg.Storage.FailMode)
	require.Equal(t, 30, cfg.RateLimit.Requests)
	require.Equal(t, 10*time.Second, cfg.RateLimit.Window.Duration())

	tag, err := cfg.Locale()
	require.NoError(t, err)
	require.Equal(t, "ko", tag.String())
}

func TestLoadTOMLFileThenEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "jsontodo.toml")
	content := `
port = "4000"
log_level = "debug"

[storage]
driver = "mongo"
fail_mode = "closed"

[mongo]
uri = "mongodb://db:27017"
database = "todos"

[rate_limit]
requests = 5
window = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "4001")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "4001", cfg.Port, "env wins over file")
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, DriverMongo, cfg.Storage.Driver)
	require.Equal(t, FailClosed, cfg.Storage.FailMode)
	require.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	require.Equal(t, "todos", cfg.Mongo.Database)
	require.Equal(t, "todos", cfg.Mongo.Collection, "unset keys keep defaults")
	require.Equal(t, 5, cfg.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.RateLimit.Window.Duration())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STORAGE_DRIVER":    "sqlite",
		"STORAGE_FAIL_MODE": "maybe",
		"LOG_LEVEL":         "loud",
		"SORT_LOCALE":       "not a locale!",
		"RATE_LIMIT":        "many",
		"RATE_LIMIT_WINDOW": "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadBrokenTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}
