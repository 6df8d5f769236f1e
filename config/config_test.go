package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "CORS_ORIGINS", "SHUTDOWN_TIMEOUT",
		"DB_DRIVER", "DB_PATH", "DB_DSN", "DB_DEBUG",
		"REDIS_ADDR", "CACHE_PREFIX", "CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, 4000, cfg.Port)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "tasks.db", cfg.Database.Path)
	assert.False(t, cfg.Database.Debug)
	assert.False(t, cfg.Cache.Enabled())
	assert.Equal(t, "tasks:", cfg.Cache.Prefix)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/tasks")
	t.Setenv("DB_DEBUG", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Database.Debug)
	assert.True(t, cfg.Cache.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown environment", map[string]string{"ENVIRONMENT": "staging"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"postgres without dsn", map[string]string{"DB_DRIVER": "postgres"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"origin without scheme", map[string]string{"CORS_ORIGINS": "app.example"}},
		{"origin with path", map[string]string{"CORS_ORIGINS": "https://app.example/login"}},
		{"origin with ftp scheme", map[string]string{"CORS_ORIGINS": "ftp://app.example"}},
		{"wildcard among origins", map[string]string{"CORS_ORIGINS": "https://a.example,*"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestValidate_Origins(t *testing.T) {
	valid := [][]string{
		{"*"},
		{"http://localhost:5173"},
		{"https://a.example", "https://b.example/"},
		{"https://*.example.com"},
	}
	for _, origins := range valid {
		cfg := Config{Environment: Development, Port: 4000, CORSOrigins: origins, Database: DatabaseConfig{Driver: "sqlite"}}
		assert.NoError(t, cfg.Validate(), origins)
	}

	cfg := Config{Environment: Development, Port: 4000, CORSOrigins: []string{"localhost:5173"}, Database: DatabaseConfig{Driver: "sqlite"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ORIGINS")
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ", nil},
		{"http://localhost:5173", []string{"http://localhost:5173"}},
		{"a, b ,,c", []string{"a", "b", "c"}},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseOrigins(tc.raw))
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		name       string
		env        Environment
		origins    []string
		wantList   string
		wantAllows bool
	}{
		{"development empty allows all", Development, nil, "*", true},
		{"preview empty allows all", Preview, nil, "*", true},
		{"production empty allows none", Production, nil, "", false},
		{"development list", Development, []string{"https://a.example"}, "https://a.example", true},
		{"production list", Production, []string{"https://a.example", "https://b.example"}, "https://a.example,https://b.example", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Environment: tc.env, CORSOrigins: tc.origins}
			list, ok := cfg.AllowedOrigins()
			assert.Equal(t, tc.wantList, list)
			assert.Equal(t, tc.wantAllows, ok)
		})
	}
}
