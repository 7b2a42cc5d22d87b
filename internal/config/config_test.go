package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Controller.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Controller.SearchDebounce)
	assert.Equal(t, 30*time.Second, cfg.Controller.RefreshInterval)
	assert.Equal(t, "/static/", cfg.Cache.StaticPrefix)
	assert.Contains(t, cfg.Cache.StaticManifest, "/")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CACHE_VERSION", "v7")
	t.Setenv("CACHE_NAME_PREFIX", "ledger")
	t.Setenv("CACHE_STATIC_MANIFEST", " /, /static/app.js ,,")
	t.Setenv("BACKEND_URL", "http://backend:5000/")
	t.Setenv("TRANSACTIONS_PAGE_SIZE", "25")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("SEARCH_DEBOUNCE", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "ledger-static-v7", cfg.Cache.StaticCacheName())
	assert.Equal(t, "ledger-dynamic-v7", cfg.Cache.DynamicCacheName())
	assert.Equal(t, []string{"/", "/static/app.js"}, cfg.Cache.StaticManifest)
	assert.Equal(t, "http://backend:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 25, cfg.Controller.PageSize)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 300*time.Millisecond, cfg.Controller.SearchDebounce, "invalid durations fall back to the default")
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Environment: "production"}}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsTesting())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
