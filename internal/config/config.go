package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Cache      CacheConfig
	Database   DatabaseConfig
	Controller ControllerConfig
	Sync       SyncConfig
	Security   SecurityConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

// BackendConfig points at the dashboard backend the proxy and client talk to
type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type CacheConfig struct {
	Version        string
	NamePrefix     string
	StaticPrefix   string
	StaticManifest []string
	Storage        string // memory or redis
	RedisURL       string
	RedisTTL       time.Duration
}

type DatabaseConfig struct {
	Driver          string // sqlite or postgres
	Path            string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	AutoMigrate     bool
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type ControllerConfig struct {
	PageSize        int
	DateWindow      time.Duration
	SearchDebounce  time.Duration
	RefreshInterval time.Duration
}

type SyncConfig struct {
	Tag                string
	HealthPath         string
	ProbeInterval      time.Duration
	ReplaysPerSecond   int
	MaxFailuresOffline int
	OfflineResetAfter  time.Duration
}

type SecurityConfig struct {
	RateLimitPerSecond int
	RateLimitBurst     int
}

type LoggerConfig struct {
	Level string
}

var defaultStaticManifest = []string{
	"/",
	"/static/css/dashboard.css",
	"/static/js/dashboard.js",
	"/static/icons/icon-192.png",
	"/manifest.json",
}

func Load() *Config {
	// .env is optional; plain environment variables work the same way
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: failed to read .env file: %v", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Environment:  getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:5000"), "/"),
			RequestTimeout: getDurationEnv("BACKEND_TIMEOUT", 20*time.Second),
		},
		Cache: CacheConfig{
			Version:      getEnv("CACHE_VERSION", "v1"),
			NamePrefix:   getEnv("CACHE_NAME_PREFIX", "receipts"),
			StaticPrefix: getEnv("CACHE_STATIC_PREFIX", "/static/"),
			Storage:      getEnv("CACHE_STORAGE", "memory"),
			RedisURL:     getEnv("REDIS_URL", "localhost:6379"),
			RedisTTL:     getDurationEnv("CACHE_REDIS_TTL", 7*24*time.Hour),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Path:            getEnv("DB_PATH", "receipt-dashboard.db"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "dashboard"),
			Password:        getEnv("DB_PASSWORD", "dashboard"),
			Name:            getEnv("DB_NAME", "receipt_dashboard"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", false),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 10),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Controller: ControllerConfig{
			PageSize:        getIntEnv("TRANSACTIONS_PAGE_SIZE", 50),
			DateWindow:      getDurationEnv("TRANSACTIONS_DATE_WINDOW", 90*24*time.Hour),
			SearchDebounce:  getDurationEnv("SEARCH_DEBOUNCE", 300*time.Millisecond),
			RefreshInterval: getDurationEnv("REFRESH_INTERVAL", 30*time.Second),
		},
		Sync: SyncConfig{
			Tag:                getEnv("SYNC_TAG", "receipt-upload"),
			HealthPath:         getEnv("SYNC_HEALTH_PATH", "/health"),
			ProbeInterval:      getDurationEnv("SYNC_PROBE_INTERVAL", 15*time.Second),
			ReplaysPerSecond:   getIntEnv("SYNC_REPLAYS_PER_SECOND", 5),
			MaxFailuresOffline: getIntEnv("OFFLINE_MAX_FAILURES", 3),
			OfflineResetAfter:  getDurationEnv("OFFLINE_RESET_AFTER", 10*time.Second),
		},
		Security: SecurityConfig{
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 50),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 100),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	config.Cache.StaticManifest = getListEnv("CACHE_STATIC_MANIFEST", defaultStaticManifest)
	config.Server.CORSAllowOrigins = getListEnv("CORS_ALLOW_ORIGINS", []string{"*"})

	return config
}

// StaticCacheName returns the versioned name of the static asset cache
func (c *CacheConfig) StaticCacheName() string {
	return fmt.Sprintf("%s-static-%s", c.NamePrefix, c.Version)
}

// DynamicCacheName returns the versioned name of the API response cache
func (c *CacheConfig) DynamicCacheName() string {
	return fmt.Sprintf("%s-dynamic-%s", c.NamePrefix, c.Version)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated variable, trimming whitespace and dropping empty entries
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	items := strings.Split(value, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
