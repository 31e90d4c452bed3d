package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	CORSOrigins []string
	NodeID      int64

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Asaas   AsaasConfig
	Klaviyo KlaviyoConfig
	Sync    SyncConfig
}

// AsaasConfig configures the billing provider client.
type AsaasConfig struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// KlaviyoConfig configures the marketing metrics provider client.
type KlaviyoConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SyncConfig tunes the customer reconciliation engine.
type SyncConfig struct {
	PageSize      int
	PageDelay     time.Duration
	Checkpoint    int
	StaleAfter    time.Duration
	DefaultPlan   string
	DefaultDueDay int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "backoffice"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),
		NodeID:       int64(getenvInt("SNOWFLAKE_NODE_ID", 1)),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "backoffice"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		Asaas: AsaasConfig{
			BaseURL:  getenv("ASAAS_API_URL", "https://sandbox.asaas.com/api/v3"),
			APIToken: strings.TrimSpace(getenv("ASAAS_API_TOKEN", "")),
			Timeout:  getenvDuration("ASAAS_TIMEOUT", 10*time.Second),
		},
		Klaviyo: KlaviyoConfig{
			BaseURL: getenv("KLAVIYO_API_URL", "https://a.klaviyo.com"),
			Timeout: getenvDuration("KLAVIYO_TIMEOUT", 10*time.Second),
		},
		Sync: SyncConfig{
			PageSize:      getenvInt("SYNC_PAGE_SIZE", 100),
			PageDelay:     getenvDuration("SYNC_PAGE_DELAY", 300*time.Millisecond),
			Checkpoint:    getenvInt("SYNC_CHECKPOINT_EVERY", 10),
			StaleAfter:    getenvDuration("SYNC_STALE_AFTER", 30*time.Minute),
			DefaultPlan:   getenv("SYNC_DEFAULT_PLAN", "partner"),
			DefaultDueDay: getenvInt("SYNC_DEFAULT_DUE_DAY", 10),
		},
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
