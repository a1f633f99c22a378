package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config lease-manager (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Store struct {
		// Backend selects the Record Store: "excel" (local file),
		// "sheets" (remote sheet service) or "memory" (dev only).
		Backend string
	}
	Excel struct {
		Path  string
		Sheet string
	}
	Sheets SheetsConfig
	Cache  CacheConfig
	Log    struct {
		Level  string
		Format string
	}
}

// SheetsConfig remote sheet-service backend configuration.
type SheetsConfig struct {
	BaseURL   string // service address, e.g. "https://sheets.example.com"
	Token     string // bearer token (optional)
	Worksheet string // worksheet title holding the lease table
}

// CacheConfig short-TTL read cache in front of LoadAll.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Redis   struct {
		Addr     string // empty = in-process cache
		Password string
		DB       int
	}
}

func Load() *Config {
	// Optional .env for local dev; env vars win.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Store.Backend = getEnv("STORE_BACKEND", "excel")
	cfg.Excel.Path = getEnv("EXCEL_PATH", "data/leases.xlsx")
	cfg.Excel.Sheet = getEnv("EXCEL_SHEET", "leases")

	cfg.Sheets.BaseURL = getEnv("SHEETS_BASE_URL", "")
	cfg.Sheets.Token = getEnv("SHEETS_TOKEN", "")
	cfg.Sheets.Worksheet = getEnv("SHEETS_WORKSHEET", "leases")

	// The original tool cached reads for 5 seconds; keep that default so
	// repeated page loads don't re-read the whole sheet.
	cfg.Cache.Enabled = getEnv("CACHE_ENABLED", "true") == "true"
	cfg.Cache.TTL = parseDuration(getEnv("CACHE_TTL", "5s"), 5*time.Second)
	cfg.Cache.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Cache.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Cache.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
