package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// HTTP surface
	ListenAddr  string
	MetricsAddr string

	// Auth
	JWTSecret string

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	LedgerDBPath  string

	// Account defaults: opening balance in paise credited to accounts
	// without an explicit entry.
	DefaultOpeningBalance int64

	// Summary view tuning
	TopMoversK int
	RecentN    int

	// WebSocket push cadence
	PushInterval time.Duration
}

// FeedConfig holds the demo quote feed's configuration. The feed never
// touches auth, so it loads only its own keys and has no required vars.
type FeedConfig struct {
	RedisAddr     string
	RedisPassword string

	Instruments string
	TickEvery   time.Duration
	AlwaysOn    bool // keep walking outside market hours
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),

		JWTSecret: mustEnv("JWT_SECRET"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		LedgerDBPath:  getEnv("LEDGER_DB_PATH", "data/ledger.db"),

		// 3740.00 rupees, the demo account's starting balance.
		DefaultOpeningBalance: getEnvInt64("DEFAULT_OPENING_BALANCE", 374000),

		TopMoversK: getEnvInt("TOP_MOVERS_K", 3),
		RecentN:    getEnvInt("RECENT_N", 5),

		PushInterval: getEnvDuration("PUSH_INTERVAL", 5*time.Second),
	}
}

// LoadFeed reads the quote feed configuration from environment variables.
func LoadFeed() *FeedConfig {
	return &FeedConfig{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		Instruments: getEnv("QUOTE_INSTRUMENTS", "RELIANCE,TCS,INFY,HDFCBANK,SBIN,WIPRO,ITC,ONGC"),
		TickEvery:   getEnvDuration("QUOTE_TICK_EVERY", 2*time.Second),
		AlwaysOn:    getEnvBool("QUOTE_ALWAYS_ON", false),
	}
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("[config] required env var %s not set", key)
	}
	return v
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
