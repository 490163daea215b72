package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	RateAttemptCooldown     time.Duration
	RateCacheMaxAge         time.Duration
	RateProviderTimeout     time.Duration
	RateProviderMinInterval time.Duration
	RateRefreshSchedule     string
	RateTableCacheTTL       time.Duration
	RedisURL                string

	WorkerPoolSize  int
	WorkerQueueSize int

	APIRateLimit       string
	CORSAllowedOrigins []string
}

// durationOrDefault parses key, logging and falling back to def when it is not a valid duration.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("RATE_ATTEMPT_COOLDOWN", "1h")
	viper.SetDefault("RATE_CACHE_MAX_AGE", "6h")
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("RATE_PROVIDER_MIN_INTERVAL", "2s")
	viper.SetDefault("RATE_REFRESH_SCHEDULE", "0 */6 * * *")
	viper.SetDefault("RATE_TABLE_CACHE_TTL", "15m")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("WORKER_POOL_SIZE", 2)
	viper.SetDefault("WORKER_QUEUE_SIZE", 32)
	viper.SetDefault("API_RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.RateAttemptCooldown = durationOrDefault("RATE_ATTEMPT_COOLDOWN", time.Hour)
	cfg.RateCacheMaxAge = durationOrDefault("RATE_CACHE_MAX_AGE", 6*time.Hour)
	cfg.RateProviderTimeout = durationOrDefault("RATE_PROVIDER_TIMEOUT", 10*time.Second)
	cfg.RateProviderMinInterval = durationOrDefault("RATE_PROVIDER_MIN_INTERVAL", 2*time.Second)
	cfg.RateTableCacheTTL = durationOrDefault("RATE_TABLE_CACHE_TTL", 15*time.Minute)
	cfg.RateRefreshSchedule = strings.TrimSpace(viper.GetString("RATE_REFRESH_SCHEDULE"))
	if strings.EqualFold(cfg.RateRefreshSchedule, "off") {
		cfg.RateRefreshSchedule = ""
	}
	cfg.RedisURL = viper.GetString("REDIS_URL")

	cfg.WorkerPoolSize = viper.GetInt("WORKER_POOL_SIZE")
	if cfg.WorkerPoolSize < 1 {
		log.Printf("Warning: Invalid value for WORKER_POOL_SIZE (%d). Defaulting to 2.\n", cfg.WorkerPoolSize)
		cfg.WorkerPoolSize = 2
	}
	cfg.WorkerQueueSize = viper.GetInt("WORKER_QUEUE_SIZE")
	if cfg.WorkerQueueSize < 1 {
		log.Printf("Warning: Invalid value for WORKER_QUEUE_SIZE (%d). Defaulting to 32.\n", cfg.WorkerQueueSize)
		cfg.WorkerQueueSize = 32
	}

	cfg.APIRateLimit = viper.GetString("API_RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
