package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. It is built once in main and
// passed by reference; nothing mutates it afterwards.
type Config struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string

	PostgresDSN string
	Redis       RedisConfig

	Extraction ServiceConfig
	FaceMatch  ServiceConfig

	// FuzzyThreshold is the similarity floor for fuzzy name comparison.
	FuzzyThreshold float64
	// StrictMissing controls whether a missing required field fails the
	// overall verdict. Defaults to true; see verification.MissingPolicy.
	StrictMissing bool
}

// RedisConfig holds connection settings for the extraction cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CacheTTL bounds retention of extracted document data.
	CacheTTL time.Duration
}

// ServiceConfig points at an external collaborator service.
type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:          envOr("ATTEST_ADDR", ":8080"),
		JWTSigningKey: envOr("ATTEST_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("ATTEST_JWT_ISSUER", "attest"),
		PostgresDSN:   os.Getenv("ATTEST_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("ATTEST_REDIS_URL"),
			PoolSize:     envInt("ATTEST_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("ATTEST_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("ATTEST_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("ATTEST_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("ATTEST_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("ATTEST_EXTRACTION_CACHE_TTL", 15*time.Minute),
		},
		Extraction: ServiceConfig{
			BaseURL: envOr("ATTEST_EXTRACTION_URL", "http://localhost:8090"),
			Timeout: envDuration("ATTEST_EXTRACTION_TIMEOUT", 30*time.Second),
		},
		FaceMatch: ServiceConfig{
			BaseURL: envOr("ATTEST_FACEMATCH_URL", "http://localhost:8091"),
			Timeout: envDuration("ATTEST_FACEMATCH_TIMEOUT", 30*time.Second),
		},
		FuzzyThreshold: envFloat("ATTEST_FUZZY_THRESHOLD", 0.85),
		StrictMissing:  envOr("ATTEST_MISSING_POLICY", "strict") != "lenient",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
