package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	Port    int
	Storage string // "postgres" | "memory"

	DBURL       string
	DBMaxConns  int32
	AutoMigrate bool

	CacheBackend string // "redis" | "memory" | "none"
	CacheTTL     time.Duration
	RedisAddr    string
	RedisPass    string
	RedisDB      int

	JWTSecret           string
	JWTAccessTTLMinutes int
	EnforceLeadRole     bool

	OTelEnabled  bool
	OTelEndpoint string

	RateLimitPerMinute int
	MaxBodyBytes       int64

	NotifierTimeout          time.Duration
	NotifierFailureThreshold int
	NotifierCooldown         time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:     getEnv("APP_ENV", "dev"),
		Port:    getEnvInt("PORT", 8080),
		Storage: strings.ToLower(getEnv("STORAGE", "postgres")),

		DBURL:       buildDBURL(),
		DBMaxConns:  int32(getEnvInt("DB_MAX_CONNS", 5)),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),

		CacheBackend: strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		CacheTTL:     time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		RedisAddr:    getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),

		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 480),
		EnforceLeadRole:     getEnvBool("ENFORCE_LEAD_ROLE", false),

		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		NotifierTimeout:          time.Duration(getEnvInt("NOTIFIER_TIMEOUT_MS", 3000)) * time.Millisecond,
		NotifierFailureThreshold: getEnvInt("NOTIFIER_FAILURE_THRESHOLD", 3),
		NotifierCooldown:         time.Duration(getEnvInt("NOTIFIER_COOLDOWN_SECONDS", 15)) * time.Second,
	}
}

func (c Config) Validate() error {
	switch c.Storage {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: unknown STORAGE %q", c.Storage)
	}

	switch c.CacheBackend {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.Env != "dev" && c.Env != "test" && c.JWTSecret == "dev-secret-change-me" {
		return fmt.Errorf("config: JWT_SECRET must be set outside dev")
	}

	return nil
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "standupbot")
	pass := getEnv("DB_PASSWORD", "standupbot")
	name := getEnv("DB_NAME", "standupbot")
	ssl := getEnv("DB_SSLMODE", "disable")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: url.Values{"sslmode": {ssl}}.Encode(),
	}
	return u.String()
}

// WithTimeout bounds a store call. The parent keeps request-scoped values
// such as the trace span and the actor.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}
