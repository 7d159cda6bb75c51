package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"https://lumie-re-hotel.vercel.app",
}

type Config struct {
	ServiceName string
	HTTPAddr    string
	LogLevel    string

	CRDBDSN   string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	RabbitURL string

	// Identity provider (GoTrue-compatible REST API).
	AuthProviderURL     string
	AuthProviderAnonKey string
	AuthProviderTimeout time.Duration
	JWTSecret           string

	CORSOrigins []string

	SessionTTL     time.Duration
	IdempotencyTTL time.Duration
	AuthRateLimit  int
	RateWindow     time.Duration

	OutboxInterval time.Duration
	StayInterval   time.Duration
	SeedCatalog    bool

	OTLPEndpoint string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:         getEnv("SERVICE_NAME", "lumiere-hotel"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CRDBDSN:             os.Getenv("CRDB_DSN"),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "hotel"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RabbitURL:           os.Getenv("RABBIT_URL"),
		AuthProviderURL:     strings.TrimRight(os.Getenv("AUTH_PROVIDER_URL"), "/"),
		AuthProviderAnonKey: os.Getenv("AUTH_PROVIDER_ANON_KEY"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		CORSOrigins:         append([]string(nil), defaultCORSOrigins...),
		OTLPEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.AuthProviderURL == "" {
		return nil, errors.New("AUTH_PROVIDER_URL is required")
	}

	var err error
	if cfg.AuthProviderTimeout, err = durationEnv("AUTH_PROVIDER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = durationEnv("AUTH_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.OutboxInterval, err = durationEnv("OUTBOX_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.StayInterval, err = durationEnv("STAY_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	cfg.AuthRateLimit = 20
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.Newf("invalid AUTH_RATE_LIMIT %q", v)
		}
		cfg.AuthRateLimit = n
	}

	cfg.SeedCatalog, _ = strconv.ParseBool(os.Getenv("SEED_CATALOG"))

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	if d <= 0 {
		return 0, errors.Newf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
