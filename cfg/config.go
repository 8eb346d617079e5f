package cfg

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	App           AppConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Observability ObservabilityConfig
	Line          LineConfig
	Matching      MatchingConfig
}

type AppConfig struct {
	Port        string
	BaseURL     string
	AdminSecret string
	CronSecret  string
	CORSOrigins []string
	Location    *time.Location
	// AreaNames maps area ids to the names shown in LINE messages.
	AreaNames map[string]string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a URL-style connection string accepted by lib/pq and golang-migrate.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type ObservabilityConfig struct {
	ServiceName  string
	OTLPEndpoint string
	Insecure     bool
}

// Enabled reports whether OTLP exporters should be started.
func (o ObservabilityConfig) Enabled() bool {
	return o.OTLPEndpoint != ""
}

type LineConfig struct {
	ChannelAccessToken string
	ChannelSecret      string
	MessagingBaseURL   string
	LoginChannelID     string
	LoginChannelSecret string
	LoginRedirectURL   string
	LoginIssuer        string
}

type MatchingConfig struct {
	MinGroupSize         int
	MaxGroupSize         int
	PreferredMaleCount   int
	PreferredFemaleCount int
	MaxAgeDifference     int
	LockTTL              time.Duration
	NotifyBatchSize      int
	NotifyBatchPause     time.Duration
	NotifyLookback       time.Duration
}

const defaultAreaNames = "00000000-0000-0000-0000-000000000001=名古屋栄"

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var errs []error
	intEnv := func(key string, fallback int) int {
		v, err := getEnvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durEnv := func(key string, fallback time.Duration) time.Duration {
		v, err := getEnvDuration(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	areaNames, err := parsePairs(getEnv("AREA_NAMES", defaultAreaNames))
	if err != nil {
		errs = append(errs, fmt.Errorf("AREA_NAMES: %w", err))
	}

	tz := getEnv("APP_TIMEZONE", "Asia/Tokyo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE %q: %w", tz, err))
		loc = time.UTC
	}

	config := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		App: AppConfig{
			Port:        getEnv("APP_PORT", "8080"),
			BaseURL:     strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
			AdminSecret: os.Getenv("ADMIN_SECRET"),
			CronSecret:  os.Getenv("CRON_JOB_SECRET"),
			CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			Location:    loc,
			AreaNames:   areaNames,
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnv("POSTGRES_DB", "gokon"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intEnv("REDIS_DB", 0),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "gokon"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:     getEnv("OTEL_EXPORTER_OTLP_INSECURE", "true") == "true",
		},
		Line: LineConfig{
			ChannelAccessToken: os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
			ChannelSecret:      os.Getenv("LINE_CHANNEL_SECRET"),
			MessagingBaseURL:   getEnv("LINE_MESSAGING_BASE_URL", "https://api.line.me/v2/bot"),
			LoginChannelID:     os.Getenv("LINE_LOGIN_CHANNEL_ID"),
			LoginChannelSecret: os.Getenv("LINE_LOGIN_CHANNEL_SECRET"),
			LoginRedirectURL:   os.Getenv("LINE_LOGIN_REDIRECT_URL"),
			LoginIssuer:        getEnv("LINE_LOGIN_ISSUER", "https://access.line.me"),
		},
		Matching: MatchingConfig{
			MinGroupSize:         intEnv("MATCHING_MIN_GROUP_SIZE", 4),
			MaxGroupSize:         intEnv("MATCHING_MAX_GROUP_SIZE", 8),
			PreferredMaleCount:   intEnv("MATCHING_PREFERRED_MALE_COUNT", 4),
			PreferredFemaleCount: intEnv("MATCHING_PREFERRED_FEMALE_COUNT", 4),
			MaxAgeDifference:     intEnv("MATCHING_MAX_AGE_DIFFERENCE", 10),
			LockTTL:              durEnv("MATCHING_LOCK_TTL", 5*time.Minute),
			NotifyBatchSize:      intEnv("NOTIFY_BATCH_SIZE", 5),
			NotifyBatchPause:     durEnv("NOTIFY_BATCH_PAUSE", time.Second),
			NotifyLookback:       durEnv("MATCH_PUSH_LOOKBACK", 2*time.Hour),
		},
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return config, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePairs reads "k1=v1,k2=v2".
func parsePairs(v string) (map[string]string, error) {
	out := make(map[string]string)
	for _, item := range splitList(v) {
		key, value, ok := strings.Cut(item, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("malformed entry %q", item)
		}
		out[key] = value
	}
	return out, nil
}
