package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"service-rider-web/internal/domain"
)

// Session persistence backends.
const (
	SessionBackendCookie   = "cookie"
	SessionBackendPostgres = "postgres"
)

// Config stores service settings.
type Config struct {
	Port         int
	LogLevel     string
	Dev          bool
	API          API
	Session      Session
	DB           DB
	Auth         Auth
	Query        Query
	Connectivity Connectivity
	Kafka        Kafka
	RateLimit    RateLimit
}

// API describes the remote rider API.
type API struct {
	BaseURL        string
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	HealthPath     string
}

// Session describes how the session record is persisted.
type Session struct {
	Backend string
	Secret  string
	MaxAge  time.Duration
	Secure  bool
}

// DB stores Postgres settings for the postgres session backend.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the Postgres connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Auth stores login policy settings.
type Auth struct {
	PermittedRole  string
	BypassEmails   []string
	GoogleClientID string
}

// Policy returns the access policy for authenticated sessions.
func (a Auth) Policy() domain.AccessPolicy {
	return domain.AccessPolicy{Role: domain.Role(a.PermittedRole), BypassEmails: a.BypassEmails}
}

// Query stores read-cache settings.
type Query struct {
	StaleTime        time.Duration
	DashboardRefresh time.Duration
}

// Connectivity stores upstream probe settings.
type Connectivity struct {
	ProbeInterval  time.Duration
	ReconnectedFor time.Duration
}

// Kafka stores optional messaging settings. Empty Brokers disables Kafka.
type Kafka struct {
	Brokers     []string
	GroupID     string
	OrdersTopic string
	StatusTopic string
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// RateLimit stores login throttling settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.API.BaseURL, "api-url", cfg.API.BaseURL, "rider API base URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Session.Backend, "session-backend", cfg.Session.Backend, "session persistence: cookie or postgres")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "local development mode (allows the built-in session secret)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid RIDER_API_URL: %q", c.API.BaseURL)
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.RetryAttempts < 1 {
		return fmt.Errorf("invalid RIDER_API_RETRY_ATTEMPTS: %d", c.API.RetryAttempts)
	}
	switch c.Session.Backend {
	case SessionBackendCookie, SessionBackendPostgres:
	default:
		return fmt.Errorf("invalid session backend: %q", c.Session.Backend)
	}
	if len(c.Session.Secret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	if c.Session.Secret == devSessionSecret && !c.Dev {
		return errors.New("SESSION_SECRET is required outside DEV_MODE")
	}
	if strings.TrimSpace(c.Auth.PermittedRole) == "" {
		return errors.New("AUTH_PERMITTED_ROLE must not be empty")
	}
	if c.Kafka.Enabled() && strings.TrimSpace(c.Kafka.GroupID) == "" {
		return errors.New("KAFKA_GROUP_ID is required when KAFKA_BROKERS is set")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(envInt("PORT", &cfg.Port))
	envString("LOG_LEVEL", &cfg.LogLevel)
	collect(envBool("DEV_MODE", &cfg.Dev))

	envString("RIDER_API_URL", &cfg.API.BaseURL)
	collect(envDuration("RIDER_API_TIMEOUT", &cfg.API.Timeout))
	collect(envInt("RIDER_API_RETRY_ATTEMPTS", &cfg.API.RetryAttempts))
	collect(envDuration("RIDER_API_RETRY_BASE_DELAY", &cfg.API.RetryBaseDelay))
	collect(envDuration("RIDER_API_RETRY_MAX_DELAY", &cfg.API.RetryMaxDelay))
	envString("RIDER_API_HEALTH_PATH", &cfg.API.HealthPath)

	envString("SESSION_BACKEND", &cfg.Session.Backend)
	envString("SESSION_SECRET", &cfg.Session.Secret)
	collect(envDuration("SESSION_MAX_AGE", &cfg.Session.MaxAge))
	collect(envBool("SESSION_SECURE", &cfg.Session.Secure))

	envString("POSTGRES_HOST", &cfg.DB.Host)
	envString("POSTGRES_PORT", &cfg.DB.Port)
	envString("POSTGRES_USER", &cfg.DB.User)
	envString("POSTGRES_PASSWORD", &cfg.DB.Pass)
	envString("POSTGRES_DB", &cfg.DB.Name)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		collect(fmt.Errorf("invalid POSTGRES_PORT: %q", cfg.DB.Port))
	}

	envString("AUTH_PERMITTED_ROLE", &cfg.Auth.PermittedRole)
	envList("AUTH_BYPASS_EMAILS", &cfg.Auth.BypassEmails)
	envString("GOOGLE_CLIENT_ID", &cfg.Auth.GoogleClientID)

	collect(envDuration("QUERY_STALE_TIME", &cfg.Query.StaleTime))
	collect(envDuration("DASHBOARD_REFRESH_INTERVAL", &cfg.Query.DashboardRefresh))

	collect(envDuration("CONNECTIVITY_PROBE_INTERVAL", &cfg.Connectivity.ProbeInterval))
	collect(envDuration("CONNECTIVITY_RECONNECTED_FOR", &cfg.Connectivity.ReconnectedFor))

	envList("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	envString("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)
	envString("KAFKA_ORDERS_TOPIC", &cfg.Kafka.OrdersTopic)
	envString("KAFKA_STATUS_TOPIC", &cfg.Kafka.StatusTopic)

	collect(envBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled))
	collect(envFloat("RATE_LIMIT_RPS", &cfg.RateLimit.Rate))
	collect(envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst))
	collect(envDuration("RATE_LIMIT_TTL", &cfg.RateLimit.TTL))
	collect(envInt("RATE_LIMIT_MAX_BUCKETS", &cfg.RateLimit.MaxBuckets))

	return errors.Join(errs...)
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = d
	return nil
}

func envList(key string, dst *[]string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
