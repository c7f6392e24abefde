package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port         int
	LogLevel     string
	DB           DB
	Kafka        Kafka
	RateLimit    RateLimit
	Debug        Debug
	Dispatch     Dispatch
	Availability Availability
}

// DB stores Postgres connection settings.
type DB struct {
	Host    string
	Port    string
	User    string
	Pass    string
	Name    string
	SSLMode string
}

// DSN returns a postgres:// connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// Kafka stores settings of the cross-instance dispatch event relay.
// The relay is disabled when no brokers are configured.
type Kafka struct {
	Brokers     []string
	Topic       string
	GroupPrefix string
}

// Enabled reports whether dispatch events go through Kafka.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0 && strings.TrimSpace(k.Topic) != ""
}

// RateLimit stores HTTP rate limiter settings.
type RateLimit struct {
	Enabled bool
	Rate    float64
	Burst   int
	// курьеры опрашивают чаще клиентов, поэтому у них свой бакет
	CourierRate  float64
	CourierBurst int
	TTL          time.Duration
	MaxBuckets   int
}

// Debug stores debug server settings. Empty Addr disables it.
type Debug struct {
	Addr string
	User string
	Pass string
}

// Dispatch stores coordinator and broadcaster settings.
type Dispatch struct {
	OperationTimeout  time.Duration
	SubscriberBuffer  int
	DefaultDistanceKm float64
	EstimateRetry     Retry
}

// Retry stores backoff settings for outbound calls.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Availability stores courier availability sweep settings.
type Availability struct {
	StaleAfter    time.Duration
	SweepSchedule string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:         defaultPort,
		LogLevel:     defaultLogLevel,
		DB:           DefaultDB(),
		Kafka:        DefaultKafka(),
		RateLimit:    DefaultRateLimit(),
		Dispatch:     DefaultDispatch(),
		Availability: DefaultAvailability(),
	}

	if err := fromEnv(cfg); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	pflag.StringVar(&cfg.Debug.Addr, "debug-addr", cfg.Debug.Addr, "debug (pprof, dispatch stats) listen address, empty disables")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.DB.Host = envString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envString("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envString("POSTGRES_DB", cfg.DB.Name)
	cfg.DB.SSLMode = envString("POSTGRES_SSLMODE", cfg.DB.SSLMode)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}

	if v := envString("KAFKA_BROKERS", ""); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.Topic = envString("KAFKA_DISPATCH_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.GroupPrefix = envString("KAFKA_GROUP_PREFIX", cfg.Kafka.GroupPrefix)

	if cfg.RateLimit.Enabled, err = envBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled); err != nil {
		return err
	}
	if cfg.RateLimit.Rate, err = envFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate); err != nil {
		return err
	}
	if cfg.RateLimit.Burst, err = envInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst); err != nil {
		return err
	}
	if cfg.RateLimit.CourierRate, err = envFloat("RATE_LIMIT_COURIER_RATE", cfg.RateLimit.CourierRate); err != nil {
		return err
	}
	if cfg.RateLimit.CourierBurst, err = envInt("RATE_LIMIT_COURIER_BURST", cfg.RateLimit.CourierBurst); err != nil {
		return err
	}
	if cfg.RateLimit.TTL, err = envDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL); err != nil {
		return err
	}
	if cfg.RateLimit.MaxBuckets, err = envInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets); err != nil {
		return err
	}

	cfg.Debug.Addr = envString("DEBUG_ADDR", cfg.Debug.Addr)
	cfg.Debug.User = envString("DEBUG_USER", cfg.Debug.User)
	cfg.Debug.Pass = envString("DEBUG_PASSWORD", cfg.Debug.Pass)

	if cfg.Dispatch.OperationTimeout, err = envDuration("DISPATCH_OPERATION_TIMEOUT", cfg.Dispatch.OperationTimeout); err != nil {
		return err
	}
	if cfg.Dispatch.SubscriberBuffer, err = envInt("DISPATCH_SUBSCRIBER_BUFFER", cfg.Dispatch.SubscriberBuffer); err != nil {
		return err
	}
	if cfg.Dispatch.DefaultDistanceKm, err = envFloat("DISPATCH_DEFAULT_DISTANCE_KM", cfg.Dispatch.DefaultDistanceKm); err != nil {
		return err
	}
	if cfg.Dispatch.EstimateRetry.MaxAttempts, err = envInt("DISPATCH_ESTIMATE_MAX_ATTEMPTS", cfg.Dispatch.EstimateRetry.MaxAttempts); err != nil {
		return err
	}
	if cfg.Dispatch.EstimateRetry.BaseDelay, err = envDuration("DISPATCH_ESTIMATE_BASE_DELAY", cfg.Dispatch.EstimateRetry.BaseDelay); err != nil {
		return err
	}
	if cfg.Dispatch.EstimateRetry.MaxDelay, err = envDuration("DISPATCH_ESTIMATE_MAX_DELAY", cfg.Dispatch.EstimateRetry.MaxDelay); err != nil {
		return err
	}

	if cfg.Availability.StaleAfter, err = envDuration("AVAILABILITY_STALE_AFTER", cfg.Availability.StaleAfter); err != nil {
		return err
	}
	cfg.Availability.SweepSchedule = envString("AVAILABILITY_SWEEP_SCHEDULE", cfg.Availability.SweepSchedule)
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Dispatch.OperationTimeout <= 0 {
		return fmt.Errorf("invalid dispatch operation timeout: %s", c.Dispatch.OperationTimeout)
	}
	if c.Dispatch.SubscriberBuffer <= 0 {
		return fmt.Errorf("invalid dispatch subscriber buffer: %d", c.Dispatch.SubscriberBuffer)
	}
	if c.Dispatch.DefaultDistanceKm < 0 {
		return fmt.Errorf("invalid default distance: %v", c.Dispatch.DefaultDistanceKm)
	}
	if c.Dispatch.EstimateRetry.MaxAttempts <= 0 {
		return fmt.Errorf("invalid estimate max attempts: %d", c.Dispatch.EstimateRetry.MaxAttempts)
	}
	if c.Availability.StaleAfter <= 0 {
		return fmt.Errorf("invalid availability stale-after: %s", c.Availability.StaleAfter)
	}
	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
