package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"parking/billing"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	// Server configuration
	Port               string
	Environment        string
	LogLevel           string
	CORSAllowedOrigins []string

	// Storage configuration
	StoreDriver string
	PostgresURL string
	RedisAddr   string

	// Billing configuration
	BillingUnit     time.Duration
	BillingBaseRate int64
	BillingUnitRate int64
	BillingCurrency string

	// Monitoring
	OccupancyRefreshInterval time.Duration
	TracingEnabled           bool
	JaegerEndpoint           string

	parseErrs []error
}

// LoadConfig reads the configuration from the environment. Values from a .env
// file in the working directory are used for variables that are not set.
func LoadConfig() *Config {
	_ = godotenv.Load()

	env := &envParser{}
	postgresURL := getEnv("POSTGRES_URL", "")
	defaultDriver := StoreDriverMemory
	if postgresURL != "" {
		defaultDriver = StoreDriverPostgres
	}

	cfg := &Config{
		// Server
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),

		// Storage
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", defaultDriver)),
		PostgresURL: postgresURL,
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		// Billing
		BillingUnit:     env.asDuration("BILLING_UNIT", "1h"),
		BillingBaseRate: env.asInt64("BILLING_BASE_RATE", 3000),
		BillingUnitRate: env.asInt64("BILLING_UNIT_RATE", 3000),
		BillingCurrency: getEnv("BILLING_CURRENCY", "IDR"),

		// Monitoring
		OccupancyRefreshInterval: env.asDuration("OCCUPANCY_REFRESH_INTERVAL", "30s"),
		TracingEnabled:           env.asBool("TRACING_ENABLED", false),
		JaegerEndpoint:           getEnv("JAEGER_ENDPOINT", ""),
	}
	cfg.parseErrs = env.errs

	return cfg
}

func (c *Config) RateTable() billing.RateTable {
	return billing.RateTable{
		Unit:     c.BillingUnit,
		BaseRate: c.BillingBaseRate,
		UnitRate: c.BillingUnitRate,
		Currency: c.BillingCurrency,
	}
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Validate reports every variable that could not be parsed along with invalid
// settings. A malformed value never falls back to its default silently.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required for the postgres store"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.OccupancyRefreshInterval <= 0 {
		errs = append(errs, errors.New("OCCUPANCY_REFRESH_INTERVAL must be positive"))
	}

	if err := c.RateTable().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envParser reads typed variables and collects the ones that do not parse.
type envParser struct {
	errs []error
}

func (p *envParser) asInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be an integer, got %q", key, valueStr))
		return defaultValue
	}
	return value
}

func (p *envParser) asBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be a boolean, got %q", key, valueStr))
		return defaultValue
	}
	return value
}

func (p *envParser) asDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be a duration such as 1h or 30m, got %q", key, valueStr))
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	var values []string
	for _, v := range strings.Split(getEnv(key, defaultValue), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
