package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"

	AbsencePolicyFlag  = "flag"
	AbsencePolicyDebit = "debit"
)

type Config struct {
	Database       DatabaseConfig
	Store          StoreConfig
	JWT            JWTConfig
	App            AppConfig
	Reconciliation ReconciliationConfig
	Clock          ClockConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// ReconciliationConfig drives the daily hour-bank batch.
type ReconciliationConfig struct {
	Timezone              string
	Workers               int
	AbsencePolicy         string
	RunAtHour             int
	OvernightGraceMinutes int
	HolidayCountry        string
}

type ClockConfig struct {
	EarlyWindowMinutes int
}

func Load() (*Config, error) {
	// .env is optional; deployments inject the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timebank"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Store = StoreConfig{
		Driver:     strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		SQLitePath: getEnv("SQLITE_PATH", "timebank.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	origins := getEnvSlice("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: origins,
	}

	accessTTL, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:         getEnv("JWT_SECRET_KEY", ""),
		AccessTokenTTL: accessTTL,
	}

	workers, err := getEnvInt("RECONCILIATION_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	runAtHour, err := getEnvInt("RECONCILIATION_RUN_AT_HOUR", 11)
	if err != nil {
		return nil, err
	}
	grace, err := getEnvInt("RECONCILIATION_OVERNIGHT_GRACE_MINUTES", 240)
	if err != nil {
		return nil, err
	}

	config.Reconciliation = ReconciliationConfig{
		Timezone:              getEnv("RECONCILIATION_TIMEZONE", "America/Sao_Paulo"),
		Workers:               workers,
		AbsencePolicy:         strings.ToLower(getEnv("RECONCILIATION_ABSENCE_POLICY", AbsencePolicyFlag)),
		RunAtHour:             runAtHour,
		OvernightGraceMinutes: grace,
		HolidayCountry:        strings.ToUpper(getEnv("HOLIDAY_COUNTRY", "BR")),
	}

	earlyWindow, err := getEnvInt("CLOCK_EARLY_WINDOW_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	config.Clock = ClockConfig{EarlyWindowMinutes: earlyWindow}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Reconciliation.Workers < 1 {
		return fmt.Errorf("RECONCILIATION_WORKERS must be at least 1")
	}
	if c.Reconciliation.RunAtHour < 0 || c.Reconciliation.RunAtHour > 23 {
		return fmt.Errorf("RECONCILIATION_RUN_AT_HOUR must be between 0 and 23")
	}
	if c.Reconciliation.OvernightGraceMinutes < 0 {
		return fmt.Errorf("RECONCILIATION_OVERNIGHT_GRACE_MINUTES must not be negative")
	}
	if c.Reconciliation.AbsencePolicy != AbsencePolicyFlag && c.Reconciliation.AbsencePolicy != AbsencePolicyDebit {
		return fmt.Errorf("RECONCILIATION_ABSENCE_POLICY must be %q or %q", AbsencePolicyFlag, AbsencePolicyDebit)
	}
	if c.Reconciliation.HolidayCountry != "BR" {
		return fmt.Errorf("HOLIDAY_COUNTRY %q is not supported", c.Reconciliation.HolidayCountry)
	}
	if _, err := time.LoadLocation(c.Reconciliation.Timezone); err != nil {
		return fmt.Errorf("invalid RECONCILIATION_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the timezone used to cut calendar days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reconciliation.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
