package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config struct holds all configuration for the application.
type Config struct {
	Env            string
	ServiceVersion string
	LogLevel       string
	LogFormat      string

	HTTPPort string
	GRPCPort string
	CertPath string
	KeyPath  string
	CaPath   string

	StoreDriver  string
	SQLitePath   string
	DatabaseURL  string
	MaxDBRetries int

	Locale        string
	ThemeFile     string
	Appearance    string
	Platform      string
	DialerSchemes []string
	SeedGroups    bool

	CallConnectDelay time.Duration
	CallDismissDelay time.Duration
	WatchDebounce    time.Duration
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// .env isteğe bağlıdır; yoksa ortam değişkenleri kullanılır.
	_ = godotenv.Load()

	cfg := &Config{
		Env:            GetEnv("ENV", "production"),
		ServiceVersion: GetEnv("SERVICE_VERSION", "dev"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		LogFormat:      GetEnv("LOG_FORMAT", "json"),

		HTTPPort: GetEnv("CONTACTS_SERVICE_HTTP_PORT", "8080"),
		GRPCPort: GetEnv("CONTACTS_SERVICE_GRPC_PORT", "50061"),
		CertPath: GetEnv("CONTACTS_SERVICE_CERT_PATH", ""),
		KeyPath:  GetEnv("CONTACTS_SERVICE_KEY_PATH", ""),
		CaPath:   GetEnv("GRPC_TLS_CA_PATH", ""),

		StoreDriver: strings.ToLower(GetEnv("STORE_DRIVER", DriverSQLite)),
		SQLitePath:  GetEnv("SQLITE_PATH", "data/contacts.db"),
		DatabaseURL: GetEnv("POSTGRES_URL", ""),

		Locale:        GetEnv("CONTACTS_LOCALE", "en"),
		ThemeFile:     GetEnv("THEME_FILE", "data/theme.yaml"),
		Appearance:    strings.ToLower(GetEnv("APPEARANCE", "")),
		Platform:      strings.ToLower(GetEnv("PLATFORM", "ios")),
		DialerSchemes: GetEnvList("DIALER_SCHEMES", []string{"tel", "sms"}),
	}

	var errs []error
	var err error
	if cfg.MaxDBRetries, err = GetEnvInt("MAX_DB_RETRIES", 10); err != nil {
		errs = append(errs, err)
	}
	if cfg.SeedGroups, err = GetEnvBool("SEED_GROUPS", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.CallConnectDelay, err = GetEnvDuration("CALL_CONNECT_DELAY", 1500*time.Millisecond); err != nil {
		errs = append(errs, err)
	}
	if cfg.CallDismissDelay, err = GetEnvDuration("CALL_DISMISS_DELAY", 500*time.Millisecond); err != nil {
		errs = append(errs, err)
	}
	if cfg.WatchDebounce, err = GetEnvDuration("WATCH_DEBOUNCE", 500*time.Millisecond); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, cfg.validate())

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TLSEnabled reports whether gRPC should serve with mutual TLS.
func (c *Config) TLSEnabled() bool {
	return c.CertPath != "" && c.KeyPath != "" && c.CaPath != ""
}

func (c *Config) validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL gerekli (STORE_DRIVER=postgres)"))
		}
	default:
		errs = append(errs, fmt.Errorf("geçersiz STORE_DRIVER: %q", c.StoreDriver))
	}
	switch c.Appearance {
	case "", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("geçersiz APPEARANCE: %q", c.Appearance))
	}
	switch c.Platform {
	case "ios", "android":
	default:
		errs = append(errs, fmt.Errorf("geçersiz PLATFORM: %q", c.Platform))
	}
	if c.MaxDBRetries < 1 {
		errs = append(errs, errors.New("MAX_DB_RETRIES en az 1 olmalı"))
	}
	return errors.Join(errs...)
}

// GetEnv retrieves an environment variable or returns a fallback.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt retrieves an integer environment variable or returns a fallback.
func GetEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: geçersiz sayı %q", key, value)
	}
	return n, nil
}

// GetEnvBool retrieves a boolean environment variable or returns a fallback.
func GetEnvBool(key string, fallback bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: geçersiz bool %q", key, value)
	}
	return b, nil
}

// GetEnvDuration retrieves a duration environment variable or returns a fallback.
func GetEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback, fmt.Errorf("%s: geçersiz süre %q", key, value)
	}
	return d, nil
}

// GetEnvList retrieves a comma separated list or returns a fallback.
func GetEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
