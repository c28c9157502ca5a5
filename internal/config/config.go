package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName          = "PayoutDemo"
	defaultAppEnv           = "development"
	defaultPort             = "3000"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultTreasuryBaseURL  = "https://app.moderntreasury.com"
	defaultTreasuryTimeout  = 15 * time.Second
	defaultTreasuryPageSize = 100
	defaultFlowAlias        = "my-test-flow"
	defaultOnboardWorkers   = 2
	defaultOnboardAttempts  = 3
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	Treasury   Treasury
	Ledger     Ledger
	Onboarding Onboarding

	// WebhookSecret enables X-Signature verification on the hook endpoints when set.
	WebhookSecret string
}

// Treasury holds credentials and tuning for the external payments platform.
type Treasury struct {
	BaseURL        string
	OrganizationID string
	APIKey         string
	Timeout        time.Duration
	PageSize       int
}

// Ledger names the fixed ledger accounts used by ledger-backed payouts.
type Ledger struct {
	CreditAccountID string
	DebitAccountID  string
}

// Onboarding configures background onboarding submission.
type Onboarding struct {
	FlowAlias   string
	Workers     int
	MaxAttempts int
}

// Load reads configuration values from the environment and populates a Config instance.
// A .env file in the working directory is read first; variables already set win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		Treasury: Treasury{
			BaseURL:        strings.TrimRight(getEnv("TREASURY_BASE_URL", defaultTreasuryBaseURL), "/"),
			OrganizationID: os.Getenv("TREASURY_ORGANIZATION_ID"),
			APIKey:         os.Getenv("TREASURY_API_KEY"),
			Timeout:        defaultTreasuryTimeout,
			PageSize:       defaultTreasuryPageSize,
		},
		Ledger: Ledger{
			CreditAccountID: os.Getenv("LEDGER_CREDIT_ACCOUNT_ID"),
			DebitAccountID:  os.Getenv("LEDGER_DEBIT_ACCOUNT_ID"),
		},
		Onboarding: Onboarding{
			FlowAlias:   getEnv("ONBOARDING_FLOW_ALIAS", defaultFlowAlias),
			Workers:     defaultOnboardWorkers,
			MaxAttempts: defaultOnboardAttempts,
		},
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("TREASURY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TREASURY_TIMEOUT: %w", err)
		}
		cfg.Treasury.Timeout = d
	}
	if cfg.Treasury.PageSize, err = intFromEnv("TREASURY_PAGE_SIZE", cfg.Treasury.PageSize); err != nil {
		return Config{}, err
	}
	if cfg.Onboarding.Workers, err = intFromEnv("ONBOARDING_WORKERS", cfg.Onboarding.Workers); err != nil {
		return Config{}, err
	}
	if cfg.Onboarding.MaxAttempts, err = intFromEnv("ONBOARDING_MAX_ATTEMPTS", cfg.Onboarding.MaxAttempts); err != nil {
		return Config{}, err
	}

	if !cfg.IsDev() {
		if cfg.Treasury.OrganizationID == "" {
			return Config{}, fmt.Errorf("TREASURY_ORGANIZATION_ID must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.Treasury.APIKey == "" {
			return Config{}, fmt.Errorf("TREASURY_API_KEY must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// LedgerConfigured reports whether both fixed ledger accounts are known.
func (l Ledger) LedgerConfigured() bool {
	return l.CreditAccountID != "" && l.DebitAccountID != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}
