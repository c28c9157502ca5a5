package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "")
	t.Setenv("TREASURY_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address() != ":3000" {
		t.Fatalf("expected :3000, got %s", cfg.Address())
	}
	if cfg.Treasury.BaseURL != defaultTreasuryBaseURL {
		t.Fatalf("unexpected base url %s", cfg.Treasury.BaseURL)
	}
	if cfg.Onboarding.FlowAlias != defaultFlowAlias {
		t.Fatalf("unexpected flow alias %s", cfg.Onboarding.FlowAlias)
	}
	if cfg.ShutdownPeriod != defaultShutdownDelay {
		t.Fatalf("unexpected shutdown period %s", cfg.ShutdownPeriod)
	}
}

func TestLoadRequiresCredentialsOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TREASURY_ORGANIZATION_ID", "")
	t.Setenv("TREASURY_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing credentials error")
	}

	t.Setenv("TREASURY_ORGANIZATION_ID", "org")
	t.Setenv("TREASURY_API_KEY", "key")
	if _, err := Load(); err != nil {
		t.Fatalf("load with credentials: %v", err)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("TREASURY_TIMEOUT", "2s")
	t.Setenv("TREASURY_PAGE_SIZE", "25")
	t.Setenv("ONBOARDING_WORKERS", "4")
	t.Setenv("TREASURY_BASE_URL", "http://localhost:9999/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.ShutdownPeriod)
	}
	if cfg.Treasury.Timeout != 2*time.Second || cfg.Treasury.PageSize != 25 {
		t.Fatalf("unexpected treasury config: %+v", cfg.Treasury)
	}
	if cfg.Onboarding.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Onboarding.Workers)
	}
	if cfg.Treasury.BaseURL != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.Treasury.BaseURL)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ONBOARDING_MAX_ATTEMPTS", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
