package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rcpro-configurator/internal/configurator"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Pricing.APIKey != "" {
		t.Fatalf("expected empty api key, got %q", cfg.Pricing.APIKey)
	}
	if cfg.Pricing.Timeout != 0 {
		t.Fatalf("expected no timeout, got %v", cfg.Pricing.Timeout)
	}
	if cfg.Profile.AnnualRevenue != 80000 || cfg.Profile.LegalName != "example SA" || len(cfg.Profile.NacebelCodes) != 5 {
		t.Fatalf("unexpected profile %+v", cfg.Profile)
	}
	if p, _ := cfg.StalePolicy(); p != configurator.LatestRequestWins {
		t.Fatalf("expected latest-request policy, got %v", p)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RCPRO_PRICING_API_KEY", "from-env")
	t.Setenv("RCPRO_PRICING_TIMEOUT", "3s")
	t.Setenv("RCPRO_QUOTE_STALE_POLICY", "last-response")

	v, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pricing.APIKey != "from-env" {
		t.Fatalf("expected api key from env, got %q", cfg.Pricing.APIKey)
	}
	if cfg.Pricing.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.Pricing.Timeout)
	}
	if p, _ := cfg.StalePolicy(); p != configurator.LastResponseWins {
		t.Fatalf("expected last-response policy, got %v", p)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	doc := `
server:
  addr: ":9090"
profile:
  legal_name: "other SRL"
  nacebel_codes: ["62010"]
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	v, err := New(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected addr from file, got %q", cfg.Server.Addr)
	}
	if cfg.Profile.LegalName != "other SRL" || strings.Join(cfg.Profile.NacebelCodes, ",") != "62010" {
		t.Fatalf("unexpected profile %+v", cfg.Profile)
	}
	if cfg.Profile.EnterpriseNumber != "0649885171" {
		t.Fatalf("expected default enterprise number to survive, got %q", cfg.Profile.EnterpriseNumber)
	}
}

func TestNewMissingExplicitFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	v, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := cfg
	bad.Quote.StalePolicy = "whatever"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected invalid stale policy to fail")
	}

	bad = cfg
	bad.Pricing.URL = ""
	if err := bad.Validate(); err == nil {
		t.Fatal("expected empty pricing url to fail")
	}

	bad = cfg
	bad.Pricing.Timeout = -time.Second
	if err := bad.Validate(); err == nil {
		t.Fatal("expected negative timeout to fail")
	}

	bad = cfg
	bad.Telemetry.MetricInterval = -time.Second
	if err := bad.Validate(); err == nil {
		t.Fatal("expected negative metric interval to fail")
	}
}

func TestValidateRejectsNegativeMaxSessions(t *testing.T) {
	t.Chdir(t.TempDir())
	v, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.MaxSessions != 10000 {
		t.Fatalf("expected default max sessions 10000, got %d", cfg.Server.MaxSessions)
	}

	cfg.Server.MaxSessions = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative max sessions to fail")
	}
}
