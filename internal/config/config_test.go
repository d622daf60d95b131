package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	configViper := NewViper()
	configViper.Set("catalog.base_url", "http://catalog.internal")
	configViper.Set("session.signing_secret", "secret")

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPAddress != "0.0.0.0:8080" {
		t.Fatalf("unexpected default address %q", cfg.HTTPAddress)
	}
	if cfg.CatalogTimeout != 10*time.Second {
		t.Fatalf("unexpected default catalog timeout %v", cfg.CatalogTimeout)
	}
	if cfg.DatabasePath != "ragewatch.db" {
		t.Fatalf("unexpected default database path %q", cfg.DatabasePath)
	}
	if cfg.SessionIssuer != "ragequit-id" {
		t.Fatalf("unexpected default issuer %q", cfg.SessionIssuer)
	}
}

func TestLoadRequiresCatalogBaseURL(t *testing.T) {
	configViper := NewViper()
	configViper.Set("session.signing_secret", "secret")

	if _, err := Load(configViper); err == nil || !strings.Contains(err.Error(), "catalog.base_url") {
		t.Fatalf("expected catalog.base_url error, got %v", err)
	}
}

func TestLoadRequiresSigningSecret(t *testing.T) {
	configViper := NewViper()
	configViper.Set("catalog.base_url", "http://catalog.internal")

	if _, err := Load(configViper); err == nil || !strings.Contains(err.Error(), "session.signing_secret") {
		t.Fatalf("expected signing secret error, got %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	configViper := NewViper()
	configViper.Set("catalog.base_url", "http://catalog.internal")
	configViper.Set("session.signing_secret", "secret")
	configViper.Set("http.address", "127.0.0.1:9999")
	configViper.Set("catalog.timeout_seconds", 3)

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPAddress != "127.0.0.1:9999" {
		t.Fatalf("unexpected address %q", cfg.HTTPAddress)
	}
	if cfg.CatalogTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.CatalogTimeout)
	}
}
