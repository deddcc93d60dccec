package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("THREEDQ_CONFIG", "does-not-exist.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "./threedq.db" {
		t.Fatalf("unexpected default db path: %q", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %q", cfg.Port)
	}
	if cfg.QuotePrefix != "3DQ" {
		t.Fatalf("unexpected default quote prefix: %q", cfg.QuotePrefix)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev environment by default, got %q", cfg.Environment)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("THREEDQ_CONFIG", "does-not-exist.yaml")
	t.Setenv("THREEDQ_PORT", "9090")
	t.Setenv("THREEDQ_QUOTE_PREFIX", "INV")
	t.Setenv("THREEDQ_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("env override ignored for port: %q", cfg.Port)
	}
	if cfg.QuotePrefix != "INV" {
		t.Fatalf("env override ignored for quote prefix: %q", cfg.QuotePrefix)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("env override ignored for log level: %q", cfg.LogLevel)
	}
}

func TestLoad_RejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("THREEDQ_CONFIG", "does-not-exist.yaml")
	t.Setenv("THREEDQ_ENVIRONMENT", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown environment")
	}
}
