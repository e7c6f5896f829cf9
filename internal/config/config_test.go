package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "SESSION_HOURS", "INVOICE_DUE_DAYS", "APP_ENV", "ADMIN_USERNAME"} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_NAME", "docs")

	cfg := Load()

	if cfg.ServerPort != "3000" {
		t.Errorf("expected port 3000, got %s", cfg.ServerPort)
	}
	if cfg.SessionTTL() != 8*time.Hour {
		t.Errorf("expected 8h session, got %s", cfg.SessionTTL())
	}
	if cfg.InvoiceDueDays != 30 {
		t.Errorf("expected 30 due days, got %d", cfg.InvoiceDueDays)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("expected admin, got %s", cfg.AdminUsername)
	}
	if !strings.Contains(cfg.DatabaseURL, "dbname=docs") {
		t.Errorf("dsn not built from DB_* vars: %s", cfg.DatabaseURL)
	}
	if cfg.IsProduction() {
		t.Error("default environment is development")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db/erp")
	t.Setenv("SESSION_HOURS", "12")
	t.Setenv("INVOICE_DUE_DAYS", "abc")
	t.Setenv("APP_ENV", "Production")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://u:p@db/erp" {
		t.Errorf("unexpected dsn %s", cfg.DatabaseURL)
	}
	if cfg.SessionHours != 12 {
		t.Errorf("expected 12, got %d", cfg.SessionHours)
	}
	if cfg.InvoiceDueDays != 30 {
		t.Errorf("invalid number must fall back to default, got %d", cfg.InvoiceDueDays)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}
