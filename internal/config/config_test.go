package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.HTTP.Addr)
	}
	if cfg.Session.TTLDays != 7 {
		t.Fatalf("expected 7-day session TTL, got %d", cfg.Session.TTLDays)
	}
	if cfg.Session.Backend != "memory" {
		t.Fatalf("expected memory session backend by default, got %s", cfg.Session.Backend)
	}
	if cfg.DBEnabled {
		t.Fatalf("DB must be disabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_TTL_DAYS", "2")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_PORT", "6543")

	cfg := Load()
	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("HTTP_ADDR override not applied: %s", cfg.HTTP.Addr)
	}
	if cfg.Session.TTLDays != 2 {
		t.Fatalf("SESSION_TTL_DAYS override not applied: %d", cfg.Session.TTLDays)
	}
	if !cfg.DBEnabled || cfg.Database.Port != 6543 {
		t.Fatalf("DB overrides not applied: %+v", cfg.Database)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL_DAYS", "soon")
	cfg := Load()
	if cfg.Session.TTLDays != 7 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.Session.TTLDays)
	}
}
