package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("KLIKSY_DATABASE_HOST", "db.internal")
	t.Setenv("KLIKSY_DATABASE_USER", "kliksy")
	t.Setenv("KLIKSY_DATABASE_NAME", "kliksy")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 || cfg.Database.SSLMode != "disable" {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Storage.MaxFileBytes != 10*1024*1024 {
		t.Errorf("max file bytes = %d, want 10 MiB", cfg.Storage.MaxFileBytes)
	}
	if cfg.Pagination.PageSize != 8 || cfg.Pagination.MaxPageSize != 24 {
		t.Errorf("pagination defaults = %+v", cfg.Pagination)
	}
	if cfg.Janitor.Schedule != "@hourly" || cfg.Janitor.GraceMinutes != 60 {
		t.Errorf("janitor defaults = %+v", cfg.Janitor)
	}
}

func TestLoadEnvMapping(t *testing.T) {
	setRequired(t)
	t.Setenv("KLIKSY_SERVER_PORT", "9090")
	t.Setenv("KLIKSY_DATABASE_PASSWORD", "hunter2")
	t.Setenv("KLIKSY_STORAGE_MAX_FILE_BYTES", "2048")
	t.Setenv("KLIKSY_STORAGE_CDN_BASE_URL", "https://cdn.example.com/")
	t.Setenv("KLIKSY_AUTH_SECRET", "sekrit")
	t.Setenv("KLIKSY_PAGINATION_MAX_PAGE_SIZE", "48")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.MaxFileBytes != 2048 {
		t.Errorf("max file bytes = %d, want 2048", cfg.Storage.MaxFileBytes)
	}
	if cfg.Storage.CDNBaseURL != "https://cdn.example.com" {
		t.Errorf("cdn base url = %q, want trailing slash trimmed", cfg.Storage.CDNBaseURL)
	}
	if cfg.Auth.Secret != "sekrit" {
		t.Errorf("auth secret = %q", cfg.Auth.Secret)
	}
	if cfg.Pagination.MaxPageSize != 48 {
		t.Errorf("max page size = %d, want 48", cfg.Pagination.MaxPageSize)
	}

	dsn := cfg.Database.DSN()
	for _, part := range []string{"host=db.internal", "user=kliksy", "password=hunter2", "dbname=kliksy", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	// Only the host is set, user and name are missing.
	t.Setenv("KLIKSY_DATABASE_HOST", "db.internal")
	t.Setenv("KLIKSY_DATABASE_USER", "")
	t.Setenv("KLIKSY_DATABASE_NAME", "")

	if _, err := Load(); err == nil {
		t.Error("expected a validation error for a missing database config")
	}
}
