package config

import (
	"testing"
	"time"
)

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "clinic")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "clinic_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("SCHEDULING_SEARCH_HORIZON_DAYS", "90")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Fatalf("App.Port = %s", cfg.App.Port)
	}
	if cfg.DB.Name != "clinic_test" {
		t.Fatalf("DB.Name = %s", cfg.DB.Name)
	}
	if cfg.JWT.AccessExpiry != 30*time.Minute {
		t.Fatalf("JWT.AccessExpiry = %v", cfg.JWT.AccessExpiry)
	}
	if cfg.Scheduling.SearchHorizonDays != 90 {
		t.Fatalf("Scheduling.SearchHorizonDays = %d", cfg.Scheduling.SearchHorizonDays)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")
	t.Setenv("SCHEDULING_SEARCH_HORIZON_DAYS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.JWT.AccessExpiry != 15*time.Minute {
		t.Fatalf("AccessExpiry default = %v, want 15m", cfg.JWT.AccessExpiry)
	}
	if cfg.Scheduling.SearchHorizonDays != 365 {
		t.Fatalf("SearchHorizonDays default = %d, want 365", cfg.Scheduling.SearchHorizonDays)
	}
}
