package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/hotel-staff-agent/internal/role"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOTEL_ROLE", "housekeeping")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.StatePath != "hotel-agent.db" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_RequiresRole(t *testing.T) {
	t.Setenv("HOTEL_ROLE", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "role") {
		t.Fatalf("expected missing-role error, got %v", err)
	}
}

func TestLoad_RejectsUnknownRole(t *testing.T) {
	t.Setenv("HOTEL_ROLE", "concierge")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid-role error")
	}
}

func TestLoad_AcceptsRoleAliases(t *testing.T) {
	t.Setenv("HOTEL_ROLE", "maintanance")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	staffRole, err := cfg.StaffRole()
	if err != nil {
		t.Fatalf("StaffRole: %v", err)
	}
	if staffRole != role.Maintenance {
		t.Fatalf("role = %v, want maintenance", staffRole)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	contents := "base_url: https://file.example\nrole: breakfast\npoll_interval: 10s\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv(FileEnvVar, path)
	t.Setenv("HOTEL_BASE_URL", "https://env.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "https://env.example" {
		t.Errorf("env must override file, got BaseURL %q", cfg.BaseURL)
	}
	if cfg.Role != "breakfast" {
		t.Errorf("file value should survive, got Role %q", cfg.Role)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("PollInterval = %s, want 10s from file", cfg.PollInterval)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Setenv(FileEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("HOTEL_ROLE", "frontdesk")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unreadable config file")
	}
}

func TestLoad_RejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("HOTEL_ROLE", "frontdesk")
	t.Setenv("HOTEL_POLL_INTERVAL", "0s")

	if _, err := Load(); err == nil {
		t.Fatal("expected interval validation error")
	}
}
