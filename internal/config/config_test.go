package config

import (
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Session.TTLMinutes != 30 {
		t.Fatalf("expected default ttl 30, got %d", cfg.Session.TTLMinutes)
	}
	if cfg.Reminder.Cron != "0 9 * * *" {
		t.Fatalf("unexpected default reminder cron: %q", cfg.Reminder.Cron)
	}
}

func TestValidate_NormalizesLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "  WARN "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected normalized level warn, got %q", cfg.Log.Level)
	}
}

func TestValidate_RejectsBadCron(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reminder.Cron = "not a cron"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	if !strings.Contains(err.Error(), "reminder.cron") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsBadRole(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = []DirectoryUser{{ID: "100", Name: "Sami", Role: "intern"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown directory role")
	}
}

func TestValidate_RejectsEmptyDirectoryID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = []DirectoryUser{{ID: " ", Role: "hr"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty directory id")
	}
}

func TestValidate_GatewayPortBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gateway.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range gateway port")
	}
}
