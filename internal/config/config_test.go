package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PLANWG_CONFIG", path)
	return path
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `{
		"slack_bot_token": "xoxb-1",
		"slack_app_token": "xapp-1",
		"my_user_id": "U123",
		"state_dir": "/tmp/planwg-state"
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SlackBotToken != "xoxb-1" || cfg.UserID != "U123" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.StateDir != "/tmp/planwg-state" {
		t.Fatalf("state dir = %q", cfg.StateDir)
	}
	if !cfg.NotifyDesktop {
		t.Fatal("notify_desktop should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	writeConfig(t, `{"slack_bot_token": "xoxb-file", "my_user_id": "U123"}`)
	t.Setenv("PLANWG_SLACK_BOT_TOKEN", "xoxb-env")
	t.Setenv("PLANWG_NOTIFY_DESKTOP", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SlackBotToken != "xoxb-env" {
		t.Fatalf("env override not applied: %q", cfg.SlackBotToken)
	}
	if cfg.NotifyDesktop {
		t.Fatal("env override for notify_desktop not applied")
	}
	if cfg.StateDir == "" {
		t.Fatal("state dir default missing")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PLANWG_CONFIG", filepath.Join(t.TempDir(), "nope.json"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{SlackBotToken: "xoxb", UserID: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected my_user_id validation error")
	}
	cfg = &Config{SlackBotToken: "", UserID: "U1"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected slack_bot_token validation error")
	}
}
