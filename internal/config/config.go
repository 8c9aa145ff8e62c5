// Package config provides configuration loading for planwg.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name under $HOME.
	ConfigDir = ".planwg"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// Config is the root configuration. Values come from the JSON config file
// and can be overridden per-field via PLANWG_* environment variables.
type Config struct {
	SlackBotToken string `json:"slack_bot_token" envconfig:"SLACK_BOT_TOKEN"`
	SlackAppToken string `json:"slack_app_token" envconfig:"SLACK_APP_TOKEN"`
	// UserID is the local operator's Slack user id. Ownership inference
	// and reaction-approval authority key off this identity.
	UserID string `json:"my_user_id" envconfig:"USER_ID"`
	// StateDir holds the per-channel state files. Defaults to ~/.planwg.
	StateDir string `json:"state_dir" envconfig:"STATE_DIR"`
	// NotifyDesktop enables desktop notifications from the listener.
	NotifyDesktop bool `json:"notify_desktop" envconfig:"NOTIFY_DESKTOP"`
}

// Path returns the config file location, honoring PLANWG_CONFIG.
func Path() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("PLANWG_CONFIG")); explicit != "" {
		return expandHome(explicit)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Load reads the config file and applies environment overrides.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	cfg := &Config{NotifyDesktop: true}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config not found at %s; create it with slack_bot_token, slack_app_token and my_user_id", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := envconfig.Process("planwg", cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}
	return cfg.withDefaults()
}

func (c *Config) withDefaults() (*Config, error) {
	if strings.TrimSpace(c.StateDir) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		c.StateDir = filepath.Join(home, ConfigDir)
	} else {
		expanded, err := expandHome(c.StateDir)
		if err != nil {
			return nil, err
		}
		c.StateDir = expanded
	}
	return c, nil
}

// Validate checks the fields every Slack-facing command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SlackBotToken) == "" {
		return errors.New("slack_bot_token is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("my_user_id is required")
	}
	return nil
}
