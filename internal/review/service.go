// Package review orchestrates plan review operations: it ties the plan
// state core to the messaging transport and the persistence store, one
// method per CLI command. State is persisted only after the transport
// call it depends on has succeeded; reactions, DMs and notifications are
// best-effort and never fail the primary operation.
package review

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/planwg/planwg/internal/config"
	"github.com/planwg/planwg/internal/store"
	"github.com/planwg/planwg/internal/transport"
)

// ChannelPrefix marks the private channels this tool manages.
const ChannelPrefix = "wg_"

// ApprovalReaction is the emoji that approves a plan.
const ApprovalReaction = "white_check_mark"

// Service executes review operations for one configured operator.
type Service struct {
	cfg   *config.Config
	store store.Store
	msgr  transport.Messenger
	now   func() time.Time
}

// NewService builds a review service. The messenger may be nil for
// operations that never touch the transport (sync, status, link, list).
func NewService(cfg *config.Config, st store.Store, msgr transport.Messenger) *Service {
	return &Service{
		cfg:   cfg,
		store: st,
		msgr:  msgr,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ChannelName normalizes a user-supplied channel name to its wg_ form.
func ChannelName(name string) string {
	if strings.HasPrefix(name, ChannelPrefix) {
		return name
	}
	return ChannelPrefix + name
}

// IsManagedChannel reports whether a channel name belongs to this tool.
func IsManagedChannel(name string) bool {
	return name != "" && strings.HasPrefix(name, ChannelPrefix)
}

// ReadPlan returns the plan content from inline text or a file path.
// Inline text wins when both are given.
func ReadPlan(planFile, planText string) (string, error) {
	if planText != "" {
		return planText, nil
	}
	if planFile != "" {
		data, err := os.ReadFile(planFile)
		if err != nil {
			return "", fmt.Errorf("read plan file: %w", err)
		}
		return string(data), nil
	}
	return "", ErrMissingPlan
}

// ParseFiles splits a comma-separated file list, dropping blanks.
func ParseFiles(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (s *Service) sessionDir(dir string) (string, error) {
	if strings.TrimSpace(dir) != "" {
		return dir, nil
	}
	return os.Getwd()
}
