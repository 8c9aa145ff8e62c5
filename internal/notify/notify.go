// Package notify delivers best-effort desktop notifications. Delivery
// failures are logged and swallowed; nothing in the review flow depends
// on a notification landing.
package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Notifier is the notification capability. Fire-and-forget.
type Notifier interface {
	Notify(title, body string)
}

// Desktop posts native notifications: osascript on macOS, notify-send on
// Linux. Other platforms are silently unsupported.
type Desktop struct{}

func (Desktop) Notify(title, body string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", title, body)
	default:
		return
	}
	if err := cmd.Run(); err != nil {
		slog.Warn("desktop notification failed", "error", err)
	}
}

// Nop discards notifications. Used when notifications are disabled and
// in tests.
type Nop struct{}

func (Nop) Notify(title, body string) {}
