package cli

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/config"
	"github.com/planwg/planwg/internal/daemon"
	"github.com/planwg/planwg/internal/notify"
	"github.com/planwg/planwg/internal/store"
	"github.com/planwg/planwg/internal/transport"
)

var listenQuiet bool

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Watch review channels and keep local state current",
	Long:  "listen connects over socket mode and records channel activity as it\nhappens: new plans, feedback, revisions and approval reactions.",
	RunE:  runListen,
}

func init() {
	listenCmd.Flags().BoolVar(&listenQuiet, "quiet", false, "Suppress desktop notifications")
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.SlackAppToken) == "" {
		return errors.New("slack_app_token is required for listen")
	}

	msgr, err := transport.NewSlackMessenger(cfg.SlackBotToken, cfg.SlackAppToken)
	if err != nil {
		return err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.NotifyDesktop && !listenQuiet {
		notifier = notify.Desktop{}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	d := daemon.New(cfg, store.NewFileStore(cfg.StateDir), msgr, notifier, logger)
	return d.Run(cmd.Context())
}
