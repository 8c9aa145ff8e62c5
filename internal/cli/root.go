// Package cli wires the planwg commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/config"
	"github.com/planwg/planwg/internal/review"
	"github.com/planwg/planwg/internal/store"
	"github.com/planwg/planwg/internal/transport"
)

// version can be overridden at build time via:
// go build -ldflags "-X github.com/planwg/planwg/internal/cli.version=1.2.3"
var version = "0.4.0"

var rootCmd = &cobra.Command{
	Use:           "planwg",
	Short:         "Asynchronous plan review over Slack threads",
	Long:          "planwg coordinates plan review in private wg_ channels:\npost a plan, collect threaded feedback, revise, and approve.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("planwg %s\n", version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// localService builds a service for commands that never touch Slack.
func localService() (*review.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return review.NewService(cfg, store.NewFileStore(cfg.StateDir), nil), cfg, nil
}

// slackService builds a service with a live Slack transport.
func slackService() (*review.Service, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	msgr, err := transport.NewSlackMessenger(cfg.SlackBotToken, cfg.SlackAppToken)
	if err != nil {
		return nil, nil, err
	}
	return review.NewService(cfg, store.NewFileStore(cfg.StateDir), msgr), cfg, nil
}
