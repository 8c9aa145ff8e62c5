package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/review"
)

var (
	approveChannel string
	approveThread  string
	approveSection string
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve the current plan, or one section of it",
	RunE:  runApprove,
}

func init() {
	approveCmd.Flags().StringVar(&approveChannel, "channel", "", "Channel name (defaults to the linked session)")
	approveCmd.Flags().StringVar(&approveThread, "thread", "", "Thread id when ownership inference is ambiguous")
	approveCmd.Flags().StringVar(&approveSection, "section", "", "Message id of the section to approve")
	rootCmd.AddCommand(approveCmd)
}

func runApprove(cmd *cobra.Command, args []string) error {
	svc, _, err := slackService()
	if err != nil {
		return err
	}

	res, err := svc.Approve(cmd.Context(), review.ApproveParams{
		Channel:   approveChannel,
		ThreadID:  approveThread,
		SectionID: approveSection,
	})
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		color.Yellow("warning: %s", w)
	}
	if res.SectionHeading != "" {
		color.Green("Approved section %q in #%s", res.SectionHeading, res.ChannelName)
	} else {
		color.Green("Approved plan v%d in #%s", res.Version, res.ChannelName)
	}
	fmt.Printf("Thread: %s\n", res.ThreadID)
	return nil
}
