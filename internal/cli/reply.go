package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/review"
)

var (
	replyChannel  string
	replyThread   string
	replyPlanText string
	replyPlanFile string
	replyFiles    string
)

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Post a revised plan as a threaded reply",
	RunE:  runReply,
}

func init() {
	replyCmd.Flags().StringVar(&replyChannel, "channel", "", "Channel name (defaults to the linked session)")
	replyCmd.Flags().StringVar(&replyThread, "thread", "", "Thread id when ownership inference is ambiguous")
	replyCmd.Flags().StringVar(&replyPlanText, "plan", "", "Revised plan text")
	replyCmd.Flags().StringVar(&replyPlanFile, "plan-file", "", "Read the revision from a markdown file")
	replyCmd.Flags().StringVar(&replyFiles, "files", "", "Comma-separated files, replacing the declared set")
	rootCmd.AddCommand(replyCmd)
}

func runReply(cmd *cobra.Command, args []string) error {
	text, err := review.ReadPlan(replyPlanFile, replyPlanText)
	if err != nil {
		return err
	}
	svc, _, err := slackService()
	if err != nil {
		return err
	}

	res, err := svc.Reply(cmd.Context(), review.ReplyParams{
		Channel:  replyChannel,
		ThreadID: replyThread,
		PlanText: text,
		Files:    review.ParseFiles(replyFiles),
	})
	if err != nil {
		return err
	}

	color.Green("Posted v%d to #%s", res.Version, res.ChannelName)
	fmt.Printf("Thread: %s\n", res.ThreadID)
	return nil
}
