package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/review"
)

var (
	planChannel  string
	planText     string
	planFile     string
	planFilesArg string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Post a new plan thread into an existing review channel",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planChannel, "channel", "", "Channel name")
	planCmd.Flags().StringVar(&planText, "plan", "", "Plan text")
	planCmd.Flags().StringVar(&planFile, "plan-file", "", "Read the plan from a markdown file")
	planCmd.Flags().StringVar(&planFilesArg, "files", "", "Comma-separated files this plan touches")
	planCmd.MarkFlagRequired("channel")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	text, err := review.ReadPlan(planFile, planText)
	if err != nil {
		return err
	}
	svc, _, err := slackService()
	if err != nil {
		return err
	}

	res, err := svc.PostPlan(cmd.Context(), review.PostPlanParams{
		Channel:  planChannel,
		PlanText: text,
		Files:    review.ParseFiles(planFilesArg),
	})
	if err != nil {
		return err
	}

	color.Green("Posted plan to #%s", res.ChannelName)
	fmt.Printf("Thread: %s\n", res.ThreadID)
	if res.SectionCount > 0 {
		fmt.Printf("Sections: %d\n", res.SectionCount)
	}
	return nil
}
