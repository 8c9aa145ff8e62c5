package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/review"
)

var (
	createChannel  string
	createUsers    []string
	createPlanText string
	createPlanFile string
	createFiles    string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a private review channel and post the initial plan",
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createChannel, "channel", "", "Channel name (wg_ prefix added automatically)")
	createCmd.Flags().StringSliceVar(&createUsers, "users", nil, "Collaborators to invite (user ids or names, repeatable)")
	createCmd.Flags().StringVar(&createPlanText, "plan", "", "Plan text")
	createCmd.Flags().StringVar(&createPlanFile, "plan-file", "", "Read the plan from a markdown file")
	createCmd.Flags().StringVar(&createFiles, "files", "", "Comma-separated files this plan touches")
	createCmd.MarkFlagRequired("channel")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	text, err := review.ReadPlan(createPlanFile, createPlanText)
	if err != nil {
		return err
	}
	svc, _, err := slackService()
	if err != nil {
		return err
	}

	res, err := svc.Create(cmd.Context(), review.CreateParams{
		Channel:       createChannel,
		Collaborators: createUsers,
		PlanText:      text,
		Files:         review.ParseFiles(createFiles),
	})
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		color.Yellow("warning: %s", w)
	}
	color.Green("Created #%s", res.ChannelName)
	fmt.Printf("Thread:   %s\n", res.ThreadID)
	if res.SectionCount > 0 {
		fmt.Printf("Sections: %d\n", res.SectionCount)
	}
	fmt.Printf("Invited:  %d\n", len(res.Invited))
	fmt.Println("This directory is now linked; 'planwg sync' shows feedback here.")
	return nil
}
