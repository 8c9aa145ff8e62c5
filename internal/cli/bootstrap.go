package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var bootstrapChannel string

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Build local state from an existing channel's history",
	Long:  "bootstrap reads the channel's message history and fills in local state.\nThe merge is additive: threads already known locally are never touched,\nso running it again is always safe.",
	RunE:  runBootstrap,
}

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapChannel, "channel", "", "Channel name")
	bootstrapCmd.MarkFlagRequired("channel")
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	svc, _, err := slackService()
	if err != nil {
		return err
	}
	res, err := svc.Bootstrap(cmd.Context(), bootstrapChannel)
	if err != nil {
		return err
	}
	color.Green("Bootstrapped #%s", res.ChannelName)
	fmt.Printf("Threads added:  %d\n", res.ThreadsCreated)
	fmt.Printf("Feedback added: %d\n", res.FeedbackAdded)
	if res.ThreadsCreated == 0 && res.FeedbackAdded == 0 {
		fmt.Println("Local state was already up to date.")
	}
	return nil
}
