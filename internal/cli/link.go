package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	linkChannel string
	linkThread  string
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this directory to a channel thread",
	RunE:  runLink,
}

func init() {
	linkCmd.Flags().StringVar(&linkChannel, "channel", "", "Channel name")
	linkCmd.Flags().StringVar(&linkThread, "thread", "", "Thread id to link")
	linkCmd.MarkFlagRequired("channel")
	linkCmd.MarkFlagRequired("thread")
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	svc, _, err := localService()
	if err != nil {
		return err
	}
	name, err := svc.Link(linkChannel, linkThread, "")
	if err != nil {
		return err
	}
	color.Green("Linked this directory to #%s thread %s", name, linkThread)
	return nil
}
