package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var closeChannel string

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Archive a review channel, keeping its local history",
	RunE:  runClose,
}

func init() {
	closeCmd.Flags().StringVar(&closeChannel, "channel", "", "Channel name")
	closeCmd.MarkFlagRequired("channel")
	rootCmd.AddCommand(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	svc, _, err := slackService()
	if err != nil {
		return err
	}
	res, err := svc.Close(cmd.Context(), closeChannel, "")
	if err != nil {
		return err
	}
	color.Green("Archived #%s", res.ChannelName)
	if res.SessionCleared {
		fmt.Println("Session link removed.")
	} else if res.SessionNote != "" {
		fmt.Println(res.SessionNote)
	}
	return nil
}
