package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/plan"
)

var statusChannel string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show threads, approvals and file conflicts for a channel",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusChannel, "channel", "", "Channel name")
	statusCmd.MarkFlagRequired("channel")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, _, err := localService()
	if err != nil {
		return err
	}
	view, err := svc.Status(statusChannel)
	if err != nil {
		return err
	}
	ch := view.Channel

	fmt.Printf("#%s", ch.Name)
	if ch.Closed() {
		fmt.Print("  (archived)")
	}
	fmt.Println()

	ids := make([]string, 0, len(ch.Threads))
	for id := range ch.Threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		t := ch.Threads[id]
		fmt.Println()
		fmt.Printf("Thread %s  v%d  %s\n", id, t.Version, renderThreadStatus(t))
		if t.Owner != "" {
			fmt.Printf("  owner: %s\n", t.Owner)
		}
		if len(t.Files) > 0 {
			fmt.Printf("  files: %s\n", strings.Join(t.Files, ", "))
		}
		if n := len(t.FeedbackOnly()); n > 0 {
			fmt.Printf("  feedback: %d\n", n)
		}
		for _, sec := range t.Sections {
			fmt.Printf("  section %-12s %s  (%d comments)\n",
				sec.MessageID, renderSectionStatus(sec), len(sec.Feedback))
			if h := plan.HeadingText(sec.Heading); h != "" {
				fmt.Printf("    %s\n", h)
			}
		}
	}

	fmt.Println()
	if len(view.Conflicts) == 0 {
		color.Green("No file conflicts.")
		return nil
	}
	color.Red("File conflicts:")
	for _, c := range view.Conflicts {
		color.Red("  %s <-> %s: %s", c.ThreadA, c.ThreadB, strings.Join(c.Files, ", "))
	}
	return nil
}

func renderThreadStatus(t *plan.Thread) string {
	if t.Approved {
		s := color.GreenString("approved")
		if t.ApprovedBy != "" {
			s += " by " + t.ApprovedBy
		}
		return s
	}
	return string(t.Status)
}

func renderSectionStatus(sec plan.Section) string {
	if sec.Approved {
		s := color.GreenString("approved")
		if sec.ApprovedBy != "" {
			s += " by " + sec.ApprovedBy
		}
		return s
	}
	return "open"
}
