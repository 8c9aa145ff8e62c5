package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/plan"
)

var (
	syncChannel  string
	syncThread   string
	syncOverview bool
	syncSection  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Show collected feedback for the linked thread",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncChannel, "channel", "", "Channel name (defaults to the linked session)")
	syncCmd.Flags().StringVar(&syncThread, "thread", "", "Thread id when ownership inference is ambiguous")
	syncCmd.Flags().BoolVar(&syncOverview, "overview", false, "Show only per-section approval state")
	syncCmd.Flags().StringVar(&syncSection, "section", "", "Show feedback for one section (message id)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	svc, _, err := localService()
	if err != nil {
		return err
	}
	target, err := svc.Sync(syncChannel, syncThread, "")
	if err != nil {
		return err
	}
	t := target.Thread

	fmt.Printf("#%s  thread %s  v%d  %s\n", target.Channel.Name, target.ThreadID, t.Version, renderThreadStatus(t))

	if syncSection != "" {
		sec, ok := t.Section(syncSection)
		if !ok {
			return &plan.NotFoundError{Kind: "section", ID: syncSection}
		}
		printSection(*sec, true)
		return nil
	}

	if syncOverview {
		for _, sec := range t.Sections {
			printSection(sec, false)
		}
		return nil
	}

	if pv, ok := t.CurrentPlan(); ok {
		fmt.Printf("\nCurrent plan (v%d):\n%s\n\n", pv.Version, pv.Text)
	}
	entries := t.FeedbackOnly()
	if len(entries) == 0 && !t.Sectioned() {
		fmt.Println("No feedback yet.")
		return nil
	}
	for _, e := range entries {
		printEntry(e)
	}
	for _, sec := range t.Sections {
		if len(sec.Feedback) == 0 {
			continue
		}
		printSection(sec, true)
	}
	return nil
}

func printSection(sec plan.Section, withFeedback bool) {
	fmt.Printf("\nSection %s  %s  %s  (%d comments)\n",
		sec.MessageID, plan.HeadingText(sec.Heading), renderSectionStatus(sec), len(sec.Feedback))
	if !withFeedback {
		return
	}
	if len(sec.Feedback) == 0 {
		fmt.Println("  no feedback")
		return
	}
	for _, e := range sec.Feedback {
		printEntry(e)
	}
}

func printEntry(e plan.FeedbackEntry) {
	tag := ""
	if e.Kind == plan.KindRevision {
		tag = color.CyanString(" [revision]")
	}
	fmt.Printf("  %s %s%s\n    %s\n", e.ReceivedAt.Format("2006-01-02 15:04"), e.Author, tag, e.Text)
}
