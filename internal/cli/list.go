package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/planwg/planwg/internal/plan"
)

var listOpenOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known review channels",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listOpenOnly, "open-only", false, "Hide channels with no open plans")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	svc, _, err := localService()
	if err != nil {
		return err
	}
	sums, err := svc.List(listOpenOnly)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		fmt.Println("No review channels known. 'planwg create' starts one.")
		return nil
	}

	nowSecs := float64(time.Now().Unix())
	for _, s := range sums {
		age := "no activity"
		if s.LastActivity > 0 {
			age = plan.HumanAge(nowSecs - s.LastActivity)
		}
		line := fmt.Sprintf("#%-24s %d plans, %d open, %d approved   %s", s.Name, s.Total, s.Open, s.Approved, age)
		if s.HasConflicts {
			line += "   " + color.RedString("conflicts")
		}
		fmt.Println(line)
	}
	return nil
}
