package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sarlink/internal/display"
)

var planExecute bool

var planCmd = &cobra.Command{
	Use:   "plan <instruction>",
	Short: "Request a single plan and print it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		p, err := a.coord.Submit(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, display.FormatProposal(p))
		fmt.Fprintln(out, display.FormatPlanMetrics(&p.Metrics))

		if !planExecute {
			return nil
		}
		exec, err := a.coord.Execute(p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, display.FormatExecutionMetrics(&exec.Metrics))
		fmt.Fprintln(out, display.FormatFleet(a.coord.Fleet()))
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVarP(&planExecute, "execute", "x", false, "execute the plan after printing it")
}
