package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sarlink/internal/display"
)

var (
	simTicks     int
	simPlanFile  string
	simPlanNames []string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Advance the simulator headlessly and print the fleet and log",
	Long: `Runs N ticks synchronously. With --plan, the first matching plan from the
file is executed before the first tick.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if simTicks < 0 {
			return fmt.Errorf("--ticks must not be negative")
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if simPlanFile != "" {
			plans, missing, err := loadPlans(simPlanFile, simPlanNames)
			if len(missing) > 0 {
				fmt.Fprintf(out, "Missing plans: %v\n", missing)
			}
			if err != nil {
				return err
			}
			p, err := a.coord.Load(plans[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, display.FormatProposal(p))
			exec, err := a.coord.Execute(p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, display.FormatExecutionMetrics(&exec.Metrics))
		}

		a.coord.Advance(simTicks)

		fmt.Fprintf(out, "After %d ticks:\n%s\n\n%s\n", simTicks, display.FormatFleet(a.coord.Fleet()), display.FormatLogs(a.coord.Logs()))
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVarP(&simTicks, "ticks", "n", 50, "number of ticks to run")
	simulateCmd.Flags().StringVar(&simPlanFile, "plan", "", "JSON plans file to execute first")
	simulateCmd.Flags().StringSliceVar(&simPlanNames, "name", nil, "plan name(s) to select from --plan")
}
