package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/leftmike/gcsim"
	"github.com/leftmike/gcsim/internal/render"
)

var continueRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Step both channels until they finish or hit a breakpoint",
	Long: `Step both channels once per interval until both programs finish, a breakpoint is
reached, or the run is interrupted. With --continue, breakpoints are reported and
stepped over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, _, err := newSession(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w := cmd.OutOrStdout()
		var steps int
		for {
			res := s.Run(ctx)
			steps += res.Steps
			if res.Reason != gcsim.StopBreakpoint {
				fmt.Fprintf(w, "%s after %d steps\n", res.Reason, steps)
				break
			}
			for _, bp := range res.Breakpoints {
				fmt.Fprintf(w, "breakpoint at %s:%d\n", bp.Channel, bp.Line+1)
			}
			if !continueRun {
				break
			}
		}

		render.Panels(w, s.Snapshot(), programs(s), termWidth())
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&continueRun, "continue", false, "Step over breakpoints")

	rootCmd.AddCommand(runCmd)
}
