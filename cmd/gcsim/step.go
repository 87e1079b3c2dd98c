package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leftmike/gcsim"
	"github.com/leftmike/gcsim/internal/render"
)

var numSteps int
var showPanels bool

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Take a number of steps, printing a trace line after each",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, events, _, err := newSession(cmd)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		unsubscribe := events.Subscribe(func(ev gcsim.Event) {
			if ev.Type == gcsim.EventBreakpoint {
				fmt.Fprintf(w, "     breakpoint at %s:%d\n", ev.Channel, ev.Line+1)
			}
		})
		defer unsubscribe()

		fmt.Fprintln(w, render.Trace(0, s.Snapshot()))
		for n := 1; n <= numSteps; n += 1 {
			if s.Engine().Done() {
				break
			}
			err = s.Dispatch(gcsim.StepOnce{})
			if err != nil {
				return err
			}
			fmt.Fprintln(w, render.Trace(n, s.Snapshot()))
		}

		if showPanels {
			render.Panels(w, s.Snapshot(), programs(s), termWidth())
		}
		return nil
	},
}

func init() {
	stepCmd.Flags().IntVarP(&numSteps, "steps", "n", 1, "Number of steps to take")
	stepCmd.Flags().BoolVar(&showPanels, "panels", false, "Show the panels after the last step")

	rootCmd.AddCommand(stepCmd)
}
