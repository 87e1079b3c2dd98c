package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leftmike/gcsim"
	"github.com/leftmike/gcsim/internal/render"
)

var stateFormat string
var stateSteps int

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the session state after stepping",
	Long: `Print the session state after taking --steps steps, or after running both
programs to the end, stepping over breakpoints, when --steps is negative.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stateFormat != "yaml" && stateFormat != "text" {
			return fmt.Errorf("state: unknown output format: %s", stateFormat)
		}

		s, _, _, err := newSession(cmd)
		if err != nil {
			return err
		}

		for n := 0; stateSteps < 0 || n < stateSteps; n += 1 {
			if s.Engine().Done() {
				break
			}
			// A step stopped by a breakpoint steps over it the next time.
			err = s.Dispatch(gcsim.StepOnce{})
			if err != nil {
				return err
			}
		}

		w := cmd.OutOrStdout()
		st := s.Snapshot()
		if stateFormat == "text" {
			render.Panels(w, st, programs(s), termWidth())
			return nil
		}
		b, err := render.YAML(st)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	},
}

func init() {
	stateCmd.Flags().StringVarP(&stateFormat, "output", "o", "yaml", "Output format (yaml, text)")
	stateCmd.Flags().IntVarP(&stateSteps, "steps", "n", -1, "Number of steps to take (-1 = run to the end)")

	rootCmd.AddCommand(stateCmd)
}
