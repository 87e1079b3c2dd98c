package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/leftmike/gcsim"
	"github.com/leftmike/gcsim/internal/render"
)

var duration time.Duration

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Animate the tool along both programs",
	Long: `Animate the tool along both programs at the configured speed until both reach
their last line, --duration passes, or the animation is interrupted. The program
cursors are not stepped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, events, cfg, err := newSession(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, duration)
			defer cancel()
		}
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		w := cmd.OutOrStdout()
		lines := s.Snapshot().Line
		events.Subscribe(func(ev gcsim.Event) {
			if ev.Type != gcsim.EventState || ev.Message != "frame" {
				return
			}
			st := s.Snapshot()
			if st.Line != lines {
				lines = st.Line
				fmt.Fprintln(w, render.Trace(0, st))
			}
			if !st.Playing {
				cancel()
			}
		})

		actions := make(chan gcsim.Action, 1)
		actions <- gcsim.Play{}
		err = s.Loop(ctx, actions, cfg.FrameRate)
		if err != nil && !errors.Is(err, context.Canceled) &&
			!errors.Is(err, context.DeadlineExceeded) {

			return err
		}

		render.Panels(w, s.Snapshot(), programs(s), termWidth())
		return nil
	},
}

func init() {
	playCmd.Flags().DurationVar(&duration, "duration", 0, "Stop playing after this long (0 = no limit)")

	rootCmd.AddCommand(playCmd)
}
