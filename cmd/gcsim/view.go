package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leftmike/gcsim"
	"github.com/leftmike/gcsim/internal/render"
)

var viewOutput string

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Write an HTML page drawing the toolpaths of both channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, _, err := newSession(cmd)
		if err != nil {
			return err
		}

		var segs [gcsim.NumChannels][]gcsim.Segment
		for ch := gcsim.Channel(0); ch < gcsim.NumChannels; ch += 1 {
			segs[ch] = gcsim.CompileProgram(s.Engine().Program(ch))
		}

		title := "gcsim"
		if mainFile != "" {
			title = filepath.Base(mainFile)
		}

		w := cmd.OutOrStdout()
		if viewOutput != "" && viewOutput != "-" {
			f, err := os.Create(viewOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		err = render.HTML(w, title, segs, s.Snapshot().Tool)
		if err != nil {
			return fmt.Errorf("view: %w", err)
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewOutput, "output", "o", "-", "HTML file to write")

	rootCmd.AddCommand(viewCmd)
}
