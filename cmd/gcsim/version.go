package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leftmike/gcsim/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gcsim %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
