package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "gradebook %s (%s, %s/%s)\n",
			cfg.App.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}
