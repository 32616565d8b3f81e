// Package main provides the autograde CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autograde",
		Short: "Grade builds from static analysis, test, coverage and mutation results",
		Long: `Autograde combines the results of static analysis tools, test runs, code
coverage and mutation testing into a single bounded grade.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("debug", false, "Enable development logging")

	rootCmd.AddCommand(
		newGradeCmd(),
		newValidateCmd(),
		newDefaultsCmd(),
		newWatchCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
