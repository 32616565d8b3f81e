package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autograde/autograde/pkg/scoring"
)

func newValidateCmd() *cobra.Command {
	var opts commonOpts

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the scoring configuration",
		Long:  `Parses and validates the scoring configuration and lists the graded categories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, os.Stdout)
		},
	}
	addCommonFlags(cmd, &opts)

	return cmd
}

func runValidate(opts commonOpts, w io.Writer) error {
	cfg, path, err := loadSettings(opts)
	if err != nil {
		return err
	}

	origin := firstNonEmpty(path, "(defaults)")
	if opts.configJSON != "" {
		origin = "--config-json"
	}
	fmt.Fprintf(w, "Configuration: %s\n", origin)

	grading := &cfg.Grading
	if grading.IsEmpty() {
		fmt.Fprintln(w, "No category is configured for grading.")
		return nil
	}

	var skipped []string
	for _, c := range scoring.Categories() {
		if !grading.IsConfigured(c) {
			skipped = append(skipped, c.DisplayName())
			continue
		}
		fmt.Fprintf(w, "  %-26s maxScore %d\n", c.DisplayName(), maxScoreOf(grading, c))
	}
	if len(skipped) > 0 {
		fmt.Fprintf(w, "Skipped: %s\n", strings.Join(skipped, ", "))
	}
	fmt.Fprintf(w, "Total max score: %d\n", grading.MaxScore())
	return nil
}

func maxScoreOf(c *scoring.Configuration, category scoring.Category) int {
	switch category {
	case scoring.CategoryAnalysis:
		return c.Analysis.MaxScore
	case scoring.CategoryTests:
		return c.Tests.MaxScore
	case scoring.CategoryCoverage:
		return c.Coverage.MaxScore
	case scoring.CategoryPit:
		return c.Pit.MaxScore
	default:
		return 0
	}
}
