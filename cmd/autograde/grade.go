package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autograde/autograde/internal/autograder"
	"github.com/autograde/autograde/internal/logging"
	"github.com/autograde/autograde/internal/source"
	"github.com/autograde/autograde/pkg/config"
	"github.com/autograde/autograde/pkg/surface"
)

func newGradeCmd() *cobra.Command {
	var opts gradeOpts

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a result bundle",
		Long: `Loads the scoring configuration and a result bundle, grades every configured
category and renders the aggregated score. The bundle may be a local path,
s3://bucket/key or gs://bucket/key, optionally zstd-compressed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.debug = debugFlag(cmd)
			return runGrade(cmd.Context(), opts, os.Stdout, os.Stderr)
		},
	}

	cmd.Flags().StringVar(&opts.results, "results", "", "Result bundle: path, s3://bucket/key or gs://bucket/key (required)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "", "Output format: text, json or markdown (default: config file, else text)")
	cmd.Flags().IntVar(&opts.initial, "initial-grade", 0, "Value the grade starts from")
	addCommonFlags(cmd, &opts.commonOpts)
	_ = cmd.MarkFlagRequired("results")

	return cmd
}

type gradeOpts struct {
	commonOpts
	results   string
	outputFmt string
	initial   int
}

func runGrade(ctx context.Context, opts gradeOpts, stdout, stderr io.Writer) error {
	cfg, cfgPath, err := loadSettings(opts.commonOpts)
	if err != nil {
		return err
	}

	log, err := logging.New(opts.debug || cfg.Log.Debug, logging.CLILevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Debugw("configuration loaded", "path", cfgPath, "categories", cfg.Grading.Configured())

	return gradeWith(ctx, opts, cfg, log, stdout, stderr)
}

// gradeWith fetches the bundle, grades it and renders the result to stdout.
// Console progress goes to stderr.
func gradeWith(ctx context.Context, opts gradeOpts, cfg *config.Config, log *zap.SugaredLogger, stdout, stderr io.Writer) error {
	ref, err := source.ParseRef(opts.results)
	if err != nil {
		return err
	}
	store, err := source.Open(ctx, ref, s3Config(cfg))
	if err != nil {
		return fmt.Errorf("opening bundle source: %w", err)
	}
	bundle, err := source.Fetch(ctx, store, ref)
	if err != nil {
		return err
	}
	log.Debugw("bundle loaded", "ref", ref.String())

	result, err := autograder.New(stderr, log).WithInitialGrade(opts.initial).Grade(&cfg.Grading, bundle)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(firstNonEmpty(opts.outputFmt, cfg.Output.Format, config.FormatText), cfg.Output.NoColor, result)
	if err != nil {
		return err
	}
	if err := renderer.Render(stdout, result.Score); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}

func newRenderer(format string, noColor bool, result *autograder.Result) (surface.Renderer, error) {
	switch format {
	case config.FormatText:
		return &surface.TerminalRenderer{NoColor: noColor}, nil
	case config.FormatJSON:
		return &surface.JSONRenderer{ID: result.ID, GradedAt: result.GradedAt}, nil
	case config.FormatMarkdown:
		return &surface.MarkdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or markdown)", format)
	}
}
