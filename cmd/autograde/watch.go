package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/autograde/autograde/internal/logging"
	"github.com/autograde/autograde/internal/source"
)

func newWatchCmd() *cobra.Command {
	var opts gradeOpts

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-grade a local result bundle whenever it changes",
		Long: `Grades the bundle once, then again on every write to the bundle or the
config file, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.debug = debugFlag(cmd)
			return runWatch(cmd.Context(), opts, os.Stdout, os.Stderr)
		},
	}

	cmd.Flags().StringVar(&opts.results, "results", "", "Local result bundle path (required)")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "", "Output format: text, json or markdown (default: config file, else text)")
	cmd.Flags().IntVar(&opts.initial, "initial-grade", 0, "Value the grade starts from")
	addCommonFlags(cmd, &opts.commonOpts)
	_ = cmd.MarkFlagRequired("results")

	return cmd
}

func runWatch(ctx context.Context, opts gradeOpts, stdout, stderr io.Writer) error {
	ref, err := source.ParseRef(opts.results)
	if err != nil {
		return err
	}
	if !ref.IsLocal() {
		return fmt.Errorf("watch needs a local bundle, got %s", ref)
	}

	cfg, cfgPath, err := loadSettings(opts.commonOpts)
	if err != nil {
		return err
	}
	log, err := logging.New(opts.debug || cfg.Log.Debug, logging.CLILevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	targets, err := watchTargets(ref.Key, cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files, so the parent directories are watched.
	for _, dir := range watchDirs(targets) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		log.Debugw("watching", "dir", dir)
	}

	regrade := func() {
		cfg, _, err := loadSettings(opts.commonOpts)
		if err == nil {
			err = gradeWith(ctx, opts, cfg, log, stdout, stderr)
		}
		if err != nil {
			log.Warnw("grading failed", "error", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
	}
	regrade()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevant(ev, targets) {
				continue
			}
			log.Debugw("change detected", "file", ev.Name, "op", ev.Op.String())
			regrade()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watch error", "error", err)
		}
	}
}

// watchTargets returns the absolute paths whose changes trigger a re-grade.
func watchTargets(paths ...string) (map[string]bool, error) {
	targets := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		targets[abs] = true
	}
	return targets, nil
}

func watchDirs(targets map[string]bool) []string {
	seen := make(map[string]bool)
	var dirs []string
	for p := range targets {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func isRelevant(ev fsnotify.Event, targets map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return targets[abs]
}
