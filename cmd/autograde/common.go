package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/autograde/autograde/internal/source"
	"github.com/autograde/autograde/pkg/config"
	"github.com/autograde/autograde/pkg/scoring"
)

// commonOpts are the configuration flags shared by all commands that grade.
type commonOpts struct {
	configPath string
	configJSON string
	repoPath   string
	debug      bool
}

func addCommonFlags(cmd *cobra.Command, opts *commonOpts) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default: search .autograde/ upwards from repo path)")
	cmd.Flags().StringVar(&opts.configJSON, "config-json", "", "Scoring configuration document; replaces the grading section of the config file")
	cmd.Flags().StringVar(&opts.repoPath, "repo-path", "", "Directory to start the config file search from (default: working directory)")
}

func debugFlag(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}

// resolveConfigPath returns the explicit config path or the first
// .autograde/config file found above the repo path.
func resolveConfigPath(opts commonOpts) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	dir := opts.repoPath
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving repo path: %w", err)
	}
	return config.FindConfigFile(abs), nil
}

// loadSettings loads the tool configuration and applies flag and environment overrides.
func loadSettings(opts commonOpts) (*config.Config, string, error) {
	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}

	cfg := config.DefaultConfig()
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if opts.configJSON != "" {
		grading, err := scoring.ParseConfiguration([]byte(opts.configJSON))
		if err != nil {
			return nil, "", fmt.Errorf("--config-json: %w", err)
		}
		cfg.Grading = *grading
	}

	cfg.ApplyEnv()
	return cfg, path, nil
}

func s3Config(cfg *config.Config) source.S3Config {
	return source.S3Config{
		Region:    cfg.Source.S3.Region,
		Endpoint:  cfg.Source.S3.Endpoint,
		AccessKey: cfg.Source.S3.AccessKey,
		SecretKey: cfg.Source.S3.SecretKey,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
