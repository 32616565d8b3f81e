package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/autograde/autograde/pkg/config"
	"github.com/autograde/autograde/pkg/scoring"
)

func newDefaultsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print a starter configuration",
		Long: `Prints a configuration that grades all four categories with 100 points each.
yaml and toml print a complete .autograde/config file; json prints the bare
scoring document accepted by --config-json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefaults(format, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml, toml or json")

	return cmd
}

func runDefaults(format string, w io.Writer) error {
	cfg := config.DefaultConfig()
	cfg.Grading = *scoring.DefaultConfiguration()

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg.Grading); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want yaml, toml or json)", format)
	}
}
