// Package config handles loading the autograde tool configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/autograde/autograde/pkg/scoring"
)

// Output formats understood by the CLI.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config is the top-level configuration for autograde.
type Config struct {
	Grading scoring.Configuration `yaml:"grading" toml:"grading"`
	Source  SourceConfig          `yaml:"source" toml:"source"`
	Output  OutputConfig          `yaml:"output" toml:"output"`
	Log     LogConfig             `yaml:"log" toml:"log"`
}

// SourceConfig controls where result bundles are read from.
type SourceConfig struct {
	S3 S3Config `yaml:"s3" toml:"s3"`
}

// S3Config holds S3 connection settings. The bucket is taken from the bundle reference.
type S3Config struct {
	Region    string `yaml:"region" toml:"region"`
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format  string `yaml:"format" toml:"format"`
	NoColor bool   `yaml:"no_color" toml:"no_color"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Debug bool `yaml:"debug" toml:"debug"`
}

// DefaultConfig returns a Config with sensible defaults. No category is graded
// until the grading section configures it.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: FormatText},
	}
}

// Load reads a config file from the given path. Files ending in .toml are
// decoded as TOML, everything else as YAML.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(data, cfg)
	} else {
		err = decodeYAML(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks the grading section and the output format.
func (c *Config) Validate() error {
	if err := c.Grading.Validate(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "", FormatText, FormatJSON, FormatMarkdown:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or markdown)", c.Output.Format)
	}
}

// ApplyEnv fills S3 settings left empty by the file from the environment.
func (c *Config) ApplyEnv() {
	s3 := &c.Source.S3
	s3.Region = firstNonEmpty(s3.Region, os.Getenv("AUTOGRADE_S3_REGION"))
	s3.Endpoint = firstNonEmpty(s3.Endpoint, os.Getenv("AUTOGRADE_S3_ENDPOINT"))
	s3.AccessKey = firstNonEmpty(s3.AccessKey, os.Getenv("AWS_ACCESS_KEY_ID"))
	s3.SecretKey = firstNonEmpty(s3.SecretKey, os.Getenv("AWS_SECRET_ACCESS_KEY"))
	if os.Getenv("NO_COLOR") != "" {
		c.Output.NoColor = true
	}
}

// configNames are the file names looked up inside .autograde/, in order.
var configNames = []string{"config.yaml", "config.toml"}

// FindConfigFile looks for .autograde/config.yaml (then config.toml) in the
// given directory and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		for _, name := range configNames {
			candidate := filepath.Join(dir, ".autograde", name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
