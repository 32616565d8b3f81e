package scoring

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Configuration is the user-supplied scoring document. A nil category is not graded.
type Configuration struct {
	Analysis *AnalysisConfiguration `json:"analysis,omitempty" yaml:"analysis,omitempty" toml:"analysis,omitempty"`
	Tests    *TestConfiguration     `json:"tests,omitempty" yaml:"tests,omitempty" toml:"tests,omitempty"`
	Coverage *CoverageConfiguration `json:"coverage,omitempty" yaml:"coverage,omitempty" toml:"coverage,omitempty"`
	Pit      *PitConfiguration      `json:"pit,omitempty" yaml:"pit,omitempty" toml:"pit,omitempty"`
}

// ParseConfiguration decodes a scoring document. JSON and YAML are accepted;
// unknown keys are rejected so that misspelled impacts do not silently count as 0.
func ParseConfiguration(data []byte) (*Configuration, error) {
	cfg := &Configuration{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scoring configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every configured category.
func (c *Configuration) Validate() error {
	if c.Analysis != nil {
		if err := c.Analysis.Validate(); err != nil {
			return err
		}
	}
	if c.Tests != nil {
		if err := c.Tests.Validate(); err != nil {
			return err
		}
	}
	if c.Coverage != nil {
		if err := c.Coverage.Validate(); err != nil {
			return err
		}
	}
	if c.Pit != nil {
		if err := c.Pit.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsConfigured reports whether the category should be graded.
func (c *Configuration) IsConfigured(category Category) bool {
	switch category {
	case CategoryAnalysis:
		return c.Analysis != nil
	case CategoryTests:
		return c.Tests != nil
	case CategoryCoverage:
		return c.Coverage != nil
	case CategoryPit:
		return c.Pit != nil
	default:
		return false
	}
}

// IsEmpty reports whether no category is configured.
func (c *Configuration) IsEmpty() bool {
	return len(c.Configured()) == 0
}

// Configured returns the configured categories in grading order.
func (c *Configuration) Configured() []Category {
	var out []Category
	for _, cat := range Categories() {
		if c.IsConfigured(cat) {
			out = append(out, cat)
		}
	}
	return out
}

// MaxScore is the sum of the maxima of all configured categories.
func (c *Configuration) MaxScore() int {
	total := 0
	if c.Analysis != nil {
		total += c.Analysis.MaxScore
	}
	if c.Tests != nil {
		total += c.Tests.MaxScore
	}
	if c.Coverage != nil {
		total += c.Coverage.MaxScore
	}
	if c.Pit != nil {
		total += c.Pit.MaxScore
	}
	return total
}
