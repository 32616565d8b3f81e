// Package report decodes the result bundle handed over by the build orchestrator:
// already-parsed signal counts per tool run, grouped by category.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/autograde/autograde/pkg/scoring"
)

// zstdMagic is the frame header of a zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// AnalysisRun is one static analysis tool run.
type AnalysisRun struct {
	ID                     string `json:"id" yaml:"id"`
	Name                   string `json:"name,omitempty" yaml:"name,omitempty"`
	scoring.AnalysisCounts `yaml:",inline"`
}

// TestRun is one test report.
type TestRun struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name,omitempty" yaml:"name,omitempty"`
	scoring.TestCounts `yaml:",inline"`
}

// CoverageRun is one coverage metric, e.g. line or branch coverage.
type CoverageRun struct {
	ID                     string `json:"id" yaml:"id"`
	Name                   string `json:"name,omitempty" yaml:"name,omitempty"`
	scoring.CoverageCounts `yaml:",inline"`
}

// PitRun is one mutation testing report.
type PitRun struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
	scoring.PitCounts `yaml:",inline"`
}

// Bundle holds all tool runs recorded for one build.
type Bundle struct {
	Analysis []AnalysisRun `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Tests    []TestRun     `json:"tests,omitempty" yaml:"tests,omitempty"`
	Coverage []CoverageRun `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	Pit      []PitRun      `json:"pit,omitempty" yaml:"pit,omitempty"`
}

// MaxDecodedSize is the largest bundle Decode accepts after decompression.
const MaxDecodedSize = 32 << 20

// ErrTooLarge is returned for bundles above the decode limit.
var ErrTooLarge = errors.New("bundle exceeds size limit")

// Decode parses a bundle of at most MaxDecodedSize bytes.
func Decode(data []byte) (*Bundle, error) {
	return DecodeLimit(data, MaxDecodedSize)
}

// DecodeLimit parses a bundle from JSON or YAML. zstd-compressed input is
// detected by its frame header and decompressed first. The bundle must not
// exceed limit bytes once decompressed.
func DecodeLimit(data []byte, limit int64) (*Bundle, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		var err error
		data, err = decompress(data, limit)
		if err != nil {
			return nil, err
		}
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	b := &Bundle{}
	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)
	if err := d.Decode(b); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func decompress(data []byte, limit int64) ([]byte, error) {
	zr, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(uint64(limit)+1))
	if err != nil {
		return nil, decompressError(err, limit)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, decompressError(err, limit)
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes decompressed", ErrTooLarge, limit)
	}
	return out, nil
}

func decompressError(err error, limit int64) error {
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return fmt.Errorf("%w: more than %d bytes decompressed", ErrTooLarge, limit)
	}
	return fmt.Errorf("decompress bundle: %w", err)
}

// Load reads a bundle from disk.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	return Decode(data)
}

// Validate checks that every run has an ID that is unique within its category.
func (b *Bundle) Validate() error {
	ids := map[scoring.Category][]string{}
	for _, r := range b.Analysis {
		ids[scoring.CategoryAnalysis] = append(ids[scoring.CategoryAnalysis], r.ID)
	}
	for _, r := range b.Tests {
		ids[scoring.CategoryTests] = append(ids[scoring.CategoryTests], r.ID)
	}
	for _, r := range b.Coverage {
		ids[scoring.CategoryCoverage] = append(ids[scoring.CategoryCoverage], r.ID)
	}
	for _, r := range b.Pit {
		ids[scoring.CategoryPit] = append(ids[scoring.CategoryPit], r.ID)
	}

	for _, c := range scoring.Categories() {
		seen := make(map[string]bool)
		for i, id := range ids[c] {
			if id == "" {
				return fmt.Errorf("%s run #%d has no id", c, i+1)
			}
			if seen[id] {
				return fmt.Errorf("duplicate %s run id %q", c, id)
			}
			seen[id] = true
		}
	}
	return nil
}

// Runs returns the number of runs recorded for a category.
func (b *Bundle) Runs(c scoring.Category) int {
	switch c {
	case scoring.CategoryAnalysis:
		return len(b.Analysis)
	case scoring.CategoryTests:
		return len(b.Tests)
	case scoring.CategoryCoverage:
		return len(b.Coverage)
	case scoring.CategoryPit:
		return len(b.Pit)
	default:
		return 0
	}
}

// AnalysisScores weights all analysis runs with cfg, in bundle order.
func (b *Bundle) AnalysisScores(cfg scoring.AnalysisConfiguration) ([]scoring.AnalysisScore, error) {
	scores := make([]scoring.AnalysisScore, 0, len(b.Analysis))
	for _, r := range b.Analysis {
		s, err := scoring.NewAnalysisScore(r.ID, r.Name, cfg, r.AnalysisCounts)
		if err != nil {
			return nil, fmt.Errorf("scoring analysis run %s: %w", r.ID, err)
		}
		scores = append(scores, s)
	}
	return scores, nil
}

// TestScores weights all test runs with cfg, in bundle order.
func (b *Bundle) TestScores(cfg scoring.TestConfiguration) ([]scoring.TestScore, error) {
	scores := make([]scoring.TestScore, 0, len(b.Tests))
	for _, r := range b.Tests {
		s, err := scoring.NewTestScore(r.ID, r.Name, cfg, r.TestCounts)
		if err != nil {
			return nil, fmt.Errorf("scoring test run %s: %w", r.ID, err)
		}
		scores = append(scores, s)
	}
	return scores, nil
}

// CoverageScores weights all coverage runs with cfg, in bundle order.
func (b *Bundle) CoverageScores(cfg scoring.CoverageConfiguration) ([]scoring.CoverageScore, error) {
	scores := make([]scoring.CoverageScore, 0, len(b.Coverage))
	for _, r := range b.Coverage {
		s, err := scoring.NewCoverageScore(r.ID, r.Name, cfg, r.CoverageCounts)
		if err != nil {
			return nil, fmt.Errorf("scoring coverage run %s: %w", r.ID, err)
		}
		scores = append(scores, s)
	}
	return scores, nil
}

// PitScores weights all mutation testing runs with cfg, in bundle order.
func (b *Bundle) PitScores(cfg scoring.PitConfiguration) ([]scoring.PitScore, error) {
	scores := make([]scoring.PitScore, 0, len(b.Pit))
	for _, r := range b.Pit {
		s, err := scoring.NewPitScore(r.ID, r.Name, cfg, r.PitCounts)
		if err != nil {
			return nil, fmt.Errorf("scoring pit run %s: %w", r.ID, err)
		}
		scores = append(scores, s)
	}
	return scores, nil
}
