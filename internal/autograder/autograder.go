// Package autograder drives the scoring engine for one build: it decides per
// category whether to grade or skip, feeds the bundle's runs into the aggregate
// and reports progress on the build console.
package autograder

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autograde/autograde/pkg/report"
	"github.com/autograde/autograde/pkg/scoring"
)

const consolePrefix = "[Autograding] "

// Result is the outcome of one grading run.
type Result struct {
	ID       string                   `json:"id"`
	GradedAt time.Time                `json:"graded_at"`
	Score    *scoring.AggregatedScore `json:"score"`
}

// Grader grades result bundles against a scoring configuration.
type Grader struct {
	console io.Writer
	log     *zap.SugaredLogger
	initial int
	now     func() time.Time
}

// New creates a Grader that prints progress to console.
func New(console io.Writer, log *zap.SugaredLogger) *Grader {
	if console == nil {
		console = io.Discard
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Grader{console: console, log: log, now: time.Now}
}

// WithInitialGrade sets the value the grade starts from.
func (g *Grader) WithInitialGrade(n int) *Grader {
	g.initial = n
	return g
}

// Grade grades every configured category of the bundle in order. Categories
// without configuration are skipped. A configured category without runs aborts
// grading with a *scoring.NoResultsError and no result is produced.
func (g *Grader) Grade(cfg *scoring.Configuration, b *report.Bundle) (*Result, error) {
	if cfg == nil {
		cfg = &scoring.Configuration{}
	}
	if b == nil {
		b = &report.Bundle{}
	}

	id := uuid.NewString()
	log := g.log.With("run_id", id)
	log.Debugw("grading started", "configured", cfg.Configured(), "max_score", cfg.MaxScore())

	score := scoring.NewAggregatedScore(g.initial)
	for _, c := range scoring.Categories() {
		if !cfg.IsConfigured(c) {
			g.printf("Skipping %s", c.DisplayName())
			log.Debugw("category skipped", "category", c)
			continue
		}

		g.printf("Grading %s", c.DisplayName())
		if b.Runs(c) == 0 {
			err := &scoring.NoResultsError{Category: c}
			g.printf("[-ERROR-] -> %s", err)
			log.Errorw("no results for configured category", "category", c)
			return nil, err
		}

		achieved, err := g.grade(score, cfg, b, c)
		if err != nil {
			log.Errorw("grading failed", "category", c, "error", err)
			return nil, fmt.Errorf("grade %s: %w", c.DisplayName(), err)
		}
		g.printf("Total score for %s: %d", c.DisplayName(), achieved)
		log.Debugw("category graded", "category", c,
			"achieved", achieved, "max_score", score.CategoryMaxScore(c), "delta", score.CategoryDelta(c))
	}
	score.Finalize()

	log.Infow("grading finished", "grade", score.Grade(), "max_score", score.MaxScore(), "skipped", score.Skipped())
	return &Result{ID: id, GradedAt: g.now().UTC(), Score: score}, nil
}

func (g *Grader) grade(score *scoring.AggregatedScore, cfg *scoring.Configuration, b *report.Bundle, c scoring.Category) (int, error) {
	switch c {
	case scoring.CategoryAnalysis:
		scores, err := b.AnalysisScores(*cfg.Analysis)
		if err != nil {
			return 0, err
		}
		for _, s := range scores {
			g.scoreLine(s.Name, s.TotalChange(), s.Summary())
		}
		return score.AddAnalysisTotal(*cfg.Analysis, scores)
	case scoring.CategoryTests:
		scores, err := b.TestScores(*cfg.Tests)
		if err != nil {
			return 0, err
		}
		for _, s := range scores {
			g.scoreLine(s.Name, s.TotalChange(), s.Summary())
		}
		return score.AddTestsTotal(*cfg.Tests, scores)
	case scoring.CategoryCoverage:
		scores, err := b.CoverageScores(*cfg.Coverage)
		if err != nil {
			return 0, err
		}
		for _, s := range scores {
			g.scoreLine(s.Name, s.TotalChange(), s.Summary())
		}
		return score.AddCoverageTotal(*cfg.Coverage, scores)
	case scoring.CategoryPit:
		scores, err := b.PitScores(*cfg.Pit)
		if err != nil {
			return 0, err
		}
		for _, s := range scores {
			g.scoreLine(s.Name, s.TotalChange(), s.Summary())
		}
		return score.AddPitTotal(*cfg.Pit, scores)
	default:
		return 0, fmt.Errorf("unknown category %q", c)
	}
}

func (g *Grader) scoreLine(name string, total int, summary string) {
	g.printf("-> %s score: %d (%s)", name, total, summary)
}

func (g *Grader) printf(format string, args ...any) {
	fmt.Fprintf(g.console, consolePrefix+format+"\n", args...)
}
