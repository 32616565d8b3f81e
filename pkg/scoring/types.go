// Package scoring implements the autograding engine.
// It turns per-tool signal counts into weighted deltas and combines them into a
// bounded grade, one category at a time.
package scoring

import (
	"errors"
	"fmt"
)

// Category identifies one of the quality-signal domains that contribute to a grade.
type Category string

const (
	CategoryAnalysis Category = "analysis"
	CategoryTests    Category = "tests"
	CategoryCoverage Category = "coverage"
	CategoryPit      Category = "pit"
)

// Categories returns all categories in grading order.
func Categories() []Category {
	return []Category{CategoryAnalysis, CategoryTests, CategoryCoverage, CategoryPit}
}

// DisplayName is the human-readable name used in console lines and reports.
func (c Category) DisplayName() string {
	switch c {
	case CategoryAnalysis:
		return "static analysis results"
	case CategoryTests:
		return "test results"
	case CategoryCoverage:
		return "code coverage results"
	case CategoryPit:
		return "mutation coverage results"
	default:
		return string(c)
	}
}

// Title is the short heading for a category.
func (c Category) Title() string {
	switch c {
	case CategoryAnalysis:
		return "Static Analysis"
	case CategoryTests:
		return "Test Results"
	case CategoryCoverage:
		return "Code Coverage"
	case CategoryPit:
		return "PIT Mutation Coverage"
	default:
		return string(c)
	}
}

var (
	// ErrNegativeCount is returned when a score is built from a negative signal count.
	ErrNegativeCount = errors.New("signal counts must not be negative")
	// ErrCountTooLarge is returned when a signal count exceeds MaxCount.
	ErrCountTooLarge = errors.New("signal count too large")
	// ErrInvalidConfiguration is returned for a configuration that cannot be used for grading.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrCategoryGraded is returned when a category total is added twice for one build.
	ErrCategoryGraded = errors.New("category has already been graded")
	// ErrFinalized is returned when an aggregate is modified after Finalize.
	ErrFinalized = errors.New("aggregated score is finalized")
)

// NoResultsError reports a category that is configured for grading but has no results.
type NoResultsError struct {
	Category Category
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("Scoring of %s has been enabled, but no results have been found.", e.Category.DisplayName())
}

// Limits on signal counts and configured weights.
const (
	MaxCount         = 1_000_000_000
	MaxImpact        = 1_000
	MaxCategoryScore = 1_000_000
)

// signal is one named count of a score.
type signal struct {
	kind  string
	count int
}

func checkCounts(id string, signals ...signal) error {
	for _, s := range signals {
		if s.count < 0 {
			return fmt.Errorf("%w: %s has %s=%d", ErrNegativeCount, id, s.kind, s.count)
		}
		if s.count > MaxCount {
			return fmt.Errorf("%w: %s has %s=%d, limit is %d", ErrCountTooLarge, id, s.kind, s.count, MaxCount)
		}
	}
	return nil
}

func checkConfiguration(category Category, maxScore int, impacts ...int) error {
	if maxScore < 0 {
		return fmt.Errorf("%w: %s maxScore must not be negative, got %d", ErrInvalidConfiguration, category, maxScore)
	}
	if maxScore > MaxCategoryScore {
		return fmt.Errorf("%w: %s maxScore must not exceed %d, got %d", ErrInvalidConfiguration, category, MaxCategoryScore, maxScore)
	}
	for _, v := range impacts {
		if v < -MaxImpact || v > MaxImpact {
			return fmt.Errorf("%w: %s impacts must be within ±%d, got %d", ErrInvalidConfiguration, category, MaxImpact, v)
		}
	}
	return nil
}

// percentage returns part*100/total truncated, or 0 when total is 0.
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}

func nameOrID(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
