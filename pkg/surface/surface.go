// Package surface defines output rendering for autograding results.
// Implementations handle different output targets: terminal, markdown summary, JSON.
package surface

import (
	"io"

	"github.com/autograde/autograde/pkg/scoring"
)

// Renderer produces formatted output from an AggregatedScore.
type Renderer interface {
	// Render writes the formatted score to the writer.
	Render(w io.Writer, score *scoring.AggregatedScore) error
}

// Conclusions of a graded build, in the vocabulary of CI check runs.
const (
	ConclusionSuccess = "success"
	ConclusionNeutral = "neutral"
	ConclusionFailure = "failure"
)

// Conclusion maps the achieved percentage of a build to a check conclusion.
func Conclusion(ratio int) string {
	switch {
	case ratio >= 80:
		return ConclusionSuccess
	case ratio >= 50:
		return ConclusionNeutral
	default:
		return ConclusionFailure
	}
}

// ScoreConclusion is the conclusion of a graded build. A build without any
// graded category is neutral.
func ScoreConclusion(score *scoring.AggregatedScore) string {
	if score.MaxScore() == 0 {
		return ConclusionNeutral
	}
	return Conclusion(score.Ratio())
}

// SummaryData is a rendered summary that CI integrations can publish as-is.
type SummaryData struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`    // Markdown body
	Conclusion string `json:"conclusion"` // success, neutral, failure
}
