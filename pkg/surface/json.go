package surface

import (
	"encoding/json"
	"io"
	"time"

	"github.com/autograde/autograde/pkg/scoring"
)

// JSONRenderer marshals an AggregatedScore to indented JSON. When ID is set the
// score is wrapped together with the run id and grading time.
type JSONRenderer struct {
	ID       string
	GradedAt time.Time
}

type jsonEnvelope struct {
	ID       string                   `json:"id"`
	GradedAt string                   `json:"graded_at"`
	Score    *scoring.AggregatedScore `json:"score"`
}

func (r *JSONRenderer) Render(w io.Writer, score *scoring.AggregatedScore) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if r.ID == "" {
		return enc.Encode(score)
	}
	return enc.Encode(jsonEnvelope{
		ID:       r.ID,
		GradedAt: r.GradedAt.UTC().Format(time.RFC3339),
		Score:    score,
	})
}
