package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/autograde/autograde/pkg/scoring"
)

// MarkdownRenderer produces a markdown summary suitable for CI job summaries.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, score *scoring.AggregatedScore) error {
	_, err := io.WriteString(w, buildMarkdownSummary(score))
	return err
}

// BuildSummary creates the SummaryData for a graded build.
func (r *MarkdownRenderer) BuildSummary(score *scoring.AggregatedScore) SummaryData {
	return SummaryData{
		Title:      headline(score),
		Summary:    buildMarkdownSummary(score),
		Conclusion: ScoreConclusion(score),
	}
}

func buildMarkdownSummary(score *scoring.AggregatedScore) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s %s\n\n", conclusionIcon(ScoreConclusion(score)), headline(score)))

	for _, c := range scoring.Categories() {
		sb.WriteString(fmt.Sprintf("### %s\n\n", categoryHeadline(score, c)))
		if score.IsSkipped(c) {
			sb.WriteString("_Not configured for grading._\n\n")
			continue
		}

		t := buildTable(score, c)
		writeMarkdownRow(&sb, t.header)
		sb.WriteString("|" + strings.Repeat("---|", len(t.header)) + "\n")
		for _, row := range t.rows {
			writeMarkdownRow(&sb, row)
		}
		footer := append([]string{"*" + t.footer[0] + "*"}, t.footer[1:]...)
		writeMarkdownRow(&sb, footer)
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}

func conclusionIcon(conclusion string) string {
	switch conclusion {
	case ConclusionSuccess:
		return ":white_check_mark:"
	case ConclusionNeutral:
		return ":warning:"
	default:
		return ":x:"
	}
}
