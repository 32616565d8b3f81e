package surface

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/autograde/autograde/pkg/scoring"
)

// TerminalRenderer renders an AggregatedScore as tables for the terminal.
// Colour is disabled when NoColor is set or the NO_COLOR variable is present.
type TerminalRenderer struct {
	NoColor bool
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func (r *TerminalRenderer) noColor() bool {
	if r.NoColor {
		return true
	}
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func ratioColor(ratio int) string {
	switch Conclusion(ratio) {
	case ConclusionSuccess:
		return colorGreen
	case ConclusionNeutral:
		return colorYellow
	default:
		return colorRed
	}
}

func (r *TerminalRenderer) colored(s, color string) string {
	if r.noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, score *scoring.AggregatedScore) error {
	fmt.Fprintf(w, "%s\n\n", r.colored(headline(score), colorBold+ratioColor(score.Ratio())))

	for _, c := range scoring.Categories() {
		if score.IsSkipped(c) {
			fmt.Fprintf(w, "%s\n\n", r.colored(categoryHeadline(score, c), colorDim))
			continue
		}
		fmt.Fprintln(w, r.colored(categoryHeadline(score, c), colorBold))

		t := buildTable(score, c)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		writeRow(tw, t.header)
		for _, row := range t.rows {
			writeRow(tw, row)
		}
		writeRow(tw, t.footer)
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if skipped := score.Skipped(); len(skipped) == len(scoring.Categories()) {
		fmt.Fprintln(w, "No category is configured for grading.")
	}
	return nil
}

func writeRow(w io.Writer, cells []string) {
	fmt.Fprintf(w, "  %s\n", strings.Join(cells, "\t"))
}
