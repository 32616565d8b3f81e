package surface

import (
	"fmt"
	"strconv"

	"github.com/autograde/autograde/pkg/scoring"
)

// table is the per-category breakdown shared by the terminal and markdown renderers.
type table struct {
	header []string
	rows   [][]string
	footer []string
}

const notApplicable = "-"

func itoa(n int) string { return strconv.Itoa(n) }

func pct(n int) string { return fmt.Sprintf("%d%%", n) }

// buildTable returns the breakdown of a graded category. The footer lists the
// configured impacts in the columns they weight.
func buildTable(s *scoring.AggregatedScore, c scoring.Category) table {
	switch c {
	case scoring.CategoryAnalysis:
		cfg, _ := s.AnalysisConfiguration()
		t := table{header: []string{"Tool", "Errors", "High", "Normal", "Low", "Total", "Score Impact"}}
		for _, sc := range s.AnalysisScores() {
			t.rows = append(t.rows, []string{sc.Name, itoa(sc.Errors), itoa(sc.High), itoa(sc.Normal), itoa(sc.Low), itoa(sc.TotalSize()), itoa(sc.TotalChange())})
		}
		t.footer = []string{"Impact", itoa(cfg.ErrorImpact), itoa(cfg.HighImpact), itoa(cfg.NormalImpact), itoa(cfg.LowImpact), notApplicable, notApplicable}
		return t
	case scoring.CategoryTests:
		cfg, _ := s.TestConfiguration()
		t := table{header: []string{"Name", "Passed", "Failed", "Skipped", "Total", "Score Impact"}}
		for _, sc := range s.TestScores() {
			t.rows = append(t.rows, []string{sc.Name, itoa(sc.Passed), itoa(sc.Failed), itoa(sc.Skipped), itoa(sc.TotalSize()), itoa(sc.TotalChange())})
		}
		t.footer = []string{"Impact", itoa(cfg.PassedImpact), itoa(cfg.FailureImpact), itoa(cfg.SkippedImpact), notApplicable, notApplicable}
		return t
	case scoring.CategoryCoverage:
		cfg, _ := s.CoverageConfiguration()
		t := table{header: []string{"Type", "Covered", "Missed", "Covered Percentage", "Missed Percentage", "Score Impact"}}
		for _, sc := range s.CoverageScores() {
			t.rows = append(t.rows, []string{sc.Name, itoa(sc.Covered), itoa(sc.Missed), pct(sc.CoveredPercentage()), pct(sc.MissedPercentage()), itoa(sc.TotalChange())})
		}
		t.footer = []string{"Impact", itoa(cfg.CoveredImpact), itoa(cfg.MissedImpact), notApplicable, notApplicable, notApplicable}
		return t
	case scoring.CategoryPit:
		cfg, _ := s.PitConfiguration()
		t := table{header: []string{"Type", "Detected", "Undetected", "Detected Percentage", "Undetected Percentage", "Score Impact"}}
		for _, sc := range s.PitScores() {
			t.rows = append(t.rows, []string{sc.Name, itoa(sc.Detected), itoa(sc.Undetected), pct(sc.Ratio()), pct(sc.UndetectedPercentage()), itoa(sc.TotalChange())})
		}
		t.footer = []string{"Impact", itoa(cfg.DetectedImpact), itoa(cfg.UndetectedImpact), itoa(cfg.RatioImpact), notApplicable, notApplicable}
		return t
	default:
		return table{}
	}
}

func headline(s *scoring.AggregatedScore) string {
	return fmt.Sprintf("Autograding: %d of %d points (%d%%)", s.Achieved(), s.MaxScore(), s.Ratio())
}

func categoryHeadline(s *scoring.AggregatedScore, c scoring.Category) string {
	if s.IsSkipped(c) {
		return c.Title() + ": skipped"
	}
	return fmt.Sprintf("%s: %d of %d", c.Title(), s.CategoryAchieved(c), s.CategoryMaxScore(c))
}
