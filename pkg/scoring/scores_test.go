package scoring_test

import (
	"errors"
	"testing"

	"github.com/autograde/autograde/pkg/scoring"
)

func analysisConfig(t *testing.T) scoring.AnalysisConfiguration {
	t.Helper()
	cfg, err := scoring.NewAnalysisConfigurationBuilder().
		MaxScore(100).
		ErrorImpact(-10).
		HighImpact(-5).
		NormalImpact(-2).
		LowImpact(-1).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return cfg
}

func TestAnalysisScore_CheckStyle(t *testing.T) {
	s, err := scoring.NewAnalysisScore("checkstyle", "CheckStyle", analysisConfig(t), scoring.AnalysisCounts{Errors: 6})
	if err != nil {
		t.Fatalf("NewAnalysisScore() error: %v", err)
	}

	if s.ID != "checkstyle" || s.Name != "CheckStyle" {
		t.Errorf("got id=%q name=%q", s.ID, s.Name)
	}
	if s.Errors != 6 || s.High != 0 || s.Normal != 0 || s.Low != 0 {
		t.Errorf("unexpected counts %+v", s.AnalysisCounts)
	}
	if s.TotalSize() != 6 {
		t.Errorf("TotalSize() = %d, want 6", s.TotalSize())
	}
	if s.TotalChange() != -60 {
		t.Errorf("TotalChange() = %d, want -60", s.TotalChange())
	}
	if got := s.Summary(); got != "errors:6, high:0, normal:0, low:0" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestAnalysisScore_Tools(t *testing.T) {
	cfg := analysisConfig(t)
	tests := []struct {
		id     string
		counts scoring.AnalysisCounts
		size   int
		impact int
	}{
		{"pmd", scoring.AnalysisCounts{Normal: 4}, 4, -8},
		{"cpd", scoring.AnalysisCounts{Low: 7}, 7, -7},
		{"spotbugs", scoring.AnalysisCounts{}, 0, 0},
		{"mixed", scoring.AnalysisCounts{Errors: 1, High: 2, Normal: 3, Low: 4}, 10, -10 - 10 - 6 - 4},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := scoring.NewAnalysisScore(tt.id, "", cfg, tt.counts)
			if err != nil {
				t.Fatalf("NewAnalysisScore() error: %v", err)
			}
			if s.Name != tt.id {
				t.Errorf("Name = %q, want id fallback %q", s.Name, tt.id)
			}
			if s.TotalSize() != tt.size {
				t.Errorf("TotalSize() = %d, want %d", s.TotalSize(), tt.size)
			}
			if s.TotalChange() != tt.impact {
				t.Errorf("TotalChange() = %d, want %d", s.TotalChange(), tt.impact)
			}
		})
	}
}

func TestTestScore(t *testing.T) {
	cfg, err := scoring.NewTestConfigurationBuilder().
		MaxScore(100).
		PassedImpact(1).
		FailureImpact(-5).
		SkippedImpact(-1).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	s, err := scoring.NewTestScore("junit", "", cfg, scoring.TestCounts{Passed: 61})
	if err != nil {
		t.Fatalf("NewTestScore() error: %v", err)
	}
	if s.TotalSize() != 61 || s.Passed != 61 || s.Failed != 0 || s.Skipped != 0 {
		t.Errorf("unexpected counts %+v", s.TestCounts)
	}
	if s.TotalChange() != 61 {
		t.Errorf("TotalChange() = %d, want 61", s.TotalChange())
	}

	s, err = scoring.NewTestScore("junit", "", cfg, scoring.TestCounts{Passed: 3, Failed: 1, Skipped: 1})
	if err != nil {
		t.Fatalf("NewTestScore() error: %v", err)
	}
	if s.TotalChange() != 3-5-1 {
		t.Errorf("TotalChange() = %d, want -3", s.TotalChange())
	}
}

func TestCoverageScore(t *testing.T) {
	cfg, err := scoring.NewCoverageConfigurationBuilder().MaxScore(100).CoveredImpact(1).MissedImpact(-1).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	s, err := scoring.NewCoverageScore("line", "Line", cfg, scoring.CoverageCounts{Covered: 83, Missed: 17})
	if err != nil {
		t.Fatalf("NewCoverageScore() error: %v", err)
	}
	if s.TotalChange() != 66 {
		t.Errorf("TotalChange() = %d, want 66", s.TotalChange())
	}
	if s.CoveredPercentage() != 83 || s.MissedPercentage() != 17 {
		t.Errorf("percentages = %d/%d, want 83/17", s.CoveredPercentage(), s.MissedPercentage())
	}

	empty, err := scoring.NewCoverageScore("branch", "", cfg, scoring.CoverageCounts{})
	if err != nil {
		t.Fatalf("NewCoverageScore() error: %v", err)
	}
	if empty.CoveredPercentage() != 0 || empty.MissedPercentage() != 0 {
		t.Errorf("expected 0/0 percentages without items, got %d/%d", empty.CoveredPercentage(), empty.MissedPercentage())
	}
}

func TestPitScore_Ratio(t *testing.T) {
	cfg, err := scoring.NewPitConfigurationBuilder().MaxScore(100).DetectedImpact(1).UndetectedImpact(-1).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	s, err := scoring.NewPitScore("pit", "", cfg, scoring.PitCounts{Detected: 139, Undetected: 52})
	if err != nil {
		t.Fatalf("NewPitScore() error: %v", err)
	}
	if s.Mutations() != 191 {
		t.Errorf("Mutations() = %d, want 191", s.Mutations())
	}
	// floor(139*100/191) = floor(72.77)
	if s.Ratio() != 72 {
		t.Errorf("Ratio() = %d, want 72", s.Ratio())
	}
	if s.UndetectedPercentage() != 28 {
		t.Errorf("UndetectedPercentage() = %d, want 28", s.UndetectedPercentage())
	}
	if s.TotalChange() != 139-52 {
		t.Errorf("TotalChange() = %d, want 87", s.TotalChange())
	}
}

func TestPitScore_RatioImpact(t *testing.T) {
	cfg := scoring.PitConfiguration{MaxScore: 100, DetectedImpact: 1, UndetectedImpact: -10, RatioImpact: 2}

	s, err := scoring.NewPitScore("pit", "", cfg, scoring.PitCounts{Detected: 1, Undetected: 1})
	if err != nil {
		t.Fatalf("NewPitScore() error: %v", err)
	}
	// 1 - 10 + 50*2
	if s.TotalChange() != 91 {
		t.Errorf("TotalChange() = %d, want 91", s.TotalChange())
	}

	none, err := scoring.NewPitScore("pit", "", cfg, scoring.PitCounts{})
	if err != nil {
		t.Fatalf("NewPitScore() error: %v", err)
	}
	if none.Ratio() != 0 || none.UndetectedPercentage() != 0 || none.TotalChange() != 0 {
		t.Errorf("expected zero ratio and impact without mutations, got %+v", none)
	}
}

func TestNegativeCountsRejected(t *testing.T) {
	tests := []struct {
		name string
		new  func() error
	}{
		{"analysis", func() error {
			_, err := scoring.NewAnalysisScore("x", "", scoring.AnalysisConfiguration{}, scoring.AnalysisCounts{Low: -1})
			return err
		}},
		{"tests", func() error {
			_, err := scoring.NewTestScore("x", "", scoring.TestConfiguration{}, scoring.TestCounts{Failed: -2})
			return err
		}},
		{"coverage", func() error {
			_, err := scoring.NewCoverageScore("x", "", scoring.CoverageConfiguration{}, scoring.CoverageCounts{Missed: -3})
			return err
		}},
		{"pit", func() error {
			_, err := scoring.NewPitScore("x", "", scoring.PitConfiguration{}, scoring.PitCounts{Detected: -4})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.new()
			if !errors.Is(err, scoring.ErrNegativeCount) {
				t.Errorf("expected ErrNegativeCount, got %v", err)
			}
		})
	}
}

func TestCountsAboveLimitRejected(t *testing.T) {
	huge := scoring.MaxCount + 1

	if _, err := scoring.NewAnalysisScore("x", "", analysisConfig(t), scoring.AnalysisCounts{Errors: huge}); !errors.Is(err, scoring.ErrCountTooLarge) {
		t.Errorf("analysis: expected ErrCountTooLarge, got %v", err)
	}
	if _, err := scoring.NewPitScore("x", "", scoring.PitConfiguration{}, scoring.PitCounts{Undetected: huge}); !errors.Is(err, scoring.ErrCountTooLarge) {
		t.Errorf("pit: expected ErrCountTooLarge, got %v", err)
	}

	s, err := scoring.NewAnalysisScore("x", "", analysisConfig(t), scoring.AnalysisCounts{Errors: scoring.MaxCount})
	if err != nil {
		t.Fatalf("count at the limit: %v", err)
	}
	if s.TotalChange() >= 0 {
		t.Errorf("TotalChange() = %d, want a large negative delta", s.TotalChange())
	}
}
