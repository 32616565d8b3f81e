package autograder

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/autograde/autograde/internal/logging"
	"github.com/autograde/autograde/pkg/report"
	"github.com/autograde/autograde/pkg/scoring"
)

func newGrader(console *bytes.Buffer) *Grader {
	g := New(console, logging.Nop())
	g.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func analysisConfig() *scoring.AnalysisConfiguration {
	return &scoring.AnalysisConfiguration{MaxScore: 100, ErrorImpact: -10, HighImpact: -5, NormalImpact: -2, LowImpact: -1}
}

func analysisRun(id, name string, counts scoring.AnalysisCounts) report.AnalysisRun {
	return report.AnalysisRun{ID: id, Name: name, AnalysisCounts: counts}
}

func TestGradeSingleAnalysisTool(t *testing.T) {
	var console bytes.Buffer
	cfg := &scoring.Configuration{Analysis: analysisConfig()}
	b := &report.Bundle{Analysis: []report.AnalysisRun{
		analysisRun("checkstyle", "CheckStyle", scoring.AnalysisCounts{Errors: 6}),
	}}

	res, err := newGrader(&console).Grade(cfg, b)
	if err != nil {
		t.Fatalf("Grade() error: %v", err)
	}
	if res.Score.Grade() != 40 {
		t.Errorf("Grade() = %d, want 40", res.Score.Grade())
	}

	want := strings.Join([]string{
		"[Autograding] Grading static analysis results",
		"[Autograding] -> CheckStyle score: -60 (errors:6, high:0, normal:0, low:0)",
		"[Autograding] Total score for static analysis results: 40",
		"[Autograding] Skipping test results",
		"[Autograding] Skipping code coverage results",
		"[Autograding] Skipping mutation coverage results",
		"",
	}, "\n")
	if console.String() != want {
		t.Errorf("console output mismatch\ngot:\n%s\nwant:\n%s", console.String(), want)
	}
}

func TestGradeSeveralAnalysisTools(t *testing.T) {
	var console bytes.Buffer
	cfg := &scoring.Configuration{Analysis: analysisConfig()}
	b := &report.Bundle{Analysis: []report.AnalysisRun{
		analysisRun("checkstyle", "CheckStyle", scoring.AnalysisCounts{Errors: 6}),
		analysisRun("pmd", "PMD", scoring.AnalysisCounts{Normal: 4}),
		analysisRun("cpd", "CPD", scoring.AnalysisCounts{Low: 7}),
		analysisRun("spotbugs", "SpotBugs", scoring.AnalysisCounts{}),
	}}

	res, err := newGrader(&console).Grade(cfg, b)
	if err != nil {
		t.Fatalf("Grade() error: %v", err)
	}
	if got := res.Score.CategoryDelta(scoring.CategoryAnalysis); got != -75 {
		t.Errorf("CategoryDelta() = %d, want -75", got)
	}
	if res.Score.Grade() != 25 {
		t.Errorf("Grade() = %d, want 25", res.Score.Grade())
	}
	for _, line := range []string{
		"-> PMD score: -8 (errors:0, high:0, normal:4, low:0)",
		"-> CPD score: -7 (errors:0, high:0, normal:0, low:7)",
		"-> SpotBugs score: 0 (errors:0, high:0, normal:0, low:0)",
		"Total score for static analysis results: 25",
	} {
		if !strings.Contains(console.String(), line) {
			t.Errorf("console missing %q", line)
		}
	}
}

func TestGradeTests(t *testing.T) {
	var console bytes.Buffer
	cfg := &scoring.Configuration{Tests: &scoring.TestConfiguration{MaxScore: 100, PassedImpact: 1, FailureImpact: -5, SkippedImpact: -1}}
	b := &report.Bundle{Tests: []report.TestRun{{ID: "junit", TestCounts: scoring.TestCounts{Passed: 61}}}}

	res, err := newGrader(&console).Grade(cfg, b)
	if err != nil {
		t.Fatalf("Grade() error: %v", err)
	}
	if res.Score.Grade() != 61 {
		t.Errorf("Grade() = %d, want 61", res.Score.Grade())
	}
	if !strings.Contains(console.String(), "[Autograding] -> junit score: 61 (passed:61, failed:0, skipped:0)\n") {
		t.Errorf("unexpected console output:\n%s", console.String())
	}
	if !strings.Contains(console.String(), "[Autograding] Skipping static analysis results\n") {
		t.Errorf("expected analysis to be skipped:\n%s", console.String())
	}
}

func TestGradeEmptyConfiguration(t *testing.T) {
	var console bytes.Buffer
	b := &report.Bundle{Tests: []report.TestRun{{ID: "junit", TestCounts: scoring.TestCounts{Passed: 5}}}}

	res, err := newGrader(&console).WithInitialGrade(7).Grade(&scoring.Configuration{}, b)
	if err != nil {
		t.Fatalf("Grade() error: %v", err)
	}
	if res.Score.Grade() != 7 {
		t.Errorf("Grade() = %d, want initial value 7", res.Score.Grade())
	}
	if len(res.Score.Skipped()) != 4 {
		t.Errorf("Skipped() = %v, want all categories", res.Score.Skipped())
	}

	want := strings.Join([]string{
		"[Autograding] Skipping static analysis results",
		"[Autograding] Skipping test results",
		"[Autograding] Skipping code coverage results",
		"[Autograding] Skipping mutation coverage results",
		"",
	}, "\n")
	if console.String() != want {
		t.Errorf("console output mismatch\ngot:\n%s\nwant:\n%s", console.String(), want)
	}
}

func TestGradeNilInputs(t *testing.T) {
	res, err := New(nil, nil).Grade(nil, nil)
	if err != nil {
		t.Fatalf("Grade() error: %v", err)
	}
	if res.Score.Grade() != 0 || !res.Score.IsFinal() {
		t.Errorf("unexpected result %+v", res.Score)
	}
}

func TestGradeConfiguredButAbsent(t *testing.T) {
	var console bytes.Buffer
	cfg := &scoring.Configuration{
		Analysis: analysisConfig(),
		Tests:    &scoring.TestConfiguration{MaxScore: 100},
	}
	b := &report.Bundle{Analysis: []report.AnalysisRun{
		analysisRun("checkstyle", "CheckStyle", scoring.AnalysisCounts{}),
	}}

	res, err := newGrader(&console).Grade(cfg, b)
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	var noResults *scoring.NoResultsError
	if !errors.As(err, &noResults) {
		t.Fatalf("expected NoResultsError, got %v", err)
	}
	if noResults.Category != scoring.CategoryTests {
		t.Errorf("Category = %s, want tests", noResults.Category)
	}
	if !strings.HasSuffix(console.String(),
		"[Autograding] Grading test results\n"+
			"[Autograding] [-ERROR-] -> Scoring of test results has been enabled, but no results have been found.\n") {
		t.Errorf("unexpected console output:\n%s", console.String())
	}
	if strings.Contains(console.String(), "code coverage") {
		t.Error("grading should stop at the failing category")
	}
}

func TestGradeAllCategories(t *testing.T) {
	var console bytes.Buffer
	cfg := scoring.DefaultConfiguration()
	b := &report.Bundle{
		Analysis: []report.AnalysisRun{analysisRun("checkstyle", "CheckStyle", scoring.AnalysisCounts{Errors: 1})},
		Tests:    []report.TestRun{{ID: "junit", TestCounts: scoring.TestCounts{Passed: 61}}},
		Coverage: []report.CoverageRun{{ID: "line", Name: "Line", CoverageCounts: scoring.CoverageCounts{Covered: 83, Missed: 17}}},
		Pit:      []report.PitRun{{ID: "pit", PitCounts: scoring.PitCounts{Detected: 139, Undetected: 52}}},
	}

	res, err := newGrader(&console).Grade(cfg, b)
	if err != nil {
		t.Fatalf("Grade() error: %v", err)
	}
	// 90 + 61 + 66 + 87
	if res.Score.Grade() != 304 {
		t.Errorf("Grade() = %d, want 304", res.Score.Grade())
	}
	if res.Score.MaxScore() != 400 {
		t.Errorf("MaxScore() = %d, want 400", res.Score.MaxScore())
	}
	if !res.Score.IsFinal() {
		t.Error("expected finalized aggregate")
	}
	if len(res.Score.Skipped()) != 0 {
		t.Errorf("Skipped() = %v, want none", res.Score.Skipped())
	}
	if !strings.Contains(console.String(), "-> pit score: 87 (detected:139, undetected:52, ratio:72)") {
		t.Errorf("unexpected console output:\n%s", console.String())
	}
}

func TestGradeNegativeCount(t *testing.T) {
	cfg := &scoring.Configuration{Coverage: &scoring.CoverageConfiguration{MaxScore: 100}}
	b := &report.Bundle{Coverage: []report.CoverageRun{{ID: "line", CoverageCounts: scoring.CoverageCounts{Covered: -1}}}}

	_, err := New(nil, nil).Grade(cfg, b)
	if !errors.Is(err, scoring.ErrNegativeCount) {
		t.Errorf("expected ErrNegativeCount, got %v", err)
	}
}

func TestResultJSON(t *testing.T) {
	var console bytes.Buffer
	cfg := &scoring.Configuration{Analysis: analysisConfig()}
	b := &report.Bundle{Analysis: []report.AnalysisRun{analysisRun("pmd", "", scoring.AnalysisCounts{})}}

	res, err := newGrader(&console).Grade(cfg, b)
	if err != nil {
		t.Fatalf("Grade() error: %v", err)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var decoded struct {
		ID       string `json:"id"`
		GradedAt string `json:"graded_at"`
		Score    struct {
			Grade int `json:"grade"`
		} `json:"score"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if len(decoded.ID) != 36 {
		t.Errorf("ID = %q, want uuid", decoded.ID)
	}
	if decoded.GradedAt != "2024-03-01T12:00:00Z" {
		t.Errorf("GradedAt = %q", decoded.GradedAt)
	}
	if decoded.Score.Grade != 100 {
		t.Errorf("Grade = %d, want 100", decoded.Score.Grade)
	}
}
