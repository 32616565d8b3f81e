package scoring

import (
	"encoding/json"
	"fmt"
)

// Contribution bounds the summed delta of one category to [0, maxScore].
// Losses shrink the category's maximum down to 0, gains are capped at the maximum.
func Contribution(maxScore, delta int) int {
	if delta <= 0 {
		return max(0, maxScore+delta)
	}
	return min(maxScore, delta)
}

type categoryState struct {
	maxScore int
	delta    int
	achieved int
}

// AggregatedScore accumulates the grade of one build, one category at a time.
// It is not safe for concurrent use; each build owns its own instance.
type AggregatedScore struct {
	initial int
	grade   int
	final   bool
	graded  map[Category]*categoryState

	analysisConfiguration AnalysisConfiguration
	analysisScores        []AnalysisScore
	testConfiguration     TestConfiguration
	testScores            []TestScore
	coverageConfiguration CoverageConfiguration
	coverageScores        []CoverageScore
	pitConfiguration      PitConfiguration
	pitScores             []PitScore
}

// NewAggregatedScore creates an empty aggregate whose grade starts at initial.
func NewAggregatedScore(initial int) *AggregatedScore {
	return &AggregatedScore{
		initial: initial,
		grade:   initial,
		graded:  make(map[Category]*categoryState),
	}
}

// AddAnalysisTotal grades the static analysis category. The deltas of all tool
// runs are summed before the category is clamped.
func (s *AggregatedScore) AddAnalysisTotal(cfg AnalysisConfiguration, scores []AnalysisScore) (int, error) {
	deltas := make([]int, 0, len(scores))
	for _, sc := range scores {
		deltas = append(deltas, sc.TotalChange())
	}
	achieved, err := s.addTotal(CategoryAnalysis, cfg.Validate(), cfg.MaxScore, deltas)
	if err != nil {
		return 0, err
	}
	s.analysisConfiguration = cfg
	s.analysisScores = append([]AnalysisScore(nil), scores...)
	return achieved, nil
}

// AddTestsTotal grades the test category.
func (s *AggregatedScore) AddTestsTotal(cfg TestConfiguration, scores []TestScore) (int, error) {
	deltas := make([]int, 0, len(scores))
	for _, sc := range scores {
		deltas = append(deltas, sc.TotalChange())
	}
	achieved, err := s.addTotal(CategoryTests, cfg.Validate(), cfg.MaxScore, deltas)
	if err != nil {
		return 0, err
	}
	s.testConfiguration = cfg
	s.testScores = append([]TestScore(nil), scores...)
	return achieved, nil
}

// AddCoverageTotal grades the code coverage category.
func (s *AggregatedScore) AddCoverageTotal(cfg CoverageConfiguration, scores []CoverageScore) (int, error) {
	deltas := make([]int, 0, len(scores))
	for _, sc := range scores {
		deltas = append(deltas, sc.TotalChange())
	}
	achieved, err := s.addTotal(CategoryCoverage, cfg.Validate(), cfg.MaxScore, deltas)
	if err != nil {
		return 0, err
	}
	s.coverageConfiguration = cfg
	s.coverageScores = append([]CoverageScore(nil), scores...)
	return achieved, nil
}

// AddPitTotal grades the mutation testing category.
func (s *AggregatedScore) AddPitTotal(cfg PitConfiguration, scores []PitScore) (int, error) {
	deltas := make([]int, 0, len(scores))
	for _, sc := range scores {
		deltas = append(deltas, sc.TotalChange())
	}
	achieved, err := s.addTotal(CategoryPit, cfg.Validate(), cfg.MaxScore, deltas)
	if err != nil {
		return 0, err
	}
	s.pitConfiguration = cfg
	s.pitScores = append([]PitScore(nil), scores...)
	return achieved, nil
}

func (s *AggregatedScore) addTotal(category Category, invalid error, maxScore int, deltas []int) (int, error) {
	if s.final {
		return 0, fmt.Errorf("grading %s: %w", category.DisplayName(), ErrFinalized)
	}
	if _, ok := s.graded[category]; ok {
		return 0, fmt.Errorf("grading %s: %w", category.DisplayName(), ErrCategoryGraded)
	}
	if invalid != nil {
		return 0, invalid
	}
	if len(deltas) == 0 {
		return 0, &NoResultsError{Category: category}
	}

	delta := 0
	for _, d := range deltas {
		delta += d
	}
	achieved := Contribution(maxScore, delta)

	s.graded[category] = &categoryState{
		maxScore: maxScore,
		delta:    delta,
		achieved: achieved,
	}
	s.grade += achieved
	return achieved, nil
}

// Finalize freezes the aggregate; later add-total calls fail with ErrFinalized.
func (s *AggregatedScore) Finalize() { s.final = true }

// IsFinal reports whether Finalize has been called.
func (s *AggregatedScore) IsFinal() bool { return s.final }

// Grade is the initial value plus the contributions of all graded categories.
func (s *AggregatedScore) Grade() int { return s.grade }

// Achieved is the sum of all category contributions.
func (s *AggregatedScore) Achieved() int { return s.grade - s.initial }

// MaxScore is the sum of the maxima of all graded categories.
func (s *AggregatedScore) MaxScore() int {
	total := 0
	for _, st := range s.graded {
		total += st.maxScore
	}
	return total
}

// Ratio is Achieved as a truncated percentage of MaxScore.
func (s *AggregatedScore) Ratio() int {
	return percentage(s.Achieved(), s.MaxScore())
}

// IsSkipped reports whether no total has been added for the category.
func (s *AggregatedScore) IsSkipped(c Category) bool {
	_, ok := s.graded[c]
	return !ok
}

// Skipped returns the categories without a total, in grading order.
func (s *AggregatedScore) Skipped() []Category {
	var skipped []Category
	for _, c := range Categories() {
		if s.IsSkipped(c) {
			skipped = append(skipped, c)
		}
	}
	return skipped
}

// CategoryAchieved returns the bounded contribution of a category, 0 when skipped.
func (s *AggregatedScore) CategoryAchieved(c Category) int {
	if st, ok := s.graded[c]; ok {
		return st.achieved
	}
	return 0
}

// CategoryDelta returns the summed, unclamped delta of a category.
func (s *AggregatedScore) CategoryDelta(c Category) int {
	if st, ok := s.graded[c]; ok {
		return st.delta
	}
	return 0
}

// CategoryMaxScore returns the configured maximum of a graded category.
func (s *AggregatedScore) CategoryMaxScore(c Category) int {
	if st, ok := s.graded[c]; ok {
		return st.maxScore
	}
	return 0
}

// CategoryRatio returns the contribution of a category as a percentage of its maximum.
func (s *AggregatedScore) CategoryRatio(c Category) int {
	return percentage(s.CategoryAchieved(c), s.CategoryMaxScore(c))
}

// AnalysisConfiguration returns the analysis weights and whether the category was graded.
func (s *AggregatedScore) AnalysisConfiguration() (AnalysisConfiguration, bool) {
	return s.analysisConfiguration, !s.IsSkipped(CategoryAnalysis)
}

// AnalysisScores returns a copy of the graded analysis scores.
func (s *AggregatedScore) AnalysisScores() []AnalysisScore {
	return append([]AnalysisScore(nil), s.analysisScores...)
}

// TestConfiguration returns the test weights and whether the category was graded.
func (s *AggregatedScore) TestConfiguration() (TestConfiguration, bool) {
	return s.testConfiguration, !s.IsSkipped(CategoryTests)
}

// TestScores returns a copy of the graded test scores.
func (s *AggregatedScore) TestScores() []TestScore {
	return append([]TestScore(nil), s.testScores...)
}

// CoverageConfiguration returns the coverage weights and whether the category was graded.
func (s *AggregatedScore) CoverageConfiguration() (CoverageConfiguration, bool) {
	return s.coverageConfiguration, !s.IsSkipped(CategoryCoverage)
}

// CoverageScores returns a copy of the graded coverage scores.
func (s *AggregatedScore) CoverageScores() []CoverageScore {
	return append([]CoverageScore(nil), s.coverageScores...)
}

// PitConfiguration returns the mutation weights and whether the category was graded.
func (s *AggregatedScore) PitConfiguration() (PitConfiguration, bool) {
	return s.pitConfiguration, !s.IsSkipped(CategoryPit)
}

// PitScores returns a copy of the graded mutation scores.
func (s *AggregatedScore) PitScores() []PitScore {
	return append([]PitScore(nil), s.pitScores...)
}

// CategoryView is the read-only breakdown of one category.
type CategoryView struct {
	Category      Category `json:"category"`
	Skipped       bool     `json:"skipped"`
	MaxScore      int      `json:"max_score"`
	Delta         int      `json:"delta"`
	Achieved      int      `json:"achieved"`
	Ratio         int      `json:"ratio"`
	Configuration any      `json:"configuration,omitempty"`
	Scores        any      `json:"scores,omitempty"`
}

// Breakdown returns one view per category in grading order, skipped ones included.
func (s *AggregatedScore) Breakdown() []CategoryView {
	views := make([]CategoryView, 0, len(Categories()))
	for _, c := range Categories() {
		v := CategoryView{Category: c, Skipped: s.IsSkipped(c)}
		if !v.Skipped {
			v.MaxScore = s.CategoryMaxScore(c)
			v.Delta = s.CategoryDelta(c)
			v.Achieved = s.CategoryAchieved(c)
			v.Ratio = s.CategoryRatio(c)
			switch c {
			case CategoryAnalysis:
				v.Configuration, v.Scores = s.analysisConfiguration, s.AnalysisScores()
			case CategoryTests:
				v.Configuration, v.Scores = s.testConfiguration, s.TestScores()
			case CategoryCoverage:
				v.Configuration, v.Scores = s.coverageConfiguration, s.CoverageScores()
			case CategoryPit:
				v.Configuration, v.Scores = s.pitConfiguration, s.PitScores()
			}
		}
		views = append(views, v)
	}
	return views
}

// MarshalJSON encodes the grade together with the per-category breakdown.
func (s *AggregatedScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Grade      int            `json:"grade"`
		Achieved   int            `json:"achieved"`
		MaxScore   int            `json:"max_score"`
		Ratio      int            `json:"ratio"`
		Categories []CategoryView `json:"categories"`
	}{
		Grade:      s.Grade(),
		Achieved:   s.Achieved(),
		MaxScore:   s.MaxScore(),
		Ratio:      s.Ratio(),
		Categories: s.Breakdown(),
	})
}
