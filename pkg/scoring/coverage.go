package scoring

import "fmt"

// CoverageConfiguration weights covered and missed items of a coverage report.
type CoverageConfiguration struct {
	MaxScore      int `json:"maxScore" yaml:"maxScore" toml:"maxScore"`
	CoveredImpact int `json:"coveredImpact" yaml:"coveredImpact" toml:"coveredImpact"`
	MissedImpact  int `json:"missedImpact" yaml:"missedImpact" toml:"missedImpact"`
}

// Validate checks that the configuration can be used for grading.
func (c CoverageConfiguration) Validate() error {
	return checkConfiguration(CategoryCoverage, c.MaxScore, c.CoveredImpact, c.MissedImpact)
}

// CoverageConfigurationBuilder assembles a CoverageConfiguration. Unset fields are 0.
type CoverageConfigurationBuilder struct {
	cfg CoverageConfiguration
}

// NewCoverageConfigurationBuilder creates an empty builder.
func NewCoverageConfigurationBuilder() *CoverageConfigurationBuilder {
	return &CoverageConfigurationBuilder{}
}

func (b *CoverageConfigurationBuilder) MaxScore(v int) *CoverageConfigurationBuilder {
	b.cfg.MaxScore = v
	return b
}

func (b *CoverageConfigurationBuilder) CoveredImpact(v int) *CoverageConfigurationBuilder {
	b.cfg.CoveredImpact = v
	return b
}

func (b *CoverageConfigurationBuilder) MissedImpact(v int) *CoverageConfigurationBuilder {
	b.cfg.MissedImpact = v
	return b
}

// Build returns the validated configuration.
func (b *CoverageConfigurationBuilder) Build() (CoverageConfiguration, error) {
	if err := b.cfg.Validate(); err != nil {
		return CoverageConfiguration{}, err
	}
	return b.cfg, nil
}

// CoverageCounts are the covered and missed items of one coverage metric (lines, branches, ...).
type CoverageCounts struct {
	Covered int `json:"covered" yaml:"covered"`
	Missed  int `json:"missed" yaml:"missed"`
}

// CoverageScore is the weighted result of one coverage metric.
// Immutable once computed.
type CoverageScore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CoverageCounts
	TotalImpact int `json:"total_impact"`
}

// NewCoverageScore weights one coverage metric with cfg.
func NewCoverageScore(id, name string, cfg CoverageConfiguration, counts CoverageCounts) (CoverageScore, error) {
	err := checkCounts(id,
		signal{"covered", counts.Covered},
		signal{"missed", counts.Missed},
	)
	if err != nil {
		return CoverageScore{}, err
	}

	return CoverageScore{
		ID:             id,
		Name:           nameOrID(name, id),
		CoverageCounts: counts,
		TotalImpact:    counts.Covered*cfg.CoveredImpact + counts.Missed*cfg.MissedImpact,
	}, nil
}

// TotalChange is the unbounded weighted delta of this metric.
func (s CoverageScore) TotalChange() int { return s.TotalImpact }

// TotalSize is the number of covered and missed items.
func (s CoverageScore) TotalSize() int {
	return s.Covered + s.Missed
}

// CoveredPercentage is the truncated share of covered items, 0 when nothing was measured.
func (s CoverageScore) CoveredPercentage() int {
	return percentage(s.Covered, s.TotalSize())
}

// MissedPercentage complements CoveredPercentage so both add up to 100.
func (s CoverageScore) MissedPercentage() int {
	if s.TotalSize() == 0 {
		return 0
	}
	return 100 - s.CoveredPercentage()
}

// Summary lists the counts in console form.
func (s CoverageScore) Summary() string {
	return fmt.Sprintf("covered:%d, missed:%d", s.Covered, s.Missed)
}
