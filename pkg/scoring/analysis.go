package scoring

import "fmt"

// AnalysisConfiguration weights static analysis findings by severity.
type AnalysisConfiguration struct {
	MaxScore     int `json:"maxScore" yaml:"maxScore" toml:"maxScore"`
	ErrorImpact  int `json:"errorImpact" yaml:"errorImpact" toml:"errorImpact"`
	HighImpact   int `json:"highImpact" yaml:"highImpact" toml:"highImpact"`
	NormalImpact int `json:"normalImpact" yaml:"normalImpact" toml:"normalImpact"`
	LowImpact    int `json:"lowImpact" yaml:"lowImpact" toml:"lowImpact"`
}

// Validate checks that the configuration can be used for grading.
func (c AnalysisConfiguration) Validate() error {
	return checkConfiguration(CategoryAnalysis, c.MaxScore, c.ErrorImpact, c.HighImpact, c.NormalImpact, c.LowImpact)
}

// AnalysisConfigurationBuilder assembles an AnalysisConfiguration. Unset fields are 0.
type AnalysisConfigurationBuilder struct {
	cfg AnalysisConfiguration
}

// NewAnalysisConfigurationBuilder creates an empty builder.
func NewAnalysisConfigurationBuilder() *AnalysisConfigurationBuilder {
	return &AnalysisConfigurationBuilder{}
}

func (b *AnalysisConfigurationBuilder) MaxScore(v int) *AnalysisConfigurationBuilder {
	b.cfg.MaxScore = v
	return b
}

func (b *AnalysisConfigurationBuilder) ErrorImpact(v int) *AnalysisConfigurationBuilder {
	b.cfg.ErrorImpact = v
	return b
}

func (b *AnalysisConfigurationBuilder) HighImpact(v int) *AnalysisConfigurationBuilder {
	b.cfg.HighImpact = v
	return b
}

func (b *AnalysisConfigurationBuilder) NormalImpact(v int) *AnalysisConfigurationBuilder {
	b.cfg.NormalImpact = v
	return b
}

func (b *AnalysisConfigurationBuilder) LowImpact(v int) *AnalysisConfigurationBuilder {
	b.cfg.LowImpact = v
	return b
}

// Build returns the validated configuration.
func (b *AnalysisConfigurationBuilder) Build() (AnalysisConfiguration, error) {
	if err := b.cfg.Validate(); err != nil {
		return AnalysisConfiguration{}, err
	}
	return b.cfg, nil
}

// AnalysisCounts are the findings of one static analysis tool run, by severity.
type AnalysisCounts struct {
	Errors int `json:"errors" yaml:"errors"`
	High   int `json:"high" yaml:"high"`
	Normal int `json:"normal" yaml:"normal"`
	Low    int `json:"low" yaml:"low"`
}

// AnalysisScore is the weighted result of one static analysis tool run.
// Immutable once computed.
type AnalysisScore struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AnalysisCounts
	TotalImpact int `json:"total_impact"`
}

// NewAnalysisScore weights the counts of one tool run with cfg.
func NewAnalysisScore(id, name string, cfg AnalysisConfiguration, counts AnalysisCounts) (AnalysisScore, error) {
	err := checkCounts(id,
		signal{"errors", counts.Errors},
		signal{"high", counts.High},
		signal{"normal", counts.Normal},
		signal{"low", counts.Low},
	)
	if err != nil {
		return AnalysisScore{}, err
	}

	return AnalysisScore{
		ID:             id,
		Name:           nameOrID(name, id),
		AnalysisCounts: counts,
		TotalImpact: counts.Errors*cfg.ErrorImpact +
			counts.High*cfg.HighImpact +
			counts.Normal*cfg.NormalImpact +
			counts.Low*cfg.LowImpact,
	}, nil
}

// TotalChange is the unbounded weighted delta of this run.
func (s AnalysisScore) TotalChange() int { return s.TotalImpact }

// TotalSize is the number of findings across all severities.
func (s AnalysisScore) TotalSize() int {
	return s.Errors + s.High + s.Normal + s.Low
}

// Summary lists the counts in console form: "errors:6, high:0, normal:0, low:0".
func (s AnalysisScore) Summary() string {
	return fmt.Sprintf("errors:%d, high:%d, normal:%d, low:%d", s.Errors, s.High, s.Normal, s.Low)
}
