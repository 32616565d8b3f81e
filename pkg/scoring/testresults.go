package scoring

import "fmt"

// TestConfiguration weights automated test outcomes.
type TestConfiguration struct {
	MaxScore      int `json:"maxScore" yaml:"maxScore" toml:"maxScore"`
	PassedImpact  int `json:"passedImpact" yaml:"passedImpact" toml:"passedImpact"`
	FailureImpact int `json:"failureImpact" yaml:"failureImpact" toml:"failureImpact"`
	SkippedImpact int `json:"skippedImpact" yaml:"skippedImpact" toml:"skippedImpact"`
}

// Validate checks that the configuration can be used for grading.
func (c TestConfiguration) Validate() error {
	return checkConfiguration(CategoryTests, c.MaxScore, c.PassedImpact, c.FailureImpact, c.SkippedImpact)
}

// TestConfigurationBuilder assembles a TestConfiguration. Unset fields are 0.
type TestConfigurationBuilder struct {
	cfg TestConfiguration
}

// NewTestConfigurationBuilder creates an empty builder.
func NewTestConfigurationBuilder() *TestConfigurationBuilder {
	return &TestConfigurationBuilder{}
}

func (b *TestConfigurationBuilder) MaxScore(v int) *TestConfigurationBuilder {
	b.cfg.MaxScore = v
	return b
}

func (b *TestConfigurationBuilder) PassedImpact(v int) *TestConfigurationBuilder {
	b.cfg.PassedImpact = v
	return b
}

func (b *TestConfigurationBuilder) FailureImpact(v int) *TestConfigurationBuilder {
	b.cfg.FailureImpact = v
	return b
}

func (b *TestConfigurationBuilder) SkippedImpact(v int) *TestConfigurationBuilder {
	b.cfg.SkippedImpact = v
	return b
}

// Build returns the validated configuration.
func (b *TestConfigurationBuilder) Build() (TestConfiguration, error) {
	if err := b.cfg.Validate(); err != nil {
		return TestConfiguration{}, err
	}
	return b.cfg, nil
}

// TestCounts are the outcomes of one test run.
type TestCounts struct {
	Passed  int `json:"passed" yaml:"passed"`
	Failed  int `json:"failed" yaml:"failed"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// TestScore is the weighted result of one test run.
// Immutable once computed.
type TestScore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	TestCounts
	TotalImpact int `json:"total_impact"`
}

// NewTestScore weights the outcomes of one test run with cfg.
func NewTestScore(id, name string, cfg TestConfiguration, counts TestCounts) (TestScore, error) {
	err := checkCounts(id,
		signal{"passed", counts.Passed},
		signal{"failed", counts.Failed},
		signal{"skipped", counts.Skipped},
	)
	if err != nil {
		return TestScore{}, err
	}

	return TestScore{
		ID:         id,
		Name:       nameOrID(name, id),
		TestCounts: counts,
		TotalImpact: counts.Passed*cfg.PassedImpact +
			counts.Failed*cfg.FailureImpact +
			counts.Skipped*cfg.SkippedImpact,
	}, nil
}

// TotalChange is the unbounded weighted delta of this run.
func (s TestScore) TotalChange() int { return s.TotalImpact }

// TotalSize is the number of executed and skipped tests.
func (s TestScore) TotalSize() int {
	return s.Passed + s.Failed + s.Skipped
}

// Summary lists the counts in console form.
func (s TestScore) Summary() string {
	return fmt.Sprintf("passed:%d, failed:%d, skipped:%d", s.Passed, s.Failed, s.Skipped)
}
