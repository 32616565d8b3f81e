package scoring

import "fmt"

// PitConfiguration weights mutation testing results.
type PitConfiguration struct {
	MaxScore         int `json:"maxScore" yaml:"maxScore" toml:"maxScore"`
	DetectedImpact   int `json:"detectedImpact" yaml:"detectedImpact" toml:"detectedImpact"`
	UndetectedImpact int `json:"undetectedImpact" yaml:"undetectedImpact" toml:"undetectedImpact"`
	RatioImpact      int `json:"ratioImpact" yaml:"ratioImpact" toml:"ratioImpact"`
}

// Validate checks that the configuration can be used for grading.
func (c PitConfiguration) Validate() error {
	return checkConfiguration(CategoryPit, c.MaxScore, c.DetectedImpact, c.UndetectedImpact, c.RatioImpact)
}

// PitConfigurationBuilder assembles a PitConfiguration. Unset fields are 0.
type PitConfigurationBuilder struct {
	cfg PitConfiguration
}

// NewPitConfigurationBuilder creates an empty builder.
func NewPitConfigurationBuilder() *PitConfigurationBuilder {
	return &PitConfigurationBuilder{}
}

func (b *PitConfigurationBuilder) MaxScore(v int) *PitConfigurationBuilder {
	b.cfg.MaxScore = v
	return b
}

func (b *PitConfigurationBuilder) DetectedImpact(v int) *PitConfigurationBuilder {
	b.cfg.DetectedImpact = v
	return b
}

func (b *PitConfigurationBuilder) UndetectedImpact(v int) *PitConfigurationBuilder {
	b.cfg.UndetectedImpact = v
	return b
}

func (b *PitConfigurationBuilder) RatioImpact(v int) *PitConfigurationBuilder {
	b.cfg.RatioImpact = v
	return b
}

// Build returns the validated configuration.
func (b *PitConfigurationBuilder) Build() (PitConfiguration, error) {
	if err := b.cfg.Validate(); err != nil {
		return PitConfiguration{}, err
	}
	return b.cfg, nil
}

// PitCounts are the detected and undetected mutations of one mutation testing run.
type PitCounts struct {
	Detected   int `json:"detected" yaml:"detected"`
	Undetected int `json:"undetected" yaml:"undetected"`
}

// PitScore is the weighted result of one mutation testing run.
// Immutable once computed.
type PitScore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	PitCounts
	TotalImpact int `json:"total_impact"`
}

// NewPitScore weights one mutation testing run with cfg. The detection ratio
// contributes ratio*RatioImpact on top of the per-mutation impacts.
func NewPitScore(id, name string, cfg PitConfiguration, counts PitCounts) (PitScore, error) {
	err := checkCounts(id,
		signal{"detected", counts.Detected},
		signal{"undetected", counts.Undetected},
	)
	if err != nil {
		return PitScore{}, err
	}

	s := PitScore{
		ID:        id,
		Name:      nameOrID(name, id),
		PitCounts: counts,
	}
	s.TotalImpact = counts.Detected*cfg.DetectedImpact +
		counts.Undetected*cfg.UndetectedImpact +
		s.Ratio()*cfg.RatioImpact
	return s, nil
}

// TotalChange is the unbounded weighted delta of this run.
func (s PitScore) TotalChange() int { return s.TotalImpact }

// Mutations is the number of generated mutations.
func (s PitScore) Mutations() int {
	return s.Detected + s.Undetected
}

// Ratio is floor(detected*100/mutations), or 0 without mutations.
func (s PitScore) Ratio() int {
	return percentage(s.Detected, s.Mutations())
}

// UndetectedPercentage complements Ratio so both add up to 100.
func (s PitScore) UndetectedPercentage() int {
	if s.Mutations() == 0 {
		return 0
	}
	return 100 - s.Ratio()
}

// Summary lists the counts in console form.
func (s PitScore) Summary() string {
	return fmt.Sprintf("detected:%d, undetected:%d, ratio:%d", s.Detected, s.Undetected, s.Ratio())
}
