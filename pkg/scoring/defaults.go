package scoring

// DefaultConfiguration returns a starter document that grades all four categories
// with a maximum of 100 points each.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Analysis: &AnalysisConfiguration{
			MaxScore:     100,
			ErrorImpact:  -10,
			HighImpact:   -5,
			NormalImpact: -2,
			LowImpact:    -1,
		},
		Tests: &TestConfiguration{
			MaxScore:      100,
			PassedImpact:  1,
			FailureImpact: -5,
			SkippedImpact: -1,
		},
		Coverage: &CoverageConfiguration{
			MaxScore:      100,
			CoveredImpact: 1,
			MissedImpact:  -1,
		},
		Pit: &PitConfiguration{
			MaxScore:         100,
			DetectedImpact:   1,
			UndetectedImpact: -1,
			RatioImpact:      0,
		},
	}
}
