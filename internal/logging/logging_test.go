package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		level   zapcore.Level
		debugOn bool
		infoOn  bool
		warnOn  bool
	}{
		{name: "debug", debug: true, level: CLILevel, debugOn: true, infoOn: true, warnOn: true},
		{name: "cli", level: CLILevel, warnOn: true},
		{name: "service", level: ServiceLevel, infoOn: true, warnOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.debug, tt.level)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			core := log.Desugar().Core()
			if got := core.Enabled(zapcore.DebugLevel); got != tt.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugOn)
			}
			if got := core.Enabled(zapcore.InfoLevel); got != tt.infoOn {
				t.Errorf("info enabled = %v, want %v", got, tt.infoOn)
			}
			if got := core.Enabled(zapcore.WarnLevel); got != tt.warnOn {
				t.Errorf("warn enabled = %v, want %v", got, tt.warnOn)
			}
		})
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	if log.Desugar().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Nop logger should discard everything")
	}
	log.Infow("discarded", "key", "value")
}
