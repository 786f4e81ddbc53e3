package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	logger, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("default logger should be silent")
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "debug")

	logger, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug to be enabled from the environment")
	}
}

func TestNewExplicitLevelWins(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "debug")

	logger, err := New("warn")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) || !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("explicit warn level should override the environment")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"loud":    zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
