package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"", InfoLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	custom := &NoOpLogger{}
	SetGlobalLogger(custom)
	assert.Same(t, Logger(custom), GetGlobalLogger())

	// Setting nil installs a no-op logger rather than leaving a nil global
	// for constructor fallbacks to crash on.
	SetGlobalLogger(nil)
	require.NotNil(t, GetGlobalLogger())
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())
}

func TestPackageWithFieldsUsesGlobal(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	noop := &NoOpLogger{}
	SetGlobalLogger(noop)

	// NoOpLogger.WithFields returns itself; the package helper must route
	// through the installed global.
	assert.Same(t, Logger(noop), WithFields(Fields{"component": "test"}))
}

func TestDefaultLoggerWithFieldsIsolated(t *testing.T) {
	base := NewDefaultLogger()
	derived := base.WithFields(Fields{"component": "capture"}).(*DefaultLogger)

	assert.Empty(t, base.fields)
	assert.Equal(t, Fields{"component": "capture"}, derived.fields)

	// Further derivation layers fields without mutating the parent.
	grandchild := derived.WithFields(Fields{"stage": "stft"}).(*DefaultLogger)
	assert.Equal(t, Fields{"component": "capture"}, derived.fields)
	assert.Equal(t, Fields{"component": "capture", "stage": "stft"}, grandchild.fields)
}
