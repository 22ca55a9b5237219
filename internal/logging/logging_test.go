// ABOUTME: Tests for logger construction
// ABOUTME: Verifies level parsing and defaults

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.WarnLevel},
		{"chatty", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	quiet, err := New("error")
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.WarnLevel))
}
