package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseContext(t *testing.T) {
	tests := []struct {
		name     string
		context  []any
		expected map[string]any
	}{
		{
			name:     "empty",
			context:  nil,
			expected: nil,
		},
		{
			name:     "single map",
			context:  []any{map[string]any{"symbol": "AAPL"}},
			expected: map[string]any{"symbol": "AAPL"},
		},
		{
			name:     "nil map",
			context:  []any{nil},
			expected: nil,
		},
		{
			name:     "key value pairs",
			context:  []any{"symbol", "AAPL", "qty", 100},
			expected: map[string]any{"symbol": "AAPL", "qty": 100},
		},
		{
			name:     "dangling key",
			context:  []any{"symbol", "AAPL", "qty"},
			expected: map[string]any{"symbol": "AAPL", "!BADKEY": "qty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseContext(tt.context))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, zapcore.WarnLevel, WarnLevel.ToZapLevel())
}

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapFromCore(zap.New(core), "strategy-runtime")

	log.With("strategy", "sma").Warn("Trade rejected", map[string]any{
		"symbol": "AAPL",
		"error":  errors.New("market is closed"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Trade rejected", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "strategy-runtime", fields["service"])
	assert.Equal(t, "sma", fields["strategy"])
	assert.Equal(t, "AAPL", fields["symbol"])
	assert.Equal(t, "market is closed", fields["error"])
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Info("discarded", "k", "v")
	assert.NoError(t, log.With("k", "v").Sync())
}
