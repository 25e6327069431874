package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	for _, tc := range []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	} {
		l, err := New(tc.level, "json")
		require.NoError(t, err)
		assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(tc.want), tc.level)
		if tc.want > zapcore.DebugLevel {
			assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(tc.want-1), tc.level)
		}
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core)).With("session_id", "abc")

	l.Info("generated", "role", "CFO")
	l.Debug("noise")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "generated", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "abc", fields["session_id"])
	assert.Equal(t, "CFO", fields["role"])
}

func TestNewFileWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.log")
	l, err := NewFile("info", path)
	require.NoError(t, err)

	l.Info("dashboard starting", "model", "gemini-2.5-flash")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"dashboard starting"`)
	assert.Contains(t, string(data), `"model":"gemini-2.5-flash"`)
}
