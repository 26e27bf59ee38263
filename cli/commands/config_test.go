package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/erikhoward/patrol/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patrol.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, engineGraph, c.Engine)
	assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
	assert.Equal(t, 1, c.Iterations)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, "engine: both\nworkers: 3\nlog_format: json\n"))
	require.NoError(t, err)

	assert.Equal(t, engineBoth, c.Engine)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, 1, c.Iterations, "unset keys keep their defaults")
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid yaml", "engine: [graph\n", "failed to parse config"},
		{"bad engine", "engine: psychic\n", "unsupported engine"},
		{"bad iterations", "iterations: 0\n", "iterations must be at least 1"},
		{"bad log format", "log_format: xml\n", "unsupported log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"auto", "console", "json"} {
		l, err := newLogger("debug", format)
		require.NoError(t, err, format)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	}

	l, err := newLogger("warn", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = newLogger("loud", "json")
	assert.Error(t, err)
}

func TestLogHook(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	hook := logHook{log: zap.New(obs)}

	hook.OnSweepStart(core.SweepStartEvent{Engine: core.EngineGraph, Candidates: 2, Workers: 1})
	hook.OnTrial(core.TrialEvent{Engine: core.EngineGraph, X: 1, Y: 2})
	hook.OnTrial(core.TrialEvent{Engine: core.EngineGraph, X: 3, Y: 4, Looped: true, Work: 5})
	hook.OnSweepEnd(core.SweepEndEvent{Engine: core.EngineGraph, Trials: 2, Loops: 1})

	require.Equal(t, 3, logs.Len(), "only looping trials are logged")
	assert.Equal(t, "Sweep started", logs.All()[0].Message)
	trap := logs.FilterMessage("Obstruction traps guard").All()
	require.Len(t, trap, 1)
	assert.Equal(t, int64(3), trap[0].ContextMap()["x"])
	assert.Equal(t, zapcore.InfoLevel, logs.FilterMessage("Sweep finished").All()[0].Level)

	hook.OnSweepEnd(core.SweepEndEvent{Engine: core.EngineGraph, Err: assert.AnError})
	assert.Equal(t, 1, logs.FilterMessage("Sweep failed").Len())
}

func TestExecuteSolveWithConfig(t *testing.T) {
	resetFlags(t)
	t.Cleanup(func() {
		configPath, verbose, logFormat = "", false, ""
		logger = zap.NewNop()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	configFile := writeConfig(t, "engine: brute\nworkers: 2\nlog_level: warn\nlog_format: json\n")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--config", configFile, "solve", writeGrid(t, sampleGrid), "--json"})

	require.NoError(t, Execute())
	assert.Contains(t, buf.String(), `"p2": 6`)
	assert.Contains(t, buf.String(), `"engine": "brute"`)
	assert.Equal(t, engineBrute, cfg.Engine)
}
