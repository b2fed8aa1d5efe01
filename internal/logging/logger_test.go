package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/servicex/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"production", DefaultConfig(), false},
		{"development", DevelopmentConfig(), false},
		{"no outputs", Config{Level: "warn"}, false},
		{"bad level", Config{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.LogConfig{Level: "debug", Development: true})
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.Development)

	cfg = FromConfig(config.LogConfig{})
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
}

func TestNamedAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := Wrap(zap.New(core)).Named("presenter").With(zap.String("flow", "bnpl"))

	logger.Info("Session started")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "presenter", entry.LoggerName)
	assert.Equal(t, "bnpl", entry.ContextMap()["flow"])
}

func TestNilSafety(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Named("x").Info("dropped")
		l.With(zap.Int("n", 1)).Info("dropped")
		OrNop(nil).Info("dropped")
		Wrap(nil).Info("dropped")
	})
}
