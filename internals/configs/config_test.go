package configs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"eduquest_backend/internals/configs"
)

func TestLoadReportsThroughLogger(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SENDGRID_API_KEY", "")

	cfg := configs.Load()
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "system env (production)", cfg.EnvSource)

	core, logs := observer.New(zapcore.InfoLevel)
	cfg.Report(zap.New(core))

	require.Equal(t, 1, logs.FilterMessage("config loaded").Len())
	assert.Equal(t, 1, logs.FilterMessage("JWT_SECRET is not set").FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestReportQuietWhenConfigured(t *testing.T) {
	cfg := &configs.AppConfig{Env: "test", EnvSource: ".env", JWTSecret: "s", SendgridAPIKey: "k"}
	core, logs := observer.New(zapcore.WarnLevel)
	cfg.Report(zap.New(core))
	assert.Zero(t, logs.Len())
}
