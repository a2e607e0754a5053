package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("REPORT_URL", "")
	cfg := NewConfig()

	assert.Equal(t, "6066", cfg.ServerPort)
	assert.Equal(t, "http", cfg.ReportSource)
	assert.Equal(t, "", cfg.ReportURL)
	assert.Equal(t, "limpeza:faltando", cfg.ReportKey)
	assert.Equal(t, "main", cfg.GitBranch)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("REPORT_SOURCE", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REBUILD_INTERVAL", "15m")
	t.Setenv("GIT_SYNC", "true")

	cfg := NewConfig()

	assert.Equal(t, "redis", cfg.ReportSource)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.RebuildInterval)
	assert.True(t, cfg.GitEnabled)
}

func TestGetEnvFallbacksOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, getEnvInt("X_INT", 7))
	assert.False(t, getEnvBool("X_BOOL", false))
	assert.Equal(t, time.Second, getEnvDuration("X_DUR", time.Second))
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "America/Sao_Paulo"}
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())

	cfg.Timezone = "Nowhere/Atlantis"
	assert.Equal(t, time.Local, cfg.Location())
}
