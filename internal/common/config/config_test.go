package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, 10, cfg.ReadTimeout)
		assert.True(t, cfg.AsyncInteractions)
		assert.Empty(t, cfg.AnnotatorURL)
		assert.Equal(t, 50*1024*1024, cfg.BodyLimit())
		assert.Equal(t, 30*time.Second, cfg.AnnotatorTimeoutDuration())
		assert.Empty(t, cfg.CORSOrigins)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "8081")
		t.Setenv("ANNOTATOR_URL", "http://annotator:8000")
		t.Setenv("ANNOTATOR_TIMEOUT", "5")
		t.Setenv("ASYNC_INTERACTIONS", "false")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

		cfg := Load()

		assert.Equal(t, "8081", cfg.Port)
		assert.Equal(t, "http://annotator:8000", cfg.AnnotatorURL)
		assert.Equal(t, 5*time.Second, cfg.AnnotatorTimeoutDuration())
		assert.False(t, cfg.AsyncInteractions)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	})
}
