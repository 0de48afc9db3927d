package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsAndOverrides(t *testing.T) {
	cfg, err := parse(`
app:
  port: 9090
s3:
  bucket: letters
docgen:
  baseURL: http://docgen.internal:9000
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "0.0.0.0", cfg.App.Host)
	assert.Equal(t, "letters", cfg.S3.Bucket)
	assert.Equal(t, "http://docgen.internal:9000", cfg.DocGen.BaseURL)
	assert.Equal(t, 900, cfg.S3.PresignExpireSec)
	assert.Equal(t, int64(10<<20), cfg.Letter.MaxUploadBytes)
	assert.Equal(t, 3, cfg.Letter.MaxUploadAttempts)
	assert.Equal(t, "recommendation-letters", cfg.Letter.KeyPrefix)
	assert.Equal(t, "letter.compose", cfg.RabbitMQ.ExchangeName.LetterCompose)
	assert.Equal(t, "redis", cfg.Lock.Backend)
}

func TestParse_EnvOverridesFile(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := parse("log:\n  level: warn\n")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}
