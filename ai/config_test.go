package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GeneratorHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.GeneratorModel)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://ai.internal:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithGeneratorModel("gpt-4o-mini"),
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://ai.internal:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://ai.internal:9100/v1", cfg.GeneratorHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.GeneratorModel)
}

func TestNewConfig_SplitHosts(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embed.internal:11434"),
		WithGeneratorHost("http://gen.internal:11434"),
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://embed.internal:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://gen.internal:11434/v1", cfg.GeneratorHost)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already suffixed", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tc.host, GeneratorHost: tc.host}
			cfg.Normalize()
			assert.Equal(t, tc.want, cfg.EmbeddingHost)
			assert.Equal(t, tc.want, cfg.GeneratorHost)
		})
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"no generator host", func(c *Config) { c.GeneratorHost = "" }},
		{"no embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"no generator model", func(c *Config) { c.GeneratorModel = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
