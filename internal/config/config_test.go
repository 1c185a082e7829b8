package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOXICITY_THRESHOLD", "")
	t.Setenv("TOXICITY_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.InDelta(t, 0.5, cfg.ToxicityThreshold, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.ToxicityTimeout)
	assert.Equal(t, time.Duration(0), cfg.ToxicityCacheTTL)
}

func TestLoad_ToxicitySettings(t *testing.T) {
	t.Setenv("TOXICITY_URL", "http://moderator:9000")
	t.Setenv("TOXICITY_THRESHOLD", "0.75")
	t.Setenv("TOXICITY_TIMEOUT", "3s")

	cfg := Load()

	assert.Equal(t, "http://moderator:9000", cfg.ToxicityURL)
	assert.InDelta(t, 0.75, cfg.ToxicityThreshold, 1e-9)
	assert.Equal(t, 3*time.Second, cfg.ToxicityTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:         "secret",
			DBPassword:        "pw",
			ToxicityURL:       "http://localhost:8000",
			ToxicityThreshold: 0.5,
		}
	}

	require.NoError(t, base().Validate())

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unparseable threshold", func(t *testing.T) {
		t.Setenv("TOXICITY_THRESHOLD", "high")
		cfg := base()
		cfg.ToxicityThreshold = Load().ToxicityThreshold
		assert.Error(t, cfg.Validate())
	})

	t.Run("NaN threshold", func(t *testing.T) {
		t.Setenv("TOXICITY_THRESHOLD", "NaN")
		cfg := base()
		cfg.ToxicityThreshold = Load().ToxicityThreshold
		assert.Error(t, cfg.Validate())
	})

	t.Run("infinite threshold", func(t *testing.T) {
		t.Setenv("TOXICITY_THRESHOLD", "+Inf")
		cfg := base()
		cfg.ToxicityThreshold = Load().ToxicityThreshold
		assert.Error(t, cfg.Validate())
	})

	t.Run("threshold above one", func(t *testing.T) {
		cfg := base()
		cfg.ToxicityThreshold = 1.5
		assert.Error(t, cfg.Validate())
	})
}

func TestParseCSV(t *testing.T) {
	assert.Nil(t, ParseCSV(""))
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, ParseCSV(" a@x.io, ,b@x.io "))
	assert.True(t, Contains(ParseCSV("a,b"), "b"))
	assert.False(t, Contains(nil, "a"))
}
