package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "config/sources.yml", cfg.Sources.SourcesFile)
	assert.Equal(t, "config/keywords.yml", cfg.Sources.KeywordsFile)
	assert.Equal(t, "config/cities.txt", cfg.Sources.CitiesFile)

	assert.Equal(t, 150, cfg.Crawl.MaxSeeds)
	assert.Equal(t, 60, cfg.Crawl.MaxPagesPerSeed)
	assert.Equal(t, 2500, cfg.Crawl.MaxTotalCandidates)

	assert.Equal(t, 15, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 2, cfg.Fetch.MaxRetries)
	assert.InDelta(t, 8.0, cfg.Fetch.RequestsPerSec, 0.001)
	assert.True(t, cfg.Fetch.UseCache)

	assert.Equal(t, 8, cfg.Scorer.Threshold)
	assert.Equal(t, 120, cfg.Scorer.MinTextLength)
	assert.Equal(t, 6, cfg.Scorer.NavHitLimit)
	assert.Equal(t, 140, cfg.Scorer.ProximityChars)

	assert.True(t, cfg.Geocode.Enabled)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.Geocode.BaseURL)
	assert.False(t, cfg.Media.Enabled)

	assert.Equal(t, 10, cfg.Export.MinScore)
	assert.Equal(t, 8, cfg.Run.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MAPPER8M_SCORER_THRESHOLD", "12")
	t.Setenv("MAPPER8M_FETCH_USER_AGENT", "test-agent/0.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Scorer.Threshold)
	assert.Equal(t, "test-agent/0.1", cfg.Fetch.UserAgent)
}

func TestTimeoutHelpers(t *testing.T) {
	assert.Equal(t, 15*time.Second, FetchConfig{TimeoutSecs: 15}.Timeout())
	assert.Equal(t, 35*time.Second, RunConfig{URLTimeoutSecs: 35}.URLTimeout())
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
