package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/geochicas/mapper8m/internal/config"
)

func TestMinDelay(t *testing.T) {
	orig := cfg
	defer func() { cfg = orig }()

	cfg = &config.Config{}
	assert.Equal(t, 1100*time.Millisecond, minDelay(), "zero falls back to the policy-safe spacing")

	cfg.Geocode.MinDelaySecs = 2.5
	assert.Equal(t, 2500*time.Millisecond, minDelay())
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["score"])
	assert.True(t, names["discover"])
}
