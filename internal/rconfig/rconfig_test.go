package rconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 8, s.Resources.CanvasPoolCap)
	assert.Equal(t, 16, s.Resources.InFlightFrameQueue)
	assert.Equal(t, 1000, s.Resources.TextMeasureCacheCap)
	assert.Equal(t, 48000, s.Audio.SampleRate)
	assert.Equal(t, 4, s.Audio.MaxConcurrentDecodes)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REELFORGE_CANVAS_POOL_CAP", "32")
	s, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, 32, s.Resources.CanvasPoolCap)
	assert.Equal(t, 16, s.Resources.InFlightFrameQueue)
}

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	s, err := Load("/nonexistent/path/config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, Default(), s)
}
