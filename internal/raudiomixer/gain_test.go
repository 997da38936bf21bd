package raudiomixer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantonx/reelforge/pkg/scene"
)

func TestDbToLinear(t *testing.T) {
	assert.InDelta(t, 1.0, dbToLinear(0), 1e-9)
	assert.InDelta(t, 2.0, dbToLinear(20*math.Log10(2)), 1e-6)
}

func TestApplyStaticGainScalesAllChannels(t *testing.T) {
	channels := [][]float64{{1, 1}, {1, 1}}
	applyStaticGain(channels, 0)
	assert.Equal(t, []float64{1, 1}, channels[0])

	channels = [][]float64{{1, 1}}
	applyStaticGain(channels, 20*math.Log10(2))
	assert.InDelta(t, 2.0, channels[0][0], 1e-6)
}

func TestApplyFadesLinearRampsEdges(t *testing.T) {
	n := 10
	channels := [][]float64{make([]float64, n)}
	for i := range channels[0] {
		channels[0][i] = 1
	}
	applyFades(channels, 5, 5, 30, 30, false)
	assert.InDelta(t, 0, channels[0][0], 1e-9)
	assert.InDelta(t, 0, channels[0][n-1], 1e-9)
	assert.Greater(t, channels[0][2], channels[0][0])
}

func TestApplyFadesEqualPowerDiffersFromLinear(t *testing.T) {
	linear := [][]float64{{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}}
	eqPower := [][]float64{{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}}
	applyFades(linear, 5, 0, 30, 30, false)
	applyFades(eqPower, 5, 0, 30, 30, true)
	assert.NotEqual(t, linear[0][1], eqPower[0][1])
}

func TestApplyKeyframedGainInterpolatesPerSample(t *testing.T) {
	pk := &scene.PropertyKeyframes{
		Property: scene.PropVolume,
		Keyframes: []scene.Keyframe{
			{Frame: 0, Value: 0},
			{Frame: 30, Value: -60},
		},
	}
	channels := [][]float64{make([]float64, 30)}
	for i := range channels[0] {
		channels[0][i] = 1
	}
	applyKeyframedGain(channels, pk, 30, 30)
	assert.Greater(t, channels[0][0], channels[0][29])
}
