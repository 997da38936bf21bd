package raudiomixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResampleSameRateIsNoop(t *testing.T) {
	ch := [][]float64{{1, 2, 3, 4}}
	out := Resample(ch, 48000, 48000)
	assert.Equal(t, ch, out)
}

func TestResampleScalesLength(t *testing.T) {
	ch := [][]float64{sineWave(4800, 48000, 440)}
	up := Resample(ch, 48000, 96000)
	down := Resample(ch, 48000, 24000)

	assert.InDelta(t, 9600, len(up[0]), 2)
	assert.InDelta(t, 2400, len(down[0]), 2)
}

func TestResamplePreservesRoughAmplitude(t *testing.T) {
	ch := [][]float64{sineWave(48000, 48000, 220)}
	out := Resample(ch, 48000, 44100)

	maxIn, maxOut := 0.0, 0.0
	for _, v := range ch[0] {
		if v > maxIn {
			maxIn = v
		}
	}
	for _, v := range out[0] {
		if v > maxOut {
			maxOut = v
		}
	}
	assert.InDelta(t, maxIn, maxOut, 0.2)
}
