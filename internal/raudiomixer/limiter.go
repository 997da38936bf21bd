package raudiomixer

import "math"

// softClip tames peaks in the mixed output: samples within [-1,1] pass
// through unchanged, samples beyond it are remapped through tanh so the
// waveform saturates smoothly instead of hard-clipping.
func softClip(channels [][]float64) {
	for c := range channels {
		for i, v := range channels[c] {
			if v > 1 || v < -1 {
				channels[c][i] = math.Tanh(v)
			}
		}
	}
}
