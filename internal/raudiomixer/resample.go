package raudiomixer

import "math"

// lanczosTaps is the kernel half-width, in input samples, of the windowed
// sinc resampler below.
const lanczosTaps = 8

// Resample converts channels from srcRate to dstRate using windowed-sinc
// (Lanczos) interpolation, chosen over linear/nearest interpolation for the
// "high-quality" resampling the final mixdown stage requires.
func Resample(channels [][]float64, srcRate, dstRate int) [][]float64 {
	if srcRate == dstRate || len(channels) == 0 {
		return channels
	}

	ratio := float64(dstRate) / float64(srcRate)
	srcLen := len(channels[0])
	outLen := int(math.Round(float64(srcLen) * ratio))

	out := make([][]float64, len(channels))
	for c := range channels {
		out[c] = make([]float64, outLen)
		src := channels[c]
		for i := 0; i < outLen; i++ {
			srcPos := float64(i) / ratio
			center := int(math.Floor(srcPos))
			var sum float64
			for k := center - lanczosTaps + 1; k <= center+lanczosTaps; k++ {
				if k < 0 || k >= srcLen {
					continue
				}
				sum += src[k] * lanczosKernel(srcPos-float64(k))
			}
			out[c][i] = sum
		}
	}
	return out
}

func lanczosKernel(x float64) float64 {
	if x == 0 {
		return 1
	}
	ax := math.Abs(x)
	if ax >= lanczosTaps {
		return 0
	}
	piX := math.Pi * x
	return lanczosTaps * math.Sin(piX) * math.Sin(piX/lanczosTaps) / (piX * piX)
}
