package raudiomixer

import (
	"math"

	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/pkg/scene"
)

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// applyStaticGain multiplies every sample of every channel by db's linear
// equivalent, in place.
func applyStaticGain(channels [][]float64, db float64) {
	if db == 0 {
		return
	}
	gain := dbToLinear(db)
	for c := range channels {
		for i := range channels[c] {
			channels[c][i] *= gain
		}
	}
}

// applyKeyframedGain resolves a dB value per sample from pk (interpolated in
// timeline-frame space, matching the animation keyframes everywhere else in
// the engine), converts it to linear gain, and applies it in place.
func applyKeyframedGain(channels [][]float64, pk *scene.PropertyKeyframes, fps, sampleRate int) {
	if pk == nil || len(channels) == 0 {
		return
	}
	n := len(channels[0])
	framesPerSample := float64(fps) / float64(sampleRate)
	for s := 0; s < n; s++ {
		frameRel := float64(s) * framesPerSample
		db := rkeyframe.Interpolate(pk.Keyframes, frameRel, 0)
		gain := dbToLinear(db)
		for c := range channels {
			if s < len(channels[c]) {
				channels[c][s] *= gain
			}
		}
	}
}

// applyFades ramps the first fadeInFrames and last fadeOutFrames (converted
// to samples) linearly, or with an equal-power sin/cos curve when
// equalPower is set — used for segments expanded into a transition window.
func applyFades(channels [][]float64, fadeInFrames, fadeOutFrames, fps, sampleRate int, equalPower bool) {
	if len(channels) == 0 {
		return
	}
	n := len(channels[0])
	fadeIn := framesToSamples(fadeInFrames, fps, sampleRate)
	fadeOut := framesToSamples(fadeOutFrames, fps, sampleRate)
	if fadeIn > n {
		fadeIn = n
	}
	if fadeOut > n {
		fadeOut = n
	}

	for i := 0; i < fadeIn; i++ {
		t := float64(i) / float64(fadeIn)
		g := t
		if equalPower {
			g = math.Sin(t * math.Pi / 2)
		}
		scaleSample(channels, i, g)
	}
	for i := 0; i < fadeOut; i++ {
		t := float64(i) / float64(fadeOut)
		g := t
		if equalPower {
			g = math.Sin(t * math.Pi / 2)
		}
		scaleSample(channels, n-1-i, g)
	}
}

func scaleSample(channels [][]float64, idx int, gain float64) {
	for c := range channels {
		if idx >= 0 && idx < len(channels[c]) {
			channels[c][idx] *= gain
		}
	}
}

func framesToSamples(frames, fps, sampleRate int) int {
	if frames <= 0 {
		return 0
	}
	return int(math.Round(float64(frames) / float64(fps) * float64(sampleRate)))
}
