package rmediastore

import (
	"os"

	"github.com/go-audio/wav"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// decodeWavRange decodes [startSeconds, endSeconds) of a wav file into
// per-channel float32 PCM, normalized to [-1, 1] by the source bit depth.
func decodeWavRange(path string, startSeconds, endSeconds float64) (mediaio.AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return mediaio.AudioBuffer{}, rerr.Wrap(rerr.MediaUnavailable, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return mediaio.AudioBuffer{}, rerr.Wrapf(rerr.MediaUnavailable, "not a valid wav file: %s", path)
	}

	sampleRate := int(dec.SampleRate)
	numChans := int(dec.NumChans)
	if numChans == 0 || sampleRate == 0 {
		return mediaio.AudioBuffer{}, rerr.Wrapf(rerr.MediaUnavailable, "wav file has no audio format: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return mediaio.AudioBuffer{}, rerr.Wrap(rerr.DecodeRecoverable, err)
	}

	totalFrames := len(buf.Data) / numChans
	startSample := clampSample(int(startSeconds*float64(sampleRate)), 0, totalFrames)
	endSample := clampSample(int(endSeconds*float64(sampleRate)), startSample, totalFrames)

	n := endSample - startSample
	channels := make([][]float32, numChans)
	for c := range channels {
		channels[c] = make([]float32, n)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	maxVal := float32(int(1) << uint(bitDepth-1))

	for s := 0; s < n; s++ {
		for c := 0; c < numChans; c++ {
			channels[c][s] = float32(buf.Data[(startSample+s)*numChans+c]) / maxVal
		}
	}

	return mediaio.AudioBuffer{SampleRate: sampleRate, Channels: channels}, nil
}

func clampSample(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
