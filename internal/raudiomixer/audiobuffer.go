package raudiomixer

import (
	"github.com/go-audio/audio"

	"github.com/mantonx/reelforge/pkg/mediaio"
)

// toFloatBuffer converts a decoded per-channel buffer into the interleaved
// go-audio representation the rest of the pipeline passes around.
func toFloatBuffer(buf mediaio.AudioBuffer) *audio.FloatBuffer {
	numCh := len(buf.Channels)
	if numCh == 0 {
		return &audio.FloatBuffer{Format: &audio.Format{SampleRate: buf.SampleRate}}
	}
	n := len(buf.Channels[0])
	data := make([]float64, n*numCh)
	for s := 0; s < n; s++ {
		for c := 0; c < numCh; c++ {
			data[s*numCh+c] = float64(buf.Channels[c][s])
		}
	}
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: numCh, SampleRate: buf.SampleRate},
		Data:   data,
	}
}

// deinterleave splits an interleaved FloatBuffer into one slice per channel,
// the shape every DSP stage (gain, fades, stretch, resample) works in.
func deinterleave(fb *audio.FloatBuffer) [][]float64 {
	numCh := fb.Format.NumChannels
	if numCh == 0 || len(fb.Data) == 0 {
		return nil
	}
	n := len(fb.Data) / numCh
	out := make([][]float64, numCh)
	for c := range out {
		out[c] = make([]float64, n)
	}
	for s := 0; s < n; s++ {
		for c := 0; c < numCh; c++ {
			out[c][s] = fb.Data[s*numCh+c]
		}
	}
	return out
}

// interleave is deinterleave's inverse, re-packing processed channels back
// into a go-audio FloatBuffer for return across function boundaries.
func interleave(channels [][]float64, sampleRate int) *audio.FloatBuffer {
	numCh := len(channels)
	if numCh == 0 {
		return &audio.FloatBuffer{Format: &audio.Format{SampleRate: sampleRate}}
	}
	n := len(channels[0])
	data := make([]float64, n*numCh)
	for s := 0; s < n; s++ {
		for c := 0; c < numCh; c++ {
			data[s*numCh+c] = channels[c][s]
		}
	}
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: numCh, SampleRate: sampleRate},
		Data:   data,
	}
}

// toStereo channel-cycles a mono source to stereo, or truncates a
// multichannel source down to its first two channels.
func toStereo(channels [][]float64) [][]float64 {
	switch len(channels) {
	case 0:
		return nil
	case 1:
		return [][]float64{channels[0], channels[0]}
	default:
		return [][]float64{channels[0], channels[1]}
	}
}
