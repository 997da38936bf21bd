// Package raudiomixer mixes a composition's audio down to one stereo PCM
// buffer: segment extraction from the timeline, per-segment decode, time
// stretch, gain, fades, resampling, additive mixdown, and soft-clip limiting.
package raudiomixer

import (
	"context"
	"math"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/internal/rresolve"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// defaultConcurrency bounds how many segments decode at once when the
// caller doesn't specify one.
const defaultConcurrency = 4

// Mixer produces the mixed-down audio buffer for a normalized composition.
type Mixer struct {
	store       mediaio.MediaStore
	resolve     SubCompositionResolver
	log         hclog.Logger
	concurrency int
}

// New builds a Mixer. concurrency <= 0 falls back to defaultConcurrency.
func New(store mediaio.MediaStore, resolve SubCompositionResolver, log hclog.Logger, concurrency int) *Mixer {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Mixer{store: store, resolve: resolve, log: log, concurrency: concurrency}
}

// Mix renders norm's full audio down to sampleRate stereo PCM covering
// [0, durationInFrames/fps) seconds.
func (m *Mixer) Mix(ctx context.Context, norm *rresolve.Normalized, sampleRate int) (mediaio.AudioBuffer, error) {
	if err := ctx.Err(); err != nil {
		return mediaio.AudioBuffer{}, rerr.Wrap(rerr.Cancelled, err)
	}

	comp := norm.Composition
	segments, err := ExtractSegments(ctx, comp, norm.Keyframes, m.resolve)
	if err != nil {
		return mediaio.AudioBuffer{}, err
	}

	totalSamples := int(math.Round(float64(comp.DurationInFrames) / float64(comp.FPS) * float64(sampleRate)))
	output := [2][]float64{make([]float64, totalSamples), make([]float64, totalSamples)}

	type segmentResult struct {
		startSample int
		channels    [][]float64
	}
	results := make([]*segmentResult, len(segments))

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i := range segments {
		i := i
		seg := segments[i]
		g.Go(func() error {
			fb, startSample, err := processSegment(ctx, m.store, seg, sampleRate)
			if err != nil {
				if m.log != nil {
					m.log.Warn("skipping audio segment after decode/process failure", "item", seg.ItemID, "err", err)
				}
				return nil
			}
			if fb == nil {
				return nil
			}
			results[i] = &segmentResult{startSample: startSample, channels: toStereo(deinterleave(fb))}
			return nil
		})
	}
	// Every goroutine above swallows its own error, so Wait can't fail —
	// segment failures are isolated per §4.8.3, not propagated to the mix.
	_ = g.Wait()

	for _, r := range results {
		if r == nil {
			continue
		}
		mixInto(output, r.channels, r.startSample)
	}

	clipped := [][]float64{output[0], output[1]}
	softClip(clipped)

	return mediaio.AudioBuffer{SampleRate: sampleRate, Channels: toFloat32Channels(clipped)}, nil
}

func mixInto(output [2][]float64, channels [][]float64, startSample int) {
	if len(channels) < 2 {
		return
	}
	for s := range channels[0] {
		idx := startSample + s
		if idx < 0 || idx >= len(output[0]) {
			continue
		}
		output[0][idx] += channels[0][s]
		output[1][idx] += channels[1][s]
	}
}

func toFloat32Channels(channels [][]float64) [][]float32 {
	out := make([][]float32, len(channels))
	for c := range channels {
		out[c] = make([]float32, len(channels[c]))
		for i, v := range channels[c] {
			out[c][i] = float32(v)
		}
	}
	return out
}
