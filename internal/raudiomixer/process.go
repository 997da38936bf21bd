package raudiomixer

import (
	"context"
	"math"

	"github.com/go-audio/audio"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// processSegment decodes seg's source range, time-stretches it to its
// timeline duration if sped up/down, applies gain and fades, resamples to
// the mixdown's sample rate, and returns the resulting stereo buffer along
// with the sample offset it belongs at in the output.
func processSegment(ctx context.Context, store mediaio.MediaStore, seg Segment, targetSampleRate int) (*audio.FloatBuffer, int, error) {
	sourceStartSeconds := float64(seg.SourceStartFrame) / float64(seg.FPS)
	sourceEndSeconds := sourceStartSeconds + float64(seg.DurationFrames)*seg.Speed/float64(seg.FPS)

	raw, err := store.DecodeAudioRange(ctx, seg.Src, sourceStartSeconds, sourceEndSeconds)
	if err != nil {
		return nil, 0, rerr.Wrapf(rerr.MediaUnavailable, "decode audio range %s [%.3f,%.3f]: %v", seg.Src, sourceStartSeconds, sourceEndSeconds, err)
	}
	if len(raw.Channels) == 0 {
		return nil, 0, nil
	}

	channels := deinterleave(toFloatBuffer(raw))

	if seg.Speed != 1 {
		channels = TimeStretchWSOLA(channels, seg.Speed, raw.SampleRate)
	}

	if seg.VolumeKeyframes != nil {
		applyKeyframedGain(channels, seg.VolumeKeyframes, seg.FPS, raw.SampleRate)
	} else {
		applyStaticGain(channels, seg.VolumeDB)
	}

	applyFades(channels, seg.FadeInFrames, seg.FadeOutFrames, seg.FPS, raw.SampleRate, seg.UseEqualPowerFades)

	resampled := Resample(channels, raw.SampleRate, targetSampleRate)
	stereo := toStereo(resampled)

	startSample := int(math.Floor(float64(seg.StartFrame) / float64(seg.FPS) * float64(targetSampleRate)))
	return interleave(stereo, targetSampleRate), startSample, nil
}
