package rcodec

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// Encoder is the codec facade's track-addition/finalize API: a format plus
// optional video/audio sources, started once, fed samples in order, and
// finalized into one container.
type Encoder struct {
	format Format
	video  *VideoSource
	audio  *AudioSource
	log    hclog.Logger

	backend muxer
	started bool
	frames  int
}

// NewEncoder builds an Encoder for format. video/audio may be nil when the
// format doesn't carry that track.
func NewEncoder(format Format, video *VideoSource, audio *AudioSource, log hclog.Logger) (*Encoder, error) {
	if format.HasVideo && video == nil {
		return nil, rerr.Wrapf(rerr.EncoderFatal, "format carries video but no VideoSource was supplied")
	}
	if format.HasAudio && audio == nil {
		return nil, rerr.Wrapf(rerr.EncoderFatal, "format carries audio but no AudioSource was supplied")
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	backend, err := newMuxer(format, video, audio, log)
	if err != nil {
		return nil, err
	}
	return &Encoder{format: format, video: video, audio: audio, log: log, backend: backend}, nil
}

// Start prepares the backend to accept samples.
func (e *Encoder) Start(ctx context.Context) error {
	if err := e.backend.start(ctx); err != nil {
		return err
	}
	e.started = true
	return nil
}

// SubmitAudio hands the encoder the complete mixed stereo buffer. Called
// once, before any video sample, per the orchestrator's sequencing.
func (e *Encoder) SubmitAudio(ctx context.Context, buf mediaio.AudioBuffer) error {
	if !e.started {
		return rerr.Wrapf(rerr.EncoderFatal, "encoder not started")
	}
	if !e.format.HasAudio {
		return nil
	}
	return e.backend.writeAudio(ctx, buf)
}

// SubmitVideoSample hands the encoder one frame, timestamp-ordered. The
// first submitted sample is always treated as a keyframe.
func (e *Encoder) SubmitVideoSample(ctx context.Context, sample VideoSample) error {
	if !e.started {
		return rerr.Wrapf(rerr.EncoderFatal, "encoder not started")
	}
	if !e.format.HasVideo {
		return rerr.Wrapf(rerr.EncoderFatal, "format carries no video track")
	}
	if e.frames == 0 {
		sample.Keyframe = true
	}
	e.frames++
	return e.backend.writeVideoFrame(ctx, sample)
}

// Finalize closes the backend and returns the completed container.
func (e *Encoder) Finalize(ctx context.Context) (mediaio.RenderResult, error) {
	bytes, err := e.backend.finalize(ctx)
	if err != nil {
		return mediaio.RenderResult{}, err
	}
	mime, err := MimeType(e.format.Container, e.format.VideoCodec)
	if err != nil {
		return mediaio.RenderResult{}, err
	}
	durationSeconds := float64(e.frames) / float64(max(e.format.FrameRate, 1))
	return mediaio.RenderResult{
		Bytes:           bytes,
		MimeType:        mime,
		DurationSeconds: durationSeconds,
		ByteSize:        int64(len(bytes)),
	}, nil
}

// Abort releases backend resources without producing output, used on
// cancellation.
func (e *Encoder) Abort() error {
	return e.backend.abort()
}
