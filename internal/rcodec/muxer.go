package rcodec

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/reelforge/pkg/mediaio"
)

// muxer is the backend an Encoder drives: one implementation per family of
// container (pure-Go for wav, a subprocess-backed one for everything that
// needs real video/audio compression).
type muxer interface {
	start(ctx context.Context) error
	writeVideoFrame(ctx context.Context, sample VideoSample) error
	writeAudio(ctx context.Context, buf mediaio.AudioBuffer) error
	finalize(ctx context.Context) ([]byte, error)
	abort() error
}

func newMuxer(format Format, video *VideoSource, audio *AudioSource, log hclog.Logger) (muxer, error) {
	if format.Container == ContainerWAV {
		return newWavMuxer(format), nil
	}
	return newFFmpegMuxer(format, video, audio, log), nil
}
