package rcodec

import (
	"context"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

const wavBitDepth = 16

// wavMuxer writes a single PCM-s16 audio buffer straight to a WAV
// container via go-audio/wav, bypassing any subprocess encoder since WAV
// needs no compression.
type wavMuxer struct {
	format Format
	file   *os.File
	path   string
}

func newWavMuxer(format Format) *wavMuxer {
	return &wavMuxer{format: format}
}

func (m *wavMuxer) start(ctx context.Context) error {
	f, err := os.CreateTemp("", "reelforge-*.wav")
	if err != nil {
		return rerr.Wrap(rerr.EncoderFatal, err)
	}
	m.file = f
	m.path = f.Name()
	return nil
}

func (m *wavMuxer) writeVideoFrame(ctx context.Context, sample VideoSample) error {
	return rerr.Wrapf(rerr.CodecUnsupported, "wav container carries no video track")
}

func (m *wavMuxer) writeAudio(ctx context.Context, buf mediaio.AudioBuffer) error {
	if m.file == nil {
		return rerr.Wrapf(rerr.EncoderFatal, "wav muxer not started")
	}
	numChans := len(buf.Channels)
	if numChans == 0 {
		return nil
	}
	enc := wav.NewEncoder(m.file, buf.SampleRate, wavBitDepth, numChans, 1)

	numFrames := len(buf.Channels[0])
	data := make([]int, numFrames*numChans)
	for s := 0; s < numFrames; s++ {
		for c := 0; c < numChans; c++ {
			data[s*numChans+c] = floatToPCM16(float64(buf.Channels[c][s]))
		}
	}

	intBuf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: numChans, SampleRate: buf.SampleRate},
		Data:   data,
	}
	if err := enc.Write(intBuf); err != nil {
		return rerr.Wrap(rerr.EncoderFatal, err)
	}
	if err := enc.Close(); err != nil {
		return rerr.Wrap(rerr.EncoderFatal, err)
	}
	return nil
}

func (m *wavMuxer) finalize(ctx context.Context) ([]byte, error) {
	if m.file == nil {
		return nil, rerr.Wrapf(rerr.EncoderFatal, "wav muxer not started")
	}
	if err := m.file.Close(); err != nil {
		return nil, rerr.Wrap(rerr.EncoderFatal, err)
	}
	bytes, err := os.ReadFile(m.path)
	os.Remove(m.path)
	if err != nil {
		return nil, rerr.Wrap(rerr.EncoderFatal, err)
	}
	return bytes, nil
}

func (m *wavMuxer) abort() error {
	if m.file != nil {
		m.file.Close()
	}
	if m.path != "" {
		os.Remove(m.path)
	}
	return nil
}

func floatToPCM16(v float64) int {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int(v * 32767)
}
