package rcodec

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantonx/reelforge/pkg/mediaio"
)

func TestNewEncoderRequiresVideoSourceWhenFormatHasVideo(t *testing.T) {
	format, err := CreateFormat(ContainerMP4, FormatOptions{Width: 64, Height: 64, FrameRate: 30, HasVideo: true})
	require.NoError(t, err)

	_, err = NewEncoder(format, nil, nil, nil)
	assert.Error(t, err)
}

func TestWavEncoderRoundTripProducesValidRIFFHeader(t *testing.T) {
	format, err := CreateFormat(ContainerWAV, FormatOptions{Width: 2, Height: 2, FrameRate: 30, HasAudio: true})
	require.NoError(t, err)
	audio := CreateAudioSource(AudioPCMS16, 0)

	enc, err := NewEncoder(format, nil, &audio, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, enc.Start(ctx))

	buf := mediaio.AudioBuffer{
		SampleRate: 48000,
		Channels:   [][]float32{{0.1, 0.2, -0.1}, {0.1, 0.2, -0.1}},
	}
	require.NoError(t, enc.SubmitAudio(ctx, buf))

	result, err := enc.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", result.MimeType)
	assert.Greater(t, result.ByteSize, int64(0))
	assert.True(t, bytes.HasPrefix(result.Bytes, []byte("RIFF")))
	assert.Contains(t, string(result.Bytes[:12]), "WAVE")
}

func TestEncoderRejectsVideoSampleWhenFormatHasNoVideoTrack(t *testing.T) {
	format, err := CreateFormat(ContainerWAV, FormatOptions{Width: 2, Height: 2, FrameRate: 30, HasAudio: true})
	require.NoError(t, err)
	audio := CreateAudioSource(AudioPCMS16, 0)

	enc, err := NewEncoder(format, nil, &audio, nil)
	require.NoError(t, err)
	require.NoError(t, enc.Start(context.Background()))

	err = enc.SubmitVideoSample(context.Background(), VideoSample{})
	assert.Error(t, err)
}
