package raudiomixer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantonx/reelforge/internal/rresolve"
	"github.com/mantonx/reelforge/pkg/mediaio"
	"github.com/mantonx/reelforge/pkg/scene"
)

type fakeAudioStore struct {
	fail bool
}

func (f *fakeAudioStore) FetchBytes(ctx context.Context, src string) ([]byte, error) { return nil, nil }

func (f *fakeAudioStore) DecodeAudioRange(ctx context.Context, src string, start, end float64) (mediaio.AudioBuffer, error) {
	if f.fail {
		return mediaio.AudioBuffer{}, assert.AnError
	}
	n := int((end - start) * 48000)
	if n <= 0 {
		n = 1
	}
	ch := make([]float32, n)
	for i := range ch {
		ch[i] = 0.25
	}
	return mediaio.AudioBuffer{SampleRate: 48000, Channels: [][]float32{ch, ch}}, nil
}

func (f *fakeAudioStore) CreateVideoFrameReader(ctx context.Context, src string) (mediaio.VideoFrameReader, error) {
	return nil, assert.AnError
}

func buildMixableComposition() *scene.Composition {
	return &scene.Composition{
		ID: "c1", FPS: 30, DurationInFrames: 60, Width: 16, Height: 16,
		Tracks: []scene.Track{
			{ID: "t1", Order: 0, Visible: true, Items: []scene.TimelineItem{
				{ID: "a1", TrackID: "t1", Type: scene.ItemAudio, From: 0, DurationInFrames: 60,
					Audio: &scene.AudioData{Src: "music.wav", SourceEnd: 60, SourceDuration: 60}},
			}},
		},
	}
}

func TestMixProducesNonSilentStereoBuffer(t *testing.T) {
	comp := buildMixableComposition()
	norm, err := rresolve.Normalize(comp, nil)
	require.NoError(t, err)

	m := New(&fakeAudioStore{}, nil, nil, 2)
	buf, err := m.Mix(context.Background(), norm, 48000)
	require.NoError(t, err)

	require.Len(t, buf.Channels, 2)
	assert.Equal(t, 48000, buf.SampleRate)
	assert.Len(t, buf.Channels[0], 96000) // 60 frames / 30 fps * 48000

	var sum float32
	for _, v := range buf.Channels[0] {
		sum += v
	}
	assert.NotZero(t, sum)
}

func TestMixIsolatesSegmentDecodeFailures(t *testing.T) {
	comp := buildMixableComposition()
	norm, err := rresolve.Normalize(comp, nil)
	require.NoError(t, err)

	m := New(&fakeAudioStore{fail: true}, nil, nil, 2)
	buf, err := m.Mix(context.Background(), norm, 48000)
	require.NoError(t, err)
	assert.Len(t, buf.Channels[0], 96000)
	for _, v := range buf.Channels[0] {
		assert.Zero(t, v)
	}
}

func TestMixHonorsCancellation(t *testing.T) {
	comp := buildMixableComposition()
	norm, err := rresolve.Normalize(comp, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(&fakeAudioStore{}, nil, nil, 2)
	_, err = m.Mix(ctx, norm, 48000)
	assert.Error(t, err)
}
