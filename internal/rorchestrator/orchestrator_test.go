package rorchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantonx/reelforge/internal/rcodec"
	"github.com/mantonx/reelforge/internal/rconfig"
	"github.com/mantonx/reelforge/pkg/mediaio"
	"github.com/mantonx/reelforge/pkg/scene"
)

// fakeStore answers every audio decode with silence of the requested
// length at 48 kHz and is never asked for images or video in these
// audio-only tests.
type fakeStore struct{}

func (fakeStore) FetchBytes(ctx context.Context, srcOrMediaID string) ([]byte, error) {
	return nil, assert.AnError
}

func (fakeStore) DecodeAudioRange(ctx context.Context, src string, startSeconds, endSeconds float64) (mediaio.AudioBuffer, error) {
	n := int((endSeconds - startSeconds) * 48000)
	if n < 0 {
		n = 0
	}
	return mediaio.AudioBuffer{SampleRate: 48000, Channels: [][]float32{make([]float32, n), make([]float32, n)}}, nil
}

func (fakeStore) CreateVideoFrameReader(ctx context.Context, src string) (mediaio.VideoFrameReader, error) {
	return nil, assert.AnError
}

func audioOnlyComposition() *scene.Composition {
	return &scene.Composition{
		ID:               "c1",
		FPS:              30,
		DurationInFrames: 30,
		Width:            640,
		Height:           360,
		BackgroundColor:  "#000000",
		Tracks: []scene.Track{
			{
				ID: "t1", Order: 0, Visible: true,
				Items: []scene.TimelineItem{
					{
						ID: "a1", TrackID: "t1", Type: scene.ItemAudio,
						From: 0, DurationInFrames: 30,
						Audio: &scene.AudioData{Src: "song.wav", SourceEnd: 30},
					},
				},
			},
		},
	}
}

func TestRenderAudioOnlyProducesWavBytes(t *testing.T) {
	orch := New(fakeStore{}, nil, nil, rconfig.Default(), nil)

	var progressed []mediaio.Progress
	result, err := orch.Render(context.Background(), audioOnlyComposition(), ExportOptions{Container: rcodec.ContainerWAV}, func(p mediaio.Progress) {
		progressed = append(progressed, p)
	})
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", result.MimeType)
	assert.Greater(t, result.ByteSize, int64(0))
	assert.NotEmpty(t, progressed)
}

func TestRenderRejectsEmptyComposition(t *testing.T) {
	orch := New(fakeStore{}, nil, nil, rconfig.Default(), nil)

	comp := audioOnlyComposition()
	comp.DurationInFrames = 0

	_, err := orch.Render(context.Background(), comp, ExportOptions{Container: rcodec.ContainerWAV}, nil)
	assert.Error(t, err)
}

func TestRenderCancelledBeforeStartReturnsCancelled(t *testing.T) {
	orch := New(fakeStore{}, nil, nil, rconfig.Default(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Render(ctx, audioOnlyComposition(), ExportOptions{Container: rcodec.ContainerWAV}, nil)
	assert.Error(t, err)
}

func TestCompositionHasAudioDetectsStandaloneAudioItem(t *testing.T) {
	assert.True(t, compositionHasAudio(audioOnlyComposition()))
}

func TestCompositionHasAudioDetectsNonMutedVideoItem(t *testing.T) {
	comp := &scene.Composition{
		Tracks: []scene.Track{{Items: []scene.TimelineItem{
			{ID: "v1", Type: scene.ItemVideo, Video: &scene.VideoData{Src: "clip.mp4"}},
		}}},
	}
	assert.True(t, compositionHasAudio(comp))
}

func TestCompositionHasAudioIgnoresMutedVideoItem(t *testing.T) {
	comp := &scene.Composition{
		Tracks: []scene.Track{{Items: []scene.TimelineItem{
			{ID: "v1", Type: scene.ItemVideo, Muted: true, Video: &scene.VideoData{Src: "clip.mp4"}},
		}}},
	}
	assert.False(t, compositionHasAudio(comp))
}

func TestCompositionHasAudioDetectsSubComposition(t *testing.T) {
	comp := &scene.Composition{
		Tracks: []scene.Track{{Items: []scene.TimelineItem{
			{ID: "sub1", Type: scene.ItemComposition, Composition: &scene.CompositionData{CompositionID: "inner"}},
		}}},
	}
	assert.True(t, compositionHasAudio(comp))
}

func TestCompositionHasAudioFalseForPurelyVisualComposition(t *testing.T) {
	comp := &scene.Composition{
		Tracks: []scene.Track{{Items: []scene.TimelineItem{
			{ID: "t1", Type: scene.ItemText, Text: &scene.TextData{Text: "hi"}},
			{ID: "s1", Type: scene.ItemShape, Shape: &scene.ShapeData{ShapeType: scene.ShapeRectangle}},
		}}},
	}
	assert.False(t, compositionHasAudio(comp))
}

func TestBuildFormatProducesVideoAndAudioSourcesWhenBothPresent(t *testing.T) {
	orch := New(fakeStore{}, nil, nil, rconfig.Default(), nil)

	format, video, audio, err := orch.buildFormat(ExportOptions{Container: rcodec.ContainerMP4}, 1280, 720, 30, true, true)
	require.NoError(t, err)
	require.NotNil(t, video)
	require.NotNil(t, audio)
	assert.True(t, format.HasVideo)
	assert.True(t, format.HasAudio)
}
