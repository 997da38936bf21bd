package raudiomixer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantonx/reelforge/pkg/scene"
)

func buildAudioComposition() *scene.Composition {
	return &scene.Composition{
		ID: "c1", FPS: 30, DurationInFrames: 300, Width: 64, Height: 64,
		Tracks: []scene.Track{
			{ID: "t1", Order: 0, Visible: true, Items: []scene.TimelineItem{
				{ID: "v1", TrackID: "t1", Type: scene.ItemVideo, From: 0, DurationInFrames: 150,
					Video: &scene.VideoData{Src: "a.mp4", SourceEnd: 900, SourceDuration: 900}},
				{ID: "v2", TrackID: "t1", Type: scene.ItemVideo, From: 150, DurationInFrames: 150,
					Video: &scene.VideoData{Src: "b.mp4", SourceStart: 50, SourceEnd: 900, SourceDuration: 900}},
			}},
			{ID: "t2", Order: 1, Visible: true, Items: []scene.TimelineItem{
				{ID: "a1", TrackID: "t2", Type: scene.ItemAudio, From: 10, DurationInFrames: 60,
					Audio: &scene.AudioData{Src: "music.wav", SourceEnd: 300, SourceDuration: 300}},
			}},
		},
	}
}

func TestExtractSegmentsCoversVideoAndAudioItems(t *testing.T) {
	comp := buildAudioComposition()
	segs, err := ExtractSegments(context.Background(), comp, nil, nil)
	require.NoError(t, err)

	var sawVideo, sawAudio int
	for _, s := range segs {
		switch s.Type {
		case scene.ItemVideo:
			sawVideo++
		case scene.ItemAudio:
			sawAudio++
		}
	}
	assert.GreaterOrEqual(t, sawVideo, 1)
	assert.Equal(t, 1, sawAudio)
}

func TestExtractSegmentsSkipsMutedItems(t *testing.T) {
	comp := buildAudioComposition()
	comp.Tracks[0].Items[0].Muted = true
	comp.Tracks[1].Items[0].Audio.Muted = true

	segs, err := ExtractSegments(context.Background(), comp, nil, nil)
	require.NoError(t, err)

	for _, s := range segs {
		assert.NotEqual(t, "v1", s.ItemID)
		assert.NotEqual(t, "a1", s.ItemID)
	}
}

func TestExtractSegmentsSkipsMutedTrack(t *testing.T) {
	comp := buildAudioComposition()
	comp.Tracks[1].Muted = true

	segs, err := ExtractSegments(context.Background(), comp, nil, nil)
	require.NoError(t, err)

	for _, s := range segs {
		assert.NotEqual(t, "a1", s.ItemID)
	}
}

func TestVideoSegmentExpandsIntoTransitionWindow(t *testing.T) {
	comp := buildAudioComposition()
	comp.Transitions = []scene.Transition{
		{ID: "tr1", TrackID: "t1", LeftClipID: "v1", RightClipID: "v2",
			Presentation: scene.PresentationFade, DurationInFrames: 20, Timing: scene.EasingLinear},
	}

	segs, err := ExtractSegments(context.Background(), comp, nil, nil)
	require.NoError(t, err)

	var left, right *Segment
	for i := range segs {
		if segs[i].ItemID == "v1" {
			left = &segs[i]
		}
		if segs[i].ItemID == "v2" {
			right = &segs[i]
		}
	}
	require.NotNil(t, left)
	require.NotNil(t, right)
	assert.Greater(t, left.DurationFrames, 150)
	assert.True(t, left.UseEqualPowerFades)
	assert.Less(t, right.StartFrame, 150)
	assert.True(t, right.UseEqualPowerFades)
}

func TestMergeAdjacentCombinesContinuousSegments(t *testing.T) {
	segs := []Segment{
		{Src: "a.mp4", Type: scene.ItemVideo, StartFrame: 0, DurationFrames: 30, SourceStartFrame: 0, Speed: 1},
		{Src: "a.mp4", Type: scene.ItemVideo, StartFrame: 30, DurationFrames: 30, SourceStartFrame: 30, Speed: 1},
	}
	merged := mergeAdjacent(segs)
	require.Len(t, merged, 1)
	assert.Equal(t, 60, merged[0].DurationFrames)
}
