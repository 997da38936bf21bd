package rtransition

import (
	"testing"

	"github.com/mantonx/reelforge/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildComp() *scene.Composition {
	return &scene.Composition{
		ID: "c1", FPS: 30, DurationInFrames: 300, Width: 1920, Height: 1080,
		Tracks: []scene.Track{{
			ID: "t1", Order: 0,
			Items: []scene.TimelineItem{
				{ID: "a", TrackID: "t1", Type: scene.ItemVideo, From: 0, DurationInFrames: 90, Video: &scene.VideoData{SourceDuration: 300, SourceEnd: 90}},
				{ID: "b", TrackID: "t1", Type: scene.ItemVideo, From: 90, DurationInFrames: 90, Video: &scene.VideoData{SourceStart: 0, SourceDuration: 300, SourceEnd: 90}},
			},
		}},
		Transitions: []scene.Transition{{
			ID: "tr1", TrackID: "t1", LeftClipID: "a", RightClipID: "b",
			Presentation: scene.PresentationFade, DurationInFrames: 20, Timing: scene.EasingLinear,
		}},
	}
}

func TestPlanComputesCutPointAndSymmetricWindow(t *testing.T) {
	windows := Plan(buildComp())
	require.Len(t, windows, 1)
	w := windows[0]
	assert.Equal(t, 90, w.CutPoint)
	assert.Equal(t, 80, w.StartFrame)
	assert.Equal(t, 100, w.EndFrame)
}

func TestActiveWindowsAndExclusion(t *testing.T) {
	windows := Plan(buildComp())
	active := ActiveWindows(windows, 85)
	require.Len(t, active, 1)
	excluded := ExcludedClipIDs(active)
	assert.True(t, excluded["a"])
	assert.True(t, excluded["b"])

	assert.Empty(t, ActiveWindows(windows, 200))
}

func TestProgressClampsAndEases(t *testing.T) {
	windows := Plan(buildComp())
	w := windows[0]
	assert.Equal(t, 0.0, w.Progress(w.StartFrame))
	assert.Equal(t, 1.0, w.Progress(w.EndFrame+50))
	assert.InDelta(t, 0.5, w.Progress((w.StartFrame+w.EndFrame)/2), 0.1)
}

func TestRegistryResolvesBuiltins(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []scene.Presentation{
		scene.PresentationFade, scene.PresentationWipe, scene.PresentationSlide,
		scene.PresentationFlip, scene.PresentationClockWipe, scene.PresentationIris, scene.PresentationNone,
	} {
		_, ok := reg.Get(name)
		assert.True(t, ok, "expected builtin presenter for %s", name)
	}
	_, ok := reg.Get(scene.Presentation("unknown"))
	assert.False(t, ok)
}
