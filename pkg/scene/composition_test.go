package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validComposition() *Composition {
	return &Composition{
		ID:               "c1",
		FPS:              30,
		DurationInFrames: 60,
		Width:            640,
		Height:           360,
		Tracks: []Track{
			{
				ID: "t1", Order: 0, Visible: true,
				Items: []TimelineItem{
					{ID: "a", TrackID: "t1", Type: ItemVideo, From: 0, DurationInFrames: 30},
					{ID: "b", TrackID: "t1", Type: ItemVideo, From: 30, DurationInFrames: 30},
				},
			},
		},
	}
}

func TestValidateAcceptsWellFormedComposition(t *testing.T) {
	assert.NoError(t, validComposition().Validate())
}

func TestValidateRejectsZeroDuration(t *testing.T) {
	c := validComposition()
	c.DurationInFrames = 0
	assert.Error(t, c.Validate())
}

func TestValidateRejectsOutOfRangeFPS(t *testing.T) {
	c := validComposition()
	c.FPS = 0
	assert.Error(t, c.Validate())

	c2 := validComposition()
	c2.FPS = 121
	assert.Error(t, c2.Validate())
}

func TestValidateRejectsOddDimensions(t *testing.T) {
	c := validComposition()
	c.Width = 641
	assert.Error(t, c.Validate())
}

func TestValidateRejectsNonPositiveDimensions(t *testing.T) {
	c := validComposition()
	c.Height = 0
	assert.Error(t, c.Validate())
}

func TestValidateRejectsDuplicateItemIDs(t *testing.T) {
	c := validComposition()
	c.Tracks[0].Items[1].ID = "a"
	assert.Error(t, c.Validate())
}

func TestValidateRejectsTransitionWithMissingClip(t *testing.T) {
	c := validComposition()
	c.Transitions = []Transition{
		{ID: "tr1", TrackID: "t1", LeftClipID: "a", RightClipID: "missing", Presentation: PresentationFade, DurationInFrames: 5},
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsTransitionAcrossTracks(t *testing.T) {
	c := validComposition()
	c.Tracks = append(c.Tracks, Track{
		ID: "t2", Order: 1,
		Items: []TimelineItem{{ID: "x", TrackID: "t2", Type: ItemVideo, From: 0, DurationInFrames: 10}},
	})
	c.Transitions = []Transition{
		{ID: "tr1", TrackID: "t1", LeftClipID: "a", RightClipID: "x", Presentation: PresentationFade, DurationInFrames: 5},
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsTransitionOnNonVisualClips(t *testing.T) {
	c := validComposition()
	c.Tracks[0].Items[1].Type = ItemAudio
	c.Transitions = []Transition{
		{ID: "tr1", TrackID: "t1", LeftClipID: "a", RightClipID: "b", Presentation: PresentationFade, DurationInFrames: 5},
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsTransitionDurationNotLessThanShorterClip(t *testing.T) {
	c := validComposition()
	c.Transitions = []Transition{
		{ID: "tr1", TrackID: "t1", LeftClipID: "a", RightClipID: "b", Presentation: PresentationFade, DurationInFrames: 30},
	}
	assert.Error(t, c.Validate())
}

func TestValidateAcceptsValidTransition(t *testing.T) {
	c := validComposition()
	c.Transitions = []Transition{
		{ID: "tr1", TrackID: "t1", LeftClipID: "a", RightClipID: "b", Presentation: PresentationFade, DurationInFrames: 10},
	}
	assert.NoError(t, c.Validate())
}

func TestRangeHasRange(t *testing.T) {
	assert.False(t, Range{}.HasRange())
	assert.False(t, Range{InPoint: 10, OutPoint: 10}.HasRange())
	assert.False(t, Range{InPoint: 10, OutPoint: 5}.HasRange())
	assert.True(t, Range{InPoint: 0, OutPoint: 10}.HasRange())
}

func TestItemByIDIndexesEveryTrack(t *testing.T) {
	c := validComposition()
	idx := c.ItemByID()
	assert.Len(t, idx, 2)
	assert.Equal(t, "a", idx["a"].ID)
	assert.Equal(t, "b", idx["b"].ID)
}

func TestKeyframesByItemIDIndexesByItemID(t *testing.T) {
	c := validComposition()
	c.Keyframes = []ItemKeyframes{{ItemID: "a"}, {ItemID: "b"}}
	idx := c.KeyframesByItemID()
	assert.Len(t, idx, 2)
	assert.Contains(t, idx, "a")
	assert.Contains(t, idx, "b")
}
