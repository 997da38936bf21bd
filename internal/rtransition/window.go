// Package rtransition plans transition windows from a composition's
// transitions[] and renders them through a pluggable presentation
// registry (fade, wipe, slide, flip, clockWipe, iris, and a plain cut).
package rtransition

import (
	"math"

	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/pkg/scene"
)

// Window is one planned transition, with its active frame span already
// resolved from the transition's alignment and duration.
type Window struct {
	TransitionID string
	TrackID      string
	LeftClipID   string
	RightClipID  string
	Presentation scene.Presentation
	Direction    scene.Direction
	Timing       scene.Easing
	BezierPoints []float64

	CutPoint   int
	StartFrame int
	EndFrame   int
	Duration   int

	LeftHandle  float64
	RightHandle float64
}

// ActiveAt reports whether the window covers timeline frame f.
func (w *Window) ActiveAt(f int) bool {
	return f >= w.StartFrame && f < w.EndFrame
}

// Progress returns the window's eased [0,1] completion at frame f.
func (w *Window) Progress(f int) float64 {
	denom := w.Duration - 1
	if denom < 1 {
		denom = 1
	}
	t := float64(f-w.StartFrame) / float64(denom)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	var cfg *scene.EasingConfig
	if len(w.BezierPoints) > 0 {
		cfg = &scene.EasingConfig{BezierPoints: w.BezierPoints}
	}
	return rkeyframe.Apply(w.Timing, t, cfg)
}

// Plan computes one Window per transition in comp, using clip lookup for
// handle availability. Transitions referencing missing clips are skipped
// (the resolver is expected to have already dropped those).
func Plan(comp *scene.Composition) []Window {
	byID := comp.ItemByID()
	windows := make([]Window, 0, len(comp.Transitions))

	for _, tr := range comp.Transitions {
		left, ok := byID[tr.LeftClipID]
		if !ok {
			continue
		}
		right, ok := byID[tr.RightClipID]
		if !ok {
			continue
		}

		cutPoint := left.From + left.DurationInFrames
		alignment := tr.EffectiveAlignment()
		leftPortion := int(math.Floor(float64(tr.DurationInFrames) * alignment))
		rightPortion := tr.DurationInFrames - leftPortion

		windows = append(windows, Window{
			TransitionID: tr.ID,
			TrackID:      tr.TrackID,
			LeftClipID:   tr.LeftClipID,
			RightClipID:  tr.RightClipID,
			Presentation: tr.Presentation,
			Direction:    tr.Direction,
			Timing:       tr.Timing,
			BezierPoints: tr.BezierPoints,
			CutPoint:     cutPoint,
			StartFrame:   cutPoint - leftPortion,
			EndFrame:     cutPoint + rightPortion,
			Duration:     tr.DurationInFrames,
			LeftHandle:   leftHandle(left),
			RightHandle:  rightHandle(right),
		})
	}
	return windows
}

// ActiveWindows filters windows to those covering frame f.
func ActiveWindows(windows []Window, f int) []Window {
	var active []Window
	for _, w := range windows {
		if w.ActiveAt(f) {
			active = append(active, w)
		}
	}
	return active
}

// ExcludedClipIDs returns the set of clip IDs participating in any active
// window — these are rendered by the transition compositor instead of the
// normal per-item path on this frame.
func ExcludedClipIDs(active []Window) map[string]bool {
	excluded := make(map[string]bool, len(active)*2)
	for _, w := range active {
		excluded[w.LeftClipID] = true
		excluded[w.RightClipID] = true
	}
	return excluded
}

// leftHandle is the available tail of the outgoing clip: how much more
// source material exists past its current out point, in timeline frames.
// Insufficient handle is never fatal — presentations fall back to a
// mirror/freeze of the last available frame.
func leftHandle(item *scene.TimelineItem) float64 {
	switch item.Type {
	case scene.ItemVideo:
		if item.Video == nil {
			return math.Inf(1)
		}
		speed := item.EffectiveSpeed()
		if speed <= 0 {
			speed = 1
		}
		remaining := float64(item.Video.SourceDuration - item.Video.SourceEnd)
		if remaining < 0 {
			remaining = 0
		}
		return remaining / speed
	case scene.ItemAudio:
		return 0
	default:
		return math.Inf(1)
	}
}

// rightHandle is the available head of the incoming clip: how much source
// material exists before its current in point.
func rightHandle(item *scene.TimelineItem) float64 {
	if item.Type != scene.ItemVideo || item.Video == nil {
		return math.Inf(1)
	}
	speed := item.EffectiveSpeed()
	if speed <= 0 {
		speed = 1
	}
	return float64(item.Video.SourceStart) / speed
}
