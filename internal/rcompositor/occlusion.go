package rcompositor

import (
	"math"

	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/pkg/scene"
)

// occlusionCutoff scans tracks front-to-back (ascending Order — higher
// Order renders further behind) for the first item that fully occludes the
// canvas on its own, so every track behind it can be skipped. It returns
// the cutoff Order and whether one was found; disabled outright whenever
// any mask is active, since a mask can punch through an otherwise opaque
// item.
func occlusionCutoff(
	comp *scene.Composition,
	byID map[string]*scene.TimelineItem,
	keyframes map[string]*scene.ItemKeyframes,
	f int,
	canvas rkeyframe.CanvasSize,
	excluded map[string]bool,
	hasActiveMask bool,
) (cutoff int, enabled bool) {
	if hasActiveMask {
		return 0, false
	}

	ascending := ascendingByOrder(comp.Tracks)
	for _, track := range ascending {
		if !track.Visible {
			continue
		}
		for i := range track.Items {
			item := &track.Items[i]
			if !item.ActiveAt(f) {
				continue
			}
			if fullyOccludes(item, track.Order, keyframes, f, canvas, excluded) {
				return track.Order, true
			}
		}
	}
	return 0, false
}

func ascendingByOrder(tracks []scene.Track) []scene.Track {
	sorted := make([]scene.Track, len(tracks))
	copy(sorted, tracks)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Order > sorted[j].Order; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted
}

func fullyOccludes(
	item *scene.TimelineItem,
	trackOrder int,
	keyframes map[string]*scene.ItemKeyframes,
	f int,
	canvas rkeyframe.CanvasSize,
	excluded map[string]bool,
) bool {
	if item.Type != scene.ItemVideo && item.Type != scene.ItemImage {
		return false
	}
	if excluded[item.ID] {
		return false
	}

	transform := rkeyframe.GetAnimatedTransform(item, keyframes[item.ID], float64(f-item.From), canvas)
	if transform.Opacity != 1 {
		return false
	}
	rot := math.Mod(transform.Rotation, 360)
	if rot < 0 {
		rot += 360
	}
	if rot != 0 && rot != 180 {
		return false
	}
	if transform.CornerRadius != 0 {
		return false
	}
	if transform.X > 0 || transform.Y > 0 ||
		transform.X+transform.Width < float64(canvas.Width) ||
		transform.Y+transform.Height < float64(canvas.Height) {
		return false
	}
	for _, eff := range item.Effects {
		if eff.Enabled && eff.IntroducesTransparency() {
			return false
		}
	}
	return true
}
