package rcompositor

import (
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/reelforge/internal/reffects"
	"github.com/mantonx/reelforge/pkg/scene"
)

// combinedEffects collects every effect that should apply to an item sitting
// on trackOrder: adjustment-layer effects from layers with a lower track
// order (rendered in front, looking down through the stack), in ascending
// adjustment-layer order, followed by the item's own enabled effects.
func combinedEffects(comp *scene.Composition, trackOrder int, f int, own []scene.ItemEffect) []scene.ItemEffect {
	type adjLayer struct {
		order   int
		effects []scene.ItemEffect
	}
	var layers []adjLayer
	for _, track := range comp.Tracks {
		for i := range track.Items {
			item := &track.Items[i]
			if item.Type != scene.ItemAdjustment || item.Adjustment == nil {
				continue
			}
			if track.Order >= trackOrder || !item.ActiveAt(f) {
				continue
			}
			layers = append(layers, adjLayer{order: track.Order, effects: item.Adjustment.Effects})
		}
	}
	for i := 1; i < len(layers); i++ {
		for j := i; j > 0 && layers[j-1].order > layers[j].order; j-- {
			layers[j-1], layers[j] = layers[j], layers[j-1]
		}
	}

	var combined []scene.ItemEffect
	for _, l := range layers {
		combined = append(combined, l.effects...)
	}
	combined = append(combined, own...)
	return combined
}

// applyEffects runs every enabled effect over img in order.
func applyEffects(img *image.RGBA, effects []scene.ItemEffect, frame int, speed float64, log hclog.Logger) {
	for _, eff := range effects {
		if !eff.Enabled {
			continue
		}
		switch eff.Kind {
		case scene.EffectCSSFilter:
			if eff.CSSFilter != nil {
				reffects.ApplyCSSFilters(img, []scene.CSSFilter{*eff.CSSFilter})
			}
		case scene.EffectGlitch:
			if eff.Glitch != nil {
				reffects.ApplyGlitch(img, eff.Glitch, frame, speed)
			}
		case scene.EffectHalftone:
			if eff.Halftone != nil {
				reffects.ApplyHalftone(img, eff.Halftone, log)
			}
		case scene.EffectVignette:
			if eff.Vignette != nil {
				reffects.ApplyVignette(img, eff.Vignette)
			}
		}
	}
}
