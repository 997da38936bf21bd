package rcompositor

import (
	"image"

	"github.com/mantonx/reelforge/internal/reffects"
	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/pkg/scene"
)

// collectMasks gathers every shape item with isMask=true that's active at f,
// paired with its resolved transform.
func collectMasks(
	comp *scene.Composition,
	keyframes map[string]*scene.ItemKeyframes,
	f int,
	canvas rkeyframe.CanvasSize,
) []reffects.MaskSource {
	var masks []reffects.MaskSource
	for _, track := range comp.Tracks {
		for i := range track.Items {
			item := &track.Items[i]
			if item.Type != scene.ItemShape || item.Shape == nil || !item.Shape.IsMask {
				continue
			}
			if !item.ActiveAt(f) {
				continue
			}
			transform := rkeyframe.GetAnimatedTransform(item, keyframes[item.ID], float64(f-item.From), canvas)
			masks = append(masks, reffects.MaskSource{
				Shape:    item.Shape,
				X:        transform.X,
				Y:        transform.Y,
				W:        transform.Width,
				H:        transform.Height,
				Rotation: transform.Rotation,
			})
		}
	}
	return masks
}

// applyMaskList composites content through every mask in masks.
func applyMaskList(content *image.RGBA, masks []reffects.MaskSource) {
	reffects.ApplyMasks(content, masks)
}
