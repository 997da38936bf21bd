package rcanvas

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaleInto draws src into dst's rect using CatmullRom resampling, the same
// quality level the pool's canvases use for transition squash/expand and
// sub-composition blits.
func ScaleInto(dst *image.RGBA, dstRect image.Rectangle, src image.Image) {
	draw.CatmullRom.Scale(dst, dstRect, src, src.Bounds(), draw.Over, nil)
}

// FitWithin computes the largest width/height that preserves srcW/srcH's
// aspect ratio while fitting inside boxW/boxH — the canvas-fit rule used
// whenever an item or sub-composition doesn't specify explicit geometry.
func FitWithin(srcW, srcH, boxW, boxH int) (w, h int) {
	if srcW <= 0 || srcH <= 0 {
		return boxW, boxH
	}
	srcAspect := float64(srcW) / float64(srcH)
	boxAspect := float64(boxW) / float64(boxH)
	if srcAspect > boxAspect {
		w = boxW
		h = int(float64(boxW) / srcAspect)
	} else {
		h = boxH
		w = int(float64(boxH) * srcAspect)
	}
	return w, h
}
