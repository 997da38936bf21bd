package reffects

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantonx/reelforge/pkg/scene"
)

func TestApplyHalftoneDotsDarkensLitAreasWithDarkDots(t *testing.T) {
	img := solidImage(32, 32, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	h := &scene.HalftoneEffect{
		Pattern: scene.HalftoneDots, DotSize: 6, Spacing: 8,
		Intensity: 1, DotColor: "#000000", BlendMode: scene.BlendNormal,
	}
	ApplyHalftone(img, h, nil)

	// Some pixel near a cell center should have darkened toward the dot color.
	darkened := false
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if img.RGBAAt(x, y).R < 255 {
				darkened = true
			}
		}
	}
	assert.True(t, darkened)
}

func TestApplyHalftoneRaysWithNilLoggerDoesNotPanic(t *testing.T) {
	img := solidImage(16, 16, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	h := &scene.HalftoneEffect{
		Pattern: scene.HalftoneRays, DotSize: 4, Spacing: 6,
		Intensity: 1, DotColor: "#000000", BlendMode: scene.BlendNormal,
	}
	assert.NotPanics(t, func() { ApplyHalftone(img, h, nil) })
}

func TestBlendPixelMultiplyDarkensBothNonWhite(t *testing.T) {
	base := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	overlay := color.RGBA{R: 100, G: 100, B: 100, A: 255}
	out := blendPixel(base, overlay, 1, scene.BlendMultiply)
	assert.Less(t, out.R, base.R)
}
