package reffects

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantonx/reelforge/pkg/scene"
)

func TestApplyGlitchRGBSplitIsDeterministicAcrossRenders(t *testing.T) {
	g := &scene.GlitchEffect{Kind: scene.GlitchRGBSplit, Intensity: 1, Seed: 7}

	img1 := solidImage(10, 10, color.RGBA{R: 200, G: 150, B: 50, A: 255})
	img1.SetRGBA(5, 5, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	ApplyGlitch(img1, g, 3, 1)

	img2 := solidImage(10, 10, color.RGBA{R: 200, G: 150, B: 50, A: 255})
	img2.SetRGBA(5, 5, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	ApplyGlitch(img2, g, 3, 1)

	assert.Equal(t, img1.Pix, img2.Pix)
}

func TestApplyGlitchScanlinesDarkensEveryOtherPair(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	g := &scene.GlitchEffect{Kind: scene.GlitchScanlines, Intensity: 1}
	ApplyGlitch(img, g, 0, 1)

	lit := img.RGBAAt(0, 2)
	dark := img.RGBAAt(0, 0)
	assert.Less(t, dark.R, lit.R)
}

func TestApplyGlitchColorGlitchIsDeterministicAcrossRenders(t *testing.T) {
	g := &scene.GlitchEffect{Kind: scene.GlitchColorGlitch, Intensity: 1, Seed: 42}

	img1 := solidImage(4, 4, color.RGBA{R: 255, A: 255})
	ApplyGlitch(img1, g, 11, 1)

	img2 := solidImage(4, 4, color.RGBA{R: 255, A: 255})
	ApplyGlitch(img2, g, 11, 1)

	assert.Equal(t, img1.Pix, img2.Pix)
}
