package reffects

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mantonx/reelforge/pkg/scene"
)

func TestApplyVignetteDarkensCornersMoreThanCenter(t *testing.T) {
	img := solidImage(40, 40, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	v := &scene.VignetteEffect{Shape: scene.VignetteCircular, Size: 0.3, Softness: 0.5, Intensity: 1, Color: "#000000"}
	ApplyVignette(img, v)

	center := img.RGBAAt(20, 20)
	corner := img.RGBAAt(0, 0)
	assert.Less(t, corner.R, center.R)
}

func TestApplyVignetteZeroIntensityLeavesImageUnchanged(t *testing.T) {
	img := solidImage(10, 10, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	v := &scene.VignetteEffect{Shape: scene.VignetteCircular, Size: 0, Softness: 0.5, Intensity: 0, Color: "#000000"}
	ApplyVignette(img, v)
	assert.EqualValues(t, 100, img.RGBAAt(0, 0).R)
}

func TestParseHexColorLocalDefaultsToOpaqueBlack(t *testing.T) {
	c := parseHexColorLocal("garbage")
	assert.EqualValues(t, 255, c.A)
	assert.EqualValues(t, 0, c.R)
}
