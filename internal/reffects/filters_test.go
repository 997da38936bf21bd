package reffects

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantonx/reelforge/pkg/scene"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestApplyCSSFiltersBrightnessScalesChannels(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	ApplyCSSFilters(img, []scene.CSSFilter{{Kind: scene.FilterBrightness, Value: 200}})
	c := img.RGBAAt(0, 0)
	assert.EqualValues(t, 200, c.R)
}

func TestApplyCSSFiltersGrayscaleRemovesSaturation(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	ApplyCSSFilters(img, []scene.CSSFilter{{Kind: scene.FilterGrayscale, Value: 100}})
	c := img.RGBAAt(0, 0)
	assert.InDelta(t, c.R, c.G, 1)
	assert.InDelta(t, c.G, c.B, 1)
}

func TestApplyCSSFiltersInvertFlipsChannels(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	ApplyCSSFilters(img, []scene.CSSFilter{{Kind: scene.FilterInvert, Value: 100}})
	c := img.RGBAAt(0, 0)
	assert.EqualValues(t, 255, c.R)
}

func TestApplyCSSFiltersBlurSmoothsASharpEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				img.SetRGBA(x, y, color.RGBA{A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	ApplyCSSFilters(img, []scene.CSSFilter{{Kind: scene.FilterBlur, Value: 2}})
	edge := img.RGBAAt(4, 4)
	require.True(t, edge.R > 0 && edge.R < 255, "expected a blurred mid-value, got %d", edge.R)
}

func TestApplyCSSFiltersPipelineRunsInOrder(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	ApplyCSSFilters(img, []scene.CSSFilter{
		{Kind: scene.FilterBrightness, Value: 200},
		{Kind: scene.FilterInvert, Value: 100},
	})
	c := img.RGBAAt(0, 0)
	assert.EqualValues(t, 235, c.R)
}
