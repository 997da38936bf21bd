package rcompositor

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGIFFrameIndexAtSelectsFrameCoveringElapsedTime(t *testing.T) {
	g := &gif.GIF{Delay: []int{10, 10}} // two frames, 0.1s each, 10fps-relative math below uses fps directly

	assert.Equal(t, 0, gifFrameIndexAt(g, 0, 10))
	assert.Equal(t, 1, gifFrameIndexAt(g, 1, 10)) // elapsed 0.1s lands exactly on the frame-1 boundary
}

func TestGIFFrameIndexAtLoopsPastTotalDuration(t *testing.T) {
	g := &gif.GIF{Delay: []int{10, 10}} // total 0.2s

	// frameRel=2.5 at fps=10 -> elapsed 0.25s -> one full 0.2s loop plus
	// 0.05s into the next -> solidly inside frame 0's [0, 0.1s) span.
	assert.Equal(t, 0, gifFrameIndexAt(g, 2.5, 10))
}

func TestGIFFrameIndexAtHandlesSingleFrame(t *testing.T) {
	g := &gif.GIF{Delay: []int{10}}
	assert.Equal(t, 0, gifFrameIndexAt(g, 100, 10))
}

func solidPaletted(w, h int, idx uint8, palette color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetColorIndex(x, y, idx)
		}
	}
	return img
}

func twoFrameGIF() *gif.GIF {
	palette := color.Palette{color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}}
	return &gif.GIF{
		Image:    []*image.Paletted{solidPaletted(4, 4, 0, palette), solidPaletted(4, 4, 1, palette)},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	}
}

func TestRenderGIFFrameReturnsRequestedFrameContent(t *testing.T) {
	g := twoFrameGIF()

	frame0 := renderGIFFrame(g, 0)
	frame1 := renderGIFFrame(g, 1)

	r0, _, _, _ := frame0.At(0, 0).RGBA()
	r1, _, _, _ := frame1.At(0, 0).RGBA()
	assert.NotZero(t, r0)
	assert.Zero(t, r1)
}

func TestDecodeImageFrameSelectsCorrectFrameFromEncodedGIF(t *testing.T) {
	g := twoFrameGIF()
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))

	// fps=10: frameRel=0 -> elapsed 0s -> frame 0 (red); frameRel=1 ->
	// elapsed 0.1s -> frame 1 (blue).
	first, err := decodeImageFrame(buf.Bytes(), 0, 10)
	require.NoError(t, err)
	r, _, b, _ := first.At(0, 0).RGBA()
	assert.NotZero(t, r)
	assert.Zero(t, b)

	second, err := decodeImageFrame(buf.Bytes(), 1, 10)
	require.NoError(t, err)
	r2, _, b2, _ := second.At(0, 0).RGBA()
	assert.Zero(t, r2)
	assert.NotZero(t, b2)
}

func TestDecodeImageFrameFallsBackToPlainDecodeForNonGIF(t *testing.T) {
	// A 1x1 PNG round-trip exercises the non-GIF fallback path.
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := decodeImageFrame(buf.Bytes(), 0, 30)
	require.NoError(t, err)
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.NotZero(t, r)
}
