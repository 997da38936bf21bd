package reffects

import (
	"image"
	"image/color"
	"math"

	"github.com/mantonx/reelforge/pkg/scene"
)

// ApplyGlitch mutates img in place for the given frame. frame and speed
// drive the same seeded PRNG every time this frame is re-rendered, so the
// glitch treatment is reproducible rather than genuinely random.
func ApplyGlitch(img *image.RGBA, g *scene.GlitchEffect, frame int, speed float64) {
	seedState := int64(math.Floor(float64(frame)*speed)) + g.Seed

	switch g.Kind {
	case scene.GlitchRGBSplit:
		rgbSplit(img, frame, speed, g.Intensity, seedState)
	case scene.GlitchScanlines:
		scanlines(img, g.Intensity)
	case scene.GlitchColorGlitch:
		colorGlitch(img, g.Intensity, seedState)
	}
}

func rgbSplit(img *image.RGBA, frame int, speed, intensity float64, seedState int64) {
	_, jitter01 := lcgFloat01(seedState)
	jitter := (jitter01*2 - 1) * intensity * 10
	offset := math.Sin(float64(frame)*0.3*speed)*(intensity*15) + jitter

	if math.Abs(offset) < 0.5 {
		return
	}

	b := img.Bounds()
	src := snapshot(img)
	shift := int(math.Round(offset))

	at := func(x, y int) color.RGBA {
		if x < b.Min.X {
			x = b.Min.X
		}
		if x >= b.Max.X {
			x = b.Max.X - 1
		}
		return src[(y-b.Min.Y)*b.Dx()+(x-b.Min.X)]
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			red := at(x-shift, y)
			center := at(x, y)
			blue := at(x+shift, y)
			a := center.A
			if red.A > a {
				a = red.A
			}
			if blue.A > a {
				a = blue.A
			}
			img.SetRGBA(x, y, color.RGBA{R: red.R, G: center.G, B: blue.B, A: a})
		}
	}
}

func scanlines(img *image.RGBA, intensity float64) {
	alpha := intensity * 0.3
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if (y-b.Min.Y)%4 >= 2 {
			continue // 2px line, 2px gap
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			darken := func(v uint8) uint8 { return clampByte(float64(v) * (1 - alpha)) }
			img.SetRGBA(x, y, color.RGBA{R: darken(c.R), G: darken(c.G), B: darken(c.B), A: c.A})
		}
	}
}

func colorGlitch(img *image.RGBA, intensity float64, seedState int64) {
	next, roll := lcgFloat01(seedState)
	if roll >= intensity*0.3 {
		return
	}
	_, degreeRoll := lcgFloat01(next)
	hueRotate(img, degreeRoll*360*intensity)
}

func snapshot(img *image.RGBA) []color.RGBA {
	b := img.Bounds()
	out := make([]color.RGBA, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out[(y-b.Min.Y)*b.Dx()+(x-b.Min.X)] = img.RGBAAt(x, y)
		}
	}
	return out
}
