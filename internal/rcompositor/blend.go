package rcompositor

import (
	"image"
	"image/color"
)

// scaleAlpha multiplies every pixel's alpha channel by factor in place,
// used to apply an item's resolved opacity after its raw content is drawn.
func scaleAlpha(img *image.RGBA, factor float64) {
	if factor >= 1 {
		return
	}
	if factor < 0 {
		factor = 0
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			c.A = clampByteLocal(float64(c.A) * factor)
			img.SetRGBA(x, y, c)
		}
	}
}

// compositeOver draws src onto dst using standard source-over alpha
// blending; both are straight (non-premultiplied) RGBA.
func compositeOver(dst, src *image.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := src.RGBAAt(x, y)
			if s.A == 0 {
				continue
			}
			d := dst.RGBAAt(x, y)
			sa := float64(s.A) / 255
			da := float64(d.A) / 255
			outA := sa + da*(1-sa)
			if outA <= 0 {
				dst.SetRGBA(x, y, color.RGBA{})
				continue
			}
			mix := func(sc, dc uint8) uint8 {
				v := (float64(sc)*sa + float64(dc)*da*(1-sa)) / outA
				return clampByteLocal(v)
			}
			dst.SetRGBA(x, y, color.RGBA{
				R: mix(s.R, d.R),
				G: mix(s.G, d.G),
				B: mix(s.B, d.B),
				A: clampByteLocal(outA * 255),
			})
		}
	}
}

func clampByteLocal(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
