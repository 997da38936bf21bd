package reffects

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/mantonx/reelforge/pkg/scene"
)

// parseHexColorLocal parses a "#rrggbb" string, defaulting to opaque black
// on any malformed input.
func parseHexColorLocal(hex string) color.RGBA {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return color.RGBA{A: 255}
	}
	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

// ApplyVignette darkens/tints img from its edges inward. Distance is
// normalized so 0 sits at the center and 100 sits at the farthest corner;
// the tint ramps in across [fadeStart, fadeStart+fadeRange] and is fully
// opaque beyond that.
func ApplyVignette(img *image.RGBA, v *scene.VignetteEffect) {
	b := img.Bounds()
	cx := float64(b.Min.X+b.Max.X) / 2
	cy := float64(b.Min.Y+b.Max.Y) / 2
	halfW := float64(b.Dx()) / 2
	halfH := float64(b.Dy()) / 2
	maxDist := math.Hypot(halfW, halfH)

	tint := parseHexColorLocal(v.Color)
	fadeStart := v.Size * 70
	fadeRange := 30 + v.Softness*40

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if v.Shape == scene.VignetteElliptical && halfW > 0 && halfH > 0 {
				dx *= halfH / halfW
			}
			dist := math.Hypot(dx, dy)
			pct := 0.0
			if maxDist > 0 {
				pct = dist / maxDist * 100
			}

			t := (pct - fadeStart) / fadeRange
			if t <= 0 {
				continue
			}
			if t > 1 {
				t = 1
			}
			alpha := t * v.Intensity

			c := img.RGBAAt(x, y)
			blend := func(base, overlay uint8) uint8 {
				return clampByte(float64(base)*(1-alpha) + float64(overlay)*alpha)
			}
			img.SetRGBA(x, y, color.RGBA{
				R: blend(c.R, tint.R),
				G: blend(c.G, tint.G),
				B: blend(c.B, tint.B),
				A: c.A,
			})
		}
	}
}
