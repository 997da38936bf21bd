package reffects

import (
	"image"
	"image/color"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/reelforge/pkg/scene"
)

// ApplyHalftone overlays a dot/line screen on img and blends it back in
// using h.BlendMode at globalAlpha h.Intensity. log may be nil; when set,
// it receives a warning the one time a pattern this call can't render
// (rays, ripples) degrades to dots.
func ApplyHalftone(img *image.RGBA, h *scene.HalftoneEffect, log hclog.Logger) {
	pattern := h.Pattern
	if pattern == scene.HalftoneRays || pattern == scene.HalftoneRipple {
		if log != nil {
			log.Warn("halftone pattern not supported, degrading to dots", "pattern", pattern)
		}
		pattern = scene.HalftoneDots
	}

	spacing := h.Spacing
	if spacing <= 0 {
		spacing = 8
	}
	dotColor := parseHexColorLocal(h.DotColor)
	theta := h.Angle * math.Pi / 180
	cosA, sinA := math.Cos(theta), math.Sin(theta)

	b := img.Bounds()
	cx := float64(b.Min.X+b.Max.X) / 2
	cy := float64(b.Min.Y+b.Max.Y) / 2

	rotate := func(x, y float64) (float64, float64) {
		dx, dy := x-cx, y-cy
		return dx*cosA + dy*sinA, -dx*sinA + dy*cosA
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			src := img.RGBAAt(x, y)
			luma := (0.2126*float64(src.R) + 0.7152*float64(src.G) + 0.0722*float64(src.B)) / 255
			weight := 1 - luma
			if h.Inverted {
				weight = luma
			}

			rx, ry := rotate(float64(x), float64(y))
			cellX := math.Floor(rx/spacing)*spacing + spacing/2
			cellY := math.Floor(ry/spacing)*spacing + spacing/2

			var coverage float64
			switch pattern {
			case scene.HalftoneLines:
				halfBar := (h.DotSize / 2) * weight
				coverage = smoothEdge(math.Abs(ry-cellY), halfBar, h.Softness)
			default:
				dist := math.Hypot(rx-cellX, ry-cellY)
				radius := (h.DotSize / 2) * weight
				coverage = smoothEdge(dist, radius, h.Softness)
			}
			if coverage <= 0 {
				continue
			}

			alpha := coverage * h.Intensity
			img.SetRGBA(x, y, blendPixel(src, dotColor, alpha, h.BlendMode))
		}
	}
}

// smoothEdge returns 1 within radius-feather, 0 beyond radius+feather, and
// a linear ramp across that band; feather is sized from softness.
func smoothEdge(dist, radius, softness float64) float64 {
	feather := 0.5 + softness*2
	if dist <= radius-feather {
		return 1
	}
	if dist >= radius+feather {
		return 0
	}
	return (radius + feather - dist) / (2 * feather)
}

func blendPixel(base, overlay color.RGBA, alpha float64, mode scene.BlendMode) color.RGBA {
	if alpha <= 0 {
		return base
	}
	if alpha > 1 {
		alpha = 1
	}
	blendChannel := func(b, o uint8) float64 {
		bf, of := float64(b)/255, float64(o)/255
		switch mode {
		case scene.BlendMultiply:
			return bf * of * 255
		case scene.BlendScreen:
			return (1 - (1-bf)*(1-of)) * 255
		case scene.BlendOverlay:
			if bf < 0.5 {
				return 2 * bf * of * 255
			}
			return (1 - 2*(1-bf)*(1-of)) * 255
		default:
			return of * 255
		}
	}
	mix := func(b, o uint8) uint8 {
		blended := blendChannel(b, o)
		return clampByte(float64(b)*(1-alpha) + blended*alpha)
	}
	return color.RGBA{R: mix(base.R, overlay.R), G: mix(base.G, overlay.G), B: mix(base.B, overlay.B), A: base.A}
}
