package reffects

import (
	"image"
	"image/color"
	"math"

	"github.com/mantonx/reelforge/pkg/scene"
)

// ApplyCSSFilters runs every enabled css-filter stage over img in order,
// mutating it in place as sequential per-pixel passes rather than a single
// fused kernel, since the filter count per item is small.
func ApplyCSSFilters(img *image.RGBA, filters []scene.CSSFilter) {
	for _, f := range filters {
		applyOneFilter(img, f)
	}
}

func applyOneFilter(img *image.RGBA, f scene.CSSFilter) {
	switch f.Kind {
	case scene.FilterBrightness:
		scaleChannels(img, f.Value/100.0, 0, 0)
	case scene.FilterContrast:
		contrast(img, f.Value/100.0)
	case scene.FilterSaturate:
		saturate(img, f.Value/100.0)
	case scene.FilterGrayscale:
		saturate(img, 1-clamp01(f.Value/100.0))
	case scene.FilterSepia:
		sepia(img, clamp01(f.Value/100.0))
	case scene.FilterInvert:
		invert(img, clamp01(f.Value/100.0))
	case scene.FilterHueRotate:
		hueRotate(img, f.Value)
	case scene.FilterBlur:
		boxBlur(img, f.Value)
	}
}

func eachPixel(img *image.RGBA, fn func(c color.RGBA) color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, fn(img.RGBAAt(x, y)))
		}
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleChannels(img *image.RGBA, mul, add, _ float64) {
	eachPixel(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: clampByte(float64(c.R)*mul + add),
			G: clampByte(float64(c.G)*mul + add),
			B: clampByte(float64(c.B)*mul + add),
			A: c.A,
		}
	})
}

func contrast(img *image.RGBA, factor float64) {
	eachPixel(img, func(c color.RGBA) color.RGBA {
		adjust := func(v uint8) uint8 {
			return clampByte((float64(v)-127.5)*factor + 127.5)
		}
		return color.RGBA{R: adjust(c.R), G: adjust(c.G), B: adjust(c.B), A: c.A}
	})
}

func saturate(img *image.RGBA, factor float64) {
	eachPixel(img, func(c color.RGBA) color.RGBA {
		gray := 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
		mix := func(v uint8) uint8 {
			return clampByte(gray + (float64(v)-gray)*factor)
		}
		return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
	})
}

func sepia(img *image.RGBA, amount float64) {
	eachPixel(img, func(c color.RGBA) color.RGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		lerp := func(orig, sep float64) uint8 { return clampByte(orig + (sep-orig)*amount) }
		return color.RGBA{R: lerp(r, sr), G: lerp(g, sg), B: lerp(b, sb), A: c.A}
	})
}

func invert(img *image.RGBA, amount float64) {
	eachPixel(img, func(c color.RGBA) color.RGBA {
		inv := func(v uint8) uint8 { return clampByte(float64(v) + (255-2*float64(v))*amount) }
		return color.RGBA{R: inv(c.R), G: inv(c.G), B: inv(c.B), A: c.A}
	})
}

func hueRotate(img *image.RGBA, degrees float64) {
	theta := degrees * math.Pi / 180
	cosA, sinA := math.Cos(theta), math.Sin(theta)
	// Hue-rotation matrix (ITU-R BT.601 luma weights), the standard
	// SVG/CSS filter formulation.
	m := [3][3]float64{
		{0.213 + cosA*0.787 - sinA*0.213, 0.715 - cosA*0.715 - sinA*0.715, 0.072 - cosA*0.072 + sinA*0.928},
		{0.213 - cosA*0.213 + sinA*0.143, 0.715 + cosA*0.285 + sinA*0.140, 0.072 - cosA*0.072 - sinA*0.283},
		{0.213 - cosA*0.213 - sinA*0.787, 0.715 - cosA*0.715 + sinA*0.715, 0.072 + cosA*0.928 + sinA*0.072},
	}
	eachPixel(img, func(c color.RGBA) color.RGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.RGBA{
			R: clampByte(m[0][0]*r + m[0][1]*g + m[0][2]*b),
			G: clampByte(m[1][0]*r + m[1][1]*g + m[1][2]*b),
			B: clampByte(m[2][0]*r + m[2][1]*g + m[2][2]*b),
			A: c.A,
		}
	})
}

// boxBlur approximates a gaussian blur of the given pixel radius with a
// separable box blur, cheap enough to run per-item per-frame.
func boxBlur(img *image.RGBA, radius float64) {
	r := int(math.Round(radius))
	if r < 1 {
		return
	}
	b := img.Bounds()
	src := make([]color.RGBA, b.Dx()*b.Dy())
	idx := func(x, y int) int { return (y-b.Min.Y)*b.Dx() + (x - b.Min.X) }
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			src[idx(x, y)] = img.RGBAAt(x, y)
		}
	}

	horiz := make([]color.RGBA, len(src))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			horiz[idx(x, y)] = boxAverage(src, b, idx, x, y, r, true)
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, boxAverage(horiz, b, idx, x, y, r, false))
		}
	}
}

func boxAverage(buf []color.RGBA, b image.Rectangle, idx func(x, y int) int, x, y, r int, horizontal bool) color.RGBA {
	var sr, sg, sb, sa, n float64
	for d := -r; d <= r; d++ {
		sx, sy := x, y
		if horizontal {
			sx = x + d
		} else {
			sy = y + d
		}
		if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
			continue
		}
		c := buf[idx(sx, sy)]
		sr += float64(c.R)
		sg += float64(c.G)
		sb += float64(c.B)
		sa += float64(c.A)
		n++
	}
	if n == 0 {
		n = 1
	}
	return color.RGBA{R: clampByte(sr / n), G: clampByte(sg / n), B: clampByte(sb / n), A: clampByte(sa / n)}
}
