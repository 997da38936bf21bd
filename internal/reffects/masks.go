package reffects

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/mantonx/reelforge/pkg/scene"
)

// MaskSource pairs a mask shape with its placement on the canvas. Rotation
// is in degrees and is baked into the rasterized path, not applied
// afterward, so feathered edges rotate along with the shape.
type MaskSource struct {
	Shape                *scene.ShapeData
	X, Y, W, H, Rotation float64
}

// ApplyMasks composites img through every mask in masks in turn — a pixel
// survives only if every mask covers it, since each pass multiplies the
// running alpha by that mask's coverage.
func ApplyMasks(img *image.RGBA, masks []MaskSource) {
	for _, m := range masks {
		coverage := rasterizeMaskCoverage(img.Bounds(), m)
		applyCoverage(img, coverage)
	}
}

func rasterizeMaskCoverage(bounds image.Rectangle, m MaskSource) *image.Gray {
	w, h := bounds.Dx(), bounds.Dy()
	dc := gg.NewContext(w, h)

	dc.Push()
	dc.Translate(m.X+m.W/2, m.Y+m.H/2)
	dc.Rotate(m.Rotation * math.Pi / 180)
	drawShapePath(dc, m.Shape, m.W, m.H)
	dc.SetRGBA(1, 1, 1, 1)
	dc.Fill()
	dc.Pop()

	rendered := dc.Image().(*image.RGBA)
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.SetGray(x, y, color.Gray{Y: rendered.RGBAAt(x-bounds.Min.X, y-bounds.Min.Y).A})
		}
	}

	if m.Shape.MaskFeather > 0 {
		gray = grayBoxBlur(gray, m.Shape.MaskFeather)
	}
	if m.Shape.MaskInvert {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				gray.SetGray(x, y, color.Gray{Y: 255 - gray.GrayAt(x, y).Y})
			}
		}
	}
	return gray
}

// drawShapePath traces shape's outline into dc, centered on the current
// origin and spanning [-w/2, w/2] x [-h/2, h/2]. Polygon masks trace a
// regular hexagon; ShapeData carries no vertex list of its own.
func drawShapePath(dc *gg.Context, shape *scene.ShapeData, w, h float64) {
	switch shape.ShapeType {
	case scene.ShapeEllipse:
		dc.DrawEllipse(0, 0, w/2, h/2)
	case scene.ShapePolygon:
		const sides = 6
		dc.DrawRegularPolygon(sides, 0, 0, math.Min(w, h)/2, -math.Pi/2)
	default:
		if shape.CornerRadius > 0 {
			dc.DrawRoundedRectangle(-w/2, -h/2, w, h, shape.CornerRadius)
		} else {
			dc.DrawRectangle(-w/2, -h/2, w, h)
		}
	}
}

func applyCoverage(img *image.RGBA, coverage *image.Gray) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			cov := float64(coverage.GrayAt(x, y).Y) / 255
			c.A = clampByte(float64(c.A) * cov)
			img.SetRGBA(x, y, c)
		}
	}
}

// grayBoxBlur runs the same separable box blur as boxBlur over a single
// grayscale channel, for feathering alpha-mask edges.
func grayBoxBlur(src *image.Gray, radius float64) *image.Gray {
	r := int(math.Round(radius))
	if r < 1 {
		return src
	}
	b := src.Bounds()

	horiz := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sum, n float64
			for d := -r; d <= r; d++ {
				sx := x + d
				if sx < b.Min.X || sx >= b.Max.X {
					continue
				}
				sum += float64(src.GrayAt(sx, y).Y)
				n++
			}
			horiz.SetGray(x, y, color.Gray{Y: clampByte(sum / n)})
		}
	}

	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sum, n float64
			for d := -r; d <= r; d++ {
				sy := y + d
				if sy < b.Min.Y || sy >= b.Max.Y {
					continue
				}
				sum += float64(horiz.GrayAt(x, sy).Y)
				n++
			}
			out.SetGray(x, y, color.Gray{Y: clampByte(sum / n)})
		}
	}
	return out
}
