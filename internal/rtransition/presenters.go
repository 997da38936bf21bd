package rtransition

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"math"

	"github.com/mantonx/reelforge/pkg/scene"
	xdraw "golang.org/x/image/draw"
)

// RenderInput is what a presentation needs to composite one frame of a
// transition window: both clips already rendered (with their own effects
// and adjustment-layer effects applied) at the relevant effective frames.
type RenderInput struct {
	Outgoing    *image.RGBA
	Incoming    *image.RGBA
	Progress    float64
	Direction   scene.Direction
	CanvasWidth int
	CanvasHeight int
}

// Presenter renders one transition frame into dst, which is pre-sized to
// CanvasWidth x CanvasHeight.
type Presenter func(dst *image.RGBA, in RenderInput)

// Registry resolves a presentation name to its renderer. Unknown names are
// the caller's responsibility to check with Get's ok return; Plan never
// fabricates a presentation for a transition the composition didn't ask
// for. A registry may be extended at runtime so a host application can add
// its own presentation by name without modifying this package.
type Registry struct {
	presenters map[scene.Presentation]Presenter
}

// NewRegistry returns a Registry pre-populated with the built-in
// presentations.
func NewRegistry() *Registry {
	r := &Registry{presenters: make(map[scene.Presentation]Presenter)}
	r.Register(scene.PresentationFade, fadePresenter)
	r.Register(scene.PresentationWipe, wipePresenter)
	r.Register(scene.PresentationSlide, slidePresenter)
	r.Register(scene.PresentationFlip, flipPresenter)
	r.Register(scene.PresentationClockWipe, clockWipePresenter)
	r.Register(scene.PresentationIris, irisPresenter)
	r.Register(scene.PresentationNone, nonePresenter)
	return r
}

// Register adds or overrides the renderer for name.
func (r *Registry) Register(name scene.Presentation, p Presenter) {
	r.presenters[name] = p
}

// Get returns the renderer for name, if any.
func (r *Registry) Get(name scene.Presentation) (Presenter, bool) {
	p, ok := r.presenters[name]
	return p, ok
}

func nonePresenter(dst *image.RGBA, in RenderInput) {
	if in.Progress < 0.5 {
		stddraw.Draw(dst, dst.Bounds(), in.Outgoing, image.Point{}, stddraw.Src)
	} else {
		stddraw.Draw(dst, dst.Bounds(), in.Incoming, image.Point{}, stddraw.Src)
	}
}

// fadePresenter does an equal-power crossfade with a subtle 1.04->1.0
// scale-in on the incoming clip.
func fadePresenter(dst *image.RGBA, in RenderInput) {
	outA := math.Cos(in.Progress * math.Pi / 2)
	inA := math.Sin(in.Progress * math.Pi / 2)

	scale := 1.04 - 0.04*in.Progress
	incoming := in.Incoming
	if scale != 1.0 {
		incoming = scaleCentered(in.Incoming, scale)
	}

	bounds := dst.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			oc := in.Outgoing.RGBAAt(x, y)
			ic := incoming.RGBAAt(x, y)
			dst.SetRGBA(x, y, blend(oc, ic, outA, inA))
		}
	}
}

// wipePresenter reveals the incoming clip behind an animated rectangular
// clip-path, with a small parallax offset on both halves.
func wipePresenter(dst *image.RGBA, in RenderInput) {
	w, h := in.CanvasWidth, in.CanvasHeight
	parallax := 0.035 * float64(maxInt(w, h)) * (1 - in.Progress)

	stddraw.Draw(dst, dst.Bounds(), in.Outgoing, parallaxOffset(in.Direction, parallax, true), stddraw.Src)

	reveal := revealRect(in.Direction, w, h, in.Progress)
	stddraw.Draw(dst, reveal, in.Incoming, sub(reveal.Min, parallaxOffset(in.Direction, parallax, false)), stddraw.Src)
}

func slidePresenter(dst *image.RGBA, in RenderInput) {
	w, h := in.CanvasWidth, in.CanvasHeight
	offset := in.Progress

	var dxOut, dyOut, dxIn, dyIn int
	switch in.Direction {
	case scene.DirectionFromRight:
		dxOut, dxIn = int(-offset*float64(w)), int((1-offset)*float64(w))
	case scene.DirectionFromTop:
		dyOut, dyIn = int(-offset*float64(h)), int(-(1-offset)*float64(h))
	case scene.DirectionFromBottom:
		dyOut, dyIn = int(offset*float64(h)), int((1-offset)*float64(h))
	default: // from-left
		dxOut, dxIn = int(offset*float64(w)), int(-(1-offset)*float64(w))
	}

	stddraw.Draw(dst, dst.Bounds(), in.Outgoing, image.Pt(-dxOut, -dyOut), stddraw.Src)
	incomingRect := dst.Bounds().Add(image.Pt(dxIn, dyIn)).Intersect(dst.Bounds())
	if !incomingRect.Empty() {
		stddraw.Draw(dst, incomingRect, in.Incoming, incomingRect.Min.Sub(image.Pt(dxIn, dyIn)), stddraw.Src)
	}
}

// flipPresenter is a 2D approximation of a 3D flip: the outgoing clip
// squashes to zero width/height on the flip axis through the first half,
// then the incoming clip expands back out through the second half.
func flipPresenter(dst *image.RGBA, in RenderInput) {
	horizontal := in.Direction != scene.DirectionVertical

	if in.Progress < 0.5 {
		factor := math.Cos(in.Progress * math.Pi)
		drawSquashed(dst, in.Outgoing, factor, horizontal)
	} else {
		factor := math.Sin((in.Progress - 0.5) * math.Pi)
		drawSquashed(dst, in.Incoming, factor, horizontal)
	}
}

func drawSquashed(dst *image.RGBA, src *image.RGBA, factor float64, horizontal bool) {
	b := dst.Bounds()
	if factor < 0 {
		factor = 0
	}
	w, h := b.Dx(), b.Dy()
	var dw, dh int
	if horizontal {
		dw, dh = int(float64(w)*factor), h
	} else {
		dw, dh = w, int(float64(h)*factor)
	}
	if dw <= 0 || dh <= 0 {
		return
	}
	dx := b.Min.X + (w-dw)/2
	dy := b.Min.Y + (h-dh)/2
	dstRect := image.Rect(dx, dy, dx+dw, dy+dh)
	xdraw.CatmullRom.Scale(dst, dstRect, src, src.Bounds(), xdraw.Src, nil)
}

// clockWipePresenter sweeps clockwise from 12 o'clock; pixels inside the
// swept wedge show the incoming clip, the rest show the outgoing clip.
func clockWipePresenter(dst *image.RGBA, in RenderInput) {
	w, h := in.CanvasWidth, in.CanvasHeight
	cx, cy := float64(w)/2, float64(h)/2
	sweep := in.Progress * 2 * math.Pi

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			angle := math.Atan2(float64(x)-cx, cy-float64(y))
			if angle < 0 {
				angle += 2 * math.Pi
			}
			if angle < sweep {
				dst.SetRGBA(x, y, in.Incoming.RGBAAt(x, y))
			} else {
				dst.SetRGBA(x, y, in.Outgoing.RGBAAt(x, y))
			}
		}
	}
}

// irisPresenter reveals the incoming clip through an expanding circle
// centered on the canvas.
func irisPresenter(dst *image.RGBA, in RenderInput) {
	w, h := in.CanvasWidth, in.CanvasHeight
	cx, cy := float64(w)/2, float64(h)/2
	diagonal := math.Hypot(float64(w), float64(h))
	radius := in.Progress * 1.2 * diagonal / 2

	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if d < radius {
				dst.SetRGBA(x, y, in.Incoming.RGBAAt(x, y))
			} else {
				dst.SetRGBA(x, y, in.Outgoing.RGBAAt(x, y))
			}
		}
	}
}

func blend(a, b color.RGBA, wa, wb float64) color.RGBA {
	clampByte := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{
		R: clampByte(float64(a.R)*wa + float64(b.R)*wb),
		G: clampByte(float64(a.G)*wa + float64(b.G)*wb),
		B: clampByte(float64(a.B)*wa + float64(b.B)*wb),
		A: clampByte(math.Max(float64(a.A)*wa, float64(b.A)*wb)),
	}
}

func scaleCentered(src *image.RGBA, factor float64) *image.RGBA {
	b := src.Bounds()
	w, h := int(float64(b.Dx())*factor), int(float64(b.Dy())*factor)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, xdraw.Src, nil)

	out := image.NewRGBA(b)
	dx := b.Min.X - (w-b.Dx())/2
	dy := b.Min.Y - (h-b.Dy())/2
	stddraw.Draw(out, b, scaled, image.Pt(dx, dy), stddraw.Src)
	return out
}

func revealRect(dir scene.Direction, w, h int, progress float64) image.Rectangle {
	switch dir {
	case scene.DirectionFromRight:
		x0 := w - int(float64(w)*progress)
		return image.Rect(x0, 0, w, h)
	case scene.DirectionFromTop:
		y1 := int(float64(h) * progress)
		return image.Rect(0, 0, w, y1)
	case scene.DirectionFromBottom:
		y0 := h - int(float64(h)*progress)
		return image.Rect(0, y0, w, h)
	default: // from-left
		x1 := int(float64(w) * progress)
		return image.Rect(0, 0, x1, h)
	}
}

func parallaxOffset(dir scene.Direction, amount float64, outgoing bool) image.Point {
	sign := 1.0
	if !outgoing {
		sign = -1.0
	}
	switch dir {
	case scene.DirectionFromRight, scene.DirectionFromLeft:
		return image.Pt(int(sign*amount), 0)
	default:
		return image.Pt(0, int(sign*amount))
	}
}

func sub(a, b image.Point) image.Point { return a.Sub(b) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
