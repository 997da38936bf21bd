package rcompositor

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/gif"
	"math"

	"github.com/fogleman/gg"
	_ "github.com/chai2010/webp"
	_ "image/jpeg"
	_ "image/png"

	"github.com/mantonx/reelforge/internal/rcanvas"
	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/internal/rresolve"
	"github.com/mantonx/reelforge/pkg/mediaio"
	"github.com/mantonx/reelforge/pkg/scene"
)

// compositeItem renders item's own content to a pooled canvas, applies its
// resolved opacity and combined effects, then composites it onto content.
func (c *Compositor) compositeItem(
	ctx context.Context,
	norm *rresolve.Normalized,
	comp *scene.Composition,
	item *scene.TimelineItem,
	trackOrder int,
	f int,
	canvasSize rkeyframe.CanvasSize,
	content *image.RGBA,
	depth int,
) error {
	frameRel := float64(f - item.From)
	transform := rkeyframe.GetAnimatedTransform(item, norm.Keyframes[item.ID], frameRel, canvasSize)
	if transform.Opacity <= 0 || transform.Width <= 0 || transform.Height <= 0 {
		return nil
	}

	pool := c.poolFor(canvasSize.Width, canvasSize.Height)
	itemCanvas := pool.Acquire()
	defer pool.Release(itemCanvas)

	drawn, err := c.renderItemContent(ctx, norm, comp, item, transform, frameRel, f, itemCanvas.Image(), canvasSize, depth)
	if err != nil {
		return err
	}
	if !drawn {
		return nil
	}

	if transform.Opacity < 1 {
		scaleAlpha(itemCanvas.Image(), transform.Opacity)
	}

	effects := combinedEffects(comp, trackOrder, f, item.Effects)
	applyEffects(itemCanvas.Image(), effects, f-item.From, item.EffectiveSpeed(), c.log)

	compositeOver(content, itemCanvas.Image())
	return nil
}

// renderItemContent draws item's raw content (no opacity, no effects) onto
// dst at transform, rotated about its own center. Returns drawn=false when
// there was nothing to draw this frame (e.g. video has no sample yet) —
// that's not an error, just an empty frame for this item.
func (c *Compositor) renderItemContent(
	ctx context.Context,
	norm *rresolve.Normalized,
	comp *scene.Composition,
	item *scene.TimelineItem,
	transform rkeyframe.Transform,
	frameRel float64,
	f int,
	dst *image.RGBA,
	canvasSize rkeyframe.CanvasSize,
	depth int,
) (bool, error) {
	w := int(math.Round(transform.Width))
	h := int(math.Round(transform.Height))
	if w <= 0 || h <= 0 {
		return false, nil
	}

	switch item.Type {
	case scene.ItemVideo:
		return c.renderVideoContent(ctx, item, transform, frameRel, comp.FPS, w, h, dst)
	case scene.ItemImage:
		return c.renderImageContent(ctx, item, transform, frameRel, comp.FPS, w, h, dst)
	case scene.ItemText:
		return c.renderTextContent(item, transform, w, h, dst)
	case scene.ItemShape:
		return c.renderShapeContent(item, transform, w, h, dst)
	case scene.ItemComposition:
		return c.renderCompositionContent(ctx, norm, comp, item, transform, f, w, h, dst, depth)
	default:
		return false, nil
	}
}

func (c *Compositor) renderVideoContent(ctx context.Context, item *scene.TimelineItem, transform rkeyframe.Transform, frameRel float64, fps, w, h int, dst *image.RGBA) (bool, error) {
	if item.Video == nil {
		return false, nil
	}
	src := videoSrcKey(item.Video)
	reader, err := c.readerFor(ctx, src)
	if err != nil {
		return false, rerr.Wrapf(rerr.MediaUnavailable, "open video source %s: %v", src, err)
	}

	sourceFrame := item.Video.SourceStart + int(math.Floor(frameRel*item.EffectiveSpeed()))
	timestamp := float64(sourceFrame) / float64(fps)

	temp := image.NewRGBA(image.Rect(0, 0, w, h))
	ok, kind, err := reader.DrawFrame(ctx, timestamp, temp, 0, 0, w, h)
	if err != nil {
		if kind == mediaio.DrawDecodeError {
			return false, rerr.Wrapf(rerr.DecodeRecoverable, "decode video frame: %v", err)
		}
		return false, rerr.Wrapf(rerr.MediaUnavailable, "draw video frame: %v", err)
	}
	if !ok {
		return false, nil
	}

	drawRotatedLayer(dst, temp, transform)
	return true, nil
}

func videoSrcKey(v *scene.VideoData) string {
	if v.Src != "" {
		return v.Src
	}
	return v.MediaID
}

func (c *Compositor) renderImageContent(ctx context.Context, item *scene.TimelineItem, transform rkeyframe.Transform, frameRel float64, fps int, w, h int, dst *image.RGBA) (bool, error) {
	if item.Image == nil {
		return false, nil
	}
	key := item.Image.Src
	if key == "" {
		key = item.Image.MediaID
	}
	raw, err := c.store.FetchBytes(ctx, key)
	if err != nil {
		return false, rerr.Wrapf(rerr.MediaUnavailable, "fetch image %s: %v", key, err)
	}

	img, err := decodeImageFrame(raw, frameRel, fps)
	if err != nil {
		return false, rerr.Wrapf(rerr.MediaUnavailable, "decode image %s: %v", key, err)
	}

	temp := image.NewRGBA(image.Rect(0, 0, w, h))
	rcanvas.ScaleInto(temp, temp.Bounds(), img)
	drawRotatedLayer(dst, temp, transform)
	return true, nil
}

// decodeImageFrame decodes raw as an animated GIF and returns the frame
// active at frameRel (an item-relative frame offset, converted to elapsed
// seconds via fps and looped against the GIF's total delay), or falls back
// to a plain single-frame decode for every other format including WebP,
// which this codebase's WebP decoder never exposes an animation API for.
func decodeImageFrame(raw []byte, frameRel float64, fps int) (image.Image, error) {
	g, err := gif.DecodeAll(bytes.NewReader(raw))
	if err == nil && len(g.Image) > 0 {
		return renderGIFFrame(g, gifFrameIndexAt(g, frameRel, fps)), nil
	}

	img, _, decErr := image.Decode(bytes.NewReader(raw))
	return img, decErr
}

// gifFrameIndexAt returns the index of the frame active at frameRel,
// looping back to the start once the GIF's full delay sequence elapses.
func gifFrameIndexAt(g *gif.GIF, frameRel float64, fps int) int {
	if fps < 1 {
		fps = 1
	}
	elapsed := frameRel / float64(fps)

	var total float64
	for _, d := range g.Delay {
		total += float64(d) / 100
	}
	if total <= 0 {
		return 0
	}
	elapsed = math.Mod(elapsed, total)
	if elapsed < 0 {
		elapsed += total
	}

	var acc float64
	for i, d := range g.Delay {
		acc += float64(d) / 100
		if elapsed < acc {
			return i
		}
	}
	return len(g.Image) - 1
}

// renderGIFFrame composites frames [0, idx] onto the GIF's logical screen
// in order, honoring DisposalBackground (clear to transparent before the
// next frame) the same way a standard GIF player would, and returns the
// resulting composited image for frame idx.
func renderGIFFrame(g *gif.GIF, idx int) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	for i := 0; i <= idx && i < len(g.Image); i++ {
		frame := g.Image[i]
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		if i < idx && i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	}
	return canvas
}

func (c *Compositor) renderTextContent(item *scene.TimelineItem, transform rkeyframe.Transform, w, h int, dst *image.RGBA) (bool, error) {
	if item.Text == nil || item.Text.Text == "" {
		return false, nil
	}
	td := item.Text

	temp := image.NewRGBA(image.Rect(0, 0, w, h))
	width, height, err := c.fonts.MeasureText(td.FontFamily, td.FontWeight, td.FontSize, td.LetterSpacing, td.Text)
	if err != nil {
		return false, rerr.Wrapf(rerr.MediaUnavailable, "measure text: %v", err)
	}

	x := textOriginX(td.TextAlign, float64(w), width)
	y := textOriginY(td.VerticalAlign, float64(h), height, td.FontSize)

	if err := c.fonts.DrawText(temp, td.FontFamily, td.FontWeight, td.FontSize, td.Color, x, y, td.Text); err != nil {
		return false, rerr.Wrapf(rerr.MediaUnavailable, "draw text: %v", err)
	}

	drawRotatedLayer(dst, temp, transform)
	return true, nil
}

func textOriginX(align scene.TextAlign, boxWidth, textWidth float64) float64 {
	switch align {
	case scene.TextAlignCenter:
		return (boxWidth - textWidth) / 2
	case scene.TextAlignRight:
		return boxWidth - textWidth
	default:
		return 0
	}
}

func textOriginY(align scene.VerticalAlign, boxHeight, textHeight, fontSize float64) float64 {
	switch align {
	case scene.VerticalAlignMiddle:
		return (boxHeight+textHeight)/2 - textHeight*0.2
	case scene.VerticalAlignBottom:
		return boxHeight - textHeight*0.2
	default:
		return fontSize
	}
}

func (c *Compositor) renderShapeContent(item *scene.TimelineItem, transform rkeyframe.Transform, w, h int, dst *image.RGBA) (bool, error) {
	if item.Shape == nil {
		return false, nil
	}
	sd := item.Shape

	temp := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(temp)
	switch sd.ShapeType {
	case scene.ShapeEllipse:
		dc.DrawEllipse(float64(w)/2, float64(h)/2, float64(w)/2, float64(h)/2)
	case scene.ShapePolygon:
		const sides = 6
		dc.DrawRegularPolygon(sides, float64(w)/2, float64(h)/2, math.Min(float64(w), float64(h))/2, -math.Pi/2)
	default:
		if sd.CornerRadius > 0 {
			dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), sd.CornerRadius)
		} else {
			dc.DrawRectangle(0, 0, float64(w), float64(h))
		}
	}
	dc.SetHexColor(fallbackHex(sd.FillColor, "#ffffff"))
	if sd.StrokeWidth > 0 {
		dc.FillPreserve()
		dc.SetHexColor(fallbackHex(sd.StrokeColor, "#000000"))
		dc.SetLineWidth(sd.StrokeWidth)
		dc.Stroke()
	} else {
		dc.Fill()
	}

	drawRotatedLayer(dst, temp, transform)
	return true, nil
}

func fallbackHex(hex, def string) string {
	if hex == "" {
		return def
	}
	return hex
}

func (c *Compositor) renderCompositionContent(
	ctx context.Context,
	norm *rresolve.Normalized,
	comp *scene.Composition,
	item *scene.TimelineItem,
	transform rkeyframe.Transform,
	f, w, h int,
	dst *image.RGBA,
	depth int,
) (bool, error) {
	if item.Composition == nil || c.resolve == nil {
		return false, nil
	}
	cd := item.Composition
	local := f - item.From - cd.SourceStart
	if local < 0 {
		return false, nil
	}

	subComp, err := c.resolve(ctx, cd.CompositionID)
	if err != nil {
		return false, rerr.Wrapf(rerr.MediaUnavailable, "resolve sub-composition %s: %v", cd.CompositionID, err)
	}
	if local >= subComp.DurationInFrames {
		return false, nil
	}

	subNorm, err := rresolve.Normalize(subComp, nil)
	if err != nil {
		return false, rerr.Wrapf(rerr.InputInvalid, "normalize sub-composition %s: %v", cd.CompositionID, err)
	}

	rendered, err := c.renderFrame(ctx, subNorm, local, depth+1)
	if err != nil {
		return false, err
	}

	temp := image.NewRGBA(image.Rect(0, 0, w, h))
	rcanvas.ScaleInto(temp, temp.Bounds(), rendered)
	drawRotatedLayer(dst, temp, transform)
	return true, nil
}

// drawRotatedLayer draws layer into dst, centered at transform's box and
// rotated about that center; layer is expected to already be sized to
// transform's width/height.
func drawRotatedLayer(dst *image.RGBA, layer image.Image, transform rkeyframe.Transform) {
	dc := gg.NewContextForRGBA(dst)
	dc.Push()
	defer dc.Pop()

	cx := transform.X + transform.Width/2
	cy := transform.Y + transform.Height/2
	dc.Translate(cx, cy)
	dc.Rotate(transform.Rotation * math.Pi / 180)
	if transform.CornerRadius > 0 {
		dc.DrawRoundedRectangle(-transform.Width/2, -transform.Height/2, transform.Width, transform.Height, transform.CornerRadius)
		dc.Clip()
	}
	dc.DrawImage(layer, int(math.Round(-transform.Width/2)), int(math.Round(-transform.Height/2)))
}
