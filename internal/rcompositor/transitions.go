package rcompositor

import (
	"context"
	"image"

	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/internal/rresolve"
	"github.com/mantonx/reelforge/internal/rtransition"
	"github.com/mantonx/reelforge/pkg/scene"
)

// renderTransitionWindow renders both participating clips at their
// transition-adjusted effective frames, applies their own + adjustment
// effects, then composites them through the window's presentation onto
// content.
func (c *Compositor) renderTransitionWindow(
	ctx context.Context,
	norm *rresolve.Normalized,
	comp *scene.Composition,
	byID map[string]*scene.TimelineItem,
	w *rtransition.Window,
	f int,
	canvasSize rkeyframe.CanvasSize,
	content *image.RGBA,
	depth int,
) error {
	left, leftOK := byID[w.LeftClipID]
	right, rightOK := byID[w.RightClipID]
	if !leftOK || !rightOK {
		return nil
	}

	leftTrackOrder := trackOrderOf(comp, w.TrackID)
	rightTrackOrder := leftTrackOrder

	outgoing, err := c.renderTransitionClip(ctx, norm, comp, left, leftTrackOrder, f, canvasSize, depth)
	if err != nil {
		return err
	}
	incoming, err := c.renderTransitionClip(ctx, norm, comp, right, rightTrackOrder, f, canvasSize, depth)
	if err != nil {
		return err
	}

	presenter, ok := c.registry.Get(w.Presentation)
	if !ok {
		// Unknown presentation: fall back to a hard cut rather than dropping
		// the frame.
		presenter, _ = c.registry.Get(scene.PresentationNone)
	}

	dst := image.NewRGBA(image.Rect(0, 0, canvasSize.Width, canvasSize.Height))
	presenter(dst, rtransition.RenderInput{
		Outgoing:     outgoing,
		Incoming:     incoming,
		Progress:     w.Progress(f),
		Direction:    w.Direction,
		CanvasWidth:  canvasSize.Width,
		CanvasHeight: canvasSize.Height,
	})

	compositeOver(content, dst)
	return nil
}

func trackOrderOf(comp *scene.Composition, trackID string) int {
	for _, t := range comp.Tracks {
		if t.ID == trackID {
			return t.Order
		}
	}
	return 0
}

// renderTransitionClip renders one side of a transition at its own
// animated transform for the given timeline frame, with its own item
// effects and adjustment-layer effects applied but without compositing it
// onto the shared content canvas — the presentation does that. Both sides
// use the same continuously-advancing timelineFrame relative to their own
// From, exactly like the non-transition path: the outgoing clip keeps
// playing past its nominal end using its source handle, and the incoming
// clip has already started playing before its nominal start using its own
// handle, so video never freezes during the window.
func (c *Compositor) renderTransitionClip(
	ctx context.Context,
	norm *rresolve.Normalized,
	comp *scene.Composition,
	item *scene.TimelineItem,
	trackOrder int,
	timelineFrame int,
	canvasSize rkeyframe.CanvasSize,
	depth int,
) (*image.RGBA, error) {
	frameRel := float64(timelineFrame - item.From)
	transform := rkeyframe.GetAnimatedTransform(item, norm.Keyframes[item.ID], frameRel, canvasSize)

	out := image.NewRGBA(image.Rect(0, 0, canvasSize.Width, canvasSize.Height))
	if transform.Width <= 0 || transform.Height <= 0 {
		return out, nil
	}

	drawn, err := c.renderItemContent(ctx, norm, comp, item, transform, frameRel, timelineFrame, out, canvasSize, depth)
	if err != nil || !drawn {
		return out, err
	}
	if transform.Opacity < 1 {
		scaleAlpha(out, transform.Opacity)
	}
	effects := combinedEffects(comp, trackOrder, timelineFrame, item.Effects)
	applyEffects(out, effects, timelineFrame-item.From, item.EffectiveSpeed(), c.log)
	return out, nil
}
