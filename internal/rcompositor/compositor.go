// Package rcompositor implements the per-frame compositor: track ordering,
// item rendering, effects, masks, transitions, adjustment layers, occlusion
// culling, and sub-composition recursion.
package rcompositor

import (
	"context"
	"image"
	"image/color"
	"strconv"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/reelforge/internal/rcanvas"
	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/internal/rresolve"
	"github.com/mantonx/reelforge/internal/rtransition"
	"github.com/mantonx/reelforge/pkg/mediaio"
	"github.com/mantonx/reelforge/pkg/scene"
)

// maxSubCompositionDepth bounds how deep composition items may nest before
// a render is rejected, so a cyclical or pathological reference graph can't
// recurse forever.
const maxSubCompositionDepth = 8

// SubCompositionResolver loads a sub-composition by ID. The caller owns
// cycle detection at the data-model level; the compositor only enforces a
// depth cap.
type SubCompositionResolver func(ctx context.Context, compositionID string) (*scene.Composition, error)

// Compositor renders composed frames against a MediaStore/FontProvider pair,
// reusing pooled canvases and cached video frame readers across calls.
type Compositor struct {
	store    mediaio.MediaStore
	fonts    mediaio.FontProvider
	resolve  SubCompositionResolver
	log      hclog.Logger
	registry *rtransition.Registry

	mu      sync.Mutex
	pools   map[[2]int]*rcanvas.Pool
	readers map[string]mediaio.VideoFrameReader
}

// New builds a Compositor. resolve may be nil if the caller's compositions
// never reference sub-compositions.
func New(store mediaio.MediaStore, fonts mediaio.FontProvider, resolve SubCompositionResolver, log hclog.Logger) *Compositor {
	return &Compositor{
		store:    store,
		fonts:    fonts,
		resolve:  resolve,
		log:      log,
		registry: rtransition.NewRegistry(),
		pools:    make(map[[2]int]*rcanvas.Pool),
		readers:  make(map[string]mediaio.VideoFrameReader),
	}
}

// Registry exposes the transition presentation registry so callers can
// register custom presentations before rendering.
func (c *Compositor) Registry() *rtransition.Registry { return c.registry }

// Close releases every cached video frame reader.
func (c *Compositor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for src, r := range c.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.readers, src)
	}
	return firstErr
}

func (c *Compositor) poolFor(w, h int) *rcanvas.Pool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]int{w, h}
	p, ok := c.pools[key]
	if !ok {
		p = rcanvas.NewPool(w, h, 16)
		c.pools[key] = p
	}
	return p
}

func (c *Compositor) readerFor(ctx context.Context, src string) (mediaio.VideoFrameReader, error) {
	c.mu.Lock()
	r, ok := c.readers[src]
	c.mu.Unlock()
	if ok {
		return r, nil
	}

	r, err := c.store.CreateVideoFrameReader(ctx, src)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.readers[src] = r
	c.mu.Unlock()
	return r, nil
}

// RenderFrame renders timeline frame f of a resolved composition.
func (c *Compositor) RenderFrame(ctx context.Context, norm *rresolve.Normalized, f int) (*image.RGBA, error) {
	return c.renderFrame(ctx, norm, f, 0)
}

func (c *Compositor) renderFrame(ctx context.Context, norm *rresolve.Normalized, f, depth int) (*image.RGBA, error) {
	if depth > maxSubCompositionDepth {
		return nil, rerr.Wrapf(rerr.InputInvalid, "sub-composition nesting exceeds depth %d", maxSubCompositionDepth)
	}
	if err := ctx.Err(); err != nil {
		return nil, rerr.Wrap(rerr.Cancelled, err)
	}

	comp := norm.Composition
	canvasSize := rkeyframe.CanvasSize{Width: comp.Width, Height: comp.Height}
	output := image.NewRGBA(image.Rect(0, 0, comp.Width, comp.Height))
	fillBackground(output, comp.BackgroundColor)

	byID := comp.ItemByID()
	windows := rtransition.Plan(comp)
	active := rtransition.ActiveWindows(windows, f)
	excluded := rtransition.ExcludedClipIDs(active)

	masks := collectMasks(comp, norm.Keyframes, f, canvasSize)
	cutoff, cutoffEnabled := occlusionCutoff(comp, byID, norm.Keyframes, f, canvasSize, excluded, len(masks) > 0)

	contentPool := c.poolFor(comp.Width, comp.Height)
	content := contentPool.Acquire()
	defer contentPool.Release(content)

	tracksDesc := scene.SortTracksDescending(comp.Tracks)
	windowsByTrack := groupWindowsByTrack(active)

	for _, track := range tracksDesc {
		if !track.Visible {
			continue
		}
		if cutoffEnabled && track.Order > cutoff {
			continue
		}

		for i := range track.Items {
			item := &track.Items[i]
			if !item.ActiveAt(f) || excluded[item.ID] {
				continue
			}
			if item.Type == scene.ItemAudio || item.Type == scene.ItemAdjustment {
				continue
			}
			if item.Type == scene.ItemShape && item.Shape != nil && item.Shape.IsMask {
				continue
			}

			if err := c.compositeItem(ctx, norm, comp, item, track.Order, f, canvasSize, content.Image(), depth); err != nil {
				if rerr.IsLocalRecovery(err) {
					if c.log != nil {
						c.log.Warn("skipping item after local-recoverable error", "item", item.ID, "err", err)
					}
					continue
				}
				return nil, err
			}
		}

		for _, w := range windowsByTrack[track.ID] {
			if err := c.renderTransitionWindow(ctx, norm, comp, byID, &w, f, canvasSize, content.Image(), depth); err != nil {
				if rerr.IsLocalRecovery(err) {
					continue
				}
				return nil, err
			}
		}
	}

	if len(masks) > 0 {
		applyMaskList(content.Image(), masks)
	}

	draw2RGBA(output, content.Image())
	return output, nil
}

func groupWindowsByTrack(windows []rtransition.Window) map[string][]rtransition.Window {
	out := make(map[string][]rtransition.Window)
	for _, w := range windows {
		out[w.TrackID] = append(out[w.TrackID], w)
	}
	return out
}

func fillBackground(img *image.RGBA, hex string) {
	c := parseHexColorLocal(hex)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func draw2RGBA(dst, src *image.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, src.RGBAAt(x, y))
		}
	}
}

func parseHexColorLocal(hex string) color.RGBA {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return color.RGBA{A: 255}
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
