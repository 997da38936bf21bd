// Package rcanvas is the per-render pool of reusable drawing surfaces the
// compositor, effects, and transition renderers acquire and release
// instead of allocating a fresh canvas per item per frame.
package rcanvas

import (
	"image"
	"sync"

	"github.com/fogleman/gg"
)

// Canvas wraps a gg.Context sized to the pool's width/height. Acquire
// always hands back a cleared, identity-state context; callers mutate it
// freely and Release it back to the pool when done.
type Canvas struct {
	*gg.Context
	pooled bool
}

// Pool hands out Canvas values at a fixed width/height, reusing released
// ones up to cap. Beyond cap it still allocates — those overflow canvases
// are simply discarded on Release instead of being retained.
type Pool struct {
	mu     sync.Mutex
	width  int
	height int
	cap    int
	free   []*Canvas
	live   int
}

// NewPool returns a pool of canvases sized width x height, retaining up to
// capHint released canvases for reuse.
func NewPool(width, height, capHint int) *Pool {
	if capHint < 1 {
		capHint = 1
	}
	return &Pool{width: width, height: height, cap: capHint}
}

// Acquire returns a cleared canvas with global alpha 1 and a normal
// composite operator, reused from the pool when available.
func (p *Pool) Acquire() *Canvas {
	p.mu.Lock()
	var c *Canvas
	if n := len(p.free); n > 0 {
		c = p.free[n-1]
		p.free = p.free[:n-1]
	}
	overflow := c == nil && p.live >= p.cap
	p.mu.Unlock()

	if c == nil {
		ctx := gg.NewContext(p.width, p.height)
		c = &Canvas{Context: ctx, pooled: !overflow}
		if !overflow {
			p.mu.Lock()
			p.live++
			p.mu.Unlock()
		}
	}

	c.Context.SetRGBA(0, 0, 0, 0)
	c.Context.Clear()
	c.Context.SetRGBA(0, 0, 0, 1)
	c.Context.Identity()
	c.Context.ResetClip()
	return c
}

// Release returns c to the pool for reuse, unless c was an overflow
// allocation made past cap, in which case it is simply dropped.
func (p *Pool) Release(c *Canvas) {
	if c == nil || !c.pooled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.cap {
		p.free = append(p.free, c)
	} else {
		p.live--
	}
}

// Image returns c's backing RGBA buffer for compositing into other
// canvases or encoding.
func (c *Canvas) Image() *image.RGBA {
	return c.Context.Image().(*image.RGBA)
}
