package rcanvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireReleaseReusesCanvas(t *testing.T) {
	pool := NewPool(64, 64, 2)
	c1 := pool.Acquire()
	pool.Release(c1)
	c2 := pool.Acquire()
	assert.Same(t, c1, c2)
}

func TestAcquireClearsPreviousContent(t *testing.T) {
	pool := NewPool(8, 8, 1)
	c := pool.Acquire()
	c.SetRGB(1, 0, 0)
	c.DrawRectangle(0, 0, 8, 8)
	c.Fill()
	pool.Release(c)

	reused := pool.Acquire()
	px := reused.Image().RGBAAt(0, 0)
	assert.EqualValues(t, 0, px.A)
}

func TestOverflowCanvasIsNotPooled(t *testing.T) {
	pool := NewPool(4, 4, 1)
	first := pool.Acquire()
	second := pool.Acquire() // exceeds cap of 1
	pool.Release(first)
	pool.Release(second)
	assert.Len(t, pool.free, 1)
}

func TestFitWithinPreservesAspect(t *testing.T) {
	w, h := FitWithin(1920, 1080, 960, 960)
	assert.Equal(t, 960, w)
	assert.Equal(t, 540, h)
}
