package rkeyframe

import (
	"testing"

	"github.com/mantonx/reelforge/pkg/scene"
	"github.com/stretchr/testify/assert"
)

func TestInterpolateEmptyFallsBackToFallback(t *testing.T) {
	assert.Equal(t, 42.0, Interpolate(nil, 10, 42))
}

func TestInterpolateBeforeFirstAndAfterLast(t *testing.T) {
	kfs := []scene.Keyframe{
		{Frame: 10, Value: 1, Easing: scene.EasingLinear},
		{Frame: 20, Value: 2, Easing: scene.EasingLinear},
	}
	assert.Equal(t, 1.0, Interpolate(kfs, 0, 0))
	assert.Equal(t, 2.0, Interpolate(kfs, 30, 0))
}

func TestInterpolateLinearMidpoint(t *testing.T) {
	kfs := []scene.Keyframe{
		{Frame: 0, Value: 0, Easing: scene.EasingLinear},
		{Frame: 60, Value: 1, Easing: scene.EasingLinear},
	}
	assert.InDelta(t, 0.5, Interpolate(kfs, 30, 0), 1e-9)
	assert.InDelta(t, 0.25, Interpolate(kfs, 15, 0), 1e-9)
}

func TestInterpolateOpacityRampHalfwayAtMidpoint(t *testing.T) {
	// Linear opacity ramp (0, 0.0) -> (60, 1.0).
	kfs := []scene.Keyframe{
		{Frame: 0, Value: 0.0, Easing: scene.EasingLinear},
		{Frame: 60, Value: 1.0, Easing: scene.EasingLinear},
	}
	assert.InDelta(t, 0.5, Interpolate(kfs, 30, 1), 1e-9)
}

func TestApplyUnknownEasingFallsBackToLinear(t *testing.T) {
	assert.Equal(t, 0.3, Apply(scene.Easing("bogus"), 0.3, nil))
}

func TestSpringCanOvershoot(t *testing.T) {
	cfg := &scene.EasingConfig{Spring: &scene.SpringConfig{Tension: 300, Friction: 10, Mass: 1}}
	overshot := false
	for i := 1; i < 100; i++ {
		v := Apply(scene.EasingSpring, float64(i)/100.0, cfg)
		if v > 1.0 {
			overshot = true
			break
		}
	}
	assert.True(t, overshot, "underdamped spring should overshoot beyond 1.0 at some point")
}

func TestGetAnimatedTransformOverridesOnlyKeyframedProps(t *testing.T) {
	item := &scene.TimelineItem{X: 10, Y: 20, Width: 100, Height: 50, Rotation: 0, Opacity: 1}
	kfs := &scene.ItemKeyframes{
		ItemID: "i1",
		Properties: []scene.PropertyKeyframes{
			{Property: scene.PropOpacity, Keyframes: []scene.Keyframe{
				{Frame: 0, Value: 0, Easing: scene.EasingLinear},
				{Frame: 10, Value: 1, Easing: scene.EasingLinear},
			}},
		},
	}
	tr := GetAnimatedTransform(item, kfs, 5, CanvasSize{Width: 1920, Height: 1080})
	assert.InDelta(t, 0.5, tr.Opacity, 1e-9)
	assert.Equal(t, 10.0, tr.X)
	assert.Equal(t, 100.0, tr.Width)
}

func TestBaseTransformCanvasFitWhenNoDimensions(t *testing.T) {
	item := &scene.TimelineItem{}
	tr := BaseTransform(item, CanvasSize{Width: 1920, Height: 1080})
	assert.Equal(t, 1920.0, tr.Width)
	assert.Equal(t, 1080.0, tr.Height)
	assert.Equal(t, 1.0, tr.Opacity)
}
