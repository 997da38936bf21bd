package rkeyframe

import (
	"math"

	"github.com/mantonx/reelforge/pkg/scene"
)

// easingFunc maps normalized time t in [0,1] to eased t'. The spring easing
// may overshoot beyond [0,1].
type easingFunc func(t float64, cfg *scene.EasingConfig) float64

var easings = map[scene.Easing]easingFunc{
	scene.EasingLinear:      func(t float64, _ *scene.EasingConfig) float64 { return t },
	scene.EasingEaseIn:      func(t float64, _ *scene.EasingConfig) float64 { return t * t },
	scene.EasingEaseOut:     func(t float64, _ *scene.EasingConfig) float64 { return 1 - (1-t)*(1-t) },
	scene.EasingEaseInOut:   easeInOut,
	scene.EasingCubicBezier: cubicBezierEase,
	scene.EasingSpring:      springEase,
}

// Apply dispatches to the named easing, falling back to linear for an
// unrecognized or empty name rather than panicking on an unknown key.
func Apply(easing scene.Easing, t float64, cfg *scene.EasingConfig) float64 {
	if fn, ok := easings[easing]; ok {
		return fn(t, cfg)
	}
	return t
}

func easeInOut(t float64, _ *scene.EasingConfig) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// cubicBezierEase evaluates a cubic bezier timing curve through the two
// interior control points (cfg.BezierPoints = [x1,y1,x2,y2], matching the
// CSS cubic-bezier() convention), solving for the bezier's y at parameter t
// by bisection on x since x(u) isn't directly invertible.
func cubicBezierEase(t float64, cfg *scene.EasingConfig) float64 {
	if cfg == nil || len(cfg.BezierPoints) < 4 {
		return t
	}
	x1, y1, x2, y2 := cfg.BezierPoints[0], cfg.BezierPoints[1], cfg.BezierPoints[2], cfg.BezierPoints[3]

	bez := func(p0, p1, p2, p3, u float64) float64 {
		mu := 1 - u
		return 3*mu*mu*u*p1 + 3*mu*u*u*p2 + u*u*u*p3 + mu*mu*mu*0
	}

	lo, hi := 0.0, 1.0
	u := t
	for i := 0; i < 20; i++ {
		x := bez(0, x1, x2, 1, u)
		if math.Abs(x-t) < 1e-5 {
			break
		}
		if x < t {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return bez(0, y1, y2, 1, u)
}

// springEase implements a damped-harmonic-oscillator spring, sampled at
// simulated time t*4 (t in [0,1] spans 4 time units) — enough to produce
// an overshoot-then-settle curve without modeling a continuously-running
// physical simulation (the keyframe window is short and bounded, so a
// closed-form solution is accurate and cheap).
func springEase(t float64, cfg *scene.EasingConfig) float64 {
	tension, friction, mass := 170.0, 26.0, 1.0
	if cfg != nil && cfg.Spring != nil {
		if cfg.Spring.Tension > 0 {
			tension = cfg.Spring.Tension
		}
		if cfg.Spring.Friction > 0 {
			friction = cfg.Spring.Friction
		}
		if cfg.Spring.Mass > 0 {
			mass = cfg.Spring.Mass
		}
	}
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	omega0 := math.Sqrt(tension / mass)
	zeta := friction / (2 * math.Sqrt(tension*mass))

	// Map t in [0,1] to a fixed simulated-time window long enough for the
	// underdamped case to visibly settle.
	simTime := t * 4.0

	var envelope float64
	if zeta < 1 {
		omegaD := omega0 * math.Sqrt(1-zeta*zeta)
		envelope = 1 - math.Exp(-zeta*omega0*simTime)*(math.Cos(omegaD*simTime)+(zeta*omega0/omegaD)*math.Sin(omegaD*simTime))
	} else {
		envelope = 1 - math.Exp(-omega0*simTime)*(1+omega0*simTime)
	}
	return envelope
}
