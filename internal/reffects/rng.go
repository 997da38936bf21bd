// Package reffects implements the per-item visual effects and mask
// compositing: CSS-style filters, glitch treatments, halftone screens,
// vignettes, and clip/alpha masks.
package reffects

// lcgNext is the seeded linear-congruential generator glitch effects use
// for deterministic, re-renderable per-frame randomness: same frame, same
// seed, same output, every time.
func lcgNext(state int64) int64 {
	const (
		a = 1103515245
		c = 12345
		m = 1 << 31
	)
	return (state*a + c) % m
}

// lcgFloat01 maps one LCG step's raw state to a float in [0,1).
func lcgFloat01(state int64) (next int64, value float64) {
	next = lcgNext(state)
	return next, float64(next) / float64(int64(1)<<31)
}
