package scene

// Presentation names the transition's visual treatment; a string rather
// than a closed enum so the in-process presentation registry
// (internal/rtransition) can be extended without changing this package.
type Presentation string

const (
	PresentationFade       Presentation = "fade"
	PresentationWipe       Presentation = "wipe"
	PresentationSlide      Presentation = "slide"
	PresentationFlip       Presentation = "flip"
	PresentationClockWipe  Presentation = "clockWipe"
	PresentationIris       Presentation = "iris"
	PresentationNone       Presentation = "none"
)

// Direction qualifies wipe/slide/flip presentations.
type Direction string

const (
	DirectionFromLeft   Direction = "from-left"
	DirectionFromRight  Direction = "from-right"
	DirectionFromTop    Direction = "from-top"
	DirectionFromBottom Direction = "from-bottom"
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
)

// Easing names a timing curve, shared between transitions (Transition.Timing)
// and keyframes (Keyframe.Easing).
type Easing string

const (
	EasingLinear      Easing = "linear"
	EasingEaseIn      Easing = "ease-in"
	EasingEaseOut     Easing = "ease-out"
	EasingEaseInOut   Easing = "ease-in-out"
	EasingCubicBezier Easing = "cubic-bezier"
	EasingSpring      Easing = "spring"
)

// SpringConfig parameterizes the spring easing.
type SpringConfig struct {
	Tension  float64 `json:"tension,omitempty"`
	Friction float64 `json:"friction,omitempty"`
	Mass     float64 `json:"mass,omitempty"`
}

// EasingConfig carries the parameters a non-trivial easing needs.
type EasingConfig struct {
	Spring       *SpringConfig `json:"spring,omitempty"`
	BezierPoints []float64     `json:"bezierPoints,omitempty"`
}

// Transition links two adjacent clips on the same track.
type Transition struct {
	ID               string       `json:"id"`
	TrackID          string       `json:"trackId"`
	LeftClipID       string       `json:"leftClipId"`
	RightClipID      string       `json:"rightClipId"`
	Presentation     Presentation `json:"presentation"`
	Direction        Direction    `json:"direction,omitempty"`
	DurationInFrames int          `json:"durationInFrames"`
	// Alignment in [0,1], default 0.5, controls how the transition window
	// straddles the nominal cut point. A nil pointer means "unset"; explicit
	// 0 (fully left-weighted) is distinct from unset.
	Alignment    *float64  `json:"alignment,omitempty"`
	Timing       Easing    `json:"timing"`
	BezierPoints []float64 `json:"bezierPoints,omitempty"`
}

// EffectiveAlignment returns Alignment, defaulting to 0.5 when unset.
func (t *Transition) EffectiveAlignment() float64 {
	if t.Alignment == nil {
		return 0.5
	}
	return *t.Alignment
}
