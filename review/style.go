package review

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Style is the writing persona controlling tone and length. A new style is
// drawn independently for every request; nothing about it is persisted.
type Style string

const (
	StyleShort    Style = "short"    // very brief, blunt, minimal adjectives
	StyleCasual   Style = "casual"   // conversational register, mid-range length
	StyleDetailed Style = "detailed" // plain informative register, widest length
)

// Styles lists all writer styles in sampling order.
var Styles = []Style{StyleShort, StyleCasual, StyleDetailed}

// DefaultStyleWeights is the production probability table.
var DefaultStyleWeights = map[Style]float64{
	StyleShort:    0.4,
	StyleCasual:   0.4,
	StyleDetailed: 0.2,
}

// StyleSampler draws a writer style from an explicit discrete distribution.
// The table lives in one place so it can be unit-tested and changed without
// touching call sites.
type StyleSampler struct {
	weights map[Style]float64
	randFn  func() float64
}

// NewStyleSampler builds a sampler over the given probability table. The
// weights must cover every style and sum to 1.
func NewStyleSampler(weights map[Style]float64) (*StyleSampler, error) {
	sum := 0.0
	for _, st := range Styles {
		w, ok := weights[st]
		if !ok {
			return nil, fmt.Errorf("style weight missing for %q", st)
		}
		if w < 0 {
			return nil, fmt.Errorf("style weight for %q is negative", st)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("style weights sum to %v, want 1", sum)
	}
	return &StyleSampler{weights: weights, randFn: rand.Float64}, nil
}

// MustStyleSampler is NewStyleSampler for tables known correct at compile time.
func MustStyleSampler(weights map[Style]float64) *StyleSampler {
	s, err := NewStyleSampler(weights)
	if err != nil {
		panic(err)
	}
	return s
}

// WithRand overrides the random source. For tests.
func (s *StyleSampler) WithRand(fn func() float64) *StyleSampler {
	s.randFn = fn
	return s
}

// Pick draws one style with a single uniform draw in [0,1), walking the
// cumulative distribution in Styles order.
func (s *StyleSampler) Pick() Style {
	draw := s.randFn()
	cum := 0.0
	for _, st := range Styles {
		cum += s.weights[st]
		if draw < cum {
			return st
		}
	}
	// Floating point residue on the last boundary.
	return Styles[len(Styles)-1]
}
