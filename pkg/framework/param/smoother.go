package param

import (
	"math"
)

// DefaultThreshold is the distance at which a smoother snaps to its target.
const DefaultThreshold = 0.0001

// Smoother is a one-pole ramp toward a target, advanced one step per call
// to Next. It never overshoots and lands exactly on the target once within
// the snap threshold.
type Smoother struct {
	current     float64
	target      float64
	coeff       float64
	threshold   float64
	isSmoothing bool
}

// NewSmoother creates a smoother with pole coefficient coeff (0-1). Higher
// values move more slowly; 0 jumps straight to the target.
func NewSmoother(coeff float64) *Smoother {
	return &Smoother{
		coeff:     max(0, min(1, coeff)),
		threshold: DefaultThreshold,
	}
}

// NewTimeConstantSmoother creates a smoother whose time constant is tau
// seconds when Next is called tickRate times per second.
func NewTimeConstantSmoother(tau, tickRate float64) *Smoother {
	return NewSmoother(TimeConstantCoefficient(tau, tickRate))
}

// TimeConstantCoefficient returns the one-pole coefficient exp(-1/(tau*rate)).
// A non-positive tau yields 0, which makes the smoother jump to its target.
func TimeConstantCoefficient(tau, tickRate float64) float64 {
	if tau <= 0 || tickRate <= 0 {
		return 0
	}
	return math.Exp(-1.0 / (tau * tickRate))
}

// SetTarget sets the target value for smoothing.
func (s *Smoother) SetTarget(target float64) {
	if math.Abs(target-s.target) < s.threshold && !s.isSmoothing {
		return
	}
	s.target = target
	s.isSmoothing = s.current != target
}

// Next returns the next smoothed value.
func (s *Smoother) Next() float64 {
	if !s.isSmoothing {
		return s.current
	}

	// y += (x - y) * (1 - a)
	s.current += (s.target - s.current) * (1.0 - s.coeff)
	if math.Abs(s.current-s.target) < s.threshold {
		s.current = s.target
		s.isSmoothing = false
	}
	return s.current
}

// Current returns the smoothed value without advancing.
func (s *Smoother) Current() float64 {
	return s.current
}

// Target returns the value being approached.
func (s *Smoother) Target() float64 {
	return s.target
}

// Coefficient returns the pole coefficient.
func (s *Smoother) Coefficient() float64 {
	return s.coeff
}

// IsSmoothing returns true if the smoother is currently smoothing.
func (s *Smoother) IsSmoothing() bool {
	return s.isSmoothing
}

// Reset resets the smoother to a specific value.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.isSmoothing = false
}

// SetThreshold sets the snap distance. Non-positive values restore
// DefaultThreshold.
func (s *Smoother) SetThreshold(threshold float64) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	s.threshold = threshold
}
