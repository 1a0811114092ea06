package analysis

import (
	"math"
	"time"

	"github.com/fdimager/vectorscope/pkg/framework/param"
)

// Correlation returns the normalized stereo correlation of a block:
// the sum of L*R divided by the product of the channel magnitudes.
// The result is in [-1, 1] and is exactly 0 when either channel is silent.
func Correlation(left, right []float32) float64 {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	var sumLR, sumLL, sumRR float64
	for i := 0; i < n; i++ {
		l := float64(left[i])
		r := float64(right[i])
		sumLR += l * r
		sumLL += l * l
		sumRR += r * r
	}

	if sumLL == 0 || sumRR == 0 {
		return 0
	}

	corr := sumLR / (math.Sqrt(sumLL) * math.Sqrt(sumRR))

	// Clamp to [-1, 1] to handle rounding
	if corr > 1.0 {
		corr = 1.0
	} else if corr < -1.0 {
		corr = -1.0
	}
	return corr
}

// PhaseStatus represents the qualitative phase relationship
type PhaseStatus int

const (
	PhaseInPhase PhaseStatus = iota
	PhaseMostlyInPhase
	PhasePartiallyCorrelated
	PhaseMostlyOutOfPhase
	PhaseOutOfPhase
)

// ClassifyPhase maps a correlation value to a phase status.
func ClassifyPhase(corr float64) PhaseStatus {
	switch {
	case corr > 0.9:
		return PhaseInPhase
	case corr > 0.5:
		return PhaseMostlyInPhase
	case corr > -0.5:
		return PhasePartiallyCorrelated
	case corr > -0.9:
		return PhaseMostlyOutOfPhase
	default:
		return PhaseOutOfPhase
	}
}

// String returns a string representation of the phase status
func (ps PhaseStatus) String() string {
	switch ps {
	case PhaseInPhase:
		return "In Phase"
	case PhaseMostlyInPhase:
		return "Mostly In Phase"
	case PhasePartiallyCorrelated:
		return "Partially Correlated"
	case PhaseMostlyOutOfPhase:
		return "Mostly Out of Phase"
	case PhaseOutOfPhase:
		return "Out of Phase"
	default:
		return "Unknown"
	}
}

// Default correlation display ballistics.
const (
	DefaultCorrelationTime = 60 * time.Millisecond
	DefaultTickRate        = 30.0 // Hz

	// CorrelationSnap is the distance at which the display lands on the raw
	// value. It is far below one LED cell (1/6).
	CorrelationSnap = 0.001
)

// CorrelationSmoother turns the raw per-block correlation into a stable
// display value. It is a one-pole ramp sampled at a fixed tick rate and is
// owned by the render context.
type CorrelationSmoother struct {
	smoother *param.Smoother
	raw      float64
}

// NewCorrelationSmoother creates a smoother with the given time constant
// evaluated at tickRate ticks per second.
func NewCorrelationSmoother(timeConstant time.Duration, tickRate float64) *CorrelationSmoother {
	smoother := param.NewTimeConstantSmoother(timeConstant.Seconds(), tickRate)
	smoother.SetThreshold(CorrelationSnap)
	return &CorrelationSmoother{smoother: smoother}
}

// Tick feeds the latest raw value and advances one display frame.
func (cs *CorrelationSmoother) Tick(raw float64) float64 {
	cs.raw = raw
	cs.smoother.SetTarget(raw)
	return cs.smoother.Next()
}

// Displayed returns the current smoothed value without advancing.
func (cs *CorrelationSmoother) Displayed() float64 {
	return cs.smoother.Current()
}

// Raw returns the last raw value passed to Tick.
func (cs *CorrelationSmoother) Raw() float64 {
	return cs.raw
}

// Reset returns the display to 0, as at stream start.
func (cs *CorrelationSmoother) Reset() {
	cs.raw = 0
	cs.smoother.Reset(0)
}
