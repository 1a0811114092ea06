package debug

import (
	"math"
	"sync/atomic"
)

// Defect is a class of invalid audio detected in the processing path.
type Defect uint32

const (
	// DefectNaN marks a NaN sample. The block is silenced.
	DefectNaN Defect = 1 << iota
	// DefectInf marks an infinite sample. The block is silenced.
	DefectInf
	// DefectRange marks a sample beyond the hard range limit. The block is silenced.
	DefectRange
	// DefectClip marks a sample above full scale. Reported only.
	DefectClip
)

// String returns the defect class name.
func (d Defect) String() string {
	switch d {
	case DefectNaN:
		return "nan"
	case DefectInf:
		return "inf"
	case DefectRange:
		return "range"
	case DefectClip:
		return "clip"
	default:
		return "unknown"
	}
}

// Has reports whether d contains every bit of other.
func (d Defect) Has(other Defect) bool {
	return d&other == other
}

var defectClasses = [...]Defect{DefectNaN, DefectInf, DefectRange, DefectClip}

// Default guard limits.
const (
	DefaultClipLimit  = 1.0
	DefaultRangeLimit = 2.0
)

// SampleGuard scans audio blocks for invalid samples in the real-time path.
//
// Check runs on the audio thread: it only reads and zeroes samples and sets
// atomic flag bits. Report runs on a non-real-time thread and logs every
// defect class the first time it is seen, so repeated defects never flood
// the log.
type SampleGuard struct {
	clipLimit  float32
	rangeLimit float32

	raised   atomic.Uint32
	reported atomic.Uint32
	silenced atomic.Uint64
}

// NewSampleGuard creates a guard with the default limits.
func NewSampleGuard() *SampleGuard {
	return &SampleGuard{
		clipLimit:  DefaultClipLimit,
		rangeLimit: DefaultRangeLimit,
	}
}

// Check scans every channel. When a NaN, infinity or out-of-range sample is
// found every channel is zeroed and true is returned. Samples above full
// scale but inside the range limit are flagged without silencing.
func (g *SampleGuard) Check(channels [][]float32) bool {
	var found Defect

scan:
	for _, ch := range channels {
		for _, x := range ch {
			v := float64(x)
			switch {
			case math.IsNaN(v):
				found |= DefectNaN
				break scan
			case math.IsInf(v, 0):
				found |= DefectInf
				break scan
			case x > g.rangeLimit || x < -g.rangeLimit:
				found |= DefectRange
				break scan
			case x > g.clipLimit || x < -g.clipLimit:
				found |= DefectClip
			}
		}
	}

	if found == 0 {
		return false
	}
	g.raised.Or(uint32(found))

	if found&(DefectNaN|DefectInf|DefectRange) == 0 {
		return false
	}

	for _, ch := range channels {
		clear(ch)
	}
	g.silenced.Add(1)
	return true
}

// Raised returns every defect class seen since the last Reset.
func (g *SampleGuard) Raised() Defect {
	return Defect(g.raised.Load())
}

// SilencedBlocks returns how many blocks were zeroed.
func (g *SampleGuard) SilencedBlocks() uint64 {
	return g.silenced.Load()
}

// Report logs defect classes that have not been reported yet and returns them.
func (g *SampleGuard) Report(l *Logger) Defect {
	pending := Defect(g.raised.Load() &^ g.reported.Load())
	if pending == 0 {
		return 0
	}
	g.reported.Or(uint32(pending))

	for _, d := range defectClasses {
		if !pending.Has(d) {
			continue
		}
		switch d {
		case DefectClip:
			l.Warn("sample above full scale detected in audio buffer")
		default:
			l.Error("%s sample detected in audio buffer, silencing block (silenced so far: %d)",
				d, g.SilencedBlocks())
		}
	}
	return pending
}

// Reset clears all flags and counters.
func (g *SampleGuard) Reset() {
	g.raised.Store(0)
	g.reported.Store(0)
	g.silenced.Store(0)
}
