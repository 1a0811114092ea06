// Package source builds the test signals the terminal host feeds into the
// vectorscope. Every signal is a beep.Streamer.
package source

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
)

// Kind names a test signal.
type Kind string

// Available signals.
const (
	Mono       Kind = "mono"       // identical channels, correlation +1
	Inverted   Kind = "inverted"   // right = -left, correlation -1
	Wide       Kind = "wide"       // unrelated tones per channel, correlation near 0
	Quadrature Kind = "quadrature" // 90 degree phase offset, a circle on the scope
	LeftOnly   Kind = "left"       // right channel silent
	RightOnly  Kind = "right"      // left channel silent
	Noise      Kind = "noise"      // independent pink noise per channel
	Silence    Kind = "silence"
)

// Kinds lists every signal in display order.
var Kinds = []Kind{Mono, Inverted, Wide, Quadrature, LeftOnly, RightOnly, Noise, Silence}

// ErrUnknownKind is returned for a signal name that is not in Kinds.
var ErrUnknownKind = errors.New("unknown signal")

// ParseKind converts a signal name (case-insensitive) to a Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Config describes a test signal.
type Config struct {
	Kind       Kind
	SampleRate beep.SampleRate
	Frequency  float64 // Hz
	Amplitude  float64 // linear, 1 is full scale
}

// New builds the streamer for cfg. The streamer never ends.
func New(cfg Config) (beep.Streamer, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("signal %s: invalid sample rate %d", cfg.Kind, cfg.SampleRate)
	}
	switch cfg.Kind {
	case Silence:
		return silence(), nil
	case Noise:
		return &effects.Gain{Streamer: noise(), Gain: cfg.Amplitude - 1}, nil
	}

	tone, err := generators.SineTone(cfg.SampleRate, cfg.Frequency)
	if err != nil {
		return nil, fmt.Errorf("signal %s: %w", cfg.Kind, err)
	}

	var s beep.Streamer
	switch cfg.Kind {
	case Mono:
		s = tone
	case Inverted:
		s = mapFrames(tone, func(l, r float64) (float64, float64) { return l, -r })
	case LeftOnly:
		s = mapFrames(tone, func(l, _ float64) (float64, float64) { return l, 0 })
	case RightOnly:
		s = mapFrames(tone, func(_, r float64) (float64, float64) { return 0, r })
	case Wide:
		// A fifth above on the right keeps the channels unrelated
		upper, err := generators.SineTone(cfg.SampleRate, cfg.Frequency*1.5)
		if err != nil {
			return nil, fmt.Errorf("signal %s: %w", cfg.Kind, err)
		}
		s = beep.Mix(
			mapFrames(tone, func(l, _ float64) (float64, float64) { return l, 0 }),
			mapFrames(upper, func(_, r float64) (float64, float64) { return 0, r }),
		)
	case Quadrature:
		s = quadrature(cfg.SampleRate, cfg.Frequency)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}

	// Gain scales by 1+Gain
	return &effects.Gain{Streamer: s, Gain: cfg.Amplitude - 1}, nil
}

// mapFrames applies fn to every frame the wrapped streamer produces.
func mapFrames(s beep.Streamer, fn func(l, r float64) (float64, float64)) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			samples[i][0], samples[i][1] = fn(samples[i][0], samples[i][1])
		}
		return n, ok
	})
}

func silence() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		clear(samples)
		return len(samples), true
	})
}

// quadrature streams a sine on the left and a cosine on the right.
func quadrature(sr beep.SampleRate, freq float64) beep.Streamer {
	step := 2 * math.Pi * freq / float64(sr)
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i][0] = math.Sin(phase)
			samples[i][1] = math.Cos(phase)
			phase += step
			if phase >= 2*math.Pi {
				phase -= 2 * math.Pi
			}
		}
		return len(samples), true
	})
}
