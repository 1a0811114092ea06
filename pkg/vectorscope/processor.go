// Package vectorscope implements a stereo vectorscope and correlation meter
// plugin on top of the framework packages.
//
// The Processor runs in the audio context: it passes audio through, applies
// the solo matrix and feeds an attached SampleSink. The Editor runs in the
// render context: it owns the sample ring and correlation state and turns
// them into a drawable Frame on every render tick.
package vectorscope

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/fdimager/vectorscope/pkg/dsp/analysis"
	"github.com/fdimager/vectorscope/pkg/dsp/mix"
	"github.com/fdimager/vectorscope/pkg/framework/bus"
	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/framework/plugin"
	"github.com/fdimager/vectorscope/pkg/framework/process"
)

var (
	// ErrInvalidSampleRate is returned by Initialize for a non-positive rate.
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	// ErrInvalidBlockSize is returned by Initialize for a non-positive block size.
	ErrInvalidBlockSize = errors.New("invalid block size")
)

// Info describes the plugin to hosts.
var Info = plugin.Info{
	ID:       "com.fdimager.vectorscope",
	Name:     "Vectorscope",
	Version:  "1.0.0",
	Vendor:   "fdimager",
	Category: "Fx|Analyzer",
}

// Info implements plugin.Describer.
func (p *Processor) Info() plugin.Info {
	return Info
}

// SampleSink receives every processed block from the audio context.
// Write must not allocate, lock or block.
type SampleSink interface {
	Write(left, right []float32)
}

// Restarter is implemented by sinks that keep per-stream state. Restart is
// called on activation, before the first block of the new stream.
type Restarter interface {
	Restart()
}

type sinkRef struct {
	sink SampleSink
}

// Processor is the audio side of the vectorscope.
type Processor struct {
	*plugin.BaseProcessor

	params parameters
	guard  *debug.SampleGuard
	sink   atomic.Pointer[sinkRef]
}

var _ plugin.Processor = (*Processor)(nil)

// NewProcessor creates a processor with a stereo bus layout and registers
// its parameters.
func NewProcessor() (*Processor, error) {
	p := &Processor{
		BaseProcessor: plugin.NewBaseProcessor(bus.NewStereoConfiguration()),
		guard:         debug.NewSampleGuard(),
	}

	params, err := registerParameters(p.Parameters())
	if err != nil {
		return nil, fmt.Errorf("register parameters: %w", err)
	}
	p.params = params

	if err := Info.ValidateUID(); err != nil {
		return nil, fmt.Errorf("plugin info: %w", err)
	}

	p.OnInitialize(p.initialize)
	p.OnSetActive(p.setActive)

	return p, nil
}

func (p *Processor) initialize(sampleRate float64, maxBlockSize int32) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("initialize: %w: %v", ErrInvalidSampleRate, sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("initialize: %w: %d", ErrInvalidBlockSize, maxBlockSize)
	}
	return nil
}

func (p *Processor) setActive(active bool) error {
	if !active {
		return nil
	}

	p.guard.Reset()
	if ref := p.sink.Load(); ref != nil {
		if r, ok := ref.sink.(Restarter); ok {
			r.Restart()
		}
	}
	return nil
}

// AttachSink registers the receiver of processed blocks, replacing any
// previous one.
func (p *Processor) AttachSink(sink SampleSink) {
	if sink == nil {
		p.sink.Store(nil)
		return
	}
	p.sink.Store(&sinkRef{sink: sink})
}

// DetachSink removes the registered sink. A block already in flight may
// still deliver to the old sink.
func (p *Processor) DetachSink() {
	p.sink.Store(nil)
}

// release detaches sink only if it is still the registered one.
func (p *Processor) release(sink SampleSink) {
	if ref := p.sink.Load(); ref != nil && ref.sink == sink {
		p.sink.CompareAndSwap(ref, nil)
	}
}

// Guard returns the invalid-sample guard shared with the render context.
func (p *Processor) Guard() *debug.SampleGuard {
	return p.guard
}

// Solo returns the current solo switches.
func (p *Processor) Solo() mix.Solo {
	return p.params.solo()
}

// Controls returns the current rotation and width.
func (p *Processor) Controls() analysis.Controls {
	return p.params.controls()
}

// ProcessAudio passes the block through, silences it on invalid samples,
// applies the solo matrix and hands the result to the sink. Output
// channels without a matching input are cleared. Mono blocks skip the solo
// matrix and reach the sink on both channels.
func (p *Processor) ProcessAudio(ctx *process.Context) {
	channels := ctx.NumChannels()
	if channels == 0 || ctx.NumSamples() == 0 {
		ctx.ClearExtraOutputs()
		return
	}

	ctx.PassThrough()
	out := ctx.Output[:channels]
	p.guard.Check(out)

	left := out[0]
	var right []float32
	if channels > 1 {
		right = out[1]
		mix.ApplySolo(left, right, p.params.solo())
	}

	if ref := p.sink.Load(); ref != nil {
		ref.sink.Write(left, right)
	}

	ctx.ClearExtraOutputs()
}
