// Package plugin provides the processor contract and base processor
// functionality shared by plugins built on the framework.
package plugin

import (
	"errors"
	"sync/atomic"

	"github.com/fdimager/vectorscope/pkg/framework/bus"
	"github.com/fdimager/vectorscope/pkg/framework/param"
	"github.com/fdimager/vectorscope/pkg/framework/process"
)

// ErrActive is returned by Initialize while processing is running.
var ErrActive = errors.New("processor is active")

// Processor is the interface a host drives.
type Processor interface {
	// Initialize is called once before the first activation
	Initialize(sampleRate float64, maxBlockSize int32) error

	// ProcessAudio runs on the audio thread. It must not allocate, lock or block.
	ProcessAudio(ctx *process.Context)

	// GetParameters returns the parameter registry
	GetParameters() *param.Registry

	// GetBuses returns the bus configuration
	GetBuses() *bus.Configuration

	// SetActive is called when processing starts/stops. Activation is a
	// stream start.
	SetActive(active bool) error

	// GetLatencySamples returns the plugin's latency in samples
	GetLatencySamples() int32

	// GetTailSamples returns the tail length in samples
	GetTailSamples() int32
}

// BaseProcessor provides common functionality for audio processors
type BaseProcessor struct {
	params       *param.Registry
	buses        *bus.Configuration
	sampleRate   float64
	maxBlockSize int32
	active       atomic.Bool

	// Optional callbacks for customization
	onInitialize func(sampleRate float64, maxBlockSize int32) error
	onSetActive  func(active bool) error
	onReset      func()
}

// NewBaseProcessor creates a new base processor with the given bus configuration
func NewBaseProcessor(buses *bus.Configuration) *BaseProcessor {
	if buses == nil {
		buses = bus.NewStereoConfiguration() // Default to stereo
	}

	return &BaseProcessor{
		params: param.NewRegistry(),
		buses:  buses,
	}
}

// Initialize implements the Processor interface. Reconfiguring a running
// processor is refused with ErrActive.
func (b *BaseProcessor) Initialize(sampleRate float64, maxBlockSize int32) error {
	if b.active.Load() {
		return ErrActive
	}
	b.sampleRate = sampleRate
	b.maxBlockSize = maxBlockSize

	if b.onInitialize != nil {
		return b.onInitialize(sampleRate, maxBlockSize)
	}

	return nil
}

// GetParameters implements the Processor interface
func (b *BaseProcessor) GetParameters() *param.Registry {
	return b.params
}

// GetBuses implements the Processor interface
func (b *BaseProcessor) GetBuses() *bus.Configuration {
	return b.buses
}

// SetActive implements the Processor interface. Repeated calls with the
// same state are ignored. Deactivation runs the reset callback before the
// activation callback. A failed activation leaves the processor inactive.
func (b *BaseProcessor) SetActive(active bool) error {
	if b.active.Swap(active) == active {
		return nil
	}

	if !active && b.onReset != nil {
		b.onReset()
	}

	if b.onSetActive != nil {
		if err := b.onSetActive(active); err != nil {
			if active {
				b.active.Store(false)
			}
			return err
		}
	}

	return nil
}

// IsActive reports whether the processor is between SetActive(true) and
// SetActive(false).
func (b *BaseProcessor) IsActive() bool {
	return b.active.Load()
}

// GetLatencySamples implements the Processor interface - default no latency
func (b *BaseProcessor) GetLatencySamples() int32 {
	return 0
}

// GetTailSamples implements the Processor interface - default no tail
func (b *BaseProcessor) GetTailSamples() int32 {
	return 0
}

// SampleRate returns the current sample rate
func (b *BaseProcessor) SampleRate() float64 {
	return b.sampleRate
}

// MaxBlockSize returns the largest block the host announced
func (b *BaseProcessor) MaxBlockSize() int32 {
	return b.maxBlockSize
}

// Parameters returns the parameter registry for adding parameters
func (b *BaseProcessor) Parameters() *param.Registry {
	return b.params
}

// OnInitialize sets a callback for initialization
func (b *BaseProcessor) OnInitialize(fn func(sampleRate float64, maxBlockSize int32) error) {
	b.onInitialize = fn
}

// OnSetActive sets a callback for activation/deactivation
func (b *BaseProcessor) OnSetActive(fn func(active bool) error) {
	b.onSetActive = fn
}

// OnReset sets a callback for when the processor should reset its state
func (b *BaseProcessor) OnReset(fn func()) {
	b.onReset = fn
}
