package vectorscope

import (
	"context"
	"errors"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fdimager/vectorscope/pkg/dsp/analysis"
	"github.com/fdimager/vectorscope/pkg/dsp/buffer"
	"github.com/fdimager/vectorscope/pkg/dsp/mix"
	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/framework/param"
)

// ErrEditorClosed is returned by Run after Close.
var ErrEditorClosed = errors.New("editor closed")

// renderSection names the render tick in the profiler.
const renderSection = "RenderTick"

// EditorConfig configures the render side. Zero fields take defaults.
type EditorConfig struct {
	Width        float64       // drawing area width
	Height       float64       // drawing area height
	TickRate     float64       // render ticks per second
	TimeConstant time.Duration // correlation display time constant
	Capacity     int           // stereo pairs per ring rotation
	Logger       *debug.Logger
}

func (c EditorConfig) withDefaults() EditorConfig {
	if c.Width <= 0 {
		c.Width = 300
	}
	if c.Height <= 0 {
		c.Height = 300
	}
	if c.TickRate <= 0 {
		c.TickRate = analysis.DefaultTickRate
	}
	if c.TimeConstant <= 0 {
		c.TimeConstant = analysis.DefaultCorrelationTime
	}
	if c.Capacity <= 0 {
		c.Capacity = buffer.DefaultCapacity
	}
	if c.Logger == nil {
		c.Logger = debug.Default()
	}
	return c
}

// Frame is everything a view needs to draw one render tick.
type Frame struct {
	// Points is valid until the next OnRenderTick.
	Points      iter.Seq[analysis.Point]
	LEDs        analysis.LEDBank
	Correlation float64 // smoothed, as displayed
	Raw         float64
	Phase       analysis.PhaseStatus
	Controls    analysis.Controls
	Solo        mix.Solo
	Sequence    uint64 // ring rotation the points come from, 0 if none
	Fresh       bool   // a new rotation arrived since the previous tick
	Defects     debug.Defect
}

// Editor is the render side of the vectorscope. It attaches itself to a
// Processor as its SampleSink and produces a Frame per render tick.
type Editor struct {
	processor *Processor
	params    *param.Registry
	sub       *param.Subscription
	logger    *debug.Logger
	profiler  *debug.BudgetProfiler

	ring *buffer.StereoRing

	// render context state
	mu        sync.Mutex
	smoother  *analysis.CorrelationSmoother
	projector *analysis.Projector
	stale     bool

	restart atomic.Bool

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewEditor creates an editor for p and attaches it as the sink.
func NewEditor(p *Processor, cfg EditorConfig) *Editor {
	cfg = cfg.withDefaults()

	e := &Editor{
		processor: p,
		params:    p.Parameters(),
		logger:    cfg.Logger.Named("editor"),
		profiler:  debug.NewBudgetProfiler(renderSection, time.Duration(float64(time.Second)/cfg.TickRate)),
		ring:      buffer.NewStereoRing(cfg.Capacity),
		smoother:  analysis.NewCorrelationSmoother(cfg.TimeConstant, cfg.TickRate),
		projector: analysis.NewProjector(analysis.GeometryFor(cfg.Width, cfg.Height), p.Controls()),
	}
	e.sub = e.params.Subscribe(64)
	p.AttachSink(e)

	return e
}

// Write implements SampleSink. Audio context only.
func (e *Editor) Write(left, right []float32) {
	e.ring.Write(left, right)
}

// Restart implements Restarter. The producer side is rewound at once and
// the render side resets the smoother on its next tick.
func (e *Editor) Restart() {
	e.ring.Rewind()
	e.restart.Store(true)
}

// Resize updates the drawing area.
func (e *Editor) Resize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.projector.SetGeometry(analysis.GeometryFor(width, height))
}

// Geometry returns the current drawing geometry.
func (e *Editor) Geometry() analysis.Geometry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projector.Geometry()
}

// Profiler exposes render tick timing.
func (e *Editor) Profiler() *debug.BudgetProfiler {
	return e.profiler
}

// RingStats returns the ring publish and acquire counters.
func (e *Editor) RingStats() buffer.RingStats {
	return e.ring.Stats()
}

// OnRenderTick advances the render context by one tick: it picks up the
// newest complete rotation, advances the correlation smoother and builds
// the points and LED state to draw.
func (e *Editor) OnRenderTick() Frame {
	stop := e.profiler.Measure()
	defer stop()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.applyChanges()

	if e.restart.Swap(false) {
		e.smoother.Reset()
		e.stale = true
	}

	snap, fresh := e.ring.Acquire()
	if fresh {
		e.stale = false
	}

	raw := snap.Correlation
	left, right := snap.Left, snap.Right
	if e.stale {
		raw = 0
		left, right = nil, nil
	}

	displayed := e.smoother.Tick(raw)

	return Frame{
		Points:      e.projector.Points(left, right),
		LEDs:        analysis.MapLEDs(displayed),
		Correlation: displayed,
		Raw:         raw,
		Phase:       analysis.ClassifyPhase(displayed),
		Controls:    e.projector.Controls(),
		Solo:        e.processor.Solo(),
		Sequence:    snap.Sequence,
		Fresh:       fresh,
		Defects:     e.processor.Guard().Report(e.logger),
	}
}

// applyChanges drains parameter notifications and rebuilds the projector
// only when rotation or width changed.
func (e *Editor) applyChanges() {
	rebuild := e.sub.Overflowed()

drain:
	for {
		select {
		case c, ok := <-e.sub.C():
			if !ok {
				break drain
			}
			if isControl(c.ID) {
				rebuild = true
			}
		default:
			break drain
		}
	}

	if rebuild {
		controls := e.processor.Controls()
		if controls != e.projector.Controls() {
			e.projector.SetControls(controls)
			e.logger.Debug("projector rebuilt: rotation=%d width=%d", controls.Rotation, controls.Width)
		}
	}
}

// Run calls fn with a fresh Frame at the configured tick rate until ctx is
// done or the editor is closed. Only one Run may be active at a time.
func (e *Editor) Run(ctx context.Context, fn func(Frame)) error {
	e.runMu.Lock()
	if e.closed {
		e.runMu.Unlock()
		return ErrEditorClosed
	}
	if e.done != nil {
		e.runMu.Unlock()
		return errors.New("editor already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.runMu.Unlock()

	defer func() {
		cancel()
		e.runMu.Lock()
		e.cancel = nil
		e.done = nil
		e.runMu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(e.profiler.Budget())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if e.isClosed() {
				return ErrEditorClosed
			}
			return ctx.Err()
		case <-ticker.C:
			fn(e.OnRenderTick())
		}
	}
}

func (e *Editor) isClosed() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.closed
}

// Close stops a running render loop and waits for it to exit, then detaches
// from the processor and stops listening for parameter changes.
func (e *Editor) Close() error {
	e.runMu.Lock()
	if e.closed {
		e.runMu.Unlock()
		return nil
	}
	e.closed = true
	cancel, done := e.cancel, e.done
	e.runMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	e.processor.release(e)
	e.params.Unsubscribe(e.sub)
	e.logger.Debug("editor closed after %d rotations", e.ring.Stats().Published)
	return nil
}
