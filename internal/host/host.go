// Package host drives a plugin.Processor the way an audio host would:
// fixed-size blocks pulled from a beep.Streamer at the real-time block rate.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/fdimager/vectorscope/pkg/framework/bus"
	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/framework/plugin"
	"github.com/fdimager/vectorscope/pkg/framework/process"
)

// ErrChannels is returned when the processor buses cannot take the
// requested input channel count.
var ErrChannels = errors.New("unsupported channel count")

// processSection names the processor call in the profiler.
const processSection = "ProcessAudio"

// Config describes the stream the host runs.
type Config struct {
	SampleRate float64
	BlockSize  int
	Channels   int // input channels, 1 or 2
	Logger     *debug.Logger
}

// Host owns the block buffers and calls the processor.
type Host struct {
	proc     plugin.Processor
	src      beep.Streamer
	cfg      Config
	logger   *debug.Logger
	profiler *debug.BudgetProfiler

	frames [][2]float64
	ctx    *process.Context
	blocks atomic.Uint64
}

// New initializes proc for cfg and allocates every buffer up front.
func New(proc plugin.Processor, src beep.Streamer, cfg Config) (*Host, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("host: invalid sample rate %v", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("host: invalid block size %d", cfg.BlockSize)
	}
	buses := proc.GetBuses()
	if !buses.Accepts(cfg.Channels) {
		return nil, fmt.Errorf("host: %w: %d input channel(s)", ErrChannels, cfg.Channels)
	}
	if cfg.Logger == nil {
		cfg.Logger = debug.Default()
	}

	if err := proc.Initialize(cfg.SampleRate, int32(cfg.BlockSize)); err != nil {
		return nil, fmt.Errorf("host: initialize processor: %w", err)
	}

	outputs := buses.MainChannels(bus.DirectionOutput)
	if d, ok := proc.(plugin.Describer); ok {
		info := d.Info()
		if err := info.ValidateUID(); err != nil {
			return nil, fmt.Errorf("host: %w", err)
		}
		cfg.Logger.Named("host").Info("loaded plugin %s", info)
	}

	h := &Host{
		proc:     proc,
		src:      src,
		cfg:      cfg,
		logger:   cfg.Logger.Named("host"),
		profiler: debug.NewBudgetProfiler(processSection, debug.BlockBudget(cfg.SampleRate, cfg.BlockSize)),
		frames:   make([][2]float64, cfg.BlockSize),
		ctx:      process.NewContext(cfg.Channels, outputs, cfg.BlockSize, cfg.SampleRate),
	}
	return h, nil
}

// ProcessBlock pulls one block from the source and runs the processor on
// it. It returns false once the source has ended.
func (h *Host) ProcessBlock() (bool, error) {
	n, ok := h.src.Stream(h.frames)
	if !ok && n == 0 {
		if err := h.src.Err(); err != nil {
			return false, fmt.Errorf("host: source: %w", err)
		}
		return false, nil
	}

	h.ctx.Prepare(n)
	for ch, buf := range h.ctx.Input {
		for i := range buf {
			buf[i] = float32(h.frames[i][ch])
		}
	}

	stop := h.profiler.Measure()
	h.proc.ProcessAudio(h.ctx)
	stop()

	h.blocks.Add(1)
	return ok, nil
}

// Output returns the output of the last processed block.
func (h *Host) Output() [][]float32 {
	return h.ctx.Output
}

// Blocks returns how many blocks have been processed. Safe from any goroutine.
func (h *Host) Blocks() uint64 {
	return h.blocks.Load()
}

// Profiler returns the timing of the processor calls.
func (h *Host) Profiler() *debug.BudgetProfiler {
	return h.profiler
}

// Load returns the average processor time as a share of the block period.
func (h *Host) Load() float64 {
	return h.profiler.Load()
}

// Run activates the processor and processes one block per block period
// until ctx is done or the source ends. The processor is deactivated on
// return.
func (h *Host) Run(ctx context.Context) error {
	if err := h.proc.SetActive(true); err != nil {
		return fmt.Errorf("host: activate: %w", err)
	}
	defer func() {
		if err := h.proc.SetActive(false); err != nil {
			h.logger.Error("deactivate: %v", err)
		}
	}()

	period := h.profiler.Budget()
	h.logger.Info("host started: %.0f Hz, block %d (%v), %d channel(s)",
		h.cfg.SampleRate, h.cfg.BlockSize, period, h.cfg.Channels)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("host stopped after %d blocks, load %.2f%%", h.Blocks(), h.Load())
			return ctx.Err()
		case <-ticker.C:
			more, err := h.ProcessBlock()
			if err != nil {
				return err
			}
			if !more {
				h.logger.Info("source ended after %d blocks", h.Blocks())
				return nil
			}
		}
	}
}
