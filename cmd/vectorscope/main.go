package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"

	"github.com/fdimager/vectorscope/internal/host"
	"github.com/fdimager/vectorscope/internal/source"
	"github.com/fdimager/vectorscope/internal/tui"
	"github.com/fdimager/vectorscope/pkg/dsp/analysis"
	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/vectorscope"
)

var (
	version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool `short:"v" help:"Show version information"`

	SampleRate int     `default:"48000" help:"Host sample rate in Hz"`
	BlockSize  int     `default:"512" help:"Host block size in samples"`
	Channels   int     `default:"2" help:"Input channels (1 or 2)"`
	FPS        float64 `default:"30" help:"Render ticks per second"`

	Signal    string  `short:"s" default:"wide" enum:"mono,inverted,wide,quadrature,left,right,noise,silence" help:"Test signal (${enum})"`
	Frequency float64 `short:"f" default:"440" help:"Test tone frequency in Hz"`
	Amplitude float64 `short:"a" default:"0.7" help:"Test tone amplitude (1 is full scale)"`

	SoloLeft   bool `help:"Start with solo left on"`
	SoloCenter bool `help:"Start with solo center on"`
	SoloRight  bool `help:"Start with solo right on"`
	Rotation   int  `default:"100" help:"Scope rotation (0-100)"`
	Width      int  `default:"100" help:"Scope width (0-200)"`

	Headless time.Duration `help:"Run without the UI for the given duration and print a summary"`
	LogLevel string        `default:"info" enum:"debug,info,warn,error,off" help:"Log level"`
	LogFile  string        `type:"path" help:"Write logs to this file"`
}

// Validate checks ranges kong cannot express.
func (c *CLI) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("--sample-rate must be positive, got %d", c.SampleRate)
	case c.BlockSize <= 0:
		return fmt.Errorf("--block-size must be positive, got %d", c.BlockSize)
	case c.Channels != 1 && c.Channels != 2:
		return fmt.Errorf("--channels must be 1 or 2, got %d", c.Channels)
	case c.FPS <= 0:
		return fmt.Errorf("--fps must be positive, got %v", c.FPS)
	case c.Rotation < analysis.RotationMin || c.Rotation > analysis.RotationMax:
		return fmt.Errorf("--rotation must be within %d-%d, got %d", analysis.RotationMin, analysis.RotationMax, c.Rotation)
	case c.Width < analysis.WidthMin || c.Width > analysis.WidthMax:
		return fmt.Errorf("--width must be within %d-%d, got %d", analysis.WidthMin, analysis.WidthMax, c.Width)
	case c.Frequency <= 0 || c.Frequency >= float64(c.SampleRate)/2:
		return fmt.Errorf("--frequency must be between 0 and %d Hz, got %v", c.SampleRate/2, c.Frequency)
	}
	return nil
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("vectorscope"),
		kong.Description("Stereo vectorscope and correlation meter"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)

	if cliArgs.Version {
		tui.PrintVersion(version, vectorscope.Info)
		os.Exit(0)
	}

	if err := run(cliArgs); err != nil {
		tui.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	logger, err := newLogger(cli)
	if err != nil {
		return err
	}
	defer logger.Close()

	proc, err := vectorscope.NewProcessor()
	if err != nil {
		return err
	}
	if err := applyParameters(proc, cli); err != nil {
		return err
	}

	editor := vectorscope.NewEditor(proc, vectorscope.EditorConfig{
		TickRate: cli.FPS,
		Logger:   logger,
	})
	defer editor.Close()

	src, err := source.New(source.Config{
		Kind:       source.Kind(cli.Signal),
		SampleRate: beep.SampleRate(cli.SampleRate),
		Frequency:  cli.Frequency,
		Amplitude:  cli.Amplitude,
	})
	if err != nil {
		return err
	}

	h, err := host.New(proc, src, host.Config{
		SampleRate: float64(cli.SampleRate),
		BlockSize:  cli.BlockSize,
		Channels:   cli.Channels,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hostDone := make(chan error, 1)
	go func() {
		hostDone <- h.Run(ctx)
	}()

	if cli.Headless > 0 {
		err = runHeadless(ctx, editor, cli.Headless)
	} else {
		err = runUI(ctx, editor, proc, h, logger, cli.FPS)
	}

	// Audio stops before the editor is closed
	cancel()
	if hostErr := <-hostDone; hostErr != nil && !errors.Is(hostErr, context.Canceled) {
		return hostErr
	}

	if logger.Enabled(debug.LogLevelDebug) {
		logger.Debug("render timing\n%s", editor.Profiler().Report())
		logger.Debug("audio timing\n%s", h.Profiler().Report())
	}
	return err
}

func newLogger(cli *CLI) (*debug.Logger, error) {
	level, err := debug.ParseLevel(cli.LogLevel)
	if err != nil {
		return nil, err
	}

	var logger *debug.Logger
	switch {
	case cli.LogFile != "":
		logger, err = debug.NewFileLogger(cli.LogFile, "vectorscope", debug.DefaultFlags)
		if err != nil {
			return nil, err
		}
	case cli.Headless > 0:
		logger = debug.New(os.Stderr, "vectorscope", debug.DefaultFlags)
	default:
		// The UI owns the terminal
		logger = debug.New(io.Discard, "vectorscope", debug.DefaultFlags)
	}
	logger.SetLevel(level)
	return logger, nil
}

func applyParameters(proc *vectorscope.Processor, cli *CLI) error {
	params := proc.GetParameters()
	values := map[uint32]float64{
		vectorscope.ParamRotation: float64(cli.Rotation),
		vectorscope.ParamWidth:    float64(cli.Width),
	}
	for id, on := range map[uint32]bool{
		vectorscope.ParamSoloLeft:   cli.SoloLeft,
		vectorscope.ParamSoloCenter: cli.SoloCenter,
		vectorscope.ParamSoloRight:  cli.SoloRight,
	} {
		if on {
			values[id] = 1
		}
	}

	for id, plain := range values {
		if err := params.SetPlain(id, plain); err != nil {
			return fmt.Errorf("apply parameter %d: %w", id, err)
		}
	}
	return nil
}

func runUI(ctx context.Context, editor *vectorscope.Editor, proc *vectorscope.Processor, h *host.Host, logger *debug.Logger, fps float64) error {
	model := tui.NewModel(editor, proc.GetParameters(), h, logger, fps)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

func runHeadless(ctx context.Context, editor *vectorscope.Editor, duration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var last vectorscope.Frame
	points := 0
	err := editor.Run(ctx, func(f vectorscope.Frame) {
		last = f
		points = 0
		for range f.Points {
			points++
		}
	})
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Println(tui.Summary(last, points))
	return nil
}
