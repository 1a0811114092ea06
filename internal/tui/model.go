// Package tui provides the Bubbletea terminal user interface for the
// vectorscope: a braille scope, the correlation LED banks and the plugin
// parameters.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fdimager/vectorscope/pkg/dsp/analysis"
	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/framework/param"
	"github.com/fdimager/vectorscope/pkg/vectorscope"
)

// Step applied to rotation and width per key press.
const controlStep = 10

// Rows kept free around the scope for the title, LEDs, readouts and help.
const chromeRows = 10

// Default scope size before the terminal reports its size.
const (
	defaultCols = 48
	defaultRows = 24
)

// Model is the Bubbletea model for the scope UI
type Model struct {
	editor *vectorscope.Editor
	params *param.Registry
	stats  Stats
	logger *debug.Logger
	fps    float64

	canvas *Canvas
	scope  string
	frame  vectorscope.Frame
	ticks  uint64

	// Terminal dimensions
	Width  int
	Height int

	Quitting bool
}

// NewModel creates a UI model rendering editor at fps frames per second.
// stats may be nil.
func NewModel(editor *vectorscope.Editor, params *param.Registry, stats Stats, logger *debug.Logger, fps float64) Model {
	if fps <= 0 {
		fps = analysis.DefaultTickRate
	}
	if logger == nil {
		logger = debug.Default()
	}

	m := Model{
		editor: editor,
		params: params,
		stats:  stats,
		logger: logger,
		fps:    fps,
	}
	m.resize(defaultCols, defaultRows)
	return m
}

// Init starts the render tick
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(float64(time.Second) / m.fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		cols, rows := scopeSize(msg.Width, msg.Height)
		m.resize(cols, rows)
		return m, nil

	case tickMsg:
		m.frame = m.editor.OnRenderTick()
		m.canvas.Clear()
		m.canvas.Plot(m.frame.Points)
		m.scope = m.canvas.String()
		m.ticks++
		return m, m.tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.Quitting = true
		return m, tea.Quit
	case "l":
		m.toggle(vectorscope.ParamSoloLeft)
	case "c":
		m.toggle(vectorscope.ParamSoloCenter)
	case "r":
		m.toggle(vectorscope.ParamSoloRight)
	case "+", "=":
		m.nudge(vectorscope.ParamWidth, controlStep)
	case "-", "_":
		m.nudge(vectorscope.ParamWidth, -controlStep)
	case "]":
		m.nudge(vectorscope.ParamRotation, controlStep)
	case "[":
		m.nudge(vectorscope.ParamRotation, -controlStep)
	case "0":
		m.setPlain(vectorscope.ParamRotation, analysis.RotationDefault)
		m.setPlain(vectorscope.ParamWidth, analysis.WidthDefault)
	}
	return m, nil
}

func (m Model) toggle(id uint32) {
	p := m.params.Get(id)
	if p == nil {
		return
	}
	next := 1.0
	if p.Bool() {
		next = 0
	}
	if err := m.params.Set(id, next); err != nil {
		m.logger.Warn("toggle %d: %v", id, err)
	}
}

func (m Model) nudge(id uint32, delta int) {
	p := m.params.Get(id)
	if p == nil {
		return
	}
	m.setPlain(id, float64(p.Int()+delta))
}

func (m Model) setPlain(id uint32, plain float64) {
	if err := m.params.SetPlain(id, plain); err != nil {
		m.logger.Warn("set %d: %v", id, err)
	}
}

// resize rebuilds the canvas and tells the editor the new drawing area.
func (m *Model) resize(cols, rows int) {
	m.canvas = NewCanvas(cols, rows)
	m.scope = m.canvas.String()
	m.editor.Resize(m.canvas.Size())
}

// scopeSize picks a square scope (in dots) that fits the terminal.
func scopeSize(width, height int) (cols, rows int) {
	rows = max(height-chromeRows, 4)
	cols = rows * dotsY / dotsX
	if avail := width - 2; cols > avail {
		cols = max(avail, 8)
		rows = max(cols*dotsX/dotsY, 4)
	}
	return cols, rows
}
