package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/framework/process"
	"github.com/fdimager/vectorscope/pkg/vectorscope"
)

type fakeStats struct{}

func (fakeStats) Load() float64  { return 12.5 }
func (fakeStats) Blocks() uint64 { return 42 }

func newTestModel(t *testing.T) (Model, *vectorscope.Processor, *vectorscope.Editor) {
	t.Helper()
	p, err := vectorscope.NewProcessor()
	if err != nil {
		t.Fatal(err)
	}
	logger := debug.New(io.Discard, "", 0)
	e := vectorscope.NewEditor(p, vectorscope.EditorConfig{Logger: logger})
	t.Cleanup(func() { e.Close() })
	return NewModel(e, p.GetParameters(), fakeStats{}, logger, 30), p, e
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModelTickRendersFrame(t *testing.T) {
	m, p, _ := newTestModel(t)

	block := make([]float32, 1024)
	for i := range block {
		block[i] = float32(i%64)/64 - 0.5
	}
	ctx := &process.Context{}
	ctx.Input = [][]float32{block, block}
	ctx.Output = [][]float32{make([]float32, len(block)), make([]float32, len(block))}
	p.ProcessAudio(ctx)

	m, cmd := update(t, m, tickMsg(time.Now()))
	if cmd == nil {
		t.Error("Tick should schedule the next tick")
	}
	if !m.frame.Fresh {
		t.Error("Frame should carry the new rotation")
	}
	if strings.Trim(m.scope, "⠀\n") == "" {
		t.Error("Scope should show points")
	}

	view := m.View()
	for _, want := range []string{"VECTORSCOPE", "Correlation:", "1 0 0", "blocks 42"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModelKeys(t *testing.T) {
	m, p, _ := newTestModel(t)
	params := p.GetParameters()

	m, _ = update(t, m, key("l"))
	m, _ = update(t, m, key("c"))
	if !params.Get(vectorscope.ParamSoloLeft).Bool() || !params.Get(vectorscope.ParamSoloCenter).Bool() {
		t.Error("Solo keys should switch the parameters on")
	}
	m, _ = update(t, m, key("l"))
	if params.Get(vectorscope.ParamSoloLeft).Bool() {
		t.Error("Second press should switch solo off")
	}

	m, _ = update(t, m, key("+"))
	m, _ = update(t, m, key("["))
	if got := p.Controls(); got.Width != 110 || got.Rotation != 90 {
		t.Errorf("Controls = %+v, want width 110, rotation 90", got)
	}

	m, _ = update(t, m, tickMsg(time.Now()))
	if m.frame.Controls.Width != 110 {
		t.Errorf("Frame width = %d, want 110", m.frame.Controls.Width)
	}

	m, _ = update(t, m, key("0"))
	if got := p.Controls(); got.Width != 100 || got.Rotation != 100 {
		t.Errorf("Reset controls = %+v", got)
	}

	m, cmd := update(t, m, key("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Quit command should produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("View should be empty after quitting")
	}
}

func TestModelWindowSize(t *testing.T) {
	m, _, e := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	g := e.Geometry()
	if g.CenterX != 60 || g.CenterY != 60 {
		t.Errorf("Editor geometry = %+v, want center (60, 60)", g)
	}
	if m.Width != 200 || m.Height != 40 {
		t.Error("Model should keep the terminal size")
	}
}

func TestSummaryIdentifiesPlugin(t *testing.T) {
	summary := Summary(vectorscope.Frame{}, 0)

	if !strings.Contains(summary, vectorscope.Info.UIDString()) {
		t.Errorf("Summary is missing the plugin UID:\n%s", summary)
	}
	if !strings.Contains(summary, vectorscope.Info.Name) {
		t.Errorf("Summary is missing the plugin name:\n%s", summary)
	}
}
