package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/vectorscope"
)

// View renders the UI
func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	sections := []string{
		TitleStyle.Render("VECTORSCOPE"),
		ScopeStyle.Render(m.scope),
		m.renderLEDs(),
		m.renderCorrelation(),
		m.renderControls(),
		m.renderStatus(),
		HelpStyle.Render("l/c/r solo  [ ] rotation  - + width  0 reset  q quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLEDs draws the negative bank outermost-first so both banks grow
// away from the center marker.
func (m Model) renderLEDs() string {
	bank := m.frame.LEDs
	var b strings.Builder

	for i := len(bank.Negative) - 1; i >= 0; i-- {
		cell := bank.Negative[i]
		b.WriteString(ledStyle(cell.RGB()).Render(ledGlyph))
	}
	b.WriteString(KeyStyle.Render(" | "))
	for _, cell := range bank.Positive {
		b.WriteString(ledStyle(cell.RGB()).Render(ledGlyph))
	}

	return KeyStyle.Render("-1  ") + b.String() + KeyStyle.Render("  +1")
}

func (m Model) renderCorrelation() string {
	return fmt.Sprintf("%s %s  %s",
		KeyStyle.Render("Correlation:"),
		ValueStyle.Render(fmt.Sprintf("%+.2f", m.frame.Correlation)),
		KeyStyle.Render(m.frame.Phase.String()))
}

func (m Model) renderControls() string {
	return fmt.Sprintf("%s %s  %s %s  %s %s %s %s",
		KeyStyle.Render("Rotation:"), ValueStyle.Render(m.readout(vectorscope.ParamRotation)),
		KeyStyle.Render("Width:"), ValueStyle.Render(m.readout(vectorscope.ParamWidth)),
		KeyStyle.Render("Solo:"),
		soloFlag("L", m.frame.Solo.Left),
		soloFlag("C", m.frame.Solo.Center),
		soloFlag("R", m.frame.Solo.Right))
}

func (m Model) readout(id uint32) string {
	p := m.params.Get(id)
	if p == nil {
		return "-"
	}
	return p.FormatValue(p.GetValue())
}

func soloFlag(name string, on bool) string {
	if on {
		return ActiveStyle.Render("[" + name + "]")
	}
	return KeyStyle.Render(" " + name + " ")
}

func (m Model) renderStatus() string {
	parts := []string{
		fmt.Sprintf("render %.1f%%", m.editor.Profiler().Load()),
	}
	if m.stats != nil {
		parts = append(parts,
			fmt.Sprintf("audio %.1f%%", m.stats.Load()),
			fmt.Sprintf("blocks %d", m.stats.Blocks()))
	}
	if m.frame.Defects != 0 {
		parts = append(parts, ErrorStyle.Render(defectText(m.frame.Defects)))
	}
	return KeyStyle.Render(strings.Join(parts, "  "))
}

func defectText(d debug.Defect) string {
	var names []string
	for _, class := range []debug.Defect{debug.DefectNaN, debug.DefectInf, debug.DefectRange, debug.DefectClip} {
		if d.Has(class) {
			names = append(names, class.String())
		}
	}
	return "invalid samples: " + strings.Join(names, ",")
}

// Summary renders a one-frame text report for headless runs.
func Summary(frame vectorscope.Frame, points int) string {
	lit := "none"
	if bank, ok := frame.LEDs.ActiveBank(); ok {
		lit = fmt.Sprintf("%d %s", frame.LEDs.LitCount, bank)
	}
	return strings.Join([]string{
		fmt.Sprintf("%s %s", KeyStyle.Render("Plugin:"), ValueStyle.Render(vectorscope.Info.String())),
		fmt.Sprintf("%s %s", KeyStyle.Render("Correlation:"), ValueStyle.Render(fmt.Sprintf("%+.3f (raw %+.3f)", frame.Correlation, frame.Raw))),
		fmt.Sprintf("%s %s", KeyStyle.Render("Phase:"), ValueStyle.Render(frame.Phase.String())),
		fmt.Sprintf("%s %s", KeyStyle.Render("LEDs:"), ValueStyle.Render(lit)),
		fmt.Sprintf("%s %s", KeyStyle.Render("Points:"), ValueStyle.Render(fmt.Sprint(points))),
		fmt.Sprintf("%s %s", KeyStyle.Render("Rotation/Width:"), ValueStyle.Render(fmt.Sprintf("%d/%d", frame.Controls.Rotation, frame.Controls.Width))),
	}, "\n")
}
