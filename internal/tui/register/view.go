package register

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/smartlib/libreg/internal/library"
	"github.com/smartlib/libreg/internal/tui/theme"
	"github.com/smartlib/libreg/internal/wizard"
)

const maxPanelWidth = 84

// layout renders the panels into the viewport, applies pending scrolls and
// reports panel visibility to the controller.
func (m *Model) layout() {
	snap := m.ctrl.Snapshot()
	header := m.renderHeader(snap)
	footer := m.renderFooter()

	vh := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	m.viewport.SetWidth(m.width)
	m.viewport.SetHeight(vh)

	content := m.renderPanels(snap, vh)
	m.viewport.SetContent(content)

	switch {
	case m.pendingFocus >= 0 && m.pendingFocus < len(m.spans):
		m.offset = m.spans[m.pendingFocus].Top
		m.revealItem = false
	case m.revealItem && m.focus < len(m.itemLines):
		m.offset = scrollToReveal(m.offset, vh, m.itemLines[m.focus])
	}
	m.pendingFocus = -1
	m.revealItem = false

	m.viewport.SetYOffset(m.offset)
	m.offset = m.viewport.YOffset()

	if !m.result.Registered {
		m.ctrl.OnPanelFrame(intersections(m.spans, m.offset, vh)...)
	}
}

// renderPanels renders every step panel and records where panels and
// focus stops land in the content.
func (m *Model) renderPanels(snap wizard.Snapshot, vh int) string {
	steps := m.ctrl.Steps()
	width := min(m.width-2, maxPanelWidth)

	m.spans = m.spans[:0]
	m.itemLines = make([]int, len(m.items))

	var lines []string
	for i, step := range steps {
		body, stops := m.renderPanelBody(snap, i, step, width-6)

		style := theme.Current().S().Panel
		switch {
		case snap.Pulses[i]:
			style = theme.Current().S().PanelRejected
		case i == snap.ActiveIndex:
			style = theme.Current().S().PanelActive
		}
		panel := style.Width(width).MarginLeft(m.shake(i)).Render(strings.Join(body, "\n"))

		top := len(lines)
		h := lipgloss.Height(panel)
		m.spans = append(m.spans, panelSpan{Top: top, Height: h})
		for idx, line := range stops {
			// One line of top border precedes the body.
			m.itemLines[idx] = top + 1 + line
		}
		lines = append(lines, strings.Split(panel, "\n")...)
		lines = append(lines, "")
	}

	// Pad so the last panel can be scrolled to the top.
	if n := len(m.spans); n > 0 {
		for pad := vh - m.spans[n-1].Height - 1; pad > 0; pad-- {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

// renderPanelBody returns the body lines of one panel and, for each focus
// stop it contains, the line it is drawn on.
func (m *Model) renderPanelBody(snap wizard.Snapshot, index int, step wizard.StepDefinition, inputWidth int) ([]string, map[int]int) {
	s := theme.Current().S()
	stops := make(map[int]int)

	title := fmt.Sprintf("%d. %s", index+1, step.Label)
	if snap.IsCompleted(index) {
		title += " " + s.StepDone.Render("✓")
	}
	body := []string{s.Title.Render(title), ""}

	for idx := range m.items {
		it := &m.items[idx]
		if it.step != index {
			continue
		}
		focused := idx == m.focus
		switch it.kind {
		case itemField:
			label := it.field.Label
			if it.field.Optional {
				label += s.Subtle.Render(" (optional)")
			}
			body = append(body, s.Label.Render(label))
			it.input.SetWidth(max(inputWidth-2, 10))
			stops[idx] = len(body)
			body = append(body, it.input.View())
		case itemLogo:
			body = append(body, s.Label.Render("Logo file (paste or drop a path, enter to load)"))
			it.input.SetWidth(max(inputWidth-2, 10))
			stops[idx] = len(body)
			body = append(body, it.input.View())
			body = append(body, m.renderPreview(snap))
		case itemContinue:
			label := "Continue"
			if index == len(m.stepKeys)-1 {
				label = "Save"
			}
			row := []button{{Label: label, State: stateFor(focused, snap.Submitting)}}
			body = append(body, "")
			stops[idx] = len(body)
			// The last step's Save and Submit share one row.
			if next := idx + 1; next < len(m.items) && m.items[next].kind == itemSubmit && m.items[next].step == index {
				stops[next] = len(body)
				row = append(row, submitButton(snap, next == m.focus))
			}
			body = append(body, renderButtons(row...))
		case itemSubmit:
			if _, ok := stops[idx]; ok {
				continue
			}
			body = append(body, "")
			stops[idx] = len(body)
			body = append(body, renderButtons(submitButton(snap, focused)))
		}
	}
	return body, stops
}

func submitButton(snap wizard.Snapshot, focused bool) button {
	label := "Submit registration"
	if snap.Submitting {
		label = "Submitting…"
	}
	return button{Label: label, State: stateFor(focused, snap.Submitting)}
}

func stateFor(focused, disabled bool) buttonState {
	switch {
	case disabled:
		return buttonDisabled
	case focused:
		return buttonFocused
	}
	return buttonNormal
}

func (m *Model) renderPreview(snap wizard.Snapshot) string {
	s := theme.Current().S()
	h, ok := snap.Previews[library.SlotLogo]
	if !ok {
		return s.Subtle.Render("No logo staged")
	}
	a := snap.Data[library.StepPicture].Assets[library.SlotLogo]
	line := fmt.Sprintf("Preview %s: %s", h, a.Name)
	if m.previews != nil {
		if info, ok := m.previews.Lookup(h); ok && info.Width > 0 {
			line += fmt.Sprintf(" %d×%d", info.Width, info.Height)
		}
	}
	return s.SuccessText.Render(line)
}

func (m *Model) renderHeader(snap wizard.Snapshot) string {
	s := theme.Current().S()
	var parts []string
	for i, step := range m.ctrl.Steps() {
		var marker string
		switch {
		case snap.IsCompleted(i):
			marker = s.StepDone.Render("● " + step.Label)
		case i == snap.ActiveIndex:
			marker = s.StepActive.Render("◉ " + step.Label)
		default:
			marker = s.StepPending.Render("○ " + step.Label)
		}
		parts = append(parts, marker)
	}

	lines := []string{
		s.Title.Render("Register your library"),
		strings.Join(parts, s.Subtle.Render("  ─  ")),
		renderProgress(snap.Progress, min(m.width, maxPanelWidth)),
	}

	switch {
	case m.notice == MsgRegistered:
		lines = append(lines, s.SuccessText.Render(m.notice))
	case snap.Error != "":
		lines = append(lines, s.ErrorText.Render(snap.Error))
	case m.notice != "":
		lines = append(lines, s.ErrorText.Render(m.notice))
	default:
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	lines := []string{m.toast.View(m.width)}
	if m.prefs.Hints.Visible {
		lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return strings.Join(lines, "\n")
}

// renderProgress draws a gradient bar followed by the percentage.
func renderProgress(pct float64, width int) string {
	label := fmt.Sprintf(" %3.0f%%", pct)
	barWidth := max(width-len(label), 1)
	filled := int(pct / 100 * float64(barWidth))
	filled = min(max(filled, 0), barWidth)

	th := theme.Current()
	colors := theme.Gradient(th.Secondary, th.Primary, barWidth)
	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		if i < filled {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.HexToColor(colors[i])).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.HexToColor(th.BgSurface1)).Render("░"))
		}
	}
	b.WriteString(label)
	return b.String()
}

// View renders the screen.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if m.quitting {
		view.AltScreen = false
		view.MouseMode = 0
		view.Content = lipgloss.NewLayer("")
		return view
	}

	snap := m.ctrl.Snapshot()
	var content string
	if m.result.Registered {
		content = strings.Join([]string{
			m.renderHeader(snap),
			m.summary,
			theme.Current().S().Subtle.Render("Press any key to exit."),
		}, "\n")
	} else {
		content = strings.Join([]string{
			m.renderHeader(snap),
			m.viewport.View(),
			m.renderFooter(),
		}, "\n")
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgBase)
	return view
}
