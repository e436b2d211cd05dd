package register

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/smartlib/libreg/internal/tui/theme"
)

const toastDuration = 3 * time.Second

// toastDismissMsg dismisses the toast shown with the same sequence number.
type toastDismissMsg struct{ seq int }

// toast is a one-line notification that auto-dismisses.
type toast struct {
	message   string
	seq       int
	dismissAt time.Time
}

// Show displays msg, replacing any visible toast.
func (t *toast) Show(msg string) tea.Cmd {
	t.message = msg
	t.seq++
	t.dismissAt = time.Now().Add(toastDuration)

	seq := t.seq
	return tea.Tick(time.Until(t.dismissAt), func(time.Time) tea.Msg {
		return toastDismissMsg{seq: seq}
	})
}

// Update handles dismissal. Ticks from replaced toasts are ignored.
func (t *toast) Update(msg toastDismissMsg) {
	if msg.seq == t.seq {
		t.message = ""
	}
}

// Message returns the visible message, or "".
func (t *toast) Message() string {
	return t.message
}

// View renders the toast right-aligned within width.
func (t *toast) View(width int) string {
	if t.message == "" {
		return ""
	}
	style := theme.Current().S().Toast
	content := style.Render(t.message)
	if lipgloss.Width(content) > width {
		content = style.Width(width).Render(t.message)
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(content)
}
