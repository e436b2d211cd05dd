// Package theme holds the color palette and shared lipgloss styles of the
// registration TUI.
package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	styles     *Styles
	stylesOnce sync.Once
}

var (
	currentMu sync.RWMutex
	current   = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the active theme. Nil is ignored.
func SetCurrent(t *Theme) {
	if t == nil {
		return
	}
	currentMu.Lock()
	current = t
	currentMu.Unlock()
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	c := HexToColor
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		Subtle: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BgSurface2)).
			Padding(0, 2),
		PanelActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Tertiary)).
			Padding(0, 2),
		PanelRejected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(c(t.Error)).
			Padding(0, 2),
		Label: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)).
			Bold(true),
		ErrorText: lipgloss.NewStyle().
			Foreground(c(t.Error)).
			Bold(true),
		SuccessText: lipgloss.NewStyle().
			Foreground(c(t.Success)).
			Bold(true),
		StepDone: lipgloss.NewStyle().
			Foreground(c(t.Success)),
		StepActive: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		StepPending: lipgloss.NewStyle().
			Foreground(c(t.BgOverlay)),
		Button: lipgloss.NewStyle().
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)).
			Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Tertiary)).
			Bold(true).
			Padding(0, 2),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(c(t.BgOverlay)).
			Background(c(t.BgMantle)).
			Padding(0, 2),
		Toast: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Warning)).
			Padding(0, 1).
			Bold(true),
		HintKey: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),
	}
}
