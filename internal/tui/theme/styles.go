package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles for the TUI.
type Styles struct {
	Title  lipgloss.Style
	Subtle lipgloss.Style

	Panel         lipgloss.Style
	PanelActive   lipgloss.Style
	PanelRejected lipgloss.Style

	Label       lipgloss.Style
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style

	StepDone    lipgloss.Style
	StepActive  lipgloss.Style
	StepPending lipgloss.Style

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	Toast    lipgloss.Style
	HintKey  lipgloss.Style
	HintDesc lipgloss.Style
}
