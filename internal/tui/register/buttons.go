package register

import (
	"strings"

	"github.com/smartlib/libreg/internal/tui/theme"
)

// buttonState is the visual state of a button.
type buttonState int

const (
	buttonNormal buttonState = iota
	buttonDisabled
	buttonFocused
)

type button struct {
	Label string
	State buttonState
}

// renderButtons renders buttons left to right, one space apart.
func renderButtons(buttons ...button) string {
	s := theme.Current().S()
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		switch b.State {
		case buttonDisabled:
			parts = append(parts, s.ButtonDisabled.Render(b.Label))
		case buttonFocused:
			parts = append(parts, s.ButtonFocused.Render(b.Label))
		default:
			parts = append(parts, s.Button.Render(b.Label))
		}
	}
	return strings.Join(parts, " ")
}
