package register

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Activate   key.Binding
	Submit     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	JumpStep   key.Binding
	Edit       key.Binding
	ClearLogo  key.Binding
	ToggleHelp key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Activate:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		JumpStep:   key.NewBinding(key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4"), key.WithHelp("alt+1-4", "jump")),
		Edit:       key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit in $EDITOR")),
		ClearLogo:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear logo")),
		ToggleHelp: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "hints")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Activate, k.Submit, k.JumpStep, k.Edit, k.ClearLogo, k.ToggleHelp, k.Quit}
}
