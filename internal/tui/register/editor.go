package register

import (
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
)

// openEditor edits the field of it in $EDITOR.
func (m *Model) openEditor(it item) tea.Cmd {
	tmp, err := os.CreateTemp("", "libreg_field_*.txt")
	if err != nil {
		return m.toast.Show("Editor unavailable")
	}
	path := tmp.Name()
	_, werr := tmp.WriteString(it.input.Value())
	_ = tmp.Close()
	if werr != nil {
		_ = os.Remove(path)
		return m.toast.Show("Editor unavailable")
	}

	cmd, err := editor.Command("libreg", path)
	if err != nil {
		_ = os.Remove(path)
		return m.toast.Show("Editor unavailable")
	}

	step, field := m.stepKeys[it.step], it.field.Name
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return editFailedMsg{err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return editFailedMsg{err: err}
		}
		// Addresses are single line in the form.
		value := strings.Join(strings.Fields(string(data)), " ")
		return editedMsg{step: step, field: field, value: value}
	})
}

// applyEdit writes an edited value back to its input and the controller.
func (m *Model) applyEdit(msg editedMsg) {
	for i := range m.items {
		it := &m.items[i]
		if it.kind != itemField || m.stepKeys[it.step] != msg.step || it.field.Name != msg.field {
			continue
		}
		it.input.SetValue(msg.value)
		_ = m.ctrl.OnFieldChange(msg.step, msg.field, msg.value)
		return
	}
}
