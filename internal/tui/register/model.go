// Package register is the terminal presentation layer of the library
// registration wizard. It renders every step as a panel in one scrolling
// viewport and forwards keys, scrolls and file picks to a wizard.Controller.
package register

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/smartlib/libreg/internal/library"
	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/preview"
	"github.com/smartlib/libreg/internal/state"
	"github.com/smartlib/libreg/internal/wizard"
)

const (
	// MsgRegistered is shown once the registration is accepted.
	MsgRegistered = "Registration complete!"

	shakeInterval = 40 * time.Millisecond
	scrollLines   = 3
)

// Options configures a Model.
type Options struct {
	Controller   *wizard.Controller
	Previews     *preview.Registry // Optional, adds image dimensions to the preview line
	Prefs        *state.Prefs      // Optional
	MaxLogoBytes int64
	Context      context.Context // Passed to the submit function
	Now          func() time.Time
}

// Result is what the program leaves behind.
type Result struct {
	Registered   bool
	Cancelled    bool
	Registration library.Registration
}

type itemKind int

const (
	itemField itemKind = iota
	itemLogo
	itemContinue
	itemSubmit
)

// item is one keyboard focus stop.
type item struct {
	kind  itemKind
	step  int
	field library.Field
	input *textinput.Model
}

type (
	pulseTickMsg  struct{}
	submitDoneMsg struct {
		payload wizard.Payload
		err     error
	}
	editedMsg struct {
		step, field, value string
	}
	editFailedMsg struct{ err error }
)

// Model is the bubbletea model of the registration TUI.
type Model struct {
	ctrl         *wizard.Controller
	previews     *preview.Registry
	prefs        *state.Prefs
	maxLogoBytes int64
	ctx          context.Context
	now          func() time.Time

	items    []item
	focus    int
	stepKeys []string

	viewport   viewport.Model
	spans      []panelSpan
	itemLines  []int
	offset     int
	revealItem bool

	pendingFocus int // Step the controller asked to bring into view, -1 for none
	pulseTicking bool

	keys  keyMap
	help  help.Model
	toast toast

	width, height int
	notice        string // Wizard-level message not carried by the controller
	result        Result
	summary       string
	quitting      bool
}

// New creates the model and subscribes it to the controller.
func New(opts Options) *Model {
	m := &Model{
		ctrl:         opts.Controller,
		previews:     opts.Previews,
		prefs:        opts.Prefs,
		maxLogoBytes: opts.MaxLogoBytes,
		ctx:          opts.Context,
		now:          opts.Now,
		pendingFocus: -1,
		keys:         defaultKeyMap(),
		help:         help.New(),
		viewport:     viewport.New(),
		width:        80,
		height:       24,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.prefs == nil {
		m.prefs = state.Default()
	}

	for i, step := range m.ctrl.Steps() {
		m.stepKeys = append(m.stepKeys, step.Key)
		for _, f := range library.FieldsFor(step.Key) {
			m.items = append(m.items, item{kind: itemField, step: i, field: f, input: newInput(f)})
		}
		for _, slot := range step.Slots {
			if slot != library.SlotLogo {
				continue
			}
			in := textinput.New()
			in.Prompt = "› "
			in.Placeholder = "path/to/logo.png"
			if dir := m.prefs.Picture.LastDir; dir != "" {
				in.SetValue(dir + string(filepath.Separator))
			}
			m.items = append(m.items, item{kind: itemLogo, step: i, input: &in})
		}
		m.items = append(m.items, item{kind: itemContinue, step: i})
		if i == m.ctrl.StepCount()-1 {
			m.items = append(m.items, item{kind: itemSubmit, step: i})
		}
	}

	m.ctrl.Subscribe(m.observe)
	return m
}

func newInput(f library.Field) *textinput.Model {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = f.Placeholder
	if f.Secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return &in
}

// observe runs synchronously inside Update, so it may touch the model.
func (m *Model) observe(e wizard.Event) {
	switch e.Type {
	case wizard.EventFocusRequested:
		m.pendingFocus = e.Step
	case wizard.EventActiveChanged:
		logger.Debug("Active step is now %d", e.Step)
	}
}

// Result returns the outcome once the program has exited.
func (m *Model) Result() Result {
	return m.result
}

// Init focuses the first input.
func (m *Model) Init() tea.Cmd {
	return m.setFocus(0)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.revealItem = true
	case tea.KeyPressMsg:
		cmd = m.handleKey(msg)
	case tea.PasteMsg:
		cmd = m.handlePaste(msg)
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			m.offset -= scrollLines
		case tea.MouseWheelDown:
			m.offset += scrollLines
		}
	case toastDismissMsg:
		m.toast.Update(msg)
	case pulseTickMsg:
		m.pulseTicking = false
	case submitDoneMsg:
		cmd = m.finishSubmit(msg)
	case editedMsg:
		m.applyEdit(msg)
	case editFailedMsg:
		cmd = m.toast.Show(fmt.Sprintf("Editor failed: %v", msg.err))
	default:
		// Cursor blink and other input internals.
		if it := m.focused(); it != nil && it.input != nil {
			var c tea.Cmd
			*it.input, c = it.input.Update(msg)
			cmd = c
		}
	}

	if m.quitting {
		return m, tea.Quit
	}

	if m.pendingFocus >= 0 {
		cmd = tea.Batch(cmd, m.focusStep(m.pendingFocus))
	}
	m.layout()
	return m, tea.Batch(cmd, m.pulseCmd())
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.result.Registered {
		// Any key leaves the summary screen.
		m.quit(false)
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quit(true)
		return nil
	case key.Matches(msg, m.keys.ToggleHelp):
		m.prefs.Hints.Visible = !m.prefs.Hints.Visible
		return nil
	case key.Matches(msg, m.keys.Next):
		return m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus(m.focus - 1)
	case key.Matches(msg, m.keys.PageUp):
		m.offset -= max(m.viewport.Height()-1, 1)
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.offset += max(m.viewport.Height()-1, 1)
		return nil
	case key.Matches(msg, m.keys.JumpStep):
		s := msg.String()
		step := int(s[len(s)-1] - '1')
		m.ctrl.RequestFocus(step)
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.beginSubmit()
	case key.Matches(msg, m.keys.ClearLogo):
		m.ctrl.OnClearAsset(library.SlotLogo)
		return m.toast.Show("Logo cleared")
	case key.Matches(msg, m.keys.Edit):
		if it := m.focused(); it != nil && it.kind == itemField && it.field.Name == library.FieldAddress {
			return m.openEditor(*it)
		}
		return nil
	case key.Matches(msg, m.keys.Activate):
		return m.activate()
	}

	return m.updateInput(msg)
}

func (m *Model) handlePaste(msg tea.PasteMsg) tea.Cmd {
	it := m.focused()
	if it == nil || it.input == nil {
		return nil
	}
	if it.kind == itemLogo {
		// A file dropped onto the terminal arrives as a pasted path.
		path := strings.Trim(strings.TrimSpace(msg.Content), `'"`)
		it.input.SetValue(path)
		return m.stageLogo(path)
	}
	return m.updateInput(msg)
}

// updateInput forwards msg to the focused input and reports value changes.
func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	it := m.focused()
	if it == nil || it.input == nil {
		return nil
	}
	before := it.input.Value()
	var cmd tea.Cmd
	*it.input, cmd = it.input.Update(msg)
	if it.kind == itemField && it.input.Value() != before {
		if err := m.ctrl.OnFieldChange(m.stepKeys[it.step], it.field.Name, it.input.Value()); err != nil {
			logger.Warn("Field change rejected: %v", err)
		}
	}
	return cmd
}

// activate handles enter on the focused item.
func (m *Model) activate() tea.Cmd {
	it := m.focused()
	if it == nil {
		return nil
	}
	switch it.kind {
	case itemLogo:
		return m.stageLogo(it.input.Value())
	case itemContinue:
		m.notice = ""
		if err := m.ctrl.OnContinueClicked(it.step); err != nil {
			var stepErr *wizard.StepValidationFailedError
			if !errors.As(err, &stepErr) {
				logger.Error("Continue on step %d: %v", it.step, err)
			}
			return nil
		}
		return nil
	case itemSubmit:
		return m.beginSubmit()
	default:
		return m.setFocus(m.focus + 1)
	}
}

func (m *Model) stageLogo(path string) tea.Cmd {
	asset, err := preview.Load(path, m.maxLogoBytes)
	if err != nil {
		return m.toast.Show(err.Error())
	}
	if err := m.ctrl.OnFileSelected(library.SlotLogo, asset); err != nil {
		if errors.Is(err, wizard.ErrInvalidAssetType) {
			return m.toast.Show(wizard.MsgInvalidAsset)
		}
		return m.toast.Show(err.Error())
	}
	m.prefs.RememberPicture(path)
	return m.toast.Show("Logo staged: " + asset.Name)
}

func (m *Model) beginSubmit() tea.Cmd {
	p, err := m.ctrl.BeginSubmit()
	switch {
	case errors.Is(err, wizard.ErrIncompleteWizard):
		m.notice = wizard.MsgIncompleteWizard
		return m.toast.Show(wizard.MsgIncompleteWizard)
	case err != nil:
		return nil
	}

	m.notice = ""
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{payload: p, err: ctrl.Deliver(ctx, p)}
	}
}

func (m *Model) finishSubmit(msg submitDoneMsg) tea.Cmd {
	if err := m.ctrl.FinishSubmit(msg.err); err != nil {
		m.notice = fmt.Sprintf("Registration failed: %v", err)
		return m.toast.Show("Registration failed")
	}
	m.result.Registered = true
	m.result.Registration = library.FromPayload(msg.payload)
	m.summary = renderMarkdown(m.result.Registration.Summary(), m.width)
	m.notice = MsgRegistered
	return nil
}

func (m *Model) quit(cancelled bool) {
	m.result.Cancelled = cancelled && !m.result.Registered
	m.quitting = true
}

// Prefs returns the possibly updated preferences.
func (m *Model) Prefs() *state.Prefs {
	return m.prefs
}

func (m *Model) focused() *item {
	if m.focus < 0 || m.focus >= len(m.items) {
		return nil
	}
	return &m.items[m.focus]
}

// setFocus moves keyboard focus, wrapping around.
func (m *Model) setFocus(i int) tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}
	i = (i%len(m.items) + len(m.items)) % len(m.items)
	if it := m.focused(); it != nil && it.input != nil {
		it.input.Blur()
	}
	m.focus = i
	m.revealItem = true
	if it := m.focused(); it != nil && it.input != nil {
		return it.input.Focus()
	}
	return nil
}

// focusStep moves keyboard focus to the first item of step.
func (m *Model) focusStep(step int) tea.Cmd {
	if it := m.focused(); it != nil && it.step == step {
		return nil
	}
	for i, it := range m.items {
		if it.step == step {
			cmd := m.setFocus(i)
			m.revealItem = false
			return cmd
		}
	}
	return nil
}

// pulseCmd keeps redrawing while a rejected panel is shaking.
func (m *Model) pulseCmd() tea.Cmd {
	if m.pulseTicking {
		return nil
	}
	for i := range m.stepKeys {
		if m.ctrl.PulseActive(i) {
			m.pulseTicking = true
			return tea.Tick(shakeInterval, func(time.Time) tea.Msg { return pulseTickMsg{} })
		}
	}
	return nil
}

// shake returns the horizontal displacement of step's panel.
func (m *Model) shake(step int) int {
	deadline, ok := m.ctrl.PulseDeadline(step)
	if !ok || !m.ctrl.PulseActive(step) {
		return 0
	}
	return shakeOffset(int(deadline.Sub(m.now()) / shakeInterval))
}
