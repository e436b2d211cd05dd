package wizard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/smartlib/libreg/internal/logger"
)

// SubmitFunc delivers the assembled payload. Its error is surfaced unchanged.
type SubmitFunc func(ctx context.Context, p Payload) error

// Options configures a Controller.
type Options struct {
	Steps         []StepDefinition
	Submit        SubmitFunc
	Previews      PreviewAllocator // Required when any step owns a slot
	PulseDuration time.Duration
	Now           func() time.Time
}

// State is the durable wizard state.
type State struct {
	ActiveIndex int
	Completed   map[int]struct{}
	Data        map[string]StepData
	Error       string
}

// Snapshot is a read-only copy of everything a presentation layer renders.
type Snapshot struct {
	ActiveIndex int
	Completed   []int
	Data        map[string]StepData
	Progress    float64
	Error       string
	Pulses      []bool
	Previews    map[string]PreviewHandle
	Submitting  bool
}

// IsCompleted reports whether index is in the completed set.
func (s Snapshot) IsCompleted(index int) bool {
	for _, i := range s.Completed {
		if i == index {
			return true
		}
	}
	return false
}

// Controller owns the wizard state and orchestrates validation, viewport
// sync, asset staging and submission.
//
// It is not safe for concurrent use: every call is expected to come from a
// single event loop. Callers receiving events on several goroutines must
// serialize access themselves.
type Controller struct {
	steps     []StepDefinition
	index     map[string]int // Step key -> index
	engine    *Engine
	sync      *ViewportSync
	stagers   map[string]*AssetStager
	slotOwner map[string]int // Slot -> owning step index
	pulse     *Pulse
	submit    SubmitFunc
	observers []Observer

	state      State
	submitting bool
	closed     bool
}

// New creates a controller in its mounted state: active step 0, nothing completed.
func New(opts Options) (*Controller, error) {
	if len(opts.Steps) == 0 {
		return nil, errors.New("wizard requires at least one step")
	}
	if opts.Submit == nil {
		return nil, errors.New("wizard requires a submit function")
	}

	c := &Controller{
		steps:     opts.Steps,
		index:     make(map[string]int, len(opts.Steps)),
		engine:    NewEngine(opts.Steps),
		stagers:   make(map[string]*AssetStager),
		slotOwner: make(map[string]int),
		pulse:     NewPulse(opts.PulseDuration, opts.Now),
		submit:    opts.Submit,
		state: State{
			Completed: make(map[int]struct{}),
			Data:      make(map[string]StepData, len(opts.Steps)),
		},
	}

	for i, step := range opts.Steps {
		if step.Key == "" {
			return nil, fmt.Errorf("step %d has no key", i)
		}
		if _, dup := c.index[step.Key]; dup {
			return nil, fmt.Errorf("duplicate step key %q", step.Key)
		}
		c.index[step.Key] = i
		c.state.Data[step.Key] = StepData{Fields: make(map[string]string)}

		for _, slot := range step.Slots {
			if _, dup := c.slotOwner[slot]; dup {
				return nil, fmt.Errorf("slot %q owned by more than one step", slot)
			}
			if opts.Previews == nil {
				return nil, fmt.Errorf("step %q owns slot %q but no preview allocator was given", step.Key, slot)
			}
			c.slotOwner[slot] = i
			c.stagers[slot] = NewAssetStager(slot, opts.Previews)
		}
	}

	c.sync = NewViewportSync(len(opts.Steps), c.SetActiveIndex)
	return c, nil
}

// Subscribe registers an observer for outbound events.
func (c *Controller) Subscribe(o Observer) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

// Steps returns the step definitions in order.
func (c *Controller) Steps() []StepDefinition {
	return c.steps
}

// StepCount returns the number of steps.
func (c *Controller) StepCount() int {
	return len(c.steps)
}

// IndexOf returns the index of a step key.
func (c *Controller) IndexOf(key string) (int, bool) {
	i, ok := c.index[key]
	return i, ok
}

// SetStepData merges partial into the step's fields.
// It never validates and never touches the completed set.
func (c *Controller) SetStepData(stepIndex int, partial map[string]string) {
	if !c.validIndex(stepIndex) {
		logger.Warn("SetStepData: step index %d out of range", stepIndex)
		return
	}
	key := c.steps[stepIndex].Key
	data := c.state.Data[key]
	for field, value := range partial {
		data.Fields[field] = value
		c.emit(Event{Type: EventFieldChanged, Step: stepIndex, StepKey: key, Field: field})
	}
}

// Advance validates a step. On success the step is marked complete, the error
// cleared and focus moves to the next step (clamped to the last). On failure
// the error is set, the step's pulse fires and a *StepValidationFailedError
// is returned; completion and focus are left as they were.
func (c *Controller) Advance(stepIndex int) error {
	if !c.validIndex(stepIndex) {
		return fmt.Errorf("advance: step index %d out of range", stepIndex)
	}
	key := c.steps[stepIndex].Key

	if !c.engine.Validate(stepIndex, c.stepData(stepIndex)) {
		c.state.Error = MsgIncompleteStep
		c.pulse.Trigger(stepIndex)
		logger.Debug("Step %d (%s) rejected", stepIndex, key)
		err := &StepValidationFailedError{Index: stepIndex, Key: key}
		c.emit(Event{Type: EventStepRejected, Step: stepIndex, StepKey: key, Err: err})
		return err
	}

	c.state.Completed[stepIndex] = struct{}{}
	c.state.Error = ""
	logger.Debug("Step %d (%s) completed", stepIndex, key)
	c.emit(Event{Type: EventStepCompleted, Step: stepIndex, StepKey: key})

	next := min(stepIndex+1, len(c.steps)-1)
	c.RequestFocus(next)
	c.SetActiveIndex(next)
	return nil
}

// RequestFocus asks the presentation layer to bring a step into view.
// It does not validate and does not change the active index by itself.
func (c *Controller) RequestFocus(index int) {
	if !c.validIndex(index) {
		return
	}
	c.emit(Event{Type: EventFocusRequested, Step: index, StepKey: c.steps[index].Key})
}

// SetActiveIndex moves the active step. Passive scrolling is never gated:
// there is no validation and the completed set is untouched. Out-of-range
// values are clamped.
func (c *Controller) SetActiveIndex(index int) {
	index = min(max(index, 0), len(c.steps)-1)
	c.sync.Acknowledge(index)
	if index == c.state.ActiveIndex {
		return
	}
	c.state.ActiveIndex = index
	c.emit(Event{Type: EventActiveChanged, Step: index, StepKey: c.steps[index].Key})
}

// Progress returns the progress percentage.
func (c *Controller) Progress() float64 {
	return ComputeProgress(c.state.ActiveIndex, c.state.Completed, len(c.steps))
}

// Stage stages a file in slot and returns its preview handle.
func (c *Controller) Stage(slot string, a Asset) (PreviewHandle, error) {
	if c.closed {
		return "", ErrClosed
	}
	stager, ok := c.stagers[slot]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	owner := c.slotOwner[slot]

	handle, err := stager.Stage(a)
	if err != nil {
		if errors.Is(err, ErrInvalidAssetType) {
			c.state.Error = MsgInvalidAsset
		}
		c.emit(Event{Type: EventAssetRejected, Step: owner, StepKey: c.steps[owner].Key, Slot: slot, Err: err})
		return "", err
	}
	c.emit(Event{Type: EventAssetStaged, Step: owner, StepKey: c.steps[owner].Key, Slot: slot, Handle: handle})
	return handle, nil
}

// ClearAsset revokes and drops the asset staged in slot.
func (c *Controller) ClearAsset(slot string) {
	stager, ok := c.stagers[slot]
	if !ok || stager.Current() == nil {
		return
	}
	stager.Clear()
	owner := c.slotOwner[slot]
	c.emit(Event{Type: EventAssetCleared, Step: owner, StepKey: c.steps[owner].Key, Slot: slot})
}

// Preview returns the live preview handle of slot.
func (c *Controller) Preview(slot string) (PreviewHandle, bool) {
	stager, ok := c.stagers[slot]
	if !ok || stager.Current() == nil {
		return "", false
	}
	return stager.Current().Handle, true
}

// PulseActive reports whether the feedback pulse for step is running.
func (c *Controller) PulseActive(step int) bool {
	return c.pulse.Active(step)
}

// PulseDeadline returns when the pulse for step expires.
func (c *Controller) PulseDeadline(step int) (time.Time, bool) {
	return c.pulse.Deadline(step)
}

// Submit validates every step and, if all pass, hands the payload to the
// submit function and returns its outcome unchanged.
func (c *Controller) Submit(ctx context.Context) error {
	p, err := c.BeginSubmit()
	if err != nil {
		return err
	}
	return c.FinishSubmit(c.Deliver(ctx, p))
}

// BeginSubmit validates all steps and assembles the payload, marking a
// submission as pending. It fails with ErrIncompleteWizard without mutating
// anything when a step is invalid.
func (c *Controller) BeginSubmit() (Payload, error) {
	if c.submitting {
		return Payload{}, ErrSubmitInProgress
	}
	for i := range c.steps {
		if !c.engine.Validate(i, c.stepData(i)) {
			logger.Debug("Submit blocked: step %d (%s) invalid", i, c.steps[i].Key)
			return Payload{}, ErrIncompleteWizard
		}
	}

	p := Payload{Steps: make(map[string]StepData, len(c.steps))}
	for i, step := range c.steps {
		p.Steps[step.Key] = c.stepData(i)
	}
	c.submitting = true
	return p, nil
}

// Deliver calls the injected submit function. It only reads immutable
// controller fields, so it may run off the event loop.
func (c *Controller) Deliver(ctx context.Context, p Payload) error {
	return c.submit(ctx, p)
}

// FinishSubmit settles a pending submission and returns err unchanged.
// Completion state is never altered, so a failed submission can be retried.
func (c *Controller) FinishSubmit(err error) error {
	c.submitting = false
	if err != nil {
		logger.Warn("Submission failed: %v", err)
		c.emit(Event{Type: EventSubmitFailed, Step: -1, Err: err})
		return err
	}
	logger.Info("Submission succeeded")
	c.emit(Event{Type: EventSubmitted, Step: -1})
	return nil
}

// Submitting reports whether a submission is pending.
func (c *Controller) Submitting() bool {
	return c.submitting
}

// State returns a copy of the durable state.
func (c *Controller) State() State {
	s := State{
		ActiveIndex: c.state.ActiveIndex,
		Completed:   make(map[int]struct{}, len(c.state.Completed)),
		Data:        make(map[string]StepData, len(c.state.Data)),
		Error:       c.state.Error,
	}
	for i := range c.state.Completed {
		s.Completed[i] = struct{}{}
	}
	for i, step := range c.steps {
		s.Data[step.Key] = c.stepData(i)
	}
	return s
}

// Snapshot returns everything a presentation layer needs to render.
func (c *Controller) Snapshot() Snapshot {
	st := c.State()
	snap := Snapshot{
		ActiveIndex: st.ActiveIndex,
		Data:        st.Data,
		Progress:    c.Progress(),
		Error:       st.Error,
		Pulses:      make([]bool, len(c.steps)),
		Previews:    make(map[string]PreviewHandle, len(c.stagers)),
		Submitting:  c.submitting,
	}
	for i := range st.Completed {
		snap.Completed = append(snap.Completed, i)
	}
	sort.Ints(snap.Completed)
	for i := range c.steps {
		snap.Pulses[i] = c.pulse.Active(i)
	}
	for slot, stager := range c.stagers {
		if cur := stager.Current(); cur != nil {
			snap.Previews[slot] = cur.Handle
		}
	}
	return snap
}

// Close tears the controller down, revoking every live preview handle.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, stager := range c.stagers {
		stager.Clear()
	}
	logger.Debug("Wizard controller closed")
}

// stepData returns a copy of a step's data including its staged assets.
func (c *Controller) stepData(index int) StepData {
	step := c.steps[index]
	data := c.state.Data[step.Key].clone()
	for _, slot := range step.Slots {
		if cur := c.stagers[slot].Current(); cur != nil {
			if data.Assets == nil {
				data.Assets = make(map[string]Asset)
			}
			file := cur.File
			file.Data = bytes.Clone(file.Data)
			data.Assets[slot] = file
		}
	}
	return data
}

func (c *Controller) validIndex(i int) bool {
	return i >= 0 && i < len(c.steps)
}

func (c *Controller) emit(e Event) {
	for _, o := range c.observers {
		o(e)
	}
}
