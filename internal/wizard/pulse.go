package wizard

import (
	"sort"
	"time"
)

// DefaultPulseDuration matches the shake animation length.
const DefaultPulseDuration = 300 * time.Millisecond

// Pulse is a self-expiring per-step flag signalling a rejected advance.
// It is presentation sugar and is kept out of the durable wizard state.
type Pulse struct {
	duration  time.Duration
	now       func() time.Time
	deadlines map[int]time.Time
}

// NewPulse creates a pulse that lasts d. A nil now uses time.Now.
func NewPulse(d time.Duration, now func() time.Time) *Pulse {
	if d <= 0 {
		d = DefaultPulseDuration
	}
	if now == nil {
		now = time.Now
	}
	return &Pulse{
		duration:  d,
		now:       now,
		deadlines: make(map[int]time.Time),
	}
}

// Trigger starts (or restarts) the pulse for step and returns its deadline.
func (p *Pulse) Trigger(step int) time.Time {
	deadline := p.now().Add(p.duration)
	p.deadlines[step] = deadline
	return deadline
}

// Active reports whether the pulse for step is still running.
func (p *Pulse) Active(step int) bool {
	deadline, ok := p.deadlines[step]
	if !ok {
		return false
	}
	if !p.now().Before(deadline) {
		delete(p.deadlines, step)
		return false
	}
	return true
}

// Deadline returns when the pulse for step expires.
func (p *Pulse) Deadline(step int) (time.Time, bool) {
	if !p.Active(step) {
		return time.Time{}, false
	}
	return p.deadlines[step], true
}

// ActiveSteps returns the steps whose pulse is running, ascending.
func (p *Pulse) ActiveSteps() []int {
	var steps []int
	for step := range p.deadlines {
		if p.Active(step) {
			steps = append(steps, step)
		}
	}
	sort.Ints(steps)
	return steps
}

// Duration returns the configured pulse length.
func (p *Pulse) Duration() time.Duration {
	return p.duration
}
