package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestPulse_Expires(t *testing.T) {
	clock := newFakeClock()
	p := NewPulse(300*time.Millisecond, clock.Now)

	assert.False(t, p.Active(1))
	p.Trigger(1)
	assert.True(t, p.Active(1))
	assert.False(t, p.Active(0), "pulses are keyed by step")

	clock.Advance(299 * time.Millisecond)
	assert.True(t, p.Active(1))

	clock.Advance(time.Millisecond)
	assert.False(t, p.Active(1))
	_, ok := p.Deadline(1)
	assert.False(t, ok)
}

func TestPulse_RetriggerRestarts(t *testing.T) {
	clock := newFakeClock()
	p := NewPulse(300*time.Millisecond, clock.Now)

	first := p.Trigger(2)
	clock.Advance(200 * time.Millisecond)
	second := p.Trigger(2)

	assert.Equal(t, first.Add(200*time.Millisecond), second)

	clock.Advance(200 * time.Millisecond)
	assert.True(t, p.Active(2), "restarted pulse outlives the original deadline")

	clock.Advance(100 * time.Millisecond)
	assert.False(t, p.Active(2))
}

func TestPulse_ActiveSteps(t *testing.T) {
	clock := newFakeClock()
	p := NewPulse(time.Second, clock.Now)

	p.Trigger(3)
	clock.Advance(500 * time.Millisecond)
	p.Trigger(0)

	assert.Equal(t, []int{0, 3}, p.ActiveSteps())

	clock.Advance(600 * time.Millisecond)
	assert.Equal(t, []int{0}, p.ActiveSteps())
}

func TestPulse_Defaults(t *testing.T) {
	p := NewPulse(0, nil)
	assert.Equal(t, DefaultPulseDuration, p.Duration())
	p.Trigger(0)
	assert.True(t, p.Active(0))
}
