package wizard

import (
	"context"
	"fmt"
)

// The On* methods are the event boundary a presentation layer forwards raw
// UI events through.

// OnFieldChange records a single field edit.
func (c *Controller) OnFieldChange(stepKey, field, value string) error {
	i, ok := c.index[stepKey]
	if !ok {
		return fmt.Errorf("unknown step %q", stepKey)
	}
	c.SetStepData(i, map[string]string{field: value})
	return nil
}

// OnFileSelected stages a dropped or browsed file.
func (c *Controller) OnFileSelected(slot string, file Asset) error {
	_, err := c.Stage(slot, file)
	return err
}

// OnClearAsset removes the file staged in slot.
func (c *Controller) OnClearAsset(slot string) {
	c.ClearAsset(slot)
}

// OnContinueClicked tries to advance past stepIndex.
func (c *Controller) OnContinueClicked(stepIndex int) error {
	return c.Advance(stepIndex)
}

// OnPanelIntersection forwards one visibility update to the viewport sync.
func (c *Controller) OnPanelIntersection(panelIndex int, ratio float64, isIntersecting bool) {
	c.sync.Observe(Intersection{Panel: panelIndex, Ratio: ratio, Intersecting: isIntersecting})
}

// OnPanelFrame forwards all visibility updates of one scroll frame.
func (c *Controller) OnPanelFrame(updates ...Intersection) {
	c.sync.ObserveFrame(updates...)
}

// OnSubmitClicked submits the wizard.
func (c *Controller) OnSubmitClicked(ctx context.Context) error {
	return c.Submit(ctx)
}
