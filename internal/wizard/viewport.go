package wizard

// Intersection is a visibility update for one panel.
type Intersection struct {
	Panel        int
	Ratio        float64
	Intersecting bool
}

type panelVisibility struct {
	ratio        float64
	intersecting bool
}

// ViewportSync maps panel visibility updates to a single active panel.
//
// Every update recomputes the selection from the full set of panels, so a
// burst of updates converges to the same panel regardless of arrival order.
// The most visible intersecting panel wins; ties go to the lower index.
type ViewportSync struct {
	panels   []panelVisibility
	last     int // Last reported panel, -1 if none
	onChange func(int)
}

// NewViewportSync creates a sync over panelCount panels.
// onChange is called only when the selected panel changes.
func NewViewportSync(panelCount int, onChange func(int)) *ViewportSync {
	return &ViewportSync{
		panels:   make([]panelVisibility, panelCount),
		last:     -1,
		onChange: onChange,
	}
}

// Observe records one update and reports the selection if it changed.
func (v *ViewportSync) Observe(e Intersection) {
	if !v.record(e) {
		return
	}
	v.emit()
}

// ObserveFrame records a batch of updates delivered together and reports once.
func (v *ViewportSync) ObserveFrame(events ...Intersection) {
	changed := false
	for _, e := range events {
		if v.record(e) {
			changed = true
		}
	}
	if changed {
		v.emit()
	}
}

// Selected returns the panel the current visibility set selects.
func (v *ViewportSync) Selected() (int, bool) {
	best := -1
	bestRatio := 0.0
	for i, p := range v.panels {
		if !p.intersecting {
			continue
		}
		// Strict comparison keeps the lower index on ties.
		if best == -1 || p.ratio > bestRatio {
			best = i
			bestRatio = p.ratio
		}
	}
	return best, best >= 0
}

// Acknowledge marks index as already reported, e.g. after the controller
// moved focus itself, so de-duplication compares against the real active step.
func (v *ViewportSync) Acknowledge(index int) {
	if index >= 0 && index < len(v.panels) {
		v.last = index
	}
}

// Reset forgets all visibility state.
func (v *ViewportSync) Reset() {
	for i := range v.panels {
		v.panels[i] = panelVisibility{}
	}
	v.last = -1
}

func (v *ViewportSync) record(e Intersection) bool {
	if e.Panel < 0 || e.Panel >= len(v.panels) {
		return false
	}
	v.panels[e.Panel] = panelVisibility{ratio: e.Ratio, intersecting: e.Intersecting}
	return true
}

func (v *ViewportSync) emit() {
	selected, ok := v.Selected()
	if !ok || selected == v.last {
		return
	}
	v.last = selected
	if v.onChange != nil {
		v.onChange(selected)
	}
}
