package wizard

import "bytes"

// Rule is a pure predicate over a step's data.
// Rules must not mutate data; a missing or malformed field yields false.
type Rule func(StepData) bool

// StepDefinition describes one panel of the wizard.
// Definitions are immutable once handed to New; their order defines progression.
type StepDefinition struct {
	Key      string
	Label    string
	Validate Rule
	// Slots names the upload slots owned by this step.
	Slots []string
}

// StepData is the data a step has collected so far.
type StepData struct {
	Fields map[string]string
	Assets map[string]Asset // Staged files by slot
}

// Field returns the value of a field, or "" when unset.
func (d StepData) Field(name string) string {
	if d.Fields == nil {
		return ""
	}
	return d.Fields[name]
}

// HasAsset reports whether a file is staged for the slot.
func (d StepData) HasAsset(slot string) bool {
	if d.Assets == nil {
		return false
	}
	_, ok := d.Assets[slot]
	return ok
}

// clone returns a deep copy so callers can't mutate controller state.
func (d StepData) clone() StepData {
	out := StepData{Fields: make(map[string]string, len(d.Fields))}
	for k, v := range d.Fields {
		out.Fields[k] = v
	}
	if len(d.Assets) > 0 {
		out.Assets = make(map[string]Asset, len(d.Assets))
		for k, v := range d.Assets {
			v.Data = bytes.Clone(v.Data)
			out.Assets[k] = v
		}
	}
	return out
}

// Payload is the assembled result handed to the submit function.
type Payload struct {
	Steps map[string]StepData
}

// Field returns a field of a step in the payload.
func (p Payload) Field(stepKey, field string) string {
	return p.Steps[stepKey].Field(field)
}

// Asset returns the file staged for a slot of a step.
func (p Payload) Asset(stepKey, slot string) (Asset, bool) {
	a, ok := p.Steps[stepKey].Assets[slot]
	return a, ok
}
