package wizard

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smartlib/libreg/internal/logger"
)

// Engine evaluates step rules. It holds no state beyond the step definitions.
type Engine struct {
	steps []StepDefinition
}

// NewEngine creates an engine over the given ordered steps.
func NewEngine(steps []StepDefinition) *Engine {
	return &Engine{steps: steps}
}

// Validate runs the rule of the step at index against data.
// A step without a rule always passes. Out-of-range indices and
// panicking rules yield false.
func (e *Engine) Validate(index int, data StepData) (ok bool) {
	if index < 0 || index >= len(e.steps) {
		return false
	}
	step := e.steps[index]
	if step.Validate == nil {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Rule for step %q panicked: %v", step.Key, r)
			ok = false
		}
	}()
	return step.Validate(data)
}

// TextPresence requires each field's trimmed length to reach its minimum.
// Length is counted in runes.
func TextPresence(minLengths map[string]int) Rule {
	return func(d StepData) bool {
		for field, min := range minLengths {
			if utf8.RuneCountInString(strings.TrimSpace(d.Field(field))) < min {
				return false
			}
		}
		return true
	}
}

// AssetPresence requires a staged file in slot.
func AssetPresence(slot string) Rule {
	return func(d StepData) bool {
		return d.HasAsset(slot)
	}
}

// NumericPolicy requires nonNegative to parse as a finite number >= 0 and
// positiveInt to parse as an integer > 0.
func NumericPolicy(nonNegative, positiveInt string) Rule {
	return func(d StepData) bool {
		p, err := strconv.ParseFloat(strings.TrimSpace(d.Field(nonNegative)), 64)
		if err != nil || math.IsInf(p, 0) || math.IsNaN(p) || p < 0 {
			return false
		}

		b, err := strconv.ParseFloat(strings.TrimSpace(d.Field(positiveInt)), 64)
		if err != nil || math.IsInf(b, 0) || math.IsNaN(b) {
			return false
		}
		return b == math.Trunc(b) && b > 0
	}
}

// emailPattern is intentionally loose: something@something.something.
var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// Credentials describes the fields and limits of an account step.
type Credentials struct {
	UsernameField string
	EmailField    string
	PasswordField string
	ConfirmField  string
	MinUsername   int
	MinPassword   int
}

// Rule builds the credentials predicate.
func (c Credentials) Rule() Rule {
	return func(d StepData) bool {
		username := d.Field(c.UsernameField)
		if utf8.RuneCountInString(strings.TrimSpace(username)) < c.MinUsername {
			return false
		}
		if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
			return false
		}

		if !emailPattern.MatchString(d.Field(c.EmailField)) {
			return false
		}

		password := d.Field(c.PasswordField)
		return utf8.RuneCountInString(password) >= c.MinPassword && password == d.Field(c.ConfirmField)
	}
}

// All combines rules; every rule must pass.
func All(rules ...Rule) Rule {
	return func(d StepData) bool {
		for _, r := range rules {
			if r != nil && !r(d) {
				return false
			}
		}
		return true
	}
}
