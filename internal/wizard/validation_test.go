package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func data(fields map[string]string) StepData {
	return StepData{Fields: fields}
}

func TestTextPresence(t *testing.T) {
	rule := TextPresence(map[string]int{"name": 2, "address": 5})

	tests := []struct {
		name   string
		fields map[string]string
		want   bool
	}{
		{"valid", map[string]string{"name": "Al", "address": "1 Way"}, true},
		{"short name", map[string]string{"name": "A", "address": "1 Way"}, false},
		{"padded name is trimmed", map[string]string{"name": "  A  ", "address": "1 Way"}, false},
		{"missing address", map[string]string{"name": "Al"}, false},
		{"nil fields", nil, false},
		{"multibyte counts runes", map[string]string{"name": "Éa", "address": "Ünter"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rule(data(tt.fields)))
		})
	}
}

func TestAssetPresence(t *testing.T) {
	rule := AssetPresence("logo")
	assert.False(t, rule(StepData{}))
	assert.False(t, rule(StepData{Assets: map[string]Asset{"banner": png("b.png")}}))
	assert.True(t, rule(StepData{Assets: map[string]Asset{"logo": png("l.png")}}))
}

func TestNumericPolicy(t *testing.T) {
	rule := NumericPolicy("penalty", "limit")

	tests := []struct {
		penalty, limit string
		want           bool
	}{
		{"0", "1", true},
		{"2.5", "10", true},
		{" 1 ", " 2 ", true},
		{"-1", "1", false},
		{"abc", "1", false},
		{"", "1", false},
		{"Inf", "1", false},
		{"NaN", "1", false},
		{"1", "0", false},
		{"1", "-3", false},
		{"1", "2.5", false},
		{"1", "3.0", true},
		{"1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.penalty+"/"+tt.limit, func(t *testing.T) {
			got := rule(data(map[string]string{"penalty": tt.penalty, "limit": tt.limit}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentials(t *testing.T) {
	rule := Credentials{
		UsernameField: "username",
		EmailField:    "email",
		PasswordField: "password",
		ConfirmField:  "confirm",
		MinUsername:   3,
		MinPassword:   6,
	}.Rule()

	valid := func() map[string]string {
		return map[string]string{
			"username": "librarian",
			"email":    "a@b.co",
			"password": "abcdef",
			"confirm":  "abcdef",
		}
	}

	assert.True(t, rule(data(valid())))

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"username with space", "username", "ab c"},
		{"username with tab", "username", "abc\tdef"},
		{"short username", "username", "ab"},
		{"email without at", "email", "ab.co"},
		{"email without dot", "email", "a@bco"},
		{"short password", "password", "abcde"},
		{"mismatched confirm", "confirm", "abcdeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := valid()
			fields[tt.field] = tt.value
			if tt.field == "password" {
				fields["confirm"] = tt.value
			}
			assert.False(t, rule(data(fields)))
		})
	}
}

func TestEngine_Validate(t *testing.T) {
	engine := NewEngine([]StepDefinition{
		{Key: "free"},
		{Key: "boom", Validate: func(StepData) bool { panic("bad rule") }},
		{Key: "name", Validate: TextPresence(map[string]int{"name": 1})},
	})

	assert.True(t, engine.Validate(0, StepData{}), "step without rule passes")
	assert.False(t, engine.Validate(1, StepData{}), "panicking rule yields false")
	assert.False(t, engine.Validate(2, StepData{}))
	assert.True(t, engine.Validate(2, data(map[string]string{"name": "x"})))
	assert.False(t, engine.Validate(-1, StepData{}))
	assert.False(t, engine.Validate(3, StepData{}))
}

func TestAll(t *testing.T) {
	yes := func(StepData) bool { return true }
	no := func(StepData) bool { return false }

	assert.True(t, All()(StepData{}))
	assert.True(t, All(yes, nil, yes)(StepData{}))
	assert.False(t, All(yes, no)(StepData{}))
}
