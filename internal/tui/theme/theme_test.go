package theme

import (
	"strings"
	"testing"
)

func TestCatppuccinMocha_Palette(t *testing.T) {
	th := Current()
	if th.Name != "catppuccin-mocha" {
		t.Fatalf("expected catppuccin-mocha theme, got %s", th.Name)
	}

	tests := []struct {
		name, got, want string
	}{
		{"Primary", th.Primary, "#cba6f7"},
		{"Tertiary", th.Tertiary, "#b4befe"},
		{"BgBase", th.BgBase, "#1e1e2e"},
		{"FgBase", th.FgBase, "#cdd6f4"},
		{"Success", th.Success, "#a6e3a1"},
		{"Error", th.Error, "#f38ba8"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
		}
	}

	if th.S() != th.S() {
		t.Error("styles should be built once")
	}
}

func TestSetCurrent(t *testing.T) {
	orig := Current()
	t.Cleanup(func() { SetCurrent(orig) })

	custom := NewCatppuccinMocha()
	custom.Name = "custom"
	SetCurrent(custom)
	SetCurrent(nil)
	if Current().Name != "custom" {
		t.Errorf("Current().Name = %s", Current().Name)
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		a, b string
		pos  float64
		want string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 0.5, "#7f7f7f"},
		{"#000000", "#ffffff", 2, "#ffffff"},
		{"#000000", "#ffffff", -1, "#000000"},
		{"bad", "#ffffff", 0, "#000000"},
	}
	for _, tt := range tests {
		if got := InterpolateColor(tt.a, tt.b, tt.pos); got != tt.want {
			t.Errorf("InterpolateColor(%s, %s, %v) = %s, want %s", tt.a, tt.b, tt.pos, got, tt.want)
		}
	}
}

func TestGradient(t *testing.T) {
	if g := Gradient("#000000", "#ffffff", 0); g != nil {
		t.Errorf("expected nil, got %v", g)
	}
	if g := Gradient("#123456", "#ffffff", 1); len(g) != 1 || g[0] != "#123456" {
		t.Errorf("single step gradient = %v", g)
	}
	g := Gradient("#000000", "#ffffff", 3)
	if len(g) != 3 || g[0] != "#000000" || g[2] != "#ffffff" {
		t.Errorf("gradient = %v", g)
	}
}

func TestApplyGradient(t *testing.T) {
	if got := ApplyGradient("", "#000000", "#ffffff"); got != "" {
		t.Errorf("empty text rendered as %q", got)
	}
	got := ApplyGradient("abc", "#000000", "#ffffff")
	for _, r := range "abc" {
		if !strings.ContainsRune(got, r) {
			t.Errorf("rune %q missing from %q", r, got)
		}
	}
}
