package register

import "github.com/smartlib/libreg/internal/wizard"

// panelSpan is the line range one panel occupies in the scroll content.
type panelSpan struct {
	Top    int
	Height int
}

// intersections reports how much of each panel is visible when the content
// is scrolled to offset in a viewport of height lines.
func intersections(spans []panelSpan, offset, height int) []wizard.Intersection {
	out := make([]wizard.Intersection, len(spans))
	for i, sp := range spans {
		out[i].Panel = i
		if sp.Height <= 0 || height <= 0 {
			continue
		}
		lo := max(sp.Top, offset)
		hi := min(sp.Top+sp.Height, offset+height)
		if hi <= lo {
			continue
		}
		out[i].Intersecting = true
		out[i].Ratio = float64(hi-lo) / float64(sp.Height)
	}
	return out
}

// scrollToReveal returns the smallest offset change that brings line into
// the viewport, keeping one line of context where possible.
func scrollToReveal(offset, height, line int) int {
	if height <= 0 {
		return offset
	}
	if line < offset {
		return max(line-1, 0)
	}
	if line >= offset+height {
		return line - height + min(2, height)
	}
	return offset
}

// shakeOffsets is the horizontal displacement cycle of a rejected panel.
var shakeOffsets = [...]int{0, 2, 4, 2}

// shakeOffset returns the displacement for the given phase.
func shakeOffset(phase int) int {
	if phase < 0 {
		phase = -phase
	}
	return shakeOffsets[phase%len(shakeOffsets)]
}
