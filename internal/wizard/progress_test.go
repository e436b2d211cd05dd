package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func set(indices ...int) map[int]struct{} {
	m := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		m[i] = struct{}{}
	}
	return m
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		active    int
		completed map[int]struct{}
		steps     int
		want      float64
	}{
		{"fresh wizard", 0, set(), 4, 0},
		{"two completed, active on second", 1, set(0, 1), 4, 50},
		{"scrolled ahead of completion", 2, set(0), 4, 200.0 / 3},
		{"scrolled back after completing", 0, set(0, 1, 2), 4, 75},
		{"all completed", 3, set(0, 1, 2, 3), 4, 100},
		{"single step not completed", 0, set(), 1, 0},
		{"single step completed", 0, set(0), 1, 100},
		{"no steps", 0, set(), 0, 0},
		{"gap in completion uses furthest", 0, set(2), 4, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeProgress(tt.active, tt.completed, tt.steps), 1e-9)
		})
	}
}

func TestComputeProgress_MonotonicInCompletion(t *testing.T) {
	for steps := 1; steps <= 6; steps++ {
		for active := 0; active < steps; active++ {
			completed := set()
			prev := ComputeProgress(active, completed, steps)
			for i := 0; i < steps; i++ {
				completed[i] = struct{}{}
				got := ComputeProgress(active, completed, steps)
				assert.GreaterOrEqual(t, got, prev, "steps=%d active=%d after completing %d", steps, active, i)
				assert.LessOrEqual(t, got, 100.0)
				prev = got
			}
		}
	}
}
