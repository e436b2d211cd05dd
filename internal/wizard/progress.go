package wizard

// ComputeProgress returns the progress percentage in [0, 100].
//
// The value is the larger of the completion watermark ((furthest+1)/n) and
// the position of the active step (active/(n-1)), so it never regresses when
// the user scrolls back past completed steps but still follows forward scrolling.
func ComputeProgress(activeIndex int, completed map[int]struct{}, stepCount int) float64 {
	if stepCount <= 0 {
		return 0
	}

	furthest := -1
	for i := range completed {
		if i > furthest {
			furthest = i
		}
	}
	base := float64(furthest+1) / float64(stepCount)

	var activeFraction float64
	if stepCount > 1 {
		activeFraction = float64(activeIndex) / float64(stepCount-1)
	}

	result := max(base, activeFraction) * 100
	return min(max(result, 0), 100)
}
