package mouse

import "time"

// ClickType classifies a click by its position in a sequence.
type ClickType uint8

const (
	// ClickSingle is a lone click.
	ClickSingle ClickType = 1
	// ClickDouble is the second click of a quick pair.
	ClickDouble ClickType = 2
	// ClickTriple is the third click of a quick run.
	ClickTriple ClickType = 3
)

func (c ClickType) String() string {
	switch c {
	case ClickSingle:
		return "single"
	case ClickDouble:
		return "double"
	case ClickTriple:
		return "triple"
	}
	return "unknown"
}

// clickTracker counts consecutive clicks. A click continues the run
// when it lands close enough to the previous one, soon enough after
// it; anything else starts a fresh run. Counts cycle 1, 2, 3, 1 so a
// fourth rapid click reads as a new single.
type clickTracker struct {
	maxTime     time.Duration
	maxDistance int

	lastPos   Position
	lastTime  time.Time
	lastCount int
}

func newClickTracker(maxTime time.Duration, maxDistance int) *clickTracker {
	return &clickTracker{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// recordClick folds one click into the run and returns the resulting
// count. A zero timestamp falls back to time.Now() so sequences still
// resolve.
func (t *clickTracker) recordClick(pos Position, timestamp time.Time) int {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	if t.extendsRun(pos, timestamp) {
		t.lastCount++
		if t.lastCount > 3 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastPos = pos
	t.lastTime = timestamp
	return t.lastCount
}

func (t *clickTracker) extendsRun(pos Position, timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}
	// A negative elapsed means the clock moved; start over rather
	// than count a click that "preceded" the run.
	elapsed := timestamp.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	return pos.Distance(t.lastPos) <= t.maxDistance
}

func (t *clickTracker) reset() {
	t.lastPos = Position{}
	t.lastTime = time.Time{}
	t.lastCount = 0
}

func (t *clickTracker) lastClickCount() int {
	return t.lastCount
}
