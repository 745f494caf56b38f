package mouse

import "time"

// ButtonSet is a bitmask of buttons reported held at the same time.
type ButtonSet uint16

// NewButtonSet builds a set from the given buttons.
func NewButtonSet(buttons ...Button) ButtonSet {
	var s ButtonSet
	for _, b := range buttons {
		s = s.With(b)
	}
	return s
}

// Has reports whether the set contains the button.
func (s ButtonSet) Has(b Button) bool {
	if b == ButtonNone {
		return false
	}
	return s&(1<<b) != 0
}

// With returns the set with the button added.
func (s ButtonSet) With(b Button) ButtonSet {
	if b == ButtonNone {
		return s
	}
	return s | (1 << b)
}

// Without returns the set with the button removed.
func (s ButtonSet) Without(b Button) ButtonSet {
	if b == ButtonNone {
		return s
	}
	return s &^ (1 << b)
}

// IsEmpty reports whether no button is in the set.
func (s ButtonSet) IsEmpty() bool {
	return s == 0
}

// Buttons returns the members of the set in ascending button order.
func (s ButtonSet) Buttons() []Button {
	var buttons []Button
	for b := ButtonLeft; b <= ButtonForward; b++ {
		if s.Has(b) {
			buttons = append(buttons, b)
		}
	}
	return buttons
}

// Primary returns the lowest-numbered held button, or ButtonNone.
func (s ButtonSet) Primary() Button {
	for b := ButtonLeft; b <= ButtonForward; b++ {
		if s.Has(b) {
			return b
		}
	}
	return ButtonNone
}

const scrollMask = ButtonSet(1<<ButtonScrollUp | 1<<ButtonScrollDown |
	1<<ButtonScrollLeft | 1<<ButtonScrollRight)

func (s ButtonSet) withoutScroll() ButtonSet {
	return s &^ scrollMask
}

func (s ButtonSet) scrollOnly() ButtonSet {
	return s & scrollMask
}

// Sample is one raw pointer report: the absolute position, the full
// set of buttons down at that instant, and any wheel impulses mixed
// into the same mask.
type Sample struct {
	Position  Position
	Buttons   ButtonSet
	Modifiers Modifier
	Timestamp time.Time
}

// Synthesizer converts raw pointer state reports into edge events.
// Terminal mouse protocols deliver absolute state on every report;
// consumers want edges. Feed diffs each sample against the previous
// one and emits the presses, releases, moves, and drags in between.
// Not safe for concurrent use; the input loop owns it.
type Synthesizer struct {
	held ButtonSet
	last Position
	seen bool
}

// NewSynthesizer creates a synthesizer with no held buttons.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Feed ingests one sample and returns the edge events it implies.
// Motion comes first, judged against the buttons held before this
// sample, then presses, wheel impulses, and releases, all at the
// sample's position. Wheel impulses never enter the held state.
func (s *Synthesizer) Feed(sample Sample) []Event {
	pos := sample.Position
	held := sample.Buttons.withoutScroll()

	var events []Event
	emit := func(b Button, action Action) {
		events = append(events, Event{
			Position:  pos,
			Button:    b,
			Modifiers: sample.Modifiers,
			Action:    action,
			Timestamp: sample.Timestamp,
		})
	}

	if s.seen && !pos.Equal(s.last) {
		if s.held.IsEmpty() {
			emit(ButtonNone, ActionMove)
		} else {
			emit(s.held.Primary(), ActionDrag)
		}
	}

	for _, b := range (held &^ s.held).Buttons() {
		emit(b, ActionPress)
	}
	for _, b := range sample.Buttons.scrollOnly().Buttons() {
		emit(b, ActionPress)
	}
	for _, b := range (s.held &^ held).Buttons() {
		emit(b, ActionRelease)
	}

	s.held = held
	s.last = pos
	s.seen = true
	return events
}

// Held returns the buttons currently considered down.
func (s *Synthesizer) Held() ButtonSet {
	return s.held
}

// Reset forgets all held state. Use after focus loss or a terminal
// suspend, when releases may have happened unobserved.
func (s *Synthesizer) Reset() {
	s.held = 0
	s.seen = false
}
