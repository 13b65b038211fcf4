package session

import "math"

// Gesture is what a pointer motion means for navigation.
type Gesture int

const (
	None Gesture = iota
	Tap
	SwipeForward
	SwipeBack
)

func (g Gesture) String() string {
	switch g {
	case Tap:
		return "tap"
	case SwipeForward:
		return "swipe-forward"
	case SwipeBack:
		return "swipe-back"
	}
	return "none"
}

// Classify interprets a pointer moving by (dx, dy). A swipe must be mostly
// horizontal and longer than threshold. Pages turn right to left, so pulling
// toward the right goes forward.
func Classify(dx, dy, threshold float64) Gesture {
	adx, ady := math.Abs(dx), math.Abs(dy)
	if adx > ady && adx > threshold {
		if dx > 0 {
			return SwipeForward
		}
		return SwipeBack
	}
	if adx <= threshold && ady <= threshold {
		return Tap
	}
	return None
}

// TapForward reports whether a tap at x on a surface of the given width turns
// forward. The left half, where the continuation page sits, goes forward.
func TapForward(x, width float64) bool {
	return x < width/2
}

// Apply performs g on s. tapX and width locate a tap. It reports whether the
// position changed.
func (s *Session) Apply(g Gesture, tapX, width float64) bool {
	switch g {
	case SwipeForward:
		return s.Forward()
	case SwipeBack:
		return s.Back()
	case Tap:
		if TapForward(tapX, width) {
			return s.Forward()
		}
		return s.Back()
	}
	return false
}
