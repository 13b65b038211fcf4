package session

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Gesture
	}{
		{"still", 0, 0, Tap},
		{"small jitter", 5, -3, Tap},
		{"at threshold", 40, 0, Tap},
		{"pull right", 41, 0, SwipeForward},
		{"pull left", -80, 10, SwipeBack},
		{"diagonal mostly horizontal", 60, 59, SwipeForward},
		{"vertical scroll", 10, 120, None},
		{"equal axes", 60, 60, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.dx, tt.dy, 40); got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestTapForward(t *testing.T) {
	if !TapForward(10, 100) {
		t.Error("tap on the left half should go forward")
	}
	if TapForward(50, 100) {
		t.Error("tap on the midline should go back")
	}
	if TapForward(90, 100) {
		t.Error("tap on the right half should go back")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		g       Gesture
		x       float64
		want    int
		changed bool
	}{
		{"swipe forward", 0, SwipeForward, 0, 1, true},
		{"swipe back", 1, SwipeBack, 0, 0, true},
		{"swipe back at start", 0, SwipeBack, 0, 0, false},
		{"tap left", 0, Tap, 20, 1, true},
		{"tap right", 2, Tap, 80, 1, true},
		{"tap left at end", 2, Tap, 20, 2, false},
		{"none", 1, None, 20, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(threeWorks())
			s.Index = tt.start
			changed := s.Apply(tt.g, tt.x, 100)
			if changed != tt.changed || s.Index != tt.want {
				t.Errorf("Apply(%v) = %v, Index %d; want %v, Index %d", tt.g, changed, s.Index, tt.changed, tt.want)
			}
		})
	}
}

func TestGestureString(t *testing.T) {
	for g, want := range map[Gesture]string{
		None:         "none",
		Tap:          "tap",
		SwipeForward: "swipe-forward",
		SwipeBack:    "swipe-back",
	} {
		if g.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(g), g.String(), want)
		}
	}
}
