package layout

import "fmt"

// Surface is a rendered page whose text size can be changed and measured.
type Surface interface {
	SetSize(size float64)
	ContentHeight() float64
	ContainerHeight() float64
}

// FitOptions bounds the shrink loop.
type FitOptions struct {
	Base          float64 `yaml:"base"`
	Step          float64 `yaml:"step"`
	Floor         float64 `yaml:"floor"`
	MaxIterations int     `yaml:"max_iterations"`
}

// DefaultFitOptions returns the options used by Fit.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		Base:          18,
		Step:          0.5,
		Floor:         12,
		MaxIterations: 30,
	}
}

// Validate rejects options that would make the shrink loop meaningless.
func (o FitOptions) Validate() error {
	if o.Step <= 0 {
		return fmt.Errorf("fit step must be positive, got %g", o.Step)
	}
	if o.Floor <= 0 {
		return fmt.Errorf("fit floor must be positive, got %g", o.Floor)
	}
	if o.Floor > o.Base {
		return fmt.Errorf("fit floor %g is above base %g", o.Floor, o.Base)
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("fit max_iterations must not be negative, got %d", o.MaxIterations)
	}
	return nil
}

// FitResult describes the size a Surface was left at.
type FitResult struct {
	Size       float64
	Iterations int
	Overflow   bool // content still taller than its container
}

// Fit shrinks s using DefaultFitOptions.
func Fit(s Surface) FitResult {
	return FitWith(s, DefaultFitOptions())
}

// FitWith sets s to opts.Base and steps the size down until the content fits,
// the next step would pass opts.Floor, or opts.MaxIterations steps were taken.
func FitWith(s Surface, opts FitOptions) FitResult {
	size := opts.Base
	s.SetSize(size)

	tries := 0
	for tries < opts.MaxIterations && overflows(s) {
		next := size - opts.Step
		if next < opts.Floor {
			break
		}
		size = next
		s.SetSize(size)
		tries++
	}

	return FitResult{
		Size:       size,
		Iterations: tries,
		Overflow:   overflows(s),
	}
}

func overflows(s Surface) bool {
	return s.ContentHeight() > s.ContainerHeight()
}
