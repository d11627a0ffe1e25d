package uvfit

import "fmt"

// Policy selects how much of the fitting stage runs for a source.
type Policy int

const (
	// NoFit renders the raw distribution only.
	NoFit Policy = iota
	// UnwindowedFit overlays a power law fitted to every plottable point.
	UnwindowedFit
	// WindowedFitWithRate fits only inside the window and annotates the
	// ionising photon rate.
	WindowedFitWithRate
)

// ParsePolicy maps the configuration spellings onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "nofit":
		return NoFit, nil
	case "fit":
		return UnwindowedFit, nil
	case "rate":
		return WindowedFitWithRate, nil
	}
	return NoFit, fmt.Errorf("uvfit: unknown policy %q (want nofit, fit or rate)", s)
}

func (p Policy) String() string {
	switch p {
	case NoFit:
		return "nofit"
	case UnwindowedFit:
		return "fit"
	case WindowedFitWithRate:
		return "rate"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// NeedsFit reports whether the policy runs the regression at all.
func (p Policy) NeedsFit() bool { return p != NoFit }

// Windowed reports whether the regression is restricted to the window.
func (p Policy) Windowed() bool { return p == WindowedFitWithRate }
