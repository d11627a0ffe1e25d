// Package uvfit fits a power law to the ultraviolet part of a spectral
// energy distribution and integrates it into an ionising photon rate.
// All fitting happens in log-log space.
package uvfit

import (
	"fmt"
	"math"
)

// LymanLimitHz is the hydrogen ionisation edge, the default lower cutoff
// of the ultraviolet fitting window.
const LymanLimitHz = 3.288e15

// Window is an open frequency interval. Points sitting exactly on a bound
// are outside it.
type Window struct {
	Lower float64 // Hz
	Upper float64 // Hz
}

// DefaultWindow spans the Lyman limit up to the soft X-ray regime.
func DefaultWindow() Window {
	return Window{Lower: LymanLimitHz, Upper: 1e17}
}

// Contains reports whether f lies strictly inside the window.
func (w Window) Contains(f float64) bool {
	return f > w.Lower && f < w.Upper
}

// Validate rejects windows that cannot contain any frequency.
func (w Window) Validate() error {
	if math.IsNaN(w.Lower) || math.IsNaN(w.Upper) || w.Lower <= 0 || w.Upper <= w.Lower {
		return fmt.Errorf("uvfit: invalid window [%v, %v]", w.Lower, w.Upper)
	}
	return nil
}
