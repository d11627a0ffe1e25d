package uvfit

import "math"

// PlanckH is Planck's constant in J s.
const PlanckH = 6.62606957e-34

// Rate is an ionising photon rate in photons per second, carried in log
// space to survive the magnitudes involved.
type Rate struct {
	Log10 float64
}

// Defined reports whether the rate integral converged.
func (r Rate) Defined() bool { return !math.IsNaN(r.Log10) }

// Undefined is the rate of a flat or rising spectrum.
func Undefined() Rate { return Rate{Log10: math.NaN()} }

// IonisingRate integrates the fitted power law L(nu)/(h nu) from nuLow to
// infinity. The integral only converges for a falling spectrum; a flat or
// rising fit yields an undefined rate.
//
// For slope a < 0 the closed form is -10^C * nuLow^a / (a h). Evaluating
// 10^C directly overflows for bright sources, so the result stays in log
// space.
func IonisingRate(f Fit, nuLow float64) Rate {
	if !f.Valid || f.Slope >= 0 || nuLow <= 0 {
		return Undefined()
	}
	lg := f.Intercept + f.Slope*math.Log10(nuLow) - math.Log10(-f.Slope) - math.Log10(PlanckH)
	return Rate{Log10: lg}
}
