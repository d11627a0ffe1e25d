package uvfit

import (
	"errors"
	"math"
	"testing"

	"github.com/willat8/ned/src/sed"
)

func rec(freq float64, lums ...float64) sed.Record {
	r := sed.Record{Freq: freq}
	for i, l := range lums {
		if i >= sed.MaxBands {
			break
		}
		r.Bands[i] = sed.Band{Lum: l, Present: true}
	}
	return r
}

func TestFitPointsWindowedIsSubset(t *testing.T) {
	recs := []sed.Record{
		rec(1e13, 1e24),
		rec(1e15, 1e23), // on the lower bound, excluded when windowed
		rec(1e16, 1e22),
		rec(5e16, 1e21),
		rec(1e18, 1e20),
	}
	w := Window{Lower: 1e15, Upper: 1e17}
	all := FitPoints(recs, w, false)
	windowed := FitPoints(recs, w, true)
	if len(all) != 5 {
		t.Fatalf("unwindowed points = %d, want 5", len(all))
	}
	if len(windowed) != 2 {
		t.Fatalf("windowed points = %d, want 2", len(windowed))
	}
	for _, p := range windowed {
		found := false
		for _, q := range all {
			if p == q {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("windowed point %+v missing from unwindowed set", p)
		}
	}
}

func TestFitPointsSkipsUnusableRows(t *testing.T) {
	empty := sed.Record{Freq: 1e16} // no bands at all
	zero := rec(2e16, 0)            // present but sums to zero
	recs := []sed.Record{empty, zero, rec(3e16, 1e22), rec(4e16, 1e22)}
	pts := FitPoints(recs, Window{}, false)
	if len(pts) != 2 {
		t.Fatalf("points = %d, want 2", len(pts))
	}
}

func TestFitRecoversExactLine(t *testing.T) {
	// Points on log10 L = 47 - log10 nu exactly.
	recs := []sed.Record{
		rec(1e15, 1e32),
		rec(1e16, 1e31),
		rec(1e17, 1e30),
	}
	fit, err := FitPowerLaw(recs, Window{}, false)
	if err != nil {
		t.Fatalf("FitPowerLaw returned error: %v", err)
	}
	if !fit.Valid || fit.N != 3 {
		t.Fatalf("fit = %+v, want valid over 3 points", fit)
	}
	if math.Abs(fit.Slope+1) > 1e-9 {
		t.Errorf("slope = %v, want -1", fit.Slope)
	}
	if math.Abs(fit.Intercept-47) > 1e-9 {
		t.Errorf("intercept = %v, want 47", fit.Intercept)
	}
	if got := fit.Lum(1e16); math.Abs(got-1e31) > 1e31*1e-9 {
		t.Errorf("Lum(1e16) = %g, want 1e31", got)
	}
}

func TestFitDeterministic(t *testing.T) {
	// Scattered points, so the regression has real residuals.
	recs := []sed.Record{
		rec(1e15, 3e31),
		rec(4e15, 9e30),
		rec(2e16, 7e30),
		rec(8e16, 2e30),
	}
	first, err := FitPowerLaw(recs, Window{}, false)
	if err != nil {
		t.Fatalf("FitPowerLaw returned error: %v", err)
	}
	second, err := FitPowerLaw(recs, Window{}, false)
	if err != nil {
		t.Fatalf("FitPowerLaw returned error on second run: %v", err)
	}
	if first != second {
		t.Fatalf("repeated fits differ: %+v vs %+v", first, second)
	}
}

func TestFitInsufficientData(t *testing.T) {
	cases := []struct {
		name   string
		recs   []sed.Record
		usable int
	}{
		{"none", nil, 0},
		{"single", []sed.Record{rec(1e16, 1e22)}, 1},
		{"same frequency", []sed.Record{rec(1e16, 1e22), rec(1e16, 2e22)}, 2},
	}
	for _, c := range cases {
		_, err := FitPowerLaw(c.recs, Window{}, false)
		var ierr *InsufficientDataError
		if !errors.As(err, &ierr) {
			t.Errorf("%s: expected InsufficientDataError, got %v", c.name, err)
			continue
		}
		if ierr.Usable != c.usable {
			t.Errorf("%s: usable = %d, want %d", c.name, ierr.Usable, c.usable)
		}
	}
}

func TestIonisingRateClosedForm(t *testing.T) {
	fit := Fit{Slope: -1, Intercept: 20, Valid: true}
	nuLow := 1e15
	rate := IonisingRate(fit, nuLow)
	if !rate.Defined() {
		t.Fatal("rate undefined for a falling spectrum")
	}
	direct := -math.Pow(10, fit.Intercept) * math.Pow(nuLow, fit.Slope) / (fit.Slope * PlanckH)
	want := math.Log10(direct)
	if math.Abs(rate.Log10-want) > math.Abs(want)*1e-12 {
		t.Fatalf("log10 rate = %v, want %v", rate.Log10, want)
	}
}

func TestIonisingRateScalesWithBrightness(t *testing.T) {
	dim := IonisingRate(Fit{Slope: -1.5, Intercept: 20, Valid: true}, 1e15)
	bright := IonisingRate(Fit{Slope: -1.5, Intercept: 21, Valid: true}, 1e15)
	if d := bright.Log10 - dim.Log10; math.Abs(d-1) > 1e-12 {
		t.Fatalf("ten times the luminosity should add 1 to the log rate, got %v", d)
	}
}

func TestIonisingRateUndefined(t *testing.T) {
	cases := []struct {
		name  string
		fit   Fit
		nuLow float64
	}{
		{"flat", Fit{Slope: 0, Intercept: 20, Valid: true}, 1e15},
		{"rising", Fit{Slope: 0.5, Intercept: 20, Valid: true}, 1e15},
		{"invalid fit", Fit{Slope: -1, Intercept: 20}, 1e15},
		{"zero cutoff", Fit{Slope: -1, Intercept: 20, Valid: true}, 0},
	}
	for _, c := range cases {
		if rate := IonisingRate(c.fit, c.nuLow); rate.Defined() {
			t.Errorf("%s: rate = %v, want undefined", c.name, rate.Log10)
		}
	}
	if Undefined().Defined() {
		t.Error("Undefined() rate reports itself defined")
	}
}
