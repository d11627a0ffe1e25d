package uvfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/willat8/ned/src/sed"
)

// Point is one regression input in log space.
type Point struct {
	X float64 // log10 frequency
	Y float64 // log10 total luminosity
}

// Fit is a least-squares power law in log space:
//
//	log10 L = Intercept + Slope*log10 nu
type Fit struct {
	Slope     float64
	Intercept float64
	N         int  // points the regression used
	Valid     bool // false when no fit was attempted or it failed
}

// Lum evaluates the fitted power law at frequency f in Hz.
func (f Fit) Lum(freq float64) float64 {
	return math.Pow(10, f.Intercept+f.Slope*math.Log10(freq))
}

// InsufficientDataError reports that fewer than two usable points survived
// filtering, or that the survivors all share one frequency.
type InsufficientDataError struct {
	Usable int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("uvfit: %d usable points, need 2 with distinct frequencies", e.Usable)
}

// FitPoints projects records into log space, dropping rows with no band
// data or a non-positive total. With windowed set, rows outside w are
// dropped too.
func FitPoints(recs []sed.Record, w Window, windowed bool) []Point {
	var pts []Point
	for _, r := range recs {
		if windowed && !w.Contains(r.Freq) {
			continue
		}
		tot := r.TotalLum()
		if !r.HasBands() || tot <= 0 {
			continue
		}
		pts = append(pts, Point{X: math.Log10(r.Freq), Y: math.Log10(tot)})
	}
	return pts
}

// FitPowerLaw runs ordinary least squares over the projected points.
func FitPowerLaw(recs []sed.Record, w Window, windowed bool) (Fit, error) {
	pts := FitPoints(recs, w, windowed)
	if len(pts) < 2 {
		return Fit{}, &InsufficientDataError{Usable: len(pts)}
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	distinct := false
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
		if p.X != pts[0].X {
			distinct = true
		}
	}
	if !distinct {
		// A vertical stack of points has no defined slope.
		return Fit{}, &InsufficientDataError{Usable: len(pts)}
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return Fit{Slope: slope, Intercept: intercept, N: len(pts), Valid: true}, nil
}
