// Package sedplot renders spectral energy distributions, their fitted power
// laws and the ionising rate annotation to SVG or PNG.
package sedplot

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/willat8/ned/src/sed"
	"github.com/willat8/ned/src/uvfit"
)

// Every chart shares one fixed viewport so sources stay comparable
// side by side.
const (
	FreqMin = 1e7  // Hz
	FreqMax = 1e18 // Hz
	LumMin  = 1e15 // W/Hz
	LumMax  = 1e30 // W/Hz
)

const (
	chartWidth  = 1024
	chartHeight = 768
	curveSteps  = 64
)

// bandColors cycles across the survey band scatter series.
var bandColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
}

// CurveDomain bounds the frequencies the fitted curve is drawn over.
type CurveDomain struct {
	Lo float64 // Hz
	Hi float64 // Hz
}

// Input carries everything one chart needs. Fit, Curve and Rate are
// consulted only when the fit is valid.
type Input struct {
	Title  string
	Table  *sed.Table
	Window uvfit.Window
	Fit    uvfit.Fit
	Curve  CurveDomain
	Rate   uvfit.Rate
}

// RenderError wraps a chart backend failure.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("sedplot: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// RenderSVG writes the chart for in to w as SVG.
func RenderSVG(w io.Writer, in Input) error {
	ch := buildChart(in)
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.SVG, w); err != nil {
		return &RenderError{Op: "render svg", Err: err}
	}
	return nil
}

// RenderPNG writes the chart for in to w as PNG.
func RenderPNG(w io.Writer, in Input) error {
	ch := buildChart(in)
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return &RenderError{Op: "render png", Err: err}
	}
	return nil
}

func buildChart(in Input) chart.Chart {
	series := []chart.Series{}
	series = append(series, bandSeries(in.Table)...)
	series = append(series,
		markerSeries("lower cutoff", in.Window.Lower),
		markerSeries("upper cutoff", in.Window.Upper),
	)
	if in.Fit.Valid {
		if cs, ok := curveSeries(in.Fit, in.Curve); ok {
			series = append(series, cs)
		}
		if in.Rate.Defined() {
			series = append(series, rateAnnotation(in.Fit, in.Window, in.Rate))
		}
	}

	ch := chart.Chart{
		Title:      in.Title,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:           "rest-frame frequency (Hz)",
			Range:          &chart.LogarithmicRange{Min: FreqMin, Max: FreqMax},
			ValueFormatter: powerOfTenFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "luminosity (W/Hz)",
			Range:          &chart.LogarithmicRange{Min: LumMin, Max: LumMax},
			ValueFormatter: powerOfTenFormatter,
		},
		Series: series,
	}
	ch.Width = chartWidth
	ch.Height = chartHeight
	return ch
}

// bandSeries builds one scatter series per populated survey band. Points at
// or below zero luminosity cannot sit on a log axis and are left out.
func bandSeries(tbl *sed.Table) []chart.Series {
	if tbl == nil {
		return nil
	}
	var out []chart.Series
	for b := 0; b < sed.MaxBands; b++ {
		var xs, ys []float64
		for _, r := range tbl.Records {
			band := r.Bands[b]
			if !band.Present || band.Lum <= 0 {
				continue
			}
			xs = append(xs, r.Freq)
			ys = append(ys, band.Lum)
		}
		if len(xs) == 0 {
			continue
		}
		out = append(out, chart.ContinuousSeries{
			Name:    tbl.Label(b),
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(bandColors[b%len(bandColors)]),
		})
	}
	return out
}

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// markerSeries is a dashed vertical line spanning the whole viewport.
func markerSeries(name string, freq float64) chart.Series {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: []float64{freq, freq},
		YValues: []float64{LumMin, LumMax},
		Style: chart.Style{
			StrokeColor:     chart.ColorAlternateGray,
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}

// curveSeries samples the fitted power law across dom, log-spaced so the
// curve stays smooth on the logarithmic axis. Samples leaving the fixed
// viewport are dropped rather than painted outside the canvas.
func curveSeries(fit uvfit.Fit, dom CurveDomain) (chart.Series, bool) {
	if dom.Lo <= 0 || dom.Hi <= dom.Lo {
		return nil, false
	}
	exps := make([]float64, curveSteps)
	floats.Span(exps, math.Log10(dom.Lo), math.Log10(dom.Hi))
	xs := make([]float64, 0, curveSteps)
	ys := make([]float64, 0, curveSteps)
	for _, e := range exps {
		x := math.Pow(10, e)
		y := fit.Lum(x)
		if y < LumMin || y > LumMax {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return nil, false
	}
	return chart.ContinuousSeries{
		Name:    "power-law fit",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: chart.ColorBlack,
			StrokeWidth: 1.5,
		},
	}, true
}

// rateAnnotation labels the fitted curve at the lower cutoff with the
// integrated ionising photon rate.
func rateAnnotation(fit uvfit.Fit, w uvfit.Window, rate uvfit.Rate) chart.Series {
	y := fit.Lum(w.Lower)
	if y < LumMin {
		y = LumMin
	}
	if y > LumMax {
		y = LumMax
	}
	return chart.AnnotationSeries{
		Annotations: []chart.Value2{{
			XValue: w.Lower,
			YValue: y,
			Label:  fmt.Sprintf("log10 Q = %.1f", rate.Log10),
		}},
	}
}

func powerOfTenFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok || f <= 0 {
		return ""
	}
	return fmt.Sprintf("1e%d", int(math.Round(math.Log10(f))))
}
