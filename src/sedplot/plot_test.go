package sedplot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/willat8/ned/src/sed"
	"github.com/willat8/ned/src/uvfit"
)

func testTable() *sed.Table {
	tbl := &sed.Table{Labels: [sed.MaxBands]string{"NED", "WISE", "2MASS", "other"}}
	freqs := []float64{1e10, 1e12, 1e14, 1e16}
	lums := []float64{1e22, 1e21, 1e20, 1e19}
	for i, f := range freqs {
		var r sed.Record
		r.Freq = f
		r.Bands[i%sed.MaxBands] = sed.Band{Lum: lums[i], Present: true}
		tbl.Records = append(tbl.Records, r)
	}
	return tbl
}

func renderToString(t *testing.T, in Input) string {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderSVG(&buf, in); err != nil {
		t.Fatalf("RenderSVG returned error: %v", err)
	}
	return buf.String()
}

func TestRenderSVGRawOnly(t *testing.T) {
	svg := renderToString(t, Input{
		Title:  "PKS 1306-09",
		Table:  testTable(),
		Window: uvfit.DefaultWindow(),
		Rate:   uvfit.Undefined(),
	})
	if !strings.Contains(svg, "<svg") {
		t.Fatal("output does not look like SVG")
	}
	for _, want := range []string{"PKS 1306-09", "NED", "lower cutoff", "upper cutoff"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	for _, reject := range []string{"power-law fit", "log10 Q"} {
		if strings.Contains(svg, reject) {
			t.Errorf("raw-only SVG unexpectedly contains %q", reject)
		}
	}
}

func TestRenderSVGWithFitAndRate(t *testing.T) {
	fit := uvfit.Fit{Slope: -1, Intercept: 36, N: 2, Valid: true}
	w := uvfit.Window{Lower: 1e15, Upper: 1e17}
	svg := renderToString(t, Input{
		Title:  "FBQS J0006-0004",
		Table:  testTable(),
		Window: w,
		Fit:    fit,
		Curve:  CurveDomain{Lo: w.Lower, Hi: w.Upper},
		Rate:   uvfit.IonisingRate(fit, w.Lower),
	})
	for _, want := range []string{"power-law fit", "log10 Q = "} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderSVGOmitsUndefinedRate(t *testing.T) {
	fit := uvfit.Fit{Slope: 0.5, Intercept: 12, N: 4, Valid: true}
	svg := renderToString(t, Input{
		Table:  testTable(),
		Window: uvfit.DefaultWindow(),
		Fit:    fit,
		Curve:  CurveDomain{Lo: FreqMin, Hi: FreqMax},
		Rate:   uvfit.IonisingRate(fit, uvfit.DefaultWindow().Lower),
	})
	if !strings.Contains(svg, "power-law fit") {
		t.Error("SVG missing fitted curve")
	}
	if strings.Contains(svg, "log10 Q") {
		t.Error("SVG annotates an undefined rate")
	}
}

func TestRenderSVGNilTable(t *testing.T) {
	// Markers alone keep the chart renderable when no points survived.
	svg := renderToString(t, Input{
		Window: uvfit.DefaultWindow(),
		Rate:   uvfit.Undefined(),
	})
	if !strings.Contains(svg, "lower cutoff") {
		t.Error("SVG missing window markers")
	}
}

func TestCurveClippedToViewport(t *testing.T) {
	// This fit leaves the luminosity envelope across nearly all of the
	// window, so no drawable curve remains.
	fit := uvfit.Fit{Slope: -1, Intercept: 47, N: 2, Valid: true}
	svg := renderToString(t, Input{
		Table:  testTable(),
		Window: uvfit.Window{Lower: 1e15, Upper: 1e17},
		Fit:    fit,
		Curve:  CurveDomain{Lo: 1e15, Hi: 1e17},
		Rate:   uvfit.Undefined(),
	})
	if strings.Contains(svg, "power-law fit") {
		t.Error("SVG draws a curve that lies outside the viewport")
	}
	if _, ok := curveSeries(fit, CurveDomain{Lo: 1e15, Hi: 1e15}); ok {
		t.Error("curveSeries accepted an empty domain")
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPNG(&buf, Input{
		Table:  testTable(),
		Window: uvfit.DefaultWindow(),
		Rate:   uvfit.Undefined(),
	})
	if err != nil {
		t.Fatalf("RenderPNG returned error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("output missing PNG signature, got % x", buf.Bytes()[:8])
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderErrorWrapsWriterFailure(t *testing.T) {
	err := RenderSVG(failWriter{}, Input{
		Window: uvfit.DefaultWindow(),
		Rate:   uvfit.Undefined(),
	})
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if rerr.Unwrap() == nil {
		t.Fatal("RenderError does not wrap the backend error")
	}
}
