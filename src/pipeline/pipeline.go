// Package pipeline runs SED sources through the load, filter, fit,
// integrate and render stages, one source at a time.
package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/willat8/ned/src/sed"
	"github.com/willat8/ned/src/sedplot"
	"github.com/willat8/ned/src/uvfit"
)

// Source names one SED table to process.
type Source struct {
	Name  string // display name, e.g. "PKS 1306-09"
	Table string // path to the whitespace-delimited table
	Title string // chart title, defaults to Name
	Out   string // output path, defaults to <Name>.svg under Config.OutDir
}

// DisplayName is the source name, or the table's base name when the
// source was given as a bare path.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	base := filepath.Base(s.Table)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Config applies to every source in a run.
type Config struct {
	Window uvfit.Window
	Policy uvfit.Policy
	OutDir string
}

// Result reports what one source produced.
type Result struct {
	Source  string
	Records int
	Fit     uvfit.Fit
	FitErr  error // set when the fit was skipped for lack of data
	Rate    uvfit.Rate
	OutPath string
}

// Analyze runs the fitting stages over a parsed table and assembles the
// chart input for it. A failed fit downgrades the chart to raw points and
// is reported in Result.FitErr.
func Analyze(cfg Config, name string, tbl *sed.Table) (sedplot.Input, Result) {
	res := Result{Source: name, Records: len(tbl.Records), Rate: uvfit.Undefined()}
	in := sedplot.Input{
		Title:  name,
		Table:  tbl,
		Window: cfg.Window,
		Rate:   uvfit.Undefined(),
	}
	if !cfg.Policy.NeedsFit() {
		return in, res
	}
	fit, err := uvfit.FitPowerLaw(tbl.Records, cfg.Window, cfg.Policy.Windowed())
	if err != nil {
		res.FitErr = err
		log.Warn().Str("source", name).Err(err).Msg("fit skipped, rendering raw points")
		return in, res
	}
	res.Fit = fit
	in.Fit = fit
	if cfg.Policy.Windowed() {
		// The fitted law only describes the window, so the curve stays
		// inside it.
		in.Curve = sedplot.CurveDomain{Lo: cfg.Window.Lower, Hi: cfg.Window.Upper}
		res.Rate = uvfit.IonisingRate(fit, cfg.Window.Lower)
		in.Rate = res.Rate
	} else {
		in.Curve = sedplot.CurveDomain{Lo: sedplot.FreqMin, Hi: sedplot.FreqMax}
	}
	return in, res
}

// Run processes a single source. Load and render failures are fatal for
// the source; a failed fit is not.
func Run(cfg Config, src Source) (Result, error) {
	name := src.DisplayName()
	if err := cfg.Window.Validate(); err != nil {
		return Result{Source: name, Rate: uvfit.Undefined()}, err
	}

	tbl, err := sed.ParseFile(src.Table)
	if err != nil {
		return Result{Source: name, Rate: uvfit.Undefined()}, fmt.Errorf("load %s: %w", src.Table, err)
	}

	in, res := Analyze(cfg, name, tbl)
	if src.Title != "" {
		in.Title = src.Title
	}

	out := src.Out
	if out == "" {
		out = filepath.Join(cfg.OutDir, name+".svg")
	}
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(out), ".png") {
		err = sedplot.RenderPNG(&buf, in)
	} else {
		err = sedplot.RenderSVG(&buf, in)
	}
	if err != nil {
		return res, err
	}
	if dir := filepath.Dir(out); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("create out dir: %w", err)
		}
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return res, fmt.Errorf("write chart: %w", err)
	}
	res.OutPath = out
	return res, nil
}
