// nedview is a small desktop viewer for SED tables: it renders the chart
// for a chosen source and fitting policy on the fly, so a window or policy
// change can be judged before committing a batch run.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	png "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/willat8/ned/src/pipeline"
	"github.com/willat8/ned/src/sed"
	"github.com/willat8/ned/src/sedplot"
	"github.com/willat8/ned/src/uvfit"
)

type viewerState struct {
	win    fyne.Window
	tables map[string]string // display name -> table path
	names  []string
	fitWin uvfit.Window
	policy uvfit.Policy

	current string
	last    sedplot.Input
	hasLast bool

	img    *canvas.Image
	status *widget.Label
}

func main() {
	var dir string
	var lower, upper float64
	flag.StringVar(&dir, "dir", "", "Directory to scan for *.dat tables")
	flag.Float64Var(&lower, "lower", uvfit.DefaultWindow().Lower, "Lower window cutoff in Hz")
	flag.Float64Var(&upper, "upper", uvfit.DefaultWindow().Upper, "Upper window cutoff in Hz")
	flag.Parse()

	tables, names, err := gatherTables(dir, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "usage: nedview [-dir DIR] [table.dat ...]")
		os.Exit(1)
	}

	a := app.NewWithID("com.ned.viewer")
	w := a.NewWindow("ned viewer")

	state := &viewerState{
		win:    w,
		tables: tables,
		names:  names,
		fitWin: uvfit.Window{Lower: lower, Upper: upper},
		policy: uvfit.WindowedFitWithRate,
	}
	state.img = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.img.FillMode = canvas.ImageFillContain
	state.img.SetMinSize(fyne.NewSize(900, 650))
	state.status = widget.NewLabel("")

	sourceSelect := widget.NewSelect(names, func(v string) {
		state.current = v
		renderCurrent(state)
	})
	policySelect := widget.NewSelect([]string{"nofit", "fit", "rate"}, func(v string) {
		p, err := uvfit.ParsePolicy(v)
		if err != nil {
			dialog.ShowError(err, state.win)
			return
		}
		state.policy = p
		renderCurrent(state)
	})
	policySelect.SetSelected(state.policy.String())
	exportBtn := widget.NewButton("Export SVG", func() { exportChartSVG(state) })

	top := container.NewHBox(
		widget.NewLabel("Source:"), sourceSelect,
		widget.NewLabel("Policy:"), policySelect,
		exportBtn,
	)
	w.SetContent(container.NewBorder(top, state.status, nil, nil, state.img))
	w.Resize(fyne.NewSize(1100, 820))
	sourceSelect.SetSelected(names[0])
	w.ShowAndRun()
}

// gatherTables merges positional table paths with a directory scan, keyed
// by display name.
func gatherTables(dir string, args []string) (map[string]string, []string, error) {
	tables := map[string]string{}
	add := func(path string) {
		base := filepath.Base(path)
		tables[strings.TrimSuffix(base, filepath.Ext(base))] = path
	}
	for _, p := range args {
		add(p)
	}
	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.dat"))
		if err != nil {
			return nil, nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return tables, names, nil
}

func renderCurrent(state *viewerState) {
	if state.current == "" {
		return
	}
	tbl, err := sed.ParseFile(state.tables[state.current])
	if err != nil {
		dialog.ShowError(err, state.win)
		return
	}
	cfg := pipeline.Config{Window: state.fitWin, Policy: state.policy}
	in, res := pipeline.Analyze(cfg, state.current, tbl)

	var buf bytes.Buffer
	if err := sedplot.RenderPNG(&buf, in); err != nil {
		dialog.ShowError(err, state.win)
		return
	}
	img, err := png.Decode(&buf)
	if err != nil {
		dialog.ShowError(err, state.win)
		return
	}
	state.last = in
	state.hasLast = true
	state.img.Image = img
	state.img.Refresh()
	state.status.SetText(statusLine(res))
}

func statusLine(res pipeline.Result) string {
	switch {
	case res.FitErr != nil:
		return fmt.Sprintf("%s: %d records, raw points only (%v)", res.Source, res.Records, res.FitErr)
	case !res.Fit.Valid:
		return fmt.Sprintf("%s: %d records", res.Source, res.Records)
	case res.Rate.Defined():
		return fmt.Sprintf("%s: slope %.2f over %d points, log10 Q = %.1f", res.Source, res.Fit.Slope, res.Fit.N, res.Rate.Log10)
	default:
		return fmt.Sprintf("%s: slope %.2f over %d points, rate undefined", res.Source, res.Fit.Slope, res.Fit.N)
	}
}

func exportChartSVG(state *viewerState) {
	if !state.hasLast {
		dialog.ShowInformation("Export", "No chart to export.", state.win)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := sedplot.RenderSVG(wc, state.last); err != nil {
			dialog.ShowError(err, state.win)
		}
	}, state.win)
	fs.SetFileName(state.current + ".svg")
	fs.Show()
}
