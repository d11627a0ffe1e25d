// nedtab is a debug reader for SED tables: it prints what the parser and
// the fitting stage would see without rendering anything.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/willat8/ned/src/sed"
	"github.com/willat8/ned/src/uvfit"
)

func main() {
	var file string
	var lower, upper float64
	flag.StringVar(&file, "file", "", "Path to a whitespace SED table")
	flag.Float64Var(&lower, "lower", uvfit.DefaultWindow().Lower, "Lower window cutoff in Hz")
	flag.Float64Var(&upper, "upper", uvfit.DefaultWindow().Upper, "Upper window cutoff in Hz")
	flag.Parse()
	if file == "" && flag.NArg() > 0 {
		file = flag.Arg(0)
	}
	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: nedtab [-lower Hz] [-upper Hz] <table.dat>")
		os.Exit(1)
	}

	tbl, err := sed.ParseFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	minFreq, maxFreq := tbl.Records[0].Freq, tbl.Records[0].Freq
	counts := [sed.MaxBands]int{}
	for _, r := range tbl.Records {
		if r.Freq < minFreq {
			minFreq = r.Freq
		}
		if r.Freq > maxFreq {
			maxFreq = r.Freq
		}
		for b, band := range r.Bands {
			if band.Present {
				counts[b]++
			}
		}
	}
	fmt.Printf("Records: %d\n", len(tbl.Records))
	fmt.Printf("Frequency range: %g .. %g Hz\n", minFreq, maxFreq)
	for b, n := range counts {
		fmt.Printf("%s: %d points\n", tbl.Label(b), n)
	}

	w := uvfit.Window{Lower: lower, Upper: upper}
	if err := w.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	all := uvfit.FitPoints(tbl.Records, w, false)
	windowed := uvfit.FitPoints(tbl.Records, w, true)
	fmt.Printf("Usable fit points: %d (%d inside window)\n", len(all), len(windowed))

	fit, err := uvfit.FitPowerLaw(tbl.Records, w, true)
	if err != nil {
		fmt.Printf("Windowed fit: %v\n", err)
		return
	}
	fmt.Printf("Windowed fit: slope %.3f intercept %.3f over %d points\n", fit.Slope, fit.Intercept, fit.N)
	if rate := uvfit.IonisingRate(fit, w.Lower); rate.Defined() {
		fmt.Printf("log10 ionising rate: %.1f\n", rate.Log10)
	} else {
		fmt.Println("log10 ionising rate: undefined (non-falling spectrum)")
	}
}
