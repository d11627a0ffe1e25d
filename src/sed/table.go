// Package sed models the plot-ready spectral energy distribution tables
// produced by the catalog acquisition stage: one row per rest-frame
// frequency, one luminosity column per survey band.
package sed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxBands is the number of per-survey luminosity columns the acquisition
// stage emits (NED, WISE, 2MASS plus a catch-all).
const MaxBands = 4

// ErrEmptyInput reports a table containing no data rows.
var ErrEmptyInput = errors.New("sed: no data rows")

// MalformedRecordError reports a data row whose frequency field cannot be
// used: every downstream stage works in log space, so frequencies must be
// numeric and strictly positive.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("sed: line %d: %s", e.Line, e.Reason)
}

// Band is one survey's luminosity contribution at a single frequency.
// Cells that are missing, non-numeric or non-finite have Present false and
// contribute nothing to totals.
type Band struct {
	Lum     float64 // W/Hz
	Present bool
}

// Record is one table row: a rest-frame frequency with up to MaxBands
// per-survey luminosities.
type Record struct {
	Freq  float64 // Hz, strictly positive
	Bands [MaxBands]Band
}

// TotalLum sums the present band luminosities; absent bands count as zero.
func (r Record) TotalLum() float64 {
	var tot float64
	for _, b := range r.Bands {
		if b.Present {
			tot += b.Lum
		}
	}
	return tot
}

// HasBands reports whether at least one band is present.
func (r Record) HasBands() bool {
	for _, b := range r.Bands {
		if b.Present {
			return true
		}
	}
	return false
}

// Table is a parsed SED table, records in input order.
type Table struct {
	// Labels holds the band column labels from the header row, empty
	// strings when the table carried none.
	Labels  [MaxBands]string
	Records []Record
}

// Label returns the display label for band i, falling back to a positional
// name when the table had no header.
func (t *Table) Label(i int) string {
	if i < 0 || i >= MaxBands {
		return ""
	}
	if t.Labels[i] != "" {
		return t.Labels[i]
	}
	return fmt.Sprintf("band %d", i+1)
}

// Parse reads a whitespace-delimited SED table: column 1 is rest-frame
// frequency in Hz, columns 2 through 5 are per-survey luminosities in W/Hz.
// An optional header row (first field non-numeric) supplies band labels;
// further non-numeric rows before the first data row are skipped. Lines
// starting with '#' are comments anywhere in the file, though a leading
// '# freq NED WISE ...' style comment also supplies labels. Columns past
// the band columns are ignored; the acquisition stage appends bookkeeping
// fields there.
func Parse(r io.Reader) (*Table, error) {
	tbl := &Table{}
	sc := bufio.NewScanner(r)
	var (
		lineNo    int
		sawData   bool
		sawLabels bool
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			fields := strings.Fields(strings.TrimPrefix(line, "#"))
			if !sawData && !sawLabels && len(fields) >= 2 && !numeric(fields[0]) {
				setLabels(tbl, fields[1:])
				sawLabels = true
			}
			continue
		}
		fields := strings.Fields(line)
		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			if !sawData {
				// Header or preamble row: first one names the bands.
				if !sawLabels && len(fields) >= 2 {
					setLabels(tbl, fields[1:])
					sawLabels = true
				}
				continue
			}
			return nil, &MalformedRecordError{Line: lineNo, Reason: fmt.Sprintf("non-numeric frequency %q", fields[0])}
		}
		if math.IsNaN(freq) || math.IsInf(freq, 0) {
			return nil, &MalformedRecordError{Line: lineNo, Reason: fmt.Sprintf("non-finite frequency %q", fields[0])}
		}
		if freq <= 0 {
			return nil, &MalformedRecordError{Line: lineNo, Reason: fmt.Sprintf("non-positive frequency %v", freq)}
		}
		rec := Record{Freq: freq}
		for i := 0; i < MaxBands && i+1 < len(fields); i++ {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue // absent cell
			}
			if v < 0 {
				log.Debug().Int("line", lineNo).Int("band", i+1).Float64("value", v).
					Msg("negative luminosity treated as absent")
				continue
			}
			rec.Bands[i] = Band{Lum: v, Present: true}
		}
		tbl.Records = append(tbl.Records, rec)
		sawData = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sed: read table: %w", err)
	}
	if len(tbl.Records) == 0 {
		return nil, ErrEmptyInput
	}
	return tbl, nil
}

// ParseFile reads a table from disk.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func setLabels(tbl *Table, names []string) {
	for i := 0; i < MaxBands && i < len(names); i++ {
		tbl.Labels[i] = names[i]
	}
}

func numeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
