package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// defaultMissingSentinel is the sentinel commonly used in climate data
// archives for a missing observation.
const defaultMissingSentinel = -99.99

// LoadOptions holds options for delimited-text loading.
type LoadOptions struct {
	Delimiter       rune    // field delimiter (default ',')
	Whitespace      bool    // split on runs of whitespace instead of Delimiter
	SkipRows        int     // rows to skip before reading data (headers, banners)
	Comment         rune    // lines starting with this rune are skipped (0 disables)
	MissingSentinel float64 // values equal to this become NaN (default -99.99)
	NoSentinel      bool    // disable sentinel substitution entirely
}

// DefaultLoadOptions returns the defaults used by the climate tutorials:
// comma-delimited, no header, -99.99 marks missing.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Delimiter:       ',',
		MissingSentinel: defaultMissingSentinel,
	}
}

// ReadTable reads all numeric rows from r as columns of float64.
// Non-rectangular input is rejected. Sentinel values become NaN.
func ReadTable(r io.Reader, opts LoadOptions) ([][]float64, error) {
	rows, err := readRows(r, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("series: no data rows: %w", ErrInsufficientData)
	}

	width := len(rows[0])
	cols := make([][]float64, width)
	for i := range cols {
		cols[i] = make([]float64, 0, len(rows))
	}

	for i, rec := range rows {
		if len(rec) != width {
			return nil, fmt.Errorf("series: row %d has %d fields, expected %d: %w",
				i+opts.SkipRows+1, len(rec), width, ErrDimensionMismatch)
		}
		for j, field := range rec {
			v, err := parseField(field, opts)
			if err != nil {
				return nil, fmt.Errorf("series: row %d column %d: %w", i+opts.SkipRows+1, j+1, err)
			}
			cols[j] = append(cols[j], v)
		}
	}
	return cols, nil
}

// Load reads a two-column (time, value) Series from r.
// timeCol and valueCol are zero-based column indices.
func Load(r io.Reader, timeCol, valueCol int, opts LoadOptions) (Series, error) {
	cols, err := ReadTable(r, opts)
	if err != nil {
		return Series{}, err
	}
	if timeCol < 0 || timeCol >= len(cols) || valueCol < 0 || valueCol >= len(cols) {
		return Series{}, fmt.Errorf("series: column index out of range (time %d, value %d, have %d columns): %w",
			timeCol, valueCol, len(cols), ErrOutOfRange)
	}
	return New(cols[timeCol], cols[valueCol])
}

// LoadFile reads a Series from a delimited text file.
func LoadFile(path string, timeCol, valueCol int, opts LoadOptions) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("series: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, timeCol, valueCol, opts)
}

func readRows(r io.Reader, opts LoadOptions) ([][]string, error) {
	if opts.Whitespace {
		return readWhitespaceRows(r, opts)
	}

	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	} else {
		cr.Comma = ','
	}
	if opts.Comment != 0 {
		cr.Comment = opts.Comment
	}
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("series: skipping header row %d: %w", i+1, err)
		}
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("series: reading input: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readWhitespaceRows(r io.Reader, opts LoadOptions) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("series: reading input: %w", err)
	}

	var rows [][]string
	skipped := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if opts.Comment != 0 && strings.HasPrefix(line, string(opts.Comment)) {
			continue
		}
		if skipped < opts.SkipRows {
			skipped++
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	return rows, nil
}

func parseField(field string, opts LoadOptions) (float64, error) {
	field = strings.TrimSpace(field)
	switch field {
	case "", "NA", "NaN", "nan", "null":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", field, err)
	}
	if !opts.NoSentinel {
		sentinel := opts.MissingSentinel
		if sentinel == 0 {
			sentinel = defaultMissingSentinel
		}
		if v == sentinel {
			return math.NaN(), nil
		}
	}
	return v, nil
}
