// Package dataset reads delimited numeric text into the flat row-major
// buffers the clustering code works on.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoRows is returned for input that holds no records.
var ErrNoRows = errors.New("dataset: no rows")

// Parse reads the delimited file at path. See Read.
func Parse(path string, delim rune) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	values, width, err := Read(f, delim)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "dataset: parse %s", path)
	}
	return values, width, nil
}

// Read parses headerless delimited records of numbers. It returns every
// value in row-major order and the row width, which the first record fixes.
// A non-numeric field or a record of a different width is an error; no row
// is ever skipped.
func Read(r io.Reader, delim rune) ([]float64, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.ReuseRecord = true

	var values []float64
	width := 0
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrapf(err, "row %d", row)
		}
		if width == 0 {
			width = len(record)
		}
		for col, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "row %d field %d", row, col+1)
			}
			values = append(values, v)
		}
	}

	if width == 0 {
		return nil, 0, ErrNoRows
	}
	return values, width, nil
}
