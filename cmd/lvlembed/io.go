// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/katalvlaran/lvlembed/params"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

var (
	errEmptyInput = errors.New("lvlembed: input has no rows")
	errRagged     = errors.New("lvlembed: rows have different lengths")
)

// openInput returns stdin for "" or "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// readPoints parses a headerless CSV of floats. Lines starting with '#'
// are comments.
func readPoints(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errEmptyInput
	}
	dim := len(records[0])
	pts := make([][]float64, len(records))
	for i, rec := range records {
		if len(rec) != dim {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", errRagged, i+1, len(rec), dim)
		}
		pts[i] = make([]float64, dim)
		for j, field := range rec {
			if pts[i][j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("row %d, field %d: %w", i+1, j+1, err)
			}
		}
	}
	return pts, nil
}

// writeMatrix writes m as CSV, one row per line.
func writeMatrix(w io.Writer, m mat.Matrix) error {
	cw := csv.NewWriter(w)
	r, c := m.Dims()
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writePoints writes rows as CSV.
func writePoints(w io.Writer, pts [][]float64) error {
	if len(pts) == 0 {
		return nil
	}
	m := mat.NewDense(len(pts), len(pts[0]), nil)
	for i, p := range pts {
		m.SetRow(i, p)
	}
	return writeMatrix(w, m)
}

// readParams decodes a YAML mapping of parameter names to values, e.g.
//
//	target_dimension: 2
//	number_of_neighbors: 12
//	eigen_method: lanczos
func readParams(r io.Reader) (params.Map, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("params: %w", err)
	}
	pm := make(params.Map, len(raw))
	for name, v := range raw {
		k, err := params.ParseKey(name)
		if err != nil {
			return nil, err
		}
		pm[k] = v
	}
	return pm, nil
}
