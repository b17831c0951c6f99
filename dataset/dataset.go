// Package dataset holds the site-local tabular data a node computes over.
// Values are float64; a missing value is represented as NaN.
package dataset

import (
	"errors"
	"fmt"
	"math"
)

var ErrColumnNotFound = errors.New("column not found")

// Dataset is a column-addressable frame. It is never mutated by
// computations: nodes read columns, they do not write them.
type Dataset struct {
	names   []string
	columns map[string][]float64
}

func New() *Dataset {
	return &Dataset{
		columns: make(map[string][]float64),
	}
}

// WithColumn adds a named column and returns the dataset for chaining.
// Adding a column twice replaces the previous values.
func (d *Dataset) WithColumn(name string, values []float64) *Dataset {
	if _, ok := d.columns[name]; !ok {
		d.names = append(d.names, name)
	}
	d.columns[name] = values

	return d
}

// Column returns the values of the named column.
func (d *Dataset) Column(name string) ([]float64, error) {
	values, ok := d.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	return values, nil
}

// Columns returns the column names in insertion order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.names))
	copy(names, d.names)

	return names
}

// Rows returns the length of the longest column.
func (d *Dataset) Rows() int {
	rows := 0
	for _, values := range d.columns {
		if len(values) > rows {
			rows = len(values)
		}
	}

	return rows
}

// Missing reports whether a value is the missing-value marker.
func Missing(v float64) bool {
	return math.IsNaN(v)
}

// NA returns the missing-value marker.
func NA() float64 {
	return math.NaN()
}
