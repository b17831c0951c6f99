package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errEmptyCSV = errors.New("csv input has no header row")

// ReadCSV builds a dataset from CSV data with a header row. Cells that
// are empty or do not parse as numbers load as missing values.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyCSV
		}

		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([][]float64, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		for i := range header {
			columns[i] = append(columns[i], parseCell(record, i))
		}
	}

	ds := New()
	for i, name := range header {
		ds.WithColumn(strings.TrimSpace(name), columns[i])
	}

	return ds, nil
}

func parseCell(record []string, i int) float64 {
	if i >= len(record) {
		return NA()
	}

	cell := strings.TrimSpace(record[i])
	if cell == "" {
		return NA()
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return NA()
	}

	return v
}
