// Package average implements the federated column average: a per-site
// partial of the column sum and row count, and the reduction of the
// partials into the global average. Raw rows never leave a site; only
// the aggregate partial does.
package average

import (
	"errors"

	"github.com/rodneyosodo/fedmean/dataset"
)

// ErrZeroCount is returned when the summed row count is zero, which
// leaves the global average undefined.
var ErrZeroCount = errors.New("global row count is zero, average is undefined")

// Partial is the site-local intermediate result.
type Partial struct {
	Sum   float64 `json:"sum"`
	Count int64   `json:"count"`
}

// Result is the combined average across all sites.
type Result struct {
	Average float64 `json:"average"`
}

// Compute produces the partial for one column of a local dataset.
// With dropNA set, missing values are removed before aggregating.
// Without it, a missing value propagates as NaN through the sum while
// the count still includes it. An empty column yields {0, 0}; the
// zero-count hazard is the reducer's to report.
func Compute(ds *dataset.Dataset, column string, dropNA bool) (Partial, error) {
	values, err := ds.Column(column)
	if err != nil {
		return Partial{}, err
	}

	var sum float64
	var count int64
	for _, v := range values {
		if dropNA && dataset.Missing(v) {
			continue
		}
		sum += v
		count++
	}

	return Partial{Sum: sum, Count: count}, nil
}

// Reduce folds partials into the global average. The fold is
// commutative and associative, so arrival order does not matter.
func Reduce(partials []Partial) (Result, error) {
	var globalSum float64
	var globalCount int64
	for _, p := range partials {
		globalSum += p.Sum
		globalCount += p.Count
	}

	if globalCount == 0 {
		return Result{}, ErrZeroCount
	}

	return Result{Average: globalSum / float64(globalCount)}, nil
}
