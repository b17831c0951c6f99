package node

import (
	"context"
	"fmt"
	"os"

	"github.com/rodneyosodo/fedmean/dataset"
)

// DataSource supplies the node with its site-local dataset at task
// time. The dataset is injected explicitly here rather than held as
// ambient state so a computation is a pure function of its inputs.
type DataSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

type csvSource struct {
	path string
}

// NewCSVSource reads the local dataset from a CSV file on every load,
// so edits to the file between tasks are picked up.
func NewCSVSource(path string) DataSource {
	return &csvSource{path: path}
}

func (s *csvSource) Load(_ context.Context) (*dataset.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local dataset: %w", err)
	}
	defer f.Close()

	return dataset.ReadCSV(f)
}

type staticSource struct {
	ds *dataset.Dataset
}

// NewStaticSource wraps an in-memory dataset, mostly for tests.
func NewStaticSource(ds *dataset.Dataset) DataSource {
	return &staticSource{ds: ds}
}

func (s *staticSource) Load(_ context.Context) (*dataset.Dataset, error) {
	return s.ds, nil
}
