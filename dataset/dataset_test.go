package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/fedmean/dataset"
)

func TestColumn(t *testing.T) {
	ds := dataset.New().
		WithColumn("age", []float64{34, 51, dataset.NA()}).
		WithColumn("income", []float64{1200, 900, 1500})

	cases := []struct {
		desc   string
		column string
		rows   int
		err    error
	}{
		{
			desc:   "existing column",
			column: "age",
			rows:   3,
		},
		{
			desc:   "other existing column",
			column: "income",
			rows:   3,
		},
		{
			desc:   "missing column",
			column: "height",
			err:    dataset.ErrColumnNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			values, err := ds.Column(tc.column)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Len(t, values, tc.rows)
		})
	}
}

func TestWithColumnReplaces(t *testing.T) {
	ds := dataset.New().
		WithColumn("age", []float64{1, 2}).
		WithColumn("age", []float64{3, 4, 5})

	values, err := ds.Column("age")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 5}, values)
	assert.Equal(t, []string{"age"}, ds.Columns())
}

func TestColumnsOrder(t *testing.T) {
	ds := dataset.New().
		WithColumn("b", nil).
		WithColumn("a", nil).
		WithColumn("c", nil)

	assert.Equal(t, []string{"b", "a", "c"}, ds.Columns())
}

func TestRows(t *testing.T) {
	ds := dataset.New().
		WithColumn("a", []float64{1, 2, 3}).
		WithColumn("b", []float64{1})

	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 0, dataset.New().Rows())
}

func TestMissing(t *testing.T) {
	assert.True(t, dataset.Missing(dataset.NA()))
	assert.False(t, dataset.Missing(0))
	assert.False(t, dataset.Missing(-1.5))
}

func TestReadCSV(t *testing.T) {
	cases := []struct {
		desc    string
		input   string
		columns []string
		wantErr bool
	}{
		{
			desc:    "well formed",
			input:   "age,income\n34,1200\n51,900\n",
			columns: []string{"age", "income"},
		},
		{
			desc:    "header only",
			input:   "age,income\n",
			columns: []string{"age", "income"},
		},
		{
			desc:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			ds, err := dataset.ReadCSV(strings.NewReader(tc.input))
			if tc.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.columns, ds.Columns())
		})
	}
}

func TestReadCSVMissingCells(t *testing.T) {
	input := "age\n34\n\"\"\nnot-a-number\n51\n"

	ds, err := dataset.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	values, err := ds.Column("age")
	require.NoError(t, err)
	require.Len(t, values, 4)

	assert.Equal(t, 34.0, values[0])
	assert.True(t, dataset.Missing(values[1]))
	assert.True(t, dataset.Missing(values[2]))
	assert.Equal(t, 51.0, values[3])
}
