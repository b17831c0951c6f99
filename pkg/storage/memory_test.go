package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodneyosodo/fedmean/pkg/errors"
	"github.com/rodneyosodo/fedmean/pkg/storage"
)

func TestCreate(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	cases := []struct {
		desc  string
		key   string
		value interface{}
		err   error
	}{
		{
			desc:  "create new entity",
			key:   "org-1",
			value: "value",
			err:   nil,
		},
		{
			desc:  "create duplicate entity",
			key:   "org-1",
			value: "other",
			err:   errors.ErrEntityExists,
		},
		{
			desc:  "create with empty key",
			key:   "",
			value: "value",
			err:   errors.ErrEmptyKey,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := s.Create(ctx, tc.key, tc.value)
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
		})
	}
}

func TestGet(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "org-1", 42))

	cases := []struct {
		desc  string
		key   string
		value interface{}
		err   error
	}{
		{
			desc:  "get existing entity",
			key:   "org-1",
			value: 42,
			err:   nil,
		},
		{
			desc: "get missing entity",
			key:  "org-2",
			err:  errors.ErrNotFound,
		},
		{
			desc: "get with empty key",
			key:  "",
			err:  errors.ErrEmptyKey,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			value, err := s.Get(ctx, tc.key)
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
			if err == nil {
				assert.Equal(t, tc.value, value)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "org-1", "before"))

	cases := []struct {
		desc string
		key  string
		err  error
	}{
		{
			desc: "update existing entity",
			key:  "org-1",
			err:  nil,
		},
		{
			desc: "update missing entity",
			key:  "org-2",
			err:  errors.ErrNotFound,
		},
		{
			desc: "update with empty key",
			key:  "",
			err:  errors.ErrEmptyKey,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := s.Update(ctx, tc.key, "after")
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
			if err == nil {
				value, err := s.Get(ctx, tc.key)
				require.NoError(t, err)
				assert.Equal(t, "after", value)
			}
		})
	}
}

func TestList(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	for i := range 10 {
		require.NoError(t, s.Create(ctx, fmt.Sprintf("org-%d", i), i))
	}

	cases := []struct {
		desc   string
		offset uint64
		limit  uint64
		items  int
		total  uint64
	}{
		{
			desc:   "list all",
			offset: 0,
			limit:  100,
			items:  10,
			total:  10,
		},
		{
			desc:   "list first page",
			offset: 0,
			limit:  3,
			items:  3,
			total:  10,
		},
		{
			desc:   "list with offset",
			offset: 8,
			limit:  5,
			items:  2,
			total:  10,
		},
		{
			desc:   "list beyond the end",
			offset: 20,
			limit:  5,
			items:  0,
			total:  0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			items, total, err := s.List(ctx, tc.offset, tc.limit)
			require.NoError(t, err)
			assert.Len(t, items, tc.items)
			assert.Equal(t, tc.total, total)
		})
	}
}

func TestDelete(t *testing.T) {
	s := storage.NewInMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "org-1", "value"))

	cases := []struct {
		desc string
		key  string
		err  error
	}{
		{
			desc: "delete existing entity",
			key:  "org-1",
			err:  nil,
		},
		{
			desc: "delete missing entity is a no-op",
			key:  "org-2",
			err:  nil,
		},
		{
			desc: "delete with empty key",
			key:  "",
			err:  errors.ErrEmptyKey,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := s.Delete(ctx, tc.key)
			assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v, got %v", tc.desc, tc.err, err))
		})
	}

	_, err := s.Get(ctx, "org-1")
	assert.Equal(t, errors.ErrNotFound, err)
}
