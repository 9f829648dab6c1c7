package paging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notify/internal/paging"
)

func sliceFetch(rows []int, calls *int) paging.FetchFunc[int] {
	return func(_ context.Context, limit, offset int) ([]int, error) {
		if calls != nil {
			*calls++
		}
		if offset >= len(rows) {
			return nil, nil
		}
		end := len(rows)
		if limit > 0 && offset+limit < end {
			end = offset + limit
		}
		return rows[offset:end], nil
	}
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPager_Next(t *testing.T) {
	ctx := context.Background()
	p := paging.New(10, sliceFetch(seq(23), nil))

	page, more, err := p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq(10), page)
	assert.True(t, more)

	page, more, err = p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, page)
	assert.True(t, more)

	page, more, err = p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{21, 22, 23}, page)
	assert.False(t, more)
	assert.True(t, p.Done())
	assert.Equal(t, 23, p.Offset())

	page, more, err = p.Next(ctx)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, more)
}

func TestPager_ExactMultiple(t *testing.T) {
	ctx := context.Background()
	p := paging.New(5, sliceFetch(seq(10), nil))

	_, more, err := p.Next(ctx)
	require.NoError(t, err)
	assert.True(t, more)

	page, more, err := p.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.False(t, more, "no empty trailing page")
}

func TestPager_Empty(t *testing.T) {
	p := paging.New(10, sliceFetch(nil, nil))

	page, more, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, more)
}

func TestPager_AllAndReset(t *testing.T) {
	ctx := context.Background()
	p := paging.New(10, sliceFetch(seq(15), nil))

	_, _, err := p.Next(ctx)
	require.NoError(t, err)

	all, err := p.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq(15), all, "All starts from the first row")
	assert.True(t, p.Done())

	p.Reset()
	assert.False(t, p.Done())
	page, _, err := p.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq(10), page)
}

func TestPager_DefaultSize(t *testing.T) {
	p := paging.New(0, sliceFetch(nil, nil))
	assert.Equal(t, paging.DefaultSize, p.Size())
}

func TestPager_Pages(t *testing.T) {
	calls := 0
	p := paging.New(4, sliceFetch(seq(10), &calls))

	var sizes []int
	for page, err := range p.Pages(context.Background()) {
		require.NoError(t, err)
		sizes = append(sizes, len(page))
	}
	assert.Equal(t, []int{4, 4, 2}, sizes)
	assert.Equal(t, 3, calls)
}

func TestPager_PagesStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := paging.New(4, func(context.Context, int, int) ([]int, error) {
		return nil, boom
	})

	var got []error
	for _, err := range p.Pages(context.Background()) {
		got = append(got, err)
	}
	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0], boom)
}
