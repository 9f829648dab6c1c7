// Package paging walks an ordered result set a fixed number of rows at a
// time.
package paging

import (
	"context"
	"iter"
)

// DefaultSize is used when a pager is created with a non-positive size.
const DefaultSize = 10

// FetchFunc loads up to limit rows starting at offset. A limit of zero
// must return every row.
type FetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Pager hands out consecutive pages from a FetchFunc. It keeps only the
// current offset; rows are never cached, so a page always reflects the
// data at the time Next is called.
type Pager[T any] struct {
	fetch  FetchFunc[T]
	size   int
	offset int
	done   bool
}

// New returns a pager that yields pages of size rows.
func New[T any](size int, fetch FetchFunc[T]) *Pager[T] {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pager[T]{fetch: fetch, size: size}
}

// Size returns the page size.
func (p *Pager[T]) Size() int { return p.size }

// Offset returns how many rows have been handed out so far.
func (p *Pager[T]) Offset() int { return p.offset }

// Done reports whether the last page has been handed out.
func (p *Pager[T]) Done() bool { return p.done }

// Next returns the next page and whether more rows follow it. Once the
// result set is exhausted Next returns an empty page and false.
func (p *Pager[T]) Next(ctx context.Context) ([]T, bool, error) {
	if p.done {
		return nil, false, nil
	}

	// One extra row tells us whether another page exists.
	rows, err := p.fetch(ctx, p.size+1, p.offset)
	if err != nil {
		return nil, false, err
	}

	more := len(rows) > p.size
	if more {
		rows = rows[:p.size]
	}
	p.offset += len(rows)
	p.done = !more
	return rows, more, nil
}

// All returns every row from the start of the result set and marks the
// pager as exhausted.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	rows, err := p.fetch(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	p.offset = len(rows)
	p.done = true
	return rows, nil
}

// Reset rewinds the pager to the first page.
func (p *Pager[T]) Reset() {
	p.offset = 0
	p.done = false
}

// Pages iterates over the remaining pages. Iteration stops after the
// first error, which is yielded with a nil page.
func (p *Pager[T]) Pages(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for !p.done {
			rows, _, err := p.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(rows) == 0 {
				return
			}
			if !yield(rows, nil) {
				return
			}
		}
	}
}
