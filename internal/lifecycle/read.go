package lifecycle

import (
	"context"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/paging"
	"github.com/nhle/notify/internal/store"
)

// Categories lists every category with its number of sorted notifications.
func (e *Engine) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	var out []model.CategoryCount
	err := e.run(ctx, "list categories", func(uow store.UnitOfWork) error {
		var err error
		out, err = uow.ListCategoryCounts(ctx)
		return err
	})
	return out, err
}

// Unsorted lists every unsorted notification.
func (e *Engine) Unsorted(ctx context.Context) ([]model.UnsortedNotification, error) {
	return e.UnsortedPages(0).All(ctx)
}

// Sorted lists every sorted notification with its category name.
func (e *Engine) Sorted(ctx context.Context) ([]model.SortedView, error) {
	return e.SortedPages(0).All(ctx)
}

// GetUnsorted returns one unsorted notification.
func (e *Engine) GetUnsorted(ctx context.Context, id int64) (model.UnsortedNotification, error) {
	var out model.UnsortedNotification
	err := e.run(ctx, "get unsorted", func(uow store.UnitOfWork) error {
		var err error
		out, err = uow.GetUnsorted(ctx, id)
		return notFound(err, "unsorted notification", id)
	})
	return out, err
}

// GetSorted returns one sorted notification with its category name.
func (e *Engine) GetSorted(ctx context.Context, id int64) (model.SortedView, error) {
	var out model.SortedView
	err := e.run(ctx, "get sorted", func(uow store.UnitOfWork) error {
		var err error
		out, err = uow.GetSorted(ctx, id)
		return notFound(err, "sorted notification", id)
	})
	return out, err
}

// UnsortedPages returns a pager over unsorted notifications.
func (e *Engine) UnsortedPages(size int) *paging.Pager[model.UnsortedNotification] {
	return paging.New(size, func(ctx context.Context, limit, offset int) ([]model.UnsortedNotification, error) {
		var out []model.UnsortedNotification
		err := e.run(ctx, "list unsorted", func(uow store.UnitOfWork) error {
			var err error
			out, err = uow.ListUnsorted(ctx, limit, offset)
			return err
		})
		return out, err
	})
}

// SortedPages returns a pager over sorted notifications.
func (e *Engine) SortedPages(size int) *paging.Pager[model.SortedView] {
	return paging.New(size, func(ctx context.Context, limit, offset int) ([]model.SortedView, error) {
		var out []model.SortedView
		err := e.run(ctx, "list sorted", func(uow store.UnitOfWork) error {
			var err error
			out, err = uow.ListSorted(ctx, limit, offset)
			return err
		})
		return out, err
	})
}

// Counts returns the number of rows in each table.
func (e *Engine) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := e.run(ctx, "count", func(uow store.UnitOfWork) error {
		var err error
		if c.Categories, err = uow.Count(ctx, model.TableCategory); err != nil {
			return err
		}
		if c.Unsorted, err = uow.Count(ctx, model.TableUnsorted); err != nil {
			return err
		}
		c.Sorted, err = uow.Count(ctx, model.TableSorted)
		return err
	})
	return c, err
}

// Snapshot reads every table in one unit of work.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := e.run(ctx, "snapshot", func(uow store.UnitOfWork) error {
		var err error
		if s.Categories, err = uow.ListCategoryCounts(ctx); err != nil {
			return err
		}
		if s.Unsorted, err = uow.ListUnsorted(ctx, 0, 0); err != nil {
			return err
		}
		s.Sorted, err = uow.ListSorted(ctx, 0, 0)
		return err
	})
	return s, err
}
