package store

import (
	"context"
	"errors"

	"github.com/nhle/notify/internal/model"
)

// ErrNotFound is wrapped by every lookup, update, or delete that matches
// no row.
var ErrNotFound = errors.New("not found")

// ErrForeignKey is returned by WithTx when the work would leave a row
// referencing a missing parent. The transaction is rolled back.
var ErrForeignKey = errors.New("foreign key violation")

// UnitOfWork exposes every data operation against a single open
// transaction. Callers obtain one from Store.WithTx and must not keep it
// after the callback returns.
type UnitOfWork interface {
	// === Generic table helpers ===

	Count(ctx context.Context, table model.Table) (int, error)
	IDs(ctx context.Context, table model.Table) ([]int64, error)
	DeleteRow(ctx context.Context, table model.Table, id int64) error
	DeleteAll(ctx context.Context, table model.Table) (int64, error)

	// === Categories ===

	InsertCategory(ctx context.Context, name string) (int64, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListCategoryCounts(ctx context.Context) ([]model.CategoryCount, error)

	// === Unsorted notifications ===

	InsertUnsorted(ctx context.Context, title, content string) (int64, error)
	GetUnsorted(ctx context.Context, id int64) (model.UnsortedNotification, error)
	ListUnsorted(ctx context.Context, limit, offset int) ([]model.UnsortedNotification, error)

	// === Sorted notifications ===

	InsertSorted(ctx context.Context, n model.SortedNotification) (int64, error)
	GetSorted(ctx context.Context, id int64) (model.SortedView, error)
	ListSorted(ctx context.Context, limit, offset int) ([]model.SortedView, error)
	ListSortedByCategory(ctx context.Context, categoryID int64) ([]model.SortedNotification, error)
	CountSortedByCategory(ctx context.Context, categoryID int64) (int, error)
	UpdateSortedNote(ctx context.Context, id int64, note *string) error

	// === Sequencing ===

	// Resequence renumbers table's ids to 1..count in ascending id order.
	// It never touches foreign keys.
	Resequence(ctx context.Context, table model.Table) error

	// ShiftCategoryRefs decrements category_id on every sorted row whose
	// category_id is greater than removedID and returns the rows changed.
	ShiftCategoryRefs(ctx context.Context, removedID int64) (int64, error)
}

// Store defines the persistence handle for notifications and categories.
type Store interface {
	// WithTx runs fn inside one transaction. The transaction commits when
	// fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(UnitOfWork) error) error

	// Initialize applies pending migrations and seeds defaults into an
	// empty category table. It returns the number of categories seeded.
	Initialize(ctx context.Context, defaults []string) (int, error)

	// Teardown drops every table.
	Teardown(ctx context.Context) error

	Close() error
}
