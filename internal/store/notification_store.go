package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/notify/internal/model"
)

// sortedViewColumns selects a sorted row joined with its category name.
var sortedViewColumns = []string{
	"s.id", "s.title", "s.content", "s.category_id",
	"s.importance_level", "s.note", "s.notification_id",
	"COALESCE(c.name, '') AS category_name",
}

func sortedView() sq.SelectBuilder {
	return sq.Select(sortedViewColumns...).
		From("sorted s").
		LeftJoin("category c ON c.id = s.category_id")
}

// InsertUnsorted appends a raw notification and returns its id.
func (t *sqlTx) InsertUnsorted(ctx context.Context, title, content string) (int64, error) {
	result, err := t.exec(ctx, sq.Insert("unsorted").
		Columns("title", "content").
		Values(title, content))
	if err != nil {
		return 0, fmt.Errorf("inserting unsorted notification: %w", err)
	}
	return result.LastInsertId()
}

// GetUnsorted retrieves a single unsorted notification by id.
func (t *sqlTx) GetUnsorted(ctx context.Context, id int64) (model.UnsortedNotification, error) {
	var n model.UnsortedNotification
	err := t.getInto(ctx, &n, sq.Select("id", "title", "content").
		From("unsorted").
		Where(sq.Eq{"id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return n, fmt.Errorf("unsorted notification %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return n, fmt.Errorf("getting unsorted notification %d: %w", id, err)
	}
	return n, nil
}

// ListUnsorted retrieves unsorted notifications in id order. A limit of
// zero returns every row.
func (t *sqlTx) ListUnsorted(ctx context.Context, limit, offset int) ([]model.UnsortedNotification, error) {
	b := page(sq.Select("id", "title", "content").From("unsorted").OrderBy("id ASC"), limit, offset)

	var out []model.UnsortedNotification
	if err := t.selectInto(ctx, &out, b); err != nil {
		return nil, fmt.Errorf("querying unsorted notifications: %w", err)
	}
	return out, nil
}

// InsertSorted inserts a categorized notification and returns its id.
func (t *sqlTx) InsertSorted(ctx context.Context, n model.SortedNotification) (int64, error) {
	result, err := t.exec(ctx, sq.Insert("sorted").
		Columns("title", "content", "category_id", "importance_level", "note", "notification_id").
		Values(n.Title, n.Content, n.CategoryID, n.ImportanceLevel, n.Note, n.NotificationID))
	if err != nil {
		return 0, fmt.Errorf("inserting sorted notification: %w", err)
	}
	return result.LastInsertId()
}

// GetSorted retrieves a single sorted notification by id.
func (t *sqlTx) GetSorted(ctx context.Context, id int64) (model.SortedView, error) {
	var v model.SortedView
	err := t.getInto(ctx, &v, sortedView().Where(sq.Eq{"s.id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("sorted notification %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return v, fmt.Errorf("getting sorted notification %d: %w", id, err)
	}
	return v, nil
}

// ListSorted retrieves sorted notifications in id order. A limit of zero
// returns every row.
func (t *sqlTx) ListSorted(ctx context.Context, limit, offset int) ([]model.SortedView, error) {
	b := page(sortedView().OrderBy("s.id ASC"), limit, offset)

	var out []model.SortedView
	if err := t.selectInto(ctx, &out, b); err != nil {
		return nil, fmt.Errorf("querying sorted notifications: %w", err)
	}
	return out, nil
}

// ListSortedByCategory retrieves the sorted notifications filed under
// categoryID in id order.
func (t *sqlTx) ListSortedByCategory(ctx context.Context, categoryID int64) ([]model.SortedNotification, error) {
	b := sq.Select("id", "title", "content", "category_id", "importance_level", "note", "notification_id").
		From("sorted").
		Where(sq.Eq{"category_id": categoryID}).
		OrderBy("id ASC")

	var out []model.SortedNotification
	if err := t.selectInto(ctx, &out, b); err != nil {
		return nil, fmt.Errorf("querying sorted notifications for category %d: %w", categoryID, err)
	}
	return out, nil
}

// CountSortedByCategory returns how many sorted notifications reference
// categoryID.
func (t *sqlTx) CountSortedByCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	err := t.getInto(ctx, &n, sq.Select("COUNT(*)").From("sorted").Where(sq.Eq{"category_id": categoryID}))
	if err != nil {
		return 0, fmt.Errorf("counting sorted notifications for category %d: %w", categoryID, err)
	}
	return n, nil
}

// UpdateSortedNote replaces the note of a sorted notification. A nil note
// clears it.
func (t *sqlTx) UpdateSortedNote(ctx context.Context, id int64, note *string) error {
	result, err := t.exec(ctx, sq.Update("sorted").Set("note", note).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("updating note on sorted notification %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("sorted notification %d: %w", id, ErrNotFound)
	}
	return nil
}
