package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/notify/internal/model"
)

// sqlTx implements UnitOfWork on top of a sqlx transaction.
type sqlTx struct {
	tx *sqlx.Tx
}

// checkTable guards the table names that are spliced into SQL.
func checkTable(table model.Table) error {
	if _, err := model.ParseTable(string(table)); err != nil {
		return err
	}
	return nil
}

// selectInto builds b and scans every row into dest.
func (t *sqlTx) selectInto(ctx context.Context, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return t.tx.SelectContext(ctx, dest, query, args...)
}

// getInto builds b and scans exactly one row into dest.
func (t *sqlTx) getInto(ctx context.Context, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}
	return t.tx.GetContext(ctx, dest, query, args...)
}

// exec builds and runs a write statement.
func (t *sqlTx) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}
	return t.tx.ExecContext(ctx, query, args...)
}

// page applies limit/offset when limit is positive.
func page(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
		if offset > 0 {
			b = b.Offset(uint64(offset))
		}
	}
	return b
}

// Count returns the number of rows in table.
func (t *sqlTx) Count(ctx context.Context, table model.Table) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	var n int
	if err := t.getInto(ctx, &n, sq.Select("COUNT(*)").From(string(table))); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// IDs returns every id in table in ascending order.
func (t *sqlTx) IDs(ctx context.Context, table model.Table) ([]int64, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	var ids []int64
	if err := t.selectInto(ctx, &ids, sq.Select("id").From(string(table)).OrderBy("id ASC")); err != nil {
		return nil, fmt.Errorf("listing %s ids: %w", table, err)
	}
	return ids, nil
}

// DeleteRow removes the row with id from table.
func (t *sqlTx) DeleteRow(ctx context.Context, table model.Table, id int64) error {
	if err := checkTable(table); err != nil {
		return err
	}
	result, err := t.exec(ctx, sq.Delete(string(table)).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", table, id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return nil
}

// DeleteAll removes every row from table and returns how many went.
func (t *sqlTx) DeleteAll(ctx context.Context, table model.Table) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	result, err := t.exec(ctx, sq.Delete(string(table)))
	if err != nil {
		return 0, fmt.Errorf("deleting all %s: %w", table, err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// InsertCategory inserts a category and returns its id.
func (t *sqlTx) InsertCategory(ctx context.Context, name string) (int64, error) {
	result, err := t.exec(ctx, sq.Insert("category").Columns("name").Values(name))
	if err != nil {
		return 0, fmt.Errorf("creating category: %w", err)
	}
	return result.LastInsertId()
}

// GetCategory retrieves a single category by id.
func (t *sqlTx) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := t.getInto(ctx, &c, sq.Select("id", "name").From("category").Where(sq.Eq{"id": id}))
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("getting category %d: %w", id, err)
	}
	return c, nil
}

// ListCategories retrieves all categories ordered by id.
func (t *sqlTx) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := t.selectInto(ctx, &cats, sq.Select("id", "name").From("category").OrderBy("id ASC")); err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	return cats, nil
}

// ListCategoryCounts retrieves all categories with the number of sorted
// notifications filed under each.
func (t *sqlTx) ListCategoryCounts(ctx context.Context) ([]model.CategoryCount, error) {
	b := sq.Select("c.id", "c.name", "COUNT(s.id) AS notifications").
		From("category c").
		LeftJoin("sorted s ON s.category_id = c.id").
		GroupBy("c.id", "c.name").
		OrderBy("c.id ASC")

	var counts []model.CategoryCount
	if err := t.selectInto(ctx, &counts, b); err != nil {
		return nil, fmt.Errorf("querying category counts: %w", err)
	}
	return counts, nil
}
