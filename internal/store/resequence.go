package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/notify/internal/model"
)

// Resequence renumbers the ids of table to 1..count, keeping ascending id
// order. Rows are moved in ascending order; the target id of each row is
// never greater than its current id and every lower slot is already
// settled, so no step collides with an existing key.
func (t *sqlTx) Resequence(ctx context.Context, table model.Table) error {
	ids, err := t.IDs(ctx, table)
	if err != nil {
		return err
	}

	for i, id := range ids {
		want := int64(i + 1)
		if id == want {
			continue
		}
		_, err := t.exec(ctx, sq.Update(string(table)).
			Set("id", want).
			Where(sq.Eq{"id": id}))
		if err != nil {
			return fmt.Errorf("resequencing %s %d -> %d: %w", table, id, want, err)
		}
	}

	return nil
}

// ShiftCategoryRefs decrements category_id on sorted rows that pointed
// above the removed category. It must run after the category table has
// been resequenced.
func (t *sqlTx) ShiftCategoryRefs(ctx context.Context, removedID int64) (int64, error) {
	result, err := t.exec(ctx, sq.Update("sorted").
		Set("category_id", sq.Expr("category_id - 1")).
		Where(sq.Gt{"category_id": removedID}))
	if err != nil {
		return 0, fmt.Errorf("shifting category references above %d: %w", removedID, err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
